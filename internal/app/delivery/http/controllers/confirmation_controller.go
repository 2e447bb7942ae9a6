package controllers

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ConfirmationController struct {
	Log                 *zap.Logger
	ConfirmationUsecase contracts.ConfirmationUsecase
}

var (
	confirmationControllerInstance *ConfirmationController
	onceConfirmationController     sync.Once
)

func NewConfirmationController(logger *zap.Logger, confirmationUsecase contracts.ConfirmationUsecase) *ConfirmationController {
	onceConfirmationController.Do(func() {
		confirmationControllerInstance = &ConfirmationController{
			Log:                 logger,
			ConfirmationUsecase: confirmationUsecase,
		}
	})
	return confirmationControllerInstance
}

func (ctrl *ConfirmationController) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFrom(r)

	request := new(requests.ConfirmOrder)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.GuestID = utils.GetGuestID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.ConfirmationUsecase.ConfirmOrder(ctx, request)
	if err != nil {
		ctrl.Log.Error("ConfirmationController.ConfirmOrder error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCheckoutSessionIDKey, request.CheckoutSessionID),
			zap.String(constvars.LoggingPaymentReferenceKey, request.Reference),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "order_confirmed", requestID,
		zap.String(constvars.LoggingCheckoutSessionIDKey, response.CheckoutSessionID),
		zap.String(constvars.LoggingTrackingCodeKey, response.TrackingCode),
		zap.String("confirmation_status", response.Status),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, confirmationMessage(response), response)
}

func confirmationMessage(response *responses.Confirmation) string {
	switch response.Status {
	case constvars.ConfirmationStatusAwaitingVerify:
		return constvars.OrderAwaitingVerification
	case constvars.ConfirmationStatusAwaitingPayment:
		return constvars.OrderAwaitingPayment
	}
	return constvars.OrderConfirmedSuccess
}

func (ctrl *ConfirmationController) TrackOrders(w http.ResponseWriter, r *http.Request) {
	trackingCode := chi.URLParam(r, constvars.URLParamTrackingCode)
	if !utils.IsValidTrackingCode(trackingCode) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, constvars.URLParamTrackingCode))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ConfirmationUsecase.TrackOrders(ctx, trackingCode)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrdersTrackedSuccess, response)
}
