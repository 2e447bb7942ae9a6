package controllers

import (
	"context"
	"errors"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Log             *zap.Logger
	CheckoutUsecase contracts.CheckoutUsecase
	InternalConfig  *config.InternalConfig
}

var (
	checkoutControllerInstance *CheckoutController
	onceCheckoutController     sync.Once
)

func NewCheckoutController(logger *zap.Logger, checkoutUsecase contracts.CheckoutUsecase, internalConfig *config.InternalConfig) *CheckoutController {
	onceCheckoutController.Do(func() {
		checkoutControllerInstance = &CheckoutController{
			Log:             logger,
			CheckoutUsecase: checkoutUsecase,
			InternalConfig:  internalConfig,
		}
	})
	return checkoutControllerInstance
}

// InitiateCheckout accepts either a JSON body or a multipart form carrying the prescription
// file. Multipart contact details come from the "payload" JSON field or plain form fields.
func (ctrl *CheckoutController) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFrom(r)

	guestID, err := requireGuestID(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.InitiateCheckout)
	if strings.HasPrefix(r.Header.Get(constvars.HeaderContentType), constvars.MIMEMultipartForm) {
		file, err := ctrl.parseMultipartCheckout(r, request)
		if err != nil {
			ctrl.Log.Error("CheckoutController.InitiateCheckout error parsing multipart form",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		if file != nil {
			defer file.Close()
		}
	} else if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	request.GuestID = guestID
	request.IdempotencyKey = r.Header.Get(constvars.HeaderIdempotencyKey)
	sanitize(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	// the gateway call has its own timeout; this one bounds the whole transaction.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.InitiateCheckout(ctx, request)
	if err != nil {
		ctrl.Log.Error("CheckoutController.InitiateCheckout error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, guestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "checkout_initiated", requestID,
		zap.String(constvars.LoggingGuestIDKey, guestID),
		zap.String(constvars.LoggingCheckoutSessionIDKey, response.CheckoutSessionID),
		zap.String("checkout_status", response.Status),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, checkoutMessage(response), response)
}

func (ctrl *CheckoutController) parseMultipartCheckout(r *http.Request, request *requests.InitiateCheckout) (multipart.File, error) {
	maxSize := ctrl.InternalConfig.Checkout.PrescriptionMaxUploadSizeInMB
	if err := r.ParseMultipartForm(maxSize << 20); err != nil {
		return nil, exceptions.ErrCannotParseMultipartForm(err)
	}

	if payload := r.FormValue(constvars.FormFieldPayload); payload != "" {
		if err := json.Unmarshal([]byte(payload), request); err != nil {
			return nil, exceptions.ErrCannotParseJSON(err)
		}
	} else {
		request.Email = r.FormValue("email")
		request.Phone = r.FormValue("phone")
		request.DeliveryAddress = r.FormValue("deliveryAddress")
	}

	file, header, err := r.FormFile(constvars.FormFieldPrescription)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, exceptions.ErrCannotParseMultipartForm(err)
	}
	if header.Size > maxSize<<20 {
		file.Close()
		return nil, exceptions.ErrFileTooLarge(nil)
	}
	if err := utils.ValidatePrescriptionFile(header, maxSize); err != nil {
		file.Close()
		return nil, exceptions.ErrInputValidation(err)
	}

	request.PrescriptionFile = &requests.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get(constvars.HeaderContentType),
		Size:        header.Size,
		Content:     file,
	}
	return file, nil
}

func checkoutMessage(response *responses.Checkout) string {
	if response.Status == constvars.CheckoutStatusAwaitingPrescription {
		return constvars.CheckoutAwaitingPrescription
	}
	return constvars.CheckoutInitiatedSuccess
}

func (ctrl *CheckoutController) RetrieveSession(w http.ResponseWriter, r *http.Request) {
	request := new(requests.RetrieveSession)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.RetrieveSession(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	w.Header().Set(constvars.HeaderXGuestID, response.GuestID)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SessionRetrievedSuccess, response)
}

func (ctrl *CheckoutController) ResumeCheckout(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)
	guestID, err := requireGuestID(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	orderID, err := uuidParam(r, constvars.URLParamOrderID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ResumeCheckout)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.GuestID = guestID
	request.OrderID = orderID

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.ResumeCheckout(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "checkout_resumed", requestID,
		zap.String(constvars.LoggingOrderIDKey, orderID),
		zap.String(constvars.LoggingCheckoutSessionIDKey, response.CheckoutSessionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CheckoutResumedSuccess, response)
}

func (ctrl *CheckoutController) PartialCheckout(w http.ResponseWriter, r *http.Request) {
	request, err := partialCheckoutRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.PartialCheckout(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "partial_checkout_initiated", requestIDFrom(r),
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
		zap.String(constvars.LoggingCheckoutSessionIDKey, response.CheckoutSessionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PartialCheckoutSuccess, response)
}

func (ctrl *CheckoutController) CancelPartialCheckout(w http.ResponseWriter, r *http.Request) {
	request, err := partialCheckoutRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.CancelPartialCheckout(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PartialCheckoutCancelled, response)
}

func partialCheckoutRequest(r *http.Request) (*requests.PartialCheckout, error) {
	guestID, err := requireGuestID(r)
	if err != nil {
		return nil, err
	}
	orderID, err := uuidParam(r, constvars.URLParamOrderID)
	if err != nil {
		return nil, err
	}
	return &requests.PartialCheckout{GuestID: guestID, OrderID: orderID}, nil
}
