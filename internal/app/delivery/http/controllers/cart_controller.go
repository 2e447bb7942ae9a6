package controllers

import (
	"context"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

type CartController struct {
	Log            *zap.Logger
	CartUsecase    contracts.CartUsecase
	InternalConfig *config.InternalConfig
}

var (
	cartControllerInstance *CartController
	onceCartController     sync.Once
)

func NewCartController(logger *zap.Logger, cartUsecase contracts.CartUsecase, internalConfig *config.InternalConfig) *CartController {
	onceCartController.Do(func() {
		cartControllerInstance = &CartController{
			Log:            logger,
			CartUsecase:    cartUsecase,
			InternalConfig: internalConfig,
		}
	})
	return cartControllerInstance
}

// AddItem creates the guest cart on first use and returns the guest id in the x-guest-id header.
func (ctrl *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	request := new(requests.AddCartItem)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.GuestID = utils.GetGuestID(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CartUsecase.AddItem(ctx, request)
	if err != nil {
		ctrl.Log.Error("CartController.AddItem error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingItemIDKey, request.ItemID),
			zap.Error(err),
		)
		writeError(ctrl.Log, w, err)
		return
	}

	w.Header().Set(constvars.HeaderXGuestID, response.GuestID)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CartItemAddedSuccess, response)
}

func (ctrl *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	guestID, err := requireGuestID(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CartUsecase.GetCart(ctx, guestID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CartFetchedSuccess, response)
}

func (ctrl *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	guestID, err := requireGuestID(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	orderItemID, err := uuidParam(r, constvars.URLParamItemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdateCartItem)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.GuestID = guestID
	request.OrderItemID = orderItemID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CartUsecase.UpdateItem(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CartItemUpdatedSuccess, response)
}

func (ctrl *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	guestID, err := requireGuestID(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	orderItemID, err := uuidParam(r, constvars.URLParamItemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CartUsecase.RemoveItem(ctx, &requests.RemoveCartItem{GuestID: guestID, OrderItemID: orderItemID})
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CartItemRemovedSuccess, response)
}

func (ctrl *CartController) UpdateItemSchedule(w http.ResponseWriter, r *http.Request) {
	guestID, err := requireGuestID(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	orderItemID, err := uuidParam(r, constvars.URLParamItemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdateCartItemSchedule)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.GuestID = guestID
	request.OrderItemID = orderItemID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CartUsecase.UpdateItemSchedule(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CartItemScheduledSuccess, response)
}

func (ctrl *CartController) GetAvailableTimeSlots(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuidParam(r, constvars.URLParamProviderID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	loc, err := time.LoadLocation(ctrl.InternalConfig.App.Timezone)
	if err != nil {
		loc = time.UTC
	}
	date, err := utils.ParseOptionalDateQuery(r, constvars.QueryParamDate, loc)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseDate(err))
		return
	}

	request := &requests.GetTimeSlots{
		ProviderID:      providerID,
		ItemID:          r.URL.Query().Get(constvars.QueryParamItemID),
		FulfillmentType: r.URL.Query().Get(constvars.QueryParamFulfillmentType),
		Date:            date,
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CartUsecase.GetAvailableTimeSlots(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.TimeSlotsFetchedSuccess, response)
}
