package controllers

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/delivery/http/middlewares"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type ProviderController struct {
	Log             *zap.Logger
	ProviderUsecase contracts.ProviderUsecase
}

var (
	providerControllerInstance *ProviderController
	onceProviderController     sync.Once
)

func NewProviderController(logger *zap.Logger, providerUsecase contracts.ProviderUsecase) *ProviderController {
	onceProviderController.Do(func() {
		providerControllerInstance = &ProviderController{
			Log:             logger,
			ProviderUsecase: providerUsecase,
		}
	})
	return providerControllerInstance
}

// staffSession returns the caller's session when it belongs to provider staff.
func staffSession(r *http.Request) (*models.Session, error) {
	session, ok := middlewares.GetSession(r.Context())
	if !ok {
		return nil, exceptions.ErrTokenMissing(nil)
	}
	if session.Role != constvars.RoleProviderStaff || session.ProviderID == "" {
		return nil, exceptions.ErrRoleNotPermitted(nil)
	}
	return session, nil
}

func (ctrl *ProviderController) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	request := new(requests.RegisterProvider)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.RegisterProvider(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "provider_registered", requestID,
		zap.String(constvars.LoggingProviderIDKey, response.ID),
		zap.String("provider_kind", response.Kind),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ProviderRegisteredSuccess, response)
}

func (ctrl *ProviderController) ReviewProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuidParam(r, constvars.URLParamID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ReviewProvider)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ProviderID = providerID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.ReviewProvider(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ProviderReviewedSuccess, response)
}

func (ctrl *ProviderController) SetProviderActive(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuidParam(r, constvars.URLParamID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.SetActive)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.SetProviderActive(ctx, providerID, *request.IsActive)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ProviderUpdatedSuccess, response)
}

func (ctrl *ProviderController) ListOfferings(w http.ResponseWriter, r *http.Request) {
	session, err := staffSession(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.ListOfferings(ctx, session.ProviderID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OfferingsFetchedSuccess, response)
}

func (ctrl *ProviderController) UpsertOffering(w http.ResponseWriter, r *http.Request) {
	session, err := staffSession(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpsertOffering)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ProviderID = session.ProviderID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.UpsertOffering(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OfferingSavedSuccess, response)
}

// UpdateOffering takes the item id from the path; a body itemId is overwritten.
func (ctrl *ProviderController) UpdateOffering(w http.ResponseWriter, r *http.Request) {
	session, err := staffSession(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	itemID, err := uuidParam(r, constvars.URLParamItemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpsertOffering)
	if err := jsonBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ItemID = itemID
	request.ProviderID = session.ProviderID
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.UpdateOffering(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OfferingSavedSuccess, response)
}

func (ctrl *ProviderController) DeleteOffering(w http.ResponseWriter, r *http.Request) {
	session, err := staffSession(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	itemID, err := uuidParam(r, constvars.URLParamItemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.ProviderUsecase.DeleteOffering(ctx, session.ProviderID, itemID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OfferingDeletedSuccess, nil)
}

// ListOrders scopes staff to their own provider. Admins pick a provider with ?providerId=.
func (ctrl *ProviderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewares.GetSession(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	providerID := session.ProviderID
	if session.Role != constvars.RoleProviderStaff {
		providerID = r.URL.Query().Get(constvars.QueryParamProviderID)
		if err := utils.ValidateUrlParamID(providerID); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.QueryParamProviderID))
			return
		}
	}

	pagination := utils.BuildPaginationRequest(r)
	request := &requests.ListProviderOrders{
		ProviderID: providerID,
		Status:     r.URL.Query().Get(constvars.QueryParamStatus),
		Pagination: *pagination,
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, total, err := ctrl.ProviderUsecase.ListOrders(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	paginationData := utils.BuildPaginationResponse(total, pagination.Page, pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.ProviderOrdersFetchedSuccess, paginationData, response)
}

func (ctrl *ProviderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)
	session, ok := middlewares.GetSession(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}
	orderID, err := uuidParam(r, constvars.URLParamOrderID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdateOrderStatus)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.OrderID = orderID
	request.ActorID = session.UserID
	request.ActorRole = session.Role
	if session.Role == constvars.RoleProviderStaff {
		request.ProviderID = session.ProviderID
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.UpdateOrderStatus(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "order_status_updated", requestID,
		zap.String(constvars.LoggingOrderIDKey, orderID),
		zap.String(constvars.LoggingOrderStatusKey, response.Status),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderStatusUpdatedSuccess, response)
}

func (ctrl *ProviderController) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	session, err := staffSession(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.RegisterDeviceToken)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ProviderID = session.ProviderID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.RegisterDeviceToken(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeviceTokenRegisteredSuccess, response)
}
