package controllers

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/delivery/http/middlewares"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type UserController struct {
	Log         *zap.Logger
	UserUsecase contracts.UserUsecase
}

var (
	userControllerInstance *UserController
	onceUserController     sync.Once
)

func NewUserController(logger *zap.Logger, userUsecase contracts.UserUsecase) *UserController {
	onceUserController.Do(func() {
		userControllerInstance = &UserController{
			Log:         logger,
			UserUsecase: userUsecase,
		}
	})
	return userControllerInstance
}

func (ctrl *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateUser)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.UserUsecase.CreateUser(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "user_created", requestIDFrom(r), "info",
		zap.String(constvars.LoggingUserIDKey, response.ID),
		zap.String("role", response.Role),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.UserCreatedSuccess, response)
}

func (ctrl *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	pagination := utils.BuildPaginationRequest(r)
	request := &requests.ListUsers{
		Role:       r.URL.Query().Get(constvars.QueryParamRole),
		Pagination: *pagination,
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, total, err := ctrl.UserUsecase.ListUsers(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	paginationData := utils.BuildPaginationResponse(total, pagination.Page, pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.UsersFetchedSuccess, paginationData, response)
}

func (ctrl *UserController) SetUserActive(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewares.GetSession(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}
	userID, err := uuidParam(r, constvars.URLParamID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.SetUserActive)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ActorID = session.UserID
	request.UserID = userID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.UserUsecase.SetUserActive(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "user_active_changed", requestIDFrom(r), "info",
		zap.String(constvars.LoggingUserIDKey, userID),
		zap.Bool("is_active", response.IsActive),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UserUpdatedSuccess, response)
}
