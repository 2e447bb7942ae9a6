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

type AuthController struct {
	Log         *zap.Logger
	AuthUsecase contracts.AuthUsecase
}

var (
	authControllerInstance *AuthController
	onceAuthController     sync.Once
)

func NewAuthController(logger *zap.Logger, authUsecase contracts.AuthUsecase) *AuthController {
	onceAuthController.Do(func() {
		authControllerInstance = &AuthController{
			Log:         logger,
			AuthUsecase: authUsecase,
		}
	})
	return authControllerInstance
}

func (ctrl *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	request := new(requests.Login)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.AuthUsecase.Login(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccess, response)
}

func (ctrl *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewares.GetSession(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.AuthUsecase.Logout(ctx, session.SessionID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LogoutSuccess, nil)
}
