package controllers

import (
	"context"
	"errors"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

func requestIDFrom(r *http.Request) string {
	return utils.GetRequestID(r.Context())
}

func writeError(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}

func jsonBody(r *http.Request, request interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

// decodeAndValidate parses the JSON body into request, normalizes it and runs the validator tags.
func decodeAndValidate(r *http.Request, request interface{}) error {
	if err := jsonBody(r, request); err != nil {
		return err
	}
	sanitize(request)
	if err := utils.ValidateStruct(request); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}

func sanitize(request interface{}) {
	switch req := request.(type) {
	case *requests.InitiateCheckout:
		utils.SanitizeInitiateCheckoutRequest(req)
	case *requests.RetrieveSession:
		utils.SanitizeRetrieveSessionRequest(req)
	case *requests.ResumeCheckout:
		utils.SanitizeResumeCheckoutRequest(req)
	case *requests.ConfirmOrder:
		utils.SanitizeConfirmOrderRequest(req)
	case *requests.Login:
		utils.SanitizeLoginRequest(req)
	case *requests.CreateUser:
		utils.SanitizeCreateUserRequest(req)
	case *requests.RegisterProvider:
		utils.SanitizeRegisterProviderRequest(req)
	}
}

func uuidParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if err := utils.ValidateUrlParamID(value); err != nil {
		return "", exceptions.ErrURLParamValidation(err, name)
	}
	return value, nil
}

func requireGuestID(r *http.Request) (string, error) {
	guestID := utils.GetGuestID(r)
	if guestID == "" {
		return "", exceptions.ErrGuestIDRequired(nil)
	}
	return guestID, nil
}
