package utils

import (
	"errors"
	"fmt"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildPaginationResponse(total, page, pageSize int, baseURL string) *responses.Pagination {
	pagination := &responses.Pagination{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	if page*pageSize < total {
		pagination.NextURL = fmt.Sprintf(constvars.AppPaginationUrlFormat, baseURL, page+1, pageSize)
	}
	if page > 1 {
		pagination.PrevURL = fmt.Sprintf(constvars.AppPaginationUrlFormat, baseURL, page-1, pageSize)
	}

	return pagination
}

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	writeJSON(w, code, responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func BuildSuccessResponseWithPagination(w http.ResponseWriter, code int, message string, pagination *responses.Pagination, data interface{}) {
	writeJSON(w, code, responses.ResponseDTO{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// exposeErrorDetails is read once from APP_ENV; outside production error bodies carry the
// developer message and call sites.
var exposeErrorDetails = sync.OnceValue(func() bool {
	return GetEnvString("APP_ENV", "development") != "production"
})

// BuildErrorResponse writes err as the JSON error body. Client errors such as an empty cart
// or a missing prescription log at warn level, everything else at error.
func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	response := exceptions.CustomError{
		StatusCode:    constvars.StatusInternalServerError,
		ClientMessage: constvars.ErrClientSomethingWrongWithApplication,
	}

	devMessage := err.Error()
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		response.StatusCode = customErr.StatusCode
		response.ClientMessage = customErr.ClientMessage
		devMessage = customErr.DevMessage
		if exposeErrorDetails() {
			response.DevMessage = customErr.DevMessage
			response.Locations = customErr.Locations
		}
	}

	fields := []zap.Field{zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode)}
	if customErr != nil && len(customErr.Locations) > 0 {
		fields = append(fields, zap.Any("locations", customErr.Locations))
	}
	if response.StatusCode < constvars.StatusInternalServerError {
		log.Warn(devMessage, fields...)
	} else {
		log.Error(devMessage, fields...)
	}

	writeJSON(w, response.StatusCode, response)
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
