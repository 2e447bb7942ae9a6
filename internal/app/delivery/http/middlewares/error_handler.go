package middlewares

import (
	"fmt"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// ErrorHandler answers a panicking handler with a 500. http.ErrAbortHandler passes through
// so the server still drops the connection.
func (m *Middlewares) ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			m.Log.Error("Middlewares.ErrorHandler recovered from panic",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.Error(err),
				zap.Stack("stack"),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
		}()
		next.ServeHTTP(w, r)
	})
}
