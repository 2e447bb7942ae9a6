package middlewares

import (
	"context"
	"crypto/subtle"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// APIKeyAuth turns a valid x-api-key header into a superadmin session. Requests without the
// header pass through untouched so Authenticate can handle bearer tokens.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)

		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		expected := m.InternalConfig.App.SuperadminAPIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			utils.LogSecurityEvent(m.Log, "invalid_api_key", requestID, "warning",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		session := &models.Session{
			SessionID: constvars.APIKeySuperadminID,
			UserID:    constvars.APIKeySuperadminID,
			Role:      constvars.RoleSuperadmin,
		}
		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH_KEY, true)
		ctx = context.WithValue(ctx, constvars.CONTEXT_SESSION_DATA_KEY, session)

		m.Log.Info("API Key authentication successful",
			zap.String("ip", r.RemoteAddr),
			zap.String("endpoint", r.URL.Path),
			zap.String("method", r.Method),
			zap.String("user_agent", r.UserAgent()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isAPIKeyAuth(ctx context.Context) bool {
	apiKeyAuth, ok := ctx.Value(constvars.CONTEXT_API_KEY_AUTH_KEY).(bool)
	return ok && apiKeyAuth
}
