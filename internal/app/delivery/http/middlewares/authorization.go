package middlewares

import (
	"fmt"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authorize checks the session role against the casbin policy. Policy paths are written
// without the /<prefix>/<version> part, so it is stripped before enforcing.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		session, ok := GetSession(r.Context())
		if !ok {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		path := m.policyPath(r.URL.Path)
		allowed, err := m.Authorizer.IsAllowed(session.Role, path, r.Method)
		if err != nil {
			m.Log.Error("Middlewares.Authorize error enforcing policy",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
			return
		}
		if !allowed {
			utils.LogSecurityEvent(m.Log, "access_denied", requestID, "warning",
				zap.String(constvars.LoggingUserIDKey, session.UserID),
				zap.String("role", session.Role),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrRoleNotPermitted(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middlewares) policyPath(path string) string {
	prefix := fmt.Sprintf("/%s/%s", m.InternalConfig.App.EndpointPrefix, m.InternalConfig.App.Version)
	trimmed := strings.TrimPrefix(path, prefix)
	if trimmed == "" {
		return "/"
	}
	return strings.TrimSuffix(trimmed, "/")
}
