package middlewares

import (
	"context"
	"errors"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"
)

// Authenticate resolves the bearer token into a stored session.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPIKeyAuth(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		sessionID, err := utils.ParseJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		session, err := m.AuthUsecase.GetSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerDeadlineExceeded(err))
				return
			}
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, session)))
	})
}

// GetSession returns the session attached by Authenticate or APIKeyAuth.
func GetSession(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
	return session, ok && session != nil
}
