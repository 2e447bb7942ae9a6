package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/core/roles"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAPIKey = "test-superadmin-api-key-12345"
	testSecret = "test-secret"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Login(ctx context.Context, request *requests.Login) (*responses.Login, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.Login), args.Error(1)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockAuthUsecase) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func newTestMiddlewares(t *testing.T, authUsecase *mockAuthUsecase) *Middlewares {
	t.Helper()
	authorizer, err := roles.NewAuthorizer()
	require.NoError(t, err)
	return &Middlewares{
		Log:         zap.NewNop(),
		AuthUsecase: authUsecase,
		Authorizer:  authorizer,
		InternalConfig: &config.InternalConfig{
			App: config.App{
				EndpointPrefix:   "api",
				Version:          "v1",
				SuperadminAPIKey: testAPIKey,
			},
			JWT: config.AppJWT{Secret: testSecret},
		},
	}
}

func sessionEcho(t *testing.T, role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		require.True(t, ok, "session should be set in context")
		assert.Equal(t, role, session.Role)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	middlewares := newTestMiddlewares(t, new(mockAuthUsecase))

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(sessionEcho(t, constvars.RoleSuperadmin)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Missing API Key passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
		called := false
		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := GetSession(r.Context())
			assert.False(t, ok)
		})).ServeHTTP(rr, req)

		assert.True(t, called)
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set(constvars.HeaderAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(sessionEcho(t, constvars.RoleSuperadmin)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthenticate(t *testing.T) {
	authUsecase := new(mockAuthUsecase)
	middlewares := newTestMiddlewares(t, authUsecase)

	token, err := utils.GenerateSessionJWT("session-1", testSecret, 1)
	require.NoError(t, err)
	authUsecase.On("GetSession", mock.Anything, "session-1").
		Return(&models.Session{SessionID: "session-1", UserID: "u-1", Role: constvars.RoleAdmin}, nil)

	t.Run("Valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rr := httptest.NewRecorder()
		middlewares.Authenticate(sessionEcho(t, constvars.RoleAdmin)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		rr := httptest.NewRecorder()
		middlewares.Authenticate(sessionEcho(t, constvars.RoleAdmin)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		forged, err := utils.GenerateSessionJWT("session-1", "other-secret", 1)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+forged)
		rr := httptest.NewRecorder()
		middlewares.Authenticate(sessionEcho(t, constvars.RoleAdmin)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Session gone", func(t *testing.T) {
		stale, err := utils.GenerateSessionJWT("session-2", testSecret, 1)
		require.NoError(t, err)
		authUsecase.On("GetSession", mock.Anything, "session-2").Return(nil, exceptions.ErrTokenInvalidOrExpired(nil))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+stale)
		rr := httptest.NewRecorder()
		middlewares.Authenticate(sessionEcho(t, constvars.RoleAdmin)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthorize(t *testing.T) {
	middlewares := newTestMiddlewares(t, new(mockAuthUsecase))

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"admin lists users", constvars.RoleAdmin, http.MethodGet, "/api/v1/admin/users", http.StatusOK},
		{"superadmin inherits admin", constvars.RoleSuperadmin, http.MethodPut, "/api/v1/admin/prescriptions/abc/review", http.StatusOK},
		{"staff manages offerings", constvars.RoleProviderStaff, http.MethodPost, "/api/v1/back-office/offerings", http.StatusOK},
		{"staff cannot reach admin", constvars.RoleProviderStaff, http.MethodGet, "/api/v1/admin/users", http.StatusForbidden},
		{"admin reviews provider", constvars.RoleAdmin, http.MethodPut, "/api/v1/providers/abc/review", http.StatusOK},
		{"staff cannot review provider", constvars.RoleProviderStaff, http.MethodPut, "/api/v1/providers/abc/review", http.StatusForbidden},
		{"admin cannot register device tokens", constvars.RoleAdmin, http.MethodPost, "/api/v1/back-office/device-tokens", http.StatusForbidden},
		{"unknown role", "guest", http.MethodGet, "/api/v1/back-office/orders", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			ctx := context.WithValue(req.Context(), constvars.CONTEXT_SESSION_DATA_KEY, &models.Session{UserID: "u-1", Role: tc.role})
			rr := httptest.NewRecorder()
			middlewares.Authorize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rr, req.WithContext(ctx))
			assert.Equal(t, tc.want, rr.Code)
		})
	}

	t.Run("No session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		rr := httptest.NewRecorder()
		middlewares.Authorize(http.NotFoundHandler()).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, time.Minute, zap.NewNop())
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:4321"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:1234"))
}

func TestRequestIDAndErrorHandler(t *testing.T) {
	middlewares := newTestMiddlewares(t, new(mockAuthUsecase))

	t.Run("Generates request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			assert.NotEmpty(t, requestID)
		})).ServeHTTP(rr, req)
		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Keeps client request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(http.NotFoundHandler()).ServeHTTP(rr, req)
		assert.Equal(t, "client-id", rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Recovers panics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		middlewares.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Recovers non-error panics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		middlewares.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(42)
		})).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), `"success":false`)
	})

	t.Run("Lets aborted handlers through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler := middlewares.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), req)
		})
	})
}
