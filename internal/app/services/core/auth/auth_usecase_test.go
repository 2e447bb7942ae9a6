package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/shared/ratelimiter"
	"medmarket-service/internal/app/testutil/memstore"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	secret     = "test-secret"
	pharmacyID = "11111111-1111-4111-8111-111111111111"
)

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func (f *fakeSessions) CreateSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.SessionID] = *session
	return nil
}

func (f *fakeSessions) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}
	return &s, nil
}

func (f *fakeSessions) DeleteSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	return nil
}

type authFixture struct {
	usecase  *authUsecase
	store    *memstore.Store
	sessions *fakeSessions
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := memstore.New()
	redis := memstore.NewRedis()
	f := &authFixture{
		store:    store,
		sessions: &fakeSessions{sessions: map[string]models.Session{}},
		now:      time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
	}

	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	providerID := pharmacyID
	store.Users["u-staff"] = models.User{
		ID:           "u-staff",
		Email:        "staff@alpha.test",
		PasswordHash: hash,
		Role:         constvars.RoleProviderStaff,
		ProviderID:   &providerID,
		IsActive:     true,
	}
	store.Users["u-gone"] = models.User{
		ID:           "u-gone",
		Email:        "gone@alpha.test",
		PasswordHash: hash,
		Role:         constvars.RoleAdmin,
		IsActive:     false,
	}

	f.usecase = &authUsecase{
		UserRepository: &memstore.UserRepository{Store: store},
		SessionService: f.sessions,
		Limiter:        ratelimiter.NewResourceLimiter(redis, zap.NewNop()),
		InternalConfig: &config.InternalConfig{
			App: config.App{
				LoginSessionExpiredInHours: 12,
				LoginMaxAttempts:           3,
				LoginAttemptWindowInSecond: 300,
			},
			JWT: config.AppJWT{Secret: secret},
		},
		Log: zap.NewNop(),
		Now: func() time.Time { return f.now },
	}
	return f
}

func assertCustomError(t *testing.T, expected *exceptions.CustomError, err error) {
	t.Helper()
	require.Error(t, err)
	customErr, ok := err.(*exceptions.CustomError)
	require.True(t, ok, "expected CustomError, got %T: %v", err, err)
	assert.Equal(t, expected.StatusCode, customErr.StatusCode)
	assert.Equal(t, expected.ClientMessage, customErr.ClientMessage)
}

func TestLogin_IssuesSessionToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	response, err := f.usecase.Login(ctx, &requests.Login{Email: "  Staff@Alpha.test ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "u-staff", response.User.ID)
	assert.Equal(t, f.now.Add(12*time.Hour), response.ExpiresAt)

	sessionID, err := utils.ParseJWT(response.Token, secret)
	require.NoError(t, err)

	got, err := f.usecase.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "u-staff", got.UserID)
	assert.Equal(t, constvars.RoleProviderStaff, got.Role)
	assert.Equal(t, pharmacyID, got.ProviderID)

	require.NoError(t, f.usecase.Logout(ctx, sessionID))
	_, err = f.usecase.GetSession(ctx, sessionID)
	assertCustomError(t, exceptions.ErrTokenInvalidOrExpired(nil), err)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Login(ctx, &requests.Login{Email: "staff@alpha.test", Password: "wrong"})
	assertCustomError(t, exceptions.ErrInvalidEmailOrPassword(nil), err)

	_, err = f.usecase.Login(ctx, &requests.Login{Email: "nobody@alpha.test", Password: "correct horse"})
	assertCustomError(t, exceptions.ErrInvalidEmailOrPassword(nil), err)

	_, err = f.usecase.Login(ctx, &requests.Login{Email: "gone@alpha.test", Password: "correct horse"})
	assertCustomError(t, exceptions.ErrAccountInactive(nil), err)

	assert.Empty(t, f.sessions.sessions)
}

func TestLogin_LimitsAttemptsPerEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.usecase.Login(ctx, &requests.Login{Email: "staff@alpha.test", Password: "wrong"})
		assertCustomError(t, exceptions.ErrInvalidEmailOrPassword(nil), err)
	}
	_, err := f.usecase.Login(ctx, &requests.Login{Email: "staff@alpha.test", Password: "correct horse"})
	assertCustomError(t, exceptions.ErrTooManyLoginAttempts(nil), err)

	// other accounts keep their own budget
	_, err = f.usecase.Login(ctx, &requests.Login{Email: "gone@alpha.test", Password: "correct horse"})
	assertCustomError(t, exceptions.ErrAccountInactive(nil), err)
}

func TestGetSession_ExpiredSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	response, err := f.usecase.Login(ctx, &requests.Login{Email: "staff@alpha.test", Password: "correct horse"})
	require.NoError(t, err)
	sessionID, err := utils.ParseJWT(response.Token, secret)
	require.NoError(t, err)

	f.now = f.now.Add(13 * time.Hour)
	_, err = f.usecase.GetSession(ctx, sessionID)
	assertCustomError(t, exceptions.ErrTokenInvalidOrExpired(nil), err)
}
