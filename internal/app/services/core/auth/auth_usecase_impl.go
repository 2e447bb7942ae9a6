package auth

import (
	"context"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/core/users"
	"medmarket-service/internal/app/services/shared/ratelimiter"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authUsecase struct {
	UserRepository contracts.UserRepository
	SessionService contracts.SessionService
	Limiter        *ratelimiter.ResourceLimiter
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
	Now            func() time.Time
}

var (
	authUsecaseInstance contracts.AuthUsecase
	onceAuthUsecase     sync.Once
)

func NewAuthUsecase(
	userRepository contracts.UserRepository,
	sessionService contracts.SessionService,
	limiter *ratelimiter.ResourceLimiter,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AuthUsecase {
	onceAuthUsecase.Do(func() {
		authUsecaseInstance = &authUsecase{
			UserRepository: userRepository,
			SessionService: sessionService,
			Limiter:        limiter,
			InternalConfig: internalConfig,
			Log:            logger,
			Now:            time.Now,
		}
	})
	return authUsecaseInstance
}

func (uc *authUsecase) Login(ctx context.Context, request *requests.Login) (*responses.Login, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	email := strings.ToLower(strings.TrimSpace(request.Email))
	uc.Log.Info("authUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, email),
	)

	if err := uc.checkAttempts(ctx, email); err != nil {
		return nil, err
	}

	user, err := uc.UserRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(request.Password, user.PasswordHash) {
		utils.LogSecurityEvent(uc.Log, "login_failed", requestID, "warning", zap.String(constvars.LoggingEmailKey, email))
		return nil, exceptions.ErrInvalidEmailOrPassword(nil)
	}
	if !user.IsActive {
		utils.LogSecurityEvent(uc.Log, "login_inactive_account", requestID, "warning", zap.String(constvars.LoggingUserIDKey, user.ID))
		return nil, exceptions.ErrAccountInactive(nil)
	}

	hours := uc.InternalConfig.App.LoginSessionExpiredInHours
	ttl := time.Duration(hours) * time.Hour
	session := &models.Session{
		SessionID: uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: uc.Now().Add(ttl),
	}
	if user.ProviderID != nil {
		session.ProviderID = *user.ProviderID
	}

	token, err := utils.GenerateSessionJWT(session.SessionID, uc.InternalConfig.JWT.Secret, hours)
	if err != nil {
		return nil, exceptions.ErrTokenGenerate(err)
	}
	if err := uc.SessionService.CreateSession(ctx, session, ttl); err != nil {
		uc.Log.Error("authUsecase.Login error storing session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("authUsecase.Login succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
	)
	return &responses.Login{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      users.ToUserResponse(user),
	}, nil
}

// checkAttempts counts every attempt per email, successful or not.
func (uc *authUsecase) checkAttempts(ctx context.Context, email string) error {
	if uc.Limiter == nil {
		return nil
	}
	out, err := uc.Limiter.ApplyResourceLimiter(ctx, &ratelimiter.ApplyResourceLimiterInput{
		ResourceName:      email,
		LimiterGroupName:  constvars.RateLimiterGroupLogin,
		WindowDurationSec: uc.InternalConfig.App.LoginAttemptWindowInSecond,
		MaxQuota:          uc.InternalConfig.App.LoginMaxAttempts,
		NowUTC:            uc.Now().UTC(),
	})
	if err != nil {
		// Redis being down must not lock every account out.
		uc.Log.Warn("authUsecase.checkAttempts limiter unavailable", zap.Error(err))
		return nil
	}
	if !out.Allowed {
		return exceptions.ErrTooManyLoginAttempts(nil)
	}
	return nil
}

func (uc *authUsecase) Logout(ctx context.Context, sessionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Logout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return uc.SessionService.DeleteSession(ctx, sessionID)
}

func (uc *authUsecase) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := uc.SessionService.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.IsZero() && uc.Now().After(session.ExpiresAt) {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}
	return session, nil
}
