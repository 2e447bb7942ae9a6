package session

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type sessionService struct {
	RedisRepository contracts.RedisRepository
}

var (
	sessionServiceInstance contracts.SessionService
	onceSessionService     sync.Once
)

func NewSessionService(redisRepository contracts.RedisRepository) contracts.SessionService {
	onceSessionService.Do(func() {
		sessionServiceInstance = &sessionService{
			RedisRepository: redisRepository,
		}
	})
	return sessionServiceInstance
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
}

func (svc *sessionService) CreateSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	return svc.RedisRepository.Set(ctx, sessionKey(session.SessionID), session, ttl)
}

// GetSession returns ErrTokenInvalidOrExpired when the session is gone from Redis.
func (svc *sessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	sessionData, err := svc.RedisRepository.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	if sessionData == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(sessionData), session); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return session, nil
}

func (svc *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	return svc.RedisRepository.Delete(ctx, sessionKey(sessionID))
}
