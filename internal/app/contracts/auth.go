package contracts

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
)

type AuthUsecase interface {
	Login(ctx context.Context, request *requests.Login) (*responses.Login, error)
	Logout(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
}

// Authorizer answers whether a role may call method on path.
type Authorizer interface {
	IsAllowed(role, path, method string) (bool, error)
}
