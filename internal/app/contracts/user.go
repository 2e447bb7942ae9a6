package contracts

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
)

type UserUsecase interface {
	CreateUser(ctx context.Context, request *requests.CreateUser) (*responses.User, error)
	ListUsers(ctx context.Context, request *requests.ListUsers) ([]responses.User, int, error)
	SetUserActive(ctx context.Context, request *requests.SetUserActive) (*responses.User, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context, role string, limit, offset int) ([]models.User, int, error)
	UpdateActive(ctx context.Context, userID string, isActive bool) error
}
