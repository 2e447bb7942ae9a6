package users

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
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

type userUsecase struct {
	UserRepository     contracts.UserRepository
	ProviderRepository contracts.ProviderRepository
	Log                *zap.Logger
	Now                func() time.Time
}

var (
	userUsecaseInstance contracts.UserUsecase
	onceUserUsecase     sync.Once
)

func NewUserUsecase(
	userRepository contracts.UserRepository,
	providerRepository contracts.ProviderRepository,
	logger *zap.Logger,
) contracts.UserUsecase {
	onceUserUsecase.Do(func() {
		userUsecaseInstance = &userUsecase{
			UserRepository:     userRepository,
			ProviderRepository: providerRepository,
			Log:                logger,
			Now:                time.Now,
		}
	})
	return userUsecaseInstance
}

func (uc *userUsecase) CreateUser(ctx context.Context, request *requests.CreateUser) (*responses.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	email := strings.ToLower(strings.TrimSpace(request.Email))
	uc.Log.Info("userUsecase.CreateUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, email),
	)

	existing, err := uc.UserRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrEmailAlreadyExist(nil)
	}

	var providerID *string
	if request.Role == constvars.RoleProviderStaff {
		provider, err := uc.ProviderRepository.FindByID(ctx, request.ProviderID)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, exceptions.ErrProviderNotFound(nil)
		}
		providerID = &provider.ID
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		uc.Log.Error("userUsecase.CreateUser error hashing password",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrHashPassword(err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(request.FullName),
		Role:         request.Role,
		ProviderID:   providerID,
		IsActive:     true,
	}
	user.SetCreatedAtUpdatedAt(uc.Now())
	if err := uc.UserRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.Log.Info("userUsecase.CreateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
	)
	response := ToUserResponse(user)
	return &response, nil
}

func (uc *userUsecase) ListUsers(ctx context.Context, request *requests.ListUsers) ([]responses.User, int, error) {
	page, pageSize := request.Pagination.Page, request.Pagination.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constvars.AppDefaultPageSize
	}

	found, total, err := uc.UserRepository.List(ctx, request.Role, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]responses.User, 0, len(found))
	for i := range found {
		out = append(out, ToUserResponse(&found[i]))
	}
	return out, total, nil
}

// SetUserActive toggles an account. Admins cannot deactivate themselves.
func (uc *userUsecase) SetUserActive(ctx context.Context, request *requests.SetUserActive) (*responses.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.SetUserActive called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, request.UserID),
	)

	isActive := request.IsActive != nil && *request.IsActive
	if request.ActorID == request.UserID && !isActive {
		return nil, exceptions.ErrSelfAction(nil)
	}

	user, err := uc.UserRepository.FindByID(ctx, request.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, exceptions.ErrUserNotFound(nil)
	}

	if err := uc.UserRepository.UpdateActive(ctx, user.ID, isActive); err != nil {
		return nil, err
	}
	user.IsActive = isActive
	response := ToUserResponse(user)
	return &response, nil
}

func ToUserResponse(u *models.User) responses.User {
	return responses.User{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		ProviderID: u.ProviderID,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}
