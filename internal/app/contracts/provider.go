package contracts

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
)

type ProviderUsecase interface {
	RegisterProvider(ctx context.Context, request *requests.RegisterProvider) (*responses.Provider, error)
	ReviewProvider(ctx context.Context, request *requests.ReviewProvider) (*responses.Provider, error)
	SetProviderActive(ctx context.Context, providerID string, isActive bool) (*responses.Provider, error)
	ListOfferings(ctx context.Context, providerID string) ([]responses.Offering, error)
	UpsertOffering(ctx context.Context, request *requests.UpsertOffering) (*responses.Offering, error)
	UpdateOffering(ctx context.Context, request *requests.UpsertOffering) (*responses.Offering, error)
	DeleteOffering(ctx context.Context, providerID, itemID string) error
	ListOrders(ctx context.Context, request *requests.ListProviderOrders) ([]responses.Order, int, error)
	UpdateOrderStatus(ctx context.Context, request *requests.UpdateOrderStatus) (*responses.Order, error)
	RegisterDeviceToken(ctx context.Context, request *requests.RegisterDeviceToken) (*responses.DeviceToken, error)
}

type ProviderRepository interface {
	FindByID(ctx context.Context, providerID string) (*models.Provider, error)
	FindByIDs(ctx context.Context, providerIDs []string) ([]models.Provider, error)
	Create(ctx context.Context, provider *models.Provider) error
	Update(ctx context.Context, provider *models.Provider) error
	UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error
	FindDeviceTokens(ctx context.Context, providerID string) ([]models.DeviceToken, error)
}

// LocationService validates an address hierarchy and point against reference data.
type LocationService interface {
	ValidateLocation(state, lga, ward string, latitude, longitude float64) (*models.Location, error)
}
