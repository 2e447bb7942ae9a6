package contracts

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
)

type CatalogUsecase interface {
	CreateItem(ctx context.Context, request *requests.CreateCatalogItem) (*responses.CatalogItem, error)
	GetItem(ctx context.Context, itemID string) (*responses.CatalogItem, error)
	Search(ctx context.Context, request *requests.SearchCatalog) ([]responses.CatalogItem, error)
	FindOfferings(ctx context.Context, request *requests.FindOfferings) ([]responses.Offering, error)
}

type CatalogRepository interface {
	FindByID(ctx context.Context, itemID string) (*models.CatalogItem, error)
	FindByIDs(ctx context.Context, itemIDs []string) ([]models.CatalogItem, error)
	Search(ctx context.Context, kind, query string) ([]models.CatalogItem, error)
	Create(ctx context.Context, item *models.CatalogItem) error
}

type OfferingRepository interface {
	FindByKey(ctx context.Context, providerID, itemID string) (*models.ProviderOffering, error)
	FindByProviderID(ctx context.Context, providerID string) ([]models.OfferingDetail, error)
	// FindNearby lists offerings of verified active providers, nearest first when a point is given.
	FindNearby(ctx context.Context, itemID string, latitude, longitude *float64, radiusKm float64) ([]models.OfferingDetail, error)
	Upsert(ctx context.Context, offering *models.ProviderOffering) error
	Delete(ctx context.Context, providerID, itemID string) (int64, error)
	// DecrementStock returns false when the offering cannot cover quantity.
	DecrementStock(ctx context.Context, providerID, itemID string, quantity int) (bool, error)
	IncrementStock(ctx context.Context, providerID, itemID string, quantity int) error
}
