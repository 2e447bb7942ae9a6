package catalog

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultSearchRadiusKm applies when a reference point is given without a radius.
const defaultSearchRadiusKm = 25

type catalogUsecase struct {
	CatalogRepository  contracts.CatalogRepository
	OfferingRepository contracts.OfferingRepository
	Log                *zap.Logger
	Now                func() time.Time
}

var (
	catalogUsecaseInstance contracts.CatalogUsecase
	onceCatalogUsecase     sync.Once
)

func NewCatalogUsecase(
	catalogRepository contracts.CatalogRepository,
	offeringRepository contracts.OfferingRepository,
	logger *zap.Logger,
) contracts.CatalogUsecase {
	onceCatalogUsecase.Do(func() {
		catalogUsecaseInstance = &catalogUsecase{
			CatalogRepository:  catalogRepository,
			OfferingRepository: offeringRepository,
			Log:                logger,
			Now:                time.Now,
		}
	})
	return catalogUsecaseInstance
}

func (uc *catalogUsecase) CreateItem(ctx context.Context, request *requests.CreateCatalogItem) (*responses.CatalogItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("catalogUsecase.CreateItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	item := &models.CatalogItem{
		ID:                   uuid.NewString(),
		Name:                 strings.TrimSpace(request.Name),
		Kind:                 constvars.ServiceKind(request.Kind),
		Category:             strings.TrimSpace(request.Category),
		PrescriptionRequired: request.PrescriptionRequired,
		Strength:             request.Strength,
		DosageForm:           request.DosageForm,
		Description:          request.Description,
	}
	item.SetCreatedAtUpdatedAt(uc.Now())

	if err := uc.CatalogRepository.Create(ctx, item); err != nil {
		uc.Log.Error("catalogUsecase.CreateItem error creating item",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("catalogUsecase.CreateItem succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingItemIDKey, item.ID),
	)
	response := ToCatalogItemResponse(item)
	return &response, nil
}

func (uc *catalogUsecase) GetItem(ctx context.Context, itemID string) (*responses.CatalogItem, error) {
	item, err := uc.CatalogRepository.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, exceptions.ErrCatalogItemNotFound(nil)
	}
	response := ToCatalogItemResponse(item)
	return &response, nil
}

func (uc *catalogUsecase) Search(ctx context.Context, request *requests.SearchCatalog) ([]responses.CatalogItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("catalogUsecase.Search called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryKey, request.Query),
	)

	items, err := uc.CatalogRepository.Search(ctx, request.Kind, strings.TrimSpace(request.Query))
	if err != nil {
		return nil, err
	}

	out := make([]responses.CatalogItem, 0, len(items))
	for i := range items {
		out = append(out, ToCatalogItemResponse(&items[i]))
	}
	return out, nil
}

func (uc *catalogUsecase) FindOfferings(ctx context.Context, request *requests.FindOfferings) ([]responses.Offering, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("catalogUsecase.FindOfferings called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingItemIDKey, request.ItemID),
	)

	item, err := uc.CatalogRepository.FindByID(ctx, request.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, exceptions.ErrCatalogItemNotFound(nil)
	}

	latitude, longitude := request.Latitude, request.Longitude
	if latitude == nil || longitude == nil {
		latitude, longitude = nil, nil
	}
	radius := request.RadiusKm
	if latitude != nil && radius <= 0 {
		radius = defaultSearchRadiusKm
	}

	details, err := uc.OfferingRepository.FindNearby(ctx, request.ItemID, latitude, longitude, radius)
	if err != nil {
		uc.Log.Error("catalogUsecase.FindOfferings error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	out := make([]responses.Offering, 0, len(details))
	for i := range details {
		out = append(out, ToOfferingResponse(&details[i]))
	}
	return out, nil
}

func ToCatalogItemResponse(item *models.CatalogItem) responses.CatalogItem {
	return responses.CatalogItem{
		ID:                   item.ID,
		Name:                 item.Name,
		Kind:                 string(item.Kind),
		Category:             item.Category,
		PrescriptionRequired: item.PrescriptionRequired,
		Strength:             item.Strength,
		DosageForm:           item.DosageForm,
		Description:          item.Description,
		CreatedAt:            item.CreatedAt,
	}
}

func ToOfferingResponse(d *models.OfferingDetail) responses.Offering {
	return responses.Offering{
		ProviderID:   d.ProviderID,
		ProviderName: d.ProviderName,
		ItemID:       d.ItemID,
		ItemName:     d.ItemName,
		Stock:        d.Stock,
		IsAvailable:  d.IsAvailable,
		Price:        d.Price,
		ReceivedAt:   d.ReceivedAt,
		ExpiresAt:    d.ExpiresAt,
		DistanceKm:   d.DistanceKm,
		UpdatedAt:    d.UpdatedAt,
	}
}
