package providers

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/core/catalog"
	"medmarket-service/internal/app/services/core/orders"
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

// releasableStatuses are the statuses whose reserved stock goes back on the shelf when the
// order is cancelled. Later statuses mean the goods already left the provider.
var releasableStatuses = map[string]bool{
	constvars.OrderStatusPending:             true,
	constvars.OrderStatusPendingPrescription: true,
	constvars.OrderStatusPartiallyCompleted:  true,
	constvars.OrderStatusConfirmed:           true,
	constvars.OrderStatusProcessing:          true,
}

type providerUsecase struct {
	Transactor           contracts.Transactor
	ProviderRepository   contracts.ProviderRepository
	OfferingRepository   contracts.OfferingRepository
	CatalogRepository    contracts.CatalogRepository
	OrderRepository      contracts.OrderRepository
	OrderItemRepository  contracts.OrderItemRepository
	OrderEventRepository contracts.OrderEventRepository
	Inventory            contracts.InventoryService
	LocationService      contracts.LocationService
	Publisher            contracts.NotificationPublisher
	InternalConfig       *config.InternalConfig
	Log                  *zap.Logger
	Now                  func() time.Time
}

var (
	providerUsecaseInstance contracts.ProviderUsecase
	onceProviderUsecase     sync.Once
)

func NewProviderUsecase(
	transactor contracts.Transactor,
	providerRepository contracts.ProviderRepository,
	offeringRepository contracts.OfferingRepository,
	catalogRepository contracts.CatalogRepository,
	orderRepository contracts.OrderRepository,
	orderItemRepository contracts.OrderItemRepository,
	orderEventRepository contracts.OrderEventRepository,
	inventory contracts.InventoryService,
	locationService contracts.LocationService,
	publisher contracts.NotificationPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ProviderUsecase {
	onceProviderUsecase.Do(func() {
		providerUsecaseInstance = &providerUsecase{
			Transactor:           transactor,
			ProviderRepository:   providerRepository,
			OfferingRepository:   offeringRepository,
			CatalogRepository:    catalogRepository,
			OrderRepository:      orderRepository,
			OrderItemRepository:  orderItemRepository,
			OrderEventRepository: orderEventRepository,
			Inventory:            inventory,
			LocationService:      locationService,
			Publisher:            publisher,
			InternalConfig:       internalConfig,
			Log:                  logger,
			Now:                  time.Now,
		}
	})
	return providerUsecaseInstance
}

func (uc *providerUsecase) RegisterProvider(ctx context.Context, request *requests.RegisterProvider) (*responses.Provider, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.RegisterProvider called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, request.Email),
	)

	location, err := uc.LocationService.ValidateLocation(request.State, request.LGA, request.Ward, request.Latitude, request.Longitude)
	if err != nil {
		uc.Log.Warn("providerUsecase.RegisterProvider rejected location",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if err := orders.ValidateOperatingHours(request.OperatingHours); err != nil {
		return nil, exceptions.ErrInvalidOperatingHours(err)
	}

	provider := &models.Provider{
		ID:                     uuid.NewString(),
		Name:                   request.Name,
		Kind:                   request.Kind,
		Latitude:               location.Latitude,
		Longitude:              location.Longitude,
		Address:                request.Address,
		State:                  location.State,
		LGA:                    location.LGA,
		Ward:                   location.Ward,
		VerificationStatus:     constvars.ProviderStatusPending,
		IsActive:               true,
		SupportsDelivery:       request.Kind == constvars.ProviderKindPharmacy && request.SupportsDelivery,
		SupportsHomeCollection: request.Kind == constvars.ProviderKindLab && request.SupportsHomeCollection,
		OperatingHours:         request.OperatingHours,
		Email:                  request.Email,
		Phone:                  utils.NormalizePhone(request.Phone),
	}
	provider.SetCreatedAtUpdatedAt(uc.Now())

	if err := uc.ProviderRepository.Create(ctx, provider); err != nil {
		uc.Log.Error("providerUsecase.RegisterProvider error creating provider",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("providerUsecase.RegisterProvider succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, provider.ID),
	)
	response := toProviderResponse(provider)
	return &response, nil
}

// ReviewProvider sets the verification status. A verified provider can later be rejected and
// the other way round; repeating the current status is a no-op.
func (uc *providerUsecase) ReviewProvider(ctx context.Context, request *requests.ReviewProvider) (*responses.Provider, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.ReviewProvider called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
		zap.String(constvars.LoggingOrderStatusKey, request.Status),
	)

	provider, err := uc.ProviderRepository.FindByID(ctx, request.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrProviderNotFound(nil)
	}

	if provider.VerificationStatus != request.Status {
		provider.VerificationStatus = request.Status
		provider.SetUpdatedAt(uc.Now())
		if err := uc.ProviderRepository.Update(ctx, provider); err != nil {
			uc.Log.Error("providerUsecase.ReviewProvider error updating provider",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingProviderIDKey, provider.ID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	response := toProviderResponse(provider)
	return &response, nil
}

func (uc *providerUsecase) SetProviderActive(ctx context.Context, providerID string, isActive bool) (*responses.Provider, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.SetProviderActive called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
		zap.Bool("is_active", isActive),
	)

	provider, err := uc.ProviderRepository.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrProviderNotFound(nil)
	}

	provider.IsActive = isActive
	provider.SetUpdatedAt(uc.Now())
	if err := uc.ProviderRepository.Update(ctx, provider); err != nil {
		return nil, err
	}
	response := toProviderResponse(provider)
	return &response, nil
}

func (uc *providerUsecase) ListOfferings(ctx context.Context, providerID string) ([]responses.Offering, error) {
	details, err := uc.OfferingRepository.FindByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	out := make([]responses.Offering, 0, len(details))
	for i := range details {
		out = append(out, catalog.ToOfferingResponse(&details[i]))
	}
	return out, nil
}

func (uc *providerUsecase) UpsertOffering(ctx context.Context, request *requests.UpsertOffering) (*responses.Offering, error) {
	return uc.saveOffering(ctx, request, false)
}

func (uc *providerUsecase) UpdateOffering(ctx context.Context, request *requests.UpsertOffering) (*responses.Offering, error) {
	return uc.saveOffering(ctx, request, true)
}

func (uc *providerUsecase) saveOffering(ctx context.Context, request *requests.UpsertOffering, mustExist bool) (*responses.Offering, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.saveOffering called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
		zap.String(constvars.LoggingItemIDKey, request.ItemID),
	)

	if request.ReceivedAt != nil && request.ExpiresAt != nil && request.ExpiresAt.Before(*request.ReceivedAt) {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("expiresAt is before receivedAt"))
	}

	provider, err := uc.ProviderRepository.FindByID(ctx, request.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrProviderNotFound(nil)
	}
	item, err := uc.CatalogRepository.FindByID(ctx, request.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, exceptions.ErrCatalogItemNotFound(nil)
	}

	if mustExist {
		existing, err := uc.OfferingRepository.FindByKey(ctx, request.ProviderID, request.ItemID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, exceptions.ErrOfferingNotFound(nil)
		}
	}

	offering := &models.ProviderOffering{
		ProviderID:  request.ProviderID,
		ItemID:      request.ItemID,
		Stock:       request.Stock,
		IsAvailable: request.IsAvailable,
		Price:       request.Price.Round(2),
		ReceivedAt:  request.ReceivedAt,
		ExpiresAt:   request.ExpiresAt,
		UpdatedAt:   uc.Now(),
	}
	if err := uc.OfferingRepository.Upsert(ctx, offering); err != nil {
		uc.Log.Error("providerUsecase.saveOffering error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	response := catalog.ToOfferingResponse(&models.OfferingDetail{
		ProviderOffering: *offering,
		ProviderName:     provider.Name,
		ItemName:         item.Name,
	})
	return &response, nil
}

func (uc *providerUsecase) DeleteOffering(ctx context.Context, providerID, itemID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.DeleteOffering called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
		zap.String(constvars.LoggingItemIDKey, itemID),
	)

	affected, err := uc.OfferingRepository.Delete(ctx, providerID, itemID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return exceptions.ErrOfferingNotFound(nil)
	}
	return nil
}

func (uc *providerUsecase) ListOrders(ctx context.Context, request *requests.ListProviderOrders) ([]responses.Order, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.ListOrders called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
	)

	page, pageSize := request.Pagination.Page, request.Pagination.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constvars.AppDefaultPageSize
	}

	found, total, err := uc.OrderRepository.FindByProviderID(ctx, request.ProviderID, request.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	if len(found) == 0 {
		return []responses.Order{}, total, nil
	}

	ids := make([]string, 0, len(found))
	for _, o := range found {
		ids = append(ids, o.ID)
	}
	details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	owned := make([]models.OrderItemDetail, 0, len(details))
	for _, d := range details {
		if d.ProviderID == request.ProviderID {
			owned = append(owned, d)
		}
	}
	return orders.BuildOrderResponses(found, owned), total, nil
}

// UpdateOrderStatus moves an order along the state machine. Provider staff may only act on
// their own orders once they are confirmed; admins may apply any legal transition.
func (uc *providerUsecase) UpdateOrderStatus(ctx context.Context, request *requests.UpdateOrderStatus) (*responses.Order, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.UpdateOrderStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
		zap.String(constvars.LoggingOrderStatusKey, request.Status),
		zap.String(constvars.LoggingUserIDKey, request.ActorID),
	)

	reason := strings.TrimSpace(request.Reason)
	if request.Status == constvars.OrderStatusCancelled && reason == "" {
		return nil, exceptions.ErrCancellationReasonRequired(nil)
	}

	actor := constvars.EventActorAdmin
	if request.ProviderID != "" {
		actor = constvars.EventActorProvider
	}

	now := uc.Now()
	var order *models.Order
	var event models.OrderEvent
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := uc.OrderRepository.FindByIDsForUpdate(ctx, []string{request.OrderID})
		if err != nil {
			return err
		}
		if len(locked) == 0 || locked[0].IsCart() {
			return exceptions.ErrOrderNotFound(nil)
		}
		order = &locked[0]

		if request.ProviderID != "" {
			owns, err := uc.OrderItemRepository.ExistsForProvider(ctx, order.ID, request.ProviderID)
			if err != nil {
				return err
			}
			if !owns {
				return exceptions.ErrNotOrderOwner(nil)
			}
			if !utils.IsProviderManagedStatus(order.Status) {
				return exceptions.ErrInvalidStatusTransition(nil, order.Status, request.Status)
			}
		}

		from := order.Status
		if !utils.CanTransitionOrderStatus(from, request.Status) {
			return exceptions.ErrInvalidStatusTransition(nil, from, request.Status)
		}

		if request.Status == constvars.OrderStatusCancelled {
			if releasableStatuses[from] {
				if err := uc.Inventory.Release(ctx, order); err != nil {
					return err
				}
			}
			order.CancellationReason = &reason
		}
		order.Status = request.Status
		order.SetUpdatedAt(now)
		if err := uc.OrderRepository.Update(ctx, order); err != nil {
			return err
		}
		event = orders.NewStatusEvent(order, from, actor, request.ActorID, reason, now)
		return nil
	})
	if err != nil {
		uc.Log.Error("providerUsecase.UpdateOrderStatus error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, request.OrderID),
			zap.Error(err),
		)
		return nil, err
	}

	orders.RecordEvents(ctx, uc.OrderEventRepository, uc.Log, []models.OrderEvent{event})
	orders.Notify(ctx, uc.Publisher, uc.Log, uc.InternalConfig.RabbitMQ.OrderNotificationQueue, &requests.OrderNotification{
		Event:             constvars.NotificationEventOrderStatusChanged,
		GuestID:           order.GuestID,
		CheckoutSessionID: order.SessionID(),
		TrackingCode:      order.Tracking(),
		OrderIDs:          []string{order.ID},
		Status:            order.Status,
		Email:             order.ContactEmail,
		Phone:             order.ContactPhone,
		OccurredAt:        now,
	})

	details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	response := orders.BuildOrderResponses([]models.Order{*order}, details)[0]

	uc.Log.Info("providerUsecase.UpdateOrderStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
		zap.String(constvars.LoggingOrderStatusKey, order.Status),
	)
	return &response, nil
}

func (uc *providerUsecase) RegisterDeviceToken(ctx context.Context, request *requests.RegisterDeviceToken) (*responses.DeviceToken, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.RegisterDeviceToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
	)

	provider, err := uc.ProviderRepository.FindByID(ctx, request.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrProviderNotFound(nil)
	}

	token := &models.DeviceToken{
		ProviderID: request.ProviderID,
		Token:      strings.TrimSpace(request.Token),
		Platform:   request.Platform,
	}
	token.SetCreatedAtUpdatedAt(uc.Now())
	if err := uc.ProviderRepository.UpsertDeviceToken(ctx, token); err != nil {
		return nil, err
	}

	return &responses.DeviceToken{
		ProviderID: token.ProviderID,
		Token:      token.Token,
		Platform:   token.Platform,
	}, nil
}

func toProviderResponse(p *models.Provider) responses.Provider {
	return responses.Provider{
		ID:                     p.ID,
		Name:                   p.Name,
		Kind:                   p.Kind,
		Latitude:               p.Latitude,
		Longitude:              p.Longitude,
		Address:                p.Address,
		State:                  p.State,
		LGA:                    p.LGA,
		Ward:                   p.Ward,
		VerificationStatus:     p.VerificationStatus,
		IsActive:               p.IsActive,
		SupportsDelivery:       p.SupportsDelivery,
		SupportsHomeCollection: p.SupportsHomeCollection,
		OperatingHours:         p.OperatingHours,
		Email:                  p.Email,
		Phone:                  p.Phone,
		CreatedAt:              p.CreatedAt,
	}
}
