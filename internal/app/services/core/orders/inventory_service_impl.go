package orders

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

type inventoryService struct {
	OfferingRepository  contracts.OfferingRepository
	OrderItemRepository contracts.OrderItemRepository
	Log                 *zap.Logger
}

var (
	inventoryServiceInstance contracts.InventoryService
	onceInventoryService     sync.Once
)

func NewInventoryService(
	offeringRepository contracts.OfferingRepository,
	orderItemRepository contracts.OrderItemRepository,
	logger *zap.Logger,
) contracts.InventoryService {
	onceInventoryService.Do(func() {
		inventoryServiceInstance = &inventoryService{
			OfferingRepository:  offeringRepository,
			OrderItemRepository: orderItemRepository,
			Log:                 logger,
		}
	})
	return inventoryServiceInstance
}

// Reserve decrements stock for every item of the order and marks it reserved. It must run
// inside a transaction: a failure midway leaves earlier decrements to the rollback. The
// caller persists the order.
func (s *inventoryService) Reserve(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if order.StockReserved {
		return nil
	}

	for _, item := range items {
		ok, err := s.OfferingRepository.DecrementStock(ctx, item.ProviderID, item.ItemID, item.Quantity)
		if err != nil {
			s.Log.Error("inventoryService.Reserve error decrementing stock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, order.ID),
				zap.String(constvars.LoggingItemIDKey, item.ItemID),
				zap.Error(err),
			)
			return err
		}
		if !ok {
			s.Log.Warn("inventoryService.Reserve offering cannot cover quantity",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, order.ID),
				zap.String(constvars.LoggingProviderIDKey, item.ProviderID),
				zap.String(constvars.LoggingItemIDKey, item.ItemID),
				zap.Int(constvars.LoggingQuantityKey, item.Quantity),
			)
			return exceptions.ErrInsufficientStock(fmt.Errorf("offering %s/%s cannot cover quantity %d", item.ProviderID, item.ItemID, item.Quantity))
		}
	}

	order.StockReserved = true
	return nil
}

// Release returns reserved stock of the order. Orders without a reservation are left alone,
// so releasing twice is a no-op. The caller persists the order.
func (s *inventoryService) Release(ctx context.Context, order *models.Order) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !order.StockReserved {
		return nil
	}

	items, err := s.OrderItemRepository.FindByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.OfferingRepository.IncrementStock(ctx, item.ProviderID, item.ItemID, item.Quantity); err != nil {
			s.Log.Error("inventoryService.Release error incrementing stock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, order.ID),
				zap.String(constvars.LoggingItemIDKey, item.ItemID),
				zap.Error(err),
			)
			return err
		}
	}

	order.StockReserved = false
	s.Log.Info("inventoryService.Release released stock",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
		zap.Int(constvars.LoggingCountKey, len(items)),
	)
	return nil
}
