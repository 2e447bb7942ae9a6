package orders

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartUsecase struct {
	Transactor          contracts.Transactor
	OrderRepository     contracts.OrderRepository
	OrderItemRepository contracts.OrderItemRepository
	OfferingRepository  contracts.OfferingRepository
	CatalogRepository   contracts.CatalogRepository
	ProviderRepository  contracts.ProviderRepository
	Inventory           contracts.InventoryService
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
	Now                 func() time.Time
}

var (
	cartUsecaseInstance contracts.CartUsecase
	onceCartUsecase     sync.Once
)

func NewCartUsecase(
	transactor contracts.Transactor,
	orderRepository contracts.OrderRepository,
	orderItemRepository contracts.OrderItemRepository,
	offeringRepository contracts.OfferingRepository,
	catalogRepository contracts.CatalogRepository,
	providerRepository contracts.ProviderRepository,
	inventory contracts.InventoryService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CartUsecase {
	onceCartUsecase.Do(func() {
		instance := &cartUsecase{
			Transactor:          transactor,
			OrderRepository:     orderRepository,
			OrderItemRepository: orderItemRepository,
			OfferingRepository:  offeringRepository,
			CatalogRepository:   catalogRepository,
			ProviderRepository:  providerRepository,
			Inventory:           inventory,
			InternalConfig:      internalConfig,
			Log:                 logger,
			Now:                 time.Now,
		}
		cartUsecaseInstance = instance
	})
	return cartUsecaseInstance
}

func (uc *cartUsecase) AddItem(ctx context.Context, request *requests.AddCartItem) (*responses.AddCartItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	guestID := request.GuestID
	if guestID == "" {
		guestID = uuid.NewString()
		uc.Log.Info("cartUsecase.AddItem generated guest id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, guestID),
		)
	}
	uc.Log.Info("cartUsecase.AddItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, guestID),
		zap.String(constvars.LoggingItemIDKey, request.ItemID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
		zap.Int(constvars.LoggingQuantityKey, request.Quantity),
	)

	var response *responses.AddCartItem
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		provider, item, offering, err := uc.findOffering(ctx, request.ProviderID, request.ItemID)
		if err != nil {
			return err
		}

		now := uc.Now()
		cart, err := findOrCreateCart(ctx, uc.OrderRepository, uc.Inventory, guestID, now)
		if err != nil {
			return err
		}

		existing, err := uc.OrderItemRepository.FindByOrderAndOffering(ctx, cart.ID, request.ProviderID, request.ItemID)
		if err != nil {
			return err
		}
		resulting := request.Quantity
		if existing != nil {
			resulting += existing.Quantity
		}
		if err := checkAvailability(offering, resulting); err != nil {
			return err
		}

		orderItem := &models.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    cart.ID,
			ProviderID: provider.ID,
			ItemID:     item.ID,
			Quantity:   request.Quantity,
			Price:      offering.Price,
		}
		orderItem.SetCreatedAtUpdatedAt(now)
		if err := uc.OrderItemRepository.Upsert(ctx, orderItem); err != nil {
			return err
		}

		total, err := uc.OrderRepository.RecalculateTotal(ctx, cart.ID)
		if err != nil {
			return err
		}

		response = &responses.AddCartItem{
			GuestID:    guestID,
			Item:       toCartItem(newDetail(*orderItem, item, provider)),
			TotalPrice: total,
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("cartUsecase.AddItem error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, guestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("cartUsecase.AddItem succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, guestID),
		zap.String(constvars.LoggingOrderItemIDKey, response.Item.ID),
	)
	return response, nil
}

func (uc *cartUsecase) GetCart(ctx context.Context, guestID string) (*responses.Cart, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("cartUsecase.GetCart called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, guestID),
	)

	empty := &responses.Cart{
		GuestID:    guestID,
		Providers:  []responses.ProviderGroup{},
		TotalPrice: decimal.Zero,
	}

	cart, err := uc.OrderRepository.FindCartByGuestID(ctx, guestID, false)
	if err != nil {
		uc.Log.Error("cartUsecase.GetCart error fetching cart",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, guestID),
			zap.Error(err),
		)
		return nil, err
	}
	if cart == nil {
		return empty, nil
	}

	details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, []string{cart.ID})
	if err != nil {
		uc.Log.Error("cartUsecase.GetCart error fetching items",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, cart.ID),
			zap.Error(err),
		)
		return nil, err
	}

	groups, total := groupByProvider(details)
	return &responses.Cart{
		OrderID:    cart.ID,
		GuestID:    guestID,
		Providers:  groups,
		TotalPrice: total,
	}, nil
}

func (uc *cartUsecase) UpdateItem(ctx context.Context, request *requests.UpdateCartItem) (*responses.UpdateCartItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("cartUsecase.UpdateItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingOrderItemIDKey, request.OrderItemID),
		zap.Int(constvars.LoggingQuantityKey, request.Quantity),
	)

	var response *responses.UpdateCartItem
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := uc.OrderRepository.FindCartByGuestID(ctx, request.GuestID, true)
		if err != nil {
			return err
		}
		if cart == nil {
			return exceptions.ErrCartItemNotFound(nil)
		}

		orderItem, err := uc.OrderItemRepository.FindCartItem(ctx, request.GuestID, request.OrderItemID)
		if err != nil {
			return err
		}
		if orderItem == nil {
			return exceptions.ErrCartItemNotFound(nil)
		}

		provider, item, offering, err := uc.findOffering(ctx, orderItem.ProviderID, orderItem.ItemID)
		if err != nil {
			return err
		}
		if err := checkAvailability(offering, request.Quantity); err != nil {
			return err
		}

		orderItem.Quantity = request.Quantity
		orderItem.Price = offering.Price
		orderItem.SetUpdatedAt(uc.Now())
		if err := uc.OrderItemRepository.Update(ctx, orderItem); err != nil {
			return err
		}

		total, err := uc.OrderRepository.RecalculateTotal(ctx, orderItem.OrderID)
		if err != nil {
			return err
		}

		response = &responses.UpdateCartItem{
			Item:       toCartItem(newDetail(*orderItem, item, provider)),
			TotalPrice: total,
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("cartUsecase.UpdateItem error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, request.GuestID),
			zap.String(constvars.LoggingOrderItemIDKey, request.OrderItemID),
			zap.Error(err),
		)
		return nil, err
	}
	return response, nil
}

func (uc *cartUsecase) RemoveItem(ctx context.Context, request *requests.RemoveCartItem) (*responses.RemoveCartItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("cartUsecase.RemoveItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingOrderItemIDKey, request.OrderItemID),
	)

	var response *responses.RemoveCartItem
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := uc.OrderRepository.FindCartByGuestID(ctx, request.GuestID, true)
		if err != nil {
			return err
		}
		if cart == nil {
			return exceptions.ErrCartItemNotFound(nil)
		}

		deleted, err := uc.OrderItemRepository.DeleteCartItem(ctx, request.GuestID, request.OrderItemID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return exceptions.ErrCartItemNotFound(nil)
		}

		total, err := uc.OrderRepository.RecalculateTotal(ctx, cart.ID)
		if err != nil {
			return err
		}
		response = &responses.RemoveCartItem{TotalPrice: total}
		return nil
	})
	if err != nil {
		uc.Log.Error("cartUsecase.RemoveItem error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, request.GuestID),
			zap.String(constvars.LoggingOrderItemIDKey, request.OrderItemID),
			zap.Error(err),
		)
		return nil, err
	}
	return response, nil
}

func (uc *cartUsecase) GetAvailableTimeSlots(ctx context.Context, request *requests.GetTimeSlots) ([]responses.TimeSlot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("cartUsecase.GetAvailableTimeSlots called",
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

	if request.ItemID != "" {
		offering, err := uc.OfferingRepository.FindByKey(ctx, request.ProviderID, request.ItemID)
		if err != nil {
			return nil, err
		}
		if offering == nil {
			return nil, exceptions.ErrOfferingNotFound(nil)
		}
	}

	if request.FulfillmentType != "" {
		if err := checkProviderSupports(provider, request.FulfillmentType); err != nil {
			return nil, err
		}
	}

	loc := loadLocation(uc.InternalConfig.App.Timezone)
	now := uc.Now().In(loc)
	from := now
	days := uc.InternalConfig.Checkout.TimeSlotLookaheadDays
	if request.Date != nil {
		from = request.Date.In(loc)
		days = 1
	}

	slots, err := uc.slotsFor(ctx, provider, from, days, now, loc)
	if err != nil {
		uc.Log.Error("cartUsecase.GetAvailableTimeSlots error building slots",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
			zap.Error(err),
		)
		return nil, err
	}
	return slots, nil
}

func (uc *cartUsecase) UpdateItemSchedule(ctx context.Context, request *requests.UpdateCartItemSchedule) (*responses.CartItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("cartUsecase.UpdateItemSchedule called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingOrderItemIDKey, request.OrderItemID),
	)

	var response *responses.CartItem
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := uc.OrderRepository.FindCartByGuestID(ctx, request.GuestID, true)
		if err != nil {
			return err
		}
		if cart == nil {
			return exceptions.ErrCartItemNotFound(nil)
		}

		orderItem, err := uc.OrderItemRepository.FindCartItem(ctx, request.GuestID, request.OrderItemID)
		if err != nil {
			return err
		}
		if orderItem == nil {
			return exceptions.ErrCartItemNotFound(nil)
		}

		item, err := uc.CatalogRepository.FindByID(ctx, orderItem.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return exceptions.ErrCatalogItemNotFound(nil)
		}
		provider, err := uc.ProviderRepository.FindByID(ctx, orderItem.ProviderID)
		if err != nil {
			return err
		}
		if provider == nil {
			return exceptions.ErrProviderNotFound(nil)
		}

		if request.FulfillmentType != nil {
			fulfillment := *request.FulfillmentType
			if !isFulfillmentAllowed(item.Kind, fulfillment) {
				return exceptions.ErrInvalidFulfillment(nil, fulfillment, string(item.Kind))
			}
			if err := checkProviderSupports(provider, fulfillment); err != nil {
				return err
			}
			orderItem.FulfillmentType = stringPtr(fulfillment)
		}

		if request.TimeSlotStart != nil {
			start, end, err := uc.resolveSlot(ctx, provider, *request.TimeSlotStart)
			if err != nil {
				return err
			}
			orderItem.TimeSlotStart = &start
			orderItem.TimeSlotEnd = &end
		}

		orderItem.SetUpdatedAt(uc.Now())
		if err := uc.OrderItemRepository.Update(ctx, orderItem); err != nil {
			return err
		}

		line := toCartItem(newDetail(*orderItem, item, provider))
		response = &line
		return nil
	})
	if err != nil {
		uc.Log.Error("cartUsecase.UpdateItemSchedule error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, request.GuestID),
			zap.String(constvars.LoggingOrderItemIDKey, request.OrderItemID),
			zap.Error(err),
		)
		return nil, err
	}
	return response, nil
}

// resolveSlot checks start against the provider's generated slots for that day and returns
// the slot bounds.
func (uc *cartUsecase) resolveSlot(ctx context.Context, provider *models.Provider, start time.Time) (time.Time, time.Time, error) {
	loc := loadLocation(uc.InternalConfig.App.Timezone)
	now := uc.Now().In(loc)
	if start.Before(now) {
		return time.Time{}, time.Time{}, exceptions.ErrTimeSlotUnavailable(fmt.Errorf("slot %s is in the past", start.Format(time.RFC3339)))
	}

	slots, err := uc.slotsFor(ctx, provider, start.In(loc), 1, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return slot.Start, slot.End, nil
		}
	}
	return time.Time{}, time.Time{}, exceptions.ErrTimeSlotUnavailable(fmt.Errorf("slot %s is outside operating hours", start.Format(time.RFC3339)))
}

func (uc *cartUsecase) slotsFor(ctx context.Context, provider *models.Provider, from time.Time, days int, now time.Time, loc *time.Location) ([]responses.TimeSlot, error) {
	if days < 1 {
		days = 1
	}
	windowStart := atClock(from, 0, 0, loc)
	windowEnd := windowStart.AddDate(0, 0, days)

	booked, err := uc.OrderItemRepository.FindBookedSlots(ctx, provider.ID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	slots, err := buildTimeSlots(slotQuery{
		OperatingHours:   provider.OperatingHours,
		From:             from,
		Days:             days,
		Now:              now,
		Booked:           booked,
		LimitedThreshold: uc.InternalConfig.Checkout.SlotLimitedThreshold,
		Location:         loc,
	})
	if err != nil {
		return nil, exceptions.ErrInvalidOperatingHours(err)
	}
	return slots, nil
}

func (uc *cartUsecase) findOffering(ctx context.Context, providerID, itemID string) (*models.Provider, *models.CatalogItem, *models.ProviderOffering, error) {
	provider, err := uc.ProviderRepository.FindByID(ctx, providerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if provider == nil {
		return nil, nil, nil, exceptions.ErrProviderNotFound(nil)
	}
	if !provider.IsOpenForOrders() {
		return nil, nil, nil, exceptions.ErrItemUnavailable(fmt.Errorf("provider %s is not accepting orders", providerID))
	}

	item, err := uc.CatalogRepository.FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, nil, err
	}
	if item == nil {
		return nil, nil, nil, exceptions.ErrCatalogItemNotFound(nil)
	}

	offering, err := uc.OfferingRepository.FindByKey(ctx, providerID, itemID)
	if err != nil {
		return nil, nil, nil, err
	}
	if offering == nil {
		return nil, nil, nil, exceptions.ErrOfferingNotFound(nil)
	}
	return provider, item, offering, nil
}

func checkAvailability(offering *models.ProviderOffering, quantity int) error {
	if offering.CanFulfil(quantity) {
		return nil
	}
	if offering.IsStockTracked() {
		return exceptions.ErrInsufficientStock(fmt.Errorf("stock %d below requested %d", *offering.Stock, quantity))
	}
	return exceptions.ErrItemUnavailable(nil)
}

func isFulfillmentAllowed(kind constvars.ServiceKind, fulfillment string) bool {
	switch kind {
	case constvars.ServiceKindMedication:
		return fulfillment == constvars.FulfillmentPickup || fulfillment == constvars.FulfillmentDelivery
	case constvars.ServiceKindDiagnostic, constvars.ServiceKindDiagnosticPackage:
		return fulfillment == constvars.FulfillmentWalkIn || fulfillment == constvars.FulfillmentHomeCollection
	}
	return false
}

func checkProviderSupports(provider *models.Provider, fulfillment string) error {
	switch fulfillment {
	case constvars.FulfillmentDelivery:
		if !provider.SupportsDelivery {
			return exceptions.ErrFulfillmentUnsupported(nil, fulfillment)
		}
	case constvars.FulfillmentHomeCollection:
		if !provider.SupportsHomeCollection {
			return exceptions.ErrFulfillmentUnsupported(nil, fulfillment)
		}
	}
	return nil
}

func newDetail(orderItem models.OrderItem, item *models.CatalogItem, provider *models.Provider) models.OrderItemDetail {
	return models.OrderItemDetail{
		OrderItem:            orderItem,
		ItemName:             item.Name,
		ItemKind:             item.Kind,
		PrescriptionRequired: item.PrescriptionRequired,
		ProviderName:         provider.Name,
	}
}
