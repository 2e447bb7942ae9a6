package orders

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func toCartItem(d models.OrderItemDetail) responses.CartItem {
	return responses.CartItem{
		ID:                   d.ID,
		ItemID:               d.ItemID,
		ProviderID:           d.ProviderID,
		Name:                 d.ItemName,
		Kind:                 string(d.ItemKind),
		PrescriptionRequired: d.PrescriptionRequired,
		Quantity:             d.Quantity,
		Price:                d.Price,
		Subtotal:             d.LineTotal(),
		TimeSlotStart:        d.TimeSlotStart,
		TimeSlotEnd:          d.TimeSlotEnd,
		FulfillmentType:      d.FulfillmentType,
	}
}

// groupByProvider keeps providers in order of first appearance.
func groupByProvider(details []models.OrderItemDetail) ([]responses.ProviderGroup, decimal.Decimal) {
	groups := make([]responses.ProviderGroup, 0)
	index := make(map[string]int)
	total := decimal.Zero
	for _, d := range details {
		i, ok := index[d.ProviderID]
		if !ok {
			groups = append(groups, responses.ProviderGroup{
				ProviderID:   d.ProviderID,
				ProviderName: d.ProviderName,
				Items:        []responses.CartItem{},
				Subtotal:     decimal.Zero,
			})
			i = len(groups) - 1
			index[d.ProviderID] = i
		}
		line := toCartItem(d)
		groups[i].Items = append(groups[i].Items, line)
		groups[i].Subtotal = groups[i].Subtotal.Add(line.Subtotal)
		total = total.Add(line.Subtotal)
	}
	return groups, total
}

func detailsByOrder(details []models.OrderItemDetail) map[string][]models.OrderItemDetail {
	out := make(map[string][]models.OrderItemDetail)
	for _, d := range details {
		out[d.OrderID] = append(out[d.OrderID], d)
	}
	return out
}

func orderIDs(orders []models.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func toOrderResponse(order *models.Order, details []models.OrderItemDetail) responses.Order {
	response := responses.Order{
		OrderID:          order.ID,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		PaymentReference: order.Reference(),
		TrackingCode:     order.Tracking(),
		TotalPrice:       order.TotalPrice,
		Items:            make([]responses.CartItem, 0, len(details)),
		CreatedAt:        order.CreatedAt,
	}
	if order.PrescriptionID != nil {
		response.PrescriptionID = *order.PrescriptionID
	}
	if order.CancellationReason != nil {
		response.CancellationReason = *order.CancellationReason
	}
	for _, d := range details {
		if response.ProviderID == "" {
			response.ProviderID = d.ProviderID
			response.ProviderName = d.ProviderName
		}
		response.Items = append(response.Items, toCartItem(d))
	}
	return response
}

// BuildOrderResponses renders orders with their item details.
func BuildOrderResponses(orders []models.Order, details []models.OrderItemDetail) []responses.Order {
	byOrder := detailsByOrder(details)
	out := make([]responses.Order, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i], byOrder[orders[i].ID]))
	}
	return out
}

// groupOrdersByProvider groups order responses by their provider, sorted by provider name.
func groupOrdersByProvider(orders []responses.Order) ([]responses.ProviderOrders, decimal.Decimal) {
	groups := make([]responses.ProviderOrders, 0)
	index := make(map[string]int)
	total := decimal.Zero
	for _, o := range orders {
		i, ok := index[o.ProviderID]
		if !ok {
			groups = append(groups, responses.ProviderOrders{
				ProviderID:   o.ProviderID,
				ProviderName: o.ProviderName,
				Orders:       []responses.Order{},
				Subtotal:     decimal.Zero,
			})
			i = len(groups) - 1
			index[o.ProviderID] = i
		}
		groups[i].Orders = append(groups[i].Orders, o)
		groups[i].Subtotal = groups[i].Subtotal.Add(o.TotalPrice)
		total = total.Add(o.TotalPrice)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].ProviderName < groups[b].ProviderName })
	return groups, total
}

func stringPtr(s string) *string {
	return &s
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// findOrCreateCart returns the guest's cart row locked for update. When no cart exists the
// guest's most recent abandoned sub-order is reopened, otherwise a new cart is inserted. A
// concurrent insert for the same guest loses on the partial unique index and re-reads.
func findOrCreateCart(
	ctx context.Context,
	orderRepository contracts.OrderRepository,
	inventory contracts.InventoryService,
	guestID string,
	now time.Time,
) (*models.Order, error) {
	cart, err := orderRepository.FindCartByGuestID(ctx, guestID, true)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	reopenable, err := orderRepository.FindReopenableByGuestID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if reopenable != nil {
		if err := inventory.Release(ctx, reopenable); err != nil {
			return nil, err
		}
		reopenable.Status = constvars.OrderStatusCart
		reopenable.PaymentStatus = constvars.PaymentStatusPending
		reopenable.PaymentReference = nil
		reopenable.CheckoutSessionID = nil
		reopenable.TrackingCode = nil
		reopenable.PrescriptionID = nil
		reopenable.SetUpdatedAt(now)
		if err := orderRepository.Update(ctx, reopenable); err != nil {
			return nil, err
		}
		return reopenable, nil
	}

	cart = &models.Order{
		ID:            uuid.NewString(),
		GuestID:       guestID,
		Status:        constvars.OrderStatusCart,
		PaymentStatus: constvars.PaymentStatusPending,
		TotalPrice:    decimal.Zero,
	}
	cart.SetCreatedAtUpdatedAt(now)

	created, err := orderRepository.CreateCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	if created {
		return cart, nil
	}

	cart, err = orderRepository.FindCartByGuestID(ctx, guestID, true)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, exceptions.ErrServerProcess(fmt.Errorf("cart for guest %s vanished after conflict", guestID))
	}
	return cart, nil
}
