package memstore

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

type OrderRepository struct {
	Store *Store
	// BeforeLock runs when FindByIDsForUpdate is called, standing in for a writer that
	// commits while the row lock is awaited.
	BeforeLock func()
}

func (r *OrderRepository) FindCartByGuestID(ctx context.Context, guestID string, forUpdate bool) (*models.Order, error) {
	found := r.Store.OrdersWhere(func(o models.Order) bool {
		return o.GuestID == guestID && o.Status == constvars.OrderStatusCart
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *OrderRepository) FindReopenableByGuestID(ctx context.Context, guestID string) (*models.Order, error) {
	found := r.Store.OrdersWhere(func(o models.Order) bool {
		return o.GuestID == guestID && o.Status == constvars.OrderStatusPending &&
			(o.PaymentStatus == constvars.PaymentStatusFailed || o.PaymentStatus == constvars.PaymentStatusCancelled)
	})
	if len(found) == 0 {
		return nil, nil
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].UpdatedAt.After(found[j].UpdatedAt) })
	return &found[0], nil
}

func (r *OrderRepository) CreateCart(ctx context.Context, order *models.Order) (bool, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.GuestID == order.GuestID && o.Status == constvars.OrderStatusCart {
			return false, nil
		}
	}
	cart := *order
	cart.Status = constvars.OrderStatusCart
	cart.PaymentStatus = constvars.PaymentStatusPending
	cart.TotalPrice = decimal.Zero
	cart.UpdatedAt = cart.CreatedAt
	s.Orders[cart.ID] = cart
	return true, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.Store.PutOrder(*order)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrderRepository) FindByIDsForUpdate(ctx context.Context, orderIDs []string) ([]models.Order, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	if r.BeforeLock != nil {
		r.BeforeLock()
	}
	return r.Store.OrdersWhere(func(o models.Order) bool {
		return containsString(orderIDs, o.ID)
	}), nil
}

func (r *OrderRepository) FindByIDAndGuestID(ctx context.Context, orderID, guestID string) (*models.Order, error) {
	o, err := r.FindByID(ctx, orderID)
	if err != nil || o == nil || o.GuestID != guestID {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) FindBySessionID(ctx context.Context, sessionID, guestID string, statuses []string) ([]models.Order, error) {
	return r.Store.OrdersWhere(func(o models.Order) bool {
		return o.SessionID() == sessionID && (guestID == "" || o.GuestID == guestID) && containsString(statuses, o.Status)
	}), nil
}

func (r *OrderRepository) FindByGuestIDAndPaymentReferences(ctx context.Context, guestID string, references []string) ([]models.Order, error) {
	return r.Store.OrdersWhere(func(o models.Order) bool {
		return o.GuestID == guestID && o.PaymentReference != nil && containsString(references, *o.PaymentReference)
	}), nil
}

func (r *OrderRepository) FindByTrackingCode(ctx context.Context, trackingCode string, statuses []string) ([]models.Order, error) {
	return r.Store.OrdersWhere(func(o models.Order) bool {
		return o.Tracking() == trackingCode && containsString(statuses, o.Status)
	}), nil
}

func (r *OrderRepository) FindLatestByContact(ctx context.Context, email string, phones []string) (*models.Order, error) {
	found := r.Store.OrdersWhere(func(o models.Order) bool {
		if o.Status == constvars.OrderStatusCart {
			return false
		}
		return (email != "" && o.ContactEmail == email) || containsString(phones, o.ContactPhone)
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[len(found)-1], nil
}

func (r *OrderRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	found := r.Store.OrdersWhere(func(o models.Order) bool {
		return o.Status == constvars.OrderStatusPending &&
			(o.PaymentStatus == constvars.PaymentStatusPending || o.PaymentStatus == constvars.PaymentStatusFailed) &&
			o.StockReserved && o.UpdatedAt.Before(cutoff)
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *OrderRepository) FindByProviderID(ctx context.Context, providerID, status string, limit, offset int) ([]models.Order, int, error) {
	s := r.Store
	s.mu.Lock()
	owned := make(map[string]bool)
	for _, i := range s.OrderItems {
		if i.ProviderID == providerID {
			owned[i.OrderID] = true
		}
	}
	found := s.ordersWhere(func(o models.Order) bool {
		return owned[o.ID] && o.Status != constvars.OrderStatusCart && (status == "" || o.Status == status)
	})
	s.mu.Unlock()

	sort.SliceStable(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	total := len(found)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return found[offset:end], total, nil
}

func (r *OrderRepository) FindPendingByPrescriptionID(ctx context.Context, prescriptionID string) ([]models.Order, error) {
	return r.Store.OrdersWhere(func(o models.Order) bool {
		return o.PrescriptionID != nil && *o.PrescriptionID == prescriptionID && o.Status == constvars.OrderStatusPendingPrescription
	}), nil
}

func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.Orders[order.ID]
	if !ok {
		return nil
	}
	updated := *order
	updated.CreatedAt = existing.CreatedAt
	updated.GuestID = existing.GuestID
	s.Orders[order.ID] = updated
	return nil
}

func (r *OrderRepository) RecalculateTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok {
		return decimal.Zero, nil
	}
	total := decimal.Zero
	for _, i := range s.itemsOf(orderID) {
		total = total.Add(i.LineTotal())
	}
	o.TotalPrice = total
	o.UpdatedAt = o.UpdatedAt.Add(time.Nanosecond)
	s.Orders[orderID] = o
	return total, nil
}

// Delete removes the order and, like the foreign key cascade, its items.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Orders, orderID)
	for id, i := range s.OrderItems {
		if i.OrderID == orderID {
			delete(s.OrderItems, id)
		}
	}
	return nil
}

type OrderItemRepository struct {
	Store *Store
}

func (r *OrderItemRepository) Upsert(ctx context.Context, item *models.OrderItem) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.OrderItems {
		if existing.OrderID == item.OrderID && existing.ProviderID == item.ProviderID && existing.ItemID == item.ItemID {
			existing.Quantity += item.Quantity
			existing.Price = item.Price
			existing.UpdatedAt = item.CreatedAt
			s.OrderItems[id] = existing
			*item = existing
			return nil
		}
	}
	item.UpdatedAt = item.CreatedAt
	s.OrderItems[item.ID] = *item
	return nil
}

func (r *OrderItemRepository) Insert(ctx context.Context, item *models.OrderItem) error {
	r.Store.PutOrderItem(*item)
	return nil
}

func (r *OrderItemRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return r.Store.ItemsOf(orderID), nil
}

func (r *OrderItemRepository) FindByOrderAndOffering(ctx context.Context, orderID, providerID, itemID string) (*models.OrderItem, error) {
	for _, i := range r.Store.ItemsOf(orderID) {
		if i.ProviderID == providerID && i.ItemID == itemID {
			return &i, nil
		}
	}
	return nil, nil
}

func (r *OrderItemRepository) FindDetailsByOrderIDs(ctx context.Context, orderIDs []string) ([]models.OrderItemDetail, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.OrderItem
	for _, i := range s.OrderItems {
		if containsString(orderIDs, i.OrderID) {
			items = append(items, i)
		}
	}
	sort.Slice(items, func(a, b int) bool {
		if items[a].CreatedAt.Equal(items[b].CreatedAt) {
			return items[a].ID < items[b].ID
		}
		return items[a].CreatedAt.Before(items[b].CreatedAt)
	})

	details := make([]models.OrderItemDetail, 0, len(items))
	for _, i := range items {
		catalogItem := s.Items[i.ItemID]
		provider := s.Providers[i.ProviderID]
		details = append(details, models.OrderItemDetail{
			OrderItem:            i,
			ItemName:             catalogItem.Name,
			ItemKind:             catalogItem.Kind,
			PrescriptionRequired: catalogItem.PrescriptionRequired,
			ProviderName:         provider.Name,
		})
	}
	return details, nil
}

func (r *OrderItemRepository) FindCartItem(ctx context.Context, guestID, orderItemID string) (*models.OrderItem, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.OrderItems[orderItemID]
	if !ok {
		return nil, nil
	}
	o, ok := s.Orders[i.OrderID]
	if !ok || o.GuestID != guestID || o.Status != constvars.OrderStatusCart {
		return nil, nil
	}
	return &i, nil
}

func (r *OrderItemRepository) Update(ctx context.Context, item *models.OrderItem) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.OrderItems[item.ID]; ok {
		s.OrderItems[item.ID] = *item
	}
	return nil
}

func (r *OrderItemRepository) DeleteCartItem(ctx context.Context, guestID, orderItemID string) (int64, error) {
	found, err := r.FindCartItem(ctx, guestID, orderItemID)
	if err != nil || found == nil {
		return 0, err
	}
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.OrderItems, orderItemID)
	return 1, nil
}

func (r *OrderItemRepository) MoveToOrder(ctx context.Context, orderItemIDs []string, orderID string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range orderItemIDs {
		if i, ok := s.OrderItems[id]; ok {
			i.OrderID = orderID
			s.OrderItems[id] = i
		}
	}
	return nil
}

func (r *OrderItemRepository) FindBookedSlots(ctx context.Context, providerID string, from, to time.Time) ([]models.BookedSlot, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BookedSlot
	for _, i := range s.OrderItems {
		if i.ProviderID != providerID || i.TimeSlotStart == nil || i.TimeSlotEnd == nil {
			continue
		}
		o := s.Orders[i.OrderID]
		if o.Status == constvars.OrderStatusCart || o.Status == constvars.OrderStatusCancelled {
			continue
		}
		if i.TimeSlotStart.Before(to) && i.TimeSlotEnd.After(from) {
			out = append(out, models.BookedSlot{Start: *i.TimeSlotStart, End: *i.TimeSlotEnd})
		}
	}
	return out, nil
}

func (r *OrderItemRepository) ExistsForProvider(ctx context.Context, orderID, providerID string) (bool, error) {
	for _, i := range r.Store.ItemsOf(orderID) {
		if i.ProviderID == providerID {
			return true, nil
		}
	}
	return false, nil
}

type TransactionReferenceRepository struct {
	Store *Store
}

func (r *TransactionReferenceRepository) Create(ctx context.Context, reference *models.TransactionReference) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := *reference
	ref.InternalReferences = append([]string(nil), reference.InternalReferences...)
	s.TxRefs[ref.ID] = ref
	return nil
}

func (r *TransactionReferenceRepository) FindByReference(ctx context.Context, reference string) (*models.TransactionReference, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ref := range s.TxRefs {
		if ref.Reference == reference {
			return &ref, nil
		}
	}
	return nil, nil
}

func (r *TransactionReferenceRepository) FindByInternalReference(ctx context.Context, internalReference string) (*models.TransactionReference, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.TransactionReference
	for _, ref := range s.TxRefs {
		if containsString(ref.InternalReferences, internalReference) {
			if latest == nil || ref.CreatedAt.After(latest.CreatedAt) {
				r := ref
				latest = &r
			}
		}
	}
	return latest, nil
}

type OrderEventRepository struct {
	Store *Store
}

func (r *OrderEventRepository) InsertMany(ctx context.Context, events []models.OrderEvent) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, events...)
	return nil
}

func (r *OrderEventRepository) FindByOrderIDs(ctx context.Context, orderIDs []string) ([]models.OrderEvent, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.OrderEvent
	for _, e := range s.Events {
		if containsString(orderIDs, e.OrderID) {
			out = append(out, e)
		}
	}
	return out, nil
}
