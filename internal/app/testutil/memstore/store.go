// Package memstore keeps marketplace state in memory for usecase tests. Its repositories
// follow the semantics of the postgres queries, and its Transactor rolls state back to a
// snapshot when the wrapped function fails.
package memstore

import (
	"context"
	"medmarket-service/internal/app/models"
	"sort"
	"sync"
)

type txKey struct{}

type Store struct {
	mu            sync.Mutex
	Providers     map[string]models.Provider
	Items         map[string]models.CatalogItem
	Offerings     map[string]models.ProviderOffering
	Orders        map[string]models.Order
	OrderItems    map[string]models.OrderItem
	Prescriptions map[string]models.Prescription
	TxRefs        map[string]models.TransactionReference
	DeviceTokens  map[string]models.DeviceToken
	Users         map[string]models.User
	Events        []models.OrderEvent
}

func New() *Store {
	return &Store{
		Providers:     map[string]models.Provider{},
		Items:         map[string]models.CatalogItem{},
		Offerings:     map[string]models.ProviderOffering{},
		Orders:        map[string]models.Order{},
		OrderItems:    map[string]models.OrderItem{},
		Prescriptions: map[string]models.Prescription{},
		TxRefs:        map[string]models.TransactionReference{},
		DeviceTokens:  map[string]models.DeviceToken{},
		Users:         map[string]models.User{},
	}
}

func offeringKey(providerID, itemID string) string {
	return providerID + "|" + itemID
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Store{
		Providers:     cloneMap(s.Providers),
		Items:         cloneMap(s.Items),
		Offerings:     cloneMap(s.Offerings),
		Orders:        cloneMap(s.Orders),
		OrderItems:    cloneMap(s.OrderItems),
		Prescriptions: cloneMap(s.Prescriptions),
		TxRefs:        cloneMap(s.TxRefs),
		DeviceTokens:  cloneMap(s.DeviceTokens),
		Users:         cloneMap(s.Users),
		Events:        append([]models.OrderEvent(nil), s.Events...),
	}
}

func (s *Store) restore(snap *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Providers = snap.Providers
	s.Items = snap.Items
	s.Offerings = snap.Offerings
	s.Orders = snap.Orders
	s.OrderItems = snap.OrderItems
	s.Prescriptions = snap.Prescriptions
	s.TxRefs = snap.TxRefs
	s.DeviceTokens = snap.DeviceTokens
	s.Users = snap.Users
	s.Events = snap.Events
}

// PutProvider, PutItem and PutOffering seed reference data.
func (s *Store) PutProvider(p models.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Providers[p.ID] = p
}

func (s *Store) PutItem(item models.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Items[item.ID] = item
}

func (s *Store) PutOffering(o models.ProviderOffering) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Stock != nil {
		stock := *o.Stock
		o.Stock = &stock
	}
	s.Offerings[offeringKey(o.ProviderID, o.ItemID)] = o
}

func (s *Store) PutPrescription(p models.Prescription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.CoveredItemIDs = append([]string(nil), p.CoveredItemIDs...)
	s.Prescriptions[p.ID] = p
}

func (s *Store) PutOrder(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orders[o.ID] = o
}

func (s *Store) PutOrderItem(i models.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OrderItems[i.ID] = i
}

// Stock returns the current stock of an offering, or -1 when it is not stock-tracked.
func (s *Store) Stock(providerID, itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Offerings[offeringKey(providerID, itemID)]
	if !ok || o.Stock == nil {
		return -1
	}
	return *o.Stock
}

// OrdersWhere returns the orders matching keep sorted by creation.
func (s *Store) OrdersWhere(keep func(models.Order) bool) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordersWhere(keep)
}

func (s *Store) ordersWhere(keep func(models.Order) bool) []models.Order {
	var out []models.Order
	for _, o := range s.Orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) ItemsOf(orderID string) []models.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsOf(orderID)
}

func (s *Store) itemsOf(orderID string) []models.OrderItem {
	var out []models.OrderItem
	for _, i := range s.OrderItems {
		if i.OrderID == orderID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out
}

func (s *Store) TransactionReferences() []models.TransactionReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TransactionReference, 0, len(s.TxRefs))
	for _, r := range s.TxRefs {
		out = append(out, r)
	}
	return out
}

// Transactor snapshots the store and restores it when fn fails. Nested calls join the outer one.
type Transactor struct {
	Store     *Store
	Commits   int
	Rollbacks int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	snap := t.Store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.Store.restore(snap)
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}
