package memstore

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"sort"
	"strings"
	"time"
)

type CatalogRepository struct {
	Store *Store
}

func (r *CatalogRepository) FindByID(ctx context.Context, itemID string) (*models.CatalogItem, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.Items[itemID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *CatalogRepository) FindByIDs(ctx context.Context, itemIDs []string) ([]models.CatalogItem, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CatalogItem
	for _, id := range itemIDs {
		if item, ok := s.Items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *CatalogRepository) Search(ctx context.Context, kind, query string) ([]models.CatalogItem, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.ToLower(query)
	var out []models.CatalogItem
	for _, item := range s.Items {
		if kind != "" && string(item.Kind) != kind {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) Create(ctx context.Context, item *models.CatalogItem) error {
	r.Store.PutItem(*item)
	return nil
}

type OfferingRepository struct {
	Store *Store
}

func (r *OfferingRepository) FindByKey(ctx context.Context, providerID, itemID string) (*models.ProviderOffering, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Offerings[offeringKey(providerID, itemID)]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OfferingRepository) details(keep func(models.ProviderOffering, models.Provider) bool) []models.OfferingDetail {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.OfferingDetail
	for _, o := range s.Offerings {
		provider := s.Providers[o.ProviderID]
		if !keep(o, provider) {
			continue
		}
		out = append(out, models.OfferingDetail{
			ProviderOffering: o,
			ProviderName:     provider.Name,
			ItemName:         s.Items[o.ItemID].Name,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProviderName == out[j].ProviderName {
			return out[i].ItemName < out[j].ItemName
		}
		return out[i].ProviderName < out[j].ProviderName
	})
	return out
}

func (r *OfferingRepository) FindByProviderID(ctx context.Context, providerID string) ([]models.OfferingDetail, error) {
	return r.details(func(o models.ProviderOffering, _ models.Provider) bool {
		return o.ProviderID == providerID
	}), nil
}

// FindNearby ignores the point; ordering is by provider name.
func (r *OfferingRepository) FindNearby(ctx context.Context, itemID string, latitude, longitude *float64, radiusKm float64) ([]models.OfferingDetail, error) {
	return r.details(func(o models.ProviderOffering, p models.Provider) bool {
		return o.ItemID == itemID && p.IsOpenForOrders()
	}), nil
}

func (r *OfferingRepository) Upsert(ctx context.Context, offering *models.ProviderOffering) error {
	if offering.UpdatedAt.IsZero() {
		offering.UpdatedAt = time.Now()
	}
	r.Store.PutOffering(*offering)
	return nil
}

func (r *OfferingRepository) Delete(ctx context.Context, providerID, itemID string) (int64, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := offeringKey(providerID, itemID)
	if _, ok := s.Offerings[key]; !ok {
		return 0, nil
	}
	delete(s.Offerings, key)
	return 1, nil
}

func (r *OfferingRepository) DecrementStock(ctx context.Context, providerID, itemID string, quantity int) (bool, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := offeringKey(providerID, itemID)
	o, ok := s.Offerings[key]
	if !ok {
		return false, nil
	}
	if o.Stock == nil {
		return o.IsAvailable, nil
	}
	if *o.Stock < quantity {
		return false, nil
	}
	stock := *o.Stock - quantity
	o.Stock = &stock
	s.Offerings[key] = o
	return true, nil
}

func (r *OfferingRepository) IncrementStock(ctx context.Context, providerID, itemID string, quantity int) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := offeringKey(providerID, itemID)
	o, ok := s.Offerings[key]
	if !ok || o.Stock == nil {
		return nil
	}
	stock := *o.Stock + quantity
	o.Stock = &stock
	s.Offerings[key] = o
	return nil
}

type ProviderRepository struct {
	Store *Store
}

func (r *ProviderRepository) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Providers[providerID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProviderRepository) FindByIDs(ctx context.Context, providerIDs []string) ([]models.Provider, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Provider
	for _, id := range providerIDs {
		if p, ok := s.Providers[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProviderRepository) Create(ctx context.Context, provider *models.Provider) error {
	r.Store.PutProvider(*provider)
	return nil
}

func (r *ProviderRepository) Update(ctx context.Context, provider *models.Provider) error {
	r.Store.PutProvider(*provider)
	return nil
}

func (r *ProviderRepository) UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeviceTokens[token.Token] = *token
	return nil
}

func (r *ProviderRepository) FindDeviceTokens(ctx context.Context, providerID string) ([]models.DeviceToken, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DeviceToken
	for _, t := range s.DeviceTokens {
		if t.ProviderID == providerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

type PrescriptionRepository struct {
	Store *Store
}

func (r *PrescriptionRepository) sorted(keep func(models.Prescription) bool) []models.Prescription {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Prescription
	for _, p := range s.Prescriptions {
		if keep(p) {
			out = append(out, p)
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

func (r *PrescriptionRepository) FindLatestVerifiedByGuestID(ctx context.Context, guestID string) (*models.Prescription, error) {
	found := r.sorted(func(p models.Prescription) bool {
		return p.GuestID == guestID && p.Status == constvars.PrescriptionStatusVerified
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[len(found)-1], nil
}

func (r *PrescriptionRepository) FindByID(ctx context.Context, prescriptionID string) (*models.Prescription, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Prescriptions[prescriptionID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PrescriptionRepository) FindLatestByContact(ctx context.Context, email string, phones []string) (*models.Prescription, error) {
	found := r.sorted(func(p models.Prescription) bool {
		return (email != "" && p.Email == email) || containsString(phones, p.Phone)
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[len(found)-1], nil
}

func (r *PrescriptionRepository) FindByStatus(ctx context.Context, status string, limit, offset int) ([]models.Prescription, int, error) {
	found := r.sorted(func(p models.Prescription) bool {
		return status == "" || p.Status == status
	})
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

func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	r.Store.PutPrescription(*prescription)
	return nil
}

// UpdateReview only applies to records still pending review.
func (r *PrescriptionRepository) UpdateReview(ctx context.Context, prescription *models.Prescription) (bool, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.Prescriptions[prescription.ID]
	if !ok || existing.Status != constvars.PrescriptionStatusPending {
		return false, nil
	}
	existing.Status = prescription.Status
	existing.RejectionReason = prescription.RejectionReason
	existing.ReviewedBy = prescription.ReviewedBy
	existing.ReviewedAt = prescription.ReviewedAt
	existing.UpdatedAt = prescription.UpdatedAt
	s.Prescriptions[prescription.ID] = existing
	return true, nil
}

type UserRepository struct {
	Store *Store
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[user.ID] = *user
	return nil
}

func (r *UserRepository) List(ctx context.Context, role string, limit, offset int) ([]models.User, int, error) {
	s := r.Store
	s.mu.Lock()
	var found []models.User
	for _, u := range s.Users {
		if role == "" || u.Role == role {
			found = append(found, u)
		}
	}
	s.mu.Unlock()
	sort.Slice(found, func(i, j int) bool { return found[i].Email < found[j].Email })
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

func (r *UserRepository) UpdateActive(ctx context.Context, userID string, isActive bool) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[userID]; ok {
		u.IsActive = isActive
		s.Users[userID] = u
	}
	return nil
}
