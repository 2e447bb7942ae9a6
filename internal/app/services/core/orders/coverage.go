package orders

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
)

// requiredItemIDs returns the distinct prescription-required catalog item ids in details.
func requiredItemIDs(details []models.OrderItemDetail) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, d := range details {
		if d.PrescriptionRequired && !seen[d.ItemID] {
			seen[d.ItemID] = true
			ids = append(ids, d.ItemID)
		}
	}
	return ids
}

// coversAll reports whether p is verified and links every id. Quantities are not compared.
func coversAll(p *models.Prescription, itemIDs []string) bool {
	if len(itemIDs) == 0 {
		return true
	}
	if p == nil || p.Status != constvars.PrescriptionStatusVerified {
		return false
	}
	for _, id := range itemIDs {
		if !p.Covers(id) {
			return false
		}
	}
	return true
}

// uncoveredItemIDs returns the ids of itemIDs that p does not link. A nil or unverified p
// covers nothing.
func uncoveredItemIDs(p *models.Prescription, itemIDs []string) []string {
	var out []string
	for _, id := range itemIDs {
		if p == nil || p.Status != constvars.PrescriptionStatusVerified || !p.Covers(id) {
			out = append(out, id)
		}
	}
	return out
}

// findCoveringPrescription returns the verified record that covers required, preferring the
// one linked to the order over the guest's latest verified record. It returns nil when
// neither covers.
func findCoveringPrescription(
	ctx context.Context,
	prescriptionRepository contracts.PrescriptionRepository,
	order *models.Order,
	latestVerified *models.Prescription,
	required []string,
) (*models.Prescription, error) {
	if order.PrescriptionID != nil {
		linked, err := prescriptionRepository.FindByID(ctx, *order.PrescriptionID)
		if err != nil {
			return nil, err
		}
		if linked != nil && linked.Status == constvars.PrescriptionStatusVerified && coversAll(linked, required) {
			return linked, nil
		}
	}
	if latestVerified != nil && coversAll(latestVerified, required) {
		return latestVerified, nil
	}
	return nil, nil
}
