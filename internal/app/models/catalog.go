package models

import "medmarket-service/internal/pkg/constvars"

// CatalogItem is a medication or a diagnostic test/package.
type CatalogItem struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Kind                 constvars.ServiceKind `json:"kind"`
	Category             string                `json:"category"`
	PrescriptionRequired bool                  `json:"prescriptionRequired"`
	Strength             string                `json:"strength,omitempty"`
	DosageForm           string                `json:"dosageForm,omitempty"`
	Description          string                `json:"description,omitempty"`
	TimeModel
}

// IsDiagnostic reports whether the item is booked as an appointment rather than dispensed.
func (c *CatalogItem) IsDiagnostic() bool {
	return c.Kind == constvars.ServiceKindDiagnostic || c.Kind == constvars.ServiceKindDiagnosticPackage
}
