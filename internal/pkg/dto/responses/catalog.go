package responses

import (
	"time"

	"github.com/shopspring/decimal"
)

type CatalogItem struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Kind                 string    `json:"kind"`
	Category             string    `json:"category"`
	PrescriptionRequired bool      `json:"prescriptionRequired"`
	Strength             string    `json:"strength,omitempty"`
	DosageForm           string    `json:"dosageForm,omitempty"`
	Description          string    `json:"description,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

type Offering struct {
	ProviderID   string          `json:"providerId"`
	ProviderName string          `json:"providerName,omitempty"`
	ItemID       string          `json:"itemId"`
	ItemName     string          `json:"itemName,omitempty"`
	Stock        *int            `json:"stock,omitempty"`
	IsAvailable  bool            `json:"isAvailable"`
	Price        decimal.Decimal `json:"price"`
	ReceivedAt   *time.Time      `json:"receivedAt,omitempty"`
	ExpiresAt    *time.Time      `json:"expiresAt,omitempty"`
	DistanceKm   *float64        `json:"distanceKm,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
