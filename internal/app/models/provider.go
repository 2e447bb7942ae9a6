package models

import (
	"medmarket-service/internal/pkg/constvars"
	"time"

	"github.com/shopspring/decimal"
)

type Provider struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Kind                   string  `json:"kind"`
	Latitude               float64 `json:"latitude"`
	Longitude              float64 `json:"longitude"`
	Address                string  `json:"address"`
	State                  string  `json:"state"`
	LGA                    string  `json:"lga"`
	Ward                   string  `json:"ward"`
	VerificationStatus     string  `json:"verificationStatus"`
	IsActive               bool    `json:"isActive"`
	SupportsDelivery       bool    `json:"supportsDelivery"`
	SupportsHomeCollection bool    `json:"supportsHomeCollection"`
	OperatingHours         string  `json:"operatingHours"`
	Email                  string  `json:"email"`
	Phone                  string  `json:"phone"`
	TimeModel
}

func (p *Provider) IsOpenForOrders() bool {
	return p.IsActive && p.VerificationStatus == constvars.ProviderStatusVerified
}

// ProviderOffering is a provider's priced instance of a catalog item. Stock is nil for
// services tracked only by the availability flag.
type ProviderOffering struct {
	ProviderID  string          `json:"providerId"`
	ItemID      string          `json:"itemId"`
	Stock       *int            `json:"stock,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	Price       decimal.Decimal `json:"price"`
	ReceivedAt  *time.Time      `json:"receivedAt,omitempty"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (o *ProviderOffering) IsStockTracked() bool {
	return o.Stock != nil
}

// CanFulfil checks stock for stock-tracked offerings and the availability flag otherwise.
func (o *ProviderOffering) CanFulfil(quantity int) bool {
	if o.Stock != nil {
		return *o.Stock >= quantity
	}
	return o.IsAvailable
}

type OfferingDetail struct {
	ProviderOffering
	ProviderName string   `json:"providerName"`
	ItemName     string   `json:"itemName"`
	DistanceKm   *float64 `json:"distanceKm,omitempty"`
}

type DeviceToken struct {
	ProviderID string `json:"providerId"`
	Token      string `json:"token"`
	Platform   string `json:"platform"`
	TimeModel
}
