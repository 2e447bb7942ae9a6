package requests

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterProvider struct {
	Name                   string  `json:"name" validate:"required,max=200"`
	Kind                   string  `json:"kind" validate:"required,oneof=pharmacy lab"`
	Latitude               float64 `json:"latitude" validate:"required,latitude"`
	Longitude              float64 `json:"longitude" validate:"required,longitude"`
	Address                string  `json:"address" validate:"required,max=500"`
	State                  string  `json:"state" validate:"required"`
	LGA                    string  `json:"lga" validate:"required"`
	Ward                   string  `json:"ward"`
	SupportsDelivery       bool    `json:"supportsDelivery"`
	SupportsHomeCollection bool    `json:"supportsHomeCollection"`
	OperatingHours         string  `json:"operatingHours" validate:"required,max=200"`
	Email                  string  `json:"email" validate:"required,email"`
	Phone                  string  `json:"phone" validate:"required,phone_number"`
}

type ReviewProvider struct {
	ProviderID string `json:"-"`
	Status     string `json:"status" validate:"required,review_status"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
}

type UpsertOffering struct {
	ProviderID  string          `json:"-"`
	ItemID      string          `json:"itemId" validate:"required,uuid"`
	Stock       *int            `json:"stock" validate:"omitempty,gte=0"`
	IsAvailable bool            `json:"isAvailable"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	ReceivedAt  *time.Time      `json:"receivedAt"`
	ExpiresAt   *time.Time      `json:"expiresAt"`
}

type ListProviderOrders struct {
	ProviderID string
	Status     string `validate:"omitempty,order_status"`
	Pagination Pagination
}

type UpdateOrderStatus struct {
	OrderID   string `json:"-"`
	ActorID   string `json:"-"`
	ActorRole string `json:"-"`
	// ProviderID is empty for admins.
	ProviderID string `json:"-"`
	Status     string `json:"status" validate:"required,order_status"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
}

type RegisterDeviceToken struct {
	ProviderID string `json:"-"`
	Token      string `json:"token" validate:"required,max=512"`
	Platform   string `json:"platform" validate:"required,oneof=android ios web"`
}
