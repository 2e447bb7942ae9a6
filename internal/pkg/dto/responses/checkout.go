package responses

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID            string          `json:"orderId"`
	ProviderID         string          `json:"providerId,omitempty"`
	ProviderName       string          `json:"providerName,omitempty"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"paymentStatus"`
	PaymentReference   string          `json:"paymentReference,omitempty"`
	TrackingCode       string          `json:"trackingCode,omitempty"`
	PrescriptionID     string          `json:"prescriptionId,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	Items              []CartItem      `json:"items"`
	CreatedAt          time.Time       `json:"createdAt"`
}

type Checkout struct {
	Status               string          `json:"status"`
	GuestID              string          `json:"guestId"`
	CheckoutSessionID    string          `json:"checkoutSessionId"`
	Orders               []Order         `json:"orders"`
	PrescriptionID       string          `json:"prescriptionId,omitempty"`
	TotalPayable         decimal.Decimal `json:"totalPayable"`
	PaymentURL           string          `json:"paymentUrl,omitempty"`
	AccessCode           string          `json:"accessCode,omitempty"`
	TransactionReference string          `json:"transactionReference,omitempty"`
}

type Session struct {
	GuestID           string    `json:"guestId"`
	CheckoutSessionID string    `json:"checkoutSessionId,omitempty"`
	Source            string    `json:"source"`
	CreatedAt         time.Time `json:"createdAt"`
}

type ProviderOrders struct {
	ProviderID   string          `json:"providerId"`
	ProviderName string          `json:"providerName"`
	Orders       []Order         `json:"orders"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type Confirmation struct {
	Status            string           `json:"status"`
	CheckoutSessionID string           `json:"checkoutSessionId"`
	TrackingCode      string           `json:"trackingCode"`
	Providers         []ProviderOrders `json:"providers"`
	TotalPrice        decimal.Decimal  `json:"totalPrice"`
}

type PrescriptionSummary struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

type StatusEvent struct {
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type TrackedOrder struct {
	Order
	DeliveryAddress string               `json:"deliveryAddress,omitempty"`
	Prescription    *PrescriptionSummary `json:"prescription,omitempty"`
	History         []StatusEvent        `json:"history,omitempty"`
}

type Tracking struct {
	TrackingCode string         `json:"trackingCode"`
	Orders       []TrackedOrder `json:"orders"`
}
