package requests

import "time"

type OrderNotification struct {
	Event             string    `json:"event"`
	GuestID           string    `json:"guestId"`
	CheckoutSessionID string    `json:"checkoutSessionId,omitempty"`
	TrackingCode      string    `json:"trackingCode,omitempty"`
	OrderIDs          []string  `json:"orderIds"`
	Status            string    `json:"status"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}

type PrescriptionNotification struct {
	Event          string    `json:"event"`
	PrescriptionID string    `json:"prescriptionId"`
	GuestID        string    `json:"guestId"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	OrderIDs       []string  `json:"orderIds"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type ProviderNotification struct {
	Event        string    `json:"event"`
	ProviderID   string    `json:"providerId"`
	OrderID      string    `json:"orderId"`
	DeviceTokens []string  `json:"deviceTokens"`
	OccurredAt   time.Time `json:"occurredAt"`
}
