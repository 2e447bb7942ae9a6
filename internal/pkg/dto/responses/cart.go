package responses

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID                   string          `json:"id"`
	ItemID               string          `json:"itemId"`
	ProviderID           string          `json:"providerId"`
	Name                 string          `json:"name"`
	Kind                 string          `json:"kind"`
	PrescriptionRequired bool            `json:"prescriptionRequired"`
	Quantity             int             `json:"quantity"`
	Price                decimal.Decimal `json:"price"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	TimeSlotStart        *time.Time      `json:"timeSlotStart,omitempty"`
	TimeSlotEnd          *time.Time      `json:"timeSlotEnd,omitempty"`
	FulfillmentType      *string         `json:"fulfillmentType,omitempty"`
}

type ProviderGroup struct {
	ProviderID   string          `json:"providerId"`
	ProviderName string          `json:"providerName"`
	Items        []CartItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	OrderID    string          `json:"orderId,omitempty"`
	GuestID    string          `json:"guestId,omitempty"`
	Providers  []ProviderGroup `json:"providers"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type AddCartItem struct {
	GuestID    string          `json:"guestId"`
	Item       CartItem        `json:"item"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type UpdateCartItem struct {
	Item       CartItem        `json:"item"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type RemoveCartItem struct {
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type TimeSlot struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
	Bookings int       `json:"bookings"`
}
