package models

import (
	"medmarket-service/internal/pkg/constvars"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                 string          `json:"id"`
	GuestID            string          `json:"guestId"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"paymentStatus"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	PrescriptionID     *string         `json:"prescriptionId,omitempty"`
	TrackingCode       *string         `json:"trackingCode,omitempty"`
	CheckoutSessionID  *string         `json:"checkoutSessionId,omitempty"`
	PaymentReference   *string         `json:"paymentReference,omitempty"`
	ContactEmail       string          `json:"contactEmail,omitempty"`
	ContactPhone       string          `json:"contactPhone,omitempty"`
	DeliveryAddress    string          `json:"deliveryAddress,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	StockReserved      bool            `json:"stockReserved"`
	PaidAt             *time.Time      `json:"paidAt,omitempty"`
	TimeModel
}

func (o *Order) IsCart() bool {
	return o.Status == constvars.OrderStatusCart
}

func (o *Order) SessionID() string {
	if o.CheckoutSessionID == nil {
		return ""
	}
	return *o.CheckoutSessionID
}

func (o *Order) Reference() string {
	if o.PaymentReference == nil {
		return ""
	}
	return *o.PaymentReference
}

func (o *Order) Tracking() string {
	if o.TrackingCode == nil {
		return ""
	}
	return *o.TrackingCode
}

// OrderItem snapshots the offering price at the time it was added or last updated.
type OrderItem struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"orderId"`
	ProviderID      string          `json:"providerId"`
	ItemID          string          `json:"itemId"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TimeSlotStart   *time.Time      `json:"timeSlotStart,omitempty"`
	TimeSlotEnd     *time.Time      `json:"timeSlotEnd,omitempty"`
	FulfillmentType *string         `json:"fulfillmentType,omitempty"`
	TimeModel
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderItemDetail struct {
	OrderItem
	ItemName             string                `json:"itemName"`
	ItemKind             constvars.ServiceKind `json:"itemKind"`
	PrescriptionRequired bool                  `json:"prescriptionRequired"`
	ProviderName         string                `json:"providerName"`
}

type BookedSlot struct {
	Start time.Time
	End   time.Time
}

// OrderEvent is one entry of an order's status history.
type OrderEvent struct {
	OrderID       string    `json:"orderId" bson:"orderId"`
	GuestID       string    `json:"guestId" bson:"guestId"`
	FromStatus    string    `json:"fromStatus" bson:"fromStatus"`
	ToStatus      string    `json:"toStatus" bson:"toStatus"`
	PaymentStatus string    `json:"paymentStatus" bson:"paymentStatus"`
	Actor         string    `json:"actor" bson:"actor"`
	ActorID       string    `json:"actorId,omitempty" bson:"actorId,omitempty"`
	Reason        string    `json:"reason,omitempty" bson:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurredAt" bson:"occurredAt"`
}
