package requests

import "time"

type AddCartItem struct {
	GuestID    string `json:"-"`
	ItemID     string `json:"itemId" validate:"required,uuid"`
	ProviderID string `json:"providerId" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,gte=1,lte=1000"`
}

type UpdateCartItem struct {
	GuestID     string `json:"-"`
	OrderItemID string `json:"-"`
	Quantity    int    `json:"quantity" validate:"required,gte=1,lte=1000"`
}

type RemoveCartItem struct {
	GuestID     string
	OrderItemID string
}

type UpdateCartItemSchedule struct {
	GuestID         string     `json:"-"`
	OrderItemID     string     `json:"-"`
	TimeSlotStart   *time.Time `json:"timeSlotStart"`
	FulfillmentType *string    `json:"fulfillmentType" validate:"omitempty,fulfillment_type"`
}

type GetTimeSlots struct {
	ProviderID      string     `validate:"required,uuid"`
	ItemID          string     `validate:"omitempty,uuid"`
	FulfillmentType string     `validate:"omitempty,fulfillment_type"`
	Date            *time.Time `validate:"omitempty"`
}
