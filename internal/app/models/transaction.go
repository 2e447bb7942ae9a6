package models

import "time"

// TransactionReference maps one gateway charge to the sub-orders it settles.
type TransactionReference struct {
	ID                 string    `json:"id"`
	Reference          string    `json:"reference"`
	InternalReferences []string  `json:"internalReferences"`
	CheckoutSessionID  string    `json:"checkoutSessionId"`
	GuestID            string    `json:"guestId"`
	AmountKobo         int64     `json:"amountKobo"`
	CreatedAt          time.Time `json:"createdAt"`
}
