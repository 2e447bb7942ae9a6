package models

import "time"

// Prescription is an uploaded prescription or test order awaiting or past manual review.
type Prescription struct {
	ID              string     `json:"id"`
	GuestID         string     `json:"guestId"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	FileReference   string     `json:"fileReference"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CoveredItemIDs  []string   `json:"coveredItemIds"`
	ReviewedBy      *string    `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	TimeModel
}

func (p *Prescription) Covers(itemID string) bool {
	for _, id := range p.CoveredItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}
