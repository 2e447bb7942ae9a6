package responses

import "time"

type Prescription struct {
	ID              string     `json:"id"`
	GuestID         string     `json:"guestId"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CoveredItemIDs  []string   `json:"coveredItemIds"`
	ReviewedBy      *string    `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type PrescriptionFileURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
