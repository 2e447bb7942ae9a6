package models

import "time"

type Session struct {
	SessionID  string    `json:"sessionId"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ProviderID string    `json:"providerId,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
