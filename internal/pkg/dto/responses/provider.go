package responses

import "time"

type Provider struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Kind                   string    `json:"kind"`
	Latitude               float64   `json:"latitude"`
	Longitude              float64   `json:"longitude"`
	Address                string    `json:"address"`
	State                  string    `json:"state"`
	LGA                    string    `json:"lga"`
	Ward                   string    `json:"ward,omitempty"`
	VerificationStatus     string    `json:"verificationStatus"`
	IsActive               bool      `json:"isActive"`
	SupportsDelivery       bool      `json:"supportsDelivery"`
	SupportsHomeCollection bool      `json:"supportsHomeCollection"`
	OperatingHours         string    `json:"operatingHours"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	CreatedAt              time.Time `json:"createdAt"`
}

type DeviceToken struct {
	ProviderID string `json:"providerId"`
	Token      string `json:"token"`
	Platform   string `json:"platform"`
}
