package models

type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	FullName     string  `json:"fullName"`
	Role         string  `json:"role"`
	ProviderID   *string `json:"providerId,omitempty"`
	IsActive     bool    `json:"isActive"`
	TimeModel
}
