package requests

type CreateUser struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	FullName   string `json:"fullName" validate:"required,max=200"`
	Role       string `json:"role" validate:"required,user_role"`
	ProviderID string `json:"providerId" validate:"required_if=Role provider_staff,omitempty,uuid"`
}

type ListUsers struct {
	Role       string `validate:"omitempty,user_role"`
	Pagination Pagination
}

type SetUserActive struct {
	ActorID  string `json:"-"`
	UserID   string `json:"-"`
	IsActive *bool  `json:"isActive" validate:"required"`
}
