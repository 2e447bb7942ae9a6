package requests

type InitiateCheckout struct {
	GuestID          string      `json:"-"`
	IdempotencyKey   string      `json:"-"`
	Email            string      `json:"email" validate:"required,email"`
	Phone            string      `json:"phone" validate:"required,phone_number"`
	DeliveryAddress  string      `json:"deliveryAddress" validate:"omitempty,max=500"`
	PrescriptionFile *FileUpload `json:"-"`
}

type RetrieveSession struct {
	Email             string `json:"email" validate:"required_without_all=Phone CheckoutSessionID,omitempty,email"`
	Phone             string `json:"phone" validate:"omitempty,phone_number"`
	CheckoutSessionID string `json:"checkoutSessionId" validate:"omitempty,uuid"`
}

type ResumeCheckout struct {
	GuestID string `json:"-"`
	OrderID string `json:"-"`
	Email   string `json:"email" validate:"required,email"`
}

type PartialCheckout struct {
	GuestID string
	OrderID string
}

type ConfirmOrder struct {
	GuestID           string `json:"-"`
	Reference         string `json:"reference" validate:"omitempty,payment_reference"`
	CheckoutSessionID string `json:"checkoutSessionId" validate:"required,uuid"`
}
