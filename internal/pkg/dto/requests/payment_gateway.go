package requests

type PaymentInitialization struct {
	Email          string                 `json:"email"`
	AmountKobo     int64                  `json:"amount"`
	Currency       string                 `json:"currency,omitempty"`
	Reference      string                 `json:"reference"`
	CallbackURL    string                 `json:"callback_url"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	IdempotencyKey string                 `json:"-"`
}
