package responses

type PaymentInitialization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type PaymentVerification struct {
	Reference  string `json:"reference"`
	Status     string `json:"status"`
	AmountKobo int64  `json:"amount"`
	Currency   string `json:"currency"`
	PaidAt     string `json:"paid_at"`
}

func (p *PaymentVerification) IsSuccessful() bool {
	return p.Status == "success"
}
