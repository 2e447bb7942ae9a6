package constvars

const (
	RegexPaymentReference = `^(TXN|ORD)-[A-Za-z0-9-]{8,64}$`
	RegexTrackingCode     = `^TRK-SESSION-.+-\d+$`
	RegexPhoneNumber      = `^\+?\d{10,15}$`
)
