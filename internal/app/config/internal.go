package config

type InternalConfig struct {
	App            App
	JWT            AppJWT
	PaymentGateway AppPaymentGateway
	Checkout       AppCheckout
	Minio          AppMinio
	RabbitMQ       AppRabbitMQ
	MongoDB        AppMongoDB
	Telemetry      AppTelemetry
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Timezone                   string
	FrontendDomain             string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	LoginSessionExpiredInHours int
	LoginMaxAttempts           int
	LoginAttemptWindowInSecond int
	SuperadminAPIKey           string
	SuperadminAPIKeyRateLimit  int
	MigrateOnStart             bool
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
}

type AppPaymentGateway struct {
	BaseUrl                 string
	SecretKey               string
	Currency                string
	RequestTimeoutInSeconds int
	CallbackPath            string
}

// AppCheckout tunes checkout orchestration and the expiry worker.
type AppCheckout struct {
	LockTTLInSeconds              int
	IdempotencyTTLInMinutes       int
	PaymentExpiredTimeInMinutes   int
	ExpiryWorkerCronSpec          string
	SlotLimitedThreshold          int
	TimeSlotLookaheadDays         int
	PrescriptionMaxUploadSizeInMB int64
	RateLimitBlockInSeconds       int
}

type AppMinio struct {
	BucketName                    string
	PreSignedUrlExpiryTimeInHours int
}

type AppRabbitMQ struct {
	OrderNotificationQueue        string
	PrescriptionNotificationQueue string
	ProviderNotificationQueue     string
}

type AppMongoDB struct {
	DBName string
}

type AppTelemetry struct {
	Enabled     bool
	ServiceName string
}
