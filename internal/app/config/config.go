package config

import (
	"medmarket-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		PostgresDB: PostgresDB{
			Host:            utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:            utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username:        utils.GetEnvString("POSTGRES_USERNAME", "postgres"),
			Password:        utils.GetEnvString("POSTGRES_PASSWORD", "postgres"),
			DBName:          utils.GetEnvString("POSTGRES_DB_NAME", "medmarket"),
			SSLMode:         utils.GetEnvString("POSTGRES_SSL_MODE", "disable"),
			MaxOpenConns:    utils.GetEnvInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    utils.GetEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: utils.GetEnvInt("POSTGRES_CONN_MAX_LIFETIME_IN_MINUTES", 30),
		},
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:      utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:      utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username:  utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password:  utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
			VHost:     utils.GetEnvString("RABBITMQ_VHOST", "/"),
			Heartbeat: utils.GetEnvInt("RABBITMQ_HEARTBEAT_IN_SECONDS", 10),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Africa/Lagos"),
			FrontendDomain:             utils.GetEnvString("APP_FRONTEND_DOMAIN", "http://localhost:3000"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 5),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
			LoginSessionExpiredInHours: utils.GetEnvInt("APP_LOGIN_SESSION_EXPIRED_IN_HOURS", 12),
			LoginMaxAttempts:           utils.GetEnvInt("APP_LOGIN_MAX_ATTEMPTS", 10),
			LoginAttemptWindowInSecond: utils.GetEnvInt("APP_LOGIN_ATTEMPT_WINDOW_IN_SECOND", 300),
			SuperadminAPIKey:           utils.GetEnvString("APP_SUPERADMIN_API_KEY", ""),
			SuperadminAPIKeyRateLimit:  utils.GetEnvInt("APP_SUPERADMIN_API_KEY_RATE_LIMIT", 100),
			MigrateOnStart:             utils.GetEnvBool("APP_MIGRATE_ON_START", false),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 12),
		},
		PaymentGateway: AppPaymentGateway{
			BaseUrl:                 utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "https://api.paystack.co"),
			SecretKey:               utils.GetEnvString("PAYMENT_GATEWAY_SECRET_KEY", ""),
			Currency:                utils.GetEnvString("PAYMENT_GATEWAY_CURRENCY", "NGN"),
			RequestTimeoutInSeconds: utils.GetEnvInt("PAYMENT_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 15),
			CallbackPath:            utils.GetEnvString("PAYMENT_GATEWAY_CALLBACK_PATH", "/checkout/callback"),
		},
		Checkout: AppCheckout{
			LockTTLInSeconds:              utils.GetEnvInt("CHECKOUT_LOCK_TTL_IN_SECONDS", 60),
			IdempotencyTTLInMinutes:       utils.GetEnvInt("CHECKOUT_IDEMPOTENCY_TTL_IN_MINUTES", 30),
			PaymentExpiredTimeInMinutes:   utils.GetEnvInt("CHECKOUT_PAYMENT_EXPIRED_TIME_IN_MINUTES", 60),
			ExpiryWorkerCronSpec:          utils.GetEnvString("CHECKOUT_EXPIRY_WORKER_CRON_SPEC", "@every 5m"),
			SlotLimitedThreshold:          utils.GetEnvInt("CHECKOUT_SLOT_LIMITED_THRESHOLD", 3),
			TimeSlotLookaheadDays:         utils.GetEnvInt("CHECKOUT_TIME_SLOT_LOOKAHEAD_DAYS", 7),
			PrescriptionMaxUploadSizeInMB: utils.GetEnvInt64("CHECKOUT_PRESCRIPTION_MAX_UPLOAD_SIZE_IN_MB", 5),
			RateLimitBlockInSeconds:       utils.GetEnvInt("CHECKOUT_RATE_LIMIT_BLOCK_IN_SECONDS", 30),
		},
		Minio: AppMinio{
			BucketName:                    utils.GetEnvString("APP_MINIO_BUCKET_NAME", "prescriptions"),
			PreSignedUrlExpiryTimeInHours: utils.GetEnvInt("APP_MINIO_PRE_SIGNED_URL_EXPIRY_TIME_IN_HOURS", 1),
		},
		RabbitMQ: AppRabbitMQ{
			OrderNotificationQueue:        utils.GetEnvString("APP_RABBITMQ_ORDER_NOTIFICATION_QUEUE", "order_notifications"),
			PrescriptionNotificationQueue: utils.GetEnvString("APP_RABBITMQ_PRESCRIPTION_NOTIFICATION_QUEUE", "prescription_notifications"),
			ProviderNotificationQueue:     utils.GetEnvString("APP_RABBITMQ_PROVIDER_NOTIFICATION_QUEUE", "provider_notifications"),
		},
		MongoDB: AppMongoDB{
			DBName: utils.GetEnvString("APP_MONGODB_DB_NAME", "medmarket"),
		},
		Telemetry: AppTelemetry{
			Enabled:     utils.GetEnvBool("TELEMETRY_ENABLED", false),
			ServiceName: utils.GetEnvString("TELEMETRY_SERVICE_NAME", "medmarket-service"),
		},
	}
}
