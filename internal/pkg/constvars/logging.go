package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingRequestKey            = "request"
	LoggingResponseKey           = "response"
	LoggingEndpointKey           = "endpoint"
	LoggingMethodKey             = "method"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingErrorTypeKey          = "error_type"
	LoggingOperationKey          = "operation"
	LoggingGuestIDKey            = "guest_id"
	LoggingOrderIDKey            = "order_id"
	LoggingOrderItemIDKey        = "order_item_id"
	LoggingOrderIDsKey           = "order_ids"
	LoggingOrderStatusKey        = "order_status"
	LoggingProviderIDKey         = "provider_id"
	LoggingItemIDKey             = "item_id"
	LoggingQuantityKey           = "quantity"
	LoggingCheckoutSessionIDKey  = "checkout_session_id"
	LoggingPaymentReferenceKey   = "payment_reference"
	LoggingTrackingCodeKey       = "tracking_code"
	LoggingPrescriptionIDKey     = "prescription_id"
	LoggingUserIDKey             = "user_id"
	LoggingEmailKey              = "email"
	LoggingAmountKey             = "amount"
	LoggingCountKey              = "count"
	LoggingRedisKey              = "redis_key"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockValueKey          = "lock_value"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingQueueNameKey          = "queue_name"
	LoggingBucketNameKey         = "bucket_name"
	LoggingObjectNameKey         = "object_name"
	LoggingIdempotencyKey        = "idempotency_key"
	LoggingURLKey                = "url"
	LoggingGatewayStatusKey      = "gateway_status"
)
