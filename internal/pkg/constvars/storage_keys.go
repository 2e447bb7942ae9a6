package constvars

const (
	RedisCheckoutLockKeyFormat        = "checkout:lock:%s"
	RedisCheckoutIdempotencyKeyFormat = "checkout:idempotency:%s"
	RedisSessionKeyFormat             = "session:%s"
	RedisExpiryWorkerLeaderKey        = "checkout:expiry:leader"
	RedisRateLimitKeyFormat           = "ratelimit:%s:%s:%d"
	RateLimiterGroupLogin             = "LOGIN"
)

const (
	MongoCollectionOrderEvents = "order_events"
)
