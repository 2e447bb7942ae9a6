package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":             "is required",
	"required_without":     "is required when %s is not present",
	"required_without_all": "is required when none of [%s] are present",
	"required_if":          "is required when %s",
	"email":                "must be a valid email",
	"min":                  "must be at least %s",
	"max":                  "must be at most %s",
	"gt":                   "must be greater than %s",
	"gte":                  "must be greater than or equal to %s",
	"lte":                  "must be less than or equal to %s",
	"oneof":                "must be one of [%s]",
	"uuid":                 "must be a valid UUID",
	"url":                  "must be a valid URL",
	"latitude":             "must be a valid latitude",
	"longitude":            "must be a valid longitude",
	"service_kind":         "must be one of [medication diagnostic diagnostic_package]",
	"fulfillment_type":     "must be one of [pickup delivery walk_in home_collection]",
	"order_status":         "must be a valid order status",
	"phone_number":         "must be a valid phone number",
	"payment_reference":    "must be a valid payment reference",
	"tracking_code":        "must be a valid tracking code",
	"user_role":            "must be one of [admin provider_staff]",
	"review_status":        "must be either 'verified' or 'rejected'",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"required_without":     true,
	"required_without_all": true,
	"required_if":          true,
	"min":                  true,
	"max":                  true,
	"gt":                   true,
	"gte":                  true,
	"lte":                  true,
	"oneof":                true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientInvalidUsernameOrPassword     = "invalid email or password"
	ErrClientEmailAlreadyExists            = "email already used"
	ErrClientProviderNotFound              = "provider not found"
	ErrClientCatalogItemNotFound           = "item not found"
	ErrClientOfferingNotFound              = "item is not offered by this provider"
	ErrClientItemUnavailable               = "item is unavailable or has insufficient stock"
	ErrClientInsufficientStock             = "one or more items no longer have enough stock"
	ErrClientCartItemNotFound              = "item not found in your cart"
	ErrClientEmptyCart                     = "your cart is empty"
	ErrClientGuestIDRequired               = "guest id is required"
	ErrClientPrescriptionRequired          = "a prescription is required for one or more items in your cart"
	ErrClientPrescriptionPending           = "prescription verification is still pending for one or more orders"
	ErrClientPrescriptionNotFound          = "prescription not found"
	ErrClientNoPayableItems                = "there are no payable items in this order"
	ErrClientCheckoutInProgress            = "a checkout is already in progress for this cart"
	ErrClientOrderNotFound                 = "order not found"
	ErrClientOrdersNotFound                = "no orders found for the given reference"
	ErrClientSessionNotFound               = "no checkout session found"
	ErrClientInvalidStatusTransition       = "order cannot be moved to the requested status"
	ErrClientCancellationReasonRequired    = "a reason is required to cancel an order"
	ErrClientFulfillmentUnsupported        = "the provider does not support the selected fulfillment type"
	ErrClientInvalidFulfillment            = "the selected fulfillment type is not valid for this item"
	ErrClientInvalidOperatingHours         = "provider operating hours are not configured correctly"
	ErrClientTimeSlotUnavailable           = "the selected time slot is not available"
	ErrClientInvalidLocation               = "the submitted location does not match the reference data"
	ErrClientPaymentGateway                = "payment provider is unavailable, please try again"
	ErrClientPaymentVerificationFailed     = "payment could not be verified"
	ErrClientNotOrderOwner                 = "this order does not belong to your provider account"
	ErrClientSelfAction                    = "you cannot perform this action on your own account"
	ErrClientTooManyLoginAttempts          = "too many login attempts, please try again later"
	ErrClientUserNotFound                  = "user not found"
	ErrClientAlreadyReviewed               = "this record has already been reviewed"
	ErrClientInvalidAPIKey                 = "invalid api key"
	ErrClientFileTooLarge                  = "the uploaded file is too large"
	ErrClientTooManyRequests               = "too many requests, please slow down"
)

// Error messages for developers
const (
	ErrDevInvalidInput                = "invalid input"
	ErrDevValidationFailed            = "request validation failed"
	ErrDevURLParamValidationFailed    = "url param %s validation failed"
	ErrDevCannotParseJSON             = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON           = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseMultipartForm    = "cannot parse multipart form body"
	ErrDevCannotParseDate             = "cannot parse the requested date"
	ErrDevServerDeadlineExceeded      = "server deadline exceeded"
	ErrDevServerProcess               = "server failed to process the request"
	ErrDevAuthTokenMissing            = "authorization token missing"
	ErrDevAuthTokenInvalidOrExpired   = "authorization token invalid or expired"
	ErrDevAuthGenerateToken           = "failed to generate authorization token"
	ErrDevAuthSigningMethod           = "unexpected jwt signing method"
	ErrDevInvalidCredentials          = "invalid credentials"
	ErrDevAccountInactive             = "account is deactivated"
	ErrDevFailedToHashPassword        = "failed to hash password"
	ErrDevRoleNotPermitted            = "role is not permitted to access the resource"
	ErrDevProviderNotFound            = "provider not found or not active"
	ErrDevCatalogItemNotFound         = "catalog item not found"
	ErrDevOfferingNotFound            = "provider offering not found"
	ErrDevItemUnavailable             = "offering cannot fulfil the requested quantity"
	ErrDevInsufficientStock           = "conditional stock decrement affected no rows"
	ErrDevCartItemNotFound            = "order item not found in guest cart"
	ErrDevEmptyCart                   = "guest has no cart or the cart has no items"
	ErrDevPrescriptionRequired        = "no covering verified prescription and no file uploaded"
	ErrDevPrescriptionPending         = "linked prescription is not verified"
	ErrDevPrescriptionNotFound        = "prescription not found"
	ErrDevNoPayableItems              = "order has no payable items"
	ErrDevCheckoutInProgress          = "checkout lock is held by another request"
	ErrDevOrderNotFound               = "order not found for guest"
	ErrDevOrdersNotFound              = "no orders resolved for the reference or session"
	ErrDevSessionNotFound             = "no order or prescription matched the session lookup"
	ErrDevInvalidStatusTransition     = "order status transition %s -> %s is not allowed"
	ErrDevCancellationReasonRequired  = "cancellation reason missing"
	ErrDevFulfillmentUnsupported      = "provider does not support fulfillment type %s"
	ErrDevInvalidFulfillment          = "fulfillment type %s is not valid for service kind %s"
	ErrDevInvalidOperatingHours       = "failed to parse provider operating hours"
	ErrDevTimeSlotUnavailable         = "time slot is in the past or outside operating hours"
	ErrDevInvalidLocation             = "location validation failed"
	ErrDevPaymentGateway              = "payment gateway request failed"
	ErrDevPaymentVerificationFailed   = "payment gateway did not confirm the transaction"
	ErrDevNotOrderOwner               = "order has no item offered by provider"
	ErrDevSelfAction                  = "actor attempted to modify own account"
	ErrDevTooManyLoginAttempts        = "login attempts exceeded the window quota"
	ErrDevUserNotFound                = "user not found"
	ErrDevAlreadyReviewed             = "record is not in pending status"
	ErrDevInvalidAPIKey               = "invalid superadmin api key"
	ErrDevFileTooLarge                = "uploaded file exceeds the configured limit"
	ErrDevTooManyRequests             = "client exceeded the route rate limit"
	ErrDevEmailAlreadyExists          = "email already exists"
	ErrDevDBFailedToFindData          = "failed to find data in database"
	ErrDevDBFailedToInsertData        = "failed to insert data into database"
	ErrDevDBFailedToUpdateData        = "failed to update data in database"
	ErrDevDBFailedToDeleteData        = "failed to delete data from database"
	ErrDevDBFailedToIterateDataset    = "failed to iterate dataset"
	ErrDevDBFailedToBeginTransaction  = "failed to begin database transaction"
	ErrDevDBFailedToCommitTransaction = "failed to commit database transaction"
	ErrDevDBFailedToInsertDocument    = "failed to insert document into database"
	ErrDevDBFailedToFindDocument      = "failed to find document in database"
	ErrDevRedisGetNoData              = "failed to get data from redis with key %s"
	ErrDevRedisSetData                = "failed to set data into redis"
	ErrDevRedisDeleteData             = "failed to delete data from redis"
	ErrDevRedisUnlock                 = "failed to release redis lock"
	ErrDevMinioFailedToCreateObject   = "failed to create object in bucket %s"
	ErrDevMinioFailedToPresignObject  = "failed to generate presigned url in bucket %s"
	ErrDevRabbitMQPublishMessage      = "failed to publish message to queue %s"
	ErrDevCreateHTTPRequest           = "failed to create http request"
	ErrDevSendHTTPRequest             = "failed to send http request"
	ErrDevDecodeResponse              = "failed to decode %s response"
)
