package constvars

const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

const (
	MIMEApplicationJSON = "application/json"
	MIMEMultipartForm   = "multipart/form-data"
	MIMEOctetStream     = "application/octet-stream"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusRequestEntityTooBig = 413
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusGatewayTimeout      = 504
)

const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "Content-Type"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXGuestID       = "x-guest-id"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderAPIKey         = "x-api-key"
)

const (
	URLParamItemID       = "itemId"
	URLParamOrderID      = "orderId"
	URLParamProviderID   = "providerId"
	URLParamTrackingCode = "trackingCode"
	URLParamID           = "id"
)

const (
	QueryParamKind            = "kind"
	QueryParamQuery           = "q"
	QueryParamStatus          = "status"
	QueryParamDate            = "date"
	QueryParamItemID          = "itemId"
	QueryParamFulfillmentType = "fulfillmentType"
	QueryParamLatitude        = "lat"
	QueryParamLongitude       = "lng"
	QueryParamRadiusKm        = "radiusKm"
	QueryParamPage            = "page"
	QueryParamPageSize        = "page_size"
	QueryParamProviderID      = "providerId"
	QueryParamRole            = "role"
)

const (
	FormFieldPrescription = "prescription"
	FormFieldPayload      = "payload"
	DateLayout            = "2006-01-02"

	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
	AppDefaultPageSize     = 20
)
