package constvars

const (
	ResponseUnknown = "unknown"

	CartItemAddedSuccess         = "item added to cart"
	CartFetchedSuccess           = "cart fetched successfully"
	CartItemUpdatedSuccess       = "cart item updated"
	CartItemRemovedSuccess       = "cart item removed"
	CartItemScheduledSuccess     = "cart item schedule updated"
	TimeSlotsFetchedSuccess      = "time slots fetched successfully"
	CheckoutInitiatedSuccess     = "checkout initiated, continue to payment"
	CheckoutAwaitingPrescription = "order submitted, awaiting prescription verification"
	SessionRetrievedSuccess      = "checkout session retrieved"
	CheckoutResumedSuccess       = "checkout resumed, continue to payment"
	PartialCheckoutSuccess       = "payable items moved to a new order, continue to payment"
	PartialCheckoutCancelled     = "order items returned to cart"
	OrderConfirmedSuccess        = "order confirmed successfully"
	OrderAwaitingVerification    = "payment received, some orders are awaiting prescription verification"
	OrderAwaitingPayment         = "orders found, payment has not been completed"
	OrdersTrackedSuccess         = "orders fetched successfully"
	CatalogItemCreatedSuccess    = "catalog item created successfully"
	CatalogItemsFetchedSuccess   = "catalog items fetched successfully"
	OfferingsFetchedSuccess      = "offerings fetched successfully"
	OfferingSavedSuccess         = "offering saved successfully"
	OfferingDeletedSuccess       = "offering deleted successfully"
	ProviderRegisteredSuccess    = "provider registered, awaiting verification"
	ProviderReviewedSuccess      = "provider reviewed successfully"
	ProviderUpdatedSuccess       = "provider updated successfully"
	ProviderOrdersFetchedSuccess = "provider orders fetched successfully"
	OrderStatusUpdatedSuccess    = "order status updated successfully"
	DeviceTokenRegisteredSuccess = "device token registered successfully"
	PrescriptionsFetchedSuccess  = "prescriptions fetched successfully"
	PrescriptionReviewedSuccess  = "prescription reviewed successfully"
	PrescriptionFileURLSuccess   = "prescription file url generated"
	UserCreatedSuccess           = "user created successfully"
	UsersFetchedSuccess          = "users fetched successfully"
	UserUpdatedSuccess           = "user updated successfully"
	LoginSuccess                 = "successfully login"
	LogoutSuccess                = "successfully logout"
	HealthCheckSuccess           = "service is healthy"
)
