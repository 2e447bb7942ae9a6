package constvars

type ServiceKind string

const (
	ServiceKindMedication        ServiceKind = "medication"
	ServiceKindDiagnostic        ServiceKind = "diagnostic"
	ServiceKindDiagnosticPackage ServiceKind = "diagnostic_package"
)

const (
	OrderStatusCart                = "cart"
	OrderStatusPending             = "pending"
	OrderStatusPendingPrescription = "pending_prescription"
	OrderStatusPartiallyCompleted  = "partially_completed"
	OrderStatusConfirmed           = "confirmed"
	OrderStatusProcessing          = "processing"
	OrderStatusShipped             = "shipped"
	OrderStatusSampleCollected     = "sample_collected"
	OrderStatusReadyForPickup      = "ready_for_pickup"
	OrderStatusDelivered           = "delivered"
	OrderStatusResultReady         = "result_ready"
	OrderStatusCompleted           = "completed"
	OrderStatusCancelled           = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

const (
	PrescriptionStatusPending  = "pending"
	PrescriptionStatusVerified = "verified"
	PrescriptionStatusRejected = "rejected"
)

const (
	ProviderStatusPending  = "pending"
	ProviderStatusVerified = "verified"
	ProviderStatusRejected = "rejected"
)

const (
	ProviderKindPharmacy = "pharmacy"
	ProviderKindLab      = "lab"
)

const (
	FulfillmentPickup         = "pickup"
	FulfillmentDelivery       = "delivery"
	FulfillmentWalkIn         = "walk_in"
	FulfillmentHomeCollection = "home_collection"
)

const (
	TimeSlotAvailable = "available"
	TimeSlotLimited   = "limited"
)

const (
	CheckoutStatusPaymentInitialized   = "payment_initialized"
	CheckoutStatusAwaitingPrescription = "awaiting_prescription_verification"
	ConfirmationStatusCompleted        = "completed"
	ConfirmationStatusAwaitingVerify   = "awaiting_verification"
	ConfirmationStatusAwaitingPayment  = "awaiting_payment"
)

const (
	OrderPaymentReferencePrefix = "ORD"
	TransactionReferencePrefix  = "TXN"
	TrackingCodeFormat          = "TRK-SESSION-%s-%d"
	TimeSlotDurationInMinutes   = 30
	KoboPerNaira                = 100
)

const (
	EventActorGuest    = "guest"
	EventActorProvider = "provider"
	EventActorAdmin    = "admin"
	EventActorSystem   = "system"
)

// OrderStatusesInFlight are statuses an order can be in between checkout and confirmation.
var OrderStatusesInFlight = []string{
	OrderStatusPending,
	OrderStatusPendingPrescription,
	OrderStatusPartiallyCompleted,
	OrderStatusConfirmed,
}

// OrderStatusesTrackable are statuses exposed through tracking lookup. cart and raw pending are excluded.
var OrderStatusesTrackable = []string{
	OrderStatusPendingPrescription,
	OrderStatusPartiallyCompleted,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusSampleCollected,
	OrderStatusReadyForPickup,
	OrderStatusDelivered,
	OrderStatusResultReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

const (
	NotificationEventOrderConfirmed       = "order.confirmed"
	NotificationEventOrderStatusChanged   = "order.status_changed"
	NotificationEventPrescriptionVerified = "prescription.verified"
	NotificationEventPrescriptionRejected = "prescription.rejected"
	NotificationEventProviderNewOrder     = "provider.new_order"
)

const (
	SessionSourceOrder        = "order"
	SessionSourcePrescription = "prescription"
)
