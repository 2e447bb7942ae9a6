package orders

import (
	"context"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type confirmationUsecase struct {
	Transactor                     contracts.Transactor
	OrderRepository                contracts.OrderRepository
	OrderItemRepository            contracts.OrderItemRepository
	PrescriptionRepository         contracts.PrescriptionRepository
	TransactionReferenceRepository contracts.TransactionReferenceRepository
	OrderEventRepository           contracts.OrderEventRepository
	ProviderRepository             contracts.ProviderRepository
	PaymentGateway                 contracts.PaymentGatewayService
	Publisher                      contracts.NotificationPublisher
	InternalConfig                 *config.InternalConfig
	Log                            *zap.Logger
	Now                            func() time.Time
}

var (
	confirmationUsecaseInstance contracts.ConfirmationUsecase
	onceConfirmationUsecase     sync.Once
)

func NewConfirmationUsecase(
	transactor contracts.Transactor,
	orderRepository contracts.OrderRepository,
	orderItemRepository contracts.OrderItemRepository,
	prescriptionRepository contracts.PrescriptionRepository,
	transactionReferenceRepository contracts.TransactionReferenceRepository,
	orderEventRepository contracts.OrderEventRepository,
	providerRepository contracts.ProviderRepository,
	paymentGateway contracts.PaymentGatewayService,
	publisher contracts.NotificationPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ConfirmationUsecase {
	onceConfirmationUsecase.Do(func() {
		instance := &confirmationUsecase{
			Transactor:                     transactor,
			OrderRepository:                orderRepository,
			OrderItemRepository:            orderItemRepository,
			PrescriptionRepository:         prescriptionRepository,
			TransactionReferenceRepository: transactionReferenceRepository,
			OrderEventRepository:           orderEventRepository,
			ProviderRepository:             providerRepository,
			PaymentGateway:                 paymentGateway,
			Publisher:                      publisher,
			InternalConfig:                 internalConfig,
			Log:                            logger,
			Now:                            time.Now,
		}
		confirmationUsecaseInstance = instance
	})
	return confirmationUsecaseInstance
}

func (uc *confirmationUsecase) ConfirmOrder(ctx context.Context, request *requests.ConfirmOrder) (*responses.Confirmation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("confirmationUsecase.ConfirmOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingPaymentReferenceKey, request.Reference),
		zap.String(constvars.LoggingCheckoutSessionIDKey, request.CheckoutSessionID),
	)

	txRef, err := uc.resolveTransactionReference(ctx, request.Reference)
	if err != nil {
		return nil, err
	}

	orders, err := uc.resolveOrders(ctx, request, txRef)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		uc.Log.Info("confirmationUsecase.ConfirmOrder resolved no orders",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCheckoutSessionIDKey, request.CheckoutSessionID),
		)
		return nil, exceptions.ErrOrdersNotFound(nil)
	}

	trackingCode := ""
	for i := range orders {
		if code := orders[i].Tracking(); code != "" {
			trackingCode = code
			break
		}
	}
	now := uc.Now()
	if trackingCode == "" {
		seed := orders[0].SessionID()
		if seed == "" {
			seed = orders[0].ID
		}
		trackingCode = utils.GenerateTrackingCode(seed, now)
	}

	if txRef != nil && hasUnpaid(orders) {
		verification, err := uc.PaymentGateway.VerifyTransaction(ctx, txRef.Reference)
		if err != nil {
			uc.Log.Error("confirmationUsecase.ConfirmOrder error verifying transaction",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentReferenceKey, txRef.Reference),
				zap.Error(err),
			)
			return nil, err
		}
		if !verification.IsSuccessful() || verification.AmountKobo != txRef.AmountKobo {
			uc.Log.Warn("confirmationUsecase.ConfirmOrder payment not verified",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentReferenceKey, txRef.Reference),
				zap.String(constvars.LoggingGatewayStatusKey, verification.Status),
				zap.Int64(constvars.LoggingAmountKey, verification.AmountKobo),
			)
			if err := uc.markPaymentFailed(ctx, orders, txRef.InternalReferences, now); err != nil {
				return nil, err
			}
			return nil, exceptions.ErrPaymentVerificationFailed(nil)
		}
	}

	var details []models.OrderItemDetail
	var byOrder map[string][]models.OrderItemDetail
	status := constvars.ConfirmationStatusCompleted
	var events []models.OrderEvent
	var confirmed []models.Order
	err = uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// the expiry sweep or a status update may have moved these rows during verification
		locked, err := uc.lockOrders(ctx, orders)
		if err != nil {
			return err
		}
		orders = locked
		for i := range orders {
			if code := orders[i].Tracking(); code != "" {
				trackingCode = code
				break
			}
		}

		details, err = uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, orderIDs(orders))
		if err != nil {
			return err
		}
		byOrder = detailsByOrder(details)

		verified, err := uc.PrescriptionRepository.FindLatestVerifiedByGuestID(ctx, orders[0].GuestID)
		if err != nil {
			return err
		}

		for i := range orders {
			o := &orders[i]
			changed := false
			if o.TrackingCode == nil {
				o.TrackingCode = stringPtr(trackingCode)
				changed = true
			}

			switch {
			case o.PaymentStatus == constvars.PaymentStatusPaid:
				if o.Status == constvars.OrderStatusPendingPrescription {
					status = downgrade(status, constvars.ConfirmationStatusAwaitingVerify)
				}
			case txRef == nil || !utils.ContainsString(txRef.InternalReferences, o.Reference()):
				if o.Status == constvars.OrderStatusPendingPrescription {
					status = downgrade(status, constvars.ConfirmationStatusAwaitingVerify)
				} else {
					status = downgrade(status, constvars.ConfirmationStatusAwaitingPayment)
				}
			case o.Status == constvars.OrderStatusCancelled:
				// paid after cancellation; the payment is recorded and the order stays cancelled
				o.PaymentStatus = constvars.PaymentStatusPaid
				o.PaidAt = &now
				changed = true
				uc.Log.Warn("confirmationUsecase.ConfirmOrder payment received for cancelled order",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingOrderIDKey, o.ID),
				)
			default:
				from := o.Status
				o.PaymentStatus = constvars.PaymentStatusPaid
				o.PaidAt = &now
				changed = true

				required := requiredItemIDs(byOrder[o.ID])
				covered := len(required) == 0
				if !covered {
					covering, err := findCoveringPrescription(ctx, uc.PrescriptionRepository, o, verified, required)
					if err != nil {
						return err
					}
					if covering != nil {
						covered = true
						o.PrescriptionID = stringPtr(covering.ID)
					}
				}
				if covered && o.Status != constvars.OrderStatusPendingPrescription {
					o.Status = constvars.OrderStatusConfirmed
					confirmed = append(confirmed, *o)
				} else {
					status = downgrade(status, constvars.ConfirmationStatusAwaitingVerify)
				}
				events = append(events, NewStatusEvent(o, from, constvars.EventActorGuest, o.GuestID, "", now))
			}

			if changed {
				o.SetUpdatedAt(now)
				if err := uc.OrderRepository.Update(ctx, o); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("confirmationUsecase.ConfirmOrder error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCheckoutSessionIDKey, request.CheckoutSessionID),
			zap.Error(err),
		)
		return nil, err
	}

	RecordEvents(ctx, uc.OrderEventRepository, uc.Log, events)
	uc.notifyConfirmed(ctx, confirmed, byOrder, trackingCode, now)

	providers, total := groupOrdersByProvider(BuildOrderResponses(orders, details))
	response := &responses.Confirmation{
		Status:            status,
		CheckoutSessionID: orders[0].SessionID(),
		TrackingCode:      trackingCode,
		Providers:         providers,
		TotalPrice:        total,
	}

	uc.Log.Info("confirmationUsecase.ConfirmOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTrackingCodeKey, trackingCode),
		zap.String(constvars.LoggingOrderStatusKey, status),
		zap.Int(constvars.LoggingCountKey, len(orders)),
	)
	return response, nil
}

// resolveTransactionReference tries reference as the gateway reference first and then as one
// of the internal sub-order references.
func (uc *confirmationUsecase) resolveTransactionReference(ctx context.Context, reference string) (*models.TransactionReference, error) {
	if reference == "" {
		return nil, nil
	}
	if !utils.IsValidPaymentReference(reference) {
		return nil, exceptions.ErrURLParamValidation(nil, "reference")
	}

	txRef, err := uc.TransactionReferenceRepository.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txRef != nil {
		return txRef, nil
	}
	return uc.TransactionReferenceRepository.FindByInternalReference(ctx, reference)
}

func (uc *confirmationUsecase) resolveOrders(
	ctx context.Context,
	request *requests.ConfirmOrder,
	txRef *models.TransactionReference,
) ([]models.Order, error) {
	if txRef != nil {
		orders, err := uc.OrderRepository.FindByGuestIDAndPaymentReferences(ctx, request.GuestID, txRef.InternalReferences)
		if err != nil || len(orders) > 0 {
			return orders, err
		}
	}

	orders, err := uc.OrderRepository.FindBySessionID(ctx, request.CheckoutSessionID, request.GuestID, constvars.OrderStatusesInFlight)
	if err != nil || len(orders) > 0 {
		return orders, err
	}

	// session-only fallback for callers whose guest id was lost
	return uc.OrderRepository.FindBySessionID(ctx, request.CheckoutSessionID, "", constvars.OrderStatusesInFlight)
}

// lockOrders re-reads orders under a row lock. Orders reopened as a cart meanwhile are
// dropped.
func (uc *confirmationUsecase) lockOrders(ctx context.Context, orders []models.Order) ([]models.Order, error) {
	locked, err := uc.OrderRepository.FindByIDsForUpdate(ctx, orderIDs(orders))
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(locked))
	for i := range locked {
		if !locked[i].IsCart() {
			out = append(out, locked[i])
		}
	}
	if len(out) == 0 {
		return nil, exceptions.ErrOrdersNotFound(nil)
	}
	return out, nil
}

func (uc *confirmationUsecase) markPaymentFailed(ctx context.Context, orders []models.Order, references []string, now time.Time) error {
	var events []models.OrderEvent
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := uc.lockOrders(ctx, orders)
		if err != nil {
			return err
		}
		for i := range locked {
			o := &locked[i]
			if o.PaymentStatus == constvars.PaymentStatusPaid || !utils.ContainsString(references, o.Reference()) {
				continue
			}
			o.PaymentStatus = constvars.PaymentStatusFailed
			o.SetUpdatedAt(now)
			if err := uc.OrderRepository.Update(ctx, o); err != nil {
				return err
			}
			events = append(events, NewStatusEvent(o, o.Status, constvars.EventActorSystem, "", "payment verification failed", now))
		}
		return nil
	})
	if err != nil {
		return err
	}
	RecordEvents(ctx, uc.OrderEventRepository, uc.Log, events)
	return nil
}

func (uc *confirmationUsecase) notifyConfirmed(
	ctx context.Context,
	confirmed []models.Order,
	byOrder map[string][]models.OrderItemDetail,
	trackingCode string,
	now time.Time,
) {
	if len(confirmed) == 0 {
		return
	}

	first := confirmed[0]
	Notify(ctx, uc.Publisher, uc.Log, uc.InternalConfig.RabbitMQ.OrderNotificationQueue, &requests.OrderNotification{
		Event:             constvars.NotificationEventOrderConfirmed,
		GuestID:           first.GuestID,
		CheckoutSessionID: first.SessionID(),
		TrackingCode:      trackingCode,
		OrderIDs:          orderIDs(confirmed),
		Status:            constvars.OrderStatusConfirmed,
		Email:             first.ContactEmail,
		Phone:             first.ContactPhone,
		OccurredAt:        now,
	})

	for _, o := range confirmed {
		items := byOrder[o.ID]
		if len(items) == 0 {
			continue
		}
		providerID := items[0].ProviderID
		tokens, err := uc.ProviderRepository.FindDeviceTokens(ctx, providerID)
		if err != nil {
			uc.Log.Warn("confirmationUsecase.notifyConfirmed failed to load device tokens",
				zap.String(constvars.LoggingProviderIDKey, providerID),
				zap.Error(err),
			)
			continue
		}
		deviceTokens := make([]string, 0, len(tokens))
		for _, t := range tokens {
			deviceTokens = append(deviceTokens, t.Token)
		}
		Notify(ctx, uc.Publisher, uc.Log, uc.InternalConfig.RabbitMQ.ProviderNotificationQueue, &requests.ProviderNotification{
			Event:        constvars.NotificationEventProviderNewOrder,
			ProviderID:   providerID,
			OrderID:      o.ID,
			DeviceTokens: deviceTokens,
			OccurredAt:   now,
		})
	}
}

func (uc *confirmationUsecase) TrackOrders(ctx context.Context, trackingCode string) (*responses.Tracking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("confirmationUsecase.TrackOrders called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTrackingCodeKey, trackingCode),
	)

	if !utils.IsValidTrackingCode(trackingCode) {
		return nil, exceptions.ErrURLParamValidation(nil, "trackingCode")
	}

	orders, err := uc.OrderRepository.FindByTrackingCode(ctx, trackingCode, constvars.OrderStatusesTrackable)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, exceptions.ErrOrdersNotFound(nil)
	}

	ids := orderIDs(orders)
	details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOrder := detailsByOrder(details)

	prescriptions := make(map[string]*models.Prescription)
	for _, o := range orders {
		if o.PrescriptionID == nil {
			continue
		}
		if _, ok := prescriptions[*o.PrescriptionID]; ok {
			continue
		}
		p, err := uc.PrescriptionRepository.FindByID(ctx, *o.PrescriptionID)
		if err != nil {
			return nil, err
		}
		prescriptions[*o.PrescriptionID] = p
	}

	var history map[string][]responses.StatusEvent
	if uc.OrderEventRepository != nil {
		events, err := uc.OrderEventRepository.FindByOrderIDs(ctx, ids)
		if err != nil {
			uc.Log.Warn("confirmationUsecase.TrackOrders failed to load history",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
		history = toStatusEvents(events)
	}

	response := &responses.Tracking{
		TrackingCode: trackingCode,
		Orders:       make([]responses.TrackedOrder, 0, len(orders)),
	}
	for i := range orders {
		o := &orders[i]
		tracked := responses.TrackedOrder{
			Order:           toOrderResponse(o, byOrder[o.ID]),
			DeliveryAddress: o.DeliveryAddress,
			History:         history[o.ID],
		}
		if o.PrescriptionID != nil {
			if p := prescriptions[*o.PrescriptionID]; p != nil {
				tracked.Prescription = &responses.PrescriptionSummary{
					ID:              p.ID,
					Status:          p.Status,
					RejectionReason: p.RejectionReason,
				}
			}
		}
		response.Orders = append(response.Orders, tracked)
	}
	return response, nil
}

func hasUnpaid(orders []models.Order) bool {
	for i := range orders {
		if orders[i].PaymentStatus != constvars.PaymentStatusPaid {
			return true
		}
	}
	return false
}

// downgrade keeps the most severe confirmation status seen so far.
func downgrade(current, next string) string {
	rank := map[string]int{
		constvars.ConfirmationStatusCompleted:       0,
		constvars.ConfirmationStatusAwaitingVerify:  1,
		constvars.ConfirmationStatusAwaitingPayment: 2,
	}
	if rank[next] > rank[current] {
		return next
	}
	return current
}
