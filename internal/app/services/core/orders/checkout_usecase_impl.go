package orders

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const expiryBatchSize = 100

type checkoutUsecase struct {
	Transactor                     contracts.Transactor
	OrderRepository                contracts.OrderRepository
	OrderItemRepository            contracts.OrderItemRepository
	PrescriptionRepository         contracts.PrescriptionRepository
	TransactionReferenceRepository contracts.TransactionReferenceRepository
	Inventory                      contracts.InventoryService
	PaymentGateway                 contracts.PaymentGatewayService
	Storage                        contracts.Storage
	Locker                         contracts.LockerService
	RedisRepository                contracts.RedisRepository
	InternalConfig                 *config.InternalConfig
	Log                            *zap.Logger
	Now                            func() time.Time
}

var (
	checkoutUsecaseInstance contracts.CheckoutUsecase
	onceCheckoutUsecase     sync.Once
)

func NewCheckoutUsecase(
	transactor contracts.Transactor,
	orderRepository contracts.OrderRepository,
	orderItemRepository contracts.OrderItemRepository,
	prescriptionRepository contracts.PrescriptionRepository,
	transactionReferenceRepository contracts.TransactionReferenceRepository,
	inventory contracts.InventoryService,
	paymentGateway contracts.PaymentGatewayService,
	storage contracts.Storage,
	locker contracts.LockerService,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CheckoutUsecase {
	onceCheckoutUsecase.Do(func() {
		instance := &checkoutUsecase{
			Transactor:                     transactor,
			OrderRepository:                orderRepository,
			OrderItemRepository:            orderItemRepository,
			PrescriptionRepository:         prescriptionRepository,
			TransactionReferenceRepository: transactionReferenceRepository,
			Inventory:                      inventory,
			PaymentGateway:                 paymentGateway,
			Storage:                        storage,
			Locker:                         locker,
			RedisRepository:                redisRepository,
			InternalConfig:                 internalConfig,
			Log:                            logger,
			Now:                            time.Now,
		}
		checkoutUsecaseInstance = instance
	})
	return checkoutUsecaseInstance
}

// subOrderDraft is one bucket of a provider's cart items about to become a sub-order.
type subOrderDraft struct {
	order   *models.Order
	details []models.OrderItemDetail
}

func (d *subOrderDraft) items() []models.OrderItem {
	out := make([]models.OrderItem, 0, len(d.details))
	for _, detail := range d.details {
		out = append(out, detail.OrderItem)
	}
	return out
}

func (d *subOrderDraft) itemIDs() []string {
	out := make([]string, 0, len(d.details))
	for _, detail := range d.details {
		out = append(out, detail.ID)
	}
	return out
}

func (uc *checkoutUsecase) InitiateCheckout(ctx context.Context, request *requests.InitiateCheckout) (*responses.Checkout, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.InitiateCheckout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingIdempotencyKey, request.IdempotencyKey),
	)

	unlock, err := uc.lockGuest(ctx, request.GuestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var cacheKey string
	if request.IdempotencyKey != "" {
		cacheKey = fmt.Sprintf(constvars.RedisCheckoutIdempotencyKeyFormat, request.GuestID+":"+request.IdempotencyKey)
		cached, err := uc.cachedCheckout(ctx, cacheKey)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			uc.Log.Info("checkoutUsecase.InitiateCheckout replaying cached response",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingIdempotencyKey, request.IdempotencyKey),
			)
			return cached, nil
		}
	}

	cart, err := uc.OrderRepository.FindCartByGuestID(ctx, request.GuestID, false)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, exceptions.ErrEmptyCart(nil)
	}
	details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, []string{cart.ID})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, exceptions.ErrEmptyCart(nil)
	}

	now := uc.Now()
	required := requiredItemIDs(details)
	var verified *models.Prescription
	var uploaded *models.Prescription
	if len(required) > 0 {
		verified, err = uc.PrescriptionRepository.FindLatestVerifiedByGuestID(ctx, request.GuestID)
		if err != nil {
			return nil, err
		}
		uncovered := uncoveredItemIDs(verified, required)
		if len(uncovered) > 0 {
			if request.PrescriptionFile == nil {
				return nil, exceptions.ErrPrescriptionRequired(nil)
			}
			uploaded, err = uc.uploadPrescription(ctx, request, uncovered, now)
			if err != nil {
				return nil, err
			}
		}
	}

	sessionID := uuid.NewString()
	var drafts []*subOrderDraft

	response := &responses.Checkout{
		GuestID:           request.GuestID,
		CheckoutSessionID: sessionID,
		TotalPayable:      decimal.Zero,
	}
	if uploaded != nil {
		response.PrescriptionID = uploaded.ID
	}

	err = uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// cart mutations lock the same row, so the lines read below are the ones moved
		cart, err := uc.OrderRepository.FindCartByGuestID(ctx, request.GuestID, true)
		if err != nil {
			return err
		}
		if cart == nil {
			return exceptions.ErrEmptyCart(nil)
		}
		details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, []string{cart.ID})
		if err != nil {
			return err
		}
		if len(details) == 0 {
			return exceptions.ErrEmptyCart(nil)
		}

		required := requiredItemIDs(details)
		if len(required) > 0 && verified == nil {
			verified, err = uc.PrescriptionRepository.FindLatestVerifiedByGuestID(ctx, request.GuestID)
			if err != nil {
				return err
			}
		}
		for _, id := range uncoveredItemIDs(verified, required) {
			if uploaded == nil || !uploaded.Covers(id) {
				return exceptions.ErrPrescriptionRequired(nil)
			}
		}

		gatewayKey := request.IdempotencyKey
		if gatewayKey == "" {
			gatewayKey = fmt.Sprintf("%s:%d", cart.ID, cart.UpdatedAt.UnixNano())
		}
		drafts = uc.draftSubOrders(request, sessionID, details, verified, uploaded, now)

		if uploaded != nil {
			if err := uc.PrescriptionRepository.Create(ctx, uploaded); err != nil {
				return err
			}
		}

		var payable []models.Order
		for _, draft := range drafts {
			if err := uc.Inventory.Reserve(ctx, draft.order, draft.items()); err != nil {
				return err
			}
			if err := uc.OrderRepository.Create(ctx, draft.order); err != nil {
				return err
			}
			if err := uc.OrderItemRepository.MoveToOrder(ctx, draft.itemIDs(), draft.order.ID); err != nil {
				return err
			}
			if draft.order.Status == constvars.OrderStatusPending {
				payable = append(payable, *draft.order)
			}
		}

		if err := uc.OrderRepository.Delete(ctx, cart.ID); err != nil {
			return err
		}

		if len(payable) == 0 {
			response.Status = constvars.CheckoutStatusAwaitingPrescription
			return nil
		}

		payment, err := uc.initializePayment(ctx, request.GuestID, sessionID, request.Email, gatewayKey, payable, now)
		if err != nil {
			return err
		}
		response.Status = constvars.CheckoutStatusPaymentInitialized
		response.PaymentURL = payment.AuthorizationURL
		response.AccessCode = payment.AccessCode
		response.TransactionReference = payment.Reference
		return nil
	})
	if err != nil {
		uc.Log.Error("checkoutUsecase.InitiateCheckout error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGuestIDKey, request.GuestID),
			zap.Error(err),
		)
		if uploaded != nil {
			uc.Log.Warn("checkoutUsecase.InitiateCheckout left uploaded prescription without a record",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingObjectNameKey, uploaded.FileReference),
			)
		}
		return nil, err
	}

	response.Orders = make([]responses.Order, 0, len(drafts))
	for _, draft := range drafts {
		order := toOrderResponse(draft.order, draft.details)
		response.Orders = append(response.Orders, order)
		if draft.order.Status == constvars.OrderStatusPending {
			response.TotalPayable = response.TotalPayable.Add(draft.order.TotalPrice)
		}
	}

	if cacheKey != "" {
		ttl := time.Duration(uc.InternalConfig.Checkout.IdempotencyTTLInMinutes) * time.Minute
		if err := uc.RedisRepository.Set(ctx, cacheKey, response, ttl); err != nil {
			uc.Log.Warn("checkoutUsecase.InitiateCheckout failed to cache response",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, cacheKey),
				zap.Error(err),
			)
		}
	}

	uc.Log.Info("checkoutUsecase.InitiateCheckout succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingCheckoutSessionIDKey, sessionID),
		zap.Int(constvars.LoggingCountKey, len(response.Orders)),
		zap.String(constvars.LoggingAmountKey, response.TotalPayable.String()),
	)
	return response, nil
}

// draftSubOrders splits each provider's items into verified-covered, upload-covered and
// ungated buckets. Providers keep the order they first appear in the cart.
func (uc *checkoutUsecase) draftSubOrders(
	request *requests.InitiateCheckout,
	sessionID string,
	details []models.OrderItemDetail,
	verified, uploaded *models.Prescription,
	now time.Time,
) []*subOrderDraft {
	const (
		bucketCovered = iota
		bucketUploaded
		bucketUngated
	)

	var providers []string
	buckets := make(map[string]*[3][]models.OrderItemDetail)
	for _, d := range details {
		b, ok := buckets[d.ProviderID]
		if !ok {
			b = &[3][]models.OrderItemDetail{}
			buckets[d.ProviderID] = b
			providers = append(providers, d.ProviderID)
		}
		switch {
		case !d.PrescriptionRequired:
			b[bucketUngated] = append(b[bucketUngated], d)
		case uploaded != nil && uploaded.Covers(d.ItemID):
			b[bucketUploaded] = append(b[bucketUploaded], d)
		default:
			b[bucketCovered] = append(b[bucketCovered], d)
		}
	}

	var drafts []*subOrderDraft
	for _, providerID := range providers {
		b := buckets[providerID]
		for kind, bucketDetails := range b {
			if len(bucketDetails) == 0 {
				continue
			}
			order := &models.Order{
				ID:                uuid.NewString(),
				GuestID:           request.GuestID,
				Status:            constvars.OrderStatusPending,
				PaymentStatus:     constvars.PaymentStatusPending,
				PaymentReference:  stringPtr(utils.GeneratePaymentReference(constvars.OrderPaymentReferencePrefix)),
				CheckoutSessionID: stringPtr(sessionID),
				ContactEmail:      request.Email,
				ContactPhone:      utils.NormalizePhone(request.Phone),
				DeliveryAddress:   request.DeliveryAddress,
				TotalPrice:        decimal.Zero,
			}
			switch kind {
			case bucketCovered:
				order.PrescriptionID = stringPtr(verified.ID)
			case bucketUploaded:
				order.Status = constvars.OrderStatusPendingPrescription
				order.PrescriptionID = stringPtr(uploaded.ID)
			}
			for _, d := range bucketDetails {
				order.TotalPrice = order.TotalPrice.Add(d.LineTotal())
			}
			order.SetCreatedAtUpdatedAt(now)
			drafts = append(drafts, &subOrderDraft{order: order, details: bucketDetails})
		}
	}
	return drafts
}

func (uc *checkoutUsecase) uploadPrescription(
	ctx context.Context,
	request *requests.InitiateCheckout,
	uncovered []string,
	now time.Time,
) (*models.Prescription, error) {
	bucket := uc.InternalConfig.Minio.BucketName
	objectName := utils.GenerateFileName("prescription", request.GuestID, request.PrescriptionFile.FileName, now)
	stored, err := uc.Storage.UploadFile(ctx, request.PrescriptionFile, bucket, objectName)
	if err != nil {
		return nil, err
	}

	prescription := &models.Prescription{
		ID:             uuid.NewString(),
		GuestID:        request.GuestID,
		Email:          request.Email,
		Phone:          utils.NormalizePhone(request.Phone),
		FileReference:  stored,
		Status:         constvars.PrescriptionStatusPending,
		CoveredItemIDs: uncovered,
	}
	prescription.SetCreatedAtUpdatedAt(now)
	return prescription, nil
}

// initializePayment charges the summed total of orders and records the reference row mapping
// the gateway reference to every sub-order payment reference.
func (uc *checkoutUsecase) initializePayment(
	ctx context.Context,
	guestID, sessionID, email, idempotencyKey string,
	orders []models.Order,
	now time.Time,
) (*responses.PaymentInitialization, error) {
	total := decimal.Zero
	internalReferences := make([]string, 0, len(orders))
	for i := range orders {
		total = total.Add(orders[i].TotalPrice)
		internalReferences = append(internalReferences, orders[i].Reference())
	}

	reference := utils.GeneratePaymentReference(constvars.TransactionReferencePrefix)
	amount := utils.ToKobo(total)
	callbackURL := fmt.Sprintf("%s%s?session=%s",
		strings.TrimRight(uc.InternalConfig.App.FrontendDomain, "/"),
		uc.InternalConfig.PaymentGateway.CallbackPath,
		url.QueryEscape(sessionID),
	)

	payment, err := uc.PaymentGateway.InitializeTransaction(ctx, &requests.PaymentInitialization{
		Email:       email,
		AmountKobo:  amount,
		Currency:    uc.InternalConfig.PaymentGateway.Currency,
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata: map[string]interface{}{
			"guestId":            guestID,
			"checkoutSessionId":  sessionID,
			"internalReferences": internalReferences,
		},
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	if payment.Reference == "" {
		payment.Reference = reference
	}

	err = uc.TransactionReferenceRepository.Create(ctx, &models.TransactionReference{
		ID:                 uuid.NewString(),
		Reference:          payment.Reference,
		InternalReferences: internalReferences,
		CheckoutSessionID:  sessionID,
		GuestID:            guestID,
		AmountKobo:         amount,
		CreatedAt:          now,
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (uc *checkoutUsecase) RetrieveSession(ctx context.Context, request *requests.RetrieveSession) (*responses.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.RetrieveSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCheckoutSessionIDKey, request.CheckoutSessionID),
	)

	if request.CheckoutSessionID != "" {
		orders, err := uc.OrderRepository.FindBySessionID(ctx, request.CheckoutSessionID, "", constvars.OrderStatusesInFlight)
		if err != nil {
			return nil, err
		}
		if len(orders) > 0 {
			return &responses.Session{
				GuestID:           orders[0].GuestID,
				CheckoutSessionID: request.CheckoutSessionID,
				Source:            constvars.SessionSourceOrder,
				CreatedAt:         orders[0].CreatedAt,
			}, nil
		}
	}

	if request.Email == "" && request.Phone == "" {
		return nil, exceptions.ErrSessionNotFound(nil)
	}

	phones := utils.PhoneVariants(request.Phone)
	email := strings.ToLower(strings.TrimSpace(request.Email))
	order, err := uc.OrderRepository.FindLatestByContact(ctx, email, phones)
	if err != nil {
		return nil, err
	}
	prescription, err := uc.PrescriptionRepository.FindLatestByContact(ctx, email, phones)
	if err != nil {
		return nil, err
	}

	switch {
	case order != nil && (prescription == nil || !prescription.CreatedAt.After(order.CreatedAt)):
		return &responses.Session{
			GuestID:           order.GuestID,
			CheckoutSessionID: order.SessionID(),
			Source:            constvars.SessionSourceOrder,
			CreatedAt:         order.CreatedAt,
		}, nil
	case prescription != nil:
		return &responses.Session{
			GuestID:   prescription.GuestID,
			Source:    constvars.SessionSourcePrescription,
			CreatedAt: prescription.CreatedAt,
		}, nil
	}

	uc.Log.Info("checkoutUsecase.RetrieveSession found nothing",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil, exceptions.ErrSessionNotFound(nil)
}

func (uc *checkoutUsecase) ResumeCheckout(ctx context.Context, request *requests.ResumeCheckout) (*responses.Checkout, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.ResumeCheckout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
	)

	unlock, err := uc.lockGuest(ctx, request.GuestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var response *responses.Checkout
	err = uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepository.FindByIDAndGuestID(ctx, request.OrderID, request.GuestID)
		if err != nil {
			return err
		}
		if order == nil || order.IsCart() {
			return exceptions.ErrOrderNotFound(nil)
		}
		sessionID := order.SessionID()
		if sessionID == "" {
			return exceptions.ErrNoPayableItems(nil)
		}

		sessionOrders, err := uc.OrderRepository.FindBySessionID(ctx, sessionID, request.GuestID, []string{
			constvars.OrderStatusPending,
			constvars.OrderStatusPendingPrescription,
		})
		if err != nil {
			return err
		}
		details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, orderIDs(sessionOrders))
		if err != nil {
			return err
		}
		byOrder := detailsByOrder(details)

		verified, err := uc.PrescriptionRepository.FindLatestVerifiedByGuestID(ctx, request.GuestID)
		if err != nil {
			return err
		}

		now := uc.Now()
		var payable []models.Order
		for i := range sessionOrders {
			o := &sessionOrders[i]
			if o.PaymentStatus == constvars.PaymentStatusPaid {
				continue
			}
			if o.Status == constvars.OrderStatusPendingPrescription {
				covering, err := findCoveringPrescription(ctx, uc.PrescriptionRepository, o, verified, requiredItemIDs(byOrder[o.ID]))
				if err != nil {
					return err
				}
				if covering == nil {
					return exceptions.ErrPrescriptionPending(nil)
				}
				o.Status = constvars.OrderStatusPending
				o.PrescriptionID = stringPtr(covering.ID)
			}

			orderItems := make([]models.OrderItem, 0, len(byOrder[o.ID]))
			for _, d := range byOrder[o.ID] {
				orderItems = append(orderItems, d.OrderItem)
			}
			if err := uc.Inventory.Reserve(ctx, o, orderItems); err != nil {
				return err
			}

			o.PaymentReference = stringPtr(utils.GeneratePaymentReference(constvars.OrderPaymentReferencePrefix))
			o.PaymentStatus = constvars.PaymentStatusPending
			o.SetUpdatedAt(now)
			if err := uc.OrderRepository.Update(ctx, o); err != nil {
				return err
			}
			payable = append(payable, *o)
		}
		if len(payable) == 0 {
			return exceptions.ErrNoPayableItems(nil)
		}

		payment, err := uc.initializePayment(ctx, request.GuestID, sessionID, request.Email, uuid.NewString(), payable, now)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for i := range payable {
			total = total.Add(payable[i].TotalPrice)
		}
		response = &responses.Checkout{
			Status:               constvars.CheckoutStatusPaymentInitialized,
			GuestID:              request.GuestID,
			CheckoutSessionID:    sessionID,
			Orders:               BuildOrderResponses(payable, details),
			TotalPayable:         total,
			PaymentURL:           payment.AuthorizationURL,
			AccessCode:           payment.AccessCode,
			TransactionReference: payment.Reference,
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("checkoutUsecase.ResumeCheckout error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, request.OrderID),
			zap.Error(err),
		)
		return nil, err
	}
	return response, nil
}

func (uc *checkoutUsecase) PartialCheckout(ctx context.Context, request *requests.PartialCheckout) (*responses.Checkout, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.PartialCheckout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
	)

	unlock, err := uc.lockGuest(ctx, request.GuestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var response *responses.Checkout
	err = uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		original, err := uc.OrderRepository.FindByIDAndGuestID(ctx, request.OrderID, request.GuestID)
		if err != nil {
			return err
		}
		if original == nil {
			// a retry after every item moved out finds the emptied order gone
			return exceptions.ErrNoPayableItems(nil)
		}
		if original.IsCart() {
			return exceptions.ErrOrderNotFound(nil)
		}
		if original.Status != constvars.OrderStatusPendingPrescription &&
			original.Status != constvars.OrderStatusPartiallyCompleted {
			return exceptions.ErrNoPayableItems(nil)
		}

		details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, []string{original.ID})
		if err != nil {
			return err
		}
		verified, err := uc.PrescriptionRepository.FindLatestVerifiedByGuestID(ctx, request.GuestID)
		if err != nil {
			return err
		}

		var payable []models.OrderItemDetail
		gated := false
		for _, d := range details {
			if !d.PrescriptionRequired || coversAll(verified, []string{d.ItemID}) {
				payable = append(payable, d)
				gated = gated || d.PrescriptionRequired
			}
		}
		if len(payable) == 0 {
			return exceptions.ErrNoPayableItems(nil)
		}

		now := uc.Now()
		split := &models.Order{
			ID:                uuid.NewString(),
			GuestID:           original.GuestID,
			Status:            constvars.OrderStatusPending,
			PaymentStatus:     constvars.PaymentStatusPending,
			PaymentReference:  stringPtr(utils.GeneratePaymentReference(constvars.OrderPaymentReferencePrefix)),
			CheckoutSessionID: original.CheckoutSessionID,
			ContactEmail:      original.ContactEmail,
			ContactPhone:      original.ContactPhone,
			DeliveryAddress:   original.DeliveryAddress,
			StockReserved:     original.StockReserved,
			TotalPrice:        decimal.Zero,
		}
		if split.CheckoutSessionID == nil {
			split.CheckoutSessionID = stringPtr(uuid.NewString())
		}
		if gated {
			split.PrescriptionID = stringPtr(verified.ID)
		}
		draft := &subOrderDraft{order: split, details: payable}
		for _, d := range payable {
			split.TotalPrice = split.TotalPrice.Add(d.LineTotal())
		}
		split.SetCreatedAtUpdatedAt(now)

		if !split.StockReserved {
			if err := uc.Inventory.Reserve(ctx, split, draft.items()); err != nil {
				return err
			}
		}
		if err := uc.OrderRepository.Create(ctx, split); err != nil {
			return err
		}
		if err := uc.OrderItemRepository.MoveToOrder(ctx, draft.itemIDs(), split.ID); err != nil {
			return err
		}

		if len(payable) == len(details) {
			if err := uc.OrderRepository.Delete(ctx, original.ID); err != nil {
				return err
			}
		} else {
			remaining, err := uc.OrderRepository.RecalculateTotal(ctx, original.ID)
			if err != nil {
				return err
			}
			original.TotalPrice = remaining
			original.Status = constvars.OrderStatusPartiallyCompleted
			original.SetUpdatedAt(now)
			if err := uc.OrderRepository.Update(ctx, original); err != nil {
				return err
			}
		}

		email := split.ContactEmail
		payment, err := uc.initializePayment(ctx, request.GuestID, split.SessionID(), email, split.ID, []models.Order{*split}, now)
		if err != nil {
			return err
		}

		response = &responses.Checkout{
			Status:               constvars.CheckoutStatusPaymentInitialized,
			GuestID:              request.GuestID,
			CheckoutSessionID:    split.SessionID(),
			Orders:               []responses.Order{toOrderResponse(split, payable)},
			TotalPayable:         split.TotalPrice,
			PaymentURL:           payment.AuthorizationURL,
			AccessCode:           payment.AccessCode,
			TransactionReference: payment.Reference,
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("checkoutUsecase.PartialCheckout error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, request.OrderID),
			zap.Error(err),
		)
		return nil, err
	}
	return response, nil
}

func (uc *checkoutUsecase) CancelPartialCheckout(ctx context.Context, request *requests.PartialCheckout) (*responses.Cart, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.CancelPartialCheckout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGuestIDKey, request.GuestID),
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
	)

	unlock, err := uc.lockGuest(ctx, request.GuestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var cartID string
	err = uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepository.FindByIDAndGuestID(ctx, request.OrderID, request.GuestID)
		if err != nil {
			return err
		}
		if order == nil || order.IsCart() {
			return exceptions.ErrOrderNotFound(nil)
		}
		switch order.Status {
		case constvars.OrderStatusPending, constvars.OrderStatusPendingPrescription, constvars.OrderStatusPartiallyCompleted:
		default:
			return exceptions.ErrInvalidStatusTransition(nil, order.Status, constvars.OrderStatusCart)
		}
		if order.PaymentStatus == constvars.PaymentStatusPaid {
			return exceptions.ErrInvalidStatusTransition(nil, order.Status, constvars.OrderStatusCart)
		}

		if err := uc.Inventory.Release(ctx, order); err != nil {
			return err
		}
		items, err := uc.OrderItemRepository.FindByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}

		now := uc.Now()
		cart, err := findOrCreateCart(ctx, uc.OrderRepository, uc.Inventory, request.GuestID, now)
		if err != nil {
			return err
		}
		cartID = cart.ID
		if cart.ID == order.ID {
			// the order itself was reopened as the cart
			_, err := uc.OrderRepository.RecalculateTotal(ctx, cart.ID)
			return err
		}

		for _, item := range items {
			merged := &models.OrderItem{
				ID:              uuid.NewString(),
				OrderID:         cart.ID,
				ProviderID:      item.ProviderID,
				ItemID:          item.ItemID,
				Quantity:        item.Quantity,
				Price:           item.Price,
				TimeSlotStart:   item.TimeSlotStart,
				TimeSlotEnd:     item.TimeSlotEnd,
				FulfillmentType: item.FulfillmentType,
			}
			merged.SetCreatedAtUpdatedAt(now)
			if err := uc.OrderItemRepository.Upsert(ctx, merged); err != nil {
				return err
			}
		}
		if err := uc.OrderRepository.Delete(ctx, order.ID); err != nil {
			return err
		}
		_, err = uc.OrderRepository.RecalculateTotal(ctx, cart.ID)
		return err
	})
	if err != nil {
		uc.Log.Error("checkoutUsecase.CancelPartialCheckout error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, request.OrderID),
			zap.Error(err),
		)
		return nil, err
	}

	details, err := uc.OrderItemRepository.FindDetailsByOrderIDs(ctx, []string{cartID})
	if err != nil {
		return nil, err
	}
	groups, total := groupByProvider(details)
	return &responses.Cart{
		OrderID:    cartID,
		GuestID:    request.GuestID,
		Providers:  groups,
		TotalPrice: total,
	}, nil
}

func (uc *checkoutUsecase) ExpireStaleCheckouts(ctx context.Context, cutoff time.Time) (int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	expired := 0
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		orders, err := uc.OrderRepository.FindExpiredPending(ctx, cutoff, expiryBatchSize)
		if err != nil {
			return err
		}
		now := uc.Now()
		for i := range orders {
			o := &orders[i]
			if err := uc.Inventory.Release(ctx, o); err != nil {
				return err
			}
			o.PaymentStatus = constvars.PaymentStatusCancelled
			o.SetUpdatedAt(now)
			if err := uc.OrderRepository.Update(ctx, o); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("checkoutUsecase.ExpireStaleCheckouts error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, err
	}

	if expired > 0 {
		uc.Log.Info("checkoutUsecase.ExpireStaleCheckouts released stale sub-orders",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingCountKey, expired),
		)
	}
	return expired, nil
}

// lockGuest serialises checkout-session mutations of one guest. The returned func releases
// the lock and must always be called.
func (uc *checkoutUsecase) lockGuest(ctx context.Context, guestID string) (func(), error) {
	key := fmt.Sprintf(constvars.RedisCheckoutLockKeyFormat, guestID)
	ttl := time.Duration(uc.InternalConfig.Checkout.LockTTLInSeconds) * time.Second

	acquired, token, err := uc.Locker.TryLock(ctx, key, ttl)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrCheckoutInProgress(nil)
	}

	return func() {
		if err := uc.Locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			uc.Log.Warn("checkoutUsecase failed to release checkout lock",
				zap.String(constvars.LoggingRedisKey, key),
				zap.Error(err),
			)
		}
	}, nil
}

func (uc *checkoutUsecase) cachedCheckout(ctx context.Context, key string) (*responses.Checkout, error) {
	raw, err := uc.RedisRepository.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	cached := new(responses.Checkout)
	if err := json.Unmarshal([]byte(raw), cached); err != nil {
		uc.Log.Warn("checkoutUsecase dropping unreadable idempotency entry",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		if err := uc.RedisRepository.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return cached, nil
}
