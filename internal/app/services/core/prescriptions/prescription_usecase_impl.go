package prescriptions

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/core/orders"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type prescriptionUsecase struct {
	Transactor             contracts.Transactor
	PrescriptionRepository contracts.PrescriptionRepository
	OrderRepository        contracts.OrderRepository
	OrderItemRepository    contracts.OrderItemRepository
	OrderEventRepository   contracts.OrderEventRepository
	ProviderRepository     contracts.ProviderRepository
	Inventory              contracts.InventoryService
	Storage                contracts.Storage
	Publisher              contracts.NotificationPublisher
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
	Now                    func() time.Time
}

var (
	prescriptionUsecaseInstance contracts.PrescriptionUsecase
	oncePrescriptionUsecase     sync.Once
)

func NewPrescriptionUsecase(
	transactor contracts.Transactor,
	prescriptionRepository contracts.PrescriptionRepository,
	orderRepository contracts.OrderRepository,
	orderItemRepository contracts.OrderItemRepository,
	orderEventRepository contracts.OrderEventRepository,
	providerRepository contracts.ProviderRepository,
	inventory contracts.InventoryService,
	storage contracts.Storage,
	publisher contracts.NotificationPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PrescriptionUsecase {
	oncePrescriptionUsecase.Do(func() {
		prescriptionUsecaseInstance = &prescriptionUsecase{
			Transactor:             transactor,
			PrescriptionRepository: prescriptionRepository,
			OrderRepository:        orderRepository,
			OrderItemRepository:    orderItemRepository,
			OrderEventRepository:   orderEventRepository,
			ProviderRepository:     providerRepository,
			Inventory:              inventory,
			Storage:                storage,
			Publisher:              publisher,
			InternalConfig:         internalConfig,
			Log:                    logger,
			Now:                    time.Now,
		}
	})
	return prescriptionUsecaseInstance
}

func (uc *prescriptionUsecase) ListPrescriptions(ctx context.Context, request *requests.ListPrescriptions) ([]responses.Prescription, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("prescriptionUsecase.ListPrescriptions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("status", request.Status),
	)

	page, pageSize := request.Pagination.Page, request.Pagination.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constvars.AppDefaultPageSize
	}

	found, total, err := uc.PrescriptionRepository.FindByStatus(ctx, request.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]responses.Prescription, 0, len(found))
	for i := range found {
		out = append(out, toPrescriptionResponse(&found[i]))
	}
	return out, total, nil
}

// ReviewPrescription records a one-time verdict and settles every order that was waiting on it.
// Verified orders move to pending, and on to confirmed when already paid. Rejected orders are
// cancelled and their stock goes back to the providers.
func (uc *prescriptionUsecase) ReviewPrescription(ctx context.Context, request *requests.ReviewPrescription) (*responses.Prescription, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("prescriptionUsecase.ReviewPrescription called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrescriptionIDKey, request.PrescriptionID),
		zap.String("status", request.Status),
		zap.String(constvars.LoggingUserIDKey, request.ReviewerID),
	)

	reason := strings.TrimSpace(request.Reason)
	if request.Status == constvars.PrescriptionStatusRejected && reason == "" {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("reason is required when rejecting"))
	}

	now := uc.Now()
	var (
		prescription *models.Prescription
		settled      []models.Order
		confirmed    []models.Order
		events       []models.OrderEvent
	)
	err := uc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		prescription, err = uc.PrescriptionRepository.FindByID(ctx, request.PrescriptionID)
		if err != nil {
			return err
		}
		if prescription == nil {
			return exceptions.ErrPrescriptionNotFound(nil)
		}
		if prescription.Status != constvars.PrescriptionStatusPending {
			return exceptions.ErrAlreadyReviewed(nil)
		}

		prescription.Status = request.Status
		prescription.ReviewedBy = &request.ReviewerID
		prescription.ReviewedAt = &now
		prescription.UpdatedAt = now
		if request.Status == constvars.PrescriptionStatusRejected {
			prescription.RejectionReason = &reason
		}
		updated, err := uc.PrescriptionRepository.UpdateReview(ctx, prescription)
		if err != nil {
			return err
		}
		if !updated {
			return exceptions.ErrAlreadyReviewed(nil)
		}

		waiting, err := uc.OrderRepository.FindPendingByPrescriptionID(ctx, prescription.ID)
		if err != nil {
			return err
		}
		for i := range waiting {
			order := &waiting[i]
			var orderEvents []models.OrderEvent
			if request.Status == constvars.PrescriptionStatusVerified {
				orderEvents = uc.release(order, request.ReviewerID, now)
			} else {
				orderEvents, err = uc.reject(ctx, order, request.ReviewerID, reason, now)
			}
			if err != nil {
				return err
			}
			if err := uc.OrderRepository.Update(ctx, order); err != nil {
				return err
			}
			events = append(events, orderEvents...)
			settled = append(settled, *order)
			if order.Status == constvars.OrderStatusConfirmed {
				confirmed = append(confirmed, *order)
			}
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("prescriptionUsecase.ReviewPrescription error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPrescriptionIDKey, request.PrescriptionID),
			zap.Error(err),
		)
		return nil, err
	}

	orders.RecordEvents(ctx, uc.OrderEventRepository, uc.Log, events)
	uc.notifyReviewed(ctx, prescription, settled, reason, now)
	uc.notifyProviders(ctx, confirmed, now)

	uc.Log.Info("prescriptionUsecase.ReviewPrescription succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrescriptionIDKey, prescription.ID),
		zap.Int(constvars.LoggingCountKey, len(settled)),
	)
	response := toPrescriptionResponse(prescription)
	return &response, nil
}

// release moves a gated order back into the payment flow. Paid orders skip straight through to
// confirmed.
func (uc *prescriptionUsecase) release(order *models.Order, reviewerID string, now time.Time) []models.OrderEvent {
	from := order.Status
	order.Status = constvars.OrderStatusPending
	order.SetUpdatedAt(now)
	events := []models.OrderEvent{orders.NewStatusEvent(order, from, constvars.EventActorAdmin, reviewerID, "prescription verified", now)}

	if order.PaymentStatus == constvars.PaymentStatusPaid {
		order.Status = constvars.OrderStatusConfirmed
		events = append(events, orders.NewStatusEvent(order, constvars.OrderStatusPending, constvars.EventActorSystem, "", "", now))
	}
	return events
}

func (uc *prescriptionUsecase) reject(ctx context.Context, order *models.Order, reviewerID, reason string, now time.Time) ([]models.OrderEvent, error) {
	if err := uc.Inventory.Release(ctx, order); err != nil {
		return nil, err
	}
	from := order.Status
	cancellation := "prescription rejected: " + reason
	order.Status = constvars.OrderStatusCancelled
	order.CancellationReason = &cancellation
	order.SetUpdatedAt(now)
	return []models.OrderEvent{orders.NewStatusEvent(order, from, constvars.EventActorAdmin, reviewerID, cancellation, now)}, nil
}

func (uc *prescriptionUsecase) notifyReviewed(ctx context.Context, prescription *models.Prescription, settled []models.Order, reason string, now time.Time) {
	event := constvars.NotificationEventPrescriptionVerified
	if prescription.Status == constvars.PrescriptionStatusRejected {
		event = constvars.NotificationEventPrescriptionRejected
	}
	ids := make([]string, 0, len(settled))
	for _, o := range settled {
		ids = append(ids, o.ID)
	}
	orders.Notify(ctx, uc.Publisher, uc.Log, uc.InternalConfig.RabbitMQ.PrescriptionNotificationQueue, &requests.PrescriptionNotification{
		Event:          event,
		PrescriptionID: prescription.ID,
		GuestID:        prescription.GuestID,
		Status:         prescription.Status,
		Reason:         reason,
		Email:          prescription.Email,
		Phone:          prescription.Phone,
		OrderIDs:       ids,
		OccurredAt:     now,
	})
}

func (uc *prescriptionUsecase) notifyProviders(ctx context.Context, confirmed []models.Order, now time.Time) {
	for _, o := range confirmed {
		items, err := uc.OrderItemRepository.FindByOrderID(ctx, o.ID)
		if err != nil || len(items) == 0 {
			continue
		}
		providerID := items[0].ProviderID
		tokens, err := uc.ProviderRepository.FindDeviceTokens(ctx, providerID)
		if err != nil {
			uc.Log.Warn("prescriptionUsecase.notifyProviders failed to load device tokens",
				zap.String(constvars.LoggingProviderIDKey, providerID),
				zap.Error(err),
			)
			continue
		}
		deviceTokens := make([]string, 0, len(tokens))
		for _, t := range tokens {
			deviceTokens = append(deviceTokens, t.Token)
		}
		orders.Notify(ctx, uc.Publisher, uc.Log, uc.InternalConfig.RabbitMQ.ProviderNotificationQueue, &requests.ProviderNotification{
			Event:        constvars.NotificationEventProviderNewOrder,
			ProviderID:   providerID,
			OrderID:      o.ID,
			DeviceTokens: deviceTokens,
			OccurredAt:   now,
		})
	}
}

// GetFileURL presigns a short-lived download link for the uploaded file.
func (uc *prescriptionUsecase) GetFileURL(ctx context.Context, prescriptionID string) (*responses.PrescriptionFileURL, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("prescriptionUsecase.GetFileURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrescriptionIDKey, prescriptionID),
	)

	prescription, err := uc.PrescriptionRepository.FindByID(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription == nil {
		return nil, exceptions.ErrPrescriptionNotFound(nil)
	}

	expiry := time.Duration(uc.InternalConfig.Minio.PreSignedUrlExpiryTimeInHours) * time.Hour
	url, err := uc.Storage.GetObjectUrlWithExpiryTime(ctx, uc.InternalConfig.Minio.BucketName, prescription.FileReference, expiry)
	if err != nil {
		return nil, err
	}
	return &responses.PrescriptionFileURL{
		URL:       url,
		ExpiresAt: uc.Now().Add(expiry),
	}, nil
}

func toPrescriptionResponse(p *models.Prescription) responses.Prescription {
	return responses.Prescription{
		ID:              p.ID,
		GuestID:         p.GuestID,
		Email:           p.Email,
		Phone:           p.Phone,
		Status:          p.Status,
		RejectionReason: p.RejectionReason,
		CoveredItemIDs:  p.CoveredItemIDs,
		ReviewedBy:      p.ReviewedBy,
		ReviewedAt:      p.ReviewedAt,
		CreatedAt:       p.CreatedAt,
	}
}
