package orders

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/responses"
	"time"

	"go.uber.org/zap"
)

// NewStatusEvent records order moving from fromStatus to its current status.
func NewStatusEvent(order *models.Order, fromStatus, actor, actorID, reason string, now time.Time) models.OrderEvent {
	return models.OrderEvent{
		OrderID:       order.ID,
		GuestID:       order.GuestID,
		FromStatus:    fromStatus,
		ToStatus:      order.Status,
		PaymentStatus: order.PaymentStatus,
		Actor:         actor,
		ActorID:       actorID,
		Reason:        reason,
		OccurredAt:    now,
	}
}

// RecordEvents stores status history after the owning transaction committed. Failures are
// logged and swallowed.
func RecordEvents(ctx context.Context, repository contracts.OrderEventRepository, logger *zap.Logger, events []models.OrderEvent) {
	if repository == nil || len(events) == 0 {
		return
	}
	if err := repository.InsertMany(ctx, events); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		logger.Warn("failed to record order status events",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingCountKey, len(events)),
			zap.Error(err),
		)
	}
}

// Notify publishes message to queue. Failures are logged and swallowed.
func Notify(ctx context.Context, publisher contracts.NotificationPublisher, logger *zap.Logger, queue string, message interface{}) {
	if publisher == nil || queue == "" {
		return
	}
	if err := publisher.Publish(ctx, queue, message); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		logger.Warn("failed to publish notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, queue),
			zap.Error(err),
		)
	}
}

func toStatusEvents(events []models.OrderEvent) map[string][]responses.StatusEvent {
	out := make(map[string][]responses.StatusEvent)
	for _, e := range events {
		out[e.OrderID] = append(out[e.OrderID], responses.StatusEvent{
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Actor:      e.Actor,
			Reason:     e.Reason,
			OccurredAt: e.OccurredAt,
		})
	}
	return out
}
