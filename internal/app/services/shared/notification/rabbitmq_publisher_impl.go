package notification

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// channel is the part of *amqp091.Channel the publisher needs.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type rabbitMQPublisher struct {
	Channel channel
	Log     *zap.Logger

	mu       sync.Mutex
	declared map[string]bool
}

func NewRabbitMQPublisher(rabbitMQConnection *amqp091.Connection, logger *zap.Logger) (contracts.NotificationPublisher, error) {
	ch, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}
	return newPublisher(ch, logger), nil
}

func newPublisher(ch channel, logger *zap.Logger) *rabbitMQPublisher {
	return &rabbitMQPublisher{
		Channel:  ch,
		Log:      logger,
		declared: make(map[string]bool),
	}
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, queueName string, message interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	if err := p.ensureQueue(queueName); err != nil {
		p.Log.Error("rabbitMQPublisher.Publish error declaring queue",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, queueName),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	headers := amqp091.Table{
		"message_type":     "JSON",
		"requeue_strategy": "DROP",
	}
	if requestID != "" {
		headers["request_id"] = requestID
	}

	msg := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Headers:      headers,
	}

	err = p.Channel.PublishWithContext(ctx, "", queueName, false, false, msg)
	if err != nil {
		p.Log.Error("rabbitMQPublisher.Publish error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, queueName),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	p.Log.Info("rabbitMQPublisher.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, queueName),
	)
	return nil
}

func (p *rabbitMQPublisher) ensureQueue(queueName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.declared[queueName] {
		return nil
	}
	if _, err := p.Channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return err
	}
	p.declared[queueName] = true
	return nil
}
