package contracts

import "context"

type NotificationPublisher interface {
	Publish(ctx context.Context, queueName string, message interface{}) error
}
