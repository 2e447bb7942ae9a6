package notification

import (
	"context"
	"errors"
	"testing"

	"medmarket-service/internal/pkg/constvars"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	declares  int
	published []amqp091.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error) {
	f.declares++
	return amqp091.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func TestPublish_EncodesJSONAndDeclaresOnce(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, zap.NewNop())
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")

	require.NoError(t, p.Publish(ctx, "order_notifications", map[string]string{"event": "order.confirmed"}))
	require.NoError(t, p.Publish(ctx, "order_notifications", map[string]string{"event": "order.confirmed"}))

	assert.Equal(t, 1, ch.declares)
	require.Len(t, ch.published, 2)
	assert.Equal(t, []string{"order_notifications", "order_notifications"}, ch.keys)
	assert.JSONEq(t, `{"event":"order.confirmed"}`, string(ch.published[0].Body))
	assert.Equal(t, constvars.MIMEApplicationJSON, ch.published[0].ContentType)
	assert.Equal(t, "req-1", ch.published[0].Headers["request_id"])
}

func TestPublish_WrapsBrokerError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, zap.NewNop())

	err := p.Publish(context.Background(), "q", struct{}{})
	assert.Error(t, err)
}
