package orders

import (
	"context"
	"testing"
	"time"

	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWorkerFixture(t *testing.T) (*fixture, *ExpiryWorker) {
	t.Helper()
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.expectPaymentInit().Once()
	f.initiate(t, &requests.InitiateCheckout{})
	require.Equal(t, 8, f.store.Stock(pharmacyID, paracetamol))

	w := NewExpiryWorker(zap.NewNop(), f.cfg, f.locker, f.checkout)
	w.now = f.clock.Now
	return f, w
}

func TestExpiryWorker_RunOnceReleasesStaleCheckouts(t *testing.T) {
	f, w := newWorkerFixture(t)

	f.clock.advance(10 * time.Minute)
	w.RunOnce(context.Background())
	assert.Equal(t, 8, f.store.Stock(pharmacyID, paracetamol))

	f.clock.advance(25 * time.Minute)
	w.RunOnce(context.Background())
	assert.Equal(t, 10, f.store.Stock(pharmacyID, paracetamol))
	assert.False(t, f.locker.Held(constvars.RedisExpiryWorkerLeaderKey))
	assert.Equal(t, 3, f.locker.Calls)
}

func TestExpiryWorker_SkipsWithoutLeaderLock(t *testing.T) {
	f, w := newWorkerFixture(t)
	f.locker.Busy = true

	f.clock.advance(time.Hour)
	w.RunOnce(context.Background())
	assert.Equal(t, 8, f.store.Stock(pharmacyID, paracetamol))
}

func TestExpiryWorker_StartFallsBackOnInvalidSpec(t *testing.T) {
	f, w := newWorkerFixture(t)
	f.cfg.Checkout.ExpiryWorkerCronSpec = "not a spec"

	w.Start(context.Background())
	require.NotNil(t, w.cron)
	assert.Len(t, w.cron.Entries(), 1)
	w.Stop()
	w.Stop()
}
