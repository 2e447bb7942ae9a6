package orders

import (
	"context"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const leaderLockTTL = 2 * time.Minute

// ExpiryWorker periodically releases stock held by abandoned checkouts. Only the instance
// holding the leader lock does any work.
type ExpiryWorker struct {
	log      *zap.Logger
	cfg      *config.InternalConfig
	locker   contracts.LockerService
	checkout contracts.CheckoutUsecase
	now      func() time.Time
	stop     chan struct{}
	cron     *cron.Cron
	runCtx   context.Context
	cancel   context.CancelFunc
}

func NewExpiryWorker(log *zap.Logger, cfg *config.InternalConfig, locker contracts.LockerService, checkout contracts.CheckoutUsecase) *ExpiryWorker {
	return &ExpiryWorker{log: log, cfg: cfg, locker: locker, checkout: checkout, now: time.Now, stop: make(chan struct{})}
}

// Start schedules the sweep on the configured cron spec.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Checkout.ExpiryWorkerCronSpec
	_, err := c.AddFunc(spec, func() { w.RunOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("orders.worker: invalid cron spec; falling back to @every 5m",
			zap.String("spec", spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc("@every 5m", func() { w.RunOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels in-flight sweeps and waits for the cron to drain.
func (w *ExpiryWorker) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *ExpiryWorker) RunOnce(ctx context.Context) {
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisExpiryWorkerLeaderKey, leaderLockTTL)
	if err != nil {
		w.log.Warn("orders.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("orders.worker: leader lock held by another instance")
		return
	}
	defer func() {
		if err := w.locker.Unlock(context.WithoutCancel(ctx), constvars.RedisExpiryWorkerLeaderKey, token); err != nil {
			w.log.Warn("orders.worker: failed to release leader lock", zap.Error(err))
		}
	}()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(leaderLockTTL / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(refreshCtx, constvars.RedisExpiryWorkerLeaderKey, token, leaderLockTTL); err != nil {
					w.log.Warn("orders.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	runCtx := context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, "worker-"+uuid.NewString())
	cutoff := w.now().Add(-time.Duration(w.cfg.Checkout.PaymentExpiredTimeInMinutes) * time.Minute)
	released, err := w.checkout.ExpireStaleCheckouts(runCtx, cutoff)
	if err != nil {
		w.log.Warn("orders.worker: expiry sweep failed", zap.Error(err))
		return
	}
	w.log.Info("orders.worker: expiry sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int(constvars.LoggingCountKey, released),
	)
}
