package contracts

import (
	"context"
	"time"
)

// LockerService hands out short-lived exclusive leases on redis keys. Checkout flows hold
// one per guest, and the expiry worker holds one to stay the only sweeper.
type LockerService interface {
	// TryLock returns false without an error when another holder owns key. The token
	// identifies this holder to Unlock and Refresh.
	TryLock(ctx context.Context, key string, ttl time.Duration) (acquired bool, token string, err error)
	Unlock(ctx context.Context, key, token string) error
	// Refresh fails once the lease expired or passed to another holder.
	Refresh(ctx context.Context, key, token string, ttl time.Duration) error
}
