package contracts

import "context"

// Transactor runs fn inside one database transaction carried by the context. Repositories
// called with that context join the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
