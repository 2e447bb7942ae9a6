package transactor

import (
	"context"
	"database/sql"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

type txKey struct{}

// Executor is satisfied by both *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Conn returns the transaction carried by ctx, falling back to db.
func Conn(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// InTransaction reports whether ctx already carries a transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

type postgresTransactor struct {
	DB  *sql.DB
	Log *zap.Logger
}

var (
	transactorInstance contracts.Transactor
	onceTransactor     sync.Once
)

func NewPostgresTransactor(db *sql.DB, logger *zap.Logger) contracts.Transactor {
	onceTransactor.Do(func() {
		transactorInstance = &postgresTransactor{
			DB:  db,
			Log: logger,
		}
	})
	return transactorInstance
}

// WithinTransaction joins an outer transaction when one is already in ctx.
func (t *postgresTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		t.Log.Error("postgresTransactor.WithinTransaction error beginning transaction",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBBeginTransaction(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			t.Log.Error("postgresTransactor.WithinTransaction error rolling back",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(rbErr),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		t.Log.Error("postgresTransactor.WithinTransaction error committing",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBCommitTransaction(err)
	}
	return nil
}
