package transactor

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithinTransaction_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tr := &postgresTransactor{DB: db, Log: zap.NewNop()}
	err = tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		_, err := Conn(ctx, db).ExecContext(ctx, "UPDATE orders SET status = 'pending'")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("gateway down")
	tr := &postgresTransactor{DB: db, Log: zap.NewNop()}
	err = tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_JoinsOuterTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tr := &postgresTransactor{DB: db, Log: zap.NewNop()}
	err = tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tr.WithinTransaction(ctx, func(inner context.Context) error {
			assert.True(t, InTransaction(inner))
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_FallsBackToDB(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.False(t, InTransaction(context.Background()))
	assert.Equal(t, db, Conn(context.Background(), db))
}
