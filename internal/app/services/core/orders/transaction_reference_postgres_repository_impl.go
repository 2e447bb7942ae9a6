package orders

import (
	"context"
	"database/sql"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/shared/transactor"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/queries"

	"github.com/lib/pq"
)

type transactionReferencePostgresRepository struct {
	DB *sql.DB
}

func NewTransactionReferencePostgresRepository(db *sql.DB) contracts.TransactionReferenceRepository {
	return &transactionReferencePostgresRepository{
		DB: db,
	}
}

func (repo *transactionReferencePostgresRepository) Create(ctx context.Context, reference *models.TransactionReference) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.InsertTransactionReference,
		reference.ID,
		reference.Reference,
		pq.Array(reference.InternalReferences),
		reference.CheckoutSessionID,
		reference.GuestID,
		reference.AmountKobo,
		reference.CreatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *transactionReferencePostgresRepository) FindByReference(ctx context.Context, reference string) (*models.TransactionReference, error) {
	return repo.findOne(ctx, queries.FindTransactionReferenceByReference, reference)
}

func (repo *transactionReferencePostgresRepository) FindByInternalReference(ctx context.Context, internalReference string) (*models.TransactionReference, error) {
	return repo.findOne(ctx, queries.FindTransactionReferenceByInternalReference, internalReference)
}

func (repo *transactionReferencePostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.TransactionReference, error) {
	var reference models.TransactionReference
	err := transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, query, args...).Scan(
		&reference.ID,
		&reference.Reference,
		pq.Array(&reference.InternalReferences),
		&reference.CheckoutSessionID,
		&reference.GuestID,
		&reference.AmountKobo,
		&reference.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &reference, nil
}
