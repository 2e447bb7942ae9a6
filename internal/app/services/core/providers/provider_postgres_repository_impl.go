package providers

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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type providerPostgresRepository struct {
	DB *sql.DB
}

func NewProviderPostgresRepository(db *sql.DB) contracts.ProviderRepository {
	return &providerPostgresRepository{
		DB: db,
	}
}

func scanProvider(row rowScanner) (*models.Provider, error) {
	var p models.Provider
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Kind,
		&p.Latitude,
		&p.Longitude,
		&p.Address,
		&p.State,
		&p.LGA,
		&p.Ward,
		&p.VerificationStatus,
		&p.IsActive,
		&p.SupportsDelivery,
		&p.SupportsHomeCollection,
		&p.OperatingHours,
		&p.Email,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *providerPostgresRepository) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	provider, err := scanProvider(transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.FindProviderByID, providerID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return provider, nil
}

func (repo *providerPostgresRepository) FindByIDs(ctx context.Context, providerIDs []string) ([]models.Provider, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, queries.FindProvidersByIDs, pq.Array(providerIDs))
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	providers := make([]models.Provider, 0, len(providerIDs))
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		providers = append(providers, *provider)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return providers, nil
}

func (repo *providerPostgresRepository) Create(ctx context.Context, provider *models.Provider) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.InsertProvider,
		provider.ID,
		provider.Name,
		provider.Kind,
		provider.Latitude,
		provider.Longitude,
		provider.Address,
		provider.State,
		provider.LGA,
		provider.Ward,
		provider.VerificationStatus,
		provider.IsActive,
		provider.SupportsDelivery,
		provider.SupportsHomeCollection,
		provider.OperatingHours,
		provider.Email,
		provider.Phone,
		provider.CreatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *providerPostgresRepository) Update(ctx context.Context, provider *models.Provider) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.UpdateProvider,
		provider.ID,
		provider.Name,
		provider.VerificationStatus,
		provider.IsActive,
		provider.SupportsDelivery,
		provider.SupportsHomeCollection,
		provider.OperatingHours,
		provider.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *providerPostgresRepository) UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.UpsertDeviceToken,
		token.Token,
		token.ProviderID,
		token.Platform,
		token.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *providerPostgresRepository) FindDeviceTokens(ctx context.Context, providerID string) ([]models.DeviceToken, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, queries.FindDeviceTokensByProviderID, providerID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var tokens []models.DeviceToken
	for rows.Next() {
		var t models.DeviceToken
		if err := rows.Scan(&t.ProviderID, &t.Token, &t.Platform, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return tokens, nil
}
