package catalog

import (
	"context"
	"database/sql"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/shared/transactor"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/queries"
)

type offeringPostgresRepository struct {
	DB *sql.DB
}

func NewOfferingPostgresRepository(db *sql.DB) contracts.OfferingRepository {
	return &offeringPostgresRepository{
		DB: db,
	}
}

func offeringDest(o *models.ProviderOffering) []interface{} {
	return []interface{}{
		&o.ProviderID,
		&o.ItemID,
		&o.Stock,
		&o.IsAvailable,
		&o.Price,
		&o.ReceivedAt,
		&o.ExpiresAt,
		&o.UpdatedAt,
	}
}

func (repo *offeringPostgresRepository) FindByKey(ctx context.Context, providerID, itemID string) (*models.ProviderOffering, error) {
	var offering models.ProviderOffering
	err := transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.FindOfferingByKey, providerID, itemID).Scan(offeringDest(&offering)...)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &offering, nil
}

func (repo *offeringPostgresRepository) FindByProviderID(ctx context.Context, providerID string) ([]models.OfferingDetail, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, queries.FindOfferingsByProviderID, providerID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	details := make([]models.OfferingDetail, 0)
	for rows.Next() {
		var d models.OfferingDetail
		dest := append(offeringDest(&d.ProviderOffering), &d.ProviderName, &d.ItemName)
		if err := rows.Scan(dest...); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return details, nil
}

func (repo *offeringPostgresRepository) FindNearby(ctx context.Context, itemID string, latitude, longitude *float64, radiusKm float64) ([]models.OfferingDetail, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, queries.FindNearbyOfferings, itemID, latitude, longitude, radiusKm)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	details := make([]models.OfferingDetail, 0)
	for rows.Next() {
		var d models.OfferingDetail
		dest := append(offeringDest(&d.ProviderOffering), &d.ProviderName, &d.ItemName, &d.DistanceKm)
		if err := rows.Scan(dest...); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return details, nil
}

func (repo *offeringPostgresRepository) Upsert(ctx context.Context, offering *models.ProviderOffering) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.UpsertOffering,
		offering.ProviderID,
		offering.ItemID,
		offering.Stock,
		offering.IsAvailable,
		offering.Price,
		offering.ReceivedAt,
		offering.ExpiresAt,
		offering.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *offeringPostgresRepository) Delete(ctx context.Context, providerID, itemID string) (int64, error) {
	result, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.DeleteOffering, providerID, itemID)
	if err != nil {
		return 0, exceptions.ErrPostgresDBDeleteData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, exceptions.ErrPostgresDBDeleteData(err)
	}
	return affected, nil
}

func (repo *offeringPostgresRepository) DecrementStock(ctx context.Context, providerID, itemID string, quantity int) (bool, error) {
	result, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.DecrementOfferingStock, providerID, itemID, quantity)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected == 1, nil
}

func (repo *offeringPostgresRepository) IncrementStock(ctx context.Context, providerID, itemID string, quantity int) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.IncrementOfferingStock, providerID, itemID, quantity)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
