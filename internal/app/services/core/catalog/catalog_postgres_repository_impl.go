package catalog

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

type catalogPostgresRepository struct {
	DB *sql.DB
}

func NewCatalogPostgresRepository(db *sql.DB) contracts.CatalogRepository {
	return &catalogPostgresRepository{
		DB: db,
	}
}

func scanCatalogItem(row rowScanner) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Kind,
		&item.Category,
		&item.PrescriptionRequired,
		&item.Strength,
		&item.DosageForm,
		&item.Description,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (repo *catalogPostgresRepository) FindByID(ctx context.Context, itemID string) (*models.CatalogItem, error) {
	item, err := scanCatalogItem(transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.FindCatalogItemByID, itemID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return item, nil
}

func (repo *catalogPostgresRepository) FindByIDs(ctx context.Context, itemIDs []string) ([]models.CatalogItem, error) {
	return repo.findMany(ctx, queries.FindCatalogItemsByIDs, pq.Array(itemIDs))
}

func (repo *catalogPostgresRepository) Search(ctx context.Context, kind, query string) ([]models.CatalogItem, error) {
	return repo.findMany(ctx, queries.SearchCatalogItems, kind, query)
}

func (repo *catalogPostgresRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]models.CatalogItem, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	items := make([]models.CatalogItem, 0)
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return items, nil
}

func (repo *catalogPostgresRepository) Create(ctx context.Context, item *models.CatalogItem) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.InsertCatalogItem,
		item.ID,
		item.Name,
		item.Kind,
		item.Category,
		item.PrescriptionRequired,
		item.Strength,
		item.DosageForm,
		item.Description,
		item.CreatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}
