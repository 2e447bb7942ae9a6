package orders

import (
	"context"
	"database/sql"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/shared/transactor"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/queries"
	"time"

	"github.com/lib/pq"
)

type orderItemPostgresRepository struct {
	DB *sql.DB
}

func NewOrderItemPostgresRepository(db *sql.DB) contracts.OrderItemRepository {
	return &orderItemPostgresRepository{
		DB: db,
	}
}

func orderItemFields(item *models.OrderItem) []interface{} {
	return []interface{}{
		&item.ID,
		&item.OrderID,
		&item.ProviderID,
		&item.ItemID,
		&item.Quantity,
		&item.Price,
		&item.TimeSlotStart,
		&item.TimeSlotEnd,
		&item.FulfillmentType,
		&item.CreatedAt,
		&item.UpdatedAt,
	}
}

func (repo *orderItemPostgresRepository) Upsert(ctx context.Context, item *models.OrderItem) error {
	err := transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.UpsertOrderItem,
		item.ID,
		item.OrderID,
		item.ProviderID,
		item.ItemID,
		item.Quantity,
		item.Price,
		item.TimeSlotStart,
		item.TimeSlotEnd,
		item.FulfillmentType,
		item.CreatedAt,
	).Scan(orderItemFields(item)...)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *orderItemPostgresRepository) Insert(ctx context.Context, item *models.OrderItem) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.InsertOrderItem,
		item.ID,
		item.OrderID,
		item.ProviderID,
		item.ItemID,
		item.Quantity,
		item.Price,
		item.TimeSlotStart,
		item.TimeSlotEnd,
		item.FulfillmentType,
		item.CreatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *orderItemPostgresRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, queries.FindOrderItemsByOrderID, orderID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(orderItemFields(&item)...); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return items, nil
}

func (repo *orderItemPostgresRepository) FindByOrderAndOffering(ctx context.Context, orderID, providerID, itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.FindOrderItemByOrderAndOffering, orderID, providerID, itemID).
		Scan(orderItemFields(&item)...)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &item, nil
}

func (repo *orderItemPostgresRepository) FindDetailsByOrderIDs(ctx context.Context, orderIDs []string) ([]models.OrderItemDetail, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, queries.FindOrderItemDetailsByOrderIDs, pq.Array(orderIDs))
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var details []models.OrderItemDetail
	for rows.Next() {
		var detail models.OrderItemDetail
		fields := append(orderItemFields(&detail.OrderItem),
			&detail.ItemName,
			&detail.ItemKind,
			&detail.PrescriptionRequired,
			&detail.ProviderName,
		)
		if err := rows.Scan(fields...); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return details, nil
}

func (repo *orderItemPostgresRepository) FindCartItem(ctx context.Context, guestID, orderItemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.FindCartOrderItem, guestID, orderItemID).
		Scan(orderItemFields(&item)...)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &item, nil
}

func (repo *orderItemPostgresRepository) Update(ctx context.Context, item *models.OrderItem) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.UpdateOrderItem,
		item.ID,
		item.Quantity,
		item.Price,
		item.TimeSlotStart,
		item.TimeSlotEnd,
		item.FulfillmentType,
		item.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *orderItemPostgresRepository) DeleteCartItem(ctx context.Context, guestID, orderItemID string) (int64, error) {
	result, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.DeleteCartOrderItem, guestID, orderItemID)
	if err != nil {
		return 0, exceptions.ErrPostgresDBDeleteData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, exceptions.ErrPostgresDBDeleteData(err)
	}
	return affected, nil
}

func (repo *orderItemPostgresRepository) MoveToOrder(ctx context.Context, orderItemIDs []string, orderID string) error {
	if len(orderItemIDs) == 0 {
		return nil
	}
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.MoveOrderItems, pq.Array(orderItemIDs), orderID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *orderItemPostgresRepository) FindBookedSlots(ctx context.Context, providerID string, from, to time.Time) ([]models.BookedSlot, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, queries.FindBookedSlotsByProviderID, providerID, from, to)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var slots []models.BookedSlot
	for rows.Next() {
		var slot models.BookedSlot
		if err := rows.Scan(&slot.Start, &slot.End); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return slots, nil
}

func (repo *orderItemPostgresRepository) ExistsForProvider(ctx context.Context, orderID, providerID string) (bool, error) {
	var exists bool
	err := transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.ExistsOrderItemForProvider, orderID, providerID).Scan(&exists)
	if err != nil {
		return false, exceptions.ErrPostgresDBFindData(err)
	}
	return exists, nil
}
