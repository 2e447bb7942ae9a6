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
	"github.com/shopspring/decimal"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type orderPostgresRepository struct {
	DB *sql.DB
}

func NewOrderPostgresRepository(db *sql.DB) contracts.OrderRepository {
	return &orderPostgresRepository{
		DB: db,
	}
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.GuestID,
		&order.Status,
		&order.PaymentStatus,
		&order.TotalPrice,
		&order.PrescriptionID,
		&order.TrackingCode,
		&order.CheckoutSessionID,
		&order.PaymentReference,
		&order.ContactEmail,
		&order.ContactPhone,
		&order.DeliveryAddress,
		&order.CancellationReason,
		&order.StockReserved,
		&order.PaidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (repo *orderPostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Order, error) {
	order, err := scanOrder(transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return order, nil
}

func (repo *orderPostgresRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := transactor.Conn(ctx, repo.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}

	return orders, nil
}

func (repo *orderPostgresRepository) FindCartByGuestID(ctx context.Context, guestID string, forUpdate bool) (*models.Order, error) {
	query := queries.FindCartOrderByGuestID
	if forUpdate {
		query = queries.FindCartOrderByGuestIDForUpdate
	}
	return repo.findOne(ctx, query, guestID)
}

func (repo *orderPostgresRepository) FindReopenableByGuestID(ctx context.Context, guestID string) (*models.Order, error) {
	return repo.findOne(ctx, queries.FindReopenableOrderByGuestID, guestID)
}

func (repo *orderPostgresRepository) CreateCart(ctx context.Context, order *models.Order) (bool, error) {
	result, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.InsertCartOrder,
		order.ID,
		order.GuestID,
		order.CreatedAt,
	)
	if err != nil {
		return false, exceptions.ErrPostgresDBInsertData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBInsertData(err)
	}
	return affected == 1, nil
}

func (repo *orderPostgresRepository) Create(ctx context.Context, order *models.Order) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.InsertOrder,
		order.ID,
		order.GuestID,
		order.Status,
		order.PaymentStatus,
		order.TotalPrice,
		order.PrescriptionID,
		order.TrackingCode,
		order.CheckoutSessionID,
		order.PaymentReference,
		order.ContactEmail,
		order.ContactPhone,
		order.DeliveryAddress,
		order.CancellationReason,
		order.StockReserved,
		order.PaidAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *orderPostgresRepository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	return repo.findOne(ctx, queries.FindOrderByID, orderID)
}

func (repo *orderPostgresRepository) FindByIDsForUpdate(ctx context.Context, orderIDs []string) ([]models.Order, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	return repo.findMany(ctx, queries.FindOrdersByIDsForUpdate, pq.Array(orderIDs))
}

func (repo *orderPostgresRepository) FindByIDAndGuestID(ctx context.Context, orderID, guestID string) (*models.Order, error) {
	return repo.findOne(ctx, queries.FindOrderByIDAndGuestID, orderID, guestID)
}

func (repo *orderPostgresRepository) FindBySessionID(ctx context.Context, sessionID, guestID string, statuses []string) ([]models.Order, error) {
	return repo.findMany(ctx, queries.FindOrdersBySessionID, sessionID, guestID, pq.Array(statuses))
}

func (repo *orderPostgresRepository) FindByGuestIDAndPaymentReferences(ctx context.Context, guestID string, references []string) ([]models.Order, error) {
	if len(references) == 0 {
		return nil, nil
	}
	return repo.findMany(ctx, queries.FindOrdersByGuestIDAndPaymentReferences, guestID, pq.Array(references))
}

func (repo *orderPostgresRepository) FindByTrackingCode(ctx context.Context, trackingCode string, statuses []string) ([]models.Order, error) {
	return repo.findMany(ctx, queries.FindOrdersByTrackingCode, trackingCode, pq.Array(statuses))
}

func (repo *orderPostgresRepository) FindLatestByContact(ctx context.Context, email string, phones []string) (*models.Order, error) {
	if email == "" && len(phones) == 0 {
		return nil, nil
	}
	return repo.findOne(ctx, queries.FindLatestOrderByContact, email, pq.Array(phones))
}

func (repo *orderPostgresRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	return repo.findMany(ctx, queries.FindExpiredPendingOrders, cutoff, limit)
}

func (repo *orderPostgresRepository) FindByProviderID(ctx context.Context, providerID, status string, limit, offset int) ([]models.Order, int, error) {
	orders, err := repo.findMany(ctx, queries.FindOrdersByProviderID, providerID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.CountOrdersByProviderID, providerID, status).Scan(&total)
	if err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}
	return orders, total, nil
}

func (repo *orderPostgresRepository) FindPendingByPrescriptionID(ctx context.Context, prescriptionID string) ([]models.Order, error) {
	return repo.findMany(ctx, queries.FindPendingOrdersByPrescriptionID, prescriptionID)
}

func (repo *orderPostgresRepository) Update(ctx context.Context, order *models.Order) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.UpdateOrder,
		order.ID,
		order.Status,
		order.PaymentStatus,
		order.TotalPrice,
		order.PrescriptionID,
		order.TrackingCode,
		order.CheckoutSessionID,
		order.PaymentReference,
		order.ContactEmail,
		order.ContactPhone,
		order.DeliveryAddress,
		order.CancellationReason,
		order.StockReserved,
		order.PaidAt,
		order.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *orderPostgresRepository) RecalculateTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, queries.RecalculateOrderTotal, orderID).Scan(&total)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	} else if err != nil {
		return decimal.Zero, exceptions.ErrPostgresDBUpdateData(err)
	}
	return total, nil
}

func (repo *orderPostgresRepository) Delete(ctx context.Context, orderID string) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.DeleteOrder, orderID)
	if err != nil {
		return exceptions.ErrPostgresDBDeleteData(err)
	}
	return nil
}
