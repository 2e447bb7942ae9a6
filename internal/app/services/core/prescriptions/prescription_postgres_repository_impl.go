package prescriptions

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

type prescriptionPostgresRepository struct {
	DB *sql.DB
}

func NewPrescriptionPostgresRepository(db *sql.DB) contracts.PrescriptionRepository {
	return &prescriptionPostgresRepository{
		DB: db,
	}
}

func scanPrescription(row rowScanner) (*models.Prescription, error) {
	var (
		p          models.Prescription
		reason     sql.NullString
		reviewedBy sql.NullString
		reviewedAt sql.NullTime
		covered    pq.StringArray
	)
	err := row.Scan(
		&p.ID,
		&p.GuestID,
		&p.Email,
		&p.Phone,
		&p.FileReference,
		&p.Status,
		&reason,
		&reviewedBy,
		&reviewedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&covered,
	)
	if err != nil {
		return nil, err
	}

	if reason.Valid {
		p.RejectionReason = &reason.String
	}
	if reviewedBy.Valid {
		p.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		p.ReviewedAt = &reviewedAt.Time
	}
	p.CoveredItemIDs = []string(covered)
	if p.CoveredItemIDs == nil {
		p.CoveredItemIDs = []string{}
	}
	return &p, nil
}

func (repo *prescriptionPostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Prescription, error) {
	prescription, err := scanPrescription(transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return prescription, nil
}

func (repo *prescriptionPostgresRepository) FindLatestVerifiedByGuestID(ctx context.Context, guestID string) (*models.Prescription, error) {
	return repo.findOne(ctx, queries.FindLatestVerifiedPrescriptionByGuestID, guestID)
}

func (repo *prescriptionPostgresRepository) FindByID(ctx context.Context, prescriptionID string) (*models.Prescription, error) {
	return repo.findOne(ctx, queries.FindPrescriptionByID, prescriptionID)
}

func (repo *prescriptionPostgresRepository) FindLatestByContact(ctx context.Context, email string, phones []string) (*models.Prescription, error) {
	return repo.findOne(ctx, queries.FindLatestPrescriptionByContact, email, pq.Array(phones))
}

func (repo *prescriptionPostgresRepository) FindByStatus(ctx context.Context, status string, limit, offset int) ([]models.Prescription, int, error) {
	conn := transactor.Conn(ctx, repo.DB)

	var total int
	if err := conn.QueryRowContext(ctx, queries.CountPrescriptionsByStatus, status).Scan(&total); err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}

	rows, err := conn.QueryContext(ctx, queries.FindPrescriptionsByStatus, status, limit, offset)
	if err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var prescriptions []models.Prescription
	for rows.Next() {
		prescription, err := scanPrescription(rows)
		if err != nil {
			return nil, 0, exceptions.ErrPostgresDBFindData(err)
		}
		prescriptions = append(prescriptions, *prescription)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return prescriptions, total, nil
}

func (repo *prescriptionPostgresRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	conn := transactor.Conn(ctx, repo.DB)
	_, err := conn.ExecContext(ctx, queries.InsertPrescription,
		prescription.ID,
		prescription.GuestID,
		prescription.Email,
		prescription.Phone,
		prescription.FileReference,
		prescription.Status,
		prescription.CreatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}

	if len(prescription.CoveredItemIDs) == 0 {
		return nil
	}
	if _, err := conn.ExecContext(ctx, queries.InsertPrescriptionItems, prescription.ID, pq.Array(prescription.CoveredItemIDs)); err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

// UpdateReview returns false when the record was already reviewed.
func (repo *prescriptionPostgresRepository) UpdateReview(ctx context.Context, prescription *models.Prescription) (bool, error) {
	result, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.UpdatePrescriptionReview,
		prescription.ID,
		prescription.Status,
		prescription.RejectionReason,
		prescription.ReviewedBy,
		prescription.ReviewedAt,
	)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected == 1, nil
}
