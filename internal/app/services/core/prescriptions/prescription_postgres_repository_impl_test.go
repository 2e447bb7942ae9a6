package prescriptions

import (
	"context"
	"testing"
	"time"

	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/queries"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var prescriptionColumns = []string{
	"id", "guest_id", "email", "phone", "file_reference", "status", "rejection_reason",
	"reviewed_by", "reviewed_at", "created_at", "updated_at", "covered_item_ids",
}

func TestPrescriptionRepository_CreateLinksCoveredItems(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPrescriptionPostgresRepository(db)

	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	prescription := &models.Prescription{
		ID:             prescriptionID,
		GuestID:        "guest-1",
		Email:          "ada@example.com",
		Phone:          "08031234567",
		FileReference:  "prescriptions/guest-1/rx.pdf",
		Status:         constvars.PrescriptionStatusPending,
		CoveredItemIDs: []string{amoxicillin},
		TimeModel:      models.TimeModel{CreatedAt: now, UpdatedAt: now},
	}

	mock.ExpectExec(queries.InsertPrescription).
		WithArgs(prescriptionID, "guest-1", "ada@example.com", "08031234567", "prescriptions/guest-1/rx.pdf", constvars.PrescriptionStatusPending, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(queries.InsertPrescriptionItems).
		WithArgs(prescriptionID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), prescription))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrescriptionRepository_FindByIDScansCoveredItems(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPrescriptionPostgresRepository(db)

	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(queries.FindPrescriptionByID).
		WithArgs(prescriptionID).
		WillReturnRows(sqlmock.NewRows(prescriptionColumns).AddRow(
			prescriptionID, "guest-1", "ada@example.com", "08031234567", "rx.pdf", "rejected", "illegible",
			reviewerID, now, now, now, "{"+amoxicillin+"}",
		))

	prescription, err := repo.FindByID(context.Background(), prescriptionID)
	require.NoError(t, err)
	require.NotNil(t, prescription)
	assert.Equal(t, []string{amoxicillin}, prescription.CoveredItemIDs)
	require.NotNil(t, prescription.RejectionReason)
	assert.Equal(t, "illegible", *prescription.RejectionReason)
	require.NotNil(t, prescription.ReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrescriptionRepository_UpdateReviewSkipsReviewed(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPrescriptionPostgresRepository(db)

	mock.ExpectExec(queries.UpdatePrescriptionReview).
		WillReturnResult(sqlmock.NewResult(0, 0))

	now := time.Now()
	updated, err := repo.UpdateReview(context.Background(), &models.Prescription{
		ID:         prescriptionID,
		Status:     constvars.PrescriptionStatusVerified,
		ReviewedBy: &reviewerIDValue,
		ReviewedAt: &now,
	})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var reviewerIDValue = reviewerID
