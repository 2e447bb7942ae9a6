package contracts

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
)

type PrescriptionUsecase interface {
	ListPrescriptions(ctx context.Context, request *requests.ListPrescriptions) ([]responses.Prescription, int, error)
	ReviewPrescription(ctx context.Context, request *requests.ReviewPrescription) (*responses.Prescription, error)
	GetFileURL(ctx context.Context, prescriptionID string) (*responses.PrescriptionFileURL, error)
}

type PrescriptionRepository interface {
	FindLatestVerifiedByGuestID(ctx context.Context, guestID string) (*models.Prescription, error)
	FindByID(ctx context.Context, prescriptionID string) (*models.Prescription, error)
	FindLatestByContact(ctx context.Context, email string, phones []string) (*models.Prescription, error)
	FindByStatus(ctx context.Context, status string, limit, offset int) ([]models.Prescription, int, error)
	// Create stores the record and its covered item links.
	Create(ctx context.Context, prescription *models.Prescription) error
	UpdateReview(ctx context.Context, prescription *models.Prescription) (bool, error)
}
