package prescriptions

import (
	"context"
	"testing"
	"time"

	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/testutil/memstore"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	pharmacyID     = "11111111-1111-4111-8111-111111111111"
	amoxicillin    = "aaaaaaaa-0000-4000-8000-000000000002"
	prescriptionID = "eeeeeeee-0000-4000-8000-000000000001"
	paidOrderID    = "bbbbbbbb-0000-4000-8000-000000000001"
	unpaidOrderID  = "bbbbbbbb-0000-4000-8000-000000000002"
	reviewerID     = "cccccccc-0000-4000-8000-000000000001"
)

type fixture struct {
	store     *memstore.Store
	publisher *memstore.Publisher
	uc        *prescriptionUsecase
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	f := &fixture{
		store:     store,
		publisher: &memstore.Publisher{},
		now:       time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
	}
	f.uc = &prescriptionUsecase{
		Transactor:             &memstore.Transactor{Store: store},
		PrescriptionRepository: &memstore.PrescriptionRepository{Store: store},
		OrderRepository:        &memstore.OrderRepository{Store: store},
		OrderItemRepository:    &memstore.OrderItemRepository{Store: store},
		OrderEventRepository:   &memstore.OrderEventRepository{Store: store},
		ProviderRepository:     &memstore.ProviderRepository{Store: store},
		Inventory:              &memstore.Inventory{Store: store},
		Storage:                &memstore.Storage{},
		Publisher:              f.publisher,
		InternalConfig: &config.InternalConfig{
			Minio: config.AppMinio{BucketName: "prescriptions", PreSignedUrlExpiryTimeInHours: 1},
			RabbitMQ: config.AppRabbitMQ{
				OrderNotificationQueue:        "order-notifications",
				PrescriptionNotificationQueue: "prescription-notifications",
				ProviderNotificationQueue:     "provider-notifications",
			},
		},
		Log: zap.NewNop(),
		Now: func() time.Time { return f.now },
	}

	stock := 2
	store.PutProvider(models.Provider{ID: pharmacyID, Name: "Alpha Pharmacy", Kind: constvars.ProviderKindPharmacy, VerificationStatus: constvars.ProviderStatusVerified, IsActive: true})
	store.PutItem(models.CatalogItem{ID: amoxicillin, Name: "Amoxicillin 250mg", Kind: constvars.ServiceKindMedication, PrescriptionRequired: true})
	store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: amoxicillin, Stock: &stock, IsAvailable: true, Price: decimal.NewFromInt(2500)})
	store.DeviceTokens["device-1"] = models.DeviceToken{ProviderID: pharmacyID, Token: "device-1", Platform: "android"}

	store.PutPrescription(models.Prescription{
		ID:             prescriptionID,
		GuestID:        "guest-1",
		Email:          "ada@example.com",
		Phone:          "08031234567",
		FileReference:  "prescriptions/guest-1/rx.pdf",
		Status:         constvars.PrescriptionStatusPending,
		CoveredItemIDs: []string{amoxicillin},
		TimeModel:      models.TimeModel{CreatedAt: f.now, UpdatedAt: f.now},
	})
	f.gatedOrder(paidOrderID, constvars.PaymentStatusPaid, 1)
	f.gatedOrder(unpaidOrderID, constvars.PaymentStatusPending, 2)
	return f
}

// gatedOrder stores an order waiting on the prescription with quantity units already reserved.
func (f *fixture) gatedOrder(id, paymentStatus string, quantity int) {
	rx := prescriptionID
	f.store.PutOrder(models.Order{
		ID:             id,
		GuestID:        "guest-1",
		Status:         constvars.OrderStatusPendingPrescription,
		PaymentStatus:  paymentStatus,
		TotalPrice:     decimal.NewFromInt(int64(2500 * quantity)),
		PrescriptionID: &rx,
		StockReserved:  true,
		TimeModel:      models.TimeModel{CreatedAt: f.now, UpdatedAt: f.now},
	})
	f.store.PutOrderItem(models.OrderItem{
		ID:         id + "-item",
		OrderID:    id,
		ProviderID: pharmacyID,
		ItemID:     amoxicillin,
		Quantity:   quantity,
		Price:      decimal.NewFromInt(2500),
		TimeModel:  models.TimeModel{CreatedAt: f.now, UpdatedAt: f.now},
	})
}

func assertCustomError(t *testing.T, expected *exceptions.CustomError, err error) {
	t.Helper()
	require.Error(t, err)
	customErr, ok := err.(*exceptions.CustomError)
	require.True(t, ok, "expected CustomError, got %T: %v", err, err)
	assert.Equal(t, expected.StatusCode, customErr.StatusCode)
	assert.Equal(t, expected.ClientMessage, customErr.ClientMessage)
}

func TestReviewPrescription_VerifyReleasesGatedOrders(t *testing.T) {
	f := newFixture(t)

	response, err := f.uc.ReviewPrescription(context.Background(), &requests.ReviewPrescription{
		PrescriptionID: prescriptionID,
		ReviewerID:     reviewerID,
		Status:         constvars.PrescriptionStatusVerified,
	})
	require.NoError(t, err)
	assert.Equal(t, constvars.PrescriptionStatusVerified, response.Status)
	require.NotNil(t, response.ReviewedBy)
	assert.Equal(t, reviewerID, *response.ReviewedBy)

	assert.Equal(t, constvars.OrderStatusConfirmed, f.store.Orders[paidOrderID].Status)
	assert.Equal(t, constvars.OrderStatusPending, f.store.Orders[unpaidOrderID].Status)
	assert.Equal(t, 2, f.store.Stock(pharmacyID, amoxicillin))
	assert.Len(t, f.store.Events, 3)

	rx := f.publisher.On("prescription-notifications")
	require.Len(t, rx, 1)
	notification := rx[0].Payload.(*requests.PrescriptionNotification)
	assert.Equal(t, constvars.NotificationEventPrescriptionVerified, notification.Event)
	assert.ElementsMatch(t, []string{paidOrderID, unpaidOrderID}, notification.OrderIDs)

	providers := f.publisher.On("provider-notifications")
	require.Len(t, providers, 1)
	providerNotification := providers[0].Payload.(*requests.ProviderNotification)
	assert.Equal(t, paidOrderID, providerNotification.OrderID)
	assert.Equal(t, []string{"device-1"}, providerNotification.DeviceTokens)
}

func TestReviewPrescription_RejectCancelsGatedOrders(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ReviewPrescription(context.Background(), &requests.ReviewPrescription{
		PrescriptionID: prescriptionID,
		ReviewerID:     reviewerID,
		Status:         constvars.PrescriptionStatusRejected,
		Reason:         "illegible",
	})
	require.NoError(t, err)

	for _, id := range []string{paidOrderID, unpaidOrderID} {
		order := f.store.Orders[id]
		assert.Equal(t, constvars.OrderStatusCancelled, order.Status)
		require.NotNil(t, order.CancellationReason)
		assert.Contains(t, *order.CancellationReason, "illegible")
		assert.False(t, order.StockReserved)
	}
	assert.Equal(t, 5, f.store.Stock(pharmacyID, amoxicillin))

	stored := f.store.Prescriptions[prescriptionID]
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "illegible", *stored.RejectionReason)
	assert.Empty(t, f.publisher.On("provider-notifications"))
}

func TestReviewPrescription_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.ReviewPrescription(ctx, &requests.ReviewPrescription{PrescriptionID: prescriptionID, Status: constvars.PrescriptionStatusRejected, Reason: " "})
	assertCustomError(t, exceptions.ErrInputValidation(nil), err)

	_, err = f.uc.ReviewPrescription(ctx, &requests.ReviewPrescription{PrescriptionID: "missing", Status: constvars.PrescriptionStatusVerified})
	assertCustomError(t, exceptions.ErrPrescriptionNotFound(nil), err)

	_, err = f.uc.ReviewPrescription(ctx, &requests.ReviewPrescription{PrescriptionID: prescriptionID, ReviewerID: reviewerID, Status: constvars.PrescriptionStatusVerified})
	require.NoError(t, err)
	_, err = f.uc.ReviewPrescription(ctx, &requests.ReviewPrescription{PrescriptionID: prescriptionID, ReviewerID: reviewerID, Status: constvars.PrescriptionStatusRejected, Reason: "changed my mind"})
	assertCustomError(t, exceptions.ErrAlreadyReviewed(nil), err)
	assert.Equal(t, constvars.PrescriptionStatusVerified, f.store.Prescriptions[prescriptionID].Status)
}

func TestListPrescriptions(t *testing.T) {
	f := newFixture(t)
	f.store.PutPrescription(models.Prescription{
		ID:        "eeeeeeee-0000-4000-8000-000000000002",
		Status:    constvars.PrescriptionStatusVerified,
		TimeModel: models.TimeModel{CreatedAt: f.now.Add(time.Minute)},
	})

	pending, total, err := f.uc.ListPrescriptions(context.Background(), &requests.ListPrescriptions{Status: constvars.PrescriptionStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, []string{amoxicillin}, pending[0].CoveredItemIDs)

	all, total, err := f.uc.ListPrescriptions(context.Background(), &requests.ListPrescriptions{Pagination: requests.Pagination{Page: 1, PageSize: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 1)
}

func TestGetFileURL(t *testing.T) {
	f := newFixture(t)

	url, err := f.uc.GetFileURL(context.Background(), prescriptionID)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/prescriptions/prescriptions/guest-1/rx.pdf?expires=3600", url.URL)
	assert.Equal(t, f.now.Add(time.Hour), url.ExpiresAt)

	_, err = f.uc.GetFileURL(context.Background(), "missing")
	assertCustomError(t, exceptions.ErrPrescriptionNotFound(nil), err)
}
