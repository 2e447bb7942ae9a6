package providers

import (
	"context"
	"testing"
	"time"

	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/shared/location"
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
	pharmacyID  = "11111111-1111-4111-8111-111111111111"
	otherID     = "22222222-2222-4222-8222-222222222222"
	paracetamol = "aaaaaaaa-0000-4000-8000-000000000001"
	orderID     = "bbbbbbbb-0000-4000-8000-000000000001"
	staffID     = "cccccccc-0000-4000-8000-000000000001"
)

type fixture struct {
	store     *memstore.Store
	publisher *memstore.Publisher
	uc        *providerUsecase
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	locations, err := location.NewLocationService()
	require.NoError(t, err)

	f := &fixture{
		store:     store,
		publisher: &memstore.Publisher{},
		now:       time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
	}
	offeringRepo := &memstore.OfferingRepository{Store: store}
	itemRepo := &memstore.OrderItemRepository{Store: store}
	f.uc = &providerUsecase{
		Transactor:           &memstore.Transactor{Store: store},
		ProviderRepository:   &memstore.ProviderRepository{Store: store},
		OfferingRepository:   offeringRepo,
		CatalogRepository:    &memstore.CatalogRepository{Store: store},
		OrderRepository:      &memstore.OrderRepository{Store: store},
		OrderItemRepository:  itemRepo,
		OrderEventRepository: &memstore.OrderEventRepository{Store: store},
		Inventory:            &memstore.Inventory{Store: store},
		LocationService:      locations,
		Publisher:            f.publisher,
		InternalConfig: &config.InternalConfig{
			RabbitMQ: config.AppRabbitMQ{OrderNotificationQueue: "order-notifications"},
		},
		Log: zap.NewNop(),
		Now: func() time.Time { return f.now },
	}

	stock := 6
	store.PutProvider(models.Provider{ID: pharmacyID, Name: "Alpha Pharmacy", Kind: constvars.ProviderKindPharmacy, VerificationStatus: constvars.ProviderStatusVerified, IsActive: true})
	store.PutProvider(models.Provider{ID: otherID, Name: "Other Pharmacy", Kind: constvars.ProviderKindPharmacy, VerificationStatus: constvars.ProviderStatusVerified, IsActive: true})
	store.PutItem(models.CatalogItem{ID: paracetamol, Name: "Paracetamol 500mg", Kind: constvars.ServiceKindMedication})
	store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: paracetamol, Stock: &stock, IsAvailable: true, Price: decimal.NewFromInt(500)})
	return f
}

// placeOrder stores a sub-order of pharmacyID holding four reserved units.
func (f *fixture) placeOrder(status string) {
	f.store.PutOrder(models.Order{
		ID:            orderID,
		GuestID:       "guest-1",
		Status:        status,
		PaymentStatus: constvars.PaymentStatusPaid,
		TotalPrice:    decimal.NewFromInt(2000),
		StockReserved: true,
		ContactEmail:  "ada@example.com",
		TimeModel:     models.TimeModel{CreatedAt: f.now, UpdatedAt: f.now},
	})
	f.store.PutOrderItem(models.OrderItem{
		ID:         "dddddddd-0000-4000-8000-000000000001",
		OrderID:    orderID,
		ProviderID: pharmacyID,
		ItemID:     paracetamol,
		Quantity:   4,
		Price:      decimal.NewFromInt(500),
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

func validRegistration() *requests.RegisterProvider {
	return &requests.RegisterProvider{
		Name:             "Gamma Pharmacy",
		Kind:             constvars.ProviderKindPharmacy,
		Latitude:         6.6149,
		Longitude:        3.3581,
		Address:          "12 Awolowo Way",
		State:            "lagos",
		LGA:              "ikeja",
		Ward:             "alausa",
		SupportsDelivery: true,
		// labs only
		SupportsHomeCollection: true,
		OperatingHours:         "Mon-Fri 08:00-18:00, Sat 09:00-14:00",
		Email:                  "gamma@example.com",
		Phone:                  "0803-123 4567",
	}
}

func TestRegisterProvider(t *testing.T) {
	f := newFixture(t)

	response, err := f.uc.RegisterProvider(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, response.ID)
	assert.Equal(t, "Lagos", response.State)
	assert.Equal(t, "Ikeja", response.LGA)
	assert.Equal(t, constvars.ProviderStatusPending, response.VerificationStatus)
	assert.True(t, response.IsActive)
	assert.True(t, response.SupportsDelivery)
	assert.False(t, response.SupportsHomeCollection)
	assert.Equal(t, "08031234567", response.Phone)

	stored := f.store.Providers[response.ID]
	assert.False(t, stored.IsOpenForOrders())
}

func TestRegisterProvider_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *requests.RegisterProvider)
		expected *exceptions.CustomError
	}{
		{
			name:     "unknown lga",
			mutate:   func(r *requests.RegisterProvider) { r.LGA = "Atlantis" },
			expected: exceptions.ErrInvalidLocation(nil),
		},
		{
			name:     "point far from ward",
			mutate:   func(r *requests.RegisterProvider) { r.Latitude = 9.05; r.Longitude = 7.49 },
			expected: exceptions.ErrInvalidLocation(nil),
		},
		{
			name:     "unparseable hours",
			mutate:   func(r *requests.RegisterProvider) { r.OperatingHours = "whenever" },
			expected: exceptions.ErrInvalidOperatingHours(nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			request := validRegistration()
			tt.mutate(request)

			_, err := f.uc.RegisterProvider(context.Background(), request)
			assertCustomError(t, tt.expected, err)
			assert.Len(t, f.store.Providers, 2)
		})
	}
}

func TestReviewAndDeactivateProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rejected, err := f.uc.ReviewProvider(ctx, &requests.ReviewProvider{ProviderID: pharmacyID, Status: constvars.ProviderStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, constvars.ProviderStatusRejected, rejected.VerificationStatus)

	verified, err := f.uc.ReviewProvider(ctx, &requests.ReviewProvider{ProviderID: pharmacyID, Status: constvars.ProviderStatusVerified})
	require.NoError(t, err)
	assert.Equal(t, constvars.ProviderStatusVerified, verified.VerificationStatus)

	inactive, err := f.uc.SetProviderActive(ctx, pharmacyID, false)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)
	inactiveProvider := f.store.Providers[pharmacyID]
	assert.False(t, inactiveProvider.IsOpenForOrders())

	_, err = f.uc.ReviewProvider(ctx, &requests.ReviewProvider{ProviderID: "missing", Status: constvars.ProviderStatusVerified})
	assertCustomError(t, exceptions.ErrProviderNotFound(nil), err)
	_, err = f.uc.SetProviderActive(ctx, "missing", true)
	assertCustomError(t, exceptions.ErrProviderNotFound(nil), err)
}

func TestOfferingLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stock := 3

	_, err := f.uc.UpdateOffering(ctx, &requests.UpsertOffering{ProviderID: otherID, ItemID: paracetamol, Stock: &stock, IsAvailable: true, Price: decimal.NewFromInt(450)})
	assertCustomError(t, exceptions.ErrOfferingNotFound(nil), err)

	created, err := f.uc.UpsertOffering(ctx, &requests.UpsertOffering{ProviderID: otherID, ItemID: paracetamol, Stock: &stock, IsAvailable: true, Price: decimal.RequireFromString("450.499")})
	require.NoError(t, err)
	assert.Equal(t, "Other Pharmacy", created.ProviderName)
	assert.Equal(t, "Paracetamol 500mg", created.ItemName)
	assert.True(t, decimal.RequireFromString("450.5").Equal(created.Price))

	stock = 9
	_, err = f.uc.UpdateOffering(ctx, &requests.UpsertOffering{ProviderID: otherID, ItemID: paracetamol, Stock: &stock, IsAvailable: true, Price: decimal.NewFromInt(450)})
	require.NoError(t, err)
	assert.Equal(t, 9, f.store.Stock(otherID, paracetamol))

	listed, err := f.uc.ListOfferings(ctx, otherID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, f.uc.DeleteOffering(ctx, otherID, paracetamol))
	err = f.uc.DeleteOffering(ctx, otherID, paracetamol)
	assertCustomError(t, exceptions.ErrOfferingNotFound(nil), err)
}

func TestUpsertOffering_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.UpsertOffering(ctx, &requests.UpsertOffering{ProviderID: pharmacyID, ItemID: "aaaaaaaa-0000-4000-8000-000000000099", Price: decimal.NewFromInt(1)})
	assertCustomError(t, exceptions.ErrCatalogItemNotFound(nil), err)

	_, err = f.uc.UpsertOffering(ctx, &requests.UpsertOffering{ProviderID: "missing", ItemID: paracetamol, Price: decimal.NewFromInt(1)})
	assertCustomError(t, exceptions.ErrProviderNotFound(nil), err)

	received := f.now
	expires := f.now.Add(-time.Hour)
	_, err = f.uc.UpsertOffering(ctx, &requests.UpsertOffering{ProviderID: pharmacyID, ItemID: paracetamol, Price: decimal.NewFromInt(1), ReceivedAt: &received, ExpiresAt: &expires})
	assertCustomError(t, exceptions.ErrInputValidation(nil), err)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	f.placeOrder(constvars.OrderStatusConfirmed)

	found, total, err := f.uc.ListOrders(context.Background(), &requests.ListProviderOrders{ProviderID: pharmacyID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, orderID, found[0].OrderID)

	found, total, err = f.uc.ListOrders(context.Background(), &requests.ListProviderOrders{ProviderID: otherID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, found)
}

func TestUpdateOrderStatus_StaffFlow(t *testing.T) {
	f := newFixture(t)
	f.placeOrder(constvars.OrderStatusConfirmed)
	ctx := context.Background()

	processing, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{
		OrderID:    orderID,
		ActorID:    staffID,
		ActorRole:  constvars.RoleProviderStaff,
		ProviderID: pharmacyID,
		Status:     constvars.OrderStatusProcessing,
	})
	require.NoError(t, err)
	assert.Equal(t, constvars.OrderStatusProcessing, processing.Status)

	require.Len(t, f.store.Events, 1)
	event := f.store.Events[0]
	assert.Equal(t, constvars.OrderStatusConfirmed, event.FromStatus)
	assert.Equal(t, constvars.OrderStatusProcessing, event.ToStatus)
	assert.Equal(t, constvars.EventActorProvider, event.Actor)
	assert.Equal(t, staffID, event.ActorID)

	messages := f.publisher.On("order-notifications")
	require.Len(t, messages, 1)
	notification := messages[0].Payload.(*requests.OrderNotification)
	assert.Equal(t, constvars.NotificationEventOrderStatusChanged, notification.Event)
	assert.Equal(t, []string{orderID}, notification.OrderIDs)

	_, err = f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{
		OrderID:    orderID,
		ActorID:    staffID,
		ProviderID: pharmacyID,
		Status:     constvars.OrderStatusCompleted,
	})
	assertCustomError(t, exceptions.ErrInvalidStatusTransition(nil, constvars.OrderStatusProcessing, constvars.OrderStatusCompleted), err)
}

func TestUpdateOrderStatus_StaffRestrictions(t *testing.T) {
	ctx := context.Background()

	t.Run("other provider", func(t *testing.T) {
		f := newFixture(t)
		f.placeOrder(constvars.OrderStatusConfirmed)
		_, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{OrderID: orderID, ProviderID: otherID, Status: constvars.OrderStatusProcessing})
		assertCustomError(t, exceptions.ErrNotOrderOwner(nil), err)
	})

	t.Run("unconfirmed order", func(t *testing.T) {
		f := newFixture(t)
		f.placeOrder(constvars.OrderStatusPending)
		reason := "customer asked"
		_, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{OrderID: orderID, ProviderID: pharmacyID, Status: constvars.OrderStatusCancelled, Reason: reason})
		assertCustomError(t, exceptions.ErrInvalidStatusTransition(nil, constvars.OrderStatusPending, constvars.OrderStatusCancelled), err)
		assert.Equal(t, 6, f.store.Stock(pharmacyID, paracetamol))
	})

	t.Run("missing order", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{OrderID: orderID, Status: constvars.OrderStatusProcessing})
		assertCustomError(t, exceptions.ErrOrderNotFound(nil), err)
	})
}

func TestUpdateOrderStatus_Cancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("requires reason", func(t *testing.T) {
		f := newFixture(t)
		f.placeOrder(constvars.OrderStatusConfirmed)
		_, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{OrderID: orderID, Status: constvars.OrderStatusCancelled, Reason: "  "})
		assertCustomError(t, exceptions.ErrCancellationReasonRequired(nil), err)
	})

	t.Run("releases stock before dispatch", func(t *testing.T) {
		f := newFixture(t)
		f.placeOrder(constvars.OrderStatusProcessing)
		cancelled, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{OrderID: orderID, ActorID: "admin-1", Status: constvars.OrderStatusCancelled, Reason: "out of stock"})
		require.NoError(t, err)
		assert.Equal(t, constvars.OrderStatusCancelled, cancelled.Status)
		assert.Equal(t, 10, f.store.Stock(pharmacyID, paracetamol))

		stored := f.store.Orders[orderID]
		require.NotNil(t, stored.CancellationReason)
		assert.Equal(t, "out of stock", *stored.CancellationReason)
		assert.False(t, stored.StockReserved)
		require.Len(t, f.store.Events, 1)
		assert.Equal(t, constvars.EventActorAdmin, f.store.Events[0].Actor)
		assert.Equal(t, "out of stock", f.store.Events[0].Reason)
	})

	t.Run("uses the status committed while waiting for the row", func(t *testing.T) {
		f := newFixture(t)
		f.placeOrder(constvars.OrderStatusConfirmed)
		repo := &memstore.OrderRepository{Store: f.store}
		repo.BeforeLock = func() {
			dispatched := f.store.Orders[orderID]
			dispatched.Status = constvars.OrderStatusShipped
			f.store.PutOrder(dispatched)
		}
		f.uc.OrderRepository = repo

		cancelled, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{OrderID: orderID, Status: constvars.OrderStatusCancelled, Reason: "returned to sender"})
		require.NoError(t, err)
		assert.Equal(t, constvars.OrderStatusCancelled, cancelled.Status)
		assert.Equal(t, 6, f.store.Stock(pharmacyID, paracetamol))
		require.Len(t, f.store.Events, 1)
		assert.Equal(t, constvars.OrderStatusShipped, f.store.Events[0].FromStatus)
	})

	t.Run("keeps stock after dispatch", func(t *testing.T) {
		f := newFixture(t)
		f.placeOrder(constvars.OrderStatusShipped)
		_, err := f.uc.UpdateOrderStatus(ctx, &requests.UpdateOrderStatus{OrderID: orderID, Status: constvars.OrderStatusCancelled, Reason: "lost in transit"})
		require.NoError(t, err)
		assert.Equal(t, 6, f.store.Stock(pharmacyID, paracetamol))
	})
}

func TestRegisterDeviceToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.uc.RegisterDeviceToken(ctx, &requests.RegisterDeviceToken{ProviderID: pharmacyID, Token: " device-9 ", Platform: "ios"})
	require.NoError(t, err)
	assert.Equal(t, "device-9", token.Token)

	_, err = f.uc.RegisterDeviceToken(ctx, &requests.RegisterDeviceToken{ProviderID: pharmacyID, Token: "device-9", Platform: "android"})
	require.NoError(t, err)
	require.Len(t, f.store.DeviceTokens, 1)
	assert.Equal(t, "android", f.store.DeviceTokens["device-9"].Platform)

	_, err = f.uc.RegisterDeviceToken(ctx, &requests.RegisterDeviceToken{ProviderID: "missing", Token: "x", Platform: "web"})
	assertCustomError(t, exceptions.ErrProviderNotFound(nil), err)
}
