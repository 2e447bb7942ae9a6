package orders

import (
	"context"
	"testing"
	"time"

	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/testutil/memstore"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	pharmacyID   = "11111111-1111-4111-8111-111111111111"
	labID        = "22222222-2222-4222-8222-222222222222"
	closedID     = "33333333-3333-4333-8333-333333333333"
	paracetamol  = "aaaaaaaa-0000-4000-8000-000000000001"
	amoxicillin  = "aaaaaaaa-0000-4000-8000-000000000002"
	vitaminC     = "aaaaaaaa-0000-4000-8000-000000000003"
	malariaTest  = "aaaaaaaa-0000-4000-8000-000000000004"
	unsoldItemID = "aaaaaaaa-0000-4000-8000-000000000005"
	guestID      = "99999999-9999-4999-8999-999999999999"
)

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) InitializeTransaction(ctx context.Context, request *requests.PaymentInitialization) (*responses.PaymentInitialization, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.PaymentInitialization), args.Error(1)
}

func (m *mockPaymentGateway) VerifyTransaction(ctx context.Context, reference string) (*responses.PaymentVerification, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.PaymentVerification), args.Error(1)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	store     *memstore.Store
	tx        *memstore.Transactor
	gateway   *mockPaymentGateway
	locker    *memstore.Locker
	redis     *memstore.Redis
	storage   *memstore.Storage
	publisher *memstore.Publisher
	clock     *testClock
	cfg       *config.InternalConfig

	cart     *cartUsecase
	checkout *checkoutUsecase
	confirm  *confirmationUsecase
}

func stock(n int) *int { return &n }

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{
			Timezone:       "UTC",
			FrontendDomain: "http://localhost:3000/",
		},
		PaymentGateway: config.AppPaymentGateway{
			Currency:     "NGN",
			CallbackPath: "/checkout/callback",
		},
		Checkout: config.AppCheckout{
			LockTTLInSeconds:            30,
			IdempotencyTTLInMinutes:     60,
			PaymentExpiredTimeInMinutes: 30,
			SlotLimitedThreshold:        3,
			TimeSlotLookaheadDays:       2,
		},
		Minio: config.AppMinio{BucketName: "prescriptions"},
		RabbitMQ: config.AppRabbitMQ{
			OrderNotificationQueue:        "order-notifications",
			PrescriptionNotificationQueue: "prescription-notifications",
			ProviderNotificationQueue:     "provider-notifications",
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	// Monday morning
	clock := &testClock{now: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)}
	f := &fixture{
		store:     store,
		tx:        &memstore.Transactor{Store: store},
		gateway:   new(mockPaymentGateway),
		locker:    memstore.NewLocker(),
		redis:     memstore.NewRedis(),
		storage:   &memstore.Storage{},
		publisher: &memstore.Publisher{},
		clock:     clock,
		cfg:       testConfig(),
	}

	orderRepo := &memstore.OrderRepository{Store: store}
	itemRepo := &memstore.OrderItemRepository{Store: store}
	offeringRepo := &memstore.OfferingRepository{Store: store}
	prescriptionRepo := &memstore.PrescriptionRepository{Store: store}
	providerRepo := &memstore.ProviderRepository{Store: store}
	inventory := &inventoryService{
		OfferingRepository:  offeringRepo,
		OrderItemRepository: itemRepo,
		Log:                 zap.NewNop(),
	}

	f.cart = &cartUsecase{
		Transactor:          f.tx,
		OrderRepository:     orderRepo,
		OrderItemRepository: itemRepo,
		OfferingRepository:  offeringRepo,
		CatalogRepository:   &memstore.CatalogRepository{Store: store},
		ProviderRepository:  providerRepo,
		Inventory:           inventory,
		InternalConfig:      f.cfg,
		Log:                 zap.NewNop(),
		Now:                 clock.Now,
	}
	f.checkout = &checkoutUsecase{
		Transactor:                     f.tx,
		OrderRepository:                orderRepo,
		OrderItemRepository:            itemRepo,
		PrescriptionRepository:         prescriptionRepo,
		TransactionReferenceRepository: &memstore.TransactionReferenceRepository{Store: store},
		Inventory:                      inventory,
		PaymentGateway:                 f.gateway,
		Storage:                        f.storage,
		Locker:                         f.locker,
		RedisRepository:                f.redis,
		InternalConfig:                 f.cfg,
		Log:                            zap.NewNop(),
		Now:                            clock.Now,
	}
	f.confirm = &confirmationUsecase{
		Transactor:                     f.tx,
		OrderRepository:                orderRepo,
		OrderItemRepository:            itemRepo,
		PrescriptionRepository:         prescriptionRepo,
		TransactionReferenceRepository: &memstore.TransactionReferenceRepository{Store: store},
		OrderEventRepository:           &memstore.OrderEventRepository{Store: store},
		ProviderRepository:             providerRepo,
		PaymentGateway:                 f.gateway,
		Publisher:                      f.publisher,
		InternalConfig:                 f.cfg,
		Log:                            zap.NewNop(),
		Now:                            clock.Now,
	}

	f.seed()
	return f
}

func (f *fixture) seed() {
	f.store.PutProvider(models.Provider{
		ID:                 pharmacyID,
		Name:               "Alpha Pharmacy",
		Kind:               constvars.ProviderKindPharmacy,
		VerificationStatus: constvars.ProviderStatusVerified,
		IsActive:           true,
		SupportsDelivery:   true,
		OperatingHours:     "Daily 08:00-20:00",
	})
	f.store.PutProvider(models.Provider{
		ID:                     labID,
		Name:                   "Beta Diagnostics",
		Kind:                   constvars.ProviderKindLab,
		VerificationStatus:     constvars.ProviderStatusVerified,
		IsActive:               true,
		SupportsHomeCollection: true,
		OperatingHours:         "Mon-Fri 08:00-12:00",
	})
	f.store.PutProvider(models.Provider{
		ID:                 closedID,
		Name:               "Closed Chemist",
		Kind:               constvars.ProviderKindPharmacy,
		VerificationStatus: constvars.ProviderStatusPending,
		IsActive:           true,
		OperatingHours:     "Daily 08:00-20:00",
	})

	f.store.PutItem(models.CatalogItem{ID: paracetamol, Name: "Paracetamol 500mg", Kind: constvars.ServiceKindMedication})
	f.store.PutItem(models.CatalogItem{ID: vitaminC, Name: "Vitamin C 1000mg", Kind: constvars.ServiceKindMedication})
	f.store.PutItem(models.CatalogItem{ID: amoxicillin, Name: "Amoxicillin 250mg", Kind: constvars.ServiceKindMedication, PrescriptionRequired: true})
	f.store.PutItem(models.CatalogItem{ID: malariaTest, Name: "Malaria Parasite Test", Kind: constvars.ServiceKindDiagnostic})
	f.store.PutItem(models.CatalogItem{ID: unsoldItemID, Name: "Unsold", Kind: constvars.ServiceKindMedication})

	f.store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: paracetamol, Stock: stock(10), IsAvailable: true, Price: decimal.NewFromInt(500)})
	f.store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: vitaminC, Stock: stock(5), IsAvailable: true, Price: decimal.NewFromInt(1000)})
	f.store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: amoxicillin, Stock: stock(4), IsAvailable: true, Price: decimal.NewFromInt(2500)})
	f.store.PutOffering(models.ProviderOffering{ProviderID: closedID, ItemID: paracetamol, Stock: stock(10), IsAvailable: true, Price: decimal.NewFromInt(450)})
	f.store.PutOffering(models.ProviderOffering{ProviderID: labID, ItemID: malariaTest, IsAvailable: true, Price: decimal.NewFromInt(3000)})

	f.store.DeviceTokens["device-1"] = models.DeviceToken{ProviderID: pharmacyID, Token: "device-1", Platform: "android"}
}

// addToCart adds an item and moves the clock so cart lines keep their insertion order.
func (f *fixture) addToCart(t *testing.T, providerID, itemID string, quantity int) *responses.AddCartItem {
	t.Helper()
	response, err := f.cart.AddItem(context.Background(), &requests.AddCartItem{
		GuestID:    guestID,
		ProviderID: providerID,
		ItemID:     itemID,
		Quantity:   quantity,
	})
	require.NoError(t, err)
	f.clock.advance(time.Second)
	return response
}

func (f *fixture) expectPaymentInit() *mock.Call {
	return f.gateway.On("InitializeTransaction", mock.Anything, mock.AnythingOfType("*requests.PaymentInitialization")).
		Return(&responses.PaymentInitialization{AuthorizationURL: "https://pay.test/checkout", AccessCode: "access"}, nil)
}

func (f *fixture) initiate(t *testing.T, request *requests.InitiateCheckout) *responses.Checkout {
	t.Helper()
	if request.GuestID == "" {
		request.GuestID = guestID
	}
	if request.Email == "" {
		request.Email = "ada@example.com"
	}
	if request.Phone == "" {
		request.Phone = "08031234567"
	}
	response, err := f.checkout.InitiateCheckout(context.Background(), request)
	require.NoError(t, err)
	return response
}

func assertCustomError(t *testing.T, expected *exceptions.CustomError, err error) {
	t.Helper()
	require.Error(t, err)
	customErr, ok := err.(*exceptions.CustomError)
	require.True(t, ok, "expected CustomError, got %T: %v", err, err)
	assert.Equal(t, expected.StatusCode, customErr.StatusCode)
	assert.Equal(t, expected.ClientMessage, customErr.ClientMessage)
}

func assertDecimal(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(expected).Equal(actual), "expected %d, got %s", expected, actual)
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
