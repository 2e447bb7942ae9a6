package catalog

import (
	"context"
	"testing"
	"time"

	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/testutil/memstore"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	pharmacyID  = "11111111-1111-4111-8111-111111111111"
	paracetamol = "aaaaaaaa-0000-4000-8000-000000000001"
)

type mockOfferingRepository struct {
	memstore.OfferingRepository
	mock.Mock
}

func (m *mockOfferingRepository) FindNearby(ctx context.Context, itemID string, latitude, longitude *float64, radiusKm float64) ([]models.OfferingDetail, error) {
	args := m.Called(ctx, itemID, latitude, longitude, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OfferingDetail), args.Error(1)
}

func newCatalogUsecase(store *memstore.Store) *catalogUsecase {
	return &catalogUsecase{
		CatalogRepository:  &memstore.CatalogRepository{Store: store},
		OfferingRepository: &memstore.OfferingRepository{Store: store},
		Log:                zap.NewNop(),
		Now:                func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) },
	}
}

func seedCatalog(store *memstore.Store) {
	store.PutProvider(models.Provider{ID: pharmacyID, Name: "Alpha Pharmacy", VerificationStatus: constvars.ProviderStatusVerified, IsActive: true})
	store.PutProvider(models.Provider{ID: "33333333-3333-4333-8333-333333333333", Name: "Closed Chemist", VerificationStatus: constvars.ProviderStatusPending, IsActive: true})
	store.PutItem(models.CatalogItem{ID: paracetamol, Name: "Paracetamol 500mg", Kind: constvars.ServiceKindMedication, Category: "analgesic"})
	store.PutItem(models.CatalogItem{ID: "aaaaaaaa-0000-4000-8000-000000000004", Name: "Malaria Parasite Test", Kind: constvars.ServiceKindDiagnostic, Category: "parasitology"})
	stock := 10
	store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: paracetamol, Stock: &stock, IsAvailable: true, Price: decimal.NewFromInt(500)})
	store.PutOffering(models.ProviderOffering{ProviderID: "33333333-3333-4333-8333-333333333333", ItemID: paracetamol, Stock: &stock, IsAvailable: true, Price: decimal.NewFromInt(450)})
}

func TestCreateAndGetItem(t *testing.T) {
	store := memstore.New()
	uc := newCatalogUsecase(store)
	ctx := context.Background()

	created, err := uc.CreateItem(ctx, &requests.CreateCatalogItem{
		Name:                 "  Amoxicillin 250mg ",
		Kind:                 string(constvars.ServiceKindMedication),
		Category:             "antibiotic",
		PrescriptionRequired: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Amoxicillin 250mg", created.Name)
	assert.True(t, created.PrescriptionRequired)

	found, err := uc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = uc.GetItem(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, exceptions.ErrCatalogItemNotFound(nil).ClientMessage, err.(*exceptions.CustomError).ClientMessage)
}

func TestSearch(t *testing.T) {
	store := memstore.New()
	seedCatalog(store)
	uc := newCatalogUsecase(store)

	items, err := uc.Search(context.Background(), &requests.SearchCatalog{Query: "malaria"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, string(constvars.ServiceKindDiagnostic), items[0].Kind)

	items, err = uc.Search(context.Background(), &requests.SearchCatalog{Kind: string(constvars.ServiceKindMedication)})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, paracetamol, items[0].ID)
}

func TestFindOfferings_OnlyOpenProviders(t *testing.T) {
	store := memstore.New()
	seedCatalog(store)
	uc := newCatalogUsecase(store)

	offerings, err := uc.FindOfferings(context.Background(), &requests.FindOfferings{ItemID: paracetamol})
	require.NoError(t, err)
	require.Len(t, offerings, 1)
	assert.Equal(t, "Alpha Pharmacy", offerings[0].ProviderName)
	assert.True(t, decimal.NewFromInt(500).Equal(offerings[0].Price))

	_, err = uc.FindOfferings(context.Background(), &requests.FindOfferings{ItemID: "missing"})
	require.Error(t, err)
}

func TestFindOfferings_DefaultsRadiusForPoint(t *testing.T) {
	store := memstore.New()
	seedCatalog(store)
	uc := newCatalogUsecase(store)
	offerings := &mockOfferingRepository{}
	uc.OfferingRepository = offerings

	lat, lng := 6.45, 3.39
	distance := 1.2
	offerings.On("FindNearby", mock.Anything, paracetamol, &lat, &lng, float64(defaultSearchRadiusKm)).
		Return([]models.OfferingDetail{{ProviderOffering: models.ProviderOffering{ProviderID: pharmacyID, ItemID: paracetamol}, DistanceKm: &distance}}, nil).Once()
	offerings.On("FindNearby", mock.Anything, paracetamol, (*float64)(nil), (*float64)(nil), float64(0)).
		Return([]models.OfferingDetail{}, nil).Once()

	found, err := uc.FindOfferings(context.Background(), &requests.FindOfferings{ItemID: paracetamol, Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, &distance, found[0].DistanceKm)

	// a lone latitude is ignored
	_, err = uc.FindOfferings(context.Background(), &requests.FindOfferings{ItemID: paracetamol, Latitude: &lat})
	require.NoError(t, err)
	offerings.AssertExpectations(t)
}
