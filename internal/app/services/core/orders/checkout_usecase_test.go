package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func prescriptionFile() *requests.FileUpload {
	return &requests.FileUpload{
		FileName:    "rx.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Content:     strings.NewReader("%PDF"),
	}
}

func (f *fixture) ordersOf(status string) []models.Order {
	return f.store.OrdersWhere(func(o models.Order) bool { return o.Status == status })
}

func TestInitiateCheckout_ReservesStockAndInitializesPayment(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.addToCart(t, pharmacyID, vitaminC, 1)

	var sent *requests.PaymentInitialization
	f.expectPaymentInit().Run(func(args mock.Arguments) {
		sent = args.Get(1).(*requests.PaymentInitialization)
	}).Once()

	response := f.initiate(t, &requests.InitiateCheckout{DeliveryAddress: "12 Marina, Lagos"})

	assert.Equal(t, constvars.CheckoutStatusPaymentInitialized, response.Status)
	assert.Equal(t, "https://pay.test/checkout", response.PaymentURL)
	assertDecimal(t, 2000, response.TotalPayable)
	require.Len(t, response.Orders, 1)
	assert.Equal(t, constvars.OrderStatusPending, response.Orders[0].Status)
	assert.Len(t, response.Orders[0].Items, 2)

	require.NotNil(t, sent)
	assert.Equal(t, int64(200000), sent.AmountKobo)
	assert.Equal(t, "NGN", sent.Currency)
	assert.Equal(t, "http://localhost:3000/checkout/callback?session="+response.CheckoutSessionID, sent.CallbackURL)
	assert.True(t, strings.HasPrefix(sent.Reference, "TXN-"))
	assert.NotEmpty(t, sent.IdempotencyKey)
	assert.Equal(t, sent.Reference, response.TransactionReference)

	assert.Equal(t, 8, f.store.Stock(pharmacyID, paracetamol))
	assert.Equal(t, 4, f.store.Stock(pharmacyID, vitaminC))
	assert.Empty(t, f.ordersOf(constvars.OrderStatusCart))

	pending := f.ordersOf(constvars.OrderStatusPending)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].StockReserved)
	assert.Equal(t, "08031234567", pending[0].ContactPhone)
	assert.Equal(t, "12 Marina, Lagos", pending[0].DeliveryAddress)
	assertDecimal(t, 2000, pending[0].TotalPrice)

	refs := f.store.TransactionReferences()
	require.Len(t, refs, 1)
	assert.Equal(t, []string{pending[0].Reference()}, refs[0].InternalReferences)
	assert.Equal(t, int64(200000), refs[0].AmountKobo)
	assert.False(t, f.locker.Held(fmt.Sprintf(constvars.RedisCheckoutLockKeyFormat, guestID)))
	f.gateway.AssertExpectations(t)
}

func TestInitiateCheckout_SplitsByProvider(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, labID, malariaTest, 1)
	f.addToCart(t, pharmacyID, paracetamol, 1)
	f.expectPaymentInit().Once()

	response := f.initiate(t, &requests.InitiateCheckout{})

	require.Len(t, response.Orders, 2)
	assert.Equal(t, labID, response.Orders[0].ProviderID)
	assert.Equal(t, pharmacyID, response.Orders[1].ProviderID)
	assertDecimal(t, 3500, response.TotalPayable)
	assert.NotEqual(t, response.Orders[0].PaymentReference, response.Orders[1].PaymentReference)

	refs := f.store.TransactionReferences()
	require.Len(t, refs, 1)
	assert.Len(t, refs[0].InternalReferences, 2)
	assert.Equal(t, int64(350000), refs[0].AmountKobo)
}

func TestInitiateCheckout_GatewayFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.addToCart(t, pharmacyID, vitaminC, 1)
	f.gateway.On("InitializeTransaction", mock.Anything, mock.Anything).
		Return(nil, exceptions.ErrPaymentGateway(errors.New("gateway down"))).Once()

	_, err := f.checkout.InitiateCheckout(context.Background(), &requests.InitiateCheckout{
		GuestID: guestID,
		Email:   "ada@example.com",
		Phone:   "08031234567",
	})
	assertCustomError(t, exceptions.ErrPaymentGateway(nil), err)

	assert.Equal(t, 10, f.store.Stock(pharmacyID, paracetamol))
	assert.Equal(t, 5, f.store.Stock(pharmacyID, vitaminC))
	assert.Empty(t, f.ordersOf(constvars.OrderStatusPending))
	assert.Empty(t, f.store.TransactionReferences())
	assert.Equal(t, 1, f.tx.Rollbacks)

	cart, err := f.cart.GetCart(context.Background(), guestID)
	require.NoError(t, err)
	require.Len(t, cart.Providers, 1)
	assert.Len(t, cart.Providers[0].Items, 2)
	assertDecimal(t, 2000, cart.TotalPrice)
	assert.False(t, f.locker.Held(fmt.Sprintf(constvars.RedisCheckoutLockKeyFormat, guestID)))
}

func TestInitiateCheckout_InsufficientStockAtCheckout(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, vitaminC, 5)

	offering, err := f.cart.OfferingRepository.FindByKey(context.Background(), pharmacyID, vitaminC)
	require.NoError(t, err)
	offering.Stock = stock(2)
	f.store.PutOffering(*offering)

	_, err = f.checkout.InitiateCheckout(context.Background(), &requests.InitiateCheckout{GuestID: guestID, Email: "ada@example.com", Phone: "08031234567"})
	assertCustomError(t, exceptions.ErrInsufficientStock(nil), err)
	assert.Equal(t, 2, f.store.Stock(pharmacyID, vitaminC))
	f.gateway.AssertNotCalled(t, "InitializeTransaction", mock.Anything, mock.Anything)
}

func TestInitiateCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.InitiateCheckout(context.Background(), &requests.InitiateCheckout{GuestID: guestID, Email: "ada@example.com", Phone: "08031234567"})
	assertCustomError(t, exceptions.ErrEmptyCart(nil), err)

	line := f.addToCart(t, pharmacyID, paracetamol, 1)
	_, err = f.cart.RemoveItem(context.Background(), &requests.RemoveCartItem{GuestID: guestID, OrderItemID: line.Item.ID})
	require.NoError(t, err)
	_, err = f.checkout.InitiateCheckout(context.Background(), &requests.InitiateCheckout{GuestID: guestID, Email: "ada@example.com", Phone: "08031234567"})
	assertCustomError(t, exceptions.ErrEmptyCart(nil), err)
}

func TestInitiateCheckout_CheckoutInProgress(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 1)
	f.locker.Busy = true

	_, err := f.checkout.InitiateCheckout(context.Background(), &requests.InitiateCheckout{GuestID: guestID, Email: "ada@example.com", Phone: "08031234567"})
	assertCustomError(t, exceptions.ErrCheckoutInProgress(nil), err)
	assert.Len(t, f.ordersOf(constvars.OrderStatusCart), 1)
}

func TestInitiateCheckout_ReplaysIdempotentRequest(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.expectPaymentInit().Once()

	first := f.initiate(t, &requests.InitiateCheckout{IdempotencyKey: "key-1"})
	second := f.initiate(t, &requests.InitiateCheckout{IdempotencyKey: "key-1"})

	assert.Equal(t, first.CheckoutSessionID, second.CheckoutSessionID)
	assert.Equal(t, first.TransactionReference, second.TransactionReference)
	assertDecimal(t, 1000, second.TotalPayable)
	f.gateway.AssertNumberOfCalls(t, "InitializeTransaction", 1)
	assert.Len(t, f.ordersOf(constvars.OrderStatusPending), 1)
}

func TestInitiateCheckout_DropsUnreadableIdempotencyEntry(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 1)
	key := fmt.Sprintf(constvars.RedisCheckoutIdempotencyKeyFormat, guestID+":key-2")
	f.redis.Data[key] = "{not json"
	f.expectPaymentInit().Once()

	response := f.initiate(t, &requests.InitiateCheckout{IdempotencyKey: "key-2"})
	assert.Equal(t, constvars.CheckoutStatusPaymentInitialized, response.Status)
	assert.Contains(t, f.redis.Data[key], response.CheckoutSessionID)
}

func TestInitiateCheckout_RequiresPrescriptionFile(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, amoxicillin, 1)

	_, err := f.checkout.InitiateCheckout(context.Background(), &requests.InitiateCheckout{GuestID: guestID, Email: "ada@example.com", Phone: "08031234567"})
	assertCustomError(t, exceptions.ErrPrescriptionRequired(nil), err)
	assert.Empty(t, f.storage.Uploads)
	assert.Len(t, f.ordersOf(constvars.OrderStatusCart), 1)
}

func TestInitiateCheckout_UploadOnlyAwaitsVerification(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, amoxicillin, 1)

	response := f.initiate(t, &requests.InitiateCheckout{PrescriptionFile: prescriptionFile()})

	assert.Equal(t, constvars.CheckoutStatusAwaitingPrescription, response.Status)
	assert.NotEmpty(t, response.PrescriptionID)
	assert.True(t, response.TotalPayable.IsZero())
	f.gateway.AssertNotCalled(t, "InitializeTransaction", mock.Anything, mock.Anything)

	require.Len(t, f.storage.Uploads, 1)
	assert.Equal(t, "prescriptions", f.storage.Uploads[0].Bucket)
	assert.True(t, strings.HasSuffix(f.storage.Uploads[0].Object, ".pdf"))

	prescription := f.store.Prescriptions[response.PrescriptionID]
	assert.Equal(t, constvars.PrescriptionStatusPending, prescription.Status)
	assert.Equal(t, []string{amoxicillin}, prescription.CoveredItemIDs)

	gated := f.ordersOf(constvars.OrderStatusPendingPrescription)
	require.Len(t, gated, 1)
	assert.Equal(t, response.PrescriptionID, *gated[0].PrescriptionID)
	assert.Equal(t, 3, f.store.Stock(pharmacyID, amoxicillin))
}

func TestInitiateCheckout_MixedCartChargesUngatedItemsOnly(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.addToCart(t, pharmacyID, amoxicillin, 1)

	var sent *requests.PaymentInitialization
	f.expectPaymentInit().Run(func(args mock.Arguments) {
		sent = args.Get(1).(*requests.PaymentInitialization)
	}).Once()

	response := f.initiate(t, &requests.InitiateCheckout{PrescriptionFile: prescriptionFile()})

	assert.Equal(t, constvars.CheckoutStatusPaymentInitialized, response.Status)
	require.Len(t, response.Orders, 2)
	assertDecimal(t, 1000, response.TotalPayable)
	require.NotNil(t, sent)
	assert.Equal(t, int64(100000), sent.AmountKobo)
	assert.Len(t, f.ordersOf(constvars.OrderStatusPending), 1)
	assert.Len(t, f.ordersOf(constvars.OrderStatusPendingPrescription), 1)
}

func TestInitiateCheckout_UsesCartStateAtCommit(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, amoxicillin, 1)
	f.addToCart(t, pharmacyID, paracetamol, 1)
	f.storage.OnUpload = func() {
		f.storage.OnUpload = nil
		f.addToCart(t, pharmacyID, vitaminC, 1)
		f.addToCart(t, pharmacyID, paracetamol, 4)
	}

	var sent *requests.PaymentInitialization
	f.expectPaymentInit().Run(func(args mock.Arguments) {
		sent = args.Get(1).(*requests.PaymentInitialization)
	}).Once()

	response := f.initiate(t, &requests.InitiateCheckout{PrescriptionFile: prescriptionFile()})

	assertDecimal(t, 3500, response.TotalPayable)
	require.NotNil(t, sent)
	assert.Equal(t, int64(350000), sent.AmountKobo)
	assert.Empty(t, f.ordersOf(constvars.OrderStatusCart))

	payable := f.ordersOf(constvars.OrderStatusPending)
	require.Len(t, payable, 1)
	assertDecimal(t, 3500, payable[0].TotalPrice)
	items := f.store.ItemsOf(payable[0].ID)
	require.Len(t, items, 2)
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(items[i].LineTotal())
	}
	assert.True(t, sum.Equal(payable[0].TotalPrice), "lines sum to %s", sum)

	gated := f.ordersOf(constvars.OrderStatusPendingPrescription)
	require.Len(t, gated, 1)
	assert.Len(t, f.store.ItemsOf(gated[0].ID), 1)

	assert.Equal(t, 5, f.store.Stock(pharmacyID, paracetamol))
	assert.Equal(t, 4, f.store.Stock(pharmacyID, vitaminC))
	assert.Equal(t, 3, f.store.Stock(pharmacyID, amoxicillin))
}

func TestInitiateCheckout_RejectsItemAddedDuringUpload(t *testing.T) {
	f := newFixture(t)
	f.store.PutItem(models.CatalogItem{ID: "item-tramadol", Name: "Tramadol 50mg", Kind: constvars.ServiceKindMedication, PrescriptionRequired: true})
	f.store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: "item-tramadol", Stock: stock(3), IsAvailable: true, Price: decimal.NewFromInt(1500)})
	f.addToCart(t, pharmacyID, amoxicillin, 1)
	f.storage.OnUpload = func() {
		f.storage.OnUpload = nil
		f.addToCart(t, pharmacyID, "item-tramadol", 1)
	}

	_, err := f.checkout.InitiateCheckout(context.Background(), &requests.InitiateCheckout{
		GuestID:          guestID,
		Email:            "ada@example.com",
		Phone:            "08031234567",
		PrescriptionFile: prescriptionFile(),
	})
	assertCustomError(t, exceptions.ErrPrescriptionRequired(nil), err)

	carts := f.ordersOf(constvars.OrderStatusCart)
	require.Len(t, carts, 1)
	assert.Len(t, f.store.ItemsOf(carts[0].ID), 2)
	assert.Empty(t, f.ordersOf(constvars.OrderStatusPendingPrescription))
	assert.Empty(t, f.store.Prescriptions)
	assert.Equal(t, 4, f.store.Stock(pharmacyID, amoxicillin))
	assert.Equal(t, 3, f.store.Stock(pharmacyID, "item-tramadol"))
}

func TestInitiateCheckout_VerifiedPrescriptionCoversItems(t *testing.T) {
	f := newFixture(t)
	f.store.PutPrescription(models.Prescription{
		ID:             "rx-verified",
		GuestID:        guestID,
		Status:         constvars.PrescriptionStatusVerified,
		CoveredItemIDs: []string{amoxicillin},
		TimeModel:      models.TimeModel{CreatedAt: f.clock.now.Add(-time.Hour)},
	})
	f.addToCart(t, pharmacyID, amoxicillin, 1)
	f.expectPaymentInit().Once()

	response := f.initiate(t, &requests.InitiateCheckout{})

	assert.Equal(t, constvars.CheckoutStatusPaymentInitialized, response.Status)
	require.Len(t, response.Orders, 1)
	assert.Equal(t, "rx-verified", response.Orders[0].PrescriptionID)
	assert.Empty(t, f.storage.Uploads)
}

func TestRetrieveSession(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 1)
	f.expectPaymentInit().Once()
	checkout := f.initiate(t, &requests.InitiateCheckout{})
	ctx := context.Background()

	bySession, err := f.checkout.RetrieveSession(ctx, &requests.RetrieveSession{CheckoutSessionID: checkout.CheckoutSessionID})
	require.NoError(t, err)
	assert.Equal(t, guestID, bySession.GuestID)
	assert.Equal(t, constvars.SessionSourceOrder, bySession.Source)

	byPhone, err := f.checkout.RetrieveSession(ctx, &requests.RetrieveSession{Phone: "0803-123-4567"})
	require.NoError(t, err)
	assert.Equal(t, checkout.CheckoutSessionID, byPhone.CheckoutSessionID)

	f.store.PutPrescription(models.Prescription{
		ID:        "rx-newer",
		GuestID:   "other-guest",
		Email:     "ada@example.com",
		Status:    constvars.PrescriptionStatusPending,
		TimeModel: models.TimeModel{CreatedAt: f.clock.now.Add(time.Hour)},
	})
	byEmail, err := f.checkout.RetrieveSession(ctx, &requests.RetrieveSession{Email: "ADA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "other-guest", byEmail.GuestID)
	assert.Equal(t, constvars.SessionSourcePrescription, byEmail.Source)

	_, err = f.checkout.RetrieveSession(ctx, &requests.RetrieveSession{Email: "nobody@example.com"})
	assertCustomError(t, exceptions.ErrSessionNotFound(nil), err)
}

func TestPartialCheckout_PaysVerifiedItemsOnce(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, amoxicillin, 1)
	checkout := f.initiate(t, &requests.InitiateCheckout{PrescriptionFile: prescriptionFile()})
	gated := f.ordersOf(constvars.OrderStatusPendingPrescription)
	require.Len(t, gated, 1)
	request := &requests.PartialCheckout{GuestID: guestID, OrderID: gated[0].ID}

	_, err := f.checkout.PartialCheckout(context.Background(), request)
	assertCustomError(t, exceptions.ErrNoPayableItems(nil), err)

	prescription := f.store.Prescriptions[checkout.PrescriptionID]
	prescription.Status = constvars.PrescriptionStatusVerified
	f.store.PutPrescription(prescription)
	f.expectPaymentInit().Once()

	response, err := f.checkout.PartialCheckout(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, constvars.CheckoutStatusPaymentInitialized, response.Status)
	assert.Equal(t, checkout.CheckoutSessionID, response.CheckoutSessionID)
	assertDecimal(t, 2500, response.TotalPayable)
	assert.Equal(t, checkout.PrescriptionID, response.Orders[0].PrescriptionID)

	// stock was reserved at checkout and moves with the split
	assert.Equal(t, 3, f.store.Stock(pharmacyID, amoxicillin))
	assert.Empty(t, f.ordersOf(constvars.OrderStatusPendingPrescription))
	assert.Len(t, f.ordersOf(constvars.OrderStatusPending), 1)

	_, err = f.checkout.PartialCheckout(context.Background(), request)
	assertCustomError(t, exceptions.ErrNoPayableItems(nil), err)
	assert.Len(t, f.ordersOf(constvars.OrderStatusPending), 1)
	f.gateway.AssertNumberOfCalls(t, "InitializeTransaction", 1)
}

func TestPartialCheckout_LeavesGatedRemainder(t *testing.T) {
	f := newFixture(t)
	f.store.PutItem(models.CatalogItem{ID: "item-rx-2", Name: "Ciprofloxacin", Kind: constvars.ServiceKindMedication, PrescriptionRequired: true})
	f.store.PutOffering(models.ProviderOffering{ProviderID: pharmacyID, ItemID: "item-rx-2", Stock: stock(3), IsAvailable: true, Price: decimalFromInt(1200)})
	f.addToCart(t, pharmacyID, amoxicillin, 1)
	f.addToCart(t, pharmacyID, "item-rx-2", 1)
	checkout := f.initiate(t, &requests.InitiateCheckout{PrescriptionFile: prescriptionFile()})

	// the reviewer verified a prescription covering only one of the items
	f.store.PutPrescription(models.Prescription{
		ID:             "rx-partial",
		GuestID:        guestID,
		Status:         constvars.PrescriptionStatusVerified,
		CoveredItemIDs: []string{amoxicillin},
		TimeModel:      models.TimeModel{CreatedAt: f.clock.now.Add(time.Minute)},
	})
	gated := f.ordersOf(constvars.OrderStatusPendingPrescription)
	require.Len(t, gated, 1)
	f.expectPaymentInit().Once()

	response, err := f.checkout.PartialCheckout(context.Background(), &requests.PartialCheckout{GuestID: guestID, OrderID: gated[0].ID})
	require.NoError(t, err)
	assertDecimal(t, 2500, response.TotalPayable)

	remainder := f.store.Orders[gated[0].ID]
	assert.Equal(t, constvars.OrderStatusPartiallyCompleted, remainder.Status)
	assertDecimal(t, 1200, remainder.TotalPrice)
	assert.Len(t, f.store.ItemsOf(remainder.ID), 1)
	assert.Equal(t, checkout.CheckoutSessionID, remainder.SessionID())

	_, err = f.checkout.PartialCheckout(context.Background(), &requests.PartialCheckout{GuestID: guestID, OrderID: gated[0].ID})
	assertCustomError(t, exceptions.ErrNoPayableItems(nil), err)
}

func TestCancelPartialCheckout_ReturnsItemsToCart(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.addToCart(t, pharmacyID, vitaminC, 1)
	f.expectPaymentInit().Once()
	f.initiate(t, &requests.InitiateCheckout{})
	pending := f.ordersOf(constvars.OrderStatusPending)
	require.Len(t, pending, 1)

	cart, err := f.checkout.CancelPartialCheckout(context.Background(), &requests.PartialCheckout{GuestID: guestID, OrderID: pending[0].ID})
	require.NoError(t, err)
	require.Len(t, cart.Providers, 1)
	assert.Len(t, cart.Providers[0].Items, 2)
	assertDecimal(t, 2000, cart.TotalPrice)

	assert.Equal(t, 10, f.store.Stock(pharmacyID, paracetamol))
	assert.Equal(t, 5, f.store.Stock(pharmacyID, vitaminC))
	assert.Empty(t, f.ordersOf(constvars.OrderStatusPending))
	assert.Len(t, f.ordersOf(constvars.OrderStatusCart), 1)

	_, err = f.checkout.CancelPartialCheckout(context.Background(), &requests.PartialCheckout{GuestID: guestID, OrderID: pending[0].ID})
	assertCustomError(t, exceptions.ErrOrderNotFound(nil), err)
}

func TestCancelPartialCheckout_RejectsPaidOrder(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 1)
	f.expectPaymentInit().Once()
	f.initiate(t, &requests.InitiateCheckout{})
	order := f.ordersOf(constvars.OrderStatusPending)[0]
	order.PaymentStatus = constvars.PaymentStatusPaid
	f.store.PutOrder(order)

	_, err := f.checkout.CancelPartialCheckout(context.Background(), &requests.PartialCheckout{GuestID: guestID, OrderID: order.ID})
	assertCustomError(t, exceptions.ErrInvalidStatusTransition(nil, constvars.OrderStatusPending, constvars.OrderStatusCart), err)
	assert.Equal(t, 9, f.store.Stock(pharmacyID, paracetamol))
}

func TestResumeCheckout_ReissuesReferences(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.expectPaymentInit().Twice()
	first := f.initiate(t, &requests.InitiateCheckout{})
	order := f.ordersOf(constvars.OrderStatusPending)[0]
	oldReference := order.Reference()
	order.PaymentStatus = constvars.PaymentStatusFailed
	f.store.PutOrder(order)

	response, err := f.checkout.ResumeCheckout(context.Background(), &requests.ResumeCheckout{GuestID: guestID, OrderID: order.ID, Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.CheckoutSessionID, response.CheckoutSessionID)
	assert.NotEqual(t, first.TransactionReference, response.TransactionReference)
	assertDecimal(t, 1000, response.TotalPayable)

	resumed := f.store.Orders[order.ID]
	assert.NotEqual(t, oldReference, resumed.Reference())
	assert.Equal(t, constvars.PaymentStatusPending, resumed.PaymentStatus)
	// already reserved, so no second decrement
	assert.Equal(t, 8, f.store.Stock(pharmacyID, paracetamol))
	assert.Len(t, f.store.TransactionReferences(), 2)
}

func TestResumeCheckout_GatedOrderNeedsVerification(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, amoxicillin, 1)
	f.initiate(t, &requests.InitiateCheckout{PrescriptionFile: prescriptionFile()})
	gated := f.ordersOf(constvars.OrderStatusPendingPrescription)[0]

	_, err := f.checkout.ResumeCheckout(context.Background(), &requests.ResumeCheckout{GuestID: guestID, OrderID: gated.ID, Email: "ada@example.com"})
	assertCustomError(t, exceptions.ErrPrescriptionPending(nil), err)

	_, err = f.checkout.ResumeCheckout(context.Background(), &requests.ResumeCheckout{GuestID: guestID, OrderID: "missing", Email: "ada@example.com"})
	assertCustomError(t, exceptions.ErrOrderNotFound(nil), err)
}

func TestExpireStaleCheckouts_ReleasesStockAndReopens(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, pharmacyID, paracetamol, 2)
	f.expectPaymentInit().Once()
	f.initiate(t, &requests.InitiateCheckout{})
	order := f.ordersOf(constvars.OrderStatusPending)[0]

	released, err := f.checkout.ExpireStaleCheckouts(context.Background(), f.clock.now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, released)

	f.clock.advance(31 * time.Minute)
	released, err = f.checkout.ExpireStaleCheckouts(context.Background(), f.clock.now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, 10, f.store.Stock(pharmacyID, paracetamol))

	expired := f.store.Orders[order.ID]
	assert.Equal(t, constvars.PaymentStatusCancelled, expired.PaymentStatus)
	assert.False(t, expired.StockReserved)

	released, err = f.checkout.ExpireStaleCheckouts(context.Background(), f.clock.now)
	require.NoError(t, err)
	assert.Equal(t, 0, released)

	// the abandoned sub-order becomes the guest's cart again
	line := f.addToCart(t, pharmacyID, paracetamol, 1)
	assert.Equal(t, 3, line.Item.Quantity)
	reopened := f.store.Orders[order.ID]
	assert.Equal(t, constvars.OrderStatusCart, reopened.Status)
	assert.Nil(t, reopened.CheckoutSessionID)
}
