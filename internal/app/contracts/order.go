package contracts

import (
	"context"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"time"

	"github.com/shopspring/decimal"
)

type CartUsecase interface {
	AddItem(ctx context.Context, request *requests.AddCartItem) (*responses.AddCartItem, error)
	GetCart(ctx context.Context, guestID string) (*responses.Cart, error)
	UpdateItem(ctx context.Context, request *requests.UpdateCartItem) (*responses.UpdateCartItem, error)
	RemoveItem(ctx context.Context, request *requests.RemoveCartItem) (*responses.RemoveCartItem, error)
	GetAvailableTimeSlots(ctx context.Context, request *requests.GetTimeSlots) ([]responses.TimeSlot, error)
	UpdateItemSchedule(ctx context.Context, request *requests.UpdateCartItemSchedule) (*responses.CartItem, error)
}

type CheckoutUsecase interface {
	InitiateCheckout(ctx context.Context, request *requests.InitiateCheckout) (*responses.Checkout, error)
	RetrieveSession(ctx context.Context, request *requests.RetrieveSession) (*responses.Session, error)
	ResumeCheckout(ctx context.Context, request *requests.ResumeCheckout) (*responses.Checkout, error)
	PartialCheckout(ctx context.Context, request *requests.PartialCheckout) (*responses.Checkout, error)
	CancelPartialCheckout(ctx context.Context, request *requests.PartialCheckout) (*responses.Cart, error)
	// ExpireStaleCheckouts releases stock held by unpaid sub-orders created before cutoff.
	ExpireStaleCheckouts(ctx context.Context, cutoff time.Time) (int, error)
}

type ConfirmationUsecase interface {
	ConfirmOrder(ctx context.Context, request *requests.ConfirmOrder) (*responses.Confirmation, error)
	TrackOrders(ctx context.Context, trackingCode string) (*responses.Tracking, error)
}

type OrderRepository interface {
	FindCartByGuestID(ctx context.Context, guestID string, forUpdate bool) (*models.Order, error)
	FindReopenableByGuestID(ctx context.Context, guestID string) (*models.Order, error)
	// CreateCart returns false when the guest already has a cart.
	CreateCart(ctx context.Context, order *models.Order) (bool, error)
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	// FindByIDsForUpdate locks the rows until the surrounding transaction ends.
	FindByIDsForUpdate(ctx context.Context, orderIDs []string) ([]models.Order, error)
	FindByIDAndGuestID(ctx context.Context, orderID, guestID string) (*models.Order, error)
	// FindBySessionID matches any guest when guestID is empty.
	FindBySessionID(ctx context.Context, sessionID, guestID string, statuses []string) ([]models.Order, error)
	FindByGuestIDAndPaymentReferences(ctx context.Context, guestID string, references []string) ([]models.Order, error)
	FindByTrackingCode(ctx context.Context, trackingCode string, statuses []string) ([]models.Order, error)
	FindLatestByContact(ctx context.Context, email string, phones []string) (*models.Order, error)
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	FindByProviderID(ctx context.Context, providerID, status string, limit, offset int) ([]models.Order, int, error)
	FindPendingByPrescriptionID(ctx context.Context, prescriptionID string) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	RecalculateTotal(ctx context.Context, orderID string) (decimal.Decimal, error)
	Delete(ctx context.Context, orderID string) error
}

type OrderItemRepository interface {
	// Upsert adds quantity to an existing (order, provider, item) row and refreshes its price.
	Upsert(ctx context.Context, item *models.OrderItem) error
	Insert(ctx context.Context, item *models.OrderItem) error
	FindByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
	FindByOrderAndOffering(ctx context.Context, orderID, providerID, itemID string) (*models.OrderItem, error)
	FindDetailsByOrderIDs(ctx context.Context, orderIDs []string) ([]models.OrderItemDetail, error)
	FindCartItem(ctx context.Context, guestID, orderItemID string) (*models.OrderItem, error)
	Update(ctx context.Context, item *models.OrderItem) error
	DeleteCartItem(ctx context.Context, guestID, orderItemID string) (int64, error)
	MoveToOrder(ctx context.Context, orderItemIDs []string, orderID string) error
	FindBookedSlots(ctx context.Context, providerID string, from, to time.Time) ([]models.BookedSlot, error)
	ExistsForProvider(ctx context.Context, orderID, providerID string) (bool, error)
}

type OrderEventRepository interface {
	InsertMany(ctx context.Context, events []models.OrderEvent) error
	FindByOrderIDs(ctx context.Context, orderIDs []string) ([]models.OrderEvent, error)
}

type TransactionReferenceRepository interface {
	Create(ctx context.Context, reference *models.TransactionReference) error
	FindByReference(ctx context.Context, reference string) (*models.TransactionReference, error)
	FindByInternalReference(ctx context.Context, internalReference string) (*models.TransactionReference, error)
}

// InventoryService reserves and releases offering stock for a whole sub-order.
type InventoryService interface {
	Reserve(ctx context.Context, order *models.Order, items []models.OrderItem) error
	Release(ctx context.Context, order *models.Order) error
}
