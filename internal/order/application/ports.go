package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ourstore/ourstore-backend/internal/order/domain"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")
	// ErrConflict reports that the cart changed between the checkout read and
	// the atomic write, or that an order status update raced another one.
	ErrConflict = errors.New("concurrent modification detected")
)

// CartSnapshot is the checkout's read of a live cart: enough to freeze lines
// into an order and to clear the exact version that was read.
type CartSnapshot struct {
	ID      string
	Version int64
	Lines   []CartLine
}

type CartLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

type CartGateway interface {
	// GetByOwner returns found=false when the owner has no cart.
	GetByOwner(ctx context.Context, ownerID string) (CartSnapshot, bool, error)
}

type OrderRepository interface {
	// SaveOrderAndClearCart persists the order, empties the cart and writes
	// the outbox row in one transaction. The cart row is locked and its
	// version compared against cartVersion; a mismatch yields ErrConflict
	// and nothing is applied.
	SaveOrderAndClearCart(ctx context.Context, o domain.Order, cartID string, cartVersion int64, eventType string, payload []byte) error
	Get(ctx context.Context, orderID string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus persists the transition guarded by the expected current
	// status, writing the outbox row in the same transaction.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.Status, eventType string, payload []byte) error
}

type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}
