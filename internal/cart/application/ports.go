package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ourstore/ourstore-backend/internal/cart/domain"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	// ErrConflict reports a lost update detected by the version check.
	// It is surfaced to the caller; the service never retries internally.
	ErrConflict = errors.New("cart was modified concurrently")
)

type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

type CartRepository interface {
	// GetByOwner returns ErrCartNotFound when the owner has no cart yet.
	GetByOwner(ctx context.Context, ownerID string) (domain.Cart, error)
	Create(ctx context.Context, cart domain.Cart) error
	// Save rewrites the aggregate (lines and totals) atomically, guarded by
	// the cart's version. Returns the stored cart with the bumped version,
	// or ErrConflict when the version no longer matches.
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}

type ProductLookup interface {
	Resolve(ctx context.Context, productID string) (Product, error)
}

type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}
