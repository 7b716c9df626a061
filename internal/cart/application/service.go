package application

import (
	"context"
	"errors"

	"github.com/ourstore/ourstore-backend/internal/cart/domain"
)

// Service owns all cart mutations. Every mutation recomputes the cached
// totals before persisting, so callers never observe a cart whose totals
// disagree with its lines.
type Service struct {
	repo     CartRepository
	products ProductLookup
	users    UserDirectory
}

func NewService(repo CartRepository, products ProductLookup, users UserDirectory) *Service {
	return &Service{repo: repo, products: products, users: users}
}

// GetOrCreateCart lazily creates the owner's cart on first access. Idempotent.
func (s *Service) GetOrCreateCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	ok, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !ok {
		return domain.Cart{}, ErrUserNotFound
	}

	cart, err := s.repo.GetByOwner(ctx, ownerID)
	if errors.Is(err, ErrCartNotFound) {
		cart = domain.NewCart(ownerID)
		if err := s.repo.Create(ctx, cart); err != nil {
			return domain.Cart{}, err
		}
		return cart, nil
	}
	return cart, err
}

func (s *Service) AddItem(ctx context.Context, ownerID, productID string, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	cart, err := s.GetOrCreateCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, err
	}

	p, err := s.products.Resolve(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart.MergeLine(domain.ProductView{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
	}, quantity)

	return s.repo.Save(ctx, cart)
}

func (s *Service) RemoveItem(ctx context.Context, ownerID, lineID string) (domain.Cart, error) {
	cart, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := cart.RemoveLine(lineID); err != nil {
		return domain.Cart{}, err
	}
	return s.repo.Save(ctx, cart)
}

// ClearCart empties the cart and zeroes its totals. Idempotent.
func (s *Service) ClearCart(ctx context.Context, ownerID string) error {
	cart, err := s.GetOrCreateCart(ctx, ownerID)
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		return nil
	}
	cart.Clear()
	_, err = s.repo.Save(ctx, cart)
	return err
}
