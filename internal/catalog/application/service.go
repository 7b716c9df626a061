package application

import (
	"context"

	"github.com/ourstore/ourstore-backend/internal/catalog/domain"
)

type Service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the current product for a cart line. Products flagged
// unavailable resolve as not found so they cannot enter a cart.
func (s *Service) Resolve(ctx context.Context, productID string) (domain.Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.Available {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}
