package adapter

import (
	"context"
	"errors"

	cartapp "github.com/ourstore/ourstore-backend/internal/cart/application"
	cartpg "github.com/ourstore/ourstore-backend/internal/cart/infrastructure/postgres"
	orderapp "github.com/ourstore/ourstore-backend/internal/order/application"
)

// CartGateway reads cart aggregates for checkout without exposing the cart
// context's types to the order service.
type CartGateway struct {
	repo *cartpg.Repository
}

func NewCartGateway(repo *cartpg.Repository) *CartGateway {
	return &CartGateway{repo: repo}
}

func (g *CartGateway) GetByOwner(ctx context.Context, ownerID string) (orderapp.CartSnapshot, bool, error) {
	c, err := g.repo.GetByOwner(ctx, ownerID)
	if errors.Is(err, cartapp.ErrCartNotFound) {
		return orderapp.CartSnapshot{}, false, nil
	}
	if err != nil {
		return orderapp.CartSnapshot{}, false, err
	}

	snap := orderapp.CartSnapshot{
		ID:      c.ID,
		Version: c.Version,
		Lines:   make([]orderapp.CartLine, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		snap.Lines = append(snap.Lines, orderapp.CartLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return snap, true, nil
}
