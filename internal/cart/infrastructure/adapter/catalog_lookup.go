package adapter

import (
	"context"
	"errors"

	cartapp "github.com/ourstore/ourstore-backend/internal/cart/application"
	catalogapp "github.com/ourstore/ourstore-backend/internal/catalog/application"
	catalogdomain "github.com/ourstore/ourstore-backend/internal/catalog/domain"
)

// CatalogLookup adapts the catalog service to the cart's ProductLookup port.
type CatalogLookup struct {
	catalog *catalogapp.Service
}

func NewCatalogLookup(catalog *catalogapp.Service) *CatalogLookup {
	return &CatalogLookup{catalog: catalog}
}

func (a *CatalogLookup) Resolve(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := a.catalog.Resolve(ctx, productID)
	if errors.Is(err, catalogdomain.ErrNotFound) {
		return cartapp.Product{}, cartapp.ErrProductNotFound
	}
	if err != nil {
		return cartapp.Product{}, err
	}
	return cartapp.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
	}, nil
}
