package application

import (
	"context"

	"github.com/ourstore/ourstore-backend/internal/catalog/domain"
)

type ProductRepository interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}
