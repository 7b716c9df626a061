package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ourstore/ourstore-backend/internal/catalog/application"
	"github.com/ourstore/ourstore-backend/internal/catalog/domain"
)

// Cache is a read-through decorator over the product repository. Failures
// talking to redis degrade to a plain repository read, never to an error.
type Cache struct {
	log  *slog.Logger
	rdb  *redis.Client
	next application.ProductRepository
	ttl  time.Duration
}

func NewCache(log *slog.Logger, rdb *redis.Client, next application.ProductRepository, ttl time.Duration) *Cache {
	return &Cache{log: log, rdb: rdb, next: next, ttl: ttl}
}

type cachedProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Available   bool            `json:"available"`
}

func cacheKey(id string) string { return "product:" + id }

func (c *Cache) Get(ctx context.Context, id string) (domain.Product, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var cp cachedProduct
		if err := json.Unmarshal(raw, &cp); err == nil {
			return domain.Product{
				ID:          cp.ID,
				Name:        cp.Name,
				Description: cp.Description,
				Price:       cp.Price,
				ImageURL:    cp.ImageURL,
				Available:   cp.Available,
			}, nil
		}
	} else if err != redis.Nil {
		c.log.Warn("product cache read failed", "product_id", id, "err", err)
	}

	p, err := c.next.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	raw, err = json.Marshal(cachedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
	})
	if err == nil {
		if err := c.rdb.Set(ctx, cacheKey(p.ID), raw, c.ttl).Err(); err != nil {
			c.log.Warn("product cache write failed", "product_id", id, "err", err)
		}
	}
	return p, nil
}
