package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ourstore/ourstore-backend/pkg/web"
)

// Checker answers whether an idempotency key was already used.
type Checker interface {
	Seen(ctx context.Context, key string) (bool, error)
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, "idem:"+key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// MessageKey identifies a consumed kafka message for duplicate detection.
func MessageKey(topic string, partition int, offset int64) string {
	return fmt.Sprintf("kafka:%s:%d:%d", topic, partition, offset)
}

// Middleware rejects a repeated POST carrying an Idempotency-Key the store
// has seen. Requests without the header pass through untouched, and a store
// failure fails open: dropping the guard is preferable to dropping checkout.
func Middleware(log *slog.Logger, store Checker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			seen, err := store.Seen(r.Context(), "http:"+key)
			if err != nil {
				log.Warn("idempotency check failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				web.Message(w, http.StatusConflict, "duplicate request")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
