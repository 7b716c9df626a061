package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourstore/ourstore-backend/internal/notification/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Record(ctx context.Context, n domain.Notification) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO notifications (id, order_id, user_id, channel, subject, body, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		n.ID, n.OrderID, n.UserID, n.Channel, n.Subject, n.Body, n.CreatedAt)
	return err
}
