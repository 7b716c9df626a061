package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourstore/ourstore-backend/internal/cart/application"
	"github.com/ourstore/ourstore-backend/internal/cart/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) GetByOwner(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, total_items, total_price, version, created_at, updated_at
		FROM carts WHERE user_id=$1`, ownerID).
		Scan(&c.ID, &c.OwnerID, &c.TotalItems, &c.TotalPrice, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, application.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT ci.id, ci.product_id, ci.quantity, ci.unit_price,
			p.name, p.price, p.image_url
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id=$1
		ORDER BY ci.id`, c.ID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.UnitPrice,
			&l.Product.Name, &l.Product.Price, &l.Product.ImageURL); err != nil {
			return domain.Cart{}, err
		}
		l.Product.ID = l.ProductID
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// Create persists a fresh cart at the version the aggregate carries, so the
// copy handed back to the caller matches the stored row.
func (r *Repository) Create(ctx context.Context, c domain.Cart) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO carts (id, user_id, total_items, total_price, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.OwnerID, c.TotalItems, c.TotalPrice, c.Version, c.CreatedAt, c.UpdatedAt)
	return err
}

// Save rewrites the line set and the cached totals in one transaction. The
// version guard on the carts row turns a lost update into ErrConflict.
func (r *Repository) Save(ctx context.Context, c domain.Cart) (domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Cart{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	now := time.Now().UTC()
	ct, err := tx.Exec(ctx, `UPDATE carts SET total_items=$2, total_price=$3, version=version+1, updated_at=$4
		WHERE id=$1 AND version=$5`,
		c.ID, c.TotalItems, c.TotalPrice, now, c.Version)
	if err != nil {
		return domain.Cart{}, err
	}
	if ct.RowsAffected() == 0 {
		return domain.Cart{}, application.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, c.ID); err != nil {
		return domain.Cart{}, err
	}

	batch := &pgx.Batch{}
	for _, l := range c.Lines {
		batch.Queue(`INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5)`,
			l.ID, c.ID, l.ProductID, l.Quantity, l.UnitPrice)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Cart{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Cart{}, err
	}

	c.Version++
	c.UpdatedAt = now
	return c, nil
}
