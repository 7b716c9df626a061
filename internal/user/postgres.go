package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the identity collaborator. The core only needs existence checks;
// Get and Upsert exist for the seed step and the admin surface.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, id).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `SELECT id, email, name, role FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) Upsert(ctx context.Context, u User) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO users (id, email, name, role)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET email=$2, name=$3, role=$4`,
		u.ID, u.Email, u.Name, u.Role)
	return err
}
