// Command seed applies the schema and inserts the baseline data set: the
// admin user and the starter catalog. It is safe to run on every deploy.
package main

import (
	"context"
	"os"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ourstore/ourstore-backend/internal/schema"
	"github.com/ourstore/ourstore-backend/internal/user"
	"github.com/ourstore/ourstore-backend/pkg/config"
	"github.com/ourstore/ourstore-backend/pkg/logging"
)

const adminID = "a0000000-0000-4000-8000-000000000001"

type seedProduct struct {
	id          string
	name        string
	description string
	price       string
	imageURL    string
}

var products = []seedProduct{
	{"b0000000-0000-4000-8000-000000000001", "Mechanical Keyboard", "Tenkeyless, brown switches", "89.90", "/img/keyboard.png"},
	{"b0000000-0000-4000-8000-000000000002", "Wireless Mouse", "Ergonomic, 2.4GHz", "34.50", "/img/mouse.png"},
	{"b0000000-0000-4000-8000-000000000003", "USB-C Hub", "7-in-1, HDMI + PD", "45.00", "/img/hub.png"},
	{"b0000000-0000-4000-8000-000000000004", "27\" Monitor", "QHD IPS, 144Hz", "299.00", "/img/monitor.png"},
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		log.Error("pg config invalid", "err", err)
		os.Exit(1)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := schema.Apply(ctx, pool); err != nil {
		log.Error("schema apply failed", "err", err)
		os.Exit(1)
	}
	log.Info("schema applied")

	users := user.NewStore(pool)
	if err := users.Upsert(ctx, user.User{
		ID:    adminID,
		Email: "admin@ourstore.local",
		Name:  "Store Admin",
		Role:  "ADMIN",
	}); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	for _, p := range products {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			log.Error("bad seed price", "product", p.name, "err", err)
			os.Exit(1)
		}
		_, err = pool.Exec(ctx, `INSERT INTO products (id, name, description, price, image_url, available)
			VALUES ($1,$2,$3,$4,$5,TRUE)
			ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, p.description, price, p.imageURL)
		if err != nil {
			log.Error("product seed failed", "product", p.name, "err", err)
			os.Exit(1)
		}
	}

	log.Info("seed complete", "products", len(products))
}
