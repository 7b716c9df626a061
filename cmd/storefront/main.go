package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/ourstore/ourstore-backend/internal/cart/application"
	cartadapter "github.com/ourstore/ourstore-backend/internal/cart/infrastructure/adapter"
	carthttp "github.com/ourstore/ourstore-backend/internal/cart/infrastructure/http"
	cartpg "github.com/ourstore/ourstore-backend/internal/cart/infrastructure/postgres"
	catalogapp "github.com/ourstore/ourstore-backend/internal/catalog/application"
	catalogpg "github.com/ourstore/ourstore-backend/internal/catalog/infrastructure/postgres"
	catalogredis "github.com/ourstore/ourstore-backend/internal/catalog/infrastructure/redis"
	orderapp "github.com/ourstore/ourstore-backend/internal/order/application"
	orderadapter "github.com/ourstore/ourstore-backend/internal/order/infrastructure/adapter"
	orderhttp "github.com/ourstore/ourstore-backend/internal/order/infrastructure/http"
	orderkafka "github.com/ourstore/ourstore-backend/internal/order/infrastructure/kafka"
	orderpg "github.com/ourstore/ourstore-backend/internal/order/infrastructure/postgres"
	"github.com/ourstore/ourstore-backend/internal/user"
	"github.com/ourstore/ourstore-backend/pkg/config"
	"github.com/ourstore/ourstore-backend/pkg/idempotency"
	"github.com/ourstore/ourstore-backend/pkg/logging"
	"github.com/ourstore/ourstore-backend/pkg/outbox"
	"github.com/ourstore/ourstore-backend/pkg/shutdown"
	"github.com/ourstore/ourstore-backend/pkg/tracing"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// money fields serialise as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	tp, err := tracing.Init(ctx, "ourstore-backend", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

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

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	writer := orderkafka.NewWriter(cfg.KafkaBrokers)
	defer writer.Close()

	// collaborators
	users := user.NewStore(pool)
	productRepo := catalogpg.NewRepository(log, pool)
	productCache := catalogredis.NewCache(log, rdb, productRepo, 5*time.Minute)
	catalogSvc := catalogapp.NewService(productCache)

	// cart
	cartRepo := cartpg.NewRepository(log, pool)
	cartSvc := cartapp.NewService(cartRepo, cartadapter.NewCatalogLookup(catalogSvc), users)
	cartHandler := carthttp.NewHandler(log, cartSvc)

	// orders + outbox relay
	orderRepo := orderpg.NewRepository(log, pool)
	orderSvc := orderapp.NewService(orderRepo, orderadapter.NewCartGateway(cartRepo), users)
	orderHandler := orderhttp.NewHandler(log, orderSvc)

	store := orderpg.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, store, dispatch, "storefront-relay")

	idem := idempotency.NewStore(rdb, 24*time.Hour)

	r := chi.NewRouter()
	r.Use(idempotency.Middleware(log, idem))
	r.Mount("/cart", cartHandler.Routes())
	r.Mount("/orders", orderHandler.Routes())
	r.Mount("/admin/orders", orderHandler.AdminRoutes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relay.Run(gctx)
	})
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", "err", err)
	}
	log.Info("storefront shutdown complete")
}
