package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	notifapp "github.com/ourstore/ourstore-backend/internal/notification/application"
	notifkafka "github.com/ourstore/ourstore-backend/internal/notification/infrastructure/kafka"
	notifpg "github.com/ourstore/ourstore-backend/internal/notification/infrastructure/postgres"
	"github.com/ourstore/ourstore-backend/pkg/config"
	"github.com/ourstore/ourstore-backend/pkg/idempotency"
	"github.com/ourstore/ourstore-backend/pkg/logging"
	"github.com/ourstore/ourstore-backend/pkg/shutdown"
	"github.com/ourstore/ourstore-backend/pkg/tracing"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "ourstore-notifier", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	svc := notifapp.NewService(log, notifpg.NewRepository(log, pool))
	idem := idempotency.NewStore(rdb, 24*time.Hour)
	consumer := notifkafka.NewConsumer(log, cfg.KafkaBrokers, cfg.OutboxTopic, "notifier", svc, idem)

	log.Info("notifier consuming", "topic", cfg.OutboxTopic, "brokers", cfg.KafkaBrokers)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("notifier shutdown complete")
}
