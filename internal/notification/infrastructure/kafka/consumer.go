package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ourstore/ourstore-backend/internal/notification/application"
	orderdomain "github.com/ourstore/ourstore-backend/internal/order/domain"
	"github.com/ourstore/ourstore-backend/pkg/idempotency"
	"github.com/ourstore/ourstore-backend/pkg/tracing"
)

// Consumer reads the order event stream and hands each event to the
// notification service. Delivery is at most once: the redis guard claims the
// offset before handling, so a redelivered message whose first handling
// failed is skipped rather than sent twice. Offsets commit even when
// handling fails.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   idempotency.Checker
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem idempotency.Checker) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("notification-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		key := idempotency.MessageKey(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate message skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderEvent")
		c.handle(msgCtx, headerValue(msg.Headers, "event_type"), msg.Value)
		span.End()

		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, eventType string, value []byte) {
	switch eventType {
	case "OrderPlaced":
		var ev orderdomain.OrderPlaced
		if err := json.Unmarshal(value, &ev); err != nil {
			c.log.Error("unmarshal failed", "event_type", eventType, "err", err)
			return
		}
		if err := c.svc.HandleOrderPlaced(ctx, ev); err != nil {
			c.log.Error("notify failed", "order_id", ev.OrderID, "err", err)
		}
	case "OrderStatusChanged":
		var ev orderdomain.OrderStatusChanged
		if err := json.Unmarshal(value, &ev); err != nil {
			c.log.Error("unmarshal failed", "event_type", eventType, "err", err)
			return
		}
		if err := c.svc.HandleStatusChange(ctx, ev); err != nil {
			c.log.Error("notify failed", "order_id", ev.OrderID, "err", err)
		}
	default:
		c.log.Warn("unknown event type", "event_type", eventType)
	}
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
