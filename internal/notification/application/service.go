package application

import (
	"context"
	"log/slog"

	"github.com/ourstore/ourstore-backend/internal/notification/domain"
	orderdomain "github.com/ourstore/ourstore-backend/internal/order/domain"
)

// Service turns order events into customer notifications. Delivery is a log
// entry plus the persisted record; a real mail sender would hang off the same
// path.
type Service struct {
	log     *slog.Logger
	records NotificationLog
}

func NewService(log *slog.Logger, records NotificationLog) *Service {
	return &Service{log: log, records: records}
}

func (s *Service) HandleOrderPlaced(ctx context.Context, ev orderdomain.OrderPlaced) error {
	return s.deliver(ctx, domain.FromOrderPlaced(ev))
}

func (s *Service) HandleStatusChange(ctx context.Context, ev orderdomain.OrderStatusChanged) error {
	return s.deliver(ctx, domain.FromStatusChange(ev))
}

func (s *Service) deliver(ctx context.Context, n domain.Notification) error {
	if err := s.records.Record(ctx, n); err != nil {
		return err
	}
	s.log.Info("notification sent",
		"channel", n.Channel, "order_id", n.OrderID, "subject", n.Subject)
	return nil
}
