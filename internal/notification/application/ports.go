package application

import (
	"context"

	"github.com/ourstore/ourstore-backend/internal/notification/domain"
)

// NotificationLog persists rendered notifications.
type NotificationLog interface {
	Record(ctx context.Context, n domain.Notification) error
}
