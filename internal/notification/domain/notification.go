package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	orderdomain "github.com/ourstore/ourstore-backend/internal/order/domain"
)

const ChannelEmail = "email"

// Notification is one rendered customer message, kept as an audit record.
type Notification struct {
	ID        string
	OrderID   string
	UserID    string
	Channel   string
	Subject   string
	Body      string
	CreatedAt time.Time
}

func FromOrderPlaced(ev orderdomain.OrderPlaced) Notification {
	return Notification{
		ID:      uuid.NewString(),
		OrderID: ev.OrderID,
		UserID:  ev.UserID,
		Channel: ChannelEmail,
		Subject: "Your order is confirmed",
		Body: fmt.Sprintf("Order %s was placed: %d item(s), total %s.",
			ev.OrderID, ev.TotalQuantity, ev.TotalPrice.StringFixed(2)),
		CreatedAt: time.Now().UTC(),
	}
}

func FromStatusChange(ev orderdomain.OrderStatusChanged) Notification {
	return Notification{
		ID:      uuid.NewString(),
		OrderID: ev.OrderID,
		Channel: ChannelEmail,
		Subject: "Your order was updated",
		Body: fmt.Sprintf("Order %s moved from %s to %s.",
			ev.OrderID, ev.From, ev.To),
		CreatedAt: time.Now().UTC(),
	}
}
