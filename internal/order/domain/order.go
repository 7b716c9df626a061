package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var (
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// transitions is the legal adjacency graph. DELIVERED and CANCELLED are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Item is a price-frozen snapshot of a cart line. It is never mutated after
// the order is created, regardless of later catalog price changes.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is immutable except for Status. Totals are computed once at creation
// and never recomputed.
type Order struct {
	ID            string
	UserID        string
	Items         []Item
	TotalQuantity int
	TotalPrice    decimal.Decimal
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(userID string, items []Item) Order {
	qty := 0
	total := decimal.Zero
	for _, it := range items {
		qty += it.Quantity
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	now := time.Now().UTC()
	return Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         items,
		TotalQuantity: qty,
		TotalPrice:    total.RoundBank(2),
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (o *Order) TransitionTo(target Status) error {
	if _, ok := transitions[target]; !ok {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now().UTC()
	return nil
}
