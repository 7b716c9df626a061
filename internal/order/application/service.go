package application

import (
	"context"
	"encoding/json"

	"github.com/ourstore/ourstore-backend/internal/order/domain"
)

type Service struct {
	repo  OrderRepository
	carts CartGateway
	users UserDirectory
}

func NewService(repo OrderRepository, carts CartGateway, users UserDirectory) *Service {
	return &Service{repo: repo, carts: carts, users: users}
}

// PlaceOrder converts the owner's cart into an immutable order exactly once.
// Lines are snapshotted at their captured prices; the catalog is not
// consulted. The order insert and the cart clear commit as one unit, so a
// failure leaves the cart exactly as it was.
func (s *Service) PlaceOrder(ctx context.Context, ownerID string) (string, error) {
	ok, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrUserNotFound
	}

	snap, found, err := s.carts.GetByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if !found || len(snap.Lines) == 0 {
		return "", ErrEmptyCart
	}

	items := make([]domain.Item, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		items = append(items, domain.Item{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	o := domain.New(ownerID, items)

	evt := domain.OrderPlaced{
		OrderID:       o.ID,
		UserID:        o.UserID,
		TotalQuantity: o.TotalQuantity,
		TotalPrice:    o.TotalPrice,
		Items:         make([]domain.OrderPlacedItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		evt.Items = append(evt.Items, domain.OrderPlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", err
	}

	if err := s.repo.SaveOrderAndClearCart(ctx, o, snap.ID, snap.Version, "OrderPlaced", payload); err != nil {
		return "", err
	}
	return o.ID, nil
}

func (s *Service) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	ok, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.repo.ListByUser(ctx, ownerID)
}

func (s *Service) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

// UpdateStatus applies a status transition. Unknown values and jumps outside
// the adjacency graph are rejected before anything is persisted.
func (s *Service) UpdateStatus(ctx context.Context, orderID, rawStatus string) (domain.Order, error) {
	target, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return domain.Order{}, err
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	from := o.Status
	if err := o.TransitionTo(target); err != nil {
		return domain.Order{}, err
	}

	payload, err := json.Marshal(domain.OrderStatusChanged{OrderID: o.ID, From: from, To: target})
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.UpdateStatus(ctx, o.ID, from, target, "OrderStatusChanged", payload); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
