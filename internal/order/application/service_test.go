package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ourstore/ourstore-backend/internal/order/domain"
)

type fakeOrderRepo struct {
	orders map[string]domain.Order

	savedCartID      string
	savedCartVersion int64
	savedEventType   string
	savedPayload     []byte
	saveCalls        int
	saveErr          error

	statusEventType string
	statusPayload   []byte
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]domain.Order)}
}

func (r *fakeOrderRepo) SaveOrderAndClearCart(_ context.Context, o domain.Order, cartID string, cartVersion int64, eventType string, payload []byte) error {
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.orders[o.ID] = o
	r.savedCartID = cartID
	r.savedCartVersion = cartVersion
	r.savedEventType = eventType
	r.savedPayload = payload
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, from, to domain.Status, eventType string, payload []byte) error {
	o, ok := r.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != from {
		return ErrConflict
	}
	o.Status = to
	r.orders[orderID] = o
	r.statusEventType = eventType
	r.statusPayload = payload
	return nil
}

type fakeCarts struct {
	snap  CartSnapshot
	found bool
}

func (c *fakeCarts) GetByOwner(context.Context, string) (CartSnapshot, bool, error) {
	return c.snap, c.found, nil
}

type knownUsers map[string]bool

func (u knownUsers) Exists(_ context.Context, id string) (bool, error) { return u[id], nil }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const owner = "user-1"

func filledCart() CartSnapshot {
	return CartSnapshot{
		ID:      "cart-1",
		Version: 3,
		Lines: []CartLine{
			{ProductID: "prod-a", Quantity: 5, UnitPrice: dec("10.00")},
			{ProductID: "prod-b", Quantity: 1, UnitPrice: dec("5.00")},
		},
	}
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	repo := newFakeOrderRepo()
	carts := &fakeCarts{snap: filledCart(), found: true}
	svc := NewService(repo, carts, knownUsers{owner: true})

	id, err := svc.PlaceOrder(context.Background(), owner)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	o := repo.orders[id]
	if o.TotalQuantity != 6 || !o.TotalPrice.Equal(dec("55.00")) {
		t.Fatalf("order totals %d/%s, want 6/55.00", o.TotalQuantity, o.TotalPrice)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("status = %s, want PENDING", o.Status)
	}
	if len(o.Items) != 2 || !o.Items[0].UnitPrice.Equal(dec("10.00")) {
		t.Fatalf("items not snapshotted verbatim: %+v", o.Items)
	}
	// the clear must target exactly the cart version that was read
	if repo.savedCartID != "cart-1" || repo.savedCartVersion != 3 {
		t.Fatalf("cleared cart %s@%d, want cart-1@3", repo.savedCartID, repo.savedCartVersion)
	}
	if repo.savedEventType != "OrderPlaced" {
		t.Fatalf("event type = %s", repo.savedEventType)
	}
	var evt domain.OrderPlaced
	if err := json.Unmarshal(repo.savedPayload, &evt); err != nil {
		t.Fatalf("outbox payload: %v", err)
	}
	if evt.OrderID != id || evt.TotalQuantity != 6 {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	repo := newFakeOrderRepo()
	carts := &fakeCarts{snap: CartSnapshot{ID: "cart-1", Version: 1}, found: true}
	svc := NewService(repo, carts, knownUsers{owner: true})

	if _, err := svc.PlaceOrder(context.Background(), owner); err != ErrEmptyCart {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if repo.saveCalls != 0 {
		t.Fatal("empty-cart checkout must not touch the repository")
	}
}

func TestPlaceOrderNoCart(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCarts{found: false}, knownUsers{owner: true})

	if _, err := svc.PlaceOrder(context.Background(), owner); err != ErrEmptyCart {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestPlaceOrderUnknownUser(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCarts{snap: filledCart(), found: true}, knownUsers{})

	if _, err := svc.PlaceOrder(context.Background(), "ghost"); err != ErrUserNotFound {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestPlaceOrderConflictSurfaces(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.saveErr = ErrConflict
	svc := NewService(repo, &fakeCarts{snap: filledCart(), found: true}, knownUsers{owner: true})

	if _, err := svc.PlaceOrder(context.Background(), owner); err != ErrConflict {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if repo.saveCalls != 1 {
		t.Fatalf("save called %d times; conflicts must not be retried", repo.saveCalls)
	}
}

func TestPlaceOrderFreezesPrices(t *testing.T) {
	repo := newFakeOrderRepo()
	carts := &fakeCarts{snap: filledCart(), found: true}
	svc := NewService(repo, carts, knownUsers{owner: true})

	id, err := svc.PlaceOrder(context.Background(), owner)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// reprice the product after the order exists
	carts.snap.Lines[0].UnitPrice = dec("999.00")

	o := repo.orders[id]
	if !o.Items[0].UnitPrice.Equal(dec("10.00")) {
		t.Fatalf("order line price changed to %s after catalog reprice", o.Items[0].UnitPrice)
	}
	if !o.TotalPrice.Equal(dec("55.00")) {
		t.Fatalf("order total changed to %s", o.TotalPrice)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	carts := &fakeCarts{snap: filledCart(), found: true}
	svc := NewService(repo, carts, knownUsers{owner: true})

	id, err := svc.PlaceOrder(context.Background(), owner)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	o, err := svc.UpdateStatus(context.Background(), id, "PROCESSING")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if o.Status != domain.StatusProcessing {
		t.Fatalf("status = %s, want PROCESSING", o.Status)
	}
	if repo.statusEventType != "OrderStatusChanged" {
		t.Fatalf("event type = %s", repo.statusEventType)
	}
	var evt domain.OrderStatusChanged
	if err := json.Unmarshal(repo.statusPayload, &evt); err != nil {
		t.Fatalf("status payload: %v", err)
	}
	if evt.From != domain.StatusPending || evt.To != domain.StatusProcessing {
		t.Fatalf("unexpected event: %+v", evt)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCarts{}, knownUsers{})

	if _, err := svc.UpdateStatus(context.Background(), "any", "REFUNDED"); err != domain.ErrInvalidStatus {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatusRejectsIllegalJump(t *testing.T) {
	repo := newFakeOrderRepo()
	carts := &fakeCarts{snap: filledCart(), found: true}
	svc := NewService(repo, carts, knownUsers{owner: true})

	id, err := svc.PlaceOrder(context.Background(), owner)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), id, "DELIVERED"); err != domain.ErrInvalidTransition {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if repo.orders[id].Status != domain.StatusPending {
		t.Fatal("rejected transition must not persist")
	}
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCarts{}, knownUsers{})

	if _, err := svc.UpdateStatus(context.Background(), "ghost", "PROCESSING"); err != ErrOrderNotFound {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}
