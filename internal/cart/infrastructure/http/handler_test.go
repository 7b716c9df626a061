package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourstore/ourstore-backend/internal/cart/application"
	"github.com/ourstore/ourstore-backend/internal/cart/domain"
)

type memCartRepo struct {
	carts map[string]domain.Cart
}

func (r *memCartRepo) GetByOwner(_ context.Context, ownerID string) (domain.Cart, error) {
	c, ok := r.carts[ownerID]
	if !ok {
		return domain.Cart{}, application.ErrCartNotFound
	}
	return c, nil
}

func (r *memCartRepo) Create(_ context.Context, c domain.Cart) error {
	r.carts[c.OwnerID] = c
	return nil
}

func (r *memCartRepo) Save(_ context.Context, c domain.Cart) (domain.Cart, error) {
	c.Version++
	r.carts[c.OwnerID] = c
	return c, nil
}

type memLookup map[string]application.Product

func (l memLookup) Resolve(_ context.Context, id string) (application.Product, error) {
	p, ok := l[id]
	if !ok {
		return application.Product{}, application.ErrProductNotFound
	}
	return p, nil
}

type allUsers struct{}

func (allUsers) Exists(context.Context, string) (bool, error) { return true, nil }

func newTestHandler() *Handler {
	decimal.MarshalJSONWithoutQuotes = true
	repo := &memCartRepo{carts: make(map[string]domain.Cart)}
	lookup := memLookup{
		"prod-a": {ID: "prod-a", Name: "Keyboard", Price: decimal.RequireFromString("10.00"), ImageURL: "/img/a.png"},
	}
	svc := application.NewService(repo, lookup, allUsers{})
	return NewHandler(slog.New(slog.DiscardHandler), svc)
}

func TestGetCartCreatesLazily(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/user-1", nil)
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var resp cartResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 0, resp.TotalItems)
	assert.Empty(t, resp.CartItems)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/user-1/items", strings.NewReader(`{"productId":"prod-a"}`))
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var resp cartResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.CartItems, 1)
	assert.Equal(t, 1, resp.CartItems[0].Quantity)
	assert.Equal(t, "Keyboard", resp.CartItems[0].Product.Name)
	assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("10.00")),
		"totalPrice = %s", resp.TotalPrice)
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/user-1/items", strings.NewReader(`{"productId":"prod-a","quantity":0}`))
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestAddItemUnknownProduct(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/user-1/items", strings.NewReader(`{"productId":"ghost"}`))
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, 404, rec.Code)
}

func TestAddItemMalformedBody(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/user-1/items", strings.NewReader(`{"productId":`))
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestRemoveItemStaleID(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/user-1/items", strings.NewReader(`{"productId":"prod-a"}`))
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/user-1/items/stale-id", nil)
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, 404, rec.Code)
}

func TestClearCart(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/user-1/items", strings.NewReader(`{"productId":"prod-a","quantity":2}`))
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/user-1", nil)
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"message":"Cart cleared"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/user-1", nil)
	h.Routes().ServeHTTP(rec, req)
	var resp cartResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalItems)
	assert.True(t, resp.TotalPrice.IsZero())
	assert.Empty(t, resp.CartItems)
}
