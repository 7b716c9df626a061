package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ourstore/ourstore-backend/internal/cart/application"
	"github.com/ourstore/ourstore-backend/internal/cart/domain"
	"github.com/ourstore/ourstore-backend/pkg/web"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("cart-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/{userID}", h.getCart)
	r.Post("/{userID}/items", h.addItem)
	r.Delete("/{userID}/items/{itemID}", h.removeItem)
	r.Delete("/{userID}", h.clearCart)
	return r
}

type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type productResp struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

type cartItemResp struct {
	ID        string          `json:"id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Product   productResp     `json:"product"`
}

type cartResp struct {
	ID         string          `json:"id"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CartItems  []cartItemResp  `json:"cartItems"`
}

func toCartResp(c domain.Cart) cartResp {
	resp := cartResp{
		ID:         c.ID,
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
		CartItems:  make([]cartItemResp, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		resp.CartItems = append(resp.CartItems, cartItemResp{
			ID:        l.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Product: productResp{
				ID:       l.Product.ID,
				Name:     l.Product.Name,
				Price:    l.Product.Price,
				ImageURL: l.Product.ImageURL,
			},
		})
	}
	return resp
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	cart, err := h.service.GetOrCreateCart(ctx, chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, toCartResp(cart))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddItem")
	defer span.End()

	var req addItemReq
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.ProductID == "" {
		web.Message(w, http.StatusBadRequest, "productId is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.service.AddItem(ctx, chi.URLParam(r, "userID"), req.ProductID, quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, toCartResp(cart))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveItem")
	defer span.End()

	cart, err := h.service.RemoveItem(ctx, chi.URLParam(r, "userID"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, toCartResp(cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClearCart")
	defer span.End()

	if err := h.service.ClearCart(ctx, chi.URLParam(r, "userID")); err != nil {
		h.writeError(w, err)
		return
	}
	web.Message(w, http.StatusOK, "Cart cleared")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidQuantity):
		web.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrProductNotFound),
		errors.Is(err, application.ErrCartNotFound),
		errors.Is(err, domain.ErrLineNotFound):
		web.Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrConflict):
		web.Message(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("cart request failed", "err", err)
		web.Message(w, http.StatusInternalServerError, "internal error")
	}
}
