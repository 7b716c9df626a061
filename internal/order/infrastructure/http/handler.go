package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ourstore/ourstore-backend/internal/order/application"
	"github.com/ourstore/ourstore-backend/internal/order/domain"
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
		tracer:  otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/{userID}", h.placeOrder)
	r.Get("/{userID}", h.listOrders)
	return r
}

// AdminRoutes is mounted behind whatever gate the deployment fronts admin
// traffic with; the service itself does not do role checks.
func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listAllOrders)
	r.Get("/{orderID}", h.getOrder)
	r.Put("/{orderID}/status", h.updateStatus)
	return r
}

type updateStatusReq struct {
	Status string `json:"status"`
}

type orderItemResp struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type orderResp struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        string          `json:"status"`
	OrderDate     time.Time       `json:"orderDate"`
	OrderItems    []orderItemResp `json:"orderItems"`
}

func toOrderResp(o domain.Order) orderResp {
	resp := orderResp{
		ID:            o.ID,
		UserID:        o.UserID,
		TotalQuantity: o.TotalQuantity,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		OrderDate:     o.CreatedAt,
		OrderItems:    make([]orderItemResp, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.OrderItems = append(resp.OrderItems, orderItemResp{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return resp
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	orderID, err := h.service.PlaceOrder(ctx, chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, application.ErrEmptyCart) {
			web.Message(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		h.writeError(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, map[string]string{
		"message": "Order placed successfully",
		"orderId": orderID,
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	orders, err := h.service.ListOrders(ctx, chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeOrders(w, orders)
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListAllOrders")
	defer span.End()

	orders, err := h.service.ListAllOrders(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeOrders(w, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, toOrderResp(o))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	var req updateStatusReq
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, "invalid body")
		return
	}

	o, err := h.service.UpdateStatus(ctx, chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]string{
		"message": "Order status updated",
		"orderId": o.ID,
		"status":  string(o.Status),
	})
}

func (h *Handler) writeOrders(w http.ResponseWriter, orders []domain.Order) {
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	web.JSON(w, http.StatusOK, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		web.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrOrderNotFound),
		errors.Is(err, application.ErrUserNotFound):
		web.Message(w, http.StatusNotFound, err.Error())
	// a known status that the graph forbids from the current state is a
	// conflict with that state, not a malformed request
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, application.ErrConflict):
		web.Message(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("order request failed", "err", err)
		web.Message(w, http.StatusInternalServerError, "internal error")
	}
}
