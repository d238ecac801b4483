package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/service"
	"github.com/ptaero/aerosite/internal/store"
)

// AdminOrdersHandler manages checked-out carts in the back office.
type AdminOrdersHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	carts    *service.CartService
}

// NewAdminOrdersHandler creates an AdminOrdersHandler.
func NewAdminOrdersHandler(db *sql.DB, renderer *render.Renderer, carts *service.CartService) *AdminOrdersHandler {
	return &AdminOrdersHandler{
		queries:  store.New(db),
		renderer: renderer,
		carts:    carts,
	}
}

// AdminOrdersData holds data for the order list template.
type AdminOrdersData struct {
	Orders []store.Cart
}

// List handles GET /admin/orders.
func (h *AdminOrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.queries.ListOrders(r.Context())
	if err != nil {
		slog.Error("failed to list orders", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.renderer.Render(w, r, "admin/orders", render.TemplateData{
		Title: "Orders",
		Data:  AdminOrdersData{Orders: orders},
	}); err != nil {
		slog.Error("failed to render order list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AdminOrderData holds data for the order detail template.
type AdminOrderData struct {
	Order store.Cart
	Items []store.CartItem
	Total decimal.Decimal
}

// Detail handles GET /admin/orders/{id}.
func (h *AdminOrdersHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	order, err := h.queries.GetCart(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	items, err := h.queries.ListCartItems(r.Context(), id)
	if err != nil {
		slog.Error("failed to list order items", "error", err, "order_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	if err := h.renderer.Render(w, r, "admin/order", render.TemplateData{
		Title: "Order",
		Data:  AdminOrderData{Order: order, Items: items, Total: total},
	}); err != nil {
		slog.Error("failed to render order", "error", err, "order_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// SetStatus handles POST /admin/orders/{id}/status: pending orders may be
// completed or cancelled.
func (h *AdminOrdersHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, "/admin/orders") {
		return
	}

	status := r.PostFormValue("status")
	switch status {
	case store.CartStatusCompleted, store.CartStatusCancelled:
	default:
		flashError(w, r, h.renderer, "/admin/orders", "Unknown order status")
		return
	}

	if err := h.carts.SetOrderStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			flashError(w, r, h.renderer, "/admin/orders", "That status change is not allowed")
			return
		}
		slog.Error("failed to update order status", "error", err, "order_id", id, "status", status)
		flashError(w, r, h.renderer, "/admin/orders", "Could not update the order")
		return
	}

	slog.Info("order status updated", "order_id", id, "status", status)
	flashSuccess(w, r, h.renderer, "/admin/orders", "Order updated")
}
