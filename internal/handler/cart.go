package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ptaero/aerosite/internal/middleware"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/service"
	"github.com/ptaero/aerosite/internal/store"
)

// CartHandler serves the customer cart and checkout.
type CartHandler struct {
	carts    *service.CartService
	renderer *render.Renderer
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(carts *service.CartService, renderer *render.Renderer) *CartHandler {
	return &CartHandler{
		carts:    carts,
		renderer: renderer,
	}
}

// CartViewData holds data for the cart template.
type CartViewData struct {
	Items []store.CartItem
	Total decimal.Decimal
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, items, err := h.carts.Items(r.Context(), userID)
	if err != nil {
		slog.Error("failed to load cart", "error", err, "user_id", userID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	if err := h.renderer.Render(w, r, "site/cart", render.TemplateData{
		Data: CartViewData{Items: items, Total: total},
	}); err != nil {
		slog.Error("failed to render cart", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Add handles POST /cart/add.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, "/catalog") {
		return
	}

	productID, err := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	if err != nil || productID < 1 {
		flashError(w, r, h.renderer, "/catalog", "Unknown product")
		return
	}
	quantity, _ := strconv.ParseInt(r.PostFormValue("quantity"), 10, 64)

	if err := h.carts.AddProduct(r.Context(), userID, productID, quantity); err != nil {
		if errors.Is(err, service.ErrProductInactive) {
			flashError(w, r, h.renderer, "/catalog", "That product is not available")
			return
		}
		slog.Error("failed to add cart item", "error", err, "user_id", userID, "product_id", productID)
		flashError(w, r, h.renderer, "/catalog", "Could not add the product to your cart")
		return
	}

	slog.Info("cart item added", "user_id", userID, "product_id", productID)
	flashSuccess(w, r, h.renderer, "/cart", "Added to your cart")
}

// Update handles POST /cart/items/{id}: sets a line quantity, removing
// the line at zero.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	itemID, ok := urlParamID(r)
	if !ok {
		flashError(w, r, h.renderer, "/cart", "Unknown cart item")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, "/cart") {
		return
	}

	quantity, err := strconv.ParseInt(r.PostFormValue("quantity"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, "/cart", "Invalid quantity")
		return
	}

	if err := h.carts.SetQuantity(r.Context(), userID, itemID, quantity); err != nil {
		slog.Error("failed to update cart item", "error", err, "user_id", userID, "item_id", itemID)
		flashError(w, r, h.renderer, "/cart", "Could not update your cart")
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Remove handles POST /cart/items/{id}/delete.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	itemID, ok := urlParamID(r)
	if !ok {
		flashError(w, r, h.renderer, "/cart", "Unknown cart item")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), userID, itemID); err != nil {
		slog.Error("failed to remove cart item", "error", err, "user_id", userID, "item_id", itemID)
		flashError(w, r, h.renderer, "/cart", "Could not update your cart")
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Checkout handles POST /cart/checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	reference, err := h.carts.Checkout(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			flashError(w, r, h.renderer, "/cart", "Your cart is empty")
			return
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			flashError(w, r, h.renderer, "/cart", "Your order was already placed")
			return
		}
		slog.Error("checkout failed", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, "/cart", "Could not place your order, please try again")
		return
	}

	slog.Info("order placed", "user_id", userID, "reference", reference)
	flashSuccess(w, r, h.renderer, "/account/orders", "Order placed, reference "+reference)
}
