package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ptaero/aerosite/internal/store"
)

// Cart lifecycle errors.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid cart status transition")
	ErrProductInactive   = errors.New("product is not available")
)

// cartTransitions lists the allowed status moves. Everything else is
// rejected.
var cartTransitions = map[string][]string{
	store.CartStatusOpen:    {store.CartStatusPending},
	store.CartStatusPending: {store.CartStatusCompleted, store.CartStatusCancelled},
}

// TransitionAllowed reports whether a cart may move from one status to
// another.
func TransitionAllowed(from, to string) bool {
	for _, next := range cartTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CartService owns the cart lifecycle: one open cart per customer,
// quantity merging, price snapshots, and the checkout transition.
type CartService struct {
	queries *store.Queries
}

// NewCartService creates a cart service backed by db.
func NewCartService(db *sql.DB) *CartService {
	return &CartService{queries: store.New(db)}
}

// OpenCart returns the customer's open cart, creating one when none
// exists.
func (s *CartService) OpenCart(ctx context.Context, userID int64) (store.Cart, error) {
	cart, err := s.queries.GetOpenCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.Cart{}, err
	}

	if _, err := s.queries.CreateCart(ctx, userID); err != nil {
		return store.Cart{}, err
	}
	// Re-read so concurrent creation converges on the oldest open cart.
	return s.queries.GetOpenCart(ctx, userID)
}

// AddProduct puts quantity units of a product into the customer's open
// cart, snapshotting the current price. Adding a product already in the
// cart increments its line quantity.
func (s *CartService) AddProduct(ctx context.Context, userID, productID, quantity int64) error {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.queries.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return ErrProductInactive
	}

	cart, err := s.OpenCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.queries.AddCartItem(ctx, cart.ID, productID, quantity, product.Price)
}

// SetQuantity updates a line's quantity; zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID, quantity int64) error {
	cart, err := s.queries.GetOpenCart(ctx, userID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		return s.queries.DeleteCartItem(ctx, itemID, cart.ID)
	}
	return s.queries.SetCartItemQuantity(ctx, itemID, cart.ID, quantity)
}

// RemoveItem deletes a line from the customer's open cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	cart, err := s.queries.GetOpenCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.queries.DeleteCartItem(ctx, itemID, cart.ID)
}

// Items returns the lines of the customer's open cart. A customer with
// no open cart simply has no lines.
func (s *CartService) Items(ctx context.Context, userID int64) (store.Cart, []store.CartItem, error) {
	cart, err := s.queries.GetOpenCart(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Cart{}, nil, nil
	}
	if err != nil {
		return store.Cart{}, nil, err
	}
	items, err := s.queries.ListCartItems(ctx, cart.ID)
	return cart, items, err
}

// Count returns the total quantity in the customer's open cart. It is
// used for the header badge and degrades to zero on any failure.
func (s *CartService) Count(ctx context.Context, userID int64) int64 {
	cart, err := s.queries.GetOpenCart(ctx, userID)
	if err != nil {
		return 0
	}
	n, err := s.queries.CountCartItems(ctx, cart.ID)
	if err != nil {
		return 0
	}
	return n
}

// Checkout moves the customer's open cart to pending and stamps it with
// a reference the customer can quote. An empty cart does not check out.
func (s *CartService) Checkout(ctx context.Context, userID int64) (string, error) {
	cart, err := s.queries.GetOpenCart(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrEmptyCart
	}
	if err != nil {
		return "", err
	}

	n, err := s.queries.CountCartItems(ctx, cart.ID)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrEmptyCart
	}

	reference := uuid.NewString()
	moved, err := s.queries.UpdateCartStatus(ctx, cart.ID,
		store.CartStatusOpen, store.CartStatusPending,
		sql.NullString{String: reference, Valid: true})
	if err != nil {
		return "", err
	}
	if !moved {
		// Another request already checked this cart out.
		return "", ErrInvalidTransition
	}
	return reference, nil
}

// SetOrderStatus is the admin-side transition: pending orders may be
// completed or cancelled.
func (s *CartService) SetOrderStatus(ctx context.Context, cartID int64, toStatus string) error {
	cart, err := s.queries.GetCart(ctx, cartID)
	if err != nil {
		return err
	}
	if !TransitionAllowed(cart.Status, toStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cart.Status, toStatus)
	}

	moved, err := s.queries.UpdateCartStatus(ctx, cartID, cart.Status, toStatus, sql.NullString{})
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cart.Status, toStatus)
	}
	return nil
}
