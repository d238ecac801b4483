package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Cart statuses. A user has at most one open cart; checkout moves it to
// pending, and an admin closes it as completed or cancelled.
const (
	CartStatusOpen      = "open"
	CartStatusPending   = "pending"
	CartStatusCompleted = "completed"
	CartStatusCancelled = "cancelled"
)

// Cart is a shopping cart, which doubles as an order once checked out.
type Cart struct {
	ID        int64
	UserID    int64
	Status    string
	Reference sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time

	// Username is populated by admin list queries that join users.
	Username sql.NullString
}

// CartItem is one product line in a cart. UnitPrice is the product price
// snapshot taken when the line was added.
type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal

	// ProductName and ProductSlug are populated by list queries that
	// join products.
	ProductName string
	ProductSlug string
	ThumbURL    sql.NullString
}

// Subtotal returns unit price times quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

func (q *Queries) CreateCart(ctx context.Context, userID int64) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?)`, userID, CartStatusOpen, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const selectCart = `
	SELECT c.id, c.user_id, c.status, c.reference, c.created_at, c.updated_at, u.username
	FROM carts c JOIN users u ON u.id = c.user_id`

func scanCart(scan func(...any) error) (Cart, error) {
	var c Cart
	err := scan(&c.ID, &c.UserID, &c.Status, &c.Reference, &c.CreatedAt, &c.UpdatedAt, &c.Username)
	return c, err
}

func (q *Queries) GetCart(ctx context.Context, id int64) (Cart, error) {
	return scanCart(q.db.QueryRowContext(ctx, selectCart+` WHERE c.id = ?`, id).Scan)
}

// GetOpenCart returns the user's open cart, or sql.ErrNoRows when none exists.
func (q *Queries) GetOpenCart(ctx context.Context, userID int64) (Cart, error) {
	return scanCart(q.db.QueryRowContext(ctx,
		selectCart+` WHERE c.user_id = ? AND c.status = ? ORDER BY c.id LIMIT 1`,
		userID, CartStatusOpen).Scan)
}

func (q *Queries) listCarts(ctx context.Context, query string, args ...any) ([]Cart, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carts []Cart
	for rows.Next() {
		c, err := scanCart(rows.Scan)
		if err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}

// ListOrders returns non-open carts, newest first.
func (q *Queries) ListOrders(ctx context.Context) ([]Cart, error) {
	return q.listCarts(ctx,
		selectCart+` WHERE c.status != ? ORDER BY c.updated_at DESC`, CartStatusOpen)
}

// ListUserOrders returns the user's non-open carts, newest first.
func (q *Queries) ListUserOrders(ctx context.Context, userID int64) ([]Cart, error) {
	return q.listCarts(ctx,
		selectCart+` WHERE c.user_id = ? AND c.status != ? ORDER BY c.updated_at DESC`,
		userID, CartStatusOpen)
}

func (q *Queries) CountOrdersByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM carts WHERE status = ?`, status).Scan(&n)
	return n, err
}

// UpdateCartStatus moves a cart to a new status, optionally stamping a
// checkout reference. It only succeeds when the cart is currently in
// fromStatus, and reports whether a row changed.
func (q *Queries) UpdateCartStatus(ctx context.Context, id int64, fromStatus, toStatus string, reference sql.NullString) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE carts SET status = ?, reference = COALESCE(?, reference), updated_at = ?
		WHERE id = ? AND status = ?`,
		toStatus, reference, time.Now().UTC(), id, fromStatus)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// AddCartItem inserts a product line or, when the product is already in
// the cart, increments its quantity. The stored unit price keeps the
// original snapshot on conflict.
func (q *Queries) AddCartItem(ctx context.Context, cartID, productID, quantity int64, unitPrice decimal.Decimal) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, unit_price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET
			quantity = quantity + excluded.quantity`,
		cartID, productID, quantity, unitPrice.StringFixed(2))
	return err
}

func (q *Queries) SetCartItemQuantity(ctx context.Context, itemID, cartID, quantity int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = ? WHERE id = ? AND cart_id = ?`,
		quantity, itemID, cartID)
	return err
}

func (q *Queries) DeleteCartItem(ctx context.Context, itemID, cartID int64) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = ? AND cart_id = ?`, itemID, cartID)
	return err
}

func (q *Queries) ListCartItems(ctx context.Context, cartID int64) ([]CartItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT i.id, i.cart_id, i.product_id, i.quantity, i.unit_price,
			p.name, p.slug, p.thumb_url
		FROM cart_items i JOIN products p ON p.id = i.product_id
		WHERE i.cart_id = ? ORDER BY i.id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var it CartItem
		var price string
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &price,
			&it.ProductName, &it.ProductSlug, &it.ThumbURL); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountCartItems returns the total quantity across the cart's lines.
func (q *Queries) CountCartItems(ctx context.Context, cartID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE cart_id = ?`, cartID).Scan(&n)
	return n, err
}
