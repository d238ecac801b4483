package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptaero/aerosite/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	id, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
	})
	require.NoError(t, err)
	return id
}

func createTestProduct(t *testing.T, db *sql.DB, slug string, price string, active bool) int64 {
	t.Helper()

	p, err := decimal.NewFromString(price)
	require.NoError(t, err)

	id, err := store.New(db).CreateProduct(context.Background(), store.CreateProductParams{
		Slug:     slug,
		Name:     slug,
		Price:    p,
		Stock:    10,
		IsActive: active,
	})
	require.NoError(t, err)
	return id
}

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{store.CartStatusOpen, store.CartStatusPending, true},
		{store.CartStatusPending, store.CartStatusCompleted, true},
		{store.CartStatusPending, store.CartStatusCancelled, true},
		{store.CartStatusOpen, store.CartStatusCompleted, false},
		{store.CartStatusOpen, store.CartStatusCancelled, false},
		{store.CartStatusCompleted, store.CartStatusPending, false},
		{store.CartStatusCancelled, store.CartStatusOpen, false},
		{store.CartStatusPending, store.CartStatusOpen, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, TransitionAllowed(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAddProductMergesQuantity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartService(db)

	userID := createTestUser(t, db, "budi")
	productID := createTestProduct(t, db, "altimeter", "1250000.00", true)

	require.NoError(t, carts.AddProduct(ctx, userID, productID, 2))
	require.NoError(t, carts.AddProduct(ctx, userID, productID, 1))

	_, items, err := carts.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].Quantity)
	assert.Equal(t, "1250000.00", items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, int64(3), carts.Count(ctx, userID))
}

func TestAddProductInactive(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)

	userID := createTestUser(t, db, "budi")
	productID := createTestProduct(t, db, "retired-part", "100.00", false)

	err := carts.AddProduct(context.Background(), userID, productID, 1)
	assert.ErrorIs(t, err, ErrProductInactive)
}

func TestSetQuantity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartService(db)

	userID := createTestUser(t, db, "budi")
	productID := createTestProduct(t, db, "altimeter", "100.00", true)
	require.NoError(t, carts.AddProduct(ctx, userID, productID, 1))

	_, items, err := carts.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, carts.SetQuantity(ctx, userID, items[0].ID, 5))
	_, items, err = carts.Items(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), items[0].Quantity)

	// Zero removes the line
	require.NoError(t, carts.SetQuantity(ctx, userID, items[0].ID, 0))
	_, items, err = carts.Items(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartService(db)

	userID := createTestUser(t, db, "budi")

	// No cart at all
	_, err := carts.Checkout(ctx, userID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Open cart with no lines
	_, err = carts.OpenCart(ctx, userID)
	require.NoError(t, err)
	_, err = carts.Checkout(ctx, userID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartService(db)
	queries := store.New(db)

	userID := createTestUser(t, db, "budi")
	productID := createTestProduct(t, db, "altimeter", "100.00", true)
	require.NoError(t, carts.AddProduct(ctx, userID, productID, 2))

	reference, err := carts.Checkout(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, reference)

	orders, err := queries.ListUserOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, store.CartStatusPending, orders[0].Status)
	assert.Equal(t, reference, orders[0].Reference.String)

	// The checked-out cart is no longer the open cart
	assert.Equal(t, int64(0), carts.Count(ctx, userID))

	// A second checkout has nothing to check out
	_, err = carts.Checkout(ctx, userID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSetOrderStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartService(db)
	queries := store.New(db)

	userID := createTestUser(t, db, "budi")
	productID := createTestProduct(t, db, "altimeter", "100.00", true)
	require.NoError(t, carts.AddProduct(ctx, userID, productID, 1))

	_, err := carts.Checkout(ctx, userID)
	require.NoError(t, err)

	orders, err := queries.ListUserOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	orderID := orders[0].ID

	require.NoError(t, carts.SetOrderStatus(ctx, orderID, store.CartStatusCompleted))

	cart, err := queries.GetCart(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, store.CartStatusCompleted, cart.Status)

	// Completed orders are final
	err = carts.SetOrderStatus(ctx, orderID, store.CartStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetOrderStatusRejectsOpenCart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartService(db)

	userID := createTestUser(t, db, "budi")
	cart, err := carts.OpenCart(ctx, userID)
	require.NoError(t, err)

	err = carts.SetOrderStatus(ctx, cart.ID, store.CartStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOpenCartReusesExisting(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartService(db)

	userID := createTestUser(t, db, "budi")

	first, err := carts.OpenCart(ctx, userID)
	require.NoError(t, err)
	second, err := carts.OpenCart(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}
