package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Base-language text lives on the row; other
// languages live in product_tr. Prices are stored as decimal strings.
type Product struct {
	ID        int64
	Slug      string
	BrandID   sql.NullInt64
	Price     decimal.Decimal
	Stock     int64
	ImageURL  sql.NullString
	ThumbURL  sql.NullString
	IsActive  bool
	Name      string
	ShortDesc sql.NullString
	Desc      sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time

	// BrandName is populated by list queries that join brands.
	BrandName sql.NullString
}

// ProductTr is one translated rendition of a product.
type ProductTr struct {
	ID        int64
	ProductID int64
	Lang      string
	Name      string
	ShortDesc sql.NullString
	Desc      sql.NullString
}

type CreateProductParams struct {
	Slug      string
	BrandID   sql.NullInt64
	Price     decimal.Decimal
	Stock     int64
	ImageURL  sql.NullString
	ThumbURL  sql.NullString
	IsActive  bool
	Name      string
	ShortDesc sql.NullString
	Desc      sql.NullString
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO products (slug, brand_id, price, stock, image_url, thumb_url,
			is_active, name, short_description, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.BrandID, arg.Price.StringFixed(2), arg.Stock, arg.ImageURL, arg.ThumbURL,
		arg.IsActive, arg.Name, arg.ShortDesc, arg.Desc, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdateProductParams struct {
	ID        int64
	Slug      string
	BrandID   sql.NullInt64
	Price     decimal.Decimal
	Stock     int64
	ImageURL  sql.NullString
	ThumbURL  sql.NullString
	IsActive  bool
	Name      string
	ShortDesc sql.NullString
	Desc      sql.NullString
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE products SET slug = ?, brand_id = ?, price = ?, stock = ?,
			image_url = ?, thumb_url = ?, is_active = ?, name = ?,
			short_description = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.BrandID, arg.Price.StringFixed(2), arg.Stock,
		arg.ImageURL, arg.ThumbURL, arg.IsActive, arg.Name,
		arg.ShortDesc, arg.Desc, time.Now().UTC(), arg.ID)
	return err
}

func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

const selectProduct = `
	SELECT p.id, p.slug, p.brand_id, p.price, p.stock, p.image_url, p.thumb_url,
		p.is_active, p.name, p.short_description, p.description,
		p.created_at, p.updated_at, b.name
	FROM products p LEFT JOIN brands b ON b.id = p.brand_id`

func scanProduct(scan func(...any) error) (Product, error) {
	var p Product
	var price string
	err := scan(&p.ID, &p.Slug, &p.BrandID, &price, &p.Stock, &p.ImageURL, &p.ThumbURL,
		&p.IsActive, &p.Name, &p.ShortDesc, &p.Desc, &p.CreatedAt, &p.UpdatedAt, &p.BrandName)
	if err != nil {
		return p, err
	}
	p.Price, err = decimal.NewFromString(price)
	return p, err
}

func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, selectProduct+` WHERE p.id = ?`, id).Scan)
}

func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, selectProduct+` WHERE p.slug = ?`, slug).Scan)
}

func (q *Queries) GetActiveProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx,
		selectProduct+` WHERE p.slug = ? AND p.is_active = 1`, slug).Scan)
}

func (q *Queries) listProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	return q.listProducts(ctx, selectProduct+` ORDER BY p.name`)
}

func (q *Queries) ListActiveProducts(ctx context.Context) ([]Product, error) {
	return q.listProducts(ctx, selectProduct+` WHERE p.is_active = 1 ORDER BY p.name`)
}

func (q *Queries) ListActiveProductsByBrand(ctx context.Context, brandID int64) ([]Product, error) {
	return q.listProducts(ctx,
		selectProduct+` WHERE p.is_active = 1 AND p.brand_id = ? ORDER BY p.name`, brandID)
}

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

type UpsertProductTrParams struct {
	ProductID int64
	Lang      string
	Name      string
	ShortDesc sql.NullString
	Desc      sql.NullString
}

func (q *Queries) UpsertProductTr(ctx context.Context, arg UpsertProductTrParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO product_tr (product_id, lang, name, short_description, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (product_id, lang) DO UPDATE SET
			name = excluded.name,
			short_description = excluded.short_description,
			description = excluded.description`,
		arg.ProductID, arg.Lang, arg.Name, arg.ShortDesc, arg.Desc)
	return err
}

func (q *Queries) ListProductTrs(ctx context.Context, productID int64) ([]ProductTr, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, product_id, lang, name, short_description, description
		FROM product_tr WHERE product_id = ?`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trs []ProductTr
	for rows.Next() {
		var t ProductTr
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Lang, &t.Name, &t.ShortDesc, &t.Desc); err != nil {
			return nil, err
		}
		trs = append(trs, t)
	}
	return trs, rows.Err()
}

// ListProductTrsForProducts loads translations for a set of products in one
// query, keyed by product ID.
func (q *Queries) ListProductTrsForProducts(ctx context.Context, productIDs []int64) (map[int64][]ProductTr, error) {
	out := make(map[int64][]ProductTr)
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `SELECT id, product_id, lang, name, short_description, description
		FROM product_tr WHERE product_id IN (?` // expanded below
	args := []any{productIDs[0]}
	for _, id := range productIDs[1:] {
		query += ",?"
		args = append(args, id)
	}
	query += ")"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t ProductTr
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Lang, &t.Name, &t.ShortDesc, &t.Desc); err != nil {
			return nil, err
		}
		out[t.ProductID] = append(out[t.ProductID], t)
	}
	return out, rows.Err()
}
