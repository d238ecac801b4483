package store

import "context"

// Brand is a product manufacturer. Brand names are proper nouns and are
// not translated.
type Brand struct {
	ID   int64
	Slug string
	Name string
}

func (q *Queries) CreateBrand(ctx context.Context, slug, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO brands (slug, name) VALUES (?, ?)`, slug, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) UpdateBrand(ctx context.Context, id int64, slug, name string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE brands SET slug = ?, name = ? WHERE id = ?`, slug, name, id)
	return err
}

func (q *Queries) DeleteBrand(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM brands WHERE id = ?`, id)
	return err
}

func (q *Queries) GetBrand(ctx context.Context, id int64) (Brand, error) {
	var b Brand
	err := q.db.QueryRowContext(ctx,
		`SELECT id, slug, name FROM brands WHERE id = ?`, id).
		Scan(&b.ID, &b.Slug, &b.Name)
	return b, err
}

func (q *Queries) GetBrandBySlug(ctx context.Context, slug string) (Brand, error) {
	var b Brand
	err := q.db.QueryRowContext(ctx,
		`SELECT id, slug, name FROM brands WHERE slug = ?`, slug).
		Scan(&b.ID, &b.Slug, &b.Name)
	return b, err
}

func (q *Queries) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, slug, name FROM brands ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Slug, &b.Name); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}
