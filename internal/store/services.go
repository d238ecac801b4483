package store

import (
	"context"
	"database/sql"
	"time"
)

// Service is a company service offering. Base-language text lives on the
// row; other languages live in service_tr.
type Service struct {
	ID        int64
	Slug      string
	Title     string
	Desc      sql.NullString
	Content   sql.NullString
	ImageURL  sql.NullString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceTr is one translated rendition of a service.
type ServiceTr struct {
	ID        int64
	ServiceID int64
	Lang      string
	Title     string
	Desc      sql.NullString
	Content   sql.NullString
}

type CreateServiceParams struct {
	Slug     string
	Title    string
	Desc     sql.NullString
	Content  sql.NullString
	ImageURL sql.NullString
	IsActive bool
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO services (slug, title, description, content, image_url, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Title, arg.Desc, arg.Content, arg.ImageURL, arg.IsActive, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdateServiceParams struct {
	ID       int64
	Slug     string
	Title    string
	Desc     sql.NullString
	Content  sql.NullString
	ImageURL sql.NullString
	IsActive bool
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE services SET slug = ?, title = ?, description = ?, content = ?,
			image_url = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.Title, arg.Desc, arg.Content,
		arg.ImageURL, arg.IsActive, time.Now().UTC(), arg.ID)
	return err
}

func (q *Queries) DeleteService(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	return err
}

const selectService = `
	SELECT id, slug, title, description, content, image_url, is_active, created_at, updated_at
	FROM services`

func scanService(scan func(...any) error) (Service, error) {
	var s Service
	err := scan(&s.ID, &s.Slug, &s.Title, &s.Desc, &s.Content,
		&s.ImageURL, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) GetService(ctx context.Context, id int64) (Service, error) {
	return scanService(q.db.QueryRowContext(ctx, selectService+` WHERE id = ?`, id).Scan)
}

func (q *Queries) GetActiveServiceBySlug(ctx context.Context, slug string) (Service, error) {
	return scanService(q.db.QueryRowContext(ctx,
		selectService+` WHERE slug = ? AND is_active = 1`, slug).Scan)
}

func (q *Queries) listServices(ctx context.Context, query string, args ...any) ([]Service, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		s, err := scanService(rows.Scan)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	return q.listServices(ctx, selectService+` ORDER BY title`)
}

func (q *Queries) ListActiveServices(ctx context.Context) ([]Service, error) {
	return q.listServices(ctx, selectService+` WHERE is_active = 1 ORDER BY title`)
}

func (q *Queries) CountServices(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM services`).Scan(&n)
	return n, err
}

type UpsertServiceTrParams struct {
	ServiceID int64
	Lang      string
	Title     string
	Desc      sql.NullString
	Content   sql.NullString
}

func (q *Queries) UpsertServiceTr(ctx context.Context, arg UpsertServiceTrParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO service_tr (service_id, lang, title, description, content)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (service_id, lang) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			content = excluded.content`,
		arg.ServiceID, arg.Lang, arg.Title, arg.Desc, arg.Content)
	return err
}

func (q *Queries) ListServiceTrs(ctx context.Context, serviceID int64) ([]ServiceTr, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, service_id, lang, title, description, content
		FROM service_tr WHERE service_id = ?`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trs []ServiceTr
	for rows.Next() {
		var t ServiceTr
		if err := rows.Scan(&t.ID, &t.ServiceID, &t.Lang, &t.Title, &t.Desc, &t.Content); err != nil {
			return nil, err
		}
		trs = append(trs, t)
	}
	return trs, rows.Err()
}
