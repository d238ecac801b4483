package store

import (
	"context"
	"database/sql"
)

// CarouselItem is a homepage hero slide, either an image or a video with
// an optional poster frame.
type CarouselItem struct {
	ID         int64
	MediaType  string
	MediaPath  string
	PosterPath sql.NullString
	IsActive   bool
	SortOrder  int64
	Title      sql.NullString
	Subtitle   sql.NullString
	CtaText    sql.NullString
	CtaURL     sql.NullString
}

// CarouselItemTr is one translated rendition of a carousel slide.
type CarouselItemTr struct {
	ID       int64
	ItemID   int64
	Lang     string
	Title    sql.NullString
	Subtitle sql.NullString
	CtaText  sql.NullString
	CtaURL   sql.NullString
}

type CreateCarouselItemParams struct {
	MediaType  string
	MediaPath  string
	PosterPath sql.NullString
	IsActive   bool
	SortOrder  int64
	Title      sql.NullString
	Subtitle   sql.NullString
	CtaText    sql.NullString
	CtaURL     sql.NullString
}

func (q *Queries) CreateCarouselItem(ctx context.Context, arg CreateCarouselItemParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO carousel_items (media_type, media_path, poster_path, is_active,
			sort_order, title, subtitle, cta_text, cta_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.MediaType, arg.MediaPath, arg.PosterPath, arg.IsActive,
		arg.SortOrder, arg.Title, arg.Subtitle, arg.CtaText, arg.CtaURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdateCarouselItemParams struct {
	ID         int64
	MediaType  string
	MediaPath  string
	PosterPath sql.NullString
	IsActive   bool
	SortOrder  int64
	Title      sql.NullString
	Subtitle   sql.NullString
	CtaText    sql.NullString
	CtaURL     sql.NullString
}

func (q *Queries) UpdateCarouselItem(ctx context.Context, arg UpdateCarouselItemParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE carousel_items SET media_type = ?, media_path = ?, poster_path = ?,
			is_active = ?, sort_order = ?, title = ?, subtitle = ?, cta_text = ?, cta_url = ?
		WHERE id = ?`,
		arg.MediaType, arg.MediaPath, arg.PosterPath, arg.IsActive,
		arg.SortOrder, arg.Title, arg.Subtitle, arg.CtaText, arg.CtaURL, arg.ID)
	return err
}

func (q *Queries) DeleteCarouselItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM carousel_items WHERE id = ?`, id)
	return err
}

const selectCarouselItem = `
	SELECT id, media_type, media_path, poster_path, is_active, sort_order,
		title, subtitle, cta_text, cta_url
	FROM carousel_items`

func scanCarouselItem(scan func(...any) error) (CarouselItem, error) {
	var c CarouselItem
	err := scan(&c.ID, &c.MediaType, &c.MediaPath, &c.PosterPath, &c.IsActive,
		&c.SortOrder, &c.Title, &c.Subtitle, &c.CtaText, &c.CtaURL)
	return c, err
}

func (q *Queries) GetCarouselItem(ctx context.Context, id int64) (CarouselItem, error) {
	return scanCarouselItem(q.db.QueryRowContext(ctx, selectCarouselItem+` WHERE id = ?`, id).Scan)
}

func (q *Queries) listCarouselItems(ctx context.Context, query string) ([]CarouselItem, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CarouselItem
	for rows.Next() {
		c, err := scanCarouselItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (q *Queries) ListCarouselItems(ctx context.Context) ([]CarouselItem, error) {
	return q.listCarouselItems(ctx, selectCarouselItem+` ORDER BY sort_order, id`)
}

func (q *Queries) ListActiveCarouselItems(ctx context.Context) ([]CarouselItem, error) {
	return q.listCarouselItems(ctx, selectCarouselItem+` WHERE is_active = 1 ORDER BY sort_order, id`)
}

type UpsertCarouselItemTrParams struct {
	ItemID   int64
	Lang     string
	Title    sql.NullString
	Subtitle sql.NullString
	CtaText  sql.NullString
	CtaURL   sql.NullString
}

func (q *Queries) UpsertCarouselItemTr(ctx context.Context, arg UpsertCarouselItemTrParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO carousel_item_tr (item_id, lang, title, subtitle, cta_text, cta_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id, lang) DO UPDATE SET
			title = excluded.title, subtitle = excluded.subtitle,
			cta_text = excluded.cta_text, cta_url = excluded.cta_url`,
		arg.ItemID, arg.Lang, arg.Title, arg.Subtitle, arg.CtaText, arg.CtaURL)
	return err
}

func (q *Queries) ListCarouselItemTrs(ctx context.Context, itemID int64) ([]CarouselItemTr, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, item_id, lang, title, subtitle, cta_text, cta_url
		FROM carousel_item_tr WHERE item_id = ?`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trs []CarouselItemTr
	for rows.Next() {
		var t CarouselItemTr
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Lang, &t.Title, &t.Subtitle, &t.CtaText, &t.CtaURL); err != nil {
			return nil, err
		}
		trs = append(trs, t)
	}
	return trs, rows.Err()
}
