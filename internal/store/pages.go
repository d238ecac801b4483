package store

import (
	"context"
	"database/sql"
)

// Page is a CMS page. Base-language (Indonesian) content lives on the row
// itself; other languages live in page_tr.
type Page struct {
	ID          int64
	Slug        string
	Template    string
	IsPublished bool
	Title       string
	Excerpt     sql.NullString
	Body        sql.NullString
	MetaTitle   sql.NullString
	MetaDesc    sql.NullString
}

// PageTr is one translated rendition of a page.
type PageTr struct {
	ID      int64
	PageID  int64
	Lang    string
	Title   string
	Excerpt sql.NullString
	Body    sql.NullString
}

type CreatePageParams struct {
	Slug        string
	Template    string
	IsPublished bool
	Title       string
	Excerpt     sql.NullString
	Body        sql.NullString
	MetaTitle   sql.NullString
	MetaDesc    sql.NullString
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO pages (slug, template, is_published, title, excerpt, body, meta_title, meta_desc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Template, arg.IsPublished, arg.Title, arg.Excerpt, arg.Body, arg.MetaTitle, arg.MetaDesc)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdatePageParams struct {
	ID          int64
	Slug        string
	Template    string
	IsPublished bool
	Title       string
	Excerpt     sql.NullString
	Body        sql.NullString
	MetaTitle   sql.NullString
	MetaDesc    sql.NullString
}

func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE pages SET slug = ?, template = ?, is_published = ?, title = ?,
			excerpt = ?, body = ?, meta_title = ?, meta_desc = ?
		WHERE id = ?`,
		arg.Slug, arg.Template, arg.IsPublished, arg.Title,
		arg.Excerpt, arg.Body, arg.MetaTitle, arg.MetaDesc, arg.ID)
	return err
}

func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	return err
}

const selectPage = `
	SELECT id, slug, template, is_published, title, excerpt, body, meta_title, meta_desc
	FROM pages`

func scanPage(row *sql.Row) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.Slug, &p.Template, &p.IsPublished,
		&p.Title, &p.Excerpt, &p.Body, &p.MetaTitle, &p.MetaDesc)
	return p, err
}

func (q *Queries) GetPage(ctx context.Context, id int64) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, selectPage+` WHERE id = ?`, id))
}

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, selectPage+` WHERE slug = ?`, slug))
}

func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, selectPage+` WHERE slug = ? AND is_published = 1`, slug))
}

func (q *Queries) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, selectPage+` ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Template, &p.IsPublished,
			&p.Title, &p.Excerpt, &p.Body, &p.MetaTitle, &p.MetaDesc); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (q *Queries) ListPublishedPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, selectPage+` WHERE is_published = 1 ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Template, &p.IsPublished,
			&p.Title, &p.Excerpt, &p.Body, &p.MetaTitle, &p.MetaDesc); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

type UpsertPageTrParams struct {
	PageID  int64
	Lang    string
	Title   string
	Excerpt sql.NullString
	Body    sql.NullString
}

func (q *Queries) UpsertPageTr(ctx context.Context, arg UpsertPageTrParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO page_tr (page_id, lang, title, excerpt, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (page_id, lang) DO UPDATE SET
			title = excluded.title, excerpt = excluded.excerpt, body = excluded.body`,
		arg.PageID, arg.Lang, arg.Title, arg.Excerpt, arg.Body)
	return err
}

func (q *Queries) ListPageTrs(ctx context.Context, pageID int64) ([]PageTr, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, page_id, lang, title, excerpt, body
		FROM page_tr WHERE page_id = ?`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trs []PageTr
	for rows.Next() {
		var t PageTr
		if err := rows.Scan(&t.ID, &t.PageID, &t.Lang, &t.Title, &t.Excerpt, &t.Body); err != nil {
			return nil, err
		}
		trs = append(trs, t)
	}
	return trs, rows.Err()
}
