package store

import (
	"context"
	"database/sql"
)

// FooterSection is a column in the site footer.
type FooterSection struct {
	ID        int64
	SortOrder int64
	IsActive  bool
	Name      string
}

// FooterSectionTr is one translated section name.
type FooterSectionTr struct {
	ID        int64
	SectionID int64
	Lang      string
	Name      string
}

// FooterLink is an entry inside a footer section. A link carries either a
// URL with a label or a raw HTML block.
type FooterLink struct {
	ID          int64
	SectionID   int64
	URL         sql.NullString
	Icon        sql.NullString
	IsActive    bool
	SortOrder   int64
	Label       string
	HTMLContent sql.NullString
}

// FooterLinkTr is one translated rendition of a footer link.
type FooterLinkTr struct {
	ID          int64
	LinkID      int64
	Lang        string
	Label       string
	HTMLContent sql.NullString
}

func (q *Queries) CreateFooterSection(ctx context.Context, name string, sortOrder int64, isActive bool) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO footer_sections (name, sort_order, is_active) VALUES (?, ?, ?)`,
		name, sortOrder, isActive)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) UpdateFooterSection(ctx context.Context, id int64, name string, sortOrder int64, isActive bool) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE footer_sections SET name = ?, sort_order = ?, is_active = ? WHERE id = ?`,
		name, sortOrder, isActive, id)
	return err
}

func (q *Queries) DeleteFooterSection(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM footer_sections WHERE id = ?`, id)
	return err
}

func (q *Queries) GetFooterSection(ctx context.Context, id int64) (FooterSection, error) {
	var s FooterSection
	err := q.db.QueryRowContext(ctx, `
		SELECT id, sort_order, is_active, name FROM footer_sections WHERE id = ?`, id).
		Scan(&s.ID, &s.SortOrder, &s.IsActive, &s.Name)
	return s, err
}

func (q *Queries) ListFooterSections(ctx context.Context) ([]FooterSection, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, sort_order, is_active, name FROM footer_sections ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []FooterSection
	for rows.Next() {
		var s FooterSection
		if err := rows.Scan(&s.ID, &s.SortOrder, &s.IsActive, &s.Name); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (q *Queries) UpsertFooterSectionTr(ctx context.Context, sectionID int64, lang, name string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO footer_section_tr (section_id, lang, name)
		VALUES (?, ?, ?)
		ON CONFLICT (section_id, lang) DO UPDATE SET name = excluded.name`,
		sectionID, lang, name)
	return err
}

func (q *Queries) ListFooterSectionTrs(ctx context.Context, sectionID int64) ([]FooterSectionTr, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, section_id, lang, name FROM footer_section_tr WHERE section_id = ?`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trs []FooterSectionTr
	for rows.Next() {
		var t FooterSectionTr
		if err := rows.Scan(&t.ID, &t.SectionID, &t.Lang, &t.Name); err != nil {
			return nil, err
		}
		trs = append(trs, t)
	}
	return trs, rows.Err()
}

func (q *Queries) ListAllFooterSectionTrs(ctx context.Context) (map[int64][]FooterSectionTr, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, section_id, lang, name FROM footer_section_tr`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]FooterSectionTr)
	for rows.Next() {
		var t FooterSectionTr
		if err := rows.Scan(&t.ID, &t.SectionID, &t.Lang, &t.Name); err != nil {
			return nil, err
		}
		out[t.SectionID] = append(out[t.SectionID], t)
	}
	return out, rows.Err()
}

type CreateFooterLinkParams struct {
	SectionID   int64
	URL         sql.NullString
	Icon        sql.NullString
	IsActive    bool
	SortOrder   int64
	Label       string
	HTMLContent sql.NullString
}

func (q *Queries) CreateFooterLink(ctx context.Context, arg CreateFooterLinkParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO footer_links (section_id, url, icon, is_active, sort_order, label, html_content)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.SectionID, arg.URL, arg.Icon, arg.IsActive, arg.SortOrder, arg.Label, arg.HTMLContent)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdateFooterLinkParams struct {
	ID          int64
	SectionID   int64
	URL         sql.NullString
	Icon        sql.NullString
	IsActive    bool
	SortOrder   int64
	Label       string
	HTMLContent sql.NullString
}

func (q *Queries) UpdateFooterLink(ctx context.Context, arg UpdateFooterLinkParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE footer_links SET section_id = ?, url = ?, icon = ?, is_active = ?,
			sort_order = ?, label = ?, html_content = ?
		WHERE id = ?`,
		arg.SectionID, arg.URL, arg.Icon, arg.IsActive,
		arg.SortOrder, arg.Label, arg.HTMLContent, arg.ID)
	return err
}

func (q *Queries) DeleteFooterLink(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM footer_links WHERE id = ?`, id)
	return err
}

func (q *Queries) GetFooterLink(ctx context.Context, id int64) (FooterLink, error) {
	var l FooterLink
	err := q.db.QueryRowContext(ctx, `
		SELECT id, section_id, url, icon, is_active, sort_order, label, html_content
		FROM footer_links WHERE id = ?`, id).
		Scan(&l.ID, &l.SectionID, &l.URL, &l.Icon, &l.IsActive, &l.SortOrder, &l.Label, &l.HTMLContent)
	return l, err
}

func (q *Queries) ListFooterLinks(ctx context.Context) ([]FooterLink, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, section_id, url, icon, is_active, sort_order, label, html_content
		FROM footer_links ORDER BY section_id, sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []FooterLink
	for rows.Next() {
		var l FooterLink
		if err := rows.Scan(&l.ID, &l.SectionID, &l.URL, &l.Icon, &l.IsActive,
			&l.SortOrder, &l.Label, &l.HTMLContent); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (q *Queries) UpsertFooterLinkTr(ctx context.Context, linkID int64, lang, label string, htmlContent sql.NullString) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO footer_link_tr (link_id, lang, label, html_content)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (link_id, lang) DO UPDATE SET
			label = excluded.label, html_content = excluded.html_content`,
		linkID, lang, label, htmlContent)
	return err
}

func (q *Queries) ListFooterLinkTrs(ctx context.Context, linkID int64) ([]FooterLinkTr, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, link_id, lang, label, html_content FROM footer_link_tr WHERE link_id = ?`, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trs []FooterLinkTr
	for rows.Next() {
		var t FooterLinkTr
		if err := rows.Scan(&t.ID, &t.LinkID, &t.Lang, &t.Label, &t.HTMLContent); err != nil {
			return nil, err
		}
		trs = append(trs, t)
	}
	return trs, rows.Err()
}

func (q *Queries) ListAllFooterLinkTrs(ctx context.Context) (map[int64][]FooterLinkTr, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, link_id, lang, label, html_content FROM footer_link_tr`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]FooterLinkTr)
	for rows.Next() {
		var t FooterLinkTr
		if err := rows.Scan(&t.ID, &t.LinkID, &t.Lang, &t.Label, &t.HTMLContent); err != nil {
			return nil, err
		}
		out[t.LinkID] = append(out[t.LinkID], t)
	}
	return out, rows.Err()
}
