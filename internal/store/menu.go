package store

import (
	"context"
	"database/sql"
)

// Menu placements.
const (
	MenuPositionHeader = "header"
	MenuPositionFooter = "footer"
	MenuPositionBoth   = "both"
)

// MenuItem is a navigation entry. Items form a tree via ParentID and are
// placed in the header, the footer, or both.
type MenuItem struct {
	ID            int64
	ParentID      sql.NullInt64
	Position      string
	Label         string
	URL           string
	IsExternal    bool
	SortOrder     int64
	IsActive      bool
	RequiresAdmin bool
	Icon          sql.NullString
	Target        sql.NullString
}

// MenuItemTr is one translated label for a menu item.
type MenuItemTr struct {
	ID     int64
	ItemID int64
	Lang   string
	Label  string
}

type CreateMenuItemParams struct {
	ParentID      sql.NullInt64
	Position      string
	Label         string
	URL           string
	IsExternal    bool
	SortOrder     int64
	IsActive      bool
	RequiresAdmin bool
	Icon          sql.NullString
	Target        sql.NullString
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_items (parent_id, position, label, url, is_external,
			sort_order, is_active, requires_admin, icon, target)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ParentID, arg.Position, arg.Label, arg.URL, arg.IsExternal,
		arg.SortOrder, arg.IsActive, arg.RequiresAdmin, arg.Icon, arg.Target)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdateMenuItemParams struct {
	ID            int64
	ParentID      sql.NullInt64
	Position      string
	Label         string
	URL           string
	IsExternal    bool
	SortOrder     int64
	IsActive      bool
	RequiresAdmin bool
	Icon          sql.NullString
	Target        sql.NullString
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE menu_items SET parent_id = ?, position = ?, label = ?, url = ?,
			is_external = ?, sort_order = ?, is_active = ?, requires_admin = ?,
			icon = ?, target = ?
		WHERE id = ?`,
		arg.ParentID, arg.Position, arg.Label, arg.URL,
		arg.IsExternal, arg.SortOrder, arg.IsActive, arg.RequiresAdmin,
		arg.Icon, arg.Target, arg.ID)
	return err
}

func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

const selectMenuItem = `
	SELECT id, parent_id, position, label, url, is_external, sort_order,
		is_active, requires_admin, icon, target
	FROM menu_items`

func scanMenuItem(scan func(...any) error) (MenuItem, error) {
	var m MenuItem
	err := scan(&m.ID, &m.ParentID, &m.Position, &m.Label, &m.URL, &m.IsExternal,
		&m.SortOrder, &m.IsActive, &m.RequiresAdmin, &m.Icon, &m.Target)
	return m, err
}

func (q *Queries) GetMenuItem(ctx context.Context, id int64) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRowContext(ctx, selectMenuItem+` WHERE id = ?`, id).Scan)
}

// ListMenuItems returns every menu item ordered for tree assembly.
func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, selectMenuItem+` ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type UpsertMenuItemTrParams struct {
	ItemID int64
	Lang   string
	Label  string
}

func (q *Queries) UpsertMenuItemTr(ctx context.Context, arg UpsertMenuItemTrParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_item_tr (item_id, lang, label)
		VALUES (?, ?, ?)
		ON CONFLICT (item_id, lang) DO UPDATE SET label = excluded.label`,
		arg.ItemID, arg.Lang, arg.Label)
	return err
}

func (q *Queries) ListMenuItemTrs(ctx context.Context, itemID int64) ([]MenuItemTr, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, item_id, lang, label FROM menu_item_tr WHERE item_id = ?`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trs []MenuItemTr
	for rows.Next() {
		var t MenuItemTr
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Lang, &t.Label); err != nil {
			return nil, err
		}
		trs = append(trs, t)
	}
	return trs, rows.Err()
}

// ListAllMenuItemTrs loads every menu translation keyed by item ID, so the
// menu tree can be localized with a single query.
func (q *Queries) ListAllMenuItemTrs(ctx context.Context) (map[int64][]MenuItemTr, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, item_id, lang, label FROM menu_item_tr`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]MenuItemTr)
	for rows.Next() {
		var t MenuItemTr
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Lang, &t.Label); err != nil {
			return nil, err
		}
		out[t.ItemID] = append(out[t.ItemID], t)
	}
	return out, rows.Err()
}
