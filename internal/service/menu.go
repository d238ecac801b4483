// Package service holds the domain logic shared between handlers: menu
// tree assembly, footer assembly, and the cart lifecycle.
package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/store"
)

// MenuNode is one localized entry in the navigation tree. Active marks
// the entry matching the current request path, or one whose descendant
// matches.
type MenuNode struct {
	ID         int64
	Label      string
	URL        string
	IsExternal bool
	Icon       string
	Target     string
	Active     bool
	Children   []MenuNode
}

// MenuService builds localized navigation trees from the flat menu_items
// table.
type MenuService struct {
	queries *store.Queries
}

// NewMenuService creates a menu service backed by db.
func NewMenuService(db *sql.DB) *MenuService {
	return &MenuService{queries: store.New(db)}
}

// Tree assembles the navigation tree for one placement. Inactive items
// hide their whole subtree, admin-only items are dropped unless isAdmin,
// and labels resolve through the translation rows with base fallback.
// Parent items that only group children disappear when every child is
// hidden. currentPath marks the entry being viewed: an exact or
// path-prefix match sets Active, and an active child activates its
// ancestors.
func (s *MenuService) Tree(ctx context.Context, lang, position, currentPath string, isAdmin bool) ([]MenuNode, error) {
	items, err := s.queries.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	trs, err := s.queries.ListAllMenuItemTrs(ctx)
	if err != nil {
		return nil, err
	}

	byParent := make(map[int64][]store.MenuItem)
	for _, it := range items {
		byParent[it.ParentID.Int64] = append(byParent[it.ParentID.Int64], it)
	}

	var build func(parentID int64) []MenuNode
	build = func(parentID int64) []MenuNode {
		var nodes []MenuNode
		for _, it := range byParent[parentID] {
			if !it.IsActive {
				continue
			}
			if it.RequiresAdmin && !isAdmin {
				continue
			}
			if !placedAt(it.Position, position) {
				continue
			}

			children := build(it.ID)
			// A grouping item without a real destination vanishes when
			// everything under it is hidden.
			if len(children) == 0 && (it.URL == "" || it.URL == "#") {
				continue
			}

			node := MenuNode{
				ID:         it.ID,
				Label:      menuLabel(it, trs[it.ID], lang),
				URL:        it.URL,
				IsExternal: it.IsExternal,
				Icon:       it.Icon.String,
				Target:     it.Target.String,
				Active:     pathActive(it.URL, currentPath),
				Children:   children,
			}
			for _, child := range children {
				if child.Active {
					node.Active = true
					break
				}
			}
			nodes = append(nodes, node)
		}
		return nodes
	}

	return build(0), nil
}

// pathActive reports whether a menu URL matches the current request
// path, exactly or as a leading path segment. "/" matches only itself,
// so the home entry does not light up everywhere.
func pathActive(url, currentPath string) bool {
	if url == "" || url == "#" || currentPath == "" {
		return false
	}
	if url == currentPath {
		return true
	}
	if url == "/" {
		return false
	}
	return strings.HasPrefix(currentPath, strings.TrimSuffix(url, "/")+"/")
}

func placedAt(itemPosition, requested string) bool {
	if itemPosition == store.MenuPositionBoth {
		return true
	}
	return itemPosition == requested
}

func menuLabel(it store.MenuItem, trs []store.MenuItemTr, lang string) string {
	base := i18n.Fields{"label": it.Label}
	translations := make(i18n.Translations, len(trs))
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{"label": t.Label}
	}
	return i18n.Resolve(base, translations, lang, "label")
}
