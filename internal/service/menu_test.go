package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptaero/aerosite/internal/store"
)

func createMenuItem(t *testing.T, db *sql.DB, arg store.CreateMenuItemParams) int64 {
	t.Helper()

	id, err := store.New(db).CreateMenuItem(context.Background(), arg)
	require.NoError(t, err)
	return id
}

func TestMenuTree(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	menus := NewMenuService(db)

	home := createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Beranda", URL: "/", IsActive: true,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Draft", URL: "/draft", IsActive: false, SortOrder: 1,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionFooter, Label: "Kebijakan", URL: "/p/kebijakan", IsActive: true, SortOrder: 2,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionBoth, Label: "Kontak", URL: "/contact", IsActive: true, SortOrder: 3,
	})

	require.NoError(t, store.New(db).UpsertMenuItemTr(ctx, store.UpsertMenuItemTrParams{
		ItemID: home, Lang: "en", Label: "Home",
	}))

	tree, err := menus.Tree(ctx, "en", store.MenuPositionHeader, "", false)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, "Home", tree[0].Label)
	// "both" items appear in the header too; no translation falls back to base
	assert.Equal(t, "Kontak", tree[1].Label)

	footer, err := menus.Tree(ctx, "id", store.MenuPositionFooter, "", false)
	require.NoError(t, err)
	require.Len(t, footer, 2)
	assert.Equal(t, "Kebijakan", footer[0].Label)
	assert.Equal(t, "Kontak", footer[1].Label)
}

func TestMenuTreeAdminOnlyItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	menus := NewMenuService(db)

	createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Beranda", URL: "/", IsActive: true,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Back Office", URL: "/admin",
		IsActive: true, RequiresAdmin: true, SortOrder: 1,
	})

	public, err := menus.Tree(ctx, "id", store.MenuPositionHeader, "", false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Beranda", public[0].Label)

	admin, err := menus.Tree(ctx, "id", store.MenuPositionHeader, "", true)
	require.NoError(t, err)
	assert.Len(t, admin, 2)
}

func TestMenuTreeHidesInactiveSubtree(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	menus := NewMenuService(db)

	parent := createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Produk", URL: "#", IsActive: true,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		ParentID: sql.NullInt64{Int64: parent, Valid: true},
		Position: store.MenuPositionHeader, Label: "Katalog", URL: "/catalog", IsActive: true,
	})

	tree, err := menus.Tree(ctx, "id", store.MenuPositionHeader, "", false)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Katalog", tree[0].Children[0].Label)

	// Deactivating the parent hides the whole subtree
	_, err = db.ExecContext(ctx, "UPDATE menu_items SET is_active = 0 WHERE id = ?", parent)
	require.NoError(t, err)

	tree, err = menus.Tree(ctx, "id", store.MenuPositionHeader, "", false)
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestMenuTreeActivePath(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	menus := NewMenuService(db)

	createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Beranda", URL: "/", IsActive: true,
	})
	parent := createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Produk", URL: "#", IsActive: true, SortOrder: 1,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		ParentID: sql.NullInt64{Int64: parent, Valid: true},
		Position: store.MenuPositionHeader, Label: "Katalog", URL: "/catalog", IsActive: true,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Layanan", URL: "/layanan", IsActive: true, SortOrder: 2,
	})

	tests := []struct {
		name        string
		currentPath string
		active      map[string]bool
	}{
		{
			"home exact match only",
			"/",
			map[string]bool{"Beranda": true, "Produk": false, "Layanan": false},
		},
		{
			"exact match",
			"/layanan",
			map[string]bool{"Beranda": false, "Produk": false, "Layanan": true},
		},
		{
			"prefix match propagates to the parent",
			"/catalog/gps-aera",
			map[string]bool{"Beranda": false, "Produk": true, "Layanan": false},
		},
		{
			"prefix stops at segment boundaries",
			"/catalogue",
			map[string]bool{"Beranda": false, "Produk": false, "Layanan": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := menus.Tree(ctx, "id", store.MenuPositionHeader, tt.currentPath, false)
			require.NoError(t, err)

			got := make(map[string]bool, len(tree))
			for _, node := range tree {
				got[node.Label] = node.Active
			}
			assert.Equal(t, tt.active, got)
		})
	}

	// The matching child itself is marked too.
	tree, err := menus.Tree(ctx, "id", store.MenuPositionHeader, "/catalog", false)
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.True(t, tree[1].Active)
	require.Len(t, tree[1].Children, 1)
	assert.True(t, tree[1].Children[0].Active)
}

func TestMenuTreeDropsEmptyGroupingItem(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	menus := NewMenuService(db)

	parent := createMenuItem(t, db, store.CreateMenuItemParams{
		Position: store.MenuPositionHeader, Label: "Grup", URL: "#", IsActive: true,
	})
	createMenuItem(t, db, store.CreateMenuItemParams{
		ParentID: sql.NullInt64{Int64: parent, Valid: true},
		Position: store.MenuPositionHeader, Label: "Anak", URL: "/anak", IsActive: false,
	})

	tree, err := menus.Tree(ctx, "id", store.MenuPositionHeader, "", false)
	require.NoError(t, err)
	assert.Empty(t, tree, "grouping item with no visible children must vanish")
}
