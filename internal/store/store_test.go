package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Queries {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return New(db)
}

func TestPublishedPageFilter(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	_, err := q.CreatePage(ctx, CreatePageParams{
		Slug: "tentang", Template: "default", IsPublished: true, Title: "Tentang Kami",
	})
	require.NoError(t, err)
	_, err = q.CreatePage(ctx, CreatePageParams{
		Slug: "draft", Template: "default", IsPublished: false, Title: "Draf",
	})
	require.NoError(t, err)

	page, err := q.GetPublishedPageBySlug(ctx, "tentang")
	require.NoError(t, err)
	assert.Equal(t, "Tentang Kami", page.Title)

	_, err = q.GetPublishedPageBySlug(ctx, "draft")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	published, err := q.ListPublishedPages(ctx)
	require.NoError(t, err)
	assert.Len(t, published, 1)

	all, err := q.ListPages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPageTrUpsert(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	pageID, err := q.CreatePage(ctx, CreatePageParams{
		Slug: "tentang", Template: "default", IsPublished: true, Title: "Tentang Kami",
	})
	require.NoError(t, err)

	require.NoError(t, q.UpsertPageTr(ctx, UpsertPageTrParams{
		PageID: pageID, Lang: "en", Title: "About Us",
	}))
	// Second upsert for the same language updates, not duplicates
	require.NoError(t, q.UpsertPageTr(ctx, UpsertPageTrParams{
		PageID: pageID, Lang: "en", Title: "About the Company",
	}))
	require.NoError(t, q.UpsertPageTr(ctx, UpsertPageTrParams{
		PageID: pageID, Lang: "ja", Title: "会社概要",
	}))

	trs, err := q.ListPageTrs(ctx, pageID)
	require.NoError(t, err)
	require.Len(t, trs, 2)

	byLang := make(map[string]string)
	for _, tr := range trs {
		byLang[tr.Lang] = tr.Title
	}
	assert.Equal(t, "About the Company", byLang["en"])
	assert.Equal(t, "会社概要", byLang["ja"])
}

func TestPageTrCascadeDelete(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	pageID, err := q.CreatePage(ctx, CreatePageParams{
		Slug: "tentang", Template: "default", Title: "Tentang",
	})
	require.NoError(t, err)
	require.NoError(t, q.UpsertPageTr(ctx, UpsertPageTrParams{
		PageID: pageID, Lang: "en", Title: "About",
	}))

	require.NoError(t, q.DeletePage(ctx, pageID))

	trs, err := q.ListPageTrs(ctx, pageID)
	require.NoError(t, err)
	assert.Empty(t, trs, "translation rows must go with the page")
}

func TestBrandProductFilter(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	brandID, err := q.CreateBrand(ctx, "garmin", "Garmin")
	require.NoError(t, err)

	price := decimal.RequireFromString("4500000.00")
	_, err = q.CreateProduct(ctx, CreateProductParams{
		Slug: "gps-aera", Name: "GPS Aera",
		BrandID: sql.NullInt64{Int64: brandID, Valid: true},
		Price:   price, IsActive: true,
	})
	require.NoError(t, err)
	_, err = q.CreateProduct(ctx, CreateProductParams{
		Slug: "no-brand", Name: "Generik", Price: price, IsActive: true,
	})
	require.NoError(t, err)
	_, err = q.CreateProduct(ctx, CreateProductParams{
		Slug: "retired", Name: "Pensiun",
		BrandID: sql.NullInt64{Int64: brandID, Valid: true},
		Price:   price, IsActive: false,
	})
	require.NoError(t, err)

	byBrand, err := q.ListActiveProductsByBrand(ctx, brandID)
	require.NoError(t, err)
	require.Len(t, byBrand, 1)
	assert.Equal(t, "gps-aera", byBrand[0].Slug)
	assert.Equal(t, "Garmin", byBrand[0].BrandName.String)
	assert.Equal(t, "4500000.00", byBrand[0].Price.StringFixed(2))

	active, err := q.ListActiveProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestProductTrBatchLookup(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	price := decimal.RequireFromString("100.00")
	first, err := q.CreateProduct(ctx, CreateProductParams{
		Slug: "satu", Name: "Satu", Price: price, IsActive: true,
	})
	require.NoError(t, err)
	second, err := q.CreateProduct(ctx, CreateProductParams{
		Slug: "dua", Name: "Dua", Price: price, IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, q.UpsertProductTr(ctx, UpsertProductTrParams{
		ProductID: first, Lang: "en", Name: "One",
	}))
	require.NoError(t, q.UpsertProductTr(ctx, UpsertProductTrParams{
		ProductID: second, Lang: "en", Name: "Two",
	}))
	require.NoError(t, q.UpsertProductTr(ctx, UpsertProductTrParams{
		ProductID: second, Lang: "ko", Name: "둘",
	}))

	trs, err := q.ListProductTrsForProducts(ctx, []int64{first, second})
	require.NoError(t, err)
	assert.Len(t, trs[first], 1)
	assert.Len(t, trs[second], 2)

	empty, err := q.ListProductTrsForProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetUserByUsername(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	id, err := q.CreateUser(ctx, CreateUserParams{
		Username:     "budi",
		Email:        sql.NullString{String: "budi@example.com", Valid: true},
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	user, err := q.GetUserByUsername(ctx, "budi")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.False(t, user.IsAdmin)

	_, err = q.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
