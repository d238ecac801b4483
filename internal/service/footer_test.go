package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptaero/aerosite/internal/store"
)

func TestFooterColumns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	queries := store.New(db)
	footer := NewFooterService(db)

	section, err := queries.CreateFooterSection(ctx, "Perusahaan", 0, true)
	require.NoError(t, err)
	hidden, err := queries.CreateFooterSection(ctx, "Tersembunyi", 1, false)
	require.NoError(t, err)
	_, err = queries.CreateFooterSection(ctx, "Kosong", 2, true)
	require.NoError(t, err)

	link, err := queries.CreateFooterLink(ctx, store.CreateFooterLinkParams{
		SectionID: section,
		URL:       sql.NullString{String: "/p/tentang", Valid: true},
		Label:     "Tentang Kami",
		IsActive:  true,
	})
	require.NoError(t, err)
	_, err = queries.CreateFooterLink(ctx, store.CreateFooterLinkParams{
		SectionID: section,
		URL:       sql.NullString{String: "/p/karir", Valid: true},
		Label:     "Karir",
		IsActive:  false,
		SortOrder: 1,
	})
	require.NoError(t, err)
	_, err = queries.CreateFooterLink(ctx, store.CreateFooterLinkParams{
		SectionID: hidden,
		Label:     "Tak terlihat",
		IsActive:  true,
	})
	require.NoError(t, err)

	require.NoError(t, queries.UpsertFooterSectionTr(ctx, section, "en", "Company"))
	require.NoError(t, queries.UpsertFooterLinkTr(ctx, link, "en", "About Us", sql.NullString{}))

	columns, err := footer.Columns(ctx, "en")
	require.NoError(t, err)

	// Hidden and empty sections are dropped
	require.Len(t, columns, 1)
	assert.Equal(t, "Company", columns[0].Name)
	require.Len(t, columns[0].Entries, 1)
	assert.Equal(t, "About Us", columns[0].Entries[0].Label)
	assert.Equal(t, "/p/tentang", columns[0].Entries[0].URL)

	// Untranslated language falls back to the base names
	columns, err = footer.Columns(ctx, "ja")
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, "Perusahaan", columns[0].Name)
	assert.Equal(t, "Tentang Kami", columns[0].Entries[0].Label)
}

func TestFooterHTMLEntry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	queries := store.New(db)
	footer := NewFooterService(db)

	section, err := queries.CreateFooterSection(ctx, "Kontak", 0, true)
	require.NoError(t, err)
	_, err = queries.CreateFooterLink(ctx, store.CreateFooterLinkParams{
		SectionID:   section,
		Label:       "Alamat",
		HTMLContent: sql.NullString{String: "<address>Jl. Merdeka 1</address>", Valid: true},
		IsActive:    true,
	})
	require.NoError(t, err)

	columns, err := footer.Columns(ctx, "id")
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Contains(t, string(columns[0].Entries[0].HTML), "Jl. Merdeka 1")
}
