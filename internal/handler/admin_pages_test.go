package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/translate"
	"github.com/ptaero/aerosite/web"
)

// taggingProvider marks machine output with the target language so tests
// can tell it apart from manual input.
type taggingProvider struct{}

func (taggingProvider) Translate(_ context.Context, text, _, target string) (string, error) {
	return "[" + target + "] " + text, nil
}

func newPagesHandler(t *testing.T) (*AdminPagesHandler, *store.Queries) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	renderer, err := render.New(render.Config{TemplatesFS: web.Templates(), SiteName: "Aerosite"})
	require.NoError(t, err)

	return NewAdminPagesHandler(db, renderer, translate.NewService(taggingProvider{})), store.New(db)
}

func postForm(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPageCreateMissingTitle(t *testing.T) {
	h, _ := newPagesHandler(t)

	form := url.Values{}
	form.Set("body", "<p>Isi tanpa judul</p>")

	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/admin/pages/new", form))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required")
	// The submitted body survives the round trip.
	assert.Contains(t, rec.Body.String(), "Isi tanpa judul")
}

func TestPageCreateDuplicateSlugKeepsInput(t *testing.T) {
	h, q := newPagesHandler(t)

	_, err := q.CreatePage(context.Background(), store.CreatePageParams{
		Slug: "tentang", Template: "default", Title: "Tentang"})
	require.NoError(t, err)

	form := url.Values{}
	form.Set("title", "Tentang Kami")
	form.Set("slug", "tentang")
	form.Set("body", "<p>Sejarah perusahaan sejak 2001.</p>")
	form.Set("title_en", "About Us")

	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/admin/pages/new", form))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "is the slug unique")
	// Everything the admin typed is still in the form, including the
	// per-language inputs.
	assert.Contains(t, body, "Tentang Kami")
	assert.Contains(t, body, "Sejarah perusahaan sejak 2001.")
	assert.Contains(t, body, "About Us")

	pages, err := q.ListPages(context.Background())
	require.NoError(t, err)
	assert.Len(t, pages, 1, "the rejected submission must not create a page")
}

func TestPageUpdateValidationRerendersForm(t *testing.T) {
	h, q := newPagesHandler(t)

	id, err := q.CreatePage(context.Background(), store.CreatePageParams{
		Slug: "layanan", Template: "default", Title: "Layanan"})
	require.NoError(t, err)

	form := url.Values{}
	form.Set("title", "")
	form.Set("slug", "layanan")
	form.Set("body", "<p>Draf revisi layanan.</p>")

	pageID := strconv.FormatInt(id, 10)
	rec := httptest.NewRecorder()
	r := withURLParam(postForm("/admin/pages/"+pageID, form), "id", pageID)
	h.Update(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required")
	assert.Contains(t, rec.Body.String(), "Draf revisi layanan.")

	// The stored page is untouched.
	page, err := q.GetPage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Layanan", page.Title)
}

func TestPageSaveTwiceKeepsTranslationsStable(t *testing.T) {
	h, q := newPagesHandler(t)
	ctx := context.Background()

	form := url.Values{}
	form.Set("title", "Tentang Kami")
	form.Set("slug", "tentang-kami")
	form.Set("excerpt", "Profil perusahaan")
	form.Set("body", "<p>Sejarah perusahaan sejak 2001.</p>")
	form.Set("title_en", "About Us") // manual input wins over the machine

	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/admin/pages/new", form))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page, err := q.GetPageBySlug(ctx, "tentang-kami")
	require.NoError(t, err)

	first, err := q.ListPageTrs(ctx, page.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	byLang := make(map[string]store.PageTr, len(first))
	for _, tr := range first {
		byLang[tr.Lang] = tr
	}
	assert.Equal(t, "About Us", byLang["en"].Title)
	assert.Equal(t, "[ja] Tentang Kami", byLang["ja"].Title)
	assert.Equal(t, "[ko] Profil perusahaan", byLang["ko"].Excerpt.String)

	// Saving the same form again must leave every translation row as it
	// was: same ids, same content.
	pageID := strconv.FormatInt(page.ID, 10)
	rec = httptest.NewRecorder()
	r := withURLParam(postForm("/admin/pages/"+pageID, form), "id", pageID)
	h.Update(rec, r)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	second, err := q.ListPageTrs(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
