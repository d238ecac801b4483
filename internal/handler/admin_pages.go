package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/translate"
	"github.com/ptaero/aerosite/internal/util"
)

// pageTrFields are the translatable page fields; body carries HTML.
var (
	pageTrFields     = []string{"title", "excerpt", "body"}
	pageTrHTMLFields = map[string]bool{"body": true}
)

// AdminPagesHandler manages CMS pages in the back office.
type AdminPagesHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	translator *translate.Service
}

// NewAdminPagesHandler creates an AdminPagesHandler.
func NewAdminPagesHandler(db *sql.DB, renderer *render.Renderer, translator *translate.Service) *AdminPagesHandler {
	return &AdminPagesHandler{
		queries:    store.New(db),
		renderer:   renderer,
		translator: translator,
	}
}

// AdminPagesData holds data for the page list template.
type AdminPagesData struct {
	Pages []store.Page
}

// List handles GET /admin/pages.
func (h *AdminPagesHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.queries.ListPages(r.Context())
	if err != nil {
		slog.Error("failed to list pages", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.renderer.Render(w, r, "admin/pages", render.TemplateData{
		Title: "Pages",
		Data:  AdminPagesData{Pages: pages},
	}); err != nil {
		slog.Error("failed to render page list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AdminPageFormData holds data for the page create/edit template.
type AdminPageFormData struct {
	Page         store.Page
	Translations map[string]i18n.Fields
	IsNew        bool
}

// NewForm handles GET /admin/pages/new.
func (h *AdminPagesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := AdminPageFormData{
		Page:         store.Page{Template: "default", IsPublished: true},
		Translations: emptyTranslations(pageTrFields),
		IsNew:        true,
	}
	if err := h.renderer.Render(w, r, "admin/page_form", render.TemplateData{Title: "New Page", Data: data}); err != nil {
		slog.Error("failed to render page form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles POST /admin/pages/new.
func (h *AdminPagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r) {
		return
	}

	arg, errMsg := h.pageParams(r)
	if errMsg != "" {
		h.formError(w, r, 0, arg, errMsg)
		return
	}

	pageID, err := h.queries.CreatePage(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create page", "error", err, "slug", arg.Slug)
		h.formError(w, r, 0, arg, "Could not create the page, is the slug unique?")
		return
	}

	h.savePageTranslations(r, pageID, arg)

	slog.Info("page created", "page_id", pageID, "slug", arg.Slug)
	flashSuccess(w, r, h.renderer, "/admin/pages", "Page created")
}

// EditForm handles GET /admin/pages/{id}.
func (h *AdminPagesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	page, err := h.queries.GetPage(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	trs, err := h.queries.ListPageTrs(r.Context(), id)
	if err != nil {
		slog.Warn("failed to load page translations", "error", err, "page_id", id)
	}

	translations := emptyTranslations(pageTrFields)
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"title":   t.Title,
			"excerpt": t.Excerpt.String,
			"body":    t.Body.String,
		}
	}

	data := AdminPageFormData{Page: page, Translations: translations}
	if err := h.renderer.Render(w, r, "admin/page_form", render.TemplateData{Title: "Edit Page", Data: data}); err != nil {
		slog.Error("failed to render page form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Update handles POST /admin/pages/{id}.
func (h *AdminPagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrBadRequest(w, r) {
		return
	}

	arg, errMsg := h.pageParams(r)
	if errMsg != "" {
		h.formError(w, r, id, arg, errMsg)
		return
	}

	if err := h.queries.UpdatePage(r.Context(), store.UpdatePageParams{
		ID:          id,
		Slug:        arg.Slug,
		Template:    arg.Template,
		IsPublished: arg.IsPublished,
		Title:       arg.Title,
		Excerpt:     arg.Excerpt,
		Body:        arg.Body,
		MetaTitle:   arg.MetaTitle,
		MetaDesc:    arg.MetaDesc,
	}); err != nil {
		slog.Error("failed to update page", "error", err, "page_id", id)
		h.formError(w, r, id, arg, "Could not update the page, is the slug unique?")
		return
	}

	h.savePageTranslations(r, id, arg)

	slog.Info("page updated", "page_id", id, "slug", arg.Slug)
	flashSuccess(w, r, h.renderer, "/admin/pages", "Page updated")
}

// Delete handles POST /admin/pages/{id}/delete.
func (h *AdminPagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeletePage(r.Context(), id); err != nil {
		slog.Error("failed to delete page", "error", err, "page_id", id)
		flashError(w, r, h.renderer, "/admin/pages", "Could not delete the page")
		return
	}
	slog.Info("page deleted", "page_id", id)
	flashSuccess(w, r, h.renderer, "/admin/pages", "Page deleted")
}

// pageParams reads the base-language page fields. A non-empty second
// return value is a validation error; the params still carry whatever
// the admin submitted so the form can redisplay.
func (h *AdminPagesHandler) pageParams(r *http.Request) (store.CreatePageParams, string) {
	title := strings.TrimSpace(r.PostFormValue("title"))

	slug := util.Slugify(r.PostFormValue("slug"))
	if slug == "" {
		slug = util.Slugify(title)
	}
	template := strings.TrimSpace(r.PostFormValue("template"))
	if template == "" {
		template = "default"
	}

	arg := store.CreatePageParams{
		Slug:        slug,
		Template:    template,
		IsPublished: r.PostFormValue("is_published") == "on",
		Title:       title,
		Excerpt:     nullString(strings.TrimSpace(r.PostFormValue("excerpt"))),
		Body:        nullString(ugcPolicy.Sanitize(r.PostFormValue("body"))),
		MetaTitle:   nullString(strings.TrimSpace(r.PostFormValue("meta_title"))),
		MetaDesc:    nullString(strings.TrimSpace(r.PostFormValue("meta_desc"))),
	}
	if title == "" {
		return arg, "Title is required"
	}
	return arg, ""
}

// formError re-renders the page form with the submitted values and
// HTTP 400.
func (h *AdminPagesHandler) formError(w http.ResponseWriter, r *http.Request, id int64, arg store.CreatePageParams, message string) {
	data := AdminPageFormData{
		Page: store.Page{
			ID:          id,
			Slug:        arg.Slug,
			Template:    arg.Template,
			IsPublished: arg.IsPublished,
			Title:       arg.Title,
			Excerpt:     arg.Excerpt,
			Body:        arg.Body,
			MetaTitle:   arg.MetaTitle,
			MetaDesc:    arg.MetaDesc,
		},
		Translations: translate.CollectInputs(r.PostForm, pageTrFields),
		IsNew:        id == 0,
	}
	title := "Edit Page"
	if data.IsNew {
		title = "New Page"
	}
	renderFormError(w, r, h.renderer, "admin/page_form", title, data, message)
}

// savePageTranslations stores one translation row per supported language:
// manual admin input merged over machine translation of the base fields.
func (h *AdminPagesHandler) savePageTranslations(r *http.Request, pageID int64, arg store.CreatePageParams) {
	base := i18n.Fields{
		"title":   arg.Title,
		"excerpt": arg.Excerpt.String,
		"body":    arg.Body.String,
	}
	manual := translate.CollectInputs(r.PostForm, pageTrFields)

	// Translation runs after the response-facing work; a slow provider
	// must not fail the save.
	ctx := context.WithoutCancel(r.Context())
	for _, lang := range i18n.SupportedLangs {
		fields := h.translator.Localize(ctx, base, manual[lang], pageTrHTMLFields, lang)
		if err := h.queries.UpsertPageTr(ctx, store.UpsertPageTrParams{
			PageID:  pageID,
			Lang:    lang,
			Title:   fields["title"],
			Excerpt: nullString(fields["excerpt"]),
			Body:    nullString(ugcPolicy.Sanitize(fields["body"])),
		}); err != nil {
			slog.Warn("failed to save page translation", "error", err, "page_id", pageID, "lang", lang)
		}
	}
}

// emptyTranslations returns a blank per-language field map for form
// rendering.
func emptyTranslations(fieldNames []string) map[string]i18n.Fields {
	out := make(map[string]i18n.Fields, len(i18n.SupportedLangs))
	for _, lang := range i18n.SupportedLangs {
		fields := make(i18n.Fields, len(fieldNames))
		for _, name := range fieldNames {
			fields[name] = ""
		}
		out[lang] = fields
	}
	return out
}
