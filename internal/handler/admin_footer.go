package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/translate"
)

var (
	footerSectionTrFields = []string{"name"}
	footerLinkTrFields    = []string{"label", "html_content"}
	footerLinkHTMLFields  = map[string]bool{"html_content": true}
)

// AdminFooterHandler manages footer sections and their links in the back
// office.
type AdminFooterHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	translator *translate.Service
}

// NewAdminFooterHandler creates an AdminFooterHandler.
func NewAdminFooterHandler(db *sql.DB, renderer *render.Renderer, translator *translate.Service) *AdminFooterHandler {
	return &AdminFooterHandler{
		queries:    store.New(db),
		renderer:   renderer,
		translator: translator,
	}
}

// AdminFooterData holds data for the footer overview template.
type AdminFooterData struct {
	Sections []store.FooterSection
	Links    map[int64][]store.FooterLink
}

// List handles GET /admin/footer.
func (h *AdminFooterHandler) List(w http.ResponseWriter, r *http.Request) {
	data, err := h.footerData(r)
	if err != nil {
		slog.Error("failed to load footer data", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.renderer.Render(w, r, "admin/footer", render.TemplateData{
		Title: "Footer",
		Data:  data,
	}); err != nil {
		slog.Error("failed to render footer overview", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *AdminFooterHandler) footerData(r *http.Request) (AdminFooterData, error) {
	sections, err := h.queries.ListFooterSections(r.Context())
	if err != nil {
		return AdminFooterData{}, err
	}
	links, err := h.queries.ListFooterLinks(r.Context())
	if err != nil {
		return AdminFooterData{}, err
	}

	bySection := make(map[int64][]store.FooterLink, len(sections))
	for _, link := range links {
		bySection[link.SectionID] = append(bySection[link.SectionID], link)
	}
	return AdminFooterData{Sections: sections, Links: bySection}, nil
}

// listError re-renders the footer overview with an inline error and
// HTTP 400. The section and link forms live on the overview page.
func (h *AdminFooterHandler) listError(w http.ResponseWriter, r *http.Request, message string) {
	data, err := h.footerData(r)
	if err != nil {
		slog.Warn("failed to load footer data", "error", err)
	}
	renderFormError(w, r, h.renderer, "admin/footer", "Footer", data, message)
}

// CreateSection handles POST /admin/footer/sections/new.
func (h *AdminFooterHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r) {
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		h.listError(w, r, "Section name is required")
		return
	}
	sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)

	sectionID, err := h.queries.CreateFooterSection(r.Context(), name, sortOrder, r.PostFormValue("is_active") == "on")
	if err != nil {
		slog.Error("failed to create footer section", "error", err)
		h.listError(w, r, "Could not create the section")
		return
	}

	h.saveSectionTranslations(r, sectionID, name)

	slog.Info("footer section created", "section_id", sectionID, "name", name)
	flashSuccess(w, r, h.renderer, "/admin/footer", "Section created")
}

// UpdateSection handles POST /admin/footer/sections/{id}.
func (h *AdminFooterHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrBadRequest(w, r) {
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		h.listError(w, r, "Section name is required")
		return
	}
	sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)

	if err := h.queries.UpdateFooterSection(r.Context(), id, name, sortOrder, r.PostFormValue("is_active") == "on"); err != nil {
		slog.Error("failed to update footer section", "error", err, "section_id", id)
		h.listError(w, r, "Could not update the section")
		return
	}

	h.saveSectionTranslations(r, id, name)

	slog.Info("footer section updated", "section_id", id, "name", name)
	flashSuccess(w, r, h.renderer, "/admin/footer", "Section updated")
}

// DeleteSection handles POST /admin/footer/sections/{id}/delete. Links go
// with the section.
func (h *AdminFooterHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeleteFooterSection(r.Context(), id); err != nil {
		slog.Error("failed to delete footer section", "error", err, "section_id", id)
		flashError(w, r, h.renderer, "/admin/footer", "Could not delete the section")
		return
	}
	slog.Info("footer section deleted", "section_id", id)
	flashSuccess(w, r, h.renderer, "/admin/footer", "Section deleted")
}

// CreateLink handles POST /admin/footer/links/new.
func (h *AdminFooterHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r) {
		return
	}

	arg, errMsg := h.linkParams(r)
	if errMsg != "" {
		h.listError(w, r, errMsg)
		return
	}

	linkID, err := h.queries.CreateFooterLink(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create footer link", "error", err)
		h.listError(w, r, "Could not create the link")
		return
	}

	h.saveLinkTranslations(r, linkID, arg)

	slog.Info("footer link created", "link_id", linkID, "label", arg.Label)
	flashSuccess(w, r, h.renderer, "/admin/footer", "Link created")
}

// UpdateLink handles POST /admin/footer/links/{id}.
func (h *AdminFooterHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrBadRequest(w, r) {
		return
	}

	arg, errMsg := h.linkParams(r)
	if errMsg != "" {
		h.listError(w, r, errMsg)
		return
	}

	if err := h.queries.UpdateFooterLink(r.Context(), store.UpdateFooterLinkParams{
		ID:          id,
		SectionID:   arg.SectionID,
		URL:         arg.URL,
		Icon:        arg.Icon,
		IsActive:    arg.IsActive,
		SortOrder:   arg.SortOrder,
		Label:       arg.Label,
		HTMLContent: arg.HTMLContent,
	}); err != nil {
		slog.Error("failed to update footer link", "error", err, "link_id", id)
		h.listError(w, r, "Could not update the link")
		return
	}

	h.saveLinkTranslations(r, id, arg)

	slog.Info("footer link updated", "link_id", id, "label", arg.Label)
	flashSuccess(w, r, h.renderer, "/admin/footer", "Link updated")
}

// DeleteLink handles POST /admin/footer/links/{id}/delete.
func (h *AdminFooterHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeleteFooterLink(r.Context(), id); err != nil {
		slog.Error("failed to delete footer link", "error", err, "link_id", id)
		flashError(w, r, h.renderer, "/admin/footer", "Could not delete the link")
		return
	}
	slog.Info("footer link deleted", "link_id", id)
	flashSuccess(w, r, h.renderer, "/admin/footer", "Link deleted")
}

// linkParams reads the footer link form. A non-empty second return
// value is a validation error.
func (h *AdminFooterHandler) linkParams(r *http.Request) (store.CreateFooterLinkParams, string) {
	label := strings.TrimSpace(r.PostFormValue("label"))
	htmlContent := ugcPolicy.Sanitize(r.PostFormValue("html_content"))
	sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)

	arg := store.CreateFooterLinkParams{
		URL:         nullString(strings.TrimSpace(r.PostFormValue("url"))),
		Icon:        nullString(strings.TrimSpace(r.PostFormValue("icon"))),
		IsActive:    r.PostFormValue("is_active") == "on",
		SortOrder:   sortOrder,
		Label:       label,
		HTMLContent: nullString(strings.TrimSpace(htmlContent)),
	}

	sectionID, err := strconv.ParseInt(r.PostFormValue("section_id"), 10, 64)
	if err != nil || sectionID < 1 {
		return arg, "Unknown footer section"
	}
	if _, err := h.queries.GetFooterSection(r.Context(), sectionID); err != nil {
		return arg, "Unknown footer section"
	}
	arg.SectionID = sectionID

	if label == "" && strings.TrimSpace(htmlContent) == "" {
		return arg, "A label or an HTML block is required"
	}
	return arg, ""
}

func (h *AdminFooterHandler) saveSectionTranslations(r *http.Request, sectionID int64, name string) {
	base := i18n.Fields{"name": name}
	manual := translate.CollectInputs(r.PostForm, footerSectionTrFields)

	ctx := context.WithoutCancel(r.Context())
	for _, lang := range i18n.SupportedLangs {
		fields := h.translator.Localize(ctx, base, manual[lang], nil, lang)
		if err := h.queries.UpsertFooterSectionTr(ctx, sectionID, lang, fields["name"]); err != nil {
			slog.Warn("failed to save footer section translation", "error", err, "section_id", sectionID, "lang", lang)
		}
	}
}

func (h *AdminFooterHandler) saveLinkTranslations(r *http.Request, linkID int64, arg store.CreateFooterLinkParams) {
	base := i18n.Fields{
		"label":        arg.Label,
		"html_content": arg.HTMLContent.String,
	}
	manual := translate.CollectInputs(r.PostForm, footerLinkTrFields)

	ctx := context.WithoutCancel(r.Context())
	for _, lang := range i18n.SupportedLangs {
		fields := h.translator.Localize(ctx, base, manual[lang], footerLinkHTMLFields, lang)
		htmlContent := nullString(strings.TrimSpace(ugcPolicy.Sanitize(fields["html_content"])))
		if err := h.queries.UpsertFooterLinkTr(ctx, linkID, lang, fields["label"], htmlContent); err != nil {
			slog.Warn("failed to save footer link translation", "error", err, "link_id", linkID, "lang", lang)
		}
	}
}
