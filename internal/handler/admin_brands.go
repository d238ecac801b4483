package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/util"
)

// AdminBrandsHandler manages product brands in the back office. Brand
// names are proper nouns and are not translated.
type AdminBrandsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdminBrandsHandler creates an AdminBrandsHandler.
func NewAdminBrandsHandler(db *sql.DB, renderer *render.Renderer) *AdminBrandsHandler {
	return &AdminBrandsHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// AdminBrandsData holds data for the brand list template.
type AdminBrandsData struct {
	Brands []store.Brand
}

// List handles GET /admin/brands.
func (h *AdminBrandsHandler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.queries.ListBrands(r.Context())
	if err != nil {
		slog.Error("failed to list brands", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.renderer.Render(w, r, "admin/brands", render.TemplateData{
		Title: "Brands",
		Data:  AdminBrandsData{Brands: brands},
	}); err != nil {
		slog.Error("failed to render brand list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles POST /admin/brands/new.
func (h *AdminBrandsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r) {
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		h.listError(w, r, "Brand name is required")
		return
	}
	slug := util.Slugify(r.PostFormValue("slug"))
	if slug == "" {
		slug = util.Slugify(name)
	}

	brandID, err := h.queries.CreateBrand(r.Context(), slug, name)
	if err != nil {
		slog.Error("failed to create brand", "error", err, "slug", slug)
		h.listError(w, r, "Could not create the brand, is the slug unique?")
		return
	}

	slog.Info("brand created", "brand_id", brandID, "name", name)
	flashSuccess(w, r, h.renderer, "/admin/brands", "Brand created")
}

// Update handles POST /admin/brands/{id}.
func (h *AdminBrandsHandler) Update(w http.ResponseWriter, r *http.Request) {
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
		h.listError(w, r, "Brand name is required")
		return
	}
	slug := util.Slugify(r.PostFormValue("slug"))
	if slug == "" {
		slug = util.Slugify(name)
	}

	if err := h.queries.UpdateBrand(r.Context(), id, slug, name); err != nil {
		slog.Error("failed to update brand", "error", err, "brand_id", id)
		h.listError(w, r, "Could not update the brand, is the slug unique?")
		return
	}

	slog.Info("brand updated", "brand_id", id, "name", name)
	flashSuccess(w, r, h.renderer, "/admin/brands", "Brand updated")
}

// Delete handles POST /admin/brands/{id}/delete. Products keep their row
// and lose the brand reference.
func (h *AdminBrandsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeleteBrand(r.Context(), id); err != nil {
		slog.Error("failed to delete brand", "error", err, "brand_id", id)
		flashError(w, r, h.renderer, "/admin/brands", "Could not delete the brand")
		return
	}
	slog.Info("brand deleted", "brand_id", id)
	flashSuccess(w, r, h.renderer, "/admin/brands", "Brand deleted")
}

// listError re-renders the brand list with an inline error and HTTP 400.
// The brand forms live on the list page, so it doubles as the form.
func (h *AdminBrandsHandler) listError(w http.ResponseWriter, r *http.Request, message string) {
	brands, err := h.queries.ListBrands(r.Context())
	if err != nil {
		slog.Warn("failed to list brands", "error", err)
	}
	renderFormError(w, r, h.renderer, "admin/brands", "Brands", AdminBrandsData{Brands: brands}, message)
}
