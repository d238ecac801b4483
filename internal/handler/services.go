package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/middleware"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
)

// ServicesHandler serves the public services pages.
type ServicesHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewServicesHandler creates a ServicesHandler.
func NewServicesHandler(db *sql.DB, renderer *render.Renderer) *ServicesHandler {
	return &ServicesHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// LocalizedService is a service offering resolved for the request language.
type LocalizedService struct {
	ID       int64
	Slug     string
	Title    string
	Desc     string
	Content  string
	ImageURL string
}

// ServicesData holds data for the services listing template.
type ServicesData struct {
	Services []LocalizedService
}

// List handles GET /layanan.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)

	services, err := h.queries.ListActiveServices(ctx)
	if err != nil {
		slog.Error("failed to list services", "error", err)
	}

	var data ServicesData
	for _, svc := range services {
		trs, err := h.queries.ListServiceTrs(ctx, svc.ID)
		if err != nil {
			slog.Warn("failed to load service translations", "error", err, "service_id", svc.ID)
		}
		data.Services = append(data.Services, localizeService(svc, trs, lang))
	}

	if err := h.renderer.Render(w, r, "site/services", render.TemplateData{Data: data}); err != nil {
		slog.Error("failed to render services", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ServiceDetailData holds data for the service detail template.
type ServiceDetailData struct {
	Service LocalizedService
}

// Detail handles GET /layanan/{slug}.
func (h *ServicesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := middleware.GetLang(r)

	svc, err := h.queries.GetActiveServiceBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	trs, err := h.queries.ListServiceTrs(r.Context(), svc.ID)
	if err != nil {
		slog.Warn("failed to load service translations", "error", err, "service_id", svc.ID)
	}

	localized := localizeService(svc, trs, lang)
	if err := h.renderer.Render(w, r, "site/service", render.TemplateData{
		Title: localized.Title,
		Data:  ServiceDetailData{Service: localized},
	}); err != nil {
		slog.Error("failed to render service", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func localizeService(svc store.Service, trs []store.ServiceTr, lang string) LocalizedService {
	base := i18n.Fields{
		"title":   svc.Title,
		"desc":    svc.Desc.String,
		"content": svc.Content.String,
	}
	translations := make(i18n.Translations, len(trs))
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"title":   t.Title,
			"desc":    t.Desc.String,
			"content": t.Content.String,
		}
	}
	return LocalizedService{
		ID:       svc.ID,
		Slug:     svc.Slug,
		Title:    i18n.Resolve(base, translations, lang, "title"),
		Desc:     i18n.Resolve(base, translations, lang, "desc"),
		Content:  i18n.Resolve(base, translations, lang, "content"),
		ImageURL: svc.ImageURL.String,
	}
}
