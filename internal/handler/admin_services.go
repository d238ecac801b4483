package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/imaging"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/translate"
	"github.com/ptaero/aerosite/internal/util"
)

var (
	serviceTrFields     = []string{"title", "desc", "content"}
	serviceTrHTMLFields = map[string]bool{"content": true}
)

// AdminServicesHandler manages service offerings in the back office.
type AdminServicesHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	translator *translate.Service
	images     *imaging.Processor
}

// NewAdminServicesHandler creates an AdminServicesHandler.
func NewAdminServicesHandler(db *sql.DB, renderer *render.Renderer, translator *translate.Service, images *imaging.Processor) *AdminServicesHandler {
	return &AdminServicesHandler{
		queries:    store.New(db),
		renderer:   renderer,
		translator: translator,
		images:     images,
	}
}

// AdminServicesData holds data for the service list template.
type AdminServicesData struct {
	Services []store.Service
}

// List handles GET /admin/services.
func (h *AdminServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.queries.ListServices(r.Context())
	if err != nil {
		slog.Error("failed to list services", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.renderer.Render(w, r, "admin/services", render.TemplateData{
		Title: "Services",
		Data:  AdminServicesData{Services: services},
	}); err != nil {
		slog.Error("failed to render service list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AdminServiceFormData holds data for the service create/edit template.
type AdminServiceFormData struct {
	Service      store.Service
	Translations map[string]i18n.Fields
	IsNew        bool
}

// NewForm handles GET /admin/services/new.
func (h *AdminServicesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := AdminServiceFormData{
		Service:      store.Service{IsActive: true},
		Translations: emptyTranslations(serviceTrFields),
		IsNew:        true,
	}
	if err := h.renderer.Render(w, r, "admin/service_form", render.TemplateData{Title: "New Service", Data: data}); err != nil {
		slog.Error("failed to render service form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles POST /admin/services/new.
func (h *AdminServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	arg, errMsg := h.serviceParams(r, store.Service{})
	if errMsg != "" {
		h.formError(w, r, 0, arg, errMsg)
		return
	}

	serviceID, err := h.queries.CreateService(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create service", "error", err, "slug", arg.Slug)
		h.formError(w, r, 0, arg, "Could not create the service, is the slug unique?")
		return
	}

	h.saveServiceTranslations(r, serviceID, arg)

	slog.Info("service created", "service_id", serviceID, "slug", arg.Slug)
	flashSuccess(w, r, h.renderer, "/admin/services", "Service created")
}

// EditForm handles GET /admin/services/{id}.
func (h *AdminServicesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	svc, err := h.queries.GetService(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	trs, err := h.queries.ListServiceTrs(r.Context(), id)
	if err != nil {
		slog.Warn("failed to load service translations", "error", err, "service_id", id)
	}
	translations := emptyTranslations(serviceTrFields)
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"title":   t.Title,
			"desc":    t.Desc.String,
			"content": t.Content.String,
		}
	}

	data := AdminServiceFormData{Service: svc, Translations: translations}
	if err := h.renderer.Render(w, r, "admin/service_form", render.TemplateData{Title: "Edit Service", Data: data}); err != nil {
		slog.Error("failed to render service form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Update handles POST /admin/services/{id}.
func (h *AdminServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	svc, err := h.queries.GetService(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	arg, errMsg := h.serviceParams(r, svc)
	if errMsg != "" {
		h.formError(w, r, id, arg, errMsg)
		return
	}

	if err := h.queries.UpdateService(r.Context(), store.UpdateServiceParams{
		ID:       id,
		Slug:     arg.Slug,
		Title:    arg.Title,
		Desc:     arg.Desc,
		Content:  arg.Content,
		ImageURL: arg.ImageURL,
		IsActive: arg.IsActive,
	}); err != nil {
		slog.Error("failed to update service", "error", err, "service_id", id)
		h.formError(w, r, id, arg, "Could not update the service, is the slug unique?")
		return
	}

	h.saveServiceTranslations(r, id, arg)

	slog.Info("service updated", "service_id", id, "slug", arg.Slug)
	flashSuccess(w, r, h.renderer, "/admin/services", "Service updated")
}

// Delete handles POST /admin/services/{id}/delete.
func (h *AdminServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeleteService(r.Context(), id); err != nil {
		slog.Error("failed to delete service", "error", err, "service_id", id)
		flashError(w, r, h.renderer, "/admin/services", "Could not delete the service")
		return
	}
	slog.Info("service deleted", "service_id", id)
	flashSuccess(w, r, h.renderer, "/admin/services", "Service deleted")
}

// serviceParams reads the service form. A non-empty second return value
// is a validation error; the params still carry the submitted fields so
// the form can redisplay.
func (h *AdminServicesHandler) serviceParams(r *http.Request, current store.Service) (store.CreateServiceParams, string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return store.CreateServiceParams{}, "Invalid form data"
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	slug := util.Slugify(r.PostFormValue("slug"))
	if slug == "" {
		slug = util.Slugify(title)
	}

	arg := store.CreateServiceParams{
		Slug:     slug,
		Title:    title,
		Desc:     nullString(strings.TrimSpace(r.PostFormValue("desc"))),
		Content:  nullString(ugcPolicy.Sanitize(r.PostFormValue("content"))),
		ImageURL: current.ImageURL,
		IsActive: r.PostFormValue("is_active") == "on",
	}

	if title == "" {
		return arg, "Title is required"
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer func() { _ = file.Close() }()
		result, err := h.images.SaveImage(file, header.Filename)
		if err != nil {
			slog.Warn("service upload rejected", "error", err)
			return arg, "Could not process the uploaded image"
		}
		arg.ImageURL = nullString("/uploads/" + result.ImagePath)
	}

	return arg, ""
}

// formError re-renders the service form with the submitted values and
// HTTP 400.
func (h *AdminServicesHandler) formError(w http.ResponseWriter, r *http.Request, id int64, arg store.CreateServiceParams, message string) {
	data := AdminServiceFormData{
		Service: store.Service{
			ID:       id,
			Slug:     arg.Slug,
			Title:    arg.Title,
			Desc:     arg.Desc,
			Content:  arg.Content,
			ImageURL: arg.ImageURL,
			IsActive: arg.IsActive,
		},
		Translations: translate.CollectInputs(r.PostForm, serviceTrFields),
		IsNew:        id == 0,
	}
	title := "Edit Service"
	if data.IsNew {
		title = "New Service"
	}
	renderFormError(w, r, h.renderer, "admin/service_form", title, data, message)
}

func (h *AdminServicesHandler) saveServiceTranslations(r *http.Request, serviceID int64, arg store.CreateServiceParams) {
	base := i18n.Fields{
		"title":   arg.Title,
		"desc":    arg.Desc.String,
		"content": arg.Content.String,
	}
	manual := translate.CollectInputs(r.PostForm, serviceTrFields)

	ctx := context.WithoutCancel(r.Context())
	for _, lang := range i18n.SupportedLangs {
		fields := h.translator.Localize(ctx, base, manual[lang], serviceTrHTMLFields, lang)
		if err := h.queries.UpsertServiceTr(ctx, store.UpsertServiceTrParams{
			ServiceID: serviceID,
			Lang:      lang,
			Title:     fields["title"],
			Desc:      nullString(fields["desc"]),
			Content:   nullString(ugcPolicy.Sanitize(fields["content"])),
		}); err != nil {
			slog.Warn("failed to save service translation", "error", err, "service_id", serviceID, "lang", lang)
		}
	}
}
