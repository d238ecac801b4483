package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/imaging"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/translate"
)

var carouselTrFields = []string{"title", "subtitle", "cta_text", "cta_url"}

// AdminCarouselHandler manages homepage hero slides in the back office.
type AdminCarouselHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	translator *translate.Service
	images     *imaging.Processor
}

// NewAdminCarouselHandler creates an AdminCarouselHandler.
func NewAdminCarouselHandler(db *sql.DB, renderer *render.Renderer, translator *translate.Service, images *imaging.Processor) *AdminCarouselHandler {
	return &AdminCarouselHandler{
		queries:    store.New(db),
		renderer:   renderer,
		translator: translator,
		images:     images,
	}
}

// AdminCarouselData holds data for the slide list template.
type AdminCarouselData struct {
	Items []store.CarouselItem
}

// List handles GET /admin/carousel.
func (h *AdminCarouselHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListCarouselItems(r.Context())
	if err != nil {
		slog.Error("failed to list carousel items", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.renderer.Render(w, r, "admin/carousel", render.TemplateData{
		Title: "Carousel",
		Data:  AdminCarouselData{Items: items},
	}); err != nil {
		slog.Error("failed to render carousel list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AdminCarouselFormData holds data for the slide create/edit template.
type AdminCarouselFormData struct {
	Item         store.CarouselItem
	Translations map[string]i18n.Fields
	IsNew        bool
}

// NewForm handles GET /admin/carousel/new.
func (h *AdminCarouselHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := AdminCarouselFormData{
		Item:         store.CarouselItem{MediaType: "image", IsActive: true},
		Translations: emptyTranslations(carouselTrFields),
		IsNew:        true,
	}
	if err := h.renderer.Render(w, r, "admin/carousel_form", render.TemplateData{Title: "New Slide", Data: data}); err != nil {
		slog.Error("failed to render carousel form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles POST /admin/carousel/new.
func (h *AdminCarouselHandler) Create(w http.ResponseWriter, r *http.Request) {
	arg, errMsg := h.carouselParams(r, store.CarouselItem{})
	if errMsg != "" {
		h.formError(w, r, 0, arg, errMsg)
		return
	}

	itemID, err := h.queries.CreateCarouselItem(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create carousel item", "error", err)
		h.formError(w, r, 0, arg, "Could not create the slide")
		return
	}

	h.saveCarouselTranslations(r, itemID, arg)

	slog.Info("carousel item created", "item_id", itemID)
	flashSuccess(w, r, h.renderer, "/admin/carousel", "Slide created")
}

// EditForm handles GET /admin/carousel/{id}.
func (h *AdminCarouselHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := h.queries.GetCarouselItem(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	trs, err := h.queries.ListCarouselItemTrs(r.Context(), id)
	if err != nil {
		slog.Warn("failed to load carousel translations", "error", err, "item_id", id)
	}
	translations := emptyTranslations(carouselTrFields)
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"title":    t.Title.String,
			"subtitle": t.Subtitle.String,
			"cta_text": t.CtaText.String,
			"cta_url":  t.CtaURL.String,
		}
	}

	data := AdminCarouselFormData{Item: item, Translations: translations}
	if err := h.renderer.Render(w, r, "admin/carousel_form", render.TemplateData{Title: "Edit Slide", Data: data}); err != nil {
		slog.Error("failed to render carousel form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Update handles POST /admin/carousel/{id}.
func (h *AdminCarouselHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := h.queries.GetCarouselItem(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	arg, errMsg := h.carouselParams(r, item)
	if errMsg != "" {
		h.formError(w, r, id, arg, errMsg)
		return
	}

	if err := h.queries.UpdateCarouselItem(r.Context(), store.UpdateCarouselItemParams{
		ID:         id,
		MediaType:  arg.MediaType,
		MediaPath:  arg.MediaPath,
		PosterPath: arg.PosterPath,
		IsActive:   arg.IsActive,
		SortOrder:  arg.SortOrder,
		Title:      arg.Title,
		Subtitle:   arg.Subtitle,
		CtaText:    arg.CtaText,
		CtaURL:     arg.CtaURL,
	}); err != nil {
		slog.Error("failed to update carousel item", "error", err, "item_id", id)
		h.formError(w, r, id, arg, "Could not update the slide")
		return
	}

	h.saveCarouselTranslations(r, id, arg)

	slog.Info("carousel item updated", "item_id", id)
	flashSuccess(w, r, h.renderer, "/admin/carousel", "Slide updated")
}

// Delete handles POST /admin/carousel/{id}/delete.
func (h *AdminCarouselHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeleteCarouselItem(r.Context(), id); err != nil {
		slog.Error("failed to delete carousel item", "error", err, "item_id", id)
		flashError(w, r, h.renderer, "/admin/carousel", "Could not delete the slide")
		return
	}
	slog.Info("carousel item deleted", "item_id", id)
	flashSuccess(w, r, h.renderer, "/admin/carousel", "Slide deleted")
}

// carouselParams reads the slide form. Image slides may carry an upload;
// video slides reference a path or URL. current provides the media kept
// when no new upload arrives. A non-empty second return value is a
// validation error; the params still carry the submitted fields so the
// form can redisplay.
func (h *AdminCarouselHandler) carouselParams(r *http.Request, current store.CarouselItem) (store.CreateCarouselItemParams, string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return store.CreateCarouselItemParams{}, "Invalid form data"
	}

	mediaType := r.PostFormValue("media_type")
	if mediaType != "video" {
		mediaType = "image"
	}

	mediaPath := strings.TrimSpace(r.PostFormValue("media_path"))
	if mediaPath == "" {
		mediaPath = current.MediaPath
	}

	sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)

	arg := store.CreateCarouselItemParams{
		MediaType:  mediaType,
		MediaPath:  mediaPath,
		PosterPath: nullString(strings.TrimSpace(r.PostFormValue("poster_path"))),
		IsActive:   r.PostFormValue("is_active") == "on",
		SortOrder:  sortOrder,
		Title:      nullString(strings.TrimSpace(r.PostFormValue("title"))),
		Subtitle:   nullString(strings.TrimSpace(r.PostFormValue("subtitle"))),
		CtaText:    nullString(strings.TrimSpace(r.PostFormValue("cta_text"))),
		CtaURL:     nullString(strings.TrimSpace(r.PostFormValue("cta_url"))),
	}

	if file, header, err := r.FormFile("media_file"); err == nil {
		defer func() { _ = file.Close() }()
		result, err := h.images.SaveImage(file, header.Filename)
		if err != nil {
			slog.Warn("carousel upload rejected", "error", err)
			return arg, "Could not process the uploaded image"
		}
		arg.MediaPath = "/uploads/" + result.ImagePath
		arg.MediaType = "image"
	}

	if arg.MediaPath == "" {
		return arg, "A media file or path is required"
	}

	return arg, ""
}

// formError re-renders the slide form with the submitted values and
// HTTP 400.
func (h *AdminCarouselHandler) formError(w http.ResponseWriter, r *http.Request, id int64, arg store.CreateCarouselItemParams, message string) {
	data := AdminCarouselFormData{
		Item: store.CarouselItem{
			ID:         id,
			MediaType:  arg.MediaType,
			MediaPath:  arg.MediaPath,
			PosterPath: arg.PosterPath,
			IsActive:   arg.IsActive,
			SortOrder:  arg.SortOrder,
			Title:      arg.Title,
			Subtitle:   arg.Subtitle,
			CtaText:    arg.CtaText,
			CtaURL:     arg.CtaURL,
		},
		Translations: translate.CollectInputs(r.PostForm, carouselTrFields),
		IsNew:        id == 0,
	}
	title := "Edit Slide"
	if data.IsNew {
		title = "New Slide"
	}
	renderFormError(w, r, h.renderer, "admin/carousel_form", title, data, message)
}

func (h *AdminCarouselHandler) saveCarouselTranslations(r *http.Request, itemID int64, arg store.CreateCarouselItemParams) {
	base := i18n.Fields{
		"title":    arg.Title.String,
		"subtitle": arg.Subtitle.String,
		"cta_text": arg.CtaText.String,
		"cta_url":  arg.CtaURL.String,
	}
	manual := translate.CollectInputs(r.PostForm, carouselTrFields)

	ctx := context.WithoutCancel(r.Context())
	for _, lang := range i18n.SupportedLangs {
		fields := h.translator.Localize(ctx, base, manual[lang], nil, lang)
		// URLs are not translated; manual input still wins.
		if manual[lang]["cta_url"] == "" {
			fields["cta_url"] = arg.CtaURL.String
		}
		if err := h.queries.UpsertCarouselItemTr(ctx, store.UpsertCarouselItemTrParams{
			ItemID:   itemID,
			Lang:     lang,
			Title:    nullString(fields["title"]),
			Subtitle: nullString(fields["subtitle"]),
			CtaText:  nullString(fields["cta_text"]),
			CtaURL:   nullString(fields["cta_url"]),
		}); err != nil {
			slog.Warn("failed to save carousel translation", "error", err, "item_id", itemID, "lang", lang)
		}
	}
}
