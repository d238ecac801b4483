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

var menuTrFields = []string{"label"}

// AdminMenuHandler manages navigation menu items in the back office.
type AdminMenuHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	translator *translate.Service
}

// NewAdminMenuHandler creates an AdminMenuHandler.
func NewAdminMenuHandler(db *sql.DB, renderer *render.Renderer, translator *translate.Service) *AdminMenuHandler {
	return &AdminMenuHandler{
		queries:    store.New(db),
		renderer:   renderer,
		translator: translator,
	}
}

// AdminMenuData holds data for the menu list template.
type AdminMenuData struct {
	Items []store.MenuItem
}

// List handles GET /admin/menu.
func (h *AdminMenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListMenuItems(r.Context())
	if err != nil {
		slog.Error("failed to list menu items", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.renderer.Render(w, r, "admin/menu", render.TemplateData{
		Title: "Menu",
		Data:  AdminMenuData{Items: items},
	}); err != nil {
		slog.Error("failed to render menu list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AdminMenuFormData holds data for the menu item create/edit template.
type AdminMenuFormData struct {
	Item         store.MenuItem
	Parents      []store.MenuItem
	Translations map[string]i18n.Fields
	IsNew        bool
}

// NewForm handles GET /admin/menu/new.
func (h *AdminMenuHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	parents, err := h.queries.ListMenuItems(r.Context())
	if err != nil {
		slog.Warn("failed to list menu items", "error", err)
	}
	data := AdminMenuFormData{
		Item:         store.MenuItem{Position: store.MenuPositionHeader, IsActive: true},
		Parents:      parents,
		Translations: emptyTranslations(menuTrFields),
		IsNew:        true,
	}
	if err := h.renderer.Render(w, r, "admin/menu_form", render.TemplateData{Title: "New Menu Item", Data: data}); err != nil {
		slog.Error("failed to render menu form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles POST /admin/menu/new.
func (h *AdminMenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r) {
		return
	}

	arg, errMsg := h.menuParams(r)
	if errMsg != "" {
		h.formError(w, r, 0, arg, errMsg)
		return
	}

	itemID, err := h.queries.CreateMenuItem(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create menu item", "error", err)
		h.formError(w, r, 0, arg, "Could not create the menu item")
		return
	}

	h.saveMenuTranslations(r, itemID, arg.Label)

	slog.Info("menu item created", "item_id", itemID, "label", arg.Label)
	flashSuccess(w, r, h.renderer, "/admin/menu", "Menu item created")
}

// EditForm handles GET /admin/menu/{id}.
func (h *AdminMenuHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := h.queries.GetMenuItem(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	parents, err := h.queries.ListMenuItems(r.Context())
	if err != nil {
		slog.Warn("failed to list menu items", "error", err)
	}
	// An item cannot parent itself.
	filtered := parents[:0]
	for _, p := range parents {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}

	trs, err := h.queries.ListMenuItemTrs(r.Context(), id)
	if err != nil {
		slog.Warn("failed to load menu translations", "error", err, "item_id", id)
	}
	translations := emptyTranslations(menuTrFields)
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{"label": t.Label}
	}

	data := AdminMenuFormData{Item: item, Parents: filtered, Translations: translations}
	if err := h.renderer.Render(w, r, "admin/menu_form", render.TemplateData{Title: "Edit Menu Item", Data: data}); err != nil {
		slog.Error("failed to render menu form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Update handles POST /admin/menu/{id}.
func (h *AdminMenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrBadRequest(w, r) {
		return
	}

	arg, errMsg := h.menuParams(r)
	if errMsg == "" && arg.ParentID.Valid && arg.ParentID.Int64 == id {
		errMsg = "A menu item cannot be its own parent"
	}
	if errMsg != "" {
		h.formError(w, r, id, arg, errMsg)
		return
	}

	if err := h.queries.UpdateMenuItem(r.Context(), store.UpdateMenuItemParams{
		ID:            id,
		ParentID:      arg.ParentID,
		Position:      arg.Position,
		Label:         arg.Label,
		URL:           arg.URL,
		IsExternal:    arg.IsExternal,
		SortOrder:     arg.SortOrder,
		IsActive:      arg.IsActive,
		RequiresAdmin: arg.RequiresAdmin,
		Icon:          arg.Icon,
		Target:        arg.Target,
	}); err != nil {
		slog.Error("failed to update menu item", "error", err, "item_id", id)
		h.formError(w, r, id, arg, "Could not update the menu item")
		return
	}

	h.saveMenuTranslations(r, id, arg.Label)

	slog.Info("menu item updated", "item_id", id, "label", arg.Label)
	flashSuccess(w, r, h.renderer, "/admin/menu", "Menu item updated")
}

// Delete handles POST /admin/menu/{id}/delete. Children go with the
// parent.
func (h *AdminMenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeleteMenuItem(r.Context(), id); err != nil {
		slog.Error("failed to delete menu item", "error", err, "item_id", id)
		flashError(w, r, h.renderer, "/admin/menu", "Could not delete the menu item")
		return
	}
	slog.Info("menu item deleted", "item_id", id)
	flashSuccess(w, r, h.renderer, "/admin/menu", "Menu item deleted")
}

// menuParams reads the menu item form. A non-empty second return value
// is a validation error; the params still carry the submitted fields so
// the form can redisplay.
func (h *AdminMenuHandler) menuParams(r *http.Request) (store.CreateMenuItemParams, string) {
	label := strings.TrimSpace(r.PostFormValue("label"))

	position := r.PostFormValue("position")
	switch position {
	case store.MenuPositionHeader, store.MenuPositionFooter, store.MenuPositionBoth:
	default:
		position = store.MenuPositionHeader
	}

	var parentID sql.NullInt64
	if v, err := strconv.ParseInt(r.PostFormValue("parent_id"), 10, 64); err == nil && v > 0 {
		parentID = sql.NullInt64{Int64: v, Valid: true}
	}
	sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)

	arg := store.CreateMenuItemParams{
		ParentID:      parentID,
		Position:      position,
		Label:         label,
		URL:           strings.TrimSpace(r.PostFormValue("url")),
		IsExternal:    r.PostFormValue("is_external") == "on",
		SortOrder:     sortOrder,
		IsActive:      r.PostFormValue("is_active") == "on",
		RequiresAdmin: r.PostFormValue("requires_admin") == "on",
		Icon:          nullString(strings.TrimSpace(r.PostFormValue("icon"))),
		Target:        nullString(strings.TrimSpace(r.PostFormValue("target"))),
	}
	if label == "" {
		return arg, "Label is required"
	}
	return arg, ""
}

// formError re-renders the menu item form with the submitted values and
// HTTP 400.
func (h *AdminMenuHandler) formError(w http.ResponseWriter, r *http.Request, id int64, arg store.CreateMenuItemParams, message string) {
	parents, err := h.queries.ListMenuItems(r.Context())
	if err != nil {
		slog.Warn("failed to list menu items", "error", err)
	}
	filtered := parents[:0]
	for _, p := range parents {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	data := AdminMenuFormData{
		Item: store.MenuItem{
			ID:            id,
			ParentID:      arg.ParentID,
			Position:      arg.Position,
			Label:         arg.Label,
			URL:           arg.URL,
			IsExternal:    arg.IsExternal,
			SortOrder:     arg.SortOrder,
			IsActive:      arg.IsActive,
			RequiresAdmin: arg.RequiresAdmin,
			Icon:          arg.Icon,
			Target:        arg.Target,
		},
		Parents:      filtered,
		Translations: translate.CollectInputs(r.PostForm, menuTrFields),
		IsNew:        id == 0,
	}
	title := "Edit Menu Item"
	if data.IsNew {
		title = "New Menu Item"
	}
	renderFormError(w, r, h.renderer, "admin/menu_form", title, data, message)
}

func (h *AdminMenuHandler) saveMenuTranslations(r *http.Request, itemID int64, label string) {
	base := i18n.Fields{"label": label}
	manual := translate.CollectInputs(r.PostForm, menuTrFields)

	ctx := context.WithoutCancel(r.Context())
	for _, lang := range i18n.SupportedLangs {
		fields := h.translator.Localize(ctx, base, manual[lang], nil, lang)
		if err := h.queries.UpsertMenuItemTr(ctx, store.UpsertMenuItemTrParams{
			ItemID: itemID,
			Lang:   lang,
			Label:  fields["label"],
		}); err != nil {
			slog.Warn("failed to save menu translation", "error", err, "item_id", itemID, "lang", lang)
		}
	}
}
