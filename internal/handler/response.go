// Package handler contains the HTTP handlers for the public site, the
// customer account area, and the admin back office.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/ptaero/aerosite/internal/render"
)

// ugcPolicy sanitizes admin-entered HTML before storage.
var ugcPolicy = bluemonday.UGCPolicy()

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "error")
}

// flashSuccess sets a success flash message and redirects.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "success")
}

// parseFormOrRedirect parses the request form and redirects with an
// error message on failure.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// parseFormOrBadRequest parses the request form and answers 400 on
// failure. A body that cannot be parsed carries no values to redisplay.
func parseFormOrBadRequest(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// renderFormError re-renders a form with the submitted values and an
// inline error message so nothing the visitor typed is lost. Validation
// failures answer 400, not a redirect.
func renderFormError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, name, title string, data any, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	if err := renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		Data:      data,
		Flash:     message,
		FlashType: "error",
	}); err != nil {
		slog.Error("failed to render form error", "error", err, "template", name)
	}
}

// urlParamID extracts the {id} route parameter.
func urlParamID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
