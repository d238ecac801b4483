package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/ptaero/aerosite/internal/auth"
	"github.com/ptaero/aerosite/internal/middleware"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
)

// AdminHandler serves admin login and the back-office dashboard.
type AdminHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AdminHandler {
	return &AdminHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// LoginForm handles GET /admin/login.
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAdmin(r) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err := h.renderer.Render(w, r, "admin/login", render.TemplateData{Title: "Admin Login"}); err != nil {
		slog.Error("failed to render admin login", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Login handles POST /admin/login. Only accounts with the admin flag may
// enter the back office.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, "/admin/login") {
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		flashError(w, r, h.renderer, "/admin/login", "Username and password are required")
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
		flashError(w, r, h.renderer, "/admin/login",
			fmt.Sprintf("Account temporarily locked, try again in %d minutes", int(remaining.Minutes())+1))
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil || !user.IsAdmin {
		h.loginProtection.RecordFailedAttempt(username)
		slog.Warn("admin login failed", "username", username)
		flashError(w, r, h.renderer, "/admin/login", "Invalid username or password")
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		h.loginProtection.RecordFailedAttempt(username)
		slog.Warn("admin login failed", "username", username)
		flashError(w, r, h.renderer, "/admin/login", "Invalid username or password")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(username)

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyAdminID, user.ID)

	slog.Info("admin logged in", "username", username, "user_id", user.ID)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.Remove(r.Context(), middleware.SessionKeyAdminID)
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token", "error", err)
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// DashboardData holds the back-office overview numbers.
type DashboardData struct {
	PageCount     int64
	ProductCount  int64
	ServiceCount  int64
	UserCount     int64
	PendingOrders int64
	UIStringCount int64
	RecentEvents  []store.Event
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data DashboardData
	var err error

	if data.PageCount, err = h.queries.CountPages(ctx); err != nil {
		slog.Warn("failed to count pages", "error", err)
	}
	if data.ProductCount, err = h.queries.CountProducts(ctx); err != nil {
		slog.Warn("failed to count products", "error", err)
	}
	if data.ServiceCount, err = h.queries.CountServices(ctx); err != nil {
		slog.Warn("failed to count services", "error", err)
	}
	if data.UserCount, err = h.queries.CountUsers(ctx); err != nil {
		slog.Warn("failed to count users", "error", err)
	}
	if data.PendingOrders, err = h.queries.CountOrdersByStatus(ctx, store.CartStatusPending); err != nil {
		slog.Warn("failed to count pending orders", "error", err)
	}
	if data.UIStringCount, err = h.queries.CountUIStrings(ctx); err != nil {
		slog.Warn("failed to count ui strings", "error", err)
	}
	if data.RecentEvents, err = h.queries.ListRecentEvents(ctx, 20); err != nil {
		slog.Warn("failed to list recent events", "error", err)
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	}); err != nil {
		slog.Error("failed to render dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
