package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/ptaero/aerosite/internal/auth"
	"github.com/ptaero/aerosite/internal/middleware"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
)

// usernamePattern limits usernames to a URL- and log-safe alphabet.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

// MinPasswordLength for customer and admin accounts.
const MinPasswordLength = 8

// UserHandler serves customer registration, login, and account pages.
type UserHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *UserHandler {
	return &UserHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// LoginData holds data for the login template.
type LoginData struct {
	Next string
}

// LoginForm handles GET /login.
func (h *UserHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := LoginData{Next: safeNextPath(r.URL.Query().Get("next"))}
	if err := h.renderer.Render(w, r, "site/login", render.TemplateData{Title: "Login", Data: data}); err != nil {
		slog.Error("failed to render login form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Login handles POST /login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, "/login") {
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := safeNextPath(r.PostFormValue("next"))
	loginURL := "/login"
	if next != "" {
		loginURL = "/login?next=" + next
	}

	if username == "" || password == "" {
		flashError(w, r, h.renderer, loginURL, "Username and password are required")
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
		flashError(w, r, h.renderer, loginURL,
			fmt.Sprintf("Account temporarily locked, try again in %d minutes", int(remaining.Minutes())+1))
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		h.loginProtection.RecordFailedAttempt(username)
		slog.Warn("login failed", "username", username, "reason", "unknown user")
		flashError(w, r, h.renderer, loginURL, "Invalid username or password")
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		h.loginProtection.RecordFailedAttempt(username)
		slog.Warn("login failed", "username", username, "reason", "bad password")
		flashError(w, r, h.renderer, loginURL, "Invalid username or password")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(username)

	// Session fixation protection.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "username", username, "user_id", user.ID)
	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.Remove(r.Context(), middleware.SessionKeyUserID)
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterData holds the registration form state for re-rendering.
type RegisterData struct {
	Username string
	Email    string
	Phone    string
}

// RegisterForm handles GET /register.
func (h *UserHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := h.renderer.Render(w, r, "site/register", render.TemplateData{Title: "Register", Data: RegisterData{}}); err != nil {
		slog.Error("failed to render register form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Register handles POST /register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r) {
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	phone := strings.TrimSpace(r.PostFormValue("phone_number"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("password_confirm")
	entered := RegisterData{Username: username, Email: email, Phone: phone}

	if !usernamePattern.MatchString(username) {
		renderFormError(w, r, h.renderer, "site/register", "Register", entered,
			"Username must be 3-32 letters, digits, dots, dashes, or underscores")
		return
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			renderFormError(w, r, h.renderer, "site/register", "Register", entered, "Invalid email address")
			return
		}
	}
	if len(password) < MinPasswordLength {
		renderFormError(w, r, h.renderer, "site/register", "Register", entered,
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
		return
	}
	if password != confirm {
		renderFormError(w, r, h.renderer, "site/register", "Register", entered, "Passwords do not match")
		return
	}

	if _, err := h.queries.GetUserByUsername(r.Context(), username); err == nil {
		renderFormError(w, r, h.renderer, "site/register", "Register", entered, "That username is taken")
		return
	}
	if email != "" {
		if _, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
			renderFormError(w, r, h.renderer, "site/register", "Register", entered, "That email is already registered")
			return
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	userID, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     username,
		Email:        nullString(email),
		PhoneNumber:  nullString(phone),
		PasswordHash: hash,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err, "username", username)
		renderFormError(w, r, h.renderer, "site/register", "Register", entered, "Could not create your account")
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, userID)

	slog.Info("user registered", "username", username, "user_id", userID)
	flashSuccess(w, r, h.renderer, "/", "Welcome, "+username)
}

// OrdersData holds data for the order history template.
type OrdersData struct {
	Orders []store.Cart
}

// Orders handles GET /account/orders.
func (h *UserHandler) Orders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	orders, err := h.queries.ListUserOrders(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list orders", "error", err, "user_id", userID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.renderer.Render(w, r, "site/orders", render.TemplateData{
		Title: "Orders",
		Data:  OrdersData{Orders: orders},
	}); err != nil {
		slog.Error("failed to render orders", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// PasswordForm handles GET /account/password.
func (h *UserHandler) PasswordForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "site/password", render.TemplateData{Title: "Change Password"}); err != nil {
		slog.Error("failed to render password form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Password handles POST /account/password.
func (h *UserHandler) Password(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, "/account/password") {
		return
	}

	current := r.PostFormValue("current_password")
	next := r.PostFormValue("new_password")
	confirm := r.PostFormValue("new_password_confirm")

	ok, err := auth.CheckPassword(current, user.PasswordHash)
	if err != nil || !ok {
		flashError(w, r, h.renderer, "/account/password", "Current password is incorrect")
		return
	}
	if len(next) < MinPasswordLength {
		flashError(w, r, h.renderer, "/account/password",
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
		return
	}
	if next != confirm {
		flashError(w, r, h.renderer, "/account/password", "Passwords do not match")
		return
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.queries.UpdateUserPassword(r.Context(), user.ID, hash); err != nil {
		slog.Error("failed to update password", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, "/account/password", "Could not update your password")
		return
	}

	slog.Info("password changed", "user_id", user.ID)
	flashSuccess(w, r, h.renderer, "/account/password", "Password updated")
}

// safeNextPath accepts only same-site absolute paths for post-login
// redirects.
func safeNextPath(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return ""
}

// nullString wraps a form value, treating empty as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
