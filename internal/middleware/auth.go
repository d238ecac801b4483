// Package middleware provides HTTP middleware for authentication,
// language detection, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/ptaero/aerosite/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyAdmin       ContextKey = "admin"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Session keys. Customer and admin identities are tracked independently
// so an admin can browse the shop without mixing the two sessions.
const (
	SessionKeyUserID  = "user_id"
	SessionKeyAdminID = "admin_id"
)

// LoadIdentities loads the customer and admin identities referenced by
// the session into the request context. Stale references are dropped
// from the session without failing the request.
func LoadIdentities(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID := sm.GetInt64(ctx, SessionKeyUserID); userID != 0 {
				if user, err := queries.GetUser(ctx, userID); err == nil {
					ctx = context.WithValue(ctx, ContextKeyUser, user)
				} else {
					sm.Remove(ctx, SessionKeyUserID)
				}
			}

			if adminID := sm.GetInt64(ctx, SessionKeyAdminID); adminID != 0 {
				if admin, err := queries.GetUser(ctx, adminID); err == nil && admin.IsAdmin {
					ctx = context.WithValue(ctx, ContextKeyAdmin, admin)
				} else {
					sm.Remove(ctx, SessionKeyAdminID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser redirects to the customer login page when no customer is
// signed in.
func RequireUser(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetInt64(r.Context(), SessionKeyUserID) == 0 {
				http.Redirect(w, r, "/login?next="+r.URL.Path, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin redirects to the admin login page when no admin is signed in.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetInt64(r.Context(), SessionKeyAdminID) == 0 {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser returns the signed-in customer, or nil.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetAdmin returns the signed-in admin, or nil.
func GetAdmin(r *http.Request) *store.User {
	admin, ok := r.Context().Value(ContextKeyAdmin).(store.User)
	if !ok {
		return nil
	}
	return &admin
}

// GetUserID returns the signed-in customer's ID, or 0.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// RequestPath stores the request path in the context. The menu tree
// reads it to mark the entry being viewed.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
