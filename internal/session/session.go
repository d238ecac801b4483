// Package session configures the server-side session store. Sessions
// carry the shop login, the admin login, and flash messages; the
// language choice lives in its own cookie and survives session expiry.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// CookieName identifies the session cookie.
const CookieName = "aero_session"

// Lifetime is how long an idle session stays valid. Carts hang off the
// user row, not the session, so an expired session does not empty the
// cart.
const Lifetime = 24 * time.Hour

// New creates a session manager backed by the SQLite sessions table.
// Customers and admins share one session; they are tracked under
// separate session keys.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}
