package session

import (
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptaero/aerosite/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

func TestNew(t *testing.T) {
	sm := New(newTestDB(t), true)

	require.NotNil(t, sm)
	require.NotNil(t, sm.Store)
	assert.Equal(t, Lifetime, sm.Lifetime)
	assert.Equal(t, CookieName, sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
}

func TestNewCookieSecurity(t *testing.T) {
	// Dev runs over plain HTTP; production requires TLS.
	assert.False(t, New(newTestDB(t), true).Cookie.Secure)
	assert.True(t, New(newTestDB(t), false).Cookie.Secure)
}
