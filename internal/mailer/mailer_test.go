package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	assert.False(t, New(Config{}).Enabled())
	assert.False(t, New(Config{APIKey: "key"}).Enabled())
	assert.False(t, New(Config{To: "admin@example.com"}).Enabled())
	assert.True(t, New(Config{APIKey: "key", To: "admin@example.com"}).Enabled())
}

func TestSendContact(t *testing.T) {
	var gotAPIKey string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := New(Config{
		APIKey:   "secret",
		Endpoint: srv.URL,
		From:     "noreply@example.com",
		FromName: "Aerosite",
		To:       "sales@example.com",
	})

	err := m.SendContact(context.Background(), ContactMessage{
		Name:    "Budi",
		Email:   "budi@example.com",
		Subject: "Penawaran",
		Body:    "Halo,\nsaya tertarik.",
	})
	require.NoError(t, err)

	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "Penawaran", gotPayload["subject"])

	replyTo, ok := gotPayload["replyTo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "budi@example.com", replyTo["email"])

	html, ok := gotPayload["htmlContent"].(string)
	require.True(t, ok)
	assert.Contains(t, html, "Budi")
	assert.Contains(t, html, "<br>")
}

func TestSendContactEscapesHTML(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
	}))
	defer srv.Close()

	m := New(Config{APIKey: "secret", Endpoint: srv.URL, To: "sales@example.com"})
	err := m.SendContact(context.Background(), ContactMessage{
		Name:  "<script>alert(1)</script>",
		Email: "x@example.com",
		Body:  "hi",
	})
	require.NoError(t, err)

	html := gotPayload["htmlContent"].(string)
	assert.NotContains(t, html, "<script>")
}

func TestSendContactStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := New(Config{APIKey: "wrong", Endpoint: srv.URL, To: "sales@example.com"})
	err := m.SendContact(context.Background(), ContactMessage{Email: "x@example.com", Body: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSendContactDisabled(t *testing.T) {
	m := New(Config{})
	err := m.SendContact(context.Background(), ContactMessage{Email: "x@example.com"})
	require.Error(t, err)
}

func TestSendContactDefaultSubject(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
	}))
	defer srv.Close()

	m := New(Config{APIKey: "secret", Endpoint: srv.URL, To: "sales@example.com"})
	require.NoError(t, m.SendContact(context.Background(), ContactMessage{
		Email: "x@example.com", Body: "hi",
	}))

	assert.Equal(t, "Contact form message", gotPayload["subject"])
}
