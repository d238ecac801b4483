package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleProviderTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gtx", r.URL.Query().Get("client"))
		assert.Equal(t, "id", r.URL.Query().Get("sl"))
		assert.Equal(t, "en", r.URL.Query().Get("tl"))
		assert.Equal(t, "Halo dunia", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[[["Hello ","Halo ",null],["world","dunia",null]],null,"id"]`))
	}))
	defer srv.Close()

	p := NewGoogleProviderWithEndpoint(srv.URL, srv.Client())
	got, err := p.Translate(context.Background(), "Halo dunia", "id", "en")

	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)
}

func TestGoogleProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGoogleProviderWithEndpoint(srv.URL, srv.Client())
	_, err := p.Translate(context.Background(), "Halo", "id", "en")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestParseGoogleResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "single segment",
			body: `[[["Hello","Halo",null]],null,"id"]`,
			want: "Hello",
		},
		{
			name: "multiple segments concatenate",
			body: `[[["One ","Satu ",null],["two","dua",null]],null,"id"]`,
			want: "One two",
		},
		{
			name:    "not json",
			body:    `<html>`,
			wantErr: true,
		},
		{
			name:    "empty array",
			body:    `[]`,
			wantErr: true,
		},
		{
			name:    "no segments",
			body:    `[[],null,"id"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGoogleResponse([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
