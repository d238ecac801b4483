package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := StripTrailingSlash(next)

	tests := []struct {
		path     string
		code     int
		location string
	}{
		{"/", http.StatusOK, ""},
		{"/catalog", http.StatusOK, ""},
		{"/catalog/", http.StatusMovedPermanently, "/catalog"},
		{"/catalog/gps-aera/", http.StatusMovedPermanently, "/catalog/gps-aera"},
		{"/catalog/?brand=aero", http.StatusMovedPermanently, "/catalog?brand=aero"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}
