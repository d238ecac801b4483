package middleware

import (
	"net/http"
	"strings"
)

// StripTrailingSlash canonicalizes slug URLs: /catalog/gps-aera/ and
// /catalog/gps-aera are the same product, and search engines should only
// ever see one of them. Requests with a trailing slash answer a 301 to
// the bare form, query string intact. The root path stays as is.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" || !strings.HasSuffix(path, "/") {
			next.ServeHTTP(w, r)
			return
		}

		canonical := strings.TrimSuffix(path, "/")
		if r.URL.RawQuery != "" {
			canonical += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, canonical, http.StatusMovedPermanently)
	})
}
