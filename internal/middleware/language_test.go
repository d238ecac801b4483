package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveLanguage(r *http.Request) (lang string, rec *httptest.ResponseRecorder) {
	rec = httptest.NewRecorder()
	Language(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		lang = GetLang(req)
	})).ServeHTTP(rec, r)
	return lang, rec
}

func TestLanguageDefault(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	lang, _ := serveLanguage(r)
	if lang != "id" {
		t.Errorf("lang = %q, want id", lang)
	}
}

func TestLanguageQueryParamSetsCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?lang=ja", nil)
	lang, rec := serveLanguage(r)
	if lang != "ja" {
		t.Errorf("lang = %q, want ja", lang)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == LanguageCookieName && c.Value == "ja" {
			found = true
		}
	}
	if !found {
		t.Error("explicit switch should persist the language cookie")
	}
}

func TestLanguageUnknownQueryParamFallsThrough(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?lang=xx", nil)
	r.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: "ko"})
	lang, _ := serveLanguage(r)
	if lang != "ko" {
		t.Errorf("lang = %q, want cookie value ko", lang)
	}
}

func TestLanguageCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: "ar"})
	lang, _ := serveLanguage(r)
	if lang != "ar" {
		t.Errorf("lang = %q, want ar", lang)
	}
}

func TestLanguageIgnoresAcceptHeader(t *testing.T) {
	// First visits stay on the base language regardless of browser
	// preferences; only an explicit switch changes it.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	lang, _ := serveLanguage(r)
	if lang != "id" {
		t.Errorf("lang = %q, want id", lang)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en")
	r.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: "ar"})
	lang, _ = serveLanguage(r)
	if lang != "ar" {
		t.Errorf("lang = %q, want cookie value ar", lang)
	}
}

func TestLanguageQueryBeatsCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	r.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: "ja"})
	lang, _ := serveLanguage(r)
	if lang != "en" {
		t.Errorf("lang = %q, want en", lang)
	}
}
