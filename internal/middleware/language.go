package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ptaero/aerosite/internal/i18n"
)

// Context keys for language data.
const (
	ContextKeyLang    ContextKey = "lang"
	ContextKeyLangDir ContextKey = "lang_dir"
)

// LanguageCookieName is the cookie name for the language preference.
const LanguageCookieName = "aero_lang"

var languageCookieSecure = true

// InitLanguageCookies configures cookie security for the environment.
func InitLanguageCookies(isDev bool) {
	languageCookieSecure = !isDev
}

// Language detects the request language. Priority order:
//  1. Query parameter ?lang=xx (explicit switch, persists the cookie)
//  2. Cookie preference
//  3. Base language (Indonesian)
//
// Browser headers are not consulted; the site presents Indonesian until
// the visitor picks a language. Unknown codes never fail the request;
// they fall through to the next source.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.BaseLang

		switch {
		case resolveLang(r.URL.Query().Get("lang")) != "":
			lang = resolveLang(r.URL.Query().Get("lang"))
			SetLanguageCookie(w, lang)
		case cookieLang(r) != "":
			lang = cookieLang(r)
		}

		ctx := context.WithValue(r.Context(), ContextKeyLang, lang)
		ctx = context.WithValue(ctx, ContextKeyLangDir, i18n.Direction(lang))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resolveLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i18n.IsSupported(code) {
		return code
	}
	return ""
}

func cookieLang(r *http.Request) string {
	cookie, err := r.Cookie(LanguageCookieName)
	if err != nil {
		return ""
	}
	return resolveLang(cookie.Value)
}

// GetLang returns the request language, defaulting to the base language.
func GetLang(r *http.Request) string {
	lang, ok := r.Context().Value(ContextKeyLang).(string)
	if !ok || lang == "" {
		return i18n.BaseLang
	}
	return lang
}

// SetLanguageCookie persists the language preference for a year.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   languageCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
