package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/ptaero/aerosite/internal/service"
	"github.com/ptaero/aerosite/internal/store"
)

// ContextKeyPageData is the context key for the assembled page data.
const ContextKeyPageData ContextKey = "page_data"

// PageData is the per-request bundle every template needs: language,
// identities, cart badge, navigation, footer, and interface strings.
// Assembly never fails the request; a part that cannot be loaded is
// logged and left at its zero value.
type PageData struct {
	Lang      string
	Dir       string
	User      *store.User
	Admin     *store.User
	CartCount int64
	Menu      []service.MenuNode
	Footer    []service.FooterColumn
	Strings   map[string]string
}

// T returns the interface string for a key, or the key itself when no
// translation is loaded.
func (d *PageData) T(key string) string {
	if v, ok := d.Strings[key]; ok {
		return v
	}
	return key
}

// PageContext assembles PageData for frontend requests. It must run
// after Language and LoadIdentities.
func PageContext(db *sql.DB, menus *service.MenuService, footer *service.FooterService, carts *service.CartService) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lang := GetLang(r)

			data := &PageData{
				Lang:  lang,
				Dir:   langDir(r),
				User:  GetUser(r),
				Admin: GetAdmin(r),
			}

			if data.User != nil {
				data.CartCount = carts.Count(ctx, data.User.ID)
			}

			menu, err := menus.Tree(ctx, lang, store.MenuPositionHeader, GetRequestPath(ctx), data.Admin != nil)
			if err != nil {
				slog.Warn("failed to build menu tree", "error", err, "lang", lang)
			}
			data.Menu = menu

			columns, err := footer.Columns(ctx, lang)
			if err != nil {
				slog.Warn("failed to assemble footer", "error", err, "lang", lang)
			}
			data.Footer = columns

			strings, err := queries.ListUIStrings(ctx, lang)
			if err != nil {
				slog.Warn("failed to load ui strings", "error", err, "lang", lang)
				strings = map[string]string{}
			}
			data.Strings = strings

			ctx = context.WithValue(ctx, ContextKeyPageData, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPageData returns the assembled page data, or an empty bundle when
// the middleware did not run.
func GetPageData(r *http.Request) *PageData {
	data, ok := r.Context().Value(ContextKeyPageData).(*PageData)
	if !ok {
		return &PageData{Lang: GetLang(r), Dir: "ltr", Strings: map[string]string{}}
	}
	return data
}

func langDir(r *http.Request) string {
	dir, ok := r.Context().Value(ContextKeyLangDir).(string)
	if !ok {
		return "ltr"
	}
	return dir
}
