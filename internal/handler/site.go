package handler

import (
	"database/sql"
	"encoding/xml"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/mailer"
	"github.com/ptaero/aerosite/internal/middleware"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
)

// HomeProductLimit caps the featured product grid on the homepage.
const HomeProductLimit = 8

// SiteHandler serves the public company pages.
type SiteHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	mail           *mailer.Mailer
	baseURL        string
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, mail *mailer.Mailer, baseURL string) *SiteHandler {
	return &SiteHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		mail:           mail,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
	}
}

// LocalizedSlide is a carousel slide resolved for the request language.
type LocalizedSlide struct {
	MediaType  string
	MediaPath  string
	PosterPath string
	Title      string
	Subtitle   string
	CtaText    string
	CtaURL     string
}

// HomeData holds data for the homepage template.
type HomeData struct {
	Slides   []LocalizedSlide
	Products []LocalizedProduct
	Services []LocalizedService
}

// Home handles GET /.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)

	var data HomeData

	slides, err := h.queries.ListActiveCarouselItems(ctx)
	if err != nil {
		slog.Error("failed to list carousel items", "error", err)
	}
	for _, slide := range slides {
		trs, err := h.queries.ListCarouselItemTrs(ctx, slide.ID)
		if err != nil {
			slog.Warn("failed to load carousel translations", "error", err, "item_id", slide.ID)
		}
		data.Slides = append(data.Slides, localizeSlide(slide, trs, lang))
	}

	products, err := h.queries.ListActiveProducts(ctx)
	if err != nil {
		slog.Error("failed to list products", "error", err)
	}
	if len(products) > HomeProductLimit {
		products = products[:HomeProductLimit]
	}
	data.Products, err = localizeProducts(ctx, h.queries, products, lang)
	if err != nil {
		slog.Warn("failed to localize products", "error", err)
	}

	services, err := h.queries.ListActiveServices(ctx)
	if err != nil {
		slog.Error("failed to list services", "error", err)
	}
	for _, svc := range services {
		trs, err := h.queries.ListServiceTrs(ctx, svc.ID)
		if err != nil {
			slog.Warn("failed to load service translations", "error", err, "service_id", svc.ID)
		}
		data.Services = append(data.Services, localizeService(svc, trs, lang))
	}

	if err := h.renderer.Render(w, r, "site/home", render.TemplateData{Data: data}); err != nil {
		slog.Error("failed to render homepage", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// LocalizedPage is a CMS page resolved for the request language.
type LocalizedPage struct {
	Slug      string
	Template  string
	Title     string
	Excerpt   string
	Body      string
	MetaTitle string
	MetaDesc  string
}

// Page handles GET /p/{slug}.
func (h *SiteHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := middleware.GetLang(r)

	page, err := h.queries.GetPublishedPageBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	trs, err := h.queries.ListPageTrs(r.Context(), page.ID)
	if err != nil {
		slog.Warn("failed to load page translations", "error", err, "page_id", page.ID)
	}

	localized := localizePage(page, trs, lang)
	if err := h.renderer.Render(w, r, "site/page", render.TemplateData{
		Title: localized.Title,
		Data:  localized,
	}); err != nil {
		slog.Error("failed to render page", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// SetLang handles GET /set-lang/{code}: persists the preference and
// returns to where the visitor came from. Unknown codes fall back to
// the base language.
func (h *SiteHandler) SetLang(w http.ResponseWriter, r *http.Request) {
	code := strings.ToLower(chi.URLParam(r, "code"))
	if !i18n.IsSupported(code) {
		code = i18n.BaseLang
	}
	middleware.SetLanguageCookie(w, code)

	target := r.Referer()
	if target == "" || !strings.HasPrefix(target, h.baseURL) {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ContactData holds the contact form state for re-rendering.
type ContactData struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// ContactForm handles GET /contact.
func (h *SiteHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "site/contact", render.TemplateData{Data: ContactData{}}); err != nil {
		slog.Error("failed to render contact form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Contact handles POST /contact.
func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r) {
		return
	}

	msg := mailer.ContactMessage{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Subject: strings.TrimSpace(r.PostFormValue("subject")),
		Body:    strings.TrimSpace(r.PostFormValue("body")),
	}
	entered := ContactData{Name: msg.Name, Email: msg.Email, Subject: msg.Subject, Body: msg.Body}

	if msg.Name == "" || msg.Body == "" {
		renderFormError(w, r, h.renderer, "site/contact", "", entered, "Name and message are required")
		return
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		renderFormError(w, r, h.renderer, "site/contact", "", entered, "A valid email address is required")
		return
	}

	if !h.mail.Enabled() {
		slog.Warn("contact message received but mailer is not configured", "from", msg.Email)
		flashError(w, r, h.renderer, "/contact", "Message delivery is temporarily unavailable")
		return
	}

	if err := h.mail.SendContact(r.Context(), msg); err != nil {
		slog.Error("failed to deliver contact message", "error", err)
		flashError(w, r, h.renderer, "/contact", "Could not deliver your message, please try again later")
		return
	}

	flashSuccess(w, r, h.renderer, "/contact", "Thank you, your message has been sent")
}

// sitemapURLSet is the sitemap.xml document root.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap handles GET /sitemap.xml.
func (h *SiteHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range []string{"/", "/catalog", "/layanan", "/contact"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.baseURL + path})
	}

	if pages, err := h.queries.ListPublishedPages(ctx); err == nil {
		for _, p := range pages {
			set.URLs = append(set.URLs, sitemapURL{Loc: h.baseURL + "/p/" + p.Slug})
		}
	}
	if products, err := h.queries.ListActiveProducts(ctx); err == nil {
		for _, p := range products {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:     h.baseURL + "/catalog/" + p.Slug,
				LastMod: p.UpdatedAt.Format(time.DateOnly),
			})
		}
	}
	if services, err := h.queries.ListActiveServices(ctx); err == nil {
		for _, s := range services {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:     h.baseURL + "/layanan/" + s.Slug,
				LastMod: s.UpdatedAt.Format(time.DateOnly),
			})
		}
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		slog.Error("failed to encode sitemap", "error", err)
	}
}

func localizeSlide(slide store.CarouselItem, trs []store.CarouselItemTr, lang string) LocalizedSlide {
	base := i18n.Fields{
		"title":    slide.Title.String,
		"subtitle": slide.Subtitle.String,
		"cta_text": slide.CtaText.String,
		"cta_url":  slide.CtaURL.String,
	}
	translations := make(i18n.Translations, len(trs))
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"title":    t.Title.String,
			"subtitle": t.Subtitle.String,
			"cta_text": t.CtaText.String,
			"cta_url":  t.CtaURL.String,
		}
	}
	return LocalizedSlide{
		MediaType:  slide.MediaType,
		MediaPath:  slide.MediaPath,
		PosterPath: slide.PosterPath.String,
		Title:      i18n.Resolve(base, translations, lang, "title"),
		Subtitle:   i18n.Resolve(base, translations, lang, "subtitle"),
		CtaText:    i18n.Resolve(base, translations, lang, "cta_text"),
		CtaURL:     i18n.Resolve(base, translations, lang, "cta_url"),
	}
}

func localizePage(page store.Page, trs []store.PageTr, lang string) LocalizedPage {
	base := i18n.Fields{
		"title":   page.Title,
		"excerpt": page.Excerpt.String,
		"body":    page.Body.String,
	}
	translations := make(i18n.Translations, len(trs))
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"title":   t.Title,
			"excerpt": t.Excerpt.String,
			"body":    t.Body.String,
		}
	}
	return LocalizedPage{
		Slug:      page.Slug,
		Template:  page.Template,
		Title:     i18n.Resolve(base, translations, lang, "title"),
		Excerpt:   i18n.Resolve(base, translations, lang, "excerpt"),
		Body:      i18n.Resolve(base, translations, lang, "body"),
		MetaTitle: page.MetaTitle.String,
		MetaDesc:  page.MetaDesc.String,
	}
}
