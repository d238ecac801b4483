package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/middleware"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
)

// CatalogHandler serves the public product catalog.
type CatalogHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(db *sql.DB, renderer *render.Renderer) *CatalogHandler {
	return &CatalogHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// LocalizedProduct is a product resolved for the request language.
type LocalizedProduct struct {
	ID        int64
	Slug      string
	Name      string
	ShortDesc string
	Desc      string
	Price     decimal.Decimal
	Stock     int64
	ImageURL  string
	ThumbURL  string
	BrandName string
}

// CatalogData holds data for the catalog listing template.
type CatalogData struct {
	Products      []LocalizedProduct
	Brands        []store.Brand
	SelectedBrand string
}

// List handles GET /catalog with an optional ?brand= slug filter.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)

	brands, err := h.queries.ListBrands(ctx)
	if err != nil {
		slog.Error("failed to list brands", "error", err)
	}

	brandSlug := r.URL.Query().Get("brand")
	var products []store.Product
	if brandSlug != "" {
		brand, err := h.queries.GetBrandBySlug(ctx, brandSlug)
		if err != nil {
			// Unknown brand filter shows the full catalog.
			brandSlug = ""
			products, err = h.queries.ListActiveProducts(ctx)
			if err != nil {
				slog.Error("failed to list products", "error", err)
			}
		} else {
			products, err = h.queries.ListActiveProductsByBrand(ctx, brand.ID)
			if err != nil {
				slog.Error("failed to list products by brand", "error", err, "brand", brandSlug)
			}
		}
	} else {
		products, err = h.queries.ListActiveProducts(ctx)
		if err != nil {
			slog.Error("failed to list products", "error", err)
		}
	}

	localized, err := localizeProducts(ctx, h.queries, products, lang)
	if err != nil {
		slog.Warn("failed to localize products", "error", err)
	}

	data := CatalogData{
		Products:      localized,
		Brands:        brands,
		SelectedBrand: brandSlug,
	}
	if err := h.renderer.Render(w, r, "site/catalog", render.TemplateData{Data: data}); err != nil {
		slog.Error("failed to render catalog", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ProductDetailData holds data for the product detail template.
type ProductDetailData struct {
	Product LocalizedProduct
}

// Detail handles GET /catalog/{slug}.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := middleware.GetLang(r)

	product, err := h.queries.GetActiveProductBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	trs, err := h.queries.ListProductTrs(r.Context(), product.ID)
	if err != nil {
		slog.Warn("failed to load product translations", "error", err, "product_id", product.ID)
	}

	localized := localizeProduct(product, trs, lang)
	if err := h.renderer.Render(w, r, "site/product", render.TemplateData{
		Title: localized.Name,
		Data:  ProductDetailData{Product: localized},
	}); err != nil {
		slog.Error("failed to render product", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func localizeProduct(product store.Product, trs []store.ProductTr, lang string) LocalizedProduct {
	base := i18n.Fields{
		"name":       product.Name,
		"short_desc": product.ShortDesc.String,
		"desc":       product.Desc.String,
	}
	translations := make(i18n.Translations, len(trs))
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"name":       t.Name,
			"short_desc": t.ShortDesc.String,
			"desc":       t.Desc.String,
		}
	}
	return LocalizedProduct{
		ID:        product.ID,
		Slug:      product.Slug,
		Name:      i18n.Resolve(base, translations, lang, "name"),
		ShortDesc: i18n.Resolve(base, translations, lang, "short_desc"),
		Desc:      i18n.Resolve(base, translations, lang, "desc"),
		Price:     product.Price,
		Stock:     product.Stock,
		ImageURL:  product.ImageURL.String,
		ThumbURL:  product.ThumbURL.String,
		BrandName: product.BrandName.String,
	}
}

// localizeProducts resolves a product list in one translation query.
func localizeProducts(ctx context.Context, queries *store.Queries, products []store.Product, lang string) ([]LocalizedProduct, error) {
	if len(products) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	trsByProduct, err := queries.ListProductTrsForProducts(ctx, ids)
	if err != nil {
		trsByProduct = nil
	}

	localized := make([]LocalizedProduct, len(products))
	for i, p := range products {
		localized[i] = localizeProduct(p, trsByProduct[p.ID], lang)
	}
	return localized, err
}
