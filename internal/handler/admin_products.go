package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/imaging"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/translate"
	"github.com/ptaero/aerosite/internal/util"
)

var (
	productTrFields     = []string{"name", "short_desc", "desc"}
	productTrHTMLFields = map[string]bool{"desc": true}
)

// AdminProductsHandler manages the catalog in the back office.
type AdminProductsHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	translator *translate.Service
	images     *imaging.Processor
}

// NewAdminProductsHandler creates an AdminProductsHandler.
func NewAdminProductsHandler(db *sql.DB, renderer *render.Renderer, translator *translate.Service, images *imaging.Processor) *AdminProductsHandler {
	return &AdminProductsHandler{
		queries:    store.New(db),
		renderer:   renderer,
		translator: translator,
		images:     images,
	}
}

// AdminProductsData holds data for the product list template.
type AdminProductsData struct {
	Products []store.Product
}

// List handles GET /admin/products.
func (h *AdminProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.queries.ListProducts(r.Context())
	if err != nil {
		slog.Error("failed to list products", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.renderer.Render(w, r, "admin/products", render.TemplateData{
		Title: "Products",
		Data:  AdminProductsData{Products: products},
	}); err != nil {
		slog.Error("failed to render product list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AdminProductFormData holds data for the product create/edit template.
type AdminProductFormData struct {
	Product      store.Product
	Brands       []store.Brand
	Translations map[string]i18n.Fields
	IsNew        bool
}

// NewForm handles GET /admin/products/new.
func (h *AdminProductsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	brands, err := h.queries.ListBrands(r.Context())
	if err != nil {
		slog.Warn("failed to list brands", "error", err)
	}
	data := AdminProductFormData{
		Product:      store.Product{IsActive: true},
		Brands:       brands,
		Translations: emptyTranslations(productTrFields),
		IsNew:        true,
	}
	if err := h.renderer.Render(w, r, "admin/product_form", render.TemplateData{Title: "New Product", Data: data}); err != nil {
		slog.Error("failed to render product form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles POST /admin/products/new.
func (h *AdminProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	arg, errMsg := h.productParams(r, store.Product{})
	if errMsg != "" {
		h.formError(w, r, 0, arg, errMsg)
		return
	}

	productID, err := h.queries.CreateProduct(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create product", "error", err, "slug", arg.Slug)
		h.formError(w, r, 0, arg, "Could not create the product, is the slug unique?")
		return
	}

	h.saveProductTranslations(r, productID, arg)

	slog.Info("product created", "product_id", productID, "slug", arg.Slug)
	flashSuccess(w, r, h.renderer, "/admin/products", "Product created")
}

// EditForm handles GET /admin/products/{id}.
func (h *AdminProductsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	product, err := h.queries.GetProduct(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	brands, err := h.queries.ListBrands(r.Context())
	if err != nil {
		slog.Warn("failed to list brands", "error", err)
	}
	trs, err := h.queries.ListProductTrs(r.Context(), id)
	if err != nil {
		slog.Warn("failed to load product translations", "error", err, "product_id", id)
	}
	translations := emptyTranslations(productTrFields)
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{
			"name":       t.Name,
			"short_desc": t.ShortDesc.String,
			"desc":       t.Desc.String,
		}
	}

	data := AdminProductFormData{Product: product, Brands: brands, Translations: translations}
	if err := h.renderer.Render(w, r, "admin/product_form", render.TemplateData{Title: "Edit Product", Data: data}); err != nil {
		slog.Error("failed to render product form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Update handles POST /admin/products/{id}.
func (h *AdminProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	product, err := h.queries.GetProduct(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	arg, errMsg := h.productParams(r, product)
	if errMsg != "" {
		h.formError(w, r, id, arg, errMsg)
		return
	}

	if err := h.queries.UpdateProduct(r.Context(), store.UpdateProductParams{
		ID:        id,
		Slug:      arg.Slug,
		BrandID:   arg.BrandID,
		Price:     arg.Price,
		Stock:     arg.Stock,
		ImageURL:  arg.ImageURL,
		ThumbURL:  arg.ThumbURL,
		IsActive:  arg.IsActive,
		Name:      arg.Name,
		ShortDesc: arg.ShortDesc,
		Desc:      arg.Desc,
	}); err != nil {
		slog.Error("failed to update product", "error", err, "product_id", id)
		h.formError(w, r, id, arg, "Could not update the product, is the slug unique?")
		return
	}

	h.saveProductTranslations(r, id, arg)

	slog.Info("product updated", "product_id", id, "slug", arg.Slug)
	flashSuccess(w, r, h.renderer, "/admin/products", "Product updated")
}

// Delete handles POST /admin/products/{id}/delete.
func (h *AdminProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.queries.DeleteProduct(r.Context(), id); err != nil {
		slog.Error("failed to delete product", "error", err, "product_id", id)
		flashError(w, r, h.renderer, "/admin/products", "Could not delete the product")
		return
	}
	slog.Info("product deleted", "product_id", id)
	flashSuccess(w, r, h.renderer, "/admin/products", "Product deleted")
}

// productParams reads the product form, including an optional image
// upload. current supplies media kept when no new upload arrives. A
// non-empty second return value is a validation error; the params still
// carry the submitted fields so the form can redisplay.
func (h *AdminProductsHandler) productParams(r *http.Request, current store.Product) (store.CreateProductParams, string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return store.CreateProductParams{}, "Invalid form data"
	}

	name := strings.TrimSpace(r.PostFormValue("name"))

	slug := util.Slugify(r.PostFormValue("slug"))
	if slug == "" {
		slug = util.Slugify(name)
	}

	var brandID sql.NullInt64
	if v, err := strconv.ParseInt(r.PostFormValue("brand_id"), 10, 64); err == nil && v > 0 {
		brandID = sql.NullInt64{Int64: v, Valid: true}
	}
	stock, _ := strconv.ParseInt(r.PostFormValue("stock"), 10, 64)
	if stock < 0 {
		stock = 0
	}

	arg := store.CreateProductParams{
		Slug:      slug,
		BrandID:   brandID,
		Stock:     stock,
		ImageURL:  current.ImageURL,
		ThumbURL:  current.ThumbURL,
		IsActive:  r.PostFormValue("is_active") == "on",
		Name:      name,
		ShortDesc: nullString(strings.TrimSpace(r.PostFormValue("short_desc"))),
		Desc:      nullString(ugcPolicy.Sanitize(r.PostFormValue("desc"))),
	}

	if name == "" {
		return arg, "Name is required"
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("price")))
	if err != nil || price.IsNegative() {
		return arg, "Price must be a non-negative number"
	}
	arg.Price = price

	if file, header, err := r.FormFile("image"); err == nil {
		defer func() { _ = file.Close() }()
		result, err := h.images.SaveImage(file, header.Filename)
		if err != nil {
			slog.Warn("product upload rejected", "error", err)
			return arg, "Could not process the uploaded image"
		}
		arg.ImageURL = nullString("/uploads/" + result.ImagePath)
		arg.ThumbURL = nullString("/uploads/" + result.ThumbPath)
	}

	return arg, ""
}

// formError re-renders the product form with the submitted values and
// HTTP 400.
func (h *AdminProductsHandler) formError(w http.ResponseWriter, r *http.Request, id int64, arg store.CreateProductParams, message string) {
	brands, err := h.queries.ListBrands(r.Context())
	if err != nil {
		slog.Warn("failed to list brands", "error", err)
	}
	data := AdminProductFormData{
		Product: store.Product{
			ID:        id,
			Slug:      arg.Slug,
			BrandID:   arg.BrandID,
			Price:     arg.Price,
			Stock:     arg.Stock,
			ImageURL:  arg.ImageURL,
			ThumbURL:  arg.ThumbURL,
			IsActive:  arg.IsActive,
			Name:      arg.Name,
			ShortDesc: arg.ShortDesc,
			Desc:      arg.Desc,
		},
		Brands:       brands,
		Translations: translate.CollectInputs(r.PostForm, productTrFields),
		IsNew:        id == 0,
	}
	title := "Edit Product"
	if data.IsNew {
		title = "New Product"
	}
	renderFormError(w, r, h.renderer, "admin/product_form", title, data, message)
}

func (h *AdminProductsHandler) saveProductTranslations(r *http.Request, productID int64, arg store.CreateProductParams) {
	base := i18n.Fields{
		"name":       arg.Name,
		"short_desc": arg.ShortDesc.String,
		"desc":       arg.Desc.String,
	}
	manual := translate.CollectInputs(r.PostForm, productTrFields)

	ctx := context.WithoutCancel(r.Context())
	for _, lang := range i18n.SupportedLangs {
		fields := h.translator.Localize(ctx, base, manual[lang], productTrHTMLFields, lang)
		if err := h.queries.UpsertProductTr(ctx, store.UpsertProductTrParams{
			ProductID: productID,
			Lang:      lang,
			Name:      fields["name"],
			ShortDesc: nullString(fields["short_desc"]),
			Desc:      nullString(ugcPolicy.Sanitize(fields["desc"])),
		}); err != nil {
			slog.Warn("failed to save product translation", "error", err, "product_id", productID, "lang", lang)
		}
	}
}
