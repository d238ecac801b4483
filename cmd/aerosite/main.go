package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ptaero/aerosite/internal/config"
	"github.com/ptaero/aerosite/internal/handler"
	"github.com/ptaero/aerosite/internal/imaging"
	"github.com/ptaero/aerosite/internal/logging"
	"github.com/ptaero/aerosite/internal/mailer"
	"github.com/ptaero/aerosite/internal/middleware"
	"github.com/ptaero/aerosite/internal/render"
	"github.com/ptaero/aerosite/internal/service"
	"github.com/ptaero/aerosite/internal/session"
	"github.com/ptaero/aerosite/internal/store"
	"github.com/ptaero/aerosite/internal/translate"
	"github.com/ptaero/aerosite/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "aerosite - PT Teknologi Aeronautika Utama company site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AERO_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AERO_DB_PATH           SQLite database path (default: ./data/aerosite.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AERO_SERVER_PORT       Server port (default: 8000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AERO_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AERO_UPLOADS_DIR       Uploaded media directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AERO_TRANSLATE_PROVIDER  Machine translation: google|openai|\"\" (default: google)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AERO_DO_SEED           Seed admin account and defaults on empty database\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("aerosite %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, store.SeedParams{
			AdminUsername: cfg.SeedAdminUsername,
			AdminPassword: cfg.SeedAdminPassword,
		}, logger); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize language cookie security settings
	middleware.InitLanguageCookies(cfg.IsDevelopment())

	// Initialize template renderer
	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates(),
		SessionManager: sessionManager,
		SiteName:       cfg.SiteName,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Shared services for page assembly and the cart
	menus := service.NewMenuService(db)
	footer := service.NewFooterService(db)
	carts := service.NewCartService(db)

	// Machine translation provider
	var provider translate.Provider
	switch cfg.TranslateProvider {
	case "google":
		provider = translate.NewGoogleProvider()
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			slog.Warn("openai translation selected but AERO_OPENAI_API_KEY is empty, translation disabled")
		} else {
			provider = translate.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		}
	case "":
		slog.Info("machine translation disabled")
	default:
		return fmt.Errorf("unknown translate provider %q", cfg.TranslateProvider)
	}
	translator := translate.NewService(provider)
	if translator.Enabled() {
		slog.Info("machine translation enabled", "provider", cfg.TranslateProvider)
	}

	// Transactional mail for the contact form
	mail := mailer.New(mailer.Config{
		APIKey:   cfg.MailAPIKey,
		Endpoint: cfg.MailEndpoint,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
		To:       cfg.MailTo,
	})
	slog.Info("mailer initialized", "enabled", mail.Enabled())

	// Image uploads
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	images := imaging.NewProcessor(cfg.UploadsDir)

	// Login protection: per-IP rate limit plus account lockout
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized")

	// Public rate limiter for auth routes (defense-in-depth)
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// CSRF protection
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Initialize handlers
	siteHandler := handler.NewSiteHandler(db, renderer, sessionManager, mail, cfg.BaseURL)
	catalogHandler := handler.NewCatalogHandler(db, renderer)
	servicesHandler := handler.NewServicesHandler(db, renderer)
	cartHandler := handler.NewCartHandler(carts, renderer)
	userHandler := handler.NewUserHandler(db, renderer, sessionManager, loginProtection)
	adminHandler := handler.NewAdminHandler(db, renderer, sessionManager, loginProtection)
	adminPagesHandler := handler.NewAdminPagesHandler(db, renderer, translator)
	adminMenuHandler := handler.NewAdminMenuHandler(db, renderer, translator)
	adminCarouselHandler := handler.NewAdminCarouselHandler(db, renderer, translator, images)
	adminFooterHandler := handler.NewAdminFooterHandler(db, renderer, translator)
	adminBrandsHandler := handler.NewAdminBrandsHandler(db, renderer)
	adminProductsHandler := handler.NewAdminProductsHandler(db, renderer, translator, images)
	adminServicesHandler := handler.NewAdminServicesHandler(db, renderer, translator, images)
	adminOrdersHandler := handler.NewAdminOrdersHandler(db, renderer, carts)

	// Create router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(csrfMiddleware)
	r.Use(middleware.Language)
	r.Use(middleware.LoadIdentities(sessionManager, db))
	r.Use(middleware.PageContext(db, menus, footer, carts))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// Public site routes
	r.Get("/", siteHandler.Home)
	r.Get("/p/{slug}", siteHandler.Page)
	r.Get("/set-lang/{code}", siteHandler.SetLang)
	r.Get("/contact", siteHandler.ContactForm)
	r.Post("/contact", siteHandler.Contact)
	r.Get("/sitemap.xml", siteHandler.Sitemap)

	r.Get("/catalog", catalogHandler.List)
	r.Get("/catalog/{slug}", catalogHandler.Detail)

	r.Get("/layanan", servicesHandler.List)
	r.Get("/layanan/{slug}", servicesHandler.Detail)

	// Auth routes (rate limited, login POSTs additionally throttled per account)
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.Middleware())
		r.Get("/login", userHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post("/login", userHandler.Login)
		r.Get("/register", userHandler.RegisterForm)
		r.Post("/register", userHandler.Register)
		r.Post("/logout", userHandler.Logout)
		r.Get("/admin/login", adminHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post("/admin/login", adminHandler.Login)
	})

	// Cart and account routes (authenticated customers)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(sessionManager))
		r.Get("/cart", cartHandler.View)
		r.Post("/cart/add", cartHandler.Add)
		r.Post("/cart/items/{id}", cartHandler.Update)
		r.Post("/cart/items/{id}/delete", cartHandler.Remove)
		r.Post("/cart/checkout", cartHandler.Checkout)
		r.Get("/account/orders", userHandler.Orders)
		r.Get("/account/password", userHandler.PasswordForm)
		r.Post("/account/password", userHandler.Password)
	})

	// Admin back office
	r.Route("/admin", func(r chi.Router) {
		r.Post("/logout", adminHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(sessionManager))

			r.Get("/", adminHandler.Dashboard)

			r.Get("/pages", adminPagesHandler.List)
			r.Get("/pages/new", adminPagesHandler.NewForm)
			r.Post("/pages/new", adminPagesHandler.Create)
			r.Get("/pages/{id}", adminPagesHandler.EditForm)
			r.Post("/pages/{id}", adminPagesHandler.Update)
			r.Post("/pages/{id}/delete", adminPagesHandler.Delete)

			r.Get("/menu", adminMenuHandler.List)
			r.Get("/menu/new", adminMenuHandler.NewForm)
			r.Post("/menu/new", adminMenuHandler.Create)
			r.Get("/menu/{id}", adminMenuHandler.EditForm)
			r.Post("/menu/{id}", adminMenuHandler.Update)
			r.Post("/menu/{id}/delete", adminMenuHandler.Delete)

			r.Get("/carousel", adminCarouselHandler.List)
			r.Get("/carousel/new", adminCarouselHandler.NewForm)
			r.Post("/carousel/new", adminCarouselHandler.Create)
			r.Get("/carousel/{id}", adminCarouselHandler.EditForm)
			r.Post("/carousel/{id}", adminCarouselHandler.Update)
			r.Post("/carousel/{id}/delete", adminCarouselHandler.Delete)

			r.Get("/footer", adminFooterHandler.List)
			r.Post("/footer/sections/new", adminFooterHandler.CreateSection)
			r.Post("/footer/sections/{id}", adminFooterHandler.UpdateSection)
			r.Post("/footer/sections/{id}/delete", adminFooterHandler.DeleteSection)
			r.Post("/footer/links/new", adminFooterHandler.CreateLink)
			r.Post("/footer/links/{id}", adminFooterHandler.UpdateLink)
			r.Post("/footer/links/{id}/delete", adminFooterHandler.DeleteLink)

			r.Get("/brands", adminBrandsHandler.List)
			r.Post("/brands/new", adminBrandsHandler.Create)
			r.Post("/brands/{id}", adminBrandsHandler.Update)
			r.Post("/brands/{id}/delete", adminBrandsHandler.Delete)

			r.Get("/products", adminProductsHandler.List)
			r.Get("/products/new", adminProductsHandler.NewForm)
			r.Post("/products/new", adminProductsHandler.Create)
			r.Get("/products/{id}", adminProductsHandler.EditForm)
			r.Post("/products/{id}", adminProductsHandler.Update)
			r.Post("/products/{id}/delete", adminProductsHandler.Delete)

			r.Get("/services", adminServicesHandler.List)
			r.Get("/services/new", adminServicesHandler.NewForm)
			r.Post("/services/new", adminServicesHandler.Create)
			r.Get("/services/{id}", adminServicesHandler.EditForm)
			r.Post("/services/{id}", adminServicesHandler.Update)
			r.Post("/services/{id}/delete", adminServicesHandler.Delete)

			r.Get("/orders", adminOrdersHandler.List)
			r.Get("/orders/{id}", adminOrdersHandler.Detail)
			r.Post("/orders/{id}/status", adminOrdersHandler.SetStatus)
		})
	})

	// Static assets from the embedded filesystem
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	// Uploaded media from the uploads directory
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
