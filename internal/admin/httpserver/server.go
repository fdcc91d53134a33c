package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/httpserver/ui"
	"finitefield.org/catalog-admin/internal/admin/observability"
	catalogtpl "finitefield.org/catalog-admin/internal/admin/templates/catalog"
	"finitefield.org/catalog-admin/public"
)

const (
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultRequestTimeout = 60 * time.Second
)

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address          string
	BasePath         string
	Environment      string
	CatalogService   catalog.Service
	Display          catalogtpl.DisplayOptions
	EditDefaultImage string
	Logger           *zap.Logger
	CSRFCookieName   string
	CSRFCookiePath   string
	CSRFCookieSecure bool
	CSRFHeaderName   string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.RequestLogger())
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(defaultRequestTimeout))

	assets, err := public.Handler()
	if err != nil {
		return nil, fmt.Errorf("httpserver: mount assets: %w", err)
	}
	router.Handle(public.MountPath+"*", assets)

	basePath := normalizeBasePath(cfg.BasePath)

	csrfCfg := custommw.CSRFConfig{
		CookieName: cfg.CSRFCookieName,
		CookiePath: firstNonEmpty(cfg.CSRFCookiePath, basePath),
		HeaderName: cfg.CSRFHeaderName,
		Secure:     cfg.CSRFCookieSecure,
	}

	handlers := ui.NewHandlers(ui.Dependencies{
		CatalogService:   cfg.CatalogService,
		BasePath:         basePath,
		Display:          cfg.Display,
		EditDefaultImage: cfg.EditDefaultImage,
		Logger:           logger,
	})

	mountAdminRoutes(router, basePath, routeOptions{
		Environment: cfg.Environment,
		CSRF:        csrfCfg,
		Handlers:    handlers,
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  durationOr(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: durationOr(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}, nil
}

type routeOptions struct {
	Environment string
	CSRF        custommw.CSRFConfig
	Handlers    *ui.Handlers
}

func mountAdminRoutes(router chi.Router, base string, opts routeOptions) {
	h := opts.Handlers

	router.Route(base, func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.NoStore())
		r.Use(custommw.RequestInfoMiddleware(base, opts.Environment))
		r.Use(custommw.CSRF(opts.CSRF))

		r.Get("/", h.Root)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.CatalogPage)
			r.Post("/", h.CatalogCreate)
			r.Get("/new", h.CatalogNew)
			RegisterFragment(r, "/list", h.CatalogList)

			r.Route("/{id}", func(r chi.Router) {
				RegisterFragment(r, "/detail", h.CatalogDetail)
				RegisterFragment(r, "/edit", h.CatalogEdit)
				RegisterFragment(r, "/delete", h.CatalogConfirmDelete)
				r.Patch("/", h.CatalogUpdate)
				r.Delete("/", h.CatalogDelete)
			})
		})
	})
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}
