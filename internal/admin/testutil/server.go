package testutil

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/httpserver"
	catalogtpl "finitefield.org/catalog-admin/internal/admin/templates/catalog"
)

// CSRF settings used by NewServer so tests can forge matching cookie/header pairs.
const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithCatalogService wires a custom catalog service implementation.
func WithCatalogService(service catalog.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.CatalogService = service
	}
}

// WithDisplayOptions overrides how products are presented.
func WithDisplayOptions(opts catalogtpl.DisplayOptions) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Display = opts
	}
}

// WithEditDefaultImage sets the image used when the edit form leaves the image blank.
func WithEditDefaultImage(url string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.EditDefaultImage = url
	}
}

// WithEnvironment sets the environment label shown in the topbar.
func WithEnvironment(env string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Environment = env
	}
}

// WithLogger routes server logs to the given logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// NewServer constructs an httptest server running the admin HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:        ":0",
		BasePath:       "/admin",
		CSRFCookieName: CSRFCookieName,
		CSRFHeaderName: CSRFHeaderName,
		CatalogService: catalog.NewStaticService(catalog.DemoProducts()...),
		Logger:         zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
