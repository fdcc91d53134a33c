package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/config"
	"finitefield.org/catalog-admin/internal/admin/httpserver"
	"finitefield.org/catalog-admin/internal/admin/observability"
	catalogtpl "finitefield.org/catalog-admin/internal/admin/templates/catalog"
)

const (
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog admin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	service, err := buildCatalogService(cfg.Catalog, logger)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:        cfg.Server.Address,
		BasePath:       cfg.Server.BasePath,
		Environment:    cfg.Server.Environment,
		CatalogService: service,
		Display: catalogtpl.DisplayOptions{
			PlaceholderImage: cfg.Catalog.PlaceholderImage,
			DescriptionLimit: cfg.Catalog.DescriptionLimit,
			CurrencySymbol:   cfg.Catalog.CurrencySymbol,
		},
		EditDefaultImage: cfg.Catalog.EditDefaultImage,
		Logger:           logger,
		CSRFCookieSecure: cfg.Server.CSRFCookieSecure,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("admin server listening",
		zap.String("addr", cfg.Server.Address),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("environment", cfg.Server.Environment),
		zap.String("config_file", cfg.File),
	)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("admin server stopped")
	return nil
}

// newBackendClient returns the client used for catalog calls. It has no timeout of its own;
// requests end when the inbound request context does.
func newBackendClient() *http.Client {
	return &http.Client{}
}

func buildCatalogService(cfg config.CatalogConfig, logger *zap.Logger) (catalog.Service, error) {
	if cfg.StaticBackend {
		logger.Warn("catalog: using in-memory demo backend")
		return catalog.NewStaticService(catalog.DemoProducts()...), nil
	}

	service, err := catalog.NewHTTPService(
		cfg.APIBaseURL,
		newBackendClient(),
		catalog.WithEndpointStyle(cfg.EndpointStyle),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	logger.Info("catalog: backend configured",
		zap.String("base_url", service.BaseURL()),
		zap.String("endpoint_style", string(service.Style())),
	)
	return service, nil
}
