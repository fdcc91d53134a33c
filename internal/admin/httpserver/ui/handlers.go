package ui

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/observability"
	catalogtpl "finitefield.org/catalog-admin/internal/admin/templates/catalog"
)

const defaultBasePath = "/admin"

// Dependencies collects external services and settings required by the UI handlers.
type Dependencies struct {
	CatalogService catalog.Service
	BasePath       string
	Display        catalogtpl.DisplayOptions
	// EditDefaultImage replaces a blank image field on update. Empty means send no images.
	EditDefaultImage string
	Logger           *zap.Logger
}

// Handlers exposes HTTP handlers for admin UI pages and fragments.
type Handlers struct {
	products         catalog.Service
	paths            catalogtpl.Paths
	display          catalogtpl.DisplayOptions
	editDefaultImage string
	logger           *zap.Logger
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	service := deps.CatalogService
	if service == nil {
		service = catalog.NewStaticService(catalog.DemoProducts()...)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimSpace(deps.BasePath)
	if base == "" {
		base = defaultBasePath
	}
	return &Handlers{
		products:         service,
		paths:            catalogtpl.NewPaths(base),
		display:          deps.Display.Normalize(),
		editDefaultImage: deps.EditDefaultImage,
		logger:           logger,
	}
}

// Root redirects the bare admin path to the catalog page.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.paths.Index(), http.StatusFound)
}

func (h *Handlers) log(r *http.Request) *zap.Logger {
	return observability.LoggerOr(r.Context(), h.logger)
}

func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}

// productID reads the {id} route parameter, undoing path escaping chi leaves in place.
func productID(r *http.Request) catalog.ID {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(raw); err == nil {
			raw = decoded
		}
	}
	return catalog.ID(raw)
}
