// Package stubapi serves the product REST contract consumed by the admin client,
// backed by any catalog.Service. It answers both endpoint conventions so either
// client configuration can be exercised locally.
package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/observability"
)

type errorResponse struct {
	Error string `json:"error"`
}

type patchRequest struct {
	ID catalog.ID `json:"id"`
	catalog.ProductInput
}

// Handler exposes the product endpoints.
type Handler struct {
	products catalog.Service
}

// NewHandler wires the stub routes on top of the given service.
func NewHandler(products catalog.Service) *Handler {
	if products == nil {
		products = catalog.NewStaticService()
	}
	return &Handler{products: products}
}

// Router returns a chi router serving the REST contract.
func (h *Handler) Router(logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(observability.InjectLogger(logger))
	r.Use(observability.RequestLogger())
	r.Use(chimw.Recoverer)
	r.Use(allowCORS)

	r.Post("/product", h.create)
	r.Get("/product", h.list)
	r.Get("/products", h.list)
	r.Patch("/product", h.updateFromBody)
	r.Get("/product/{id}", h.get)
	r.Patch("/product/{id}", h.update)
	r.Delete("/product/{id}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := catalog.Validate(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	product, err := h.products.Create(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.products.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot.Products())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), pathID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.replace(w, r, pathID(r), input)
}

func (h *Handler) updateFromBody(w http.ResponseWriter, r *http.Request) {
	var body patchRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.ID.IsZero() {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	h.replace(w, r, body.ID, body.ProductInput)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request, id catalog.ID, input catalog.ProductInput) {
	if err := catalog.Validate(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	product, err := h.products.Update(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), pathID(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if catalog.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	observability.FromContext(r.Context()).Error("stub: service call failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func pathID(r *http.Request) catalog.ID {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(raw); err == nil {
			raw = decoded
		}
	}
	return catalog.ID(strings.TrimSpace(raw))
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// allowCORS lets a browser page on another origin call the stub directly.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
