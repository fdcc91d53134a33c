package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/observability"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8080"

// EndpointStyle selects how the backend lays out its product routes.
type EndpointStyle string

const (
	// EndpointStylePathID lists on /product and updates via PATCH /product/{id}.
	EndpointStylePathID EndpointStyle = "path-id"
	// EndpointStyleBodyID lists on /products and updates via PATCH /product with the id in the body.
	EndpointStyleBodyID EndpointStyle = "body-id"
)

// ParseEndpointStyle normalises a configured style name.
func ParseEndpointStyle(raw string) (EndpointStyle, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(EndpointStylePathID), "path":
		return EndpointStylePathID, nil
	case string(EndpointStyleBodyID), "body":
		return EndpointStyleBodyID, nil
	default:
		return "", fmt.Errorf("catalog: unknown endpoint style %q", raw)
	}
}

// HTTPClient matches the subset of http.Client used by HTTPService.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPOption customises an HTTPService.
type HTTPOption func(*HTTPService)

// WithEndpointStyle selects the backend route layout.
func WithEndpointStyle(style EndpointStyle) HTTPOption {
	return func(s *HTTPService) {
		if style != "" {
			s.style = style
		}
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger *zap.Logger) HTTPOption {
	return func(s *HTTPService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// HTTPService implements Service backed by the catalog REST API.
type HTTPService struct {
	base   *url.URL
	client HTTPClient
	style  EndpointStyle
	logger *zap.Logger
	now    func() time.Time
}

// NewHTTPService constructs a Service that talks to the catalog backend at baseURL.
func NewHTTPService(baseURL string, client HTTPClient, opts ...HTTPOption) (*HTTPService, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("catalog: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("catalog: base URL %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	svc := &HTTPService{
		base:   parsed,
		client: client,
		style:  EndpointStylePathID,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// BaseURL returns the configured backend address.
func (s *HTTPService) BaseURL() string {
	return strings.TrimSuffix(s.base.String(), "/")
}

// Style returns the configured endpoint convention.
func (s *HTTPService) Style() EndpointStyle {
	return s.style
}

// Create registers a new product.
func (s *HTTPService) Create(ctx context.Context, input ProductInput) (*Product, error) {
	const op = "create product"

	req, err := s.newJSONRequest(ctx, http.MethodPost, "product", input.normalized())
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	var payload Product
	if err := s.doJSON(req, op, &payload); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.log(ctx).Debug("catalog: product created", zap.String("product_id", payload.ID.String()))
	return &payload, nil
}

// List fetches all products.
func (s *HTTPService) List(ctx context.Context) (Snapshot, error) {
	const op = "list products"

	req, err := s.newRequest(ctx, http.MethodGet, s.listEndpoint(), nil)
	if err != nil {
		return Snapshot{}, s.fail(ctx, op, err)
	}
	var payload []Product
	if err := s.doJSON(req, op, &payload); err != nil {
		return Snapshot{}, s.fail(ctx, op, err)
	}
	s.log(ctx).Debug("catalog: products loaded", zap.Int("count", len(payload)))
	return NewSnapshot(payload, s.now()), nil
}

// Get fetches a single product.
func (s *HTTPService) Get(ctx context.Context, id ID) (*Product, error) {
	const op = "get product"

	if id.IsZero() {
		return nil, s.fail(ctx, op, errors.New("catalog: product id is required"))
	}
	req, err := s.newRequest(ctx, http.MethodGet, productEndpoint(id), nil)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	var payload Product
	if err := s.doJSON(req, op, &payload); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return &payload, nil
}

// Update replaces the product identified by id.
func (s *HTTPService) Update(ctx context.Context, id ID, input ProductInput) (*Product, error) {
	const op = "update product"

	if id.IsZero() {
		return nil, s.fail(ctx, op, errors.New("catalog: product id is required"))
	}

	var (
		req *http.Request
		err error
	)
	switch s.style {
	case EndpointStyleBodyID:
		body := struct {
			ID ID `json:"id"`
			ProductInput
		}{ID: id, ProductInput: input.normalized()}
		req, err = s.newJSONRequest(ctx, http.MethodPatch, "product", body)
	default:
		req, err = s.newJSONRequest(ctx, http.MethodPatch, productEndpoint(id), input.normalized())
	}
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	var payload Product
	if err := s.doJSON(req, op, &payload); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.log(ctx).Debug("catalog: product updated", zap.String("product_id", id.String()))
	return &payload, nil
}

// Delete removes the product identified by id. Any 2xx status counts as success.
func (s *HTTPService) Delete(ctx context.Context, id ID) error {
	const op = "delete product"

	if id.IsZero() {
		return s.fail(ctx, op, errors.New("catalog: product id is required"))
	}
	req, err := s.newRequest(ctx, http.MethodDelete, productEndpoint(id), nil)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	resp, err := s.do(req)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	defer drainAndClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return s.fail(ctx, op, &StatusError{Operation: op, StatusCode: resp.StatusCode})
	}
	s.log(ctx).Debug("catalog: product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *HTTPService) listEndpoint() string {
	if s.style == EndpointStyleBodyID {
		return "products"
	}
	return "product"
}

func productEndpoint(id ID) string {
	return "product/" + strings.TrimSpace(id.String())
}

func (s *HTTPService) doJSON(req *http.Request, op string, out any) error {
	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return &StatusError{Operation: op, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decode %s response: %w", op, err)
	}
	return nil
}

func (s *HTTPService) do(req *http.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	return resp, nil
}

func (s *HTTPService) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.resolve(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (s *HTTPService) newJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("catalog: encode payload: %w", err)
	}
	req, err := s.newRequest(ctx, method, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// resolve joins endpoint onto the base URL, escaping each path segment.
func (s *HTTPService) resolve(endpoint string) string {
	segments := strings.SplitN(strings.TrimPrefix(endpoint, "/"), "/", 2)
	escaped := make([]string, 0, len(segments))
	for _, seg := range segments {
		escaped = append(escaped, url.PathEscape(seg))
	}
	ref := &url.URL{
		Path:    strings.Join(segments, "/"),
		RawPath: strings.Join(escaped, "/"),
	}
	return s.base.ResolveReference(ref).String()
}

func (s *HTTPService) log(ctx context.Context) *zap.Logger {
	return observability.LoggerOr(ctx, s.logger)
}

// fail logs err and hands it back so callers can propagate it unchanged.
func (s *HTTPService) fail(ctx context.Context, op string, err error) error {
	fields := []zap.Field{zap.String("operation", op), zap.Error(err)}
	if code := StatusCode(err); code != 0 {
		fields = append(fields, zap.Int("status", code))
	}
	s.log(ctx).Error("catalog: backend call failed", fields...)
	return err
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
