package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/stubapi"
)

func newStubBackend(t *testing.T, seed ...catalog.Product) *httptest.Server {
	t.Helper()

	handler := stubapi.NewHandler(catalog.NewStaticService(seed...))
	ts := httptest.NewServer(handler.Router(zap.NewNop()))
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, baseURL string, opts ...catalog.HTTPOption) *catalog.HTTPService {
	t.Helper()

	svc, err := catalog.NewHTTPService(baseURL, nil, opts...)
	require.NoError(t, err)
	return svc
}

func TestHTTPServiceCreateSendsDeclaredFields(t *testing.T) {
	t.Parallel()

	captured := make(chan map[string]json.RawMessage, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/product" || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		defer r.Body.Close()
		var raw map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		captured <- raw

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7,"name":"Shampoo","description":"server copy","images":["https://cdn.example.com/a.png"],"price":21.5}`)
	}))
	t.Cleanup(ts.Close)

	svc := newClient(t, ts.URL)
	created, err := svc.Create(context.Background(), catalog.ProductInput{
		Name:        "Shampoo",
		Description: "suave",
		Price:       19.9,
	})
	require.NoError(t, err)

	raw := <-captured
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	require.ElementsMatch(t, []string{"name", "description", "images", "price"}, keys)
	require.JSONEq(t, `[]`, string(raw["images"]), "empty images must be sent as an array")

	// The decoded response is returned as-is, not merged with the request.
	require.Equal(t, catalog.ID("7"), created.ID)
	require.Equal(t, "server copy", created.Description)
	require.Equal(t, []string{"https://cdn.example.com/a.png"}, created.Images)
	require.Equal(t, 21.5, created.Price)
}

func TestHTTPServiceShampooScenario(t *testing.T) {
	t.Parallel()

	ts := newStubBackend(t)
	svc := newClient(t, ts.URL)
	ctx := context.Background()

	description := strings.Repeat("x", 100)
	created, err := svc.Create(ctx, catalog.ProductInput{
		Name:        "Shampoo",
		Description: description,
		Images:      []string{},
		Price:       19.9,
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero(), "backend must assign an id")

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, "Shampoo", fetched.Name)
	require.Equal(t, description, fetched.Description)
	require.Empty(t, fetched.Images)
	require.Equal(t, 19.9, fetched.Price)
}

func TestHTTPServiceListThenGetMatches(t *testing.T) {
	t.Parallel()

	ts := newStubBackend(t, catalog.DemoProducts()...)
	svc := newClient(t, ts.URL)
	ctx := context.Background()

	snapshot, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, snapshot.Len())

	for _, listed := range snapshot.Products() {
		fetched, err := svc.Get(ctx, listed.ID)
		require.NoError(t, err)
		require.Equal(t, listed, *fetched)
	}
}

func TestHTTPServiceDeleteRemovesFromList(t *testing.T) {
	t.Parallel()

	ts := newStubBackend(t, catalog.DemoProducts()...)
	svc := newClient(t, ts.URL)
	ctx := context.Background()

	before, err := svc.List(ctx)
	require.NoError(t, err)
	target := before.Products()[0].ID

	require.NoError(t, svc.Delete(ctx, target))

	after, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, before.Len()-1, after.Len())
	_, found := after.Find(target)
	require.False(t, found, "deleted id must not be listed")

	_, err = svc.Get(ctx, target)
	require.True(t, catalog.IsNotFound(err))
}

func TestHTTPServiceUpdateEndpointStyles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		style      catalog.EndpointStyle
		wantPath   string
		wantListAt string
		wantBodyID bool
	}{
		{name: "path id", style: catalog.EndpointStylePathID, wantPath: "/product/42", wantListAt: "/product"},
		{name: "body id", style: catalog.EndpointStyleBodyID, wantPath: "/product", wantListAt: "/products", wantBodyID: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var (
				mu        sync.Mutex
				patchPath string
				listPath  string
				body      map[string]json.RawMessage
			)
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				defer mu.Unlock()
				w.Header().Set("Content-Type", "application/json")
				switch r.Method {
				case http.MethodPatch:
					patchPath = r.URL.Path
					defer r.Body.Close()
					_ = json.NewDecoder(r.Body).Decode(&body)
					_, _ = io.WriteString(w, `{"id":42,"name":"Novo","description":"d","images":[],"price":1}`)
				case http.MethodGet:
					listPath = r.URL.Path
					_, _ = io.WriteString(w, `[]`)
				default:
					w.WriteHeader(http.StatusMethodNotAllowed)
				}
			}))
			t.Cleanup(ts.Close)

			svc := newClient(t, ts.URL, catalog.WithEndpointStyle(tc.style))
			updated, err := svc.Update(context.Background(), "42", catalog.ProductInput{Name: "Novo", Description: "d", Price: 1})
			require.NoError(t, err)
			require.Equal(t, catalog.ID("42"), updated.ID)

			mu.Lock()
			require.Equal(t, tc.wantPath, patchPath)
			_, hasID := body["id"]
			require.Equal(t, tc.wantBodyID, hasID)
			if tc.wantBodyID {
				require.JSONEq(t, `42`, string(body["id"]))
			}
			mu.Unlock()

			_, err = svc.List(context.Background())
			require.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			require.Equal(t, tc.wantListAt, listPath)
		})
	}
}

func TestHTTPServiceBodyIDKeepsStringIDs(t *testing.T) {
	t.Parallel()

	for _, id := range []catalog.ID{"007", "+5"} {
		id := id
		t.Run(string(id), func(t *testing.T) {
			t.Parallel()

			bodies := make(chan map[string]json.RawMessage, 1)
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer r.Body.Close()
				var body map[string]json.RawMessage
				_ = json.NewDecoder(r.Body).Decode(&body)
				bodies <- body

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(catalog.Product{ID: id, Name: "Novo", Description: "d", Images: []string{}, Price: 1})
			}))
			t.Cleanup(ts.Close)

			svc := newClient(t, ts.URL, catalog.WithEndpointStyle(catalog.EndpointStyleBodyID))
			updated, err := svc.Update(context.Background(), id, catalog.ProductInput{Name: "Novo", Description: "d", Price: 1})
			require.NoError(t, err)
			require.Equal(t, id, updated.ID)

			body := <-bodies
			want, err := json.Marshal(string(id))
			require.NoError(t, err)
			require.JSONEq(t, string(want), string(body["id"]))
		})
	}
}

func TestHTTPServiceCancelsWithCallerContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		ts.Close()
	})

	svc := newClient(t, ts.URL)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.List(ctx)
		done <- err
	}()

	cancel()
	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, catalog.StatusCode(err))
}

func TestHTTPServiceNon2xxReturnsStatusError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"down for maintenance"}`)
	}))
	t.Cleanup(ts.Close)

	svc := newClient(t, ts.URL)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.ProductInput{Name: "a", Description: "b"})
	requireStatus(t, err, http.StatusServiceUnavailable)

	snapshot, err := svc.List(ctx)
	requireStatus(t, err, http.StatusServiceUnavailable)
	require.Equal(t, 0, snapshot.Len())

	_, err = svc.Get(ctx, "1")
	requireStatus(t, err, http.StatusServiceUnavailable)

	_, err = svc.Update(ctx, "1", catalog.ProductInput{Name: "a", Description: "b"})
	requireStatus(t, err, http.StatusServiceUnavailable)

	err = svc.Delete(ctx, "1")
	requireStatus(t, err, http.StatusServiceUnavailable)
	require.NotContains(t, err.Error(), "maintenance", "response body is not inspected")
}

func TestHTTPServiceFailureLeavesPriorSnapshotUntouched(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"name":"A","description":"a","images":[],"price":2}]`)
	}))
	t.Cleanup(ts.Close)

	svc := newClient(t, ts.URL)
	first, err := svc.List(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	_, err = svc.List(context.Background())
	require.Error(t, err)

	require.Equal(t, 1, first.Len())
	p, ok := first.Find("1")
	require.True(t, ok)
	require.Equal(t, "A", p.Name)
}

func TestHTTPServiceTransportFailure(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	baseURL := ts.URL
	ts.Close()

	svc := newClient(t, baseURL)
	_, err := svc.List(context.Background())
	require.Error(t, err)
	require.Equal(t, 0, catalog.StatusCode(err))

	var statusErr *catalog.StatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestHTTPServiceEscapesIDAndKeepsBasePath(t *testing.T) {
	t.Parallel()

	paths := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"a b","name":"x","description":"y","images":[],"price":0}`)
	}))
	t.Cleanup(ts.Close)

	svc := newClient(t, ts.URL+"/api")
	p, err := svc.Get(context.Background(), "a b")
	require.NoError(t, err)
	require.Equal(t, "/api/product/a%20b", <-paths)
	require.Equal(t, catalog.ID("a b"), p.ID)
}

func TestNewHTTPServiceRejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := catalog.NewHTTPService("", nil)
	require.Error(t, err)

	_, err = catalog.NewHTTPService("localhost:8080", nil)
	require.Error(t, err)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	require.Error(t, err)
	var statusErr *catalog.StatusError
	require.True(t, errors.As(err, &statusErr), "expected StatusError, got %T", err)
	require.Equal(t, status, statusErr.StatusCode)
}
