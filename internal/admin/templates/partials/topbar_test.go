package partials

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
)

func TestTopbarRendersEnvironmentBadge(t *testing.T) {
	t.Parallel()

	ctx := buildTopbarContext(t, "/admin/catalog", "Staging")
	doc := renderTopbar(t, ctx)

	badge := doc.Find("[data-environment-badge] span[aria-hidden='true']")
	require.Equal(t, 1, badge.Length(), "environment badge should render")
	require.Equal(t, "STG", strings.TrimSpace(badge.Text()), "staging environment should render STG badge")
	require.Contains(t, doc.Find("[data-environment-badge]").AttrOr("class", ""), "badge-warning")
}

func TestTopbarHighlightsCurrentLink(t *testing.T) {
	t.Parallel()

	ctx := buildTopbarContext(t, "/admin/catalog/new", "Development")
	doc := renderTopbar(t, ctx)

	links := doc.Find(".topbar-nav a")
	require.Equal(t, 2, links.Length())
	require.Equal(t, "/admin/catalog", links.Eq(0).AttrOr("href", ""))
	require.Equal(t, "/admin/catalog/new", links.Eq(1).AttrOr("href", ""))

	active := doc.Find(".topbar-nav a[aria-current='page']")
	require.Equal(t, 1, active.Length(), "exactly one link should be active")
	require.Equal(t, "Cadastrar produto", active.Text())
	require.Equal(t, "DEV", doc.Find("[data-environment-badge] span[aria-hidden='true']").Text())
}

func TestTopbarRootBasePath(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	var ctx context.Context
	middleware.RequestInfoMiddleware("/", "")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	})).ServeHTTP(httptest.NewRecorder(), req)

	doc := renderTopbar(t, ctx)
	require.Equal(t, "/catalog", doc.Find(".topbar-brand").AttrOr("href", ""))
}

func buildTopbarContext(t *testing.T, requestPath string, environment string) context.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, requestPath, nil)
	rec := httptest.NewRecorder()

	var ctx context.Context
	handler := middleware.RequestInfoMiddleware("/admin", environment)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	handler.ServeHTTP(rec, req)

	require.NotNil(t, ctx, "middleware stack must provide context")
	return ctx
}

func renderTopbar(t *testing.T, ctx context.Context) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	err := Topbar().Render(ctx, &buf)
	require.NoError(t, err, "topbar must render without error")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "html must parse")
	return doc
}
