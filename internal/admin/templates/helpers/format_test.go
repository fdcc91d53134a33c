package helpers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	require.Equal(t, "R$ 19.90", Price(19.9, "R$"))
	require.Equal(t, "R$ 0.00", Price(0, "R$"))
	require.Equal(t, "R$ 1234.57", Price(1234.567, " R$ "))
	require.Equal(t, "5.00", Price(5, ""))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "short text untouched", text: "suave", limit: 60, want: "suave"},
		{name: "exact limit untouched", text: strings.Repeat("a", 60), limit: 60, want: strings.Repeat("a", 60)},
		{name: "long text cut", text: strings.Repeat("x", 100), limit: 60, want: strings.Repeat("x", 60) + "..."},
		{name: "multibyte counted as characters", text: strings.Repeat("ç", 61), limit: 60, want: strings.Repeat("ç", 60) + "..."},
		{name: "non-positive limit", text: "abc", limit: 0, want: "abc"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Truncate(tc.text, tc.limit))
		})
	}
}

func TestEnvironmentLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "DEV", EnvironmentLabel("Development"))
	require.Equal(t, "DEV", EnvironmentLabel(""))
	require.Equal(t, "STG", EnvironmentLabel("Staging"))
	require.Equal(t, "PRD", EnvironmentLabel("production"))
	require.Equal(t, "QA", EnvironmentLabel("qa"))
	require.Equal(t, "danger", EnvironmentTone("Production"))
	require.Equal(t, "warning", EnvironmentTone("stg"))
	require.Equal(t, "success", EnvironmentTone("Development"))
}

func TestTextComponentEscapes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, TextComponent(`<b>"Shampoo" & co</b>`).Render(context.Background(), &buf))
	require.Equal(t, "&lt;b&gt;&#34;Shampoo&#34; &amp; co&lt;/b&gt;", buf.String())
}

func TestComponentBuilder(t *testing.T) {
	t.Parallel()

	c := Component(func(ctx context.Context, b *Builder) error {
		b.Raw("<a")
		b.URLAttr("href", "javascript:alert(1)")
		b.Attr("title", `"quoted"`)
		b.Raw(">")
		b.Text("<tag>")
		if err := b.Component(ctx, TextComponent("!")); err != nil {
			return err
		}
		b.Raw("</a>")
		return nil
	})

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	out := buf.String()
	require.NotContains(t, out, "javascript:")
	require.Contains(t, out, `title="&#34;quoted&#34;"`)
	require.Contains(t, out, "&lt;tag&gt;!</a>")
}

func TestComponentBuilderWritesNothingOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := Component(func(ctx context.Context, b *Builder) error {
		b.Raw("<div>partial")
		return boom
	})

	var buf bytes.Buffer
	err := c.Render(context.Background(), &buf)
	require.ErrorIs(t, err, boom)
	require.Zero(t, buf.Len())

	var _ templ.Component = c
}

func TestNavigationHelpers(t *testing.T) {
	t.Parallel()

	var ctx context.Context
	handler := middleware.RequestInfoMiddleware("/admin/", "")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/catalog/new/", nil))
	require.NotNil(t, ctx)

	require.Equal(t, "/admin", AdminURL(ctx, ""))
	require.Equal(t, "/admin/catalog", AdminURL(ctx, "catalog"))
	require.True(t, IsCurrent(ctx, "/admin/catalog/new"))
	require.True(t, IsCurrent(ctx, "/admin/catalog/new?notice=created"))
	require.False(t, IsCurrent(ctx, "/admin/catalog"))

	root := context.Background()
	require.Equal(t, "/catalog", AdminURL(root, "/catalog"))
	require.False(t, IsCurrent(root, ""))
}
