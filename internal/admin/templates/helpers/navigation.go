package helpers

import (
	"context"
	"path"
	"strings"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
)

// AdminURL joins route onto the admin base path of the current request.
func AdminURL(ctx context.Context, route string) string {
	base := middleware.BasePathFromContext(ctx)
	route = strings.TrimSpace(route)
	if route == "" || route == "/" {
		return base
	}
	return path.Join(base, route)
}

// IsCurrent reports whether href is the page being rendered. Query strings are ignored.
func IsCurrent(ctx context.Context, href string) bool {
	if idx := strings.IndexAny(href, "?#"); idx >= 0 {
		href = href[:idx]
	}
	if strings.TrimSpace(href) == "" {
		return false
	}
	return path.Clean("/"+href) == middleware.RequestPathFromContext(ctx)
}
