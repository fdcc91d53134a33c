package middleware

import (
	"context"
	"net/http"
	"path"
	"strings"
)

// DefaultEnvironment labels requests served without an explicit environment.
const DefaultEnvironment = "Development"

type requestInfoKey struct{}

// RequestInfo is the per-request metadata the page chrome renders from.
type RequestInfo struct {
	// Path is the cleaned request path.
	Path string
	// BasePath is where the admin routes are mounted, "/" when at the root.
	BasePath string
	// Environment is the deployment label shown in the topbar badge.
	Environment string
}

// RequestInfoMiddleware records the request path, the admin base path and the environment label.
func RequestInfoMiddleware(basePath, environment string) func(http.Handler) http.Handler {
	base := cleanPath(basePath)
	env := strings.TrimSpace(environment)
	if env == "" {
		env = DefaultEnvironment
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := RequestInfo{
				Path:        cleanPath(r.URL.Path),
				BasePath:    base,
				Environment: env,
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))
		})
	}
}

// RequestInfoFromContext returns the stored metadata. Without the middleware it describes a
// root-mounted development request.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	if ctx != nil {
		if info, ok := ctx.Value(requestInfoKey{}).(RequestInfo); ok {
			return info
		}
	}
	return RequestInfo{Path: "/", BasePath: "/", Environment: DefaultEnvironment}
}

// RequestPathFromContext returns the cleaned request path.
func RequestPathFromContext(ctx context.Context) string {
	return RequestInfoFromContext(ctx).Path
}

// BasePathFromContext returns the admin base path.
func BasePathFromContext(ctx context.Context) string {
	return RequestInfoFromContext(ctx).BasePath
}

// EnvironmentFromContext returns the environment label.
func EnvironmentFromContext(ctx context.Context) string {
	return RequestInfoFromContext(ctx).Environment
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
