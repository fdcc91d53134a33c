package middleware

import (
	"context"
	"net/http"
	"strings"
)

type htmxKey struct{}

// HTMXInfo is what the HX-* request headers say about the caller.
type HTMXInfo struct {
	// Request is set for every request issued by htmx.
	Request bool
	// HistoryRestore marks a cache-miss history restore, which needs a full page.
	HistoryRestore bool
	// Target is the id of the element the response will be swapped into.
	Target     string
	CurrentURL string
}

// Fragment reports whether the response may be a partial instead of a full page.
func (i HTMXInfo) Fragment() bool {
	return i.Request && !i.HistoryRestore
}

// HTMX parses HX-* headers into the context. Responses vary on HX-Request because the same URL
// can answer with a page or a fragment.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := HTMXInfo{
				Request:        headerTrue(r, "HX-Request"),
				HistoryRestore: headerTrue(r, "HX-History-Restore-Request"),
				Target:         strings.TrimPrefix(r.Header.Get("HX-Target"), "#"),
				CurrentURL:     r.Header.Get("HX-Current-URL"),
			}
			w.Header().Add("Vary", "HX-Request")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), htmxKey{}, info)))
		})
	}
}

// HTMXInfoFromContext returns the parsed headers, or the zero value outside the middleware.
func HTMXInfoFromContext(ctx context.Context) HTMXInfo {
	info, _ := ctx.Value(htmxKey{}).(HTMXInfo)
	return info
}

// IsHTMXRequest reports whether the caller accepts a fragment response.
func IsHTMXRequest(ctx context.Context) bool {
	return HTMXInfoFromContext(ctx).Fragment()
}

// RequireHTMX answers 404 to direct navigation of fragment-only routes.
func RequireHTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsHTMXRequest(r.Context()) {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func headerTrue(r *http.Request, name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(name)), "true")
}
