package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

// CSRF defaults.
const (
	CSRFFormField         = "_csrf"
	DefaultCSRFCookieName = "catalog_csrf"
	DefaultCSRFHeaderName = "X-CSRF-Token"

	csrfTokenBytes = 32
	csrfRejectedHX = `{"toast":{"message":"Sessão expirada. Recarregue a página e tente novamente.","tone":"error"}}`
)

type csrfTokenKey struct{}

// CSRFConfig controls the double-submit cookie.
type CSRFConfig struct {
	CookieName string
	CookiePath string
	HeaderName string
	// FormField is read when the header is absent, so plain form posts still pass.
	FormField string
	MaxAge    time.Duration
	Secure    bool
}

func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.CookiePath == "" {
		c.CookiePath = "/"
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FormField == "" {
		c.FormField = CSRFFormField
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 12 * time.Hour
	}
	return c
}

type csrfGuard struct {
	cfg CSRFConfig
}

// CSRF issues a token cookie on first contact and requires every mutating request to echo it
// back through the header or the form field. Rejections from htmx carry an error toast.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	g := csrfGuard{cfg: cfg.withDefaults()}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := g.token(w, r)
			if err != nil {
				http.Error(w, "csrf token error", http.StatusInternalServerError)
				return
			}
			if mutating(r.Method) && !g.verify(r, token) {
				if headerTrue(r, "HX-Request") {
					w.Header().Set("HX-Trigger", csrfRejectedHX)
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token)))
		})
	}
}

// CSRFTokenFromContext returns the token for the current request, for hidden fields and hx-headers.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey{}).(string)
	return token
}

// token returns the cookie value, minting and setting a fresh one when absent.
func (g csrfGuard) token(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(g.cfg.CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	raw := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("csrf: generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		Path:     g.cfg.CookiePath,
		MaxAge:   int(g.cfg.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   g.cfg.Secure || r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

func (g csrfGuard) verify(r *http.Request, token string) bool {
	submitted := r.Header.Get(g.cfg.HeaderName)
	if submitted == "" {
		submitted = r.PostFormValue(g.cfg.FormField)
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) == 1
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}
	return true
}
