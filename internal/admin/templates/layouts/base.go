// Package layouts provides the page shell shared by every full-page response.
package layouts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/partials"
	"finitefield.org/catalog-admin/public"
)

// HTMXScriptURL is the pinned htmx build loaded by every page.
const HTMXScriptURL = "https://unpkg.com/htmx.org@1.9.12"

// Page describes a full HTML document.
type Page struct {
	Title   string
	Toast   *partials.Toast
	Content templ.Component
	// Modal is rendered already open inside the modal root, for deep links.
	Modal templ.Component
}

// Base renders the document shell: assets, topbar, content, and the shared modal and toast roots.
// The CSRF token issued for the request is sent on every htmx request through hx-headers.
func Base(page Page) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		title := page.Title
		if title == "" {
			title = "Catálogo"
		}
		token := middleware.CSRFTokenFromContext(ctx)
		headers, err := json.Marshal(map[string]string{middleware.DefaultCSRFHeaderName: token})
		if err != nil {
			return fmt.Errorf("layouts: encode hx-headers: %w", err)
		}

		b.Raw(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`)
		b.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.Raw(`<title>`)
		b.Text(title + " · Admin")
		b.Raw(`</title>`)
		b.Raw(`<meta name="csrf-token"`)
		b.Attr("content", token)
		b.Raw(`>`)
		b.Raw(`<link rel="stylesheet"`)
		b.URLAttr("href", public.Stylesheet)
		b.Raw(`>`)
		b.Raw(`<script defer`)
		b.URLAttr("src", HTMXScriptURL)
		b.Raw(`></script>`)
		b.Raw(`<script defer`)
		b.URLAttr("src", public.Script)
		b.Raw(`></script>`)
		b.Raw(`</head>`)

		b.Raw(`<body`)
		b.Attr("hx-headers", string(headers))
		if page.Toast != nil && page.Toast.Message != "" {
			toast, err := json.Marshal(page.Toast)
			if err != nil {
				return fmt.Errorf("layouts: encode toast: %w", err)
			}
			b.Attr("data-initial-toast", string(toast))
		}
		b.Raw(`>`)

		if err := b.Component(ctx, partials.Topbar()); err != nil {
			return err
		}
		b.Raw(`<main class="page">`)
		if err := b.Component(ctx, page.Content); err != nil {
			return err
		}
		b.Raw(`</main>`)
		if page.Modal != nil {
			b.Raw(`<div id="modal-root" class="modal-backdrop" aria-hidden="false" data-modal-root data-open>`)
			if err := b.Component(ctx, page.Modal); err != nil {
				return err
			}
			b.Raw(`</div>`)
		} else {
			b.Raw(`<div id="modal-root" class="modal-backdrop" aria-hidden="true" data-modal-root></div>`)
		}
		b.Raw(`<div id="toast-root" class="toast-stack" role="status" aria-live="polite"></div>`)
		b.Raw(`</body></html>`)
		return nil
	})
}
