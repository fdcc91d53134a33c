package partials

import (
	"context"

	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

type navLink struct {
	label string
	route string
}

var navLinks = []navLink{
	{label: "Produtos", route: "/catalog"},
	{label: "Cadastrar produto", route: "/catalog/new"},
}

// Topbar renders the brand, primary navigation and the environment badge.
func Topbar() templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		b.Raw(`<header class="topbar" data-topbar>`)
		b.Raw(`<a class="topbar-brand"`)
		b.URLAttr("href", helpers.AdminURL(ctx, "/catalog"))
		b.Raw(`>Catálogo</a>`)

		b.Raw(`<nav class="topbar-nav" aria-label="Principal">`)
		for _, link := range navLinks {
			href := helpers.AdminURL(ctx, link.route)
			b.Raw(`<a`)
			b.URLAttr("href", href)
			if helpers.IsCurrent(ctx, href) {
				b.Attr("class", "topbar-link is-active")
				b.Attr("aria-current", "page")
			} else {
				b.Attr("class", "topbar-link")
			}
			b.Raw(`>`)
			b.Text(link.label)
			b.Raw(`</a>`)
		}
		b.Raw(`</nav>`)

		env := middleware.EnvironmentFromContext(ctx)
		b.Raw(`<span data-environment-badge`)
		b.Attr("class", helpers.BadgeClass(helpers.EnvironmentTone(env)))
		b.Attr("title", env)
		b.Raw(`><span aria-hidden="true">`)
		b.Text(helpers.EnvironmentLabel(env))
		b.Raw(`</span><span class="sr-only">Ambiente: `)
		b.Text(env)
		b.Raw(`</span></span>`)
		b.Raw(`</header>`)
		return nil
	})
}
