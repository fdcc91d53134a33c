package catalog

import (
	"context"

	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/layouts"
	"finitefield.org/catalog-admin/internal/admin/templates/partials"
)

const (
	listID      = "catalog-list"
	modalTarget = "#modal-root"
)

// Index renders the full catalog page.
func Index(data PageData) templ.Component {
	page := layouts.Page{
		Title:   "Produtos",
		Toast:   data.Toast,
		Content: indexContent(data),
	}
	if data.Detail != nil {
		page.Modal = DetailModal(*data.Detail)
	}
	return layouts.Base(page)
}

func indexContent(data PageData) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		b.Raw(`<section class="catalog" data-catalog>`)
		b.Raw(`<div class="catalog-header"><h1>Produtos</h1>`)
		b.Raw(`<a class="btn btn-primary"`)
		b.URLAttr("href", data.Paths.New)
		b.Raw(`>Cadastrar produto</a></div>`)
		if err := b.Component(ctx, List(data.List)); err != nil {
			return err
		}
		b.Raw(`</section>`)
		return nil
	})
}

// NewPage renders the create form as a full page.
func NewPage(form FormData, toast *partials.Toast) templ.Component {
	return layouts.Base(layouts.Page{
		Title:   "Cadastrar produto",
		Toast:   toast,
		Content: CreateForm(form),
	})
}

// List renders the product grid. It reloads itself on the catalog:reload event.
func List(data ListData) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		b.Raw(`<div`)
		b.Attr("id", listID)
		b.Attr("class", "catalog-list")
		b.Attr("hx-get", data.ListURL)
		b.Attr("hx-trigger", "catalog:reload from:body")
		b.Attr("hx-swap", "outerHTML")
		b.Raw(`>`)

		switch {
		case data.Error != "":
			listState(b, "error", data.Error, data.ListURL)
		case data.Empty():
			listState(b, "empty", MessageEmpty, data.ListURL)
		default:
			b.Raw(`<div class="catalog-grid">`)
			for _, card := range data.Cards {
				if err := b.Component(ctx, Card(card)); err != nil {
					return err
				}
			}
			b.Raw(`</div>`)
		}

		b.Raw(`</div>`)
		return nil
	})
}

func listState(b *helpers.Builder, state, message, retryURL string) {
	b.Raw(`<div class="catalog-state"`)
	b.Attr("data-state", state)
	b.Raw(`><p>`)
	b.Text(message)
	b.Raw(`</p><button type="button" class="btn" data-retry`)
	b.Attr("hx-get", retryURL)
	b.Attr("hx-target", "#"+listID)
	b.Attr("hx-swap", "outerHTML")
	b.Raw(`>`)
	b.Text(MessageRetry)
	b.Raw(`</button></div>`)
}

// Card renders a single product summary with actions keyed by product id.
func Card(card CardData) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		b.Raw(`<article class="product-card"`)
		b.Attr("data-product-id", card.ID)
		b.Raw(`>`)
		productImage(b, card.ImageURL, card.FallbackImage, card.Name)
		b.Raw(`<div class="product-card-body"><h3 class="product-name">`)
		b.Text(card.Name)
		b.Raw(`</h3><p class="product-description">`)
		b.Text(card.Description)
		b.Raw(`</p><p class="product-price">`)
		b.Text(card.Price)
		b.Raw(`</p></div>`)

		b.Raw(`<div class="product-card-actions">`)
		modalButton(b, "btn", "view", "Ver detalhes", card.DetailURL)
		modalButton(b, "btn", "edit", "Editar", card.EditURL)
		modalButton(b, "btn btn-danger", "delete", "Excluir", card.DeleteURL)
		b.Raw(`</div></article>`)
		return nil
	})
}

func productImage(b *helpers.Builder, src, fallback, alt string) {
	b.Raw(`<img class="product-image" loading="lazy"`)
	b.URLAttr("src", src)
	b.URLAttr("data-fallback-src", fallback)
	b.Attr("alt", alt)
	b.Raw(`>`)
}

func modalButton(b *helpers.Builder, class, action, label, href string) {
	b.Raw(`<button type="button"`)
	b.Attr("class", class)
	b.Attr("data-action", action)
	b.Attr("hx-get", href)
	b.Attr("hx-target", modalTarget)
	b.Attr("hx-swap", "innerHTML")
	b.Raw(`>`)
	b.Text(label)
	b.Raw(`</button>`)
}

func modalOpen(b *helpers.Builder, kind, title string) {
	b.Raw(`<div class="modal" role="dialog" aria-modal="true" aria-labelledby="modal-title"`)
	b.Attr("data-modal", kind)
	b.Raw(`><button type="button" class="modal-close" data-modal-close aria-label="Fechar">&times;</button>`)
	b.Raw(`<h2 id="modal-title">`)
	b.Text(title)
	b.Raw(`</h2>`)
}

func errorMessage(b *helpers.Builder, message string) {
	if message == "" {
		return
	}
	b.Raw(`<p class="form-error" role="alert" data-form-error>`)
	b.Text(message)
	b.Raw(`</p>`)
}

// DetailModal renders the read-only product view.
func DetailModal(d DetailData) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		modalOpen(b, "detail", d.Name)
		b.Raw(`<div class="modal-body" data-product-id="`)
		b.Text(d.ID)
		b.Raw(`">`)
		productImage(b, d.ImageURL, d.FallbackImage, d.Name)
		b.Raw(`<div class="product-description markdown">`)
		b.Raw(d.DescriptionHTML)
		b.Raw(`</div><p class="product-price">`)
		b.Text(d.Price)
		b.Raw(`</p></div>`)

		b.Raw(`<div class="modal-actions">`)
		modalButton(b, "btn", "edit", "Editar", d.EditURL)
		modalButton(b, "btn btn-danger", "delete", "Excluir", d.DeleteURL)
		b.Raw(`<button type="button" class="btn" data-modal-close>Fechar</button>`)
		b.Raw(`</div></div>`)
		return nil
	})
}

// EditModal renders the edit form inside the modal. Submitting swaps the modal content,
// so a failed update re-renders the form with the typed values.
func EditModal(form FormData) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		modalOpen(b, "edit", "Editar Produto")
		b.Raw(`<form class="product-form" data-product-form="edit"`)
		b.Attr("hx-patch", form.Action)
		b.Attr("hx-target", modalTarget)
		b.Attr("hx-swap", "innerHTML")
		b.Attr("hx-disabled-elt", "find button[type='submit']")
		b.Raw(`>`)
		csrfField(ctx, b, form)
		errorMessage(b, form.Error)
		formFields(b, form, "edit")
		b.Raw(`<div class="modal-actions">`)
		b.Raw(`<button type="submit" class="btn btn-primary">Salvar Alterações</button>`)
		b.Raw(`<button type="button" class="btn" data-modal-close>Cancelar</button>`)
		b.Raw(`</div></form></div>`)
		return nil
	})
}

// CreateForm renders the cadastro form. It posts through htmx and also works as a plain form.
func CreateForm(form FormData) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		b.Raw(`<section class="panel"><h1>Cadastrar produto</h1>`)
		b.Raw(`<form id="product-create-form" class="product-form" data-product-form="create" method="post"`)
		b.URLAttr("action", form.Action)
		b.Attr("hx-post", form.Action)
		b.Attr("hx-target", "this")
		b.Attr("hx-swap", "outerHTML")
		b.Attr("hx-disabled-elt", "find button[type='submit']")
		b.Raw(`>`)
		csrfField(ctx, b, form)
		errorMessage(b, form.Error)
		formFields(b, form, "create")
		b.Raw(`<div class="form-actions">`)
		b.Raw(`<button type="submit" class="btn btn-primary">Cadastrar</button>`)
		if form.CancelURL != "" {
			b.Raw(`<a class="btn"`)
			b.URLAttr("href", form.CancelURL)
			b.Raw(`>Cancelar</a>`)
		}
		b.Raw(`</div></form></section>`)
		return nil
	})
}

func csrfField(ctx context.Context, b *helpers.Builder, form FormData) {
	token := form.CSRFToken
	if token == "" {
		token = middleware.CSRFTokenFromContext(ctx)
	}
	b.Raw(`<input type="hidden"`)
	b.Attr("name", middleware.CSRFFormField)
	b.Attr("value", token)
	b.Raw(`>`)
}

type formField struct {
	name      string
	label     string
	value     string
	inputType string
	required  bool
	multiline bool
	extra     [][2]string
}

func formFields(b *helpers.Builder, form FormData, prefix string) {
	fields := []formField{
		{name: "name", label: "Nome", value: form.Values.Name, inputType: "text", required: true, extra: [][2]string{{"maxlength", "200"}}},
		{name: "description", label: "Descrição", value: form.Values.Description, required: true, multiline: true},
		{name: "image", label: "URL da imagem", value: form.Values.ImageURL, inputType: "url", extra: [][2]string{{"placeholder", "https://"}}},
		{name: "price", label: "Preço", value: form.Values.Price, inputType: "text", required: true, extra: [][2]string{{"inputmode", "decimal"}, {"placeholder", "0.00"}}},
	}

	for _, f := range fields {
		id := prefix + "-" + f.name
		message := form.FieldError(errorKey(f.name))

		b.Raw(`<div class="form-field"`)
		if message != "" {
			b.Attr("data-invalid", "true")
		}
		b.Raw(`><label`)
		b.Attr("for", id)
		b.Raw(`>`)
		b.Text(f.label)
		b.Raw(`</label>`)

		if f.multiline {
			b.Raw(`<textarea rows="4"`)
		} else {
			b.Raw(`<input`)
			b.Attr("type", f.inputType)
			b.Attr("value", f.value)
		}
		b.Attr("id", id)
		b.Attr("name", f.name)
		if f.required {
			b.Raw(` required`)
		}
		for _, attr := range f.extra {
			b.Attr(attr[0], attr[1])
		}
		if message != "" {
			b.Attr("aria-invalid", "true")
			b.Attr("aria-describedby", id+"-error")
		}
		b.Raw(`>`)
		if f.multiline {
			b.Text(f.value)
			b.Raw(`</textarea>`)
		}

		if message != "" {
			b.Raw(`<p class="field-error"`)
			b.Attr("id", id+"-error")
			b.Raw(`>`)
			b.Text(message)
			b.Raw(`</p>`)
		}
		b.Raw(`</div>`)
	}
}

// errorKey maps form inputs to the field names reported by validation.
func errorKey(name string) string {
	if name == "image" {
		return "images"
	}
	return name
}

// ConfirmDeleteModal asks for explicit confirmation before a product is deleted.
func ConfirmDeleteModal(d ConfirmDeleteData) templ.Component {
	return helpers.Component(func(ctx context.Context, b *helpers.Builder) error {
		modalOpen(b, "confirm-delete", "Excluir produto")
		b.Raw(`<div class="modal-body"><p>Tem certeza que deseja excluir `)
		if d.Name != "" {
			b.Raw(`<strong>`)
			b.Text(d.Name)
			b.Raw(`</strong>`)
		} else {
			b.Raw(`este produto`)
		}
		b.Raw(`? Esta ação não pode ser desfeita.</p>`)
		errorMessage(b, d.Error)
		b.Raw(`</div><div class="modal-actions">`)
		b.Raw(`<button type="button" class="btn btn-danger" data-confirm-delete`)
		b.Attr("hx-delete", d.Action)
		b.Attr("hx-swap", "none")
		b.Attr("hx-disabled-elt", "this")
		b.Raw(`>Excluir</button>`)
		b.Raw(`<button type="button" class="btn" data-modal-close>Cancelar</button>`)
		b.Raw(`</div></div>`)
		return nil
	})
}
