package catalog

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/partials"
)

// Messages shown by the catalog screens.
const (
	MessageLoadFailed   = "Erro ao carregar produtos!"
	MessageEmpty        = "Nenhum produto cadastrado ainda."
	MessageRetry        = "Tentar novamente"
	MessageCreated      = "Produto cadastrado com sucesso!"
	MessageUpdated      = "Produto atualizado com sucesso!"
	MessageDeleted      = "Produto excluído com sucesso!"
	MessageCreateFailed = "Erro ao cadastrar produto. Tente novamente."
	MessageUpdateFailed = "Erro ao atualizar produto. Tente novamente."
	MessageDeleteFailed = "Erro ao excluir produto."
	MessageLoadOne      = "Erro ao carregar o produto."
	MessageNotFound     = "Produto não encontrado."
	MessageInvalidForm  = "Verifique os campos destacados."
)

// Default display settings.
const (
	DefaultPlaceholderImage = "https://via.placeholder.com/200x150?text=Sem+Imagem"
	DefaultDescriptionLimit = 60
	DefaultCurrencySymbol   = "R$"
)

// DisplayOptions tune how products are presented.
type DisplayOptions struct {
	PlaceholderImage string
	DescriptionLimit int
	CurrencySymbol   string
}

// Normalize fills unset options with defaults.
func (o DisplayOptions) Normalize() DisplayOptions {
	if strings.TrimSpace(o.PlaceholderImage) == "" {
		o.PlaceholderImage = DefaultPlaceholderImage
	}
	if o.DescriptionLimit <= 0 {
		o.DescriptionLimit = DefaultDescriptionLimit
	}
	if strings.TrimSpace(o.CurrencySymbol) == "" {
		o.CurrencySymbol = DefaultCurrencySymbol
	}
	return o
}

// Paths builds catalog URLs below the admin base path.
type Paths struct {
	base string
}

// NewPaths returns Paths rooted at the given base path ("/" or "/admin" style).
func NewPaths(base string) Paths {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return Paths{base: base}
}

// Index is the full catalog page.
func (p Paths) Index() string { return p.base + "/catalog" }

// List is the list fragment.
func (p Paths) List() string { return p.base + "/catalog/list" }

// New is the create form page.
func (p Paths) New() string { return p.base + "/catalog/new" }

// Create is the create form target.
func (p Paths) Create() string { return p.base + "/catalog" }

// Product is the update/delete target for a record.
func (p Paths) Product(id catalog.ID) string {
	return p.base + "/catalog/" + url.PathEscape(id.String())
}

// Detail is the detail modal fragment.
func (p Paths) Detail(id catalog.ID) string { return p.Product(id) + "/detail" }

// Edit is the edit modal fragment.
func (p Paths) Edit(id catalog.ID) string { return p.Product(id) + "/edit" }

// ConfirmDelete is the delete confirmation fragment; name is carried so the modal needs no fetch.
func (p Paths) ConfirmDelete(id catalog.ID, name string) string {
	target := p.Product(id) + "/delete"
	if strings.TrimSpace(name) == "" {
		return target
	}
	return helpers.BuildURL(target, helpers.SetRawQuery("", "name", name))
}

// View is the catalog page with the detail modal open.
func (p Paths) View(id catalog.ID) string {
	return helpers.BuildURL(p.Index(), helpers.SetRawQuery("", "view", id.String()))
}

// PageData drives the catalog index page.
type PageData struct {
	Paths PathsData
	List  ListData
	// Detail is set when the page is opened through a ?view= deep link.
	Detail *DetailData
	Toast  *partials.Toast
}

// PathsData exposes the URLs the page chrome links to.
type PathsData struct {
	New  string
	List string
}

// ListData renders the product list, or its empty or failure state.
type ListData struct {
	Cards     []CardData
	Error     string
	ListURL   string
	FetchedAt time.Time
}

// Empty reports whether the list loaded successfully but had no products.
func (d ListData) Empty() bool {
	return d.Error == "" && len(d.Cards) == 0
}

// CardData is one product card.
type CardData struct {
	ID            string
	Name          string
	Description   string
	Price         string
	ImageURL      string
	FallbackImage string
	DetailURL     string
	EditURL       string
	DeleteURL     string
}

// DetailData renders the read-only product modal.
type DetailData struct {
	ID              string
	Name            string
	DescriptionHTML string
	Price           string
	ImageURL        string
	FallbackImage   string
	EditURL         string
	DeleteURL       string
}

// FormMode distinguishes the create page from the edit modal.
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// FormValues holds the raw text typed into the product form.
type FormValues struct {
	Name        string
	Description string
	ImageURL    string
	Price       string
}

// FormData renders the create form or the edit modal.
type FormData struct {
	Mode        FormMode
	Action      string
	CancelURL   string
	CSRFToken   string
	Values      FormValues
	FieldErrors map[string]string
	Error       string
}

// FieldError returns the message for a form field, if any.
func (f FormData) FieldError(field string) string {
	if f.FieldErrors == nil {
		return ""
	}
	return f.FieldErrors[field]
}

// ConfirmDeleteData renders the delete confirmation modal.
type ConfirmDeleteData struct {
	ID     string
	Name   string
	Action string
	Error  string
}

// BuildListData converts a snapshot into cards in backend order.
func BuildListData(snapshot catalog.Snapshot, paths Paths, opts DisplayOptions) ListData {
	opts = opts.Normalize()
	products := snapshot.Products()
	cards := make([]CardData, 0, len(products))
	for _, p := range products {
		cards = append(cards, buildCard(p, paths, opts))
	}
	return ListData{
		Cards:     cards,
		ListURL:   paths.List(),
		FetchedAt: snapshot.FetchedAt(),
	}
}

// ListFailure renders the fetch-failure state.
func ListFailure(paths Paths) ListData {
	return ListData{
		Error:   MessageLoadFailed,
		ListURL: paths.List(),
	}
}

func buildCard(p catalog.Product, paths Paths, opts DisplayOptions) CardData {
	return CardData{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   helpers.Truncate(PlainText(p.Description), opts.DescriptionLimit),
		Price:         helpers.Price(p.Price, opts.CurrencySymbol),
		ImageURL:      imageOrPlaceholder(p, opts),
		FallbackImage: opts.PlaceholderImage,
		DetailURL:     paths.Detail(p.ID),
		EditURL:       paths.Edit(p.ID),
		DeleteURL:     paths.ConfirmDelete(p.ID, p.Name),
	}
}

// BuildDetailData prepares the detail modal for a product.
func BuildDetailData(p catalog.Product, paths Paths, opts DisplayOptions) DetailData {
	opts = opts.Normalize()
	return DetailData{
		ID:              p.ID.String(),
		Name:            p.Name,
		DescriptionHTML: DescriptionHTML(p.Description),
		Price:           helpers.Price(p.Price, opts.CurrencySymbol),
		ImageURL:        imageOrPlaceholder(p, opts),
		FallbackImage:   opts.PlaceholderImage,
		EditURL:         paths.Edit(p.ID),
		DeleteURL:       paths.ConfirmDelete(p.ID, p.Name),
	}
}

// FormValuesFromProduct pre-fills the edit form.
func FormValuesFromProduct(p catalog.Product) FormValues {
	return FormValues{
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.PrimaryImage(),
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
	}
}

func imageOrPlaceholder(p catalog.Product, opts DisplayOptions) string {
	if img := p.PrimaryImage(); img != "" {
		return img
	}
	return opts.PlaceholderImage
}
