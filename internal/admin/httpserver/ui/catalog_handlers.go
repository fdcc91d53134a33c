package ui

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	catalogtpl "finitefield.org/catalog-admin/internal/admin/templates/catalog"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/partials"
)

// notices shown after a redirect back to the catalog page.
var notices = map[string]partials.Toast{
	"created": {Message: catalogtpl.MessageCreated, Tone: partials.ToneSuccess},
	"updated": {Message: catalogtpl.MessageUpdated, Tone: partials.ToneSuccess},
	"deleted": {Message: catalogtpl.MessageDeleted, Tone: partials.ToneSuccess},
}

// CatalogPage renders the full catalog page. A ?view={id} query opens the detail modal using
// the snapshot fetched for this request.
func (h *Handlers) CatalogPage(w http.ResponseWriter, r *http.Request) {
	list, snapshot, ok := h.loadList(r)

	data := catalogtpl.PageData{
		Paths: catalogtpl.PathsData{New: h.paths.New(), List: h.paths.List()},
		List:  list,
	}
	if toast, found := notices[r.URL.Query().Get("notice")]; found {
		data.Toast = &toast
	}

	if view := strings.TrimSpace(r.URL.Query().Get("view")); view != "" && ok {
		if product, found := snapshot.Find(catalog.ID(view)); found {
			detail := catalogtpl.BuildDetailData(product, h.paths, h.display)
			data.Detail = &detail
		} else {
			data.Toast = &partials.Toast{Message: catalogtpl.MessageNotFound, Tone: partials.ToneError}
		}
	}

	render(w, r, http.StatusOK, catalogtpl.Index(data))
}

// CatalogList renders the list fragment used for reloads and retries.
func (h *Handlers) CatalogList(w http.ResponseWriter, r *http.Request) {
	list, _, _ := h.loadList(r)
	render(w, r, http.StatusOK, catalogtpl.List(list))
}

func (h *Handlers) loadList(r *http.Request) (catalogtpl.ListData, catalog.Snapshot, bool) {
	snapshot, err := h.products.List(r.Context())
	if err != nil {
		h.log(r).Error("catalog: list products failed", zap.Error(err))
		return catalogtpl.ListFailure(h.paths), catalog.Snapshot{}, false
	}
	return catalogtpl.BuildListData(snapshot, h.paths, h.display), snapshot, true
}

// CatalogNew renders the create form page.
func (h *Handlers) CatalogNew(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, catalogtpl.NewPage(h.createForm(r, catalogtpl.FormValues{}), nil))
}

// CatalogCreate registers a product from the create form.
func (h *Handlers) CatalogCreate(w http.ResponseWriter, r *http.Request) {
	values, err := readProductForm(r)
	if err != nil {
		http.Error(w, "Não foi possível ler o formulário.", http.StatusBadRequest)
		return
	}

	input, fieldErrors := productInput(values, "")
	if fieldErrors != nil {
		form := h.createForm(r, values)
		form.FieldErrors = fieldErrors
		form.Error = catalogtpl.MessageInvalidForm
		h.renderCreateForm(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	product, err := h.products.Create(r.Context(), input)
	if err != nil {
		h.log(r).Error("catalog: create product failed", zap.Error(err))
		form := h.createForm(r, values)
		form.Error = catalogtpl.MessageCreateFailed
		h.renderCreateForm(w, r, http.StatusBadGateway, form)
		return
	}
	h.log(r).Info("catalog: product created", zap.String("product_id", product.ID.String()))

	target := helpers.BuildURL(h.paths.Index(), helpers.SetRawQuery("", "notice", "created"))
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) createForm(r *http.Request, values catalogtpl.FormValues) catalogtpl.FormData {
	return catalogtpl.FormData{
		Mode:      catalogtpl.FormCreate,
		Action:    h.paths.Create(),
		CancelURL: h.paths.Index(),
		CSRFToken: custommw.CSRFTokenFromContext(r.Context()),
		Values:    values,
	}
}

func (h *Handlers) renderCreateForm(w http.ResponseWriter, r *http.Request, status int, form catalogtpl.FormData) {
	if custommw.IsHTMXRequest(r.Context()) {
		render(w, r, status, catalogtpl.CreateForm(form))
		return
	}
	render(w, r, status, catalogtpl.NewPage(form, nil))
}

// CatalogDetail renders the read-only modal for a product, fetched by id.
func (h *Handlers) CatalogDetail(w http.ResponseWriter, r *http.Request) {
	product, ok := h.fetchProduct(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, catalogtpl.DetailModal(catalogtpl.BuildDetailData(*product, h.paths, h.display)))
}

// CatalogEdit renders the edit modal. The record is always re-fetched.
func (h *Handlers) CatalogEdit(w http.ResponseWriter, r *http.Request) {
	product, ok := h.fetchProduct(w, r)
	if !ok {
		return
	}
	form := h.editForm(product.ID, catalogtpl.FormValuesFromProduct(*product))
	render(w, r, http.StatusOK, catalogtpl.EditModal(form))
}

// CatalogUpdate replaces a product with the values typed into the edit modal.
func (h *Handlers) CatalogUpdate(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	values, err := readProductForm(r)
	if err != nil {
		http.Error(w, "Não foi possível ler o formulário.", http.StatusBadRequest)
		return
	}

	input, fieldErrors := productInput(values, h.editDefaultImage)
	if fieldErrors != nil {
		form := h.editForm(id, values)
		form.FieldErrors = fieldErrors
		form.Error = catalogtpl.MessageInvalidForm
		render(w, r, http.StatusUnprocessableEntity, catalogtpl.EditModal(form))
		return
	}

	if _, err := h.products.Update(r.Context(), id, input); err != nil {
		h.log(r).Error("catalog: update product failed", zap.String("product_id", id.String()), zap.Error(err))
		form := h.editForm(id, values)
		status := http.StatusBadGateway
		form.Error = catalogtpl.MessageUpdateFailed
		if catalog.IsNotFound(err) {
			status = http.StatusNotFound
			form.Error = catalogtpl.MessageNotFound
		}
		render(w, r, status, catalogtpl.EditModal(form))
		return
	}
	h.log(r).Info("catalog: product updated", zap.String("product_id", id.String()))

	setTriggers(w, toastTrigger(catalogtpl.MessageUpdated, partials.ToneSuccess).
		with(eventCatalogReload).
		with(eventModalClose))
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) editForm(id catalog.ID, values catalogtpl.FormValues) catalogtpl.FormData {
	return catalogtpl.FormData{
		Mode:   catalogtpl.FormEdit,
		Action: h.paths.Product(id),
		Values: values,
	}
}

// CatalogConfirmDelete renders the delete confirmation modal. The card passes the product
// name so the common path needs no backend call.
func (h *Handlers) CatalogConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		product, ok := h.fetchProduct(w, r)
		if !ok {
			return
		}
		name = product.Name
	}
	render(w, r, http.StatusOK, catalogtpl.ConfirmDeleteModal(catalogtpl.ConfirmDeleteData{
		ID:     id.String(),
		Name:   name,
		Action: h.paths.Product(id),
	}))
}

// CatalogDelete removes a product after confirmation.
func (h *Handlers) CatalogDelete(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if err := h.products.Delete(r.Context(), id); err != nil {
		h.log(r).Error("catalog: delete product failed", zap.String("product_id", id.String()), zap.Error(err))
		status := http.StatusBadGateway
		message := catalogtpl.MessageDeleteFailed
		if catalog.IsNotFound(err) {
			status = http.StatusNotFound
			message = catalogtpl.MessageNotFound
		}
		setTriggers(w, toastTrigger(message, partials.ToneError))
		w.WriteHeader(status)
		return
	}
	h.log(r).Info("catalog: product deleted", zap.String("product_id", id.String()))

	if !custommw.IsHTMXRequest(r.Context()) {
		target := helpers.BuildURL(h.paths.Index(), helpers.SetRawQuery("", "notice", "deleted"))
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	setTriggers(w, toastTrigger(catalogtpl.MessageDeleted, partials.ToneSuccess).
		with(eventCatalogReload).
		with(eventModalClose))
	w.WriteHeader(http.StatusOK)
}

// fetchProduct loads the {id} product or writes an error response carrying a toast.
func (h *Handlers) fetchProduct(w http.ResponseWriter, r *http.Request) (*catalog.Product, bool) {
	id := productID(r)
	product, err := h.products.Get(r.Context(), id)
	if err == nil {
		return product, true
	}

	status := http.StatusBadGateway
	message := catalogtpl.MessageLoadOne
	if catalog.IsNotFound(err) {
		status = http.StatusNotFound
		message = catalogtpl.MessageNotFound
	} else {
		h.log(r).Error("catalog: get product failed", zap.String("product_id", id.String()), zap.Error(err))
	}
	setTriggers(w, toastTrigger(message, partials.ToneError))
	http.Error(w, message, status)
	return nil, false
}
