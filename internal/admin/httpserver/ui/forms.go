package ui

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	catalogtpl "finitefield.org/catalog-admin/internal/admin/templates/catalog"
)

const priceInvalidMessage = "informe um preço válido"

func readProductForm(r *http.Request) (catalogtpl.FormValues, error) {
	if err := r.ParseForm(); err != nil {
		return catalogtpl.FormValues{}, err
	}
	return catalogtpl.FormValues{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		ImageURL:    strings.TrimSpace(r.PostFormValue("image")),
		Price:       strings.TrimSpace(r.PostFormValue("price")),
	}, nil
}

// productInput converts typed form values into a validated input. A blank image becomes
// defaultImage when one is configured, otherwise an empty list.
func productInput(values catalogtpl.FormValues, defaultImage string) (catalog.ProductInput, map[string]string) {
	input := catalog.ProductInput{
		Name:        values.Name,
		Description: values.Description,
		Images:      []string{},
	}
	switch {
	case values.ImageURL != "":
		input.Images = []string{values.ImageURL}
	case strings.TrimSpace(defaultImage) != "":
		input.Images = []string{strings.TrimSpace(defaultImage)}
	}

	fieldErrors := map[string]string{}
	price, ok := parsePrice(values.Price)
	if ok {
		input.Price = price
	} else {
		fieldErrors["price"] = priceInvalidMessage
	}

	if err := catalog.Validate(input); err != nil {
		var verrs catalog.ValidationErrors
		if errors.As(err, &verrs) {
			for field, message := range verrs.ByField() {
				if _, exists := fieldErrors[field]; !exists {
					fieldErrors[field] = message
				}
			}
		} else {
			fieldErrors["form"] = err.Error()
		}
	}
	if len(fieldErrors) == 0 {
		return input, nil
	}
	return input, fieldErrors
}

// parsePrice accepts "19.9", "19,90" and "1.234,56". A dot after the last comma, as in
// "1,234.56", is ambiguous and rejected.
func parsePrice(raw string) (float64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	if comma := strings.LastIndex(value, ","); comma >= 0 {
		if strings.LastIndex(value, ".") > comma {
			return 0, false
		}
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}
