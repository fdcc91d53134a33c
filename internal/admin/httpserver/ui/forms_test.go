package ui

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	catalogtpl "finitefield.org/catalog-admin/internal/admin/templates/catalog"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{raw: "19.9", want: 19.9, ok: true},
		{raw: "19,90", want: 19.9, ok: true},
		{raw: "1.234,56", want: 1234.56, ok: true},
		{raw: " 0 ", want: 0, ok: true},
		{raw: "-3", want: -3, ok: true},
		{raw: "", ok: false},
		{raw: "abc", ok: false},
		{raw: "NaN", ok: false},
		{raw: "Inf", ok: false},
		{raw: "1,234.56", ok: false},
		{raw: "1,5.0", ok: false},
		{raw: "1,234,56", ok: false},
		{raw: "12.345.678,9", want: 12345678.9, ok: true},
	}

	for _, tc := range tests {
		got, ok := parsePrice(tc.raw)
		if ok != tc.ok {
			t.Errorf("parsePrice(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("parsePrice(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestProductInputImages(t *testing.T) {
	values := catalogtpl.FormValues{Name: "Shampoo", Description: "suave", Price: "10"}

	input, errs := productInput(values, "")
	require.Nil(t, errs)
	require.NotNil(t, input.Images)
	require.Empty(t, input.Images)

	input, errs = productInput(values, " https://cdn.example.com/default.png ")
	require.Nil(t, errs)
	require.Equal(t, []string{"https://cdn.example.com/default.png"}, input.Images)

	values.ImageURL = "https://cdn.example.com/own.png"
	input, errs = productInput(values, "https://cdn.example.com/default.png")
	require.Nil(t, errs)
	require.Equal(t, []string{"https://cdn.example.com/own.png"}, input.Images)
}

func TestProductInputCollectsFieldErrors(t *testing.T) {
	_, errs := productInput(catalogtpl.FormValues{ImageURL: "nope", Price: "x"}, "")
	require.Equal(t, map[string]string{
		"name":        "campo obrigatório",
		"description": "campo obrigatório",
		"images":      "deve ser uma URL válida",
		"price":       priceInvalidMessage,
	}, errs)

	_, errs = productInput(catalogtpl.FormValues{Name: "a", Description: "b", Price: "-1"}, "")
	require.Equal(t, map[string]string{"price": "deve ser maior ou igual a 0"}, errs)
}

func TestReadProductFormTrims(t *testing.T) {
	req := httptest.NewRequest("POST", "/admin/catalog", nil)
	req.PostForm = map[string][]string{
		"name":        {"  Shampoo "},
		"description": {"\tsuave\n"},
		"image":       {" "},
		"price":       {" 19,90 "},
	}

	values, err := readProductForm(req)
	require.NoError(t, err)
	require.Equal(t, catalogtpl.FormValues{Name: "Shampoo", Description: "suave", ImageURL: "", Price: "19,90"}, values)
}

func TestTriggersEncoding(t *testing.T) {
	rec := httptest.NewRecorder()
	setTriggers(rec, toastTrigger("Salvo", "success").with(eventCatalogReload).with(eventModalClose))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &got))
	require.Equal(t, map[string]any{
		"toast":          map[string]any{"message": "Salvo", "tone": "success"},
		"catalog:reload": true,
		"modal:close":    true,
	}, got)
}
