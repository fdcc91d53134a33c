package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	t.Parallel()

	err := Validate(ProductInput{
		Name:        "Shampoo",
		Description: strings.Repeat("x", 100),
		Images:      []string{"https://cdn.example.com/a.png"},
		Price:       19.9,
	})
	require.NoError(t, err)
}

func TestValidateReportsFieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   ProductInput
		field   string
		message string
	}{
		{
			name:    "blank name",
			input:   ProductInput{Name: "   ", Description: "d"},
			field:   "name",
			message: "campo obrigatório",
		},
		{
			name:    "missing description",
			input:   ProductInput{Name: "n"},
			field:   "description",
			message: "campo obrigatório",
		},
		{
			name:    "name too long",
			input:   ProductInput{Name: strings.Repeat("á", 201), Description: "d"},
			field:   "name",
			message: "no máximo 200 caracteres",
		},
		{
			name:    "negative price",
			input:   ProductInput{Name: "n", Description: "d", Price: -1},
			field:   "price",
			message: "deve ser maior ou igual a 0",
		},
		{
			name:    "image not a url",
			input:   ProductInput{Name: "n", Description: "d", Images: []string{"not a url"}},
			field:   "images",
			message: "deve ser uma URL válida",
		},
		{
			name: "too many images",
			input: ProductInput{
				Name:        "n",
				Description: "d",
				Images:      strings.Split(strings.TrimSuffix(strings.Repeat("https://x/a.png,", 11), ","), ","),
			},
			field:   "images",
			message: "no máximo 10 itens",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tc.input)
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Equal(t, tc.message, verrs.ByField()[tc.field])
			require.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestValidateIgnoresBlankImages(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(ProductInput{Name: "n", Description: "d", Images: []string{"", "  "}}))
}

func TestValidationErrorsByFieldKeepsFirst(t *testing.T) {
	t.Parallel()

	verrs := ValidationErrors{
		{Field: "name", Message: "first"},
		{Field: "name", Message: "second"},
	}
	require.Equal(t, map[string]string{"name": "first"}, verrs.ByField())
	require.Equal(t, "no validation errors", ValidationErrors(nil).Error())
}
