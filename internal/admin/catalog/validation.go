package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors is returned by Validate when the input is not acceptable.
type ValidationErrors []FieldError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "catalog: invalid product: " + strings.Join(parts, "; ")
}

// ByField indexes the first message reported for each field.
func (ve ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, exists := out[fe.Field]; !exists {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the input after trimming and returns ValidationErrors on failure.
func Validate(input ProductInput) error {
	err := validate.Struct(input.normalized())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("catalog: validate product: %w", err)
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{
			Field:   fieldName(fe),
			Message: validationMessage(fe),
		})
	}
	return out
}

// fieldName folds "images[0]" style namespaces back to the form field name.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	return name
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("no máximo %s itens", fe.Param())
		}
		return fmt.Sprintf("no máximo %s caracteres", fe.Param())
	case "gte":
		return fmt.Sprintf("deve ser maior ou igual a %s", fe.Param())
	case "url":
		return "deve ser uma URL válida"
	default:
		return fmt.Sprintf("valor inválido (%s)", fe.Tag())
	}
}
