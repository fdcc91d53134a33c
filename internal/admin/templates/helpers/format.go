package helpers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Price formats a decimal amount with the currency symbol, e.g. "R$ 19.90".
func Price(amount float64, symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", symbol, amount)
}

// Truncate cuts text to limit characters and appends Ellipsis when anything was removed.
// Non-positive limits leave the text untouched.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + Ellipsis
}

// EnvironmentLabel returns the short badge label for an environment name.
func EnvironmentLabel(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "prd":
		return "PRD"
	case "staging", "stg":
		return "STG"
	case "", "development", "dev", "local":
		return "DEV"
	default:
		return strings.ToUpper(Truncate(env, 3))
	}
}

// BadgeClass maps semantic tones to utility classes.
func BadgeClass(tone string) string {
	switch tone {
	case "success":
		return "badge badge-success"
	case "warning":
		return "badge badge-warning"
	case "danger":
		return "badge badge-danger"
	default:
		return "badge"
	}
}

// EnvironmentTone picks the badge tone for an environment.
func EnvironmentTone(env string) string {
	switch EnvironmentLabel(env) {
	case "PRD":
		return "danger"
	case "STG":
		return "warning"
	default:
		return "success"
	}
}

// TextComponent returns a templ component that renders escaped text.
func TextComponent(value string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(value))
		return err
	})
}
