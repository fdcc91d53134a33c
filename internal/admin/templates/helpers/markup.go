package helpers

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Builder accumulates HTML for a component. Text and attribute values are escaped; Raw is not.
type Builder struct {
	sb strings.Builder
}

// Raw writes trusted markup verbatim.
func (b *Builder) Raw(s string) {
	b.sb.WriteString(s)
}

// Text writes escaped text content.
func (b *Builder) Text(s string) {
	b.sb.WriteString(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped.
func (b *Builder) Attr(name, value string) {
	b.sb.WriteByte(' ')
	b.sb.WriteString(name)
	b.sb.WriteString(`="`)
	b.sb.WriteString(templ.EscapeString(value))
	b.sb.WriteByte('"')
}

// URLAttr writes a URL attribute after templ's URL sanitisation.
func (b *Builder) URLAttr(name, value string) {
	b.Attr(name, string(templ.URL(value)))
}

// Component renders a child component in place.
func (b *Builder) Component(ctx context.Context, c templ.Component) error {
	if c == nil {
		return nil
	}
	return c.Render(ctx, &b.sb)
}

// String returns the accumulated markup.
func (b *Builder) String() string {
	return b.sb.String()
}

// Component adapts a builder function into a templ component. Output is written only when
// fn succeeds, so a failing component never emits partial markup.
func Component(fn func(ctx context.Context, b *Builder) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b Builder
		if err := fn(ctx, &b); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}
