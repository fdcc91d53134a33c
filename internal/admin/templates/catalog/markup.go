package catalog

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
	markdown     = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
)

// PlainText strips markup from a description and collapses whitespace for card display.
// A '<' that does not open a complete tag is kept as text.
func PlainText(description string) string {
	stripped := html.UnescapeString(strictPolicy.Sanitize(escapeStrayAngles(description)))
	return strings.Join(strings.Fields(stripped), " ")
}

// escapeStrayAngles entity-encodes every '<' that is not followed by a tag name, '/' or '!'
// and a closing '>' before the next '<'.
func escapeStrayAngles(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			b.WriteByte(s[i])
			continue
		}
		if opensTag(s[i+1:]) {
			b.WriteByte('<')
		} else {
			b.WriteString("&lt;")
		}
	}
	return b.String()
}

func opensTag(rest string) bool {
	if rest == "" {
		return false
	}
	c := rest[0]
	if !(c == '/' || c == '!' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return false
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return false
	}
	next := strings.IndexByte(rest, '<')
	return next < 0 || next > end
}

// DescriptionHTML renders a description as Markdown and sanitises the result.
// Raw HTML in the source is never passed through.
func DescriptionHTML(description string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(description), &buf); err != nil {
		return "<p>" + html.EscapeString(description) + "</p>"
	}
	return ugcPolicy.Sanitize(buf.String())
}
