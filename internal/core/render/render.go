// Package render turns manifest bodies into HTML for the catalog and into
// styled text for the terminal.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// HTML converts GitHub-flavored markdown to HTML. Raw HTML in the source is
// omitted from the output. The zero value is not usable; use NewHTML.
type HTML struct {
	md goldmark.Markdown
}

// NewHTML returns a GFM renderer (tables, strikethrough, autolinks, task
// lists) with auto-generated heading IDs.
func NewHTML() *HTML {
	return &HTML{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts body to HTML. It is safe for concurrent use.
func (h *HTML) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders body for display in a terminal of the given width. On a
// renderer failure the raw body is returned.
func Terminal(body string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(out, "\n")
}
