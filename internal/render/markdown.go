// Package render converts markdown documents to HTML and extracts display
// metadata from them.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts GitHub-flavored markdown to HTML. Single newlines become
// hard line breaks, headings get stable IDs, and raw HTML passes through.
// A Renderer is stateless and safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				ghtml.WithHardWraps(),
				ghtml.WithUnsafe(),
			),
		),
	}
}

// Render converts markdown source to HTML. A leading YAML frontmatter block
// is metadata, not prose, and is stripped before conversion.
func (r *Renderer) Render(source []byte) (string, error) {
	_, body := SplitFrontmatter(source)
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("render: convert: %w", err)
	}
	return buf.String(), nil
}
