// Package viewer post-processes rendered document HTML for display and
// drives interactive navigation. The Processor runs two passes over a
// document: syntax highlighting of fenced code, then in-place rendering
// of diagram blocks. The Viewer layers fetch sequencing, history, and the
// current-document state on top.
package viewer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const styleName = "github"

// Processor transforms rendered document HTML for display. It holds no
// per-document state and is safe for concurrent use.
type Processor struct {
	diagrams  DiagramRenderer
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

func NewProcessor(diagrams DiagramRenderer) *Processor {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Processor{
		diagrams:  diagrams,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     style,
	}
}

// Process runs both display passes over source and returns the result.
// Highlighting failures leave the affected block as plain preformatted
// text; diagram failures are replaced with an inline error. Neither stops
// the other blocks from being processed.
func (p *Processor) Process(source string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return "", fmt.Errorf("viewer: parse document: %w", err)
	}

	p.highlightPass(doc)
	p.diagramPass(doc)

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("viewer: serialize document: %w", err)
	}
	return out, nil
}

// highlightPass replaces fenced code blocks with chroma markup. Diagram
// languages are left for the diagram pass.
func (p *Processor) highlightPass(doc *goquery.Document) {
	doc.Find(`pre > code[class*="language-"]`).Each(func(_ int, s *goquery.Selection) {
		lang := codeLanguage(s.AttrOr("class", ""))
		if lang == "" || p.diagrams.Supports(lang) {
			return
		}
		highlighted, err := p.highlight(s.Text(), lang)
		if err != nil {
			return
		}
		s.Parent().ReplaceWithHtml(highlighted)
	})
}

// diagramPass renders diagram blocks in place. A failed block becomes an
// inline error with its source behind a disclosure; the rest of the
// document is untouched.
func (p *Processor) diagramPass(doc *goquery.Document) {
	doc.Find(`pre > code[class*="language-"]`).Each(func(_ int, s *goquery.Selection) {
		lang := codeLanguage(s.AttrOr("class", ""))
		if !p.diagrams.Supports(lang) {
			return
		}
		source := s.Text()
		rendered, err := p.diagrams.Render(lang, source)
		if err != nil {
			s.Parent().ReplaceWithHtml(diagramErrorHTML(lang, source, err))
			return
		}
		s.Parent().ReplaceWithHtml(rendered)
	})
}

func (p *Processor) highlight(source, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	tokens, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("viewer: tokenise %s block: %w", lang, err)
	}
	var buf bytes.Buffer
	if err := p.formatter.Format(&buf, p.style, tokens); err != nil {
		return "", fmt.Errorf("viewer: format %s block: %w", lang, err)
	}
	return buf.String(), nil
}

// StyleCSS writes the stylesheet for the class-based highlight markup.
func (p *Processor) StyleCSS(w io.Writer) error {
	if err := p.formatter.WriteCSS(w, p.style); err != nil {
		return fmt.Errorf("viewer: write style css: %w", err)
	}
	return nil
}

// codeLanguage extracts the language from a highlight class list such as
// "language-go".
func codeLanguage(class string) string {
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, "language-") {
			return strings.TrimPrefix(c, "language-")
		}
	}
	return ""
}
