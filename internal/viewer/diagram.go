package viewer

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// DiagramRenderer turns fenced diagram sources into display HTML. Render
// failures are reported per block so one broken diagram never takes down
// the rest of the document.
type DiagramRenderer interface {
	// Supports reports whether lang names a diagram language handled by
	// this renderer.
	Supports(lang string) bool

	// Render produces the HTML for one diagram block.
	Render(lang, source string) (string, error)
}

// MermaidRenderer validates mermaid sources and wraps them for the
// client-side mermaid runtime to pick up.
type MermaidRenderer struct{}

var _ DiagramRenderer = (*MermaidRenderer)(nil)

func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{}
}

func (*MermaidRenderer) Supports(lang string) bool {
	return strings.EqualFold(lang, "mermaid")
}

// mermaidKinds are the diagram declarations mermaid accepts as the first
// meaningful line of a definition.
var mermaidKinds = map[string]bool{
	"graph":              true,
	"flowchart":          true,
	"sequenceDiagram":    true,
	"classDiagram":       true,
	"stateDiagram":       true,
	"stateDiagram-v2":    true,
	"erDiagram":          true,
	"journey":            true,
	"gantt":              true,
	"pie":                true,
	"gitGraph":           true,
	"mindmap":            true,
	"timeline":           true,
	"quadrantChart":      true,
	"requirementDiagram": true,
}

func (*MermaidRenderer) Render(lang, source string) (string, error) {
	kind, ok := diagramKind(source)
	if !ok {
		return "", errors.New("empty diagram source")
	}
	if !mermaidKinds[kind] {
		return "", fmt.Errorf("unknown diagram type %q", kind)
	}
	return `<pre class="mermaid">` + html.EscapeString(source) + `</pre>`, nil
}

// diagramKind returns the first word of the first meaningful line,
// skipping blanks and %% comment or directive lines.
func diagramKind(source string) (string, bool) {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		return fields[0], true
	}
	return "", false
}

// diagramErrorHTML is the inline replacement for a block that failed to
// render: a short message plus the original source behind a disclosure.
func diagramErrorHTML(lang, source string, err error) string {
	var b strings.Builder
	b.WriteString(`<div class="diagram-error">`)
	fmt.Fprintf(&b, `<p>%s diagram failed to render: %s</p>`,
		html.EscapeString(lang), html.EscapeString(err.Error()))
	b.WriteString(`<details><summary>Show diagram source</summary><pre>`)
	b.WriteString(html.EscapeString(source))
	b.WriteString(`</pre></details></div>`)
	return b.String()
}
