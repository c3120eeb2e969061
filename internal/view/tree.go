package view

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// VisibleNode is one row of the flattened tree: the node, its depth, and
// how the current state presents it.
type VisibleNode struct {
	Node     *FilteredNode
	Depth    int
	Expanded bool
	Active   bool
}

// Visible flattens the filtered tree into the rows a renderer would show,
// honoring expansion state and search-driven auto-expansion. Children of a
// collapsed directory are omitted.
func Visible(nodes []*FilteredNode, st *State) []VisibleNode {
	var out []VisibleNode
	appendVisible(nodes, st, 0, &out)
	return out
}

func appendVisible(nodes []*FilteredNode, st *State, depth int, out *[]VisibleNode) {
	for _, f := range nodes {
		row := VisibleNode{Node: f, Depth: depth}
		if f.IsDir() {
			row.Expanded = st.showChildren(f)
		} else {
			row.Active = st.Active == f.Node.Path
		}
		*out = append(*out, row)
		if row.Expanded {
			appendVisible(f.Children, st, depth+1, out)
		}
	}
}

// RenderHTML renders the filtered tree as nested markup for the sidebar.
// Directories carry a toggle handle and a children container that is hidden
// while collapsed; files link to the document view. Matched substrings are
// wrapped in <mark>.
func RenderHTML(nodes []*FilteredNode, st *State) string {
	var b strings.Builder
	renderNodesHTML(&b, nodes, st)
	return b.String()
}

func renderNodesHTML(b *strings.Builder, nodes []*FilteredNode, st *State) {
	for _, f := range nodes {
		b.WriteString(`<div class="tree-item">`)
		if f.IsDir() {
			expanded := st.showChildren(f)
			icon := "▶"
			if expanded {
				icon = "▼"
			}
			fmt.Fprintf(b, `<div class="tree-node"><span class="tree-directory" data-path="%s">`,
				html.EscapeString(f.Node.Path))
			fmt.Fprintf(b, `<span class="expand-icon">%s</span>`, icon)
			fmt.Fprintf(b, `<span class="dir-name">%s</span></span></div>`, highlightHTML(DisplayName(f.Node), st.Query))
			if len(f.Children) > 0 {
				if expanded {
					b.WriteString(`<div class="tree-children">`)
				} else {
					b.WriteString(`<div class="tree-children" style="display: none;">`)
				}
				renderNodesHTML(b, f.Children, st)
				b.WriteString(`</div>`)
			}
		} else {
			class := "tree-file"
			if st.Active == f.Node.Path {
				class = "tree-file active"
			}
			fmt.Fprintf(b, `<div class="tree-node"><span class="%s">`, class)
			fmt.Fprintf(b, `<a href="/view/%s" data-path="%s">%s</a>`,
				html.EscapeString(escapePath(f.Node.Path)), html.EscapeString(f.Node.Path), highlightHTML(DisplayName(f.Node), st.Query))
			b.WriteString(`</span></div>`)
		}
		b.WriteString(`</div>`)
	}
}

// highlightHTML escapes name for HTML and wraps the first query match in
// a <mark> element.
func highlightHTML(name, query string) string {
	start, end := MatchRange(name, query)
	if start < 0 {
		return html.EscapeString(name)
	}
	return html.EscapeString(name[:start]) +
		"<mark>" + html.EscapeString(name[start:end]) + "</mark>" +
		html.EscapeString(name[end:])
}

// escapePath escapes a slash-separated tree path segment by segment so the
// separators survive in hrefs.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

const (
	ansiMark  = "\x1b[7m"
	ansiReset = "\x1b[0m"
)

// RenderText renders the filtered tree for a terminal. Collapsed
// directories show "+", expanded ones "-", the active document is marked
// with ">" and matches are emphasized with reverse video.
func RenderText(nodes []*FilteredNode, st *State) string {
	var b strings.Builder
	for _, row := range Visible(nodes, st) {
		b.WriteString(strings.Repeat("  ", row.Depth))
		name := highlightText(DisplayName(row.Node.Node), st.Query)
		switch {
		case row.Node.IsDir() && row.Expanded:
			fmt.Fprintf(&b, "- %s/\n", name)
		case row.Node.IsDir():
			fmt.Fprintf(&b, "+ %s/\n", name)
		case row.Active:
			fmt.Fprintf(&b, "> %s\n", name)
		default:
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	return b.String()
}

func highlightText(name, query string) string {
	start, end := MatchRange(name, query)
	if start < 0 {
		return name
	}
	return name[:start] + ansiMark + name[start:end] + ansiReset + name[end:]
}
