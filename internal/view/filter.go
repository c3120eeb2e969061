// Package view implements the client-side tree presentation as pure
// functions over explicit state: search filtering, expansion and selection
// tracking, and rendering to HTML or terminal text.
package view

import (
	"strings"

	"github.com/starford/sowilo/internal/models"
)

// FilteredNode wraps a TreeNode with search metadata. SearchMatch is true
// when the node's own display name matched the active query.
type FilteredNode struct {
	Node        *models.TreeNode
	SearchMatch bool
	Children    []*FilteredNode
}

// IsDir reports whether the underlying node is a directory.
func (f *FilteredNode) IsDir() bool { return f.Node.IsDir() }

// HasMatch reports whether the node or any descendant matched the query.
func (f *FilteredNode) HasMatch() bool {
	if f.SearchMatch {
		return true
	}
	for _, child := range f.Children {
		if child.HasMatch() {
			return true
		}
	}
	return false
}

// DisplayName is the name shown in the tree: files lose the markdown
// extension, directories keep their name as-is.
func DisplayName(n *models.TreeNode) string {
	if n.Type == models.NodeFile && strings.EqualFold(ext(n.Name), ".md") {
		return n.Name[:len(n.Name)-3]
	}
	return n.Name
}

func ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

// Filter derives the transient search tree for query: a case-insensitive
// substring match against the display name. A node is retained when it
// matches or, for directories, when any descendant matches. The result is
// recomputed from scratch on every call; an empty query returns the whole
// tree unfiltered.
func Filter(nodes []*models.TreeNode, query string) []*FilteredNode {
	q := strings.ToLower(strings.TrimSpace(query))
	return filterNodes(nodes, q)
}

func filterNodes(nodes []*models.TreeNode, q string) []*FilteredNode {
	out := make([]*FilteredNode, 0, len(nodes))
	for _, n := range nodes {
		matched := q != "" && strings.Contains(strings.ToLower(DisplayName(n)), q)
		if n.IsDir() {
			children := filterNodes(n.Children, q)
			if q == "" || matched || len(children) > 0 {
				out = append(out, &FilteredNode{Node: n, SearchMatch: matched, Children: children})
			}
			continue
		}
		if q == "" || matched {
			out = append(out, &FilteredNode{Node: n, SearchMatch: matched})
		}
	}
	return out
}

// MatchRange returns the [start, end) byte range of the first query match
// in name, case-insensitively, or (-1, -1) when there is none. Used by the
// renderers to wrap the matched substring for highlighting.
func MatchRange(name, query string) (int, int) {
	query = strings.TrimSpace(query)
	if query == "" {
		return -1, -1
	}
	idx := strings.Index(strings.ToLower(name), strings.ToLower(query))
	if idx < 0 {
		return -1, -1
	}
	end := idx + len(query)
	if end > len(name) {
		end = len(name)
	}
	return idx, end
}
