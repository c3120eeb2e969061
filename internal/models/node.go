// Package models defines the domain types for Sowilo.
package models

// NodeType discriminates the two kinds of tree entries.
type NodeType string

// The two node kinds.
const (
	NodeDirectory NodeType = "directory"
	NodeFile      NodeType = "file"
)

// TreeNode is one entry (file or directory) in the hierarchical document
// listing. Children is populated only for directories; file entries are
// always markdown documents.
type TreeNode struct {
	Name     string      `json:"name"`
	Type     NodeType    `json:"type"`
	Path     string      `json:"path"`
	Children []*TreeNode `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *TreeNode) IsDir() bool {
	return n.Type == NodeDirectory
}

// Walk visits n and all of its descendants in display order.
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// FindByPath returns the node with the given relative path, searching nodes
// and their descendants. Returns nil when no entry matches.
func FindByPath(nodes []*TreeNode, path string) *TreeNode {
	for _, n := range nodes {
		if n.Path == path {
			return n
		}
		if n.IsDir() {
			if found := FindByPath(n.Children, path); found != nil {
				return found
			}
		}
	}
	return nil
}

// CountFiles returns the number of file nodes in the forest.
func CountFiles(nodes []*TreeNode) int {
	total := 0
	for _, n := range nodes {
		if n.IsDir() {
			total += CountFiles(n.Children)
		} else {
			total++
		}
	}
	return total
}
