// Package storage implements read-only access to the markdown documents root.
package storage

import (
	"errors"
	"io/fs"

	"github.com/starford/sowilo/internal/models"
)

// ErrEscapesRoot is returned when a requested path resolves outside the
// documents root, whether through "..", an absolute path, or a symlink.
var ErrEscapesRoot = errors.New("storage: path escapes documents root")

// Provider is the interface for document file operations. All paths are
// relative to the documents root and use forward slashes.
type Provider interface {
	// Tree walks the root and returns the ordered markdown tree. It is
	// rebuilt from disk on every call.
	Tree() ([]*models.TreeNode, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Stat returns file metadata for the file at path.
	Stat(path string) (fs.FileInfo, error)
}
