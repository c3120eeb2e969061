package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/sowilo/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root     string // absolute path to the documents root
	resolved string // root with symlinks resolved, for escape checks
}

var _ Provider = (*FS)(nil)

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root symlinks: %w", err)
	}
	return &FS{root: abs, resolved: resolved}, nil
}

// Root returns the absolute path of the documents root.
func (f *FS) Root() string {
	return f.root
}

// IsMarkdown reports whether name carries the markdown extension.
// The comparison is case-insensitive.
func IsMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

// safePath resolves a relative path against the documents root and rejects
// any result that escapes it. The check runs twice: once on the lexically
// cleaned path, and once after following symlinks, so a link inside the
// root cannot point outside it.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: absolute path: %s", ErrEscapesRoot, rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, rel)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Nothing on disk to follow; a later read fails with not-found.
			return abs, nil
		}
		return "", fmt.Errorf("storage: resolve symlinks: %w", err)
	}
	if !strings.HasPrefix(real, f.resolved+string(os.PathSeparator)) && real != f.resolved {
		return "", fmt.Errorf("%w: symlink target: %s", ErrEscapesRoot, rel)
	}
	return abs, nil
}

// Read returns the raw bytes of a document file.
func (f *FS) Read(rel string) ([]byte, error) {
	abs, err := f.safePath(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", rel, err)
	}
	return data, nil
}

// Stat returns file metadata for a document file.
func (f *FS) Stat(rel string) (fs.FileInfo, error) {
	abs, err := f.safePath(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", rel, err)
	}
	return info, nil
}

// Tree walks the documents root and returns the ordered markdown tree:
// directories before files, alphabetical within each group, empty
// directories pruned. An unreadable subdirectory is skipped with a warning;
// only an unreadable root fails the walk.
func (f *FS) Tree() ([]*models.TreeNode, error) {
	nodes, err := f.walkDir(f.root, "")
	if err != nil {
		return nil, fmt.Errorf("storage: tree: %w", err)
	}
	if nodes == nil {
		nodes = []*models.TreeNode{}
	}
	return nodes, nil
}

func (f *FS) walkDir(absDir, relDir string) ([]*models.TreeNode, error) {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	var nodes []*models.TreeNode
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		// Symlinks are not walked; reads through them are checked separately.
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}

		rel := path.Join(relDir, name)
		switch {
		case entry.IsDir():
			children, err := f.walkDir(filepath.Join(absDir, name), rel)
			if err != nil {
				slog.Warn("storage: skipping unreadable directory",
					slog.String("path", rel),
					slog.String("error", err.Error()))
				continue
			}
			if len(children) == 0 {
				continue
			}
			nodes = append(nodes, &models.TreeNode{
				Name:     name,
				Type:     models.NodeDirectory,
				Path:     rel,
				Children: children,
			})
		case IsMarkdown(name):
			nodes = append(nodes, &models.TreeNode{
				Name: name,
				Type: models.NodeFile,
				Path: rel,
			})
		}
	}

	sortNodes(nodes)
	return nodes, nil
}

// sortNodes orders directories before files, then alphabetically within each
// group. Names compare case-insensitively, with byte order as the tiebreak
// so the result is deterministic.
func sortNodes(nodes []*models.TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDir() != nodes[j].IsDir() {
			return nodes[i].IsDir()
		}
		li, lj := strings.ToLower(nodes[i].Name), strings.ToLower(nodes[j].Name)
		if li != lj {
			return li < lj
		}
		return nodes[i].Name < nodes[j].Name
	})
}
