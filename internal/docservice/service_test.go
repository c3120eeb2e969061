package docservice

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/render"
	"github.com/starford/sowilo/internal/testutil"
)

// countingStore records every storage access so tests can prove the
// extension check runs first.
type countingStore struct {
	reads int
	stats int
	trees int
}

func (c *countingStore) Tree() ([]*models.TreeNode, error) {
	c.trees++
	return nil, nil
}

func (c *countingStore) Read(string) ([]byte, error) {
	c.reads++
	return nil, errors.New("should not be called")
}

func (c *countingStore) Stat(string) (fs.FileInfo, error) {
	c.stats++
	return nil, errors.New("should not be called")
}

func TestDocument_RejectsNonMarkdownBeforeStorage(t *testing.T) {
	store := &countingStore{}
	svc := New(store, render.New())

	for _, path := range []string{"notes.txt", "image.png", "Makefile", "dir/config.yaml"} {
		_, err := svc.Document(context.Background(), path)
		if !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("Document(%q) = %v, want ErrInvalidPath", path, err)
		}
	}
	if store.reads != 0 || store.stats != 0 {
		t.Errorf("storage touched for invalid paths: reads=%d stats=%d", store.reads, store.stats)
	}
}

func TestDocument_Success(t *testing.T) {
	root, store := testutil.TestDocs(t)
	testutil.WriteDoc(t, root, "guides/setup.md", "---\ntitle: Setup Guide\n---\n# Intro\n\nBody text.\n")
	svc := New(store, render.New())

	doc, err := svc.Document(context.Background(), "guides/setup.md")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	if doc.Path != "guides/setup.md" {
		t.Errorf("Path = %q", doc.Path)
	}
	if doc.Title != "Setup Guide" {
		t.Errorf("Title = %q, want frontmatter title", doc.Title)
	}
	if !strings.Contains(doc.HTML, `<h1 id="intro">Intro</h1>`) {
		t.Errorf("HTML missing rendered heading: %s", doc.HTML)
	}
	if strings.Contains(doc.HTML, "Setup Guide") {
		t.Error("frontmatter must not leak into rendered HTML")
	}
	if !strings.HasPrefix(doc.Content, "---\ntitle: Setup Guide") {
		t.Errorf("Content should be the raw source, got %q", doc.Content)
	}
	if len(doc.Checksum) != 64 {
		t.Errorf("Checksum = %q, want sha256 hex", doc.Checksum)
	}
	if doc.LastModified.IsZero() || doc.LastModified.After(time.Now().Add(time.Minute)) {
		t.Errorf("LastModified = %v", doc.LastModified)
	}
}

func TestDocument_TitleFallsBackToHeading(t *testing.T) {
	root, store := testutil.TestDocs(t)
	testutil.WriteDoc(t, root, "plain.md", "# Plain Heading\n\ntext\n")
	svc := New(store, render.New())

	doc, err := svc.Document(context.Background(), "plain.md")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Title != "Plain Heading" {
		t.Errorf("Title = %q, want first heading", doc.Title)
	}
}

func TestDocument_NotFound(t *testing.T) {
	_, store := testutil.TestDocs(t)
	svc := New(store, render.New())

	_, err := svc.Document(context.Background(), "missing.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Document = %v, want ErrNotFound", err)
	}
}

func TestDocument_TraversalForbidden(t *testing.T) {
	_, store := testutil.TestDocs(t)
	svc := New(store, render.New())

	_, err := svc.Document(context.Background(), "../outside.md")
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("Document = %v, want ErrForbidden", err)
	}
}

func TestTree_Shape(t *testing.T) {
	root, store := testutil.TestDocs(t)
	testutil.WriteDoc(t, root, "a/x.md", "x")
	testutil.WriteDoc(t, root, "b/y.md", "y")
	testutil.WriteDoc(t, root, "top.md", "t")
	svc := New(store, render.New())

	tree, err := svc.Tree(context.Background())
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	if len(tree) != 3 {
		t.Fatalf("top-level count = %d, want 3", len(tree))
	}
	if tree[0].Name != "a" || tree[1].Name != "b" || tree[2].Name != "top.md" {
		t.Errorf("unexpected order: %s, %s, %s", tree[0].Name, tree[1].Name, tree[2].Name)
	}
	if n := models.FindByPath(tree, "a/x.md"); n == nil || n.Type != models.NodeFile {
		t.Errorf("missing file node a/x.md, got %+v", n)
	}
	if models.CountFiles(tree) != 3 {
		t.Errorf("CountFiles = %d, want 3", models.CountFiles(tree))
	}
}
