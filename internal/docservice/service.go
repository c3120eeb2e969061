// Package docservice implements the read-only document operations behind
// the API: the tree listing and per-document retrieval with rendering.
package docservice

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/checksum"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/render"
	"github.com/starford/sowilo/internal/storage"
)

// Service coordinates storage reads and markdown rendering.
type Service struct {
	store    storage.Provider
	renderer *render.Renderer
}

// New creates a new document service.
func New(store storage.Provider, renderer *render.Renderer) *Service {
	return &Service{store: store, renderer: renderer}
}

// Tree returns the current document tree, rebuilt from disk on every call.
func (s *Service) Tree(_ context.Context) ([]*models.TreeNode, error) {
	return s.store.Tree()
}

// Document reads and renders one document. The markdown-extension check
// runs before any filesystem access; the escape check happens inside the
// store and surfaces as apperr.ErrForbidden.
func (s *Service) Document(_ context.Context, path string) (*models.DocumentPayload, error) {
	if !storage.IsMarkdown(path) {
		return nil, fmt.Errorf("%w: not a markdown document: %s", apperr.ErrInvalidPath, path)
	}

	data, err := s.store.Read(path)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	info, err := s.store.Stat(path)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	html, err := s.renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("docservice: render %s: %w", path, err)
	}

	return &models.DocumentPayload{
		Path:         path,
		Title:        render.Title(data),
		Content:      string(data),
		HTML:         html,
		Checksum:     checksum.Sum(data),
		LastModified: info.ModTime(),
	}, nil
}

func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrEscapesRoot):
		return fmt.Errorf("%w: %w", apperr.ErrForbidden, err)
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	}
	return err
}
