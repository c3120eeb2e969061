package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/checksum"
	"github.com/starford/sowilo/internal/docservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL (everything after
// /api/docs/). Supports encoded slashes from OpenAPI clients
// (e.g. guides%2Fsetup.md).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListTree handles GET /api/docs.
//
//	@Summary		List the full document tree
//	@Tags			docs
//	@Produce		json
//	@Success		200	{array}		TreeNode
//	@Failure		500	{object}	errResponse
//	@Router			/docs [get]
func (h *Handler) ListTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Tree(r.Context())
	if err != nil {
		slog.Error("list tree failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// GetDocument handles GET /api/docs/*.
//
//	@Summary		Get a single rendered document by path
//	@Tags			docs
//	@Produce		json
//	@Param			path			path	string	true	"Document path"
//	@Param			If-None-Match	header	string	false	"Previously returned ETag"
//	@Success		200	{object}	DocumentResponse
//	@Failure		400	{object}	errResponse
//	@Failure		403	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/docs/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.Document(r.Context(), path)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidPath):
			writeJSON(w, http.StatusBadRequest, errorBody("not a markdown document"))
		case errors.Is(err, apperr.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("get document failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	if checksum.MatchesETag(r.Header.Get("If-None-Match"), doc.Checksum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Health handles GET /health.
//
//	@Summary		Health check
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}
