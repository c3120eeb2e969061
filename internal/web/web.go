// Package web serves the browser UI: the application shell, server-side
// rendered tree and document fragments, and the embedded static assets.
// The JSON API stays untouched under /api; this package only produces
// HTML.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/docservice"
	"github.com/starford/sowilo/internal/view"
	"github.com/starford/sowilo/internal/viewer"
)

// Handler renders the web UI on top of the document service.
type Handler struct {
	svc       *docservice.Service
	processor *viewer.Processor
	tmpl      *template.Template
	static    http.Handler

	styleOnce sync.Once
	styleCSS  []byte
	styleErr  error
}

func NewHandler(svc *docservice.Service, processor *viewer.Processor) (*Handler, error) {
	tmpl, err := template.ParseFS(assets, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("web: static assets: %w", err)
	}
	return &Handler{
		svc:       svc,
		processor: processor,
		tmpl:      tmpl,
		static:    http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
	}, nil
}

// Routes returns the UI router, mounted at the server root.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Get("/view/*", h.ViewDocument)
	r.Get("/partials/tree", h.TreePartial)
	r.Get("/partials/doc/*", h.DocPartial)
	r.Get("/static/chroma.css", h.ChromaCSS)
	r.Get("/static/*", h.static.ServeHTTP)
	return r
}

type pageData struct {
	Title    string
	Active   string
	Tree     template.HTML
	Document template.HTML
}

// Index serves the application shell with the collapsed tree and no
// document selected.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	tree, err := h.treeHTML(r, "", "", nil)
	if err != nil {
		h.renderPage(w, http.StatusInternalServerError, pageData{
			Title:    "sowilo",
			Document: errorFragment("internal server error"),
		})
		slog.Error("web: render tree failed", slog.String("error", err.Error()))
		return
	}
	h.renderPage(w, http.StatusOK, pageData{
		Title:    "sowilo",
		Tree:     tree,
		Document: `<p class="placeholder">Select a document from the tree.</p>`,
	})
}

// ViewDocument serves the shell with a document loaded and its ancestor
// directories expanded, so deep links land on a sensible view.
func (h *Handler) ViewDocument(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	doc, err := h.svc.Document(r.Context(), path)
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("web: load document failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		tree, terr := h.treeHTML(r, "", "", nil)
		if terr != nil {
			tree = ""
		}
		h.renderPage(w, status, pageData{
			Title:    "sowilo",
			Tree:     tree,
			Document: errorFragment(msg),
		})
		return
	}

	processed, err := h.processor.Process(doc.HTML)
	if err != nil {
		slog.Error("web: process document failed", slog.String("path", path), slog.String("error", err.Error()))
		processed = doc.HTML
	}

	tree, err := h.treeHTML(r, "", path, ancestors(path))
	if err != nil {
		tree = ""
	}

	title := doc.Title
	if title == "" {
		title = path
	}
	h.renderPage(w, http.StatusOK, pageData{
		Title:    title + " · sowilo",
		Active:   path,
		Tree:     tree,
		Document: documentFragment(doc.Path, title, processed),
	})
}

// TreePartial serves the sidebar fragment for the state the client passes
// in: q filters, active marks the selection, expanded is a comma list of
// directory paths.
func (h *Handler) TreePartial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	active := r.URL.Query().Get("active")
	var expanded []string
	if raw := r.URL.Query().Get("expanded"); raw != "" {
		expanded = strings.Split(raw, ",")
	}

	tree, err := h.treeHTML(r, q, active, expanded)
	if err != nil {
		slog.Error("web: render tree failed", slog.String("error", err.Error()))
		writeFragment(w, http.StatusInternalServerError, errorFragment("internal server error"))
		return
	}
	writeFragment(w, http.StatusOK, tree)
}

// DocPartial serves one processed document as an HTML fragment.
func (h *Handler) DocPartial(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		writeFragment(w, http.StatusBadRequest, errorFragment("path is required"))
		return
	}

	doc, err := h.svc.Document(r.Context(), path)
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("web: load document failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		writeFragment(w, status, errorFragment(msg))
		return
	}

	processed, err := h.processor.Process(doc.HTML)
	if err != nil {
		slog.Error("web: process document failed", slog.String("path", path), slog.String("error", err.Error()))
		processed = doc.HTML
	}
	title := doc.Title
	if title == "" {
		title = path
	}
	writeFragment(w, http.StatusOK, documentFragment(doc.Path, title, processed))
}

// ChromaCSS serves the generated highlight stylesheet. The sheet depends
// only on the configured style, so it is rendered once and cached.
func (h *Handler) ChromaCSS(w http.ResponseWriter, _ *http.Request) {
	h.styleOnce.Do(func() {
		var buf bytes.Buffer
		h.styleErr = h.processor.StyleCSS(&buf)
		h.styleCSS = buf.Bytes()
	})
	if h.styleErr != nil {
		slog.Error("web: highlight stylesheet failed", slog.String("error", h.styleErr.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(h.styleCSS)
}

func (h *Handler) treeHTML(r *http.Request, query, active string, expanded []string) (template.HTML, error) {
	nodes, err := h.svc.Tree(r.Context())
	if err != nil {
		return "", err
	}
	st := view.NewState()
	st.SetQuery(query)
	st.SetActive(active)
	for _, p := range expanded {
		if p = strings.TrimSpace(p); p != "" {
			st.Expanded[p] = true
		}
	}
	return template.HTML(view.RenderHTML(view.Filter(nodes, query), st)), nil
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html.tmpl", data); err != nil {
		slog.Error("web: execute template failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeFragment(w http.ResponseWriter, status int, fragment template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(fragment))
}

func documentFragment(path, title, body string) template.HTML {
	return template.HTML(fmt.Sprintf(`<article class="doc" data-path="%s" data-title="%s">%s</article>`,
		html.EscapeString(path), html.EscapeString(title), body))
}

func errorFragment(msg string) template.HTML {
	return template.HTML(`<div class="doc-error"><p>` + html.EscapeString(msg) + `</p></div>`)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidPath):
		return http.StatusBadRequest, "not a markdown document"
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// wildcardPath extracts and decodes the path after the route prefix.
func wildcardPath(r *http.Request) string {
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

// ancestors lists the directory paths above a document, outermost first.
func ancestors(path string) []string {
	var out []string
	for i, c := range path {
		if c == '/' {
			out = append(out, path[:i])
		}
	}
	return out
}
