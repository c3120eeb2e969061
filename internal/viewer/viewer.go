package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/starford/sowilo/internal/models"
)

var (
	// ErrStale marks a navigation that was superseded by a newer one
	// before its document arrived. The caller drops the result.
	ErrStale = errors.New("viewer: superseded by a newer request")

	// ErrNoHistory is returned by Back and Forward at the edge of the
	// history stack.
	ErrNoHistory = errors.New("viewer: no adjacent history entry")
)

// DocumentSource loads documents for the viewer. Both the HTTP client and
// the service satisfy it.
type DocumentSource interface {
	Document(ctx context.Context, path string) (*models.DocumentPayload, error)
}

// View is a fully processed document ready for display. Content carries
// the raw markdown for targets that render their own output instead of
// the processed HTML.
type View struct {
	Path         string
	Title        string
	Content      string
	HTML         string
	LastModified time.Time
}

// Viewer owns the currently displayed document. Every navigation takes a
// ticket from a monotonic sequence; a load only commits when its ticket
// is still the newest, so slow responses can never clobber a later
// navigation.
type Viewer struct {
	source    DocumentSource
	processor *Processor

	seq atomic.Uint64

	mu      sync.Mutex
	current *View
	history *History
}

func New(source DocumentSource, processor *Processor) *Viewer {
	return &Viewer{
		source:    source,
		processor: processor,
		history:   NewHistory(),
	}
}

// Open navigates to path, records it in history, and returns the
// processed document. Concurrent Opens race by design: only the newest
// one commits, the rest get ErrStale.
func (v *Viewer) Open(ctx context.Context, path string) (*View, error) {
	return v.show(ctx, path, true)
}

// Back re-opens the previous history entry without recording a new one.
func (v *Viewer) Back(ctx context.Context) (*View, error) {
	v.mu.Lock()
	path, ok := v.history.Back()
	v.mu.Unlock()
	if !ok {
		return nil, ErrNoHistory
	}
	return v.show(ctx, path, false)
}

// Forward re-opens the next history entry without recording a new one.
func (v *Viewer) Forward(ctx context.Context) (*View, error) {
	v.mu.Lock()
	path, ok := v.history.Forward()
	v.mu.Unlock()
	if !ok {
		return nil, ErrNoHistory
	}
	return v.show(ctx, path, false)
}

// Current returns the last committed view.
func (v *Viewer) Current() (*View, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return nil, false
	}
	return v.current, true
}

func (v *Viewer) show(ctx context.Context, path string, record bool) (*View, error) {
	id := v.seq.Add(1)

	doc, err := v.source.Document(ctx, path)
	if err != nil {
		return nil, err
	}
	// Bail before the processing work when already superseded.
	if v.seq.Load() != id {
		return nil, ErrStale
	}

	html, err := v.processor.Process(doc.HTML)
	if err != nil {
		return nil, fmt.Errorf("viewer: process %s: %w", path, err)
	}
	view := &View{
		Path:         doc.Path,
		Title:        doc.Title,
		Content:      doc.Content,
		HTML:         html,
		LastModified: doc.LastModified,
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq.Load() != id {
		return nil, ErrStale
	}
	v.current = view
	if record {
		v.history.Visit(path)
	}
	return view, nil
}
