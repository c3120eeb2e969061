package viewer

// History tracks visited document paths with browser-like back and
// forward movement. Visiting while somewhere in the middle of the stack
// drops the forward tail. Not safe for concurrent use; the Viewer guards
// it with its own lock.
type History struct {
	entries []string
	pos     int
}

func NewHistory() *History {
	return &History{pos: -1}
}

// Visit pushes path as the newest entry. Re-visiting the current entry is
// a no-op so reloads do not pile up duplicates.
func (h *History) Visit(path string) {
	if cur, ok := h.Current(); ok && cur == path {
		return
	}
	h.entries = append(h.entries[:h.pos+1], path)
	h.pos = len(h.entries) - 1
}

// Back moves to the previous entry. Reports false at the oldest entry.
func (h *History) Back() (string, bool) {
	if h.pos <= 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward moves to the next entry. Reports false at the newest entry.
func (h *History) Forward() (string, bool) {
	if h.pos < 0 || h.pos >= len(h.entries)-1 {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Current returns the entry the history currently points at.
func (h *History) Current() (string, bool) {
	if h.pos < 0 {
		return "", false
	}
	return h.entries[h.pos], true
}

// Len is the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}
