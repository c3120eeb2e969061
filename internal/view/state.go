package view

// State holds everything the tree view needs to render: which directories
// the user expanded, which document is active, and the current search
// query. Zero value is ready to use.
type State struct {
	// Expanded records user-driven expansion by node path. Expansion
	// caused by an active search is derived at render time and never
	// written here, so clearing the query restores this exact shape.
	Expanded map[string]bool

	// Active is the path of the currently selected document, or empty.
	Active string

	// Query is the current search input. Empty means no filter.
	Query string
}

// NewState returns an empty view state with all directories collapsed.
func NewState() *State {
	return &State{Expanded: make(map[string]bool)}
}

// Toggle flips the expansion of a single directory. Other nodes are
// untouched.
func (s *State) Toggle(path string) {
	if s.Expanded == nil {
		s.Expanded = make(map[string]bool)
	}
	s.Expanded[path] = !s.Expanded[path]
}

// IsExpanded reports user-driven expansion for path.
func (s *State) IsExpanded(path string) bool {
	return s.Expanded[path]
}

// SetActive marks path as the selected document. Any previous selection is
// replaced; there is at most one active node.
func (s *State) SetActive(path string) {
	s.Active = path
}

// SetQuery replaces the search query.
func (s *State) SetQuery(q string) {
	s.Query = q
}

// ClearQuery removes the filter. Expansion and selection are left alone,
// so the tree returns to its pre-search shape.
func (s *State) ClearQuery() {
	s.Query = ""
}

// Searching reports whether a non-empty query is active.
func (s *State) Searching() bool {
	return s.Query != ""
}

// showChildren decides whether a directory's children are visible under
// the current state: the user expanded it, or a search is active and
// something beneath it matched.
func (s *State) showChildren(f *FilteredNode) bool {
	if s.IsExpanded(f.Node.Path) {
		return true
	}
	return s.Searching() && f.HasMatch()
}
