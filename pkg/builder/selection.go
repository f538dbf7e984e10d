package builder

import "github.com/matzehuels/bikebuilder/pkg/catalog"

// Entry is one selected part.
type Entry struct {
	Category catalog.Category
	Part     catalog.Part
}

// Selection maps each category to at most one part. Iteration order is the
// order in which categories were first selected; replacing a part keeps its
// category's position.
type Selection struct {
	order       []catalog.Category
	parts       map[catalog.Category]catalog.Part
	activeFrame string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{parts: make(map[catalog.Category]catalog.Part)}
}

// Select records p for its category, replacing any earlier choice, and
// reports whether a part was replaced. Selecting a frame makes its slug the
// active frame; a frame without a slug leaves no active frame.
func (s *Selection) Select(p catalog.Part) (replaced bool) {
	if _, replaced = s.parts[p.Category]; !replaced {
		s.order = append(s.order, p.Category)
	}
	s.parts[p.Category] = p
	if p.Category == catalog.Frames {
		s.activeFrame = p.Slug
	}
	return replaced
}

// Get returns the part chosen for c.
func (s *Selection) Get(c catalog.Category) (catalog.Part, bool) {
	p, ok := s.parts[c]
	return p, ok
}

// Has reports whether c has a selection.
func (s *Selection) Has(c catalog.Category) bool {
	_, ok := s.parts[c]
	return ok
}

// Len returns the number of selected categories.
func (s *Selection) Len() int { return len(s.order) }

// ActiveFrame returns the slug of the selected frame, or "".
func (s *Selection) ActiveFrame() string { return s.activeFrame }

// Entries returns the selected parts in iteration order.
func (s *Selection) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, Entry{Category: c, Part: s.parts[c]})
	}
	return out
}
