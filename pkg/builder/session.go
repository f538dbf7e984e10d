package builder

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/errors"
)

// Session is one independent bike build: a read-only catalog plus the
// selection and category cursor mutated by user events.
type Session struct {
	store     *catalog.Store
	selection *Selection
	seq       *Sequencer
	logger    *log.Logger
}

// NewSession starts a build over store with an empty selection and the cursor
// on the first category. If logger is nil, log.Default() is used.
func NewSession(store *catalog.Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		store:     store,
		selection: NewSelection(),
		seq:       NewSequencer(),
		logger:    logger,
	}
}

// Catalog returns the session's store.
func (s *Session) Catalog() *catalog.Store { return s.store }

// Current returns the category under the cursor.
func (s *Session) Current() catalog.Category { return s.seq.Current() }

// CanAdvance reports whether Advance would succeed.
func (s *Session) CanAdvance() bool { return s.seq.CanAdvance(s.selection) }

// Categories returns the build order.
func (s *Session) Categories() []catalog.Category { return s.seq.Categories() }

// Selected returns the part chosen for c.
func (s *Session) Selected(c catalog.Category) (catalog.Part, bool) {
	return s.selection.Get(c)
}

// ActiveFrame returns the slug of the selected frame, or "".
func (s *Session) ActiveFrame() string { return s.selection.ActiveFrame() }

// Candidates lists the parts of the current category matching the
// manufacturer and search filters.
func (s *Session) Candidates(manufacturer, search string) ([]catalog.Part, error) {
	return s.store.Filter(catalog.Query{
		Category:     s.seq.Current(),
		Manufacturer: manufacturer,
		Search:       search,
	})
}

// Select records p as the choice for its category.
func (s *Session) Select(p catalog.Part) error {
	if p.Category == "" {
		return errors.New(errors.ErrCodeInvalidInput, "part %q has no category", p.Name())
	}
	replaced := s.selection.Select(p)
	s.logger.Debug("selected part",
		"category", p.Category,
		"part", p.Name(),
		"replaced", replaced,
		"active_frame", s.selection.ActiveFrame())
	return nil
}

// SelectKey looks up a part of category c by slug or model and selects it.
func (s *Session) SelectKey(c catalog.Category, key string) (catalog.Part, error) {
	p, ok := s.store.Find(c, key)
	if !ok {
		return catalog.Part{}, errors.New(errors.ErrCodePartNotFound, "no %s part matches %q", c, key)
	}
	return p, s.Select(p)
}

// Advance moves the cursor to the next category. See [Sequencer.Advance].
func (s *Session) Advance() error {
	from := s.seq.Current()
	if err := s.seq.Advance(s.selection); err != nil {
		s.logger.Debug("advance refused", "category", from, "err", err)
		return err
	}
	s.logger.Debug("advanced", "from", from, "to", s.seq.Current())
	return nil
}

// JumpTo moves the cursor to c without gating.
func (s *Session) JumpTo(c catalog.Category) error {
	if err := s.seq.JumpTo(c); err != nil {
		return err
	}
	s.logger.Debug("jumped", "to", c)
	return nil
}

// Plan is a consistent snapshot of every view derived from the session state.
type Plan struct {
	Current     catalog.Category `json:"current"`
	Index       int              `json:"index"`
	Count       int              `json:"count"`
	CanAdvance  bool             `json:"can_advance"`
	Complete    bool             `json:"complete"`
	ActiveFrame string           `json:"active_frame,omitempty"`
	Layers      []Layer          `json:"layers"`
	Totals      Totals           `json:"totals"`
}

// Plan derives the render plan, totals and navigation state.
func (s *Session) Plan() Plan {
	frame := s.selection.ActiveFrame()
	return Plan{
		Current:     s.seq.Current(),
		Index:       s.seq.Index(),
		Count:       s.seq.Len(),
		CanAdvance:  s.seq.CanAdvance(s.selection),
		Complete:    s.seq.Complete(s.selection),
		ActiveFrame: frame,
		Layers:      BuildLayers(s.selection, frame),
		Totals:      ComputeTotals(s.selection),
	}
}
