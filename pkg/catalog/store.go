package catalog

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bikebuilder/pkg/errors"
)

// AllManufacturers disables the manufacturer constraint in a [Query].
const AllManufacturers = "all"

// Store holds the parts available for a session. It is loaded exactly once
// and read-only afterwards, so concurrent readers need no locking.
type Store struct {
	parts  []Part
	loaded bool
	logger *log.Logger
}

// NewStore creates an empty store. If logger is nil, log.Default() is used.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{logger: logger}
}

// Load validates parts and makes them the catalog. It may succeed only once.
// Validation is all-or-nothing: on error the store stays empty.
func (s *Store) Load(parts []Part) error {
	if s.loaded {
		return errors.New(errors.ErrCodeLoad, "catalog already loaded")
	}
	if parts == nil {
		return errors.New(errors.ErrCodeLoad, "catalog payload is absent")
	}
	if err := validate(parts); err != nil {
		s.logger.Warn("catalog rejected", "err", err)
		return err
	}

	s.parts = slices.Clone(parts)
	s.loaded = true
	s.logger.Debug("catalog loaded", "parts", len(s.parts), "manufacturers", len(s.Manufacturers()))
	return nil
}

// LoadData decodes data in the given format and loads the result.
func (s *Store) LoadData(format string, data []byte) error {
	parts, err := Decode(format, data)
	if err != nil {
		s.logger.Warn("catalog rejected", "format", format, "err", err)
		return err
	}
	return s.Load(parts)
}

func validate(parts []Part) error {
	frames := make(map[string]int)
	for i, p := range parts {
		switch {
		case strings.TrimSpace(string(p.Category)) == "":
			return errors.New(errors.ErrCodeLoad, "part %d: missing category", i)
		case strings.TrimSpace(p.Manufacturer) == "":
			return errors.New(errors.ErrCodeLoad, "part %d: missing manufacturer", i)
		case strings.TrimSpace(p.Model) == "":
			return errors.New(errors.ErrCodeLoad, "part %d: missing model", i)
		case p.Weight.Or(0) < 0:
			return errors.New(errors.ErrCodeLoad, "part %d (%s): negative weight", i, p.Name())
		case p.Price.Or(0) < 0:
			return errors.New(errors.ErrCodeLoad, "part %d (%s): negative price", i, p.Name())
		}
		if p.Slug != "" {
			if err := errors.ValidateSlug(p.Slug); err != nil {
				return errors.Load(err, "part %d (%s)", i, p.Name())
			}
		}
		if p.Category == Frames && p.Slug == defaultKey {
			return errors.New(errors.ErrCodeLoad, "part %d (%s): frame slug %q is reserved for default positions", i, p.Name(), p.Slug)
		}
		if p.Category == Frames && p.Slug != "" {
			if j, dup := frames[p.Slug]; dup {
				return errors.New(errors.ErrCodeLoad, "part %d: frame slug %q already used by part %d", i, p.Slug, j)
			}
			frames[p.Slug] = i
		}
	}
	return nil
}

// Loaded reports whether Load has succeeded.
func (s *Store) Loaded() bool { return s.loaded }

// Len returns the number of parts.
func (s *Store) Len() int { return len(s.parts) }

// Parts returns every part in catalog order.
func (s *Store) Parts() []Part { return slices.Clone(s.parts) }

// ListByCategory returns the parts of c in catalog order.
func (s *Store) ListByCategory(c Category) []Part {
	var out []Part
	for _, p := range s.parts {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Query narrows a category listing.
type Query struct {
	Category     Category
	Manufacturer string // exact match; "" or "all" disables
	Search       string // whitespace-separated terms, all must match
}

// Filter returns the parts matching q in catalog order. Every search term must
// appear, case-insensitively, in the manufacturer, model or category of a part.
// A category outside the build sequence is an INVALID_CATEGORY error.
func (s *Store) Filter(q Query) ([]Part, error) {
	if !q.Category.Known() {
		return nil, errors.InvalidCategory(string(q.Category))
	}
	terms := strings.Fields(strings.ToLower(q.Search))

	var out []Part
	for _, p := range s.parts {
		if p.Category != q.Category {
			continue
		}
		if q.Manufacturer != "" && q.Manufacturer != AllManufacturers && p.Manufacturer != q.Manufacturer {
			continue
		}
		if !matchesAll(p, terms) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matchesAll(p Part, terms []string) bool {
	fields := [...]string{
		strings.ToLower(p.Manufacturer),
		strings.ToLower(p.Model),
		strings.ToLower(string(p.Category)),
	}
	for _, t := range terms {
		hit := false
		for _, f := range fields {
			if strings.Contains(f, t) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Manufacturers returns the distinct manufacturers, sorted.
func (s *Store) Manufacturers() []string {
	var out []string
	for _, p := range s.parts {
		out = append(out, p.Manufacturer)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Find looks up a part of category c by slug or, failing that, by model name
// (case-insensitive).
func (s *Store) Find(c Category, key string) (Part, bool) {
	for _, p := range s.parts {
		if p.Category == c && p.Slug != "" && p.Slug == key {
			return p, true
		}
	}
	for _, p := range s.parts {
		if p.Category == c && strings.EqualFold(p.Model, key) {
			return p, true
		}
	}
	return Part{}, false
}
