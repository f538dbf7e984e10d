package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

// Part is one catalog entry. Parts are immutable once loaded into a [Store];
// callers must not modify the Positions maps they receive.
type Part struct {
	Category     Category   `json:"category"`
	Manufacturer string     `json:"manufacturer"`
	Model        string     `json:"model"`
	Slug         string     `json:"slug,omitempty"`
	Weight       Measure    `json:"weight"`
	Price        Measure    `json:"price"`
	Currency     string     `json:"currency,omitempty"`
	Image        string     `json:"image,omitempty"`
	Positions    *Positions `json:"positions,omitempty"`
}

// Name returns "Manufacturer Model".
func (p Part) Name() string {
	return p.Manufacturer + " " + p.Model
}

// Key identifies the part within its category: the slug when set, otherwise
// the model name.
func (p Part) Key() string {
	if p.Slug != "" {
		return p.Slug
	}
	return p.Model
}

// =============================================================================
// Measure
// =============================================================================

// Measure is an optional non-negative quantity (grams, currency units).
// The zero value is absent.
type Measure struct {
	value float64
	ok    bool
}

// Some returns a present measure.
func Some(v float64) Measure { return Measure{value: v, ok: true} }

// None returns an absent measure.
func None() Measure { return Measure{} }

// Get returns the value and whether it is present.
func (m Measure) Get() (float64, bool) { return m.value, m.ok }

// Present reports whether the measure carries a number.
func (m Measure) Present() bool { return m.ok }

// Or returns the value, or def when absent.
func (m Measure) Or(def float64) float64 {
	if m.ok {
		return m.value
	}
	return def
}

// UnmarshalJSON accepts a JSON number. Any other JSON value (null, a string,
// a boolean) leaves the measure absent rather than failing the whole catalog.
func (m *Measure) UnmarshalJSON(data []byte) error {
	*m = Measure{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*m = Some(v)
	return nil
}

// MarshalJSON writes the number, or null when absent.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.value, 'f', -1, 64)), nil
}

func (m Measure) String() string {
	if !m.ok {
		return "–"
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// =============================================================================
// Positions
// =============================================================================

// defaultKey is the wire key holding the frame-independent rectangle.
const defaultKey = "default"

// Positions holds where a part is drawn. ByFrame maps a frame slug to the
// rectangle to use when that frame is active; Default applies to any other
// frame. Either may be empty.
type Positions struct {
	ByFrame map[string]geometry.Rect
	Default *geometry.Rect
}

// For returns the rectangle registered for frame, if any.
func (p *Positions) For(frame string) (geometry.Rect, bool) {
	if p == nil || frame == "" {
		return geometry.Rect{}, false
	}
	r, ok := p.ByFrame[frame]
	return r, ok
}

// Frames returns the frame slugs with explicit rectangles, sorted.
func (p *Positions) Frames() []string {
	if p == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(p.ByFrame))
}

// UnmarshalJSON decodes the catalog shape, a single object keyed by frame slug
// with an optional "default" entry.
func (p *Positions) UnmarshalJSON(data []byte) error {
	var raw map[string]geometry.Rect
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	*p = Positions{}
	for k, r := range raw {
		if k == defaultKey {
			r := r
			p.Default = &r
			continue
		}
		if p.ByFrame == nil {
			p.ByFrame = make(map[string]geometry.Rect, len(raw))
		}
		p.ByFrame[k] = r
	}
	return nil
}

// MarshalJSON writes the catalog shape back out.
func (p Positions) MarshalJSON() ([]byte, error) {
	raw := make(map[string]geometry.Rect, len(p.ByFrame)+1)
	for k, r := range p.ByFrame {
		raw[k] = r
	}
	if p.Default != nil {
		raw[defaultKey] = *p.Default
	}
	return json.Marshal(raw)
}
