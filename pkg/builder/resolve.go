package builder

import (
	"fmt"

	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

// Tier names the rule that produced a part's rectangle.
type Tier int

const (
	// TierFrame: the part has a position for the active frame.
	TierFrame Tier = iota
	// TierDefault: the part's frame-independent default position.
	TierDefault
	// TierFallback: no positioning information; the part fills the canvas.
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierFrame:
		return "frame"
	case TierDefault:
		return "default"
	default:
		return "fallback"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "frame":
		*t = TierFrame
	case "default":
		*t = TierDefault
	case "fallback":
		*t = TierFallback
	default:
		return fmt.Errorf("unknown tier %q", text)
	}
	return nil
}

// Resolve returns the normalized rectangle p is drawn at when activeFrame is
// the selected frame's slug. Rules are tried in order, first match wins:
//
//  1. p has a position keyed by activeFrame (activeFrame non-empty)
//  2. p has a default position
//  3. the full canvas
//
// Fields missing from a matched rectangle are taken from the full canvas so
// the result is always complete.
func Resolve(p catalog.Part, activeFrame string) (geometry.Rect, Tier) {
	if r, ok := p.Positions.For(activeFrame); ok {
		return geometry.Normalize(r).Fill(geometry.Full), TierFrame
	}
	if p.Positions != nil && p.Positions.Default != nil {
		return geometry.Normalize(*p.Positions.Default).Fill(geometry.Full), TierDefault
	}
	return geometry.Full, TierFallback
}
