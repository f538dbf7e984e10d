package catalog

import (
	"slices"
	"strings"
	"unicode"

	"github.com/matzehuels/bikebuilder/pkg/errors"
)

// Category is one slot in the bicycle assembly taxonomy.
type Category string

// Known categories, in build order.
const (
	Frames         Category = "frames"
	FrontWheel     Category = "front_wheel"
	RearWheel      Category = "rear_wheel"
	FrontTire      Category = "front_tire"
	RearTire       Category = "rear_tire"
	FrontRotor     Category = "front_rotor"
	RearRotor      Category = "rear_rotor"
	FrontCaliper   Category = "front_caliper"
	RearCaliper    Category = "rear_caliper"
	Cassettes      Category = "cassettes"
	Cranksets      Category = "cranksets" // includes chain and front derailleur
	RearDerailleur Category = "rear_derailleurs"
	Saddles        Category = "saddles"
	Shifters       Category = "shifters"
	Handlebars     Category = "handlebars"
)

// sequence is the mandatory build order.
var sequence = []Category{
	Frames,
	FrontWheel,
	RearWheel,
	FrontTire,
	RearTire,
	FrontRotor,
	RearRotor,
	FrontCaliper,
	RearCaliper,
	Cassettes,
	Cranksets,
	RearDerailleur,
	Saddles,
	Shifters,
	Handlebars,
}

// UnknownZIndex is the stacking tier for categories missing from the z-table.
// They draw above everything else so they stay visible.
const UnknownZIndex = 999

// zTable is the stacking order, bottom to top. It is independent of the build
// order: rotors sit beneath calipers, beneath wheels, beneath tires, and the
// frame covers the wheel group while accessories cover the frame.
var zTable = map[Category]int{
	RearRotor:      1,
	FrontRotor:     2,
	RearCaliper:    3,
	FrontCaliper:   4,
	RearWheel:      5,
	FrontWheel:     5,
	RearTire:       6,
	FrontTire:      6,
	Cassettes:      9,
	Frames:         10,
	Saddles:        11,
	Handlebars:     12,
	Shifters:       13,
	Cranksets:      14,
	RearDerailleur: 15,
}

// swatches are drawn in place of a part image when the part has none.
var swatches = map[Category]string{
	Frames:         "#8e44ad",
	FrontWheel:     "#2980b9",
	RearWheel:      "#2980b9",
	FrontTire:      "#2c3e50",
	RearTire:       "#2c3e50",
	FrontRotor:     "#f1c40f",
	RearRotor:      "#f39c12",
	FrontCaliper:   "#d35400",
	RearCaliper:    "#e67e22",
	Cassettes:      "#d35400",
	Cranksets:      "#16a085",
	RearDerailleur: "#c0392b",
	Saddles:        "#95a5a6",
	Handlebars:     "#27ae60",
	Shifters:       "#34495e",
}

const defaultSwatch = "#666666"

// Sequence returns the build order. The returned slice is a copy.
func Sequence() []Category {
	return slices.Clone(sequence)
}

// ParseCategory resolves a category identifier. Surrounding whitespace and
// case are ignored; anything outside the fixed set is an INVALID_CATEGORY error.
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	if !c.Known() {
		return "", errors.InvalidCategory(name)
	}
	return c, nil
}

// Known reports whether c is part of the build sequence.
func (c Category) Known() bool {
	return slices.Contains(sequence, c)
}

// Index returns the position of c in the build sequence, or -1.
func (c Category) Index() int {
	return slices.Index(sequence, c)
}

// ZIndex returns the stacking tier of c.
func (c Category) ZIndex() int {
	if z, ok := zTable[c]; ok {
		return z
	}
	return UnknownZIndex
}

// Color returns the fallback swatch for parts of c without an image.
func (c Category) Color() string {
	if s, ok := swatches[c]; ok {
		return s
	}
	return defaultSwatch
}

// Title returns a display label: "front_wheel" becomes "Front Wheel".
func (c Category) Title() string {
	words := strings.Fields(strings.ReplaceAll(string(c), "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func (c Category) String() string { return string(c) }
