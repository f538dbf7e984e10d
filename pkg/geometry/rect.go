package geometry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reference canvas every pixel position in the catalog is measured against.
const (
	RefWidth  = 850.0
	RefHeight = 650.0
)

const (
	unitPercent = "%"
	unitPixel   = "px"
)

// Rect is a placement rectangle. Each field is a CSS-like length string,
// "12.5%" or "40px". An empty field is absent.
type Rect struct {
	Top    string `json:"top,omitempty" toml:"top" yaml:"top,omitempty" bson:"top,omitempty"`
	Left   string `json:"left,omitempty" toml:"left" yaml:"left,omitempty" bson:"left,omitempty"`
	Width  string `json:"width,omitempty" toml:"width" yaml:"width,omitempty" bson:"width,omitempty"`
	Height string `json:"height,omitempty" toml:"height" yaml:"height,omitempty" bson:"height,omitempty"`
}

// UnmarshalJSON accepts each field as a string or a bare number. Numbers
// carry no unit and are kept as written, so Normalize passes them through.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var raw struct {
		Top, Left, Width, Height json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := []struct {
		name string
		src  json.RawMessage
		dst  *string
	}{
		{"top", raw.Top, &r.Top},
		{"left", raw.Left, &r.Left},
		{"width", raw.Width, &r.Width},
		{"height", raw.Height, &r.Height},
	}
	*r = Rect{}
	for _, f := range fields {
		v, err := length(f.src)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return nil
}

func length(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("want a length string or number, got %s", raw)
}

// Full is the rectangle covering the whole canvas, used for parts without any
// positioning information.
var Full = Rect{Top: "0%", Left: "0%", Width: "100%", Height: "100%"}

// Normalize converts pixel fields to percentages of the reference canvas.
// Percentages, absent fields and values with any other unit pass through.
func Normalize(r Rect) Rect {
	return Rect{
		Top:    toPercent(r.Top, RefHeight),
		Left:   toPercent(r.Left, RefWidth),
		Width:  toPercent(r.Width, RefWidth),
		Height: toPercent(r.Height, RefHeight),
	}
}

func toPercent(v string, ref float64) string {
	if !strings.HasSuffix(v, unitPixel) {
		return v
	}
	px, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, unitPixel)), 64)
	if err != nil {
		return v
	}
	return fmt.Sprintf("%.3f%s", px/ref*100, unitPercent)
}

// Complete reports whether all four fields are present.
func (r Rect) Complete() bool {
	return r.Top != "" && r.Left != "" && r.Width != "" && r.Height != ""
}

// Fill returns r with every absent field taken from fallback.
func (r Rect) Fill(fallback Rect) Rect {
	if r.Top == "" {
		r.Top = fallback.Top
	}
	if r.Left == "" {
		r.Left = fallback.Left
	}
	if r.Width == "" {
		r.Width = fallback.Width
	}
	if r.Height == "" {
		r.Height = fallback.Height
	}
	return r
}

// Percent parses a percentage field into a fraction of 1.
// It reports false for absent or non-percentage values.
func Percent(v string) (float64, bool) {
	if !strings.HasSuffix(v, unitPercent) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, unitPercent)), 64)
	if err != nil {
		return 0, false
	}
	return f / 100, true
}

// Box is a rectangle in absolute units of some target surface.
type Box struct {
	X, Y, W, H float64
}

// Scale maps a normalized rectangle onto a surface of the given size.
// Absent or unparsable fields take their value from [Full].
func (r Rect) Scale(width, height float64) Box {
	r = r.Fill(Full)
	frac := func(v, fallback string) float64 {
		if f, ok := Percent(v); ok {
			return f
		}
		f, _ := Percent(fallback)
		return f
	}
	return Box{
		X: frac(r.Left, Full.Left) * width,
		Y: frac(r.Top, Full.Top) * height,
		W: frac(r.Width, Full.Width) * width,
		H: frac(r.Height, Full.Height) * height,
	}
}

// String renders the rectangle the way a stylesheet would.
func (r Rect) String() string {
	return fmt.Sprintf("top:%s left:%s width:%s height:%s", r.Top, r.Left, r.Width, r.Height)
}
