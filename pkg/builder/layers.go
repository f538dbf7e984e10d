package builder

import (
	"cmp"
	"slices"

	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

// Layer is one part placed in the composited bike.
type Layer struct {
	Category catalog.Category `json:"category"`
	Part     catalog.Part     `json:"part"`
	ZIndex   int              `json:"z_index"`
	Rect     geometry.Rect    `json:"rect"`
	Tier     Tier             `json:"tier"`
}

// Swatch returns the color drawn when the part has no image.
func (l Layer) Swatch() string { return l.Category.Color() }

// stacked returns the selection entries sorted bottom to top. The sort is
// stable, so categories sharing a tier keep their selection order.
func stacked(sel *Selection) []Entry {
	entries := sel.Entries()
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Category.ZIndex(), b.Category.ZIndex())
	})
	return entries
}

// BuildLayers returns one layer per selected category, ordered by ascending
// z-index. Lower layers draw first.
func BuildLayers(sel *Selection, activeFrame string) []Layer {
	entries := stacked(sel)
	layers := make([]Layer, 0, len(entries))
	for _, e := range entries {
		rect, tier := Resolve(e.Part, activeFrame)
		layers = append(layers, Layer{
			Category: e.Category,
			Part:     e.Part,
			ZIndex:   e.Category.ZIndex(),
			Rect:     rect,
			Tier:     tier,
		})
	}
	return layers
}
