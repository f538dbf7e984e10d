package render

import (
	"encoding/json"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

type jsonOutput struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Current     catalog.Category `json:"current"`
	Index       int              `json:"index"`
	Count       int              `json:"count"`
	CanAdvance  bool             `json:"can_advance"`
	Complete    bool             `json:"complete"`
	ActiveFrame string           `json:"active_frame,omitempty"`
	Layers      []jsonLayer      `json:"layers"`
	Totals      jsonTotals       `json:"totals"`
}

type jsonLayer struct {
	Category     catalog.Category `json:"category"`
	Title        string           `json:"title"`
	Manufacturer string           `json:"manufacturer"`
	Model        string           `json:"model"`
	Slug         string           `json:"slug,omitempty"`
	Image        string           `json:"image,omitempty"`
	Swatch       string           `json:"swatch"`
	ZIndex       int              `json:"z_index"`
	Tier         builder.Tier     `json:"tier"`
	Rect         geometry.Rect    `json:"rect"`
	Box          jsonBox          `json:"box"`
}

type jsonBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonTotals struct {
	Weight     float64 `json:"weight"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency,omitempty"`
	WeightText string  `json:"weight_text"`
	PriceText  string  `json:"price_text"`
}

// RenderJSON serializes the plan with absolute boxes for a width x height
// canvas and preformatted totals.
func RenderJSON(plan builder.Plan, width, height int) ([]byte, error) {
	w, h := float64(width), float64(height)
	if w <= 0 || h <= 0 {
		w, h = geometry.RefWidth, geometry.RefHeight
	}
	out := jsonOutput{
		Width:       w,
		Height:      h,
		Current:     plan.Current,
		Index:       plan.Index,
		Count:       plan.Count,
		CanAdvance:  plan.CanAdvance,
		Complete:    plan.Complete,
		ActiveFrame: plan.ActiveFrame,
		Layers:      make([]jsonLayer, 0, len(plan.Layers)),
		Totals: jsonTotals{
			Weight:     plan.Totals.Weight,
			Price:      plan.Totals.Price,
			Currency:   plan.Totals.Currency,
			WeightText: plan.Totals.WeightText(),
			PriceText:  plan.Totals.PriceText(),
		},
	}
	for _, l := range plan.Layers {
		b := l.Rect.Scale(w, h)
		out.Layers = append(out.Layers, jsonLayer{
			Category:     l.Category,
			Title:        LayerTitle(l),
			Manufacturer: l.Part.Manufacturer,
			Model:        l.Part.Model,
			Slug:         l.Part.Slug,
			Image:        l.Part.Image,
			Swatch:       l.Swatch(),
			ZIndex:       l.ZIndex,
			Tier:         l.Tier,
			Rect:         l.Rect,
			Box:          jsonBox{X: b.X, Y: b.Y, W: b.W, H: b.H},
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
