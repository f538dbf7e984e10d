package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	assetBase     string
	background    string
}

// WithSize sets the output canvas size in pixels.
func WithSize(w, h int) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 && h > 0 {
			r.width, r.height = float64(w), float64(h)
		}
	}
}

// WithAssetBase prefixes relative image references, e.g. "/assets/".
// Remote references are left untouched.
func WithAssetBase(base string) SVGOption { return func(r *svgRenderer) { r.assetBase = base } }

// WithBackground fills the canvas before drawing layers.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: geometry.RefWidth, height: geometry.RefHeight}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the plan's layers bottom to top. A part without an image is
// drawn as a translucent rectangle in its category's swatch color.
func RenderSVG(plan builder.Plan, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}
	for _, l := range plan.Layers {
		r.renderLayer(&buf, l)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderLayer(buf *bytes.Buffer, l builder.Layer) {
	b := l.Rect.Scale(r.width, r.height)
	fmt.Fprintf(buf, `  <g id="layer-%s" class="part-layer" data-z="%d" data-tier="%s">`+"\n",
		html.EscapeString(string(l.Category)), l.ZIndex, l.Tier)
	fmt.Fprintf(buf, "    <title>%s</title>\n", html.EscapeString(LayerTitle(l)))
	if l.Part.Image != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid meet"/>`+"\n",
			html.EscapeString(r.assetURL(l.Part.Image)), b.X, b.Y, b.W, b.H)
	} else {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.6"/>`+"\n",
			b.X, b.Y, b.W, b.H, l.Swatch())
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) assetURL(ref string) string {
	if r.assetBase == "" || errors.IsRemoteAsset(ref) {
		return ref
	}
	return strings.TrimSuffix(r.assetBase, "/") + "/" + strings.TrimPrefix(ref, "/")
}

// LayerTitle is the hover text for a layer, e.g.
// "Frames: Trek Domane | 1100 g | 2500 USD".
func LayerTitle(l builder.Layer) string {
	return fmt.Sprintf("%s: %s | %s | %s",
		l.Category.Title(), l.Part.Name(), builder.FormatWeight(l.Part.Weight), builder.FormatPrice(l.Part))
}
