package render

import (
	"bytes"
	"context"
	"image"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

// swatchOpacity matches the fill-opacity of SVG swatches.
const swatchOpacity = 0.6

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width, height int
	loader        AssetLoader
	logger        *log.Logger
}

// WithPNGSize sets the output size in pixels.
func WithPNGSize(w, h int) PNGOption {
	return func(r *pngRenderer) {
		if w > 0 && h > 0 {
			r.width, r.height = w, h
		}
	}
}

// WithLoader sets the image source. Without one every layer is a swatch.
func WithLoader(l AssetLoader) PNGOption { return func(r *pngRenderer) { r.loader = l } }

// WithPNGLogger reports image load failures.
func WithPNGLogger(l *log.Logger) PNGOption {
	return func(r *pngRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// RenderPNG composites the plan onto a transparent canvas. Each image is
// scaled to fit inside its rectangle preserving aspect ratio and centered. Layers
// whose image is missing or fails to load are drawn as swatches; cancellation
// of ctx aborts the render.
func RenderPNG(ctx context.Context, plan builder.Plan, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{
		width:  int(geometry.RefWidth),
		height: int(geometry.RefHeight),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(&r)
	}

	canvas := imaging.New(r.width, r.height, image.Transparent)
	for _, l := range plan.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		canvas = r.drawLayer(ctx, canvas, l)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) drawLayer(ctx context.Context, canvas *image.NRGBA, l builder.Layer) *image.NRGBA {
	b := l.Rect.Scale(float64(r.width), float64(r.height))
	box := image.Rectangle{
		Min: image.Pt(pixel(b.X), pixel(b.Y)),
		Max: image.Pt(pixel(b.X+b.W), pixel(b.Y+b.H)),
	}
	if box.Empty() {
		return canvas
	}
	visible := box.Intersect(canvas.Bounds())
	if visible.Empty() {
		return canvas
	}

	if l.Part.Image != "" && r.loader != nil {
		img, err := r.loader.Load(ctx, l.Part.Image)
		if err == nil {
			if fitted, at, ok := contain(img, box, canvas.Bounds()); ok {
				return imaging.Overlay(canvas, fitted, at, 1.0)
			}
			return canvas
		}
		r.logger.Warn("asset unavailable, drawing swatch", "category", l.Category, "image", l.Part.Image, "err", err)
	}

	swatch := imaging.New(visible.Dx(), visible.Dy(), parseHex(l.Swatch()))
	return imaging.Overlay(canvas, swatch, visible.Min, swatchOpacity)
}

// maxCoord bounds pixel coordinates so absurd percentages cannot overflow int.
const maxCoord = 1 << 24

func pixel(v float64) int {
	return int(math.Round(math.Max(-maxCoord, math.Min(maxCoord, v))))
}

// contain scales img up or down to the largest size that fits box, centered
// in it, and returns only the part that falls inside clip along with where
// to draw it. Output size is bounded by clip, never by box.
func contain(img image.Image, box, clip image.Rectangle) (*image.NRGBA, image.Point, bool) {
	sb := img.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return nil, image.Point{}, false
	}
	scale := math.Min(float64(box.Dx())/float64(sb.Dx()), float64(box.Dy())/float64(sb.Dy()))
	nw := max(1, int(math.Round(float64(sb.Dx())*scale)))
	nh := max(1, int(math.Round(float64(sb.Dy())*scale)))
	origin := image.Pt(box.Min.X+(box.Dx()-nw)/2, box.Min.Y+(box.Dy()-nh)/2)
	dst := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(nw, nh))}

	visible := dst.Intersect(clip)
	if visible.Empty() {
		return nil, image.Point{}, false
	}
	if visible == dst {
		return imaging.Resize(img, nw, nh, imaging.Lanczos), dst.Min, true
	}

	// Map the visible window back onto the source and resize only that crop.
	src := image.Rect(
		sb.Min.X+int(math.Floor(float64(visible.Min.X-dst.Min.X)/scale)),
		sb.Min.Y+int(math.Floor(float64(visible.Min.Y-dst.Min.Y)/scale)),
		sb.Min.X+int(math.Ceil(float64(visible.Max.X-dst.Min.X)/scale)),
		sb.Min.Y+int(math.Ceil(float64(visible.Max.Y-dst.Min.Y)/scale)),
	).Intersect(sb)
	if src.Empty() {
		return nil, image.Point{}, false
	}
	crop := imaging.Crop(img, src)
	return imaging.Resize(crop, visible.Dx(), visible.Dy(), imaging.Lanczos), visible.Min, true
}
