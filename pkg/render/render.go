package render

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
	"github.com/matzehuels/bikebuilder/pkg/observability"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"

	// FormatStack is the DOT stack diagram laid out by Graphviz as SVG.
	FormatStack = "stack"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT, FormatStack}

// ValidateFormat checks that f is a supported format.
func ValidateFormat(f string) error {
	for _, known := range Formats {
		if f == known {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(Formats, ", "))
}

// ContentType returns the MIME type for a format.
func ContentType(f string) string {
	switch f {
	case FormatSVG, FormatStack:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// Options configures [Render].
type Options struct {
	Width, Height int         // canvas size; defaults to the reference canvas
	AssetBase     string      // URL prefix for relative image references (SVG)
	Loader        AssetLoader // image source for PNG; nil draws swatches only
	Logger        *log.Logger
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = int(geometry.RefWidth)
	}
	if h <= 0 {
		h = int(geometry.RefHeight)
	}
	return w, h
}

// Render produces the artifact for format.
func Render(ctx context.Context, format string, plan builder.Plan, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format, len(plan.Layers))
	start := time.Now()

	w, h := opts.size()
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = RenderSVG(plan, WithSize(w, h), WithAssetBase(opts.AssetBase))
	case FormatPNG:
		data, err = RenderPNG(ctx, plan, WithPNGSize(w, h), WithLoader(opts.Loader), WithPNGLogger(opts.Logger))
	case FormatJSON:
		data, err = RenderJSON(plan, w, h)
	case FormatDOT:
		data = []byte(ToDOT(plan))
	case FormatStack:
		data, err = RenderStackSVG(ctx, ToDOT(plan))
	}

	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// parseHex parses "#rrggbb" swatch colors. Malformed input yields mid gray.
func parseHex(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
