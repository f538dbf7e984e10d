package render

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/cache"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

var frameRect = geometry.Rect{Top: "10%", Left: "5%", Width: "80%", Height: "60%"}

func samplePlan() builder.Plan {
	wheel := catalog.Part{Category: catalog.FrontWheel, Manufacturer: "Zipp", Model: "303 <Firecrest>",
		Weight: catalog.Some(1530), Price: catalog.Some(1300), Currency: "USD", Image: "wheels/zipp.png"}
	frame := catalog.Part{Category: catalog.Frames, Manufacturer: "Canyon", Model: "Roadster CF", Slug: "roadster",
		Weight: catalog.Some(950)}
	return builder.Plan{
		Current:     catalog.FrontWheel,
		Index:       1,
		Count:       15,
		CanAdvance:  true,
		ActiveFrame: "roadster",
		Layers: []builder.Layer{
			{Category: catalog.FrontWheel, Part: wheel, ZIndex: 5, Rect: geometry.Full, Tier: builder.TierFallback},
			{Category: catalog.Frames, Part: frame, ZIndex: 10, Rect: frameRect, Tier: builder.TierDefault},
		},
		Totals: builder.Totals{Weight: 2480, Price: 1300, Currency: "USD"},
	}
}

func TestLayerTitle(t *testing.T) {
	p := samplePlan()
	tests := []struct {
		layer builder.Layer
		want  string
	}{
		{p.Layers[0], "Front Wheel: Zipp 303 <Firecrest> | 1530 g | 1300 USD"},
		{p.Layers[1], "Frames: Canyon Roadster CF | 950 g | –"},
	}
	for _, tt := range tests {
		if got := LayerTitle(tt.layer); got != tt.want {
			t.Errorf("LayerTitle() = %q, want %q", got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(samplePlan(), WithAssetBase("/assets/")))

	for _, want := range []string{
		`viewBox="0 0 850 650"`,
		`<image href="/assets/wheels/zipp.png" x="0.00" y="0.00" width="850.00" height="650.00"`,
		`<rect x="42.50" y="65.00" width="680.00" height="390.00" fill="#8e44ad" fill-opacity="0.6"/>`,
		`303 &lt;Firecrest&gt;`,
		`data-tier="fallback"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q\n%s", want, svg)
		}
	}
	if strings.Index(svg, "layer-front_wheel") > strings.Index(svg, "layer-frames") {
		t.Error("wheel layer should be drawn before the frame")
	}
}

func TestRenderSVG_SizeAndRemoteAssets(t *testing.T) {
	plan := samplePlan()
	plan.Layers[0].Part.Image = "https://cdn.example.com/zipp.png"
	svg := string(RenderSVG(plan, WithSize(425, 325), WithAssetBase("/assets"), WithBackground("#fff")))

	for _, want := range []string{
		`viewBox="0 0 425 325"`,
		`href="https://cdn.example.com/zipp.png"`,
		`fill="#fff"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(samplePlan(), 0, 0)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Width != 850 || out.Height != 650 {
		t.Errorf("size = %vx%v, want 850x650", out.Width, out.Height)
	}
	if len(out.Layers) != 2 {
		t.Fatalf("len(Layers) = %d, want 2", len(out.Layers))
	}
	frame := out.Layers[1]
	if frame.Box != (jsonBox{X: 42.5, Y: 65, W: 680, H: 390}) {
		t.Errorf("frame box = %+v", frame.Box)
	}
	if frame.Swatch != "#8e44ad" || frame.Tier != builder.TierDefault {
		t.Errorf("frame layer = %+v", frame)
	}
	if out.Totals.WeightText != "2480 g" || out.Totals.PriceText != "1300 USD" {
		t.Errorf("totals = %+v", out.Totals)
	}
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestRenderPNG_Swatches(t *testing.T) {
	data, err := RenderPNG(context.Background(), samplePlan())
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img := decodePNG(t, data)
	if b := img.Bounds(); b.Dx() != 850 || b.Dy() != 650 {
		t.Errorf("bounds = %v, want 850x650", b)
	}
	// The wheel has no loader, so it is a full-canvas swatch.
	if alphaAt(img, 5, 5) == 0 {
		t.Error("pixel (5,5) should be covered by the wheel swatch")
	}
}

func TestRenderPNG_LoadsImages(t *testing.T) {
	dir := t.TempDir()
	red := imaging.New(10, 10, color.NRGBA{R: 255, A: 255})
	if err := imaging.Save(red, filepath.Join(dir, "red.png")); err != nil {
		t.Fatal(err)
	}
	plan := builder.Plan{Layers: []builder.Layer{{
		Category: catalog.Frames,
		Part:     catalog.Part{Category: catalog.Frames, Manufacturer: "A", Model: "B", Image: "red.png"},
		Rect:     geometry.Full,
	}}}

	data, err := RenderPNG(context.Background(), plan, WithLoader(DirLoader{Root: dir}))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img := decodePNG(t, data)

	r, g, _, a := img.At(425, 325).RGBA()
	if r>>8 < 200 || g>>8 > 50 || a == 0 {
		t.Errorf("center pixel = %v, want red", img.At(425, 325))
	}
	// A square image in a wide box is centered, leaving the sides empty.
	if alphaAt(img, 10, 325) != 0 {
		t.Error("left margin should stay transparent")
	}
}

func TestRenderPNG_OversizedRects(t *testing.T) {
	dir := t.TempDir()
	red := imaging.New(10, 10, color.NRGBA{R: 255, A: 255})
	if err := imaging.Save(red, filepath.Join(dir, "red.png")); err != nil {
		t.Fatal(err)
	}
	saddle := catalog.Part{Category: catalog.Saddles, Manufacturer: "Fizik", Model: "Arione"}
	framed := catalog.Part{Category: catalog.Frames, Manufacturer: "A", Model: "B", Image: "red.png"}

	tests := []struct {
		name  string
		layer builder.Layer
		x, y  int
		drawn bool
	}{
		{"swatch past the corner", builder.Layer{Category: catalog.Saddles, Part: saddle,
			Rect: geometry.Rect{Top: "90%", Left: "90%", Width: "2000%", Height: "2000%"}}, 800, 620, true},
		{"image around the canvas", builder.Layer{Category: catalog.Frames, Part: framed,
			Rect: geometry.Rect{Top: "-1000%", Left: "-1000%", Width: "2000%", Height: "2000%"}}, 425, 325, true},
		{"negative width", builder.Layer{Category: catalog.Saddles, Part: saddle,
			Rect: geometry.Rect{Top: "0%", Left: "50%", Width: "-40%", Height: "100%"}}, 300, 325, false},
		{"entirely off canvas", builder.Layer{Category: catalog.Saddles, Part: saddle,
			Rect: geometry.Rect{Top: "200%", Left: "200%", Width: "100000%", Height: "100000%"}}, 425, 325, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := builder.Plan{Layers: []builder.Layer{tt.layer}}

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			data, err := RenderPNG(context.Background(), plan, WithLoader(DirLoader{Root: dir}))
			runtime.ReadMemStats(&after)
			if err != nil {
				t.Fatalf("RenderPNG() error = %v", err)
			}

			// The canvas is about 2 MB; allocation must not follow the rect's area.
			if got := after.TotalAlloc - before.TotalAlloc; got > 64<<20 {
				t.Errorf("allocated %d MB, want allocation bounded by the canvas", got>>20)
			}
			if got := alphaAt(decodePNG(t, data), tt.x, tt.y) != 0; got != tt.drawn {
				t.Errorf("pixel (%d,%d) drawn = %v, want %v", tt.x, tt.y, got, tt.drawn)
			}
		})
	}
}

func TestRenderPNG_MissingAssetFallsBack(t *testing.T) {
	plan := samplePlan()
	data, err := RenderPNG(context.Background(), plan, WithLoader(DirLoader{Root: t.TempDir()}))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	if alphaAt(decodePNG(t, data), 5, 5) == 0 {
		t.Error("missing wheel image should fall back to its swatch")
	}
}

func TestRenderPNG_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RenderPNG(ctx, samplePlan()); err == nil {
		t.Error("RenderPNG() with cancelled context should fail")
	}
}

func TestDirLoader_Rejects(t *testing.T) {
	l := DirLoader{Root: t.TempDir()}
	tests := []struct {
		ref  string
		code errors.Code
	}{
		{"../secret.png", errors.ErrCodeInvalidInput},
		{"/etc/passwd", errors.ErrCodeInvalidInput},
		{"https://cdn.example.com/a.png", errors.ErrCodeUnsupported},
		{"missing.png", errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		if _, err := l.Load(context.Background(), tt.ref); !errors.Is(err, tt.code) {
			t.Errorf("Load(%q) error = %v, want %s", tt.ref, err, tt.code)
		}
	}
}

func TestHTTPLoader_CachesFetches(t *testing.T) {
	var buf bytes.Buffer
	imaging.Encode(&buf, imaging.New(4, 4, color.NRGBA{B: 255, A: 255}), imaging.PNG)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	l := Loaders{Remote: HTTPLoader{Client: srv.Client(), Cache: fc}}

	for range 2 {
		img, err := l.Load(context.Background(), srv.URL+"/blue.png")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if img.Bounds().Dx() != 4 {
			t.Errorf("width = %d, want 4", img.Bounds().Dx())
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}

	if _, err := l.Load(context.Background(), "local.png"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Load(local) without Local loader error = %v", err)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(samplePlan())
	for _, want := range []string{
		"digraph stack {",
		`"frames" [label="Frames\nCanyon Roadster CF\nz=10 (default)", fillcolor="#8e44ad"];`,
		`"frames" -> "front_wheel";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Index(dot, `"frames" [`) > strings.Index(dot, `"front_wheel" [`) {
		t.Error("topmost layer should be listed first")
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	if _, err := Render(ctx, "gif", samplePlan(), Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatDOT, FormatPNG} {
		data, err := Render(ctx, f, samplePlan(), Options{Width: 425, Height: 325})
		if err != nil || len(data) == 0 {
			t.Errorf("Render(%s) = %d bytes, %v", f, len(data), err)
		}
	}

	tests := map[string]string{
		FormatSVG:   "image/svg+xml",
		FormatStack: "image/svg+xml",
		FormatPNG:   "image/png",
		FormatJSON:  "application/json",
		FormatDOT:   "text/vnd.graphviz",
		"other":     "application/octet-stream",
	}
	for f, want := range tests {
		if got := ContentType(f); got != want {
			t.Errorf("ContentType(%s) = %s, want %s", f, got, want)
		}
	}
}

func TestRenderStackSVG(t *testing.T) {
	svg, err := RenderStackSVG(context.Background(), ToDOT(samplePlan()))
	if err != nil {
		t.Fatalf("RenderStackSVG() error = %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("output should be SVG")
	}
}
