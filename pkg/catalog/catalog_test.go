package catalog

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

func loadSample(t *testing.T) *Store {
	t.Helper()
	s := NewStore(nil)
	if err := s.LoadData(FormatJSON, []byte(sampleJSON)); err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	return s
}

func TestDecodeJSON(t *testing.T) {
	parts, err := DecodeJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(parts) != 5 {
		t.Fatalf("len(parts) = %d, want 5", len(parts))
	}

	frame := parts[0]
	if w, ok := frame.Weight.Get(); !ok || w != 950 {
		t.Errorf("frame weight = %v, %v, want 950, true", w, ok)
	}
	if frame.Positions == nil || frame.Positions.Default == nil {
		t.Fatal("frame default position not decoded")
	}
	if len(frame.Positions.ByFrame) != 0 {
		t.Errorf("default key leaked into ByFrame: %v", frame.Positions.ByFrame)
	}

	wheel := parts[2]
	if wheel.Price.Present() {
		t.Error("non-numeric price should decode as absent")
	}
	if r, ok := wheel.Positions.For("roadster"); !ok || r.Top != "390px" {
		t.Errorf("wheel roadster position = %v, %v", r, ok)
	}
	if parts[4].Weight.Present() {
		t.Error("null weight should decode as absent")
	}
}

func TestDecodeJSONWrapped(t *testing.T) {
	parts, err := DecodeJSON([]byte(`{"parts": [{"category": "frames", "manufacturer": "A", "model": "B"}]}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(parts) != 1 {
		t.Errorf("len(parts) = %d, want 1", len(parts))
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := map[string]string{
		"empty":         "",
		"truncated":     `[{"category": "frames"`,
		"scalar":        `42`,
		"no parts":      `{"items": []}`,
		"bad positions": `[{"category": "frames", "manufacturer": "A", "model": "B", "positions": [1, 2]}]`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(in))
			if !errors.Is(err, errors.ErrCodeLoad) {
				t.Errorf("DecodeJSON() error = %v, want LOAD_ERROR", err)
			}
		})
	}
}

func TestDecodeNumericPositions(t *testing.T) {
	data := []byte(`[{"category":"saddles","manufacturer":"Fizik","model":"Arione",
		"positions":{"default":{"top":0,"left":"42.5px","width":12.5,"height":null}}}]`)
	parts, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	got := *parts[0].Positions.Default
	want := geometry.Rect{Top: "0", Left: "42.5px", Width: "12.5"}
	if got != want {
		t.Errorf("Default = %+v, want %+v", got, want)
	}

	bad := []byte(`[{"category":"saddles","manufacturer":"A","model":"B","positions":{"default":{"top":true}}}]`)
	if _, err := DecodeJSON(bad); !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("DecodeJSON(boolean top) error = %v, want LOAD_ERROR", err)
	}
}

func TestDecodeTOML(t *testing.T) {
	parts, err := DecodeTOML([]byte(sampleTOML))
	if err != nil {
		t.Fatalf("DecodeTOML() error = %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2", len(parts))
	}
	if p, _ := parts[0].Price.Get(); p != 1800.5 {
		t.Errorf("price = %v, want 1800.5", p)
	}
	want := geometry.Rect{Top: "10%", Left: "5%", Width: "80%", Height: "60%"}
	if got := *parts[0].Positions.Default; got != want {
		t.Errorf("default position = %v, want %v", got, want)
	}
	if parts[1].Weight.Present() {
		t.Error("string weight should decode as absent")
	}
}

func TestDecodeYAML(t *testing.T) {
	parts, err := DecodeYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2", len(parts))
	}
	if r, ok := parts[0].Positions.For("roadster"); !ok || r.Left != "42.5px" {
		t.Errorf("roadster position = %v, %v", r, ok)
	}
	if parts[1].Currency != "USD" {
		t.Errorf("currency = %q, want USD", parts[1].Currency)
	}
}

func TestStoreLoadOnce(t *testing.T) {
	s := loadSample(t)
	err := s.Load([]Part{{Category: Frames, Manufacturer: "A", Model: "B"}})
	if !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("second Load() error = %v, want LOAD_ERROR", err)
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d after rejected reload, want 5", s.Len())
	}
}

func TestStoreLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		parts []Part
	}{
		{"absent payload", nil},
		{"missing category", []Part{{Manufacturer: "A", Model: "B"}}},
		{"missing model", []Part{{Category: Frames, Manufacturer: "A"}}},
		{"negative weight", []Part{{Category: Frames, Manufacturer: "A", Model: "B", Weight: Some(-1)}}},
		{"negative price", []Part{{Category: Saddles, Manufacturer: "A", Model: "B", Price: Some(-5)}}},
		{"bad slug", []Part{{Category: Frames, Manufacturer: "A", Model: "B", Slug: "Road Ster"}}},
		{"duplicate frame slug", []Part{
			{Category: Frames, Manufacturer: "A", Model: "B", Slug: "x"},
			{Category: Frames, Manufacturer: "C", Model: "D", Slug: "x"},
		}},
		{"reserved frame slug", []Part{{Category: Frames, Manufacturer: "A", Model: "B", Slug: "default"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			if err := s.Load(tt.parts); !errors.Is(err, errors.ErrCodeLoad) {
				t.Errorf("Load() error = %v, want LOAD_ERROR", err)
			}
			if s.Loaded() || s.Len() != 0 {
				t.Error("store should stay empty after a rejected load")
			}
			if got := s.ListByCategory(Frames); len(got) != 0 {
				t.Errorf("ListByCategory() = %v, want none", got)
			}
		})
	}
}

func TestStoreKeepsUnknownCategories(t *testing.T) {
	s := NewStore(nil)
	if err := s.Load([]Part{{Category: "pedals", Manufacturer: "Look", Model: "Keo"}}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := s.ListByCategory("pedals"); len(got) != 1 {
		t.Errorf("ListByCategory(pedals) = %d parts, want 1", len(got))
	}
}

func TestFilter(t *testing.T) {
	s := loadSample(t)

	tests := []struct {
		name   string
		query  Query
		models []string
	}{
		{"category only", Query{Category: Frames}, []string{"Roadster CF", "Aethos"}},
		{"all manufacturers", Query{Category: Frames, Manufacturer: AllManufacturers}, []string{"Roadster CF", "Aethos"}},
		{"manufacturer", Query{Category: Frames, Manufacturer: "Specialized"}, []string{"Aethos"}},
		{"manufacturer is exact", Query{Category: Frames, Manufacturer: "specialized"}, nil},
		{"search model", Query{Category: FrontWheel, Search: "arc"}, []string{"ARC 1100"}},
		{"all terms must match", Query{Category: FrontWheel, Search: "zipp arc"}, nil},
		{"terms across fields", Query{Category: FrontWheel, Search: "  ZIPP   firecrest "}, []string{"303 Firecrest"}},
		{"category text matches", Query{Category: FrontWheel, Search: "wheel"}, []string{"ARC 1100", "303 Firecrest"}},
		{"empty category", Query{Category: Handlebars}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Filter(tt.query)
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			var models []string
			for _, p := range got {
				models = append(models, p.Model)
			}
			if !slices.Equal(models, tt.models) {
				t.Errorf("Filter() = %v, want %v", models, tt.models)
			}
		})
	}
}

func TestFilterInvalidCategory(t *testing.T) {
	s := loadSample(t)
	if _, err := s.Filter(Query{Category: "pedals"}); !errors.Is(err, errors.ErrCodeInvalidCategory) {
		t.Errorf("Filter() error = %v, want INVALID_CATEGORY", err)
	}
}

func TestFilterEmptyStore(t *testing.T) {
	s := NewStore(nil)
	got, err := s.Filter(Query{Category: Frames})
	if err != nil || len(got) != 0 {
		t.Errorf("Filter() on empty store = %v, %v", got, err)
	}
}

func TestManufacturers(t *testing.T) {
	s := loadSample(t)
	want := []string{"Canyon", "DT Swiss", "Fizik", "Specialized", "Zipp"}
	if got := s.Manufacturers(); !slices.Equal(got, want) {
		t.Errorf("Manufacturers() = %v, want %v", got, want)
	}
}

func TestFind(t *testing.T) {
	s := loadSample(t)
	if p, ok := s.Find(Frames, "aethos"); !ok || p.Model != "Aethos" {
		t.Errorf("Find(slug) = %v, %v", p.Model, ok)
	}
	if p, ok := s.Find(FrontWheel, "arc 1100"); !ok || p.Manufacturer != "DT Swiss" {
		t.Errorf("Find(model) = %v, %v", p.Manufacturer, ok)
	}
	if _, ok := s.Find(Saddles, "aethos"); ok {
		t.Error("Find should be scoped to the category")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parts.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(nil)
	if err := s.LoadFrom(context.Background(), FileSource{Path: path}); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	missing := NewStore(nil)
	err := missing.LoadFrom(context.Background(), FileSource{Path: filepath.Join(dir, "nope.json")})
	if !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("LoadFrom(missing) error = %v, want LOAD_ERROR", err)
	}
}

func TestCategory(t *testing.T) {
	if got := FrontWheel.Title(); got != "Front Wheel" {
		t.Errorf("Title() = %q, want %q", got, "Front Wheel")
	}
	if got := Category("pedals").ZIndex(); got != UnknownZIndex {
		t.Errorf("ZIndex(unknown) = %d, want %d", got, UnknownZIndex)
	}
	if FrontWheel.ZIndex() != RearWheel.ZIndex() {
		t.Error("wheels should share a stacking tier")
	}
	if c, err := ParseCategory(" Front_Tire "); err != nil || c != FrontTire {
		t.Errorf("ParseCategory() = %v, %v", c, err)
	}
	if _, err := ParseCategory("pedals"); !errors.Is(err, errors.ErrCodeInvalidCategory) {
		t.Errorf("ParseCategory(pedals) error = %v", err)
	}
	seq := Sequence()
	if seq[0] != Frames || seq[len(seq)-1] != Handlebars || len(seq) != 15 {
		t.Errorf("Sequence() = %v", seq)
	}
	for _, c := range seq {
		if c.ZIndex() == UnknownZIndex {
			t.Errorf("%s has no z-table entry", c)
		}
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{
		{Category: Frames, Manufacturer: "Canyon", Model: "Roadster CF", Slug: "roadster"},
		{Category: Category("kickstands"), Manufacturer: "Ursus", Model: "Jumbo"},
	}
	s := NewStore(nil)
	if err := s.LoadFrom(context.Background(), src); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if got := s.ListByCategory(Category("kickstands")); len(got) != 1 {
		t.Errorf("ListByCategory(kickstands) = %d parts, want 1", len(got))
	}
	if _, err := s.Filter(Query{Category: Category("kickstands")}); !errors.Is(err, errors.ErrCodeInvalidCategory) {
		t.Errorf("Filter(kickstands) error = %v, want INVALID_CATEGORY", err)
	}
	if err := s.LoadFrom(context.Background(), src); !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("second LoadFrom() error = %v, want LOAD_ERROR", err)
	}
}
