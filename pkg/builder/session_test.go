package builder

import (
	"testing"

	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/geometry"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	wheelDefault := geometry.Rect{Top: "55%", Left: "58%", Width: "30%", Height: "40%"}
	store := catalog.NewStore(nil)
	err := store.Load([]catalog.Part{
		roadster(),
		{Category: catalog.Frames, Manufacturer: "Specialized", Model: "Aethos", Slug: "aethos",
			Weight: catalog.Some(585), Price: catalog.Some(4200), Currency: "USD"},
		{Category: catalog.FrontWheel, Manufacturer: "Zipp", Model: "303 Firecrest",
			Weight: catalog.Some(1530), Price: catalog.Some(1300), Currency: "USD",
			Positions: &catalog.Positions{
				ByFrame: map[string]geometry.Rect{"aethos": {Top: "325px", Left: "425px", Width: "30%", Height: "40%"}},
				Default: &wheelDefault,
			}},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return NewSession(store, nil)
}

func TestSessionFlow(t *testing.T) {
	s := newTestSession(t)

	frames, err := s.Candidates("", "")
	if err != nil || len(frames) != 2 {
		t.Fatalf("Candidates() = %d parts, %v", len(frames), err)
	}
	if err := s.Advance(); !errors.Is(err, errors.ErrCodeIneligibleAdvance) {
		t.Errorf("Advance() before select error = %v", err)
	}

	if _, err := s.SelectKey(catalog.Frames, "aethos"); err != nil {
		t.Fatalf("SelectKey() error = %v", err)
	}
	plan := s.Plan()
	if !plan.CanAdvance || plan.ActiveFrame != "aethos" || len(plan.Layers) != 1 {
		t.Errorf("Plan() after frame = %+v", plan)
	}

	if err := s.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	wheels, err := s.Candidates("all", "zipp")
	if err != nil || len(wheels) != 1 {
		t.Fatalf("Candidates(zipp) = %v, %v", wheels, err)
	}
	if err := s.Select(wheels[0]); err != nil {
		t.Fatal(err)
	}

	plan = s.Plan()
	if plan.Current != catalog.FrontWheel || plan.Index != 1 || plan.Count != 15 {
		t.Errorf("Plan() cursor = %v/%d/%d", plan.Current, plan.Index, plan.Count)
	}
	if plan.Complete {
		t.Error("Plan().Complete = true with two categories chosen")
	}
	wheel := plan.Layers[0]
	if wheel.Category != catalog.FrontWheel || wheel.Tier != TierFrame {
		t.Errorf("bottom layer = %v/%v, want front_wheel/frame", wheel.Category, wheel.Tier)
	}
	if wheel.Rect.Top != "50.000%" || wheel.Rect.Left != "50.000%" {
		t.Errorf("wheel rect = %v", wheel.Rect)
	}
	if plan.Totals != (Totals{Weight: 2115, Price: 5500, Currency: "USD"}) {
		t.Errorf("Totals = %+v", plan.Totals)
	}

	// Switching frames re-resolves every layer against the new frame.
	if _, err := s.SelectKey(catalog.Frames, "roadster"); err != nil {
		t.Fatal(err)
	}
	plan = s.Plan()
	if plan.Layers[0].Tier != TierDefault {
		t.Errorf("wheel tier after frame change = %v, want default", plan.Layers[0].Tier)
	}
}

func TestSessionJumpKeepsSelections(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SelectKey(catalog.Frames, "roadster"); err != nil {
		t.Fatal(err)
	}
	if err := s.JumpTo(catalog.Saddles); err != nil {
		t.Fatal(err)
	}
	if err := s.JumpTo(catalog.Frames); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Selected(catalog.Frames); !ok {
		t.Error("frame selection lost after jumping around")
	}
	if err := s.JumpTo("pedals"); !errors.Is(err, errors.ErrCodeInvalidCategory) {
		t.Errorf("JumpTo(pedals) error = %v", err)
	}
	if s.Current() != catalog.Frames {
		t.Errorf("Current() = %v, want frames", s.Current())
	}
}

func TestSessionSelectKeyMissing(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SelectKey(catalog.Saddles, "nothing"); !errors.Is(err, errors.ErrCodePartNotFound) {
		t.Errorf("SelectKey() error = %v, want PART_NOT_FOUND", err)
	}
	if err := s.Select(catalog.Part{Model: "orphan"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Select(no category) error = %v, want INVALID_INPUT", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a := newTestSession(t)
	b := NewSession(a.Catalog(), nil)
	if _, err := a.SelectKey(catalog.Frames, "roadster"); err != nil {
		t.Fatal(err)
	}
	if b.Plan().ActiveFrame != "" || len(b.Plan().Layers) != 0 {
		t.Error("selection leaked between sessions")
	}
}
