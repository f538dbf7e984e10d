// Package builder is the part selection and visual compositing engine.
//
// A [Session] walks the fixed category sequence of a bicycle build, records
// one chosen part per category and derives everything a presentation layer
// needs from that state:
//
//   - [Resolve] picks the rectangle a part is drawn at for the active frame,
//     trying the frame-specific position, then the part's default position,
//     then the full canvas.
//   - [BuildLayers] stacks the selected parts by the category z-table.
//   - [ComputeTotals] sums weight and price and reports the first currency.
//
// [Session.Plan] computes all derived views from a single snapshot after a
// mutation has fully applied, so layers, totals and advance eligibility never
// disagree.
//
// # Concurrency
//
// The engine is synchronous. A Session assumes one caller at a time; servers
// that share sessions across goroutines must serialize access (see
// pkg/server). The catalog [catalog.Store] is read-only after loading and may be
// shared freely.
//
// # Example
//
//	store := catalog.NewStore(logger)
//	if err := store.LoadFrom(ctx, catalog.FileSource{Path: "parts.json"}); err != nil {
//	    return err
//	}
//	s := builder.NewSession(store, logger)
//	frames, _ := s.Candidates("", "")
//	_ = s.Select(frames[0])
//	_ = s.Advance()
//	plan := s.Plan()
package builder
