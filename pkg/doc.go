// Package pkg provides the libraries behind bikebuilder, a bicycle part
// selection and compositing engine.
//
// # Overview
//
// A catalog of parts is loaded once. A session then walks a fixed sequence of
// categories (frames first, handlebars last), records one part per category
// and derives a layered render plan with running weight and price totals.
// The plan is rendered as SVG, PNG, JSON or a Graphviz stack diagram.
//
// # Architecture
//
//	Catalog file / Postgres / MongoDB
//	         ↓
//	    [catalog] package (decode, validate, filter)
//	         ↓
//	    [builder] package (selection, sequencing, layers, totals)
//	         ↓
//	    [render] package (SVG, PNG, JSON, DOT)
//
// # Quick Start
//
//	store := catalog.NewStore(nil)
//	if err := store.LoadFrom(ctx, catalog.FileSource{Path: "parts.json"}); err != nil {
//	    return err
//	}
//
//	sess := builder.NewSession(store, nil)
//	sess.SelectKey(catalog.Frames, "roadster")
//	sess.Advance()
//
//	svg := render.RenderSVG(sess.Plan())
//
// # Main Packages
//
// [geometry] - Position rectangles, pixel to percent conversion against the
// 850x650 reference canvas.
//
// [catalog] - Parts, categories with their z-index and swatch tables, the
// catalog store and its file and database sources.
//
// [builder] - Session state: selection, sequencer, position resolution,
// layers and totals, exposed together as a [builder.Plan].
//
// [render] - Output formats and image asset loading.
//
// ## Infrastructure
//
// [cache] - Artifact and asset caching (file, Redis, null) keyed by plan hash.
//
// [server] - HTTP API over concurrent builder sessions, with Prometheus metrics.
//
// [httputil] - Retrying HTTP fetches for remote part images.
//
// [observability] - Hooks for render, cache and session events.
//
// [errors] - Structured errors with machine-readable codes.
//
// [buildinfo] - Version information set at build time.
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/geometry
// [catalog]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/catalog
// [builder]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/builder
// [builder.Plan]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/builder#Plan
// [render]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/server
// [httputil]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/bikebuilder/pkg/buildinfo
package pkg
