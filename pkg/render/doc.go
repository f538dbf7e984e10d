// Package render turns a [builder.Plan] into output artifacts.
//
// # Overview
//
// The engine decides geometry and stacking order only; this package draws it:
//
//   - SVG: one group per layer, bottom to top, with the part image (or the
//     category swatch when the part has none) placed at its resolved rectangle
//   - PNG: the same composition rasterized with imaging, pulling images
//     through an [AssetLoader]
//   - JSON: the plan plus absolute boxes and display strings, for external
//     front ends
//   - DOT: a Graphviz diagram of the layer stack, useful when debugging
//     z-order problems
//
// Use [Render] to dispatch on a format name:
//
//	data, err := render.Render(ctx, render.FormatSVG, plan, render.Options{})
//
// # Canvas
//
// Rectangles are percentages of the canvas, so any output size works. The
// default canvas is the 850x650 reference size the catalog is authored
// against.
//
// [builder.Plan]: github.com/matzehuels/bikebuilder/pkg/builder.Plan
package render
