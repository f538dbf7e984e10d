package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bikebuilder/pkg/builder"
)

// ToDOT describes the layer stack as a Graphviz digraph: one node per layer,
// topmost first, with an edge from each layer to the one it covers.
func ToDOT(plan builder.Plan) string {
	var buf bytes.Buffer
	buf.WriteString("digraph stack {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, fontcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("\n")

	layers := plan.Layers
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		label := fmt.Sprintf("%s\n%s\nz=%d (%s)", l.Category.Title(), l.Part.Name(), l.ZIndex, l.Tier)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", string(l.Category), label, l.Swatch())
	}

	if len(layers) > 1 {
		buf.WriteString("\n")
	}
	for i := len(layers) - 1; i > 0; i-- {
		fmt.Fprintf(&buf, "  %q -> %q;\n", string(layers[i].Category), string(layers[i-1].Category))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderStackSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderStackSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
