// Package render converts flowcharts to Graphviz output formats.
//
// Mermaid markup is the primary diagram format; this package exists for
// environments without a mermaid renderer, emitting DOT and rendering it to
// SVG through Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/mermaid"
)

// dotShapes maps mermaid shapes to Graphviz node attributes.
var dotShapes = map[mermaid.Shape]string{
	mermaid.ShapeRect:             "shape=box",
	mermaid.ShapeRounded:          "shape=box, style=rounded",
	mermaid.ShapeStadium:          "shape=box, style=rounded",
	mermaid.ShapeSubroutine:       "shape=component",
	mermaid.ShapeCylinder:         "shape=cylinder",
	mermaid.ShapeCircle:           "shape=circle",
	mermaid.ShapeAsymmetric:       "shape=cds",
	mermaid.ShapeRhombus:          "shape=diamond",
	mermaid.ShapeHexagon:          "shape=hexagon",
	mermaid.ShapeParallelogram:    "shape=parallelogram",
	mermaid.ShapeParallelogramAlt: "shape=parallelogram",
	mermaid.ShapeTrapezoid:        "shape=trapezium",
	mermaid.ShapeTrapezoidAlt:     "shape=invtrapezium",
}

// ToDOT converts a flowchart to Graphviz DOT. Node shapes are translated to
// their closest Graphviz equivalents and dashed paths keep their dashed
// style. The resulting string can be rendered with [ToSVG].
func ToDOT(flow *mermaid.Flowchart) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range flow.Nodes() {
		attrs, ok := dotShapes[n.Shape]
		if !ok {
			attrs = "shape=box"
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", n.ID(), n.Label, attrs)
	}

	buf.WriteString("\n")
	for _, e := range flow.Edges() {
		var attrs []string
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		if e.Style == mermaid.EdgeDashed {
			attrs = append(attrs, "style=dashed")
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = " [" + strings.Join(attrs, ", ") + "]"
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.From.ID(), e.To.ID(), suffix)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToSVG renders a DOT graph to SVG using Graphviz.
func ToSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return buf.Bytes(), nil
}
