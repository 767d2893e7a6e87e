package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/sourceflow/pkg/mermaid"
)

func TestToDOTShapesAndEdges(t *testing.T) {
	flow := mermaid.NewFlowchart()
	parent := flow.NewNode("m")
	parent.Shape = mermaid.ShapeHexagon
	left := flow.NewNode("l")
	right := flow.NewNode("r")
	right.Shape = mermaid.ShapeCylinder
	flow.AddNodes(parent, left, right)
	flow.AddPath(left, parent, "", mermaid.EdgeSolid)
	flow.AddPath(right, parent, "", mermaid.EdgeDashed)

	dot := ToDOT(flow)

	for _, want := range []string{
		`"100" [label="m", shape=hexagon];`,
		`"101" [label="l", shape=box];`,
		`"102" [label="r", shape=cylinder];`,
		`"101" -> "100";`,
		`"102" -> "100" [style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTEdgeLabels(t *testing.T) {
	flow := mermaid.NewFlowchart()
	a := flow.NewNode("a")
	b := flow.NewNode("b")
	flow.AddNodes(a, b)
	flow.AddPath(a, b, "feeds", mermaid.EdgeDashed)

	dot := ToDOT(flow)
	if !strings.Contains(dot, `"100" -> "101" [label="feeds", style=dashed];`) {
		t.Errorf("DOT missing labeled dashed edge:\n%s", dot)
	}
}

func TestToDOTUnknownShapeFallsBack(t *testing.T) {
	flow := mermaid.NewFlowchart()
	n := flow.NewNode("odd")
	n.Shape = mermaid.Shape{Open: "<", Close: ">"}
	flow.AddNode(n)

	if !strings.Contains(ToDOT(flow), "shape=box") {
		t.Error("unmapped shapes should fall back to box")
	}
}
