package chart

import "github.com/matzehuels/sourceflow/pkg/mermaid"

// Legend returns the two key charts that explain a dependency diagram: one
// mapping node shapes to source kinds, one showing how composite builds are
// drawn. Both charts are freshly built on every call.
func Legend() (nodes, paths *mermaid.Flowchart) {
	return nodeKey(), pathKey()
}

func nodeKey() *mermaid.Flowchart {
	chart := mermaid.NewFlowchart()

	file := chart.NewNode("File source")
	sql := chart.NewNode("SQL source")
	sql.Shape = mermaid.ShapeCylinder
	unionDir := chart.NewNode("Union of a directory")
	unionDir.Shape = mermaid.ShapeSubroutine
	combined := chart.NewNode("Combined source")
	combined.Shape = mermaid.ShapeHexagon

	chart.AddNodes(file, sql, unionDir, combined)
	return chart
}

func pathKey() *mermaid.Flowchart {
	chart := mermaid.NewFlowchart()

	mapped := chart.NewNode("Mapped source")
	mapped.Shape = mermaid.ShapeHexagon
	fileLeft := chart.NewNode("File source left")
	sqlRight := chart.NewNode("SQL source right")
	sqlRight.Shape = mermaid.ShapeCylinder
	chart.AddNodes(mapped, fileLeft, sqlRight)
	chart.AddPath(fileLeft, mapped, "", mermaid.EdgeSolid)
	chart.AddPath(sqlRight, mapped, "", mermaid.EdgeDashed)

	unioned := chart.NewNode("Unioned source")
	unioned.Shape = mermaid.ShapeHexagon
	unionDir := chart.NewNode("Union directory")
	unionDir.Shape = mermaid.ShapeSubroutine
	sqlUnion := chart.NewNode("SQL")
	sqlUnion.Shape = mermaid.ShapeCylinder
	chart.AddNodes(unioned, unionDir, sqlUnion)
	chart.AddPath(unionDir, unioned, "", mermaid.EdgeSolid)
	chart.AddPath(sqlUnion, unioned, "", mermaid.EdgeSolid)

	multi := chart.NewNode("Multi source")
	multi.Shape = mermaid.ShapeHexagon
	original := chart.NewNode("Original SQL source")
	original.Shape = mermaid.ShapeCylinder
	chart.AddNodes(multi, original)
	chart.AddPath(original, multi, "", mermaid.EdgeSolid)

	return chart
}
