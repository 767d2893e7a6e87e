// Package chart turns resolved dependency trees into mermaid flowcharts.
//
// Every source becomes a node whose shape encodes its kind, and every
// parent/child relation becomes an edge pointing from the dependency to the
// source built from it. A companion legend explains the encoding.
package chart

import (
	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/mermaid"
	"github.com/matzehuels/sourceflow/pkg/source"
)

// leafShapes maps leaf source kinds to their node shapes.
var leafShapes = map[source.LeafKind]mermaid.Shape{
	source.LeafFile:           mermaid.ShapeRect,
	source.LeafSQL:            mermaid.ShapeCylinder,
	source.LeafUnionDirectory: mermaid.ShapeSubroutine,
}

// compositeShape is the shape of every mapping, union and multi node.
var compositeShape = mermaid.ShapeHexagon

// Build walks a resolved dependency tree and adds its nodes and edges to
// chart. Edges point from each dependency to the source built from it; the
// right branch of a mapping is drawn dashed when it is a leaf, every other
// edge is solid. The chart is mutated in place and returned for chaining.
//
// Fails INVALID_TREE if the tree carries an unknown leaf kind or a nil
// variant.
func Build(chart *mermaid.Flowchart, tree *source.Tree) (*mermaid.Flowchart, error) {
	if err := build(chart, tree, nil, false); err != nil {
		return nil, err
	}
	return chart, nil
}

func build(chart *mermaid.Flowchart, tree *source.Tree, parent *mermaid.Node, rightBranch bool) error {
	if tree == nil || tree.Node == nil {
		return errors.New(errors.ErrCodeInvalidTree,
			"dependency tree node is missing its variant")
	}

	switch node := tree.Node.(type) {
	case source.Leaf:
		shape, ok := leafShapes[node.Kind]
		if !ok {
			return errors.New(errors.ErrCodeInvalidTree,
				"leaf source %q has unknown kind %q: must be one of file, sql or union_directory",
				tree.Key, node.Kind)
		}
		leaf := chart.NewNode(tree.Key)
		leaf.Shape = shape
		chart.AddNode(leaf)
		if parent != nil {
			style := mermaid.EdgeSolid
			if rightBranch {
				style = mermaid.EdgeDashed
			}
			chart.AddPath(leaf, parent, "", style)
		}
		return nil

	case source.Mapping:
		root := addComposite(chart, tree.Key, parent)
		if err := build(chart, node.Left, root, false); err != nil {
			return err
		}
		return build(chart, node.Right, root, true)

	case source.Union:
		root := addComposite(chart, tree.Key, parent)
		for _, child := range node.Children {
			if err := build(chart, child, root, false); err != nil {
				return err
			}
		}
		return nil

	case source.Multi:
		root := addComposite(chart, tree.Key, parent)
		return build(chart, node.Original, root, false)

	default:
		return errors.New(errors.ErrCodeInvalidTree,
			"source %q has an unsupported tree variant %T", tree.Key, tree.Node)
	}
}

// addComposite adds a hexagon node for a composite source and, when the
// composite is itself a child, a solid edge up to its parent. Composite
// edges are always solid; the dashed style marks only leaf right branches.
func addComposite(chart *mermaid.Flowchart, key string, parent *mermaid.Node) *mermaid.Node {
	node := chart.NewNode(key)
	node.Shape = compositeShape
	chart.AddNode(node)
	if parent != nil {
		chart.AddPath(node, parent, "", mermaid.EdgeSolid)
	}
	return node
}

// Markup resolves key against config, builds its dependency chart and
// returns the serialized markup. Convenience wrapper used by the CLI and
// the HTTP server.
func Markup(config source.Config, key string) (string, error) {
	tree, err := source.Resolve(config, key)
	if err != nil {
		return "", err
	}
	flow, err := Build(mermaid.NewFlowchart(), tree)
	if err != nil {
		return "", err
	}
	return flow.Markup(), nil
}
