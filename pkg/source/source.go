// Package source defines declarative source configurations and resolves
// them into dependency trees.
//
// A configuration maps source keys to definitions. Simple sources (file,
// sql, union_directory) are leaves; composite sources (mapping, union,
// multi) reference other sources by key. Resolve interprets a configuration
// recursively, producing an explicit tree of tagged variants that the chart
// builder walks without any runtime shape inspection.
package source

// Source type tags as they appear in configurations.
const (
	TypeMapping        = "mapping"
	TypeUnion          = "union"
	TypeMulti          = "multi"
	TypeUnionDirectory = "union_directory"
)

// LeafKind classifies a simple (non-composite) source.
type LeafKind string

// Leaf kinds.
const (
	LeafFile           LeafKind = "file"
	LeafSQL            LeafKind = "sql"
	LeafUnionDirectory LeafKind = "union_directory"
)

// Config maps source keys to their definitions. It is the read-only input
// to Resolve; nothing in this package mutates it.
type Config map[string]Definition

// Definition describes a single source. Type is optional for file and sql
// sources, whose kind is inferred from the connection config. Composite
// types carry kind-specific child references.
type Definition struct {
	// Type is the declared source type, one of the Type* constants.
	// Empty means a leaf whose kind is inferred from Connection.
	Type string `koanf:"type" toml:"type" bson:"type,omitempty"`

	// Left and Right are the child keys of a mapping source. Right is the
	// distinguished branch for edge styling.
	Left  string `koanf:"left" toml:"left" bson:"left,omitempty"`
	Right string `koanf:"right" toml:"right" bson:"right,omitempty"`

	// Sources holds the members of a union source. Only the keys matter
	// for topology; the per-member values are ignored.
	Sources map[string]any `koanf:"sources" toml:"sources" bson:"sources,omitempty"`

	// Original is the child key of a multi source.
	Original string `koanf:"original" toml:"original" bson:"original,omitempty"`

	// Connection carries the connection configuration used to infer the
	// kind of untyped leaf sources.
	Connection *Connection `koanf:"connection" toml:"connection" bson:"connection,omitempty"`
}

// Connection is the nested connection configuration of a leaf source.
type Connection struct {
	Config map[string]any `koanf:"config" toml:"config" bson:"config,omitempty"`
}

// fileTypeKey marks a file source inside a connection config.
const fileTypeKey = "file_type"

// Tree is one level of a resolved dependency tree: a single root source key
// and its variant. Leaf nodes never have children; composite nodes always
// carry a correctly shaped, non-empty nested structure.
type Tree struct {
	Key  string
	Node Node
}

// Node is the tagged union of dependency tree variants:
// Leaf, Mapping, Union, or Multi.
type Node interface {
	isNode()
}

// Leaf is a simple source with no children.
type Leaf struct {
	Kind LeafKind
}

// Mapping joins two sources; Right is the distinguished branch.
type Mapping struct {
	Left  *Tree
	Right *Tree
}

// Union merges any number of member sources. Children are ordered by key so
// diagrams are deterministic.
type Union struct {
	Children []*Tree
}

// Multi wraps an original source.
type Multi struct {
	Original *Tree
}

func (Leaf) isNode()    {}
func (Mapping) isNode() {}
func (Union) isNode()   {}
func (Multi) isNode()   {}
