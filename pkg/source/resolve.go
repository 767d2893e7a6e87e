package source

import (
	"sort"

	"github.com/matzehuels/sourceflow/pkg/errors"
)

// Resolve interprets a configuration and produces the dependency tree for
// key. It is a pure function of (config, key): no side effects, same tree
// for the same inputs.
//
// Failure modes:
//   - NOT_FOUND if key (or any referenced child key) is absent from config
//   - INVALID_CONFIG if a definition is malformed, declares an unknown
//     type, or the configuration references itself in a cycle
func Resolve(config Config, key string) (*Tree, error) {
	return resolve(config, key, nil)
}

// resolve recurses through the configuration. path holds the chain of
// composite keys currently being resolved; revisiting one of them means the
// configuration is cyclic, which fails fast instead of recursing until the
// stack runs out.
func resolve(config Config, key string, path []string) (*Tree, error) {
	for _, ancestor := range path {
		if ancestor == key {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"cycle detected: source %q references itself through %v", key, append(path, key))
		}
	}

	def, ok := config[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound,
			"source key %q was not found in the sources config", key)
	}

	switch def.Type {
	case TypeMapping:
		if def.Left == "" || def.Right == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"mapping source %q must declare left and right child keys", key)
		}
		childPath := append(path, key)
		left, err := resolve(config, def.Left, childPath)
		if err != nil {
			return nil, err
		}
		right, err := resolve(config, def.Right, childPath)
		if err != nil {
			return nil, err
		}
		return &Tree{Key: key, Node: Mapping{Left: left, Right: right}}, nil

	case TypeUnion:
		if len(def.Sources) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"union source %q must declare at least one member under sources", key)
		}
		members := make([]string, 0, len(def.Sources))
		for member := range def.Sources {
			members = append(members, member)
		}
		sort.Strings(members)

		childPath := append(path, key)
		children := make([]*Tree, 0, len(members))
		for _, member := range members {
			child, err := resolve(config, member, childPath)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return &Tree{Key: key, Node: Union{Children: children}}, nil

	case TypeMulti:
		if def.Original == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"multi source %q must declare an original child key", key)
		}
		original, err := resolve(config, def.Original, append(path, key))
		if err != nil {
			return nil, err
		}
		return &Tree{Key: key, Node: Multi{Original: original}}, nil

	case TypeUnionDirectory:
		return &Tree{Key: key, Node: Leaf{Kind: LeafUnionDirectory}}, nil

	case "":
		// Type is not mandatory for file and sql sources; the kind is
		// inferred from the connection config.
		if def.Connection == nil || def.Connection.Config == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"source %q has an invalid source config: missing connection config", key)
		}
		if _, ok := def.Connection.Config[fileTypeKey]; ok {
			return &Tree{Key: key, Node: Leaf{Kind: LeafFile}}, nil
		}
		return &Tree{Key: key, Node: Leaf{Kind: LeafSQL}}, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"source %q has invalid source type %q: must be one of sql, file, union_directory, mapping, union or multi",
			key, def.Type)
	}
}

// Keys returns the configuration's source keys in sorted order.
// Used by the serve index page and the interactive browser.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// KindLabel returns a short human-readable kind for a source key: the
// declared type when present, the inferred leaf kind otherwise, or "?" when
// the definition is malformed. Display-only; Resolve performs the real
// validation.
func (c Config) KindLabel(key string) string {
	def, ok := c[key]
	if !ok {
		return "?"
	}
	switch {
	case def.Type != "":
		return def.Type
	case def.Connection != nil && def.Connection.Config != nil:
		if _, ok := def.Connection.Config[fileTypeKey]; ok {
			return string(LeafFile)
		}
		return string(LeafSQL)
	default:
		return "?"
	}
}
