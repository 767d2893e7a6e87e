package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/sourceflow/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "sources.yaml", `
orders:
  type: mapping
  left: orders_raw
  right: orders_db
orders_raw:
  connection:
    config:
      file_type: csv
orders_db:
  connection:
    config: {}
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(cfg) != 3 {
		t.Fatalf("len(cfg) = %d, want 3", len(cfg))
	}
	if cfg["orders"].Type != TypeMapping || cfg["orders"].Left != "orders_raw" {
		t.Errorf("orders = %+v, want mapping of orders_raw/orders_db", cfg["orders"])
	}

	tree, err := Resolve(cfg, "orders")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	mapping, ok := tree.Node.(Mapping)
	if !ok {
		t.Fatalf("node = %T, want Mapping", tree.Node)
	}
	if mapping.Left.Node.(Leaf).Kind != LeafFile {
		t.Error("orders_raw should infer the file kind from file_type")
	}
	if mapping.Right.Node.(Leaf).Kind != LeafSQL {
		t.Error("orders_db should infer the sql kind")
	}
}

func TestLoadFileTOML(t *testing.T) {
	path := writeConfig(t, "sources.toml", `
[events]
type = "union"

[events.sources]
clicks = ""
views = ""

[clicks.connection.config]
file_type = "parquet"

[views.connection.config]
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	tree, err := Resolve(cfg, "events")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	union, ok := tree.Node.(Union)
	if !ok {
		t.Fatalf("node = %T, want Union", tree.Node)
	}
	if len(union.Children) != 2 {
		t.Fatalf("union children = %d, want 2", len(union.Children))
	}
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeConfig(t, "empty.yml", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg == nil || len(cfg) != 0 {
		t.Errorf("empty file should load as an empty config, got %v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantCode errors.Code
	}{
		{
			name:     "UnknownExtension",
			path:     func(t *testing.T) string { return writeConfig(t, "sources.json", "{}") },
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name: "MissingFile",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.yaml")
			},
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "MalformedYAML",
			path:     func(t *testing.T) string { return writeConfig(t, "bad.yaml", "a: [unclosed") },
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "MalformedTOML",
			path:     func(t *testing.T) string { return writeConfig(t, "bad.toml", "= broken") },
			wantCode: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path(t))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("LoadFile() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}
