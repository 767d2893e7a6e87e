package chart

import (
	"strings"
	"testing"

	"github.com/matzehuels/sourceflow/pkg/mermaid"
)

func TestLegendNodeKey(t *testing.T) {
	nodes, _ := Legend()

	if len(nodes.Nodes()) != 4 || len(nodes.Edges()) != 0 {
		t.Fatalf("node key has %d nodes / %d edges, want 4 / 0", len(nodes.Nodes()), len(nodes.Edges()))
	}

	want := strings.Join([]string{
		"graph TD",
		"100[File source]",
		"101[(SQL source)]",
		"102[[Union of a directory]]",
		"103{{Combined source}}",
	}, "\n")
	if got := nodes.Markup(); got != want {
		t.Errorf("Markup() = %q, want %q", got, want)
	}
}

func TestLegendPathKey(t *testing.T) {
	_, paths := Legend()

	if len(paths.Nodes()) != 8 || len(paths.Edges()) != 5 {
		t.Fatalf("path key has %d nodes / %d edges, want 8 / 5", len(paths.Nodes()), len(paths.Edges()))
	}

	dashed := 0
	for _, edge := range paths.Edges() {
		if edge.Style == mermaid.EdgeDashed {
			dashed++
			if edge.From.Label != "SQL source right" {
				t.Errorf("dashed edge from %q, want the mapping right branch", edge.From.Label)
			}
		}
	}
	if dashed != 1 {
		t.Errorf("path key has %d dashed edges, want exactly 1", dashed)
	}
}

func TestLegendChartsAreFresh(t *testing.T) {
	first, _ := Legend()
	second, _ := Legend()
	if first == second {
		t.Fatal("Legend() should build fresh charts per call")
	}
	if first.Markup() != second.Markup() {
		t.Error("legend content should be identical across calls")
	}
}
