package mermaid

import (
	"strings"
	"testing"

	"github.com/matzehuels/sourceflow/pkg/errors"
)

func TestNodeIdentityAllocation(t *testing.T) {
	chart := NewFlowchart(WithAllocator(NewIDAllocator(100)))

	a := chart.NewNode("a")
	b := chart.NewNode("b")
	c := chart.NewNode("c")

	if a.ID() != "100" || b.ID() != "101" || c.ID() != "102" {
		t.Errorf("ids = %s, %s, %s, want 100, 101, 102", a.ID(), b.ID(), c.ID())
	}
}

func TestSharedAllocatorNeverCollides(t *testing.T) {
	ids := NewIDAllocator(500)
	one := NewFlowchart(WithAllocator(ids))
	two := NewFlowchart(WithAllocator(ids))

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		for _, n := range []*Node{one.NewNode("x"), two.NewNode("y")} {
			if seen[n.ID()] {
				t.Fatalf("duplicate identity %s", n.ID())
			}
			seen[n.ID()] = true
		}
	}
}

func TestSetShapeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		want Shape
	}{
		{"rounded", ShapeRounded},
		{"stadium", ShapeStadium},
		{"subroutine", ShapeSubroutine},
		{"cylinder", ShapeCylinder},
		{"circle", ShapeCircle},
		{"asymmetric", ShapeAsymmetric},
		{"rhombus", ShapeRhombus},
		{"hexagon", ShapeHexagon},
		{"parallelogram", ShapeParallelogram},
		{"parallelogram_alt", ShapeParallelogramAlt},
		{"trapezoid", ShapeTrapezoid},
		{"trapezoid_alt", ShapeTrapezoidAlt},
	}

	chart := NewFlowchart()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := chart.NewNode("n")
			if _, err := n.SetShape(tt.name); err != nil {
				t.Fatalf("SetShape(%q) error: %v", tt.name, err)
			}
			if n.Shape != tt.want {
				t.Errorf("shape = %+v, want %+v", n.Shape, tt.want)
			}

			// Raw round trip: the delimiter string produced by the named
			// table must be accepted by SetShapeRaw.
			m := chart.NewNode("m")
			if _, err := m.SetShapeRaw(tt.want.String()); err != nil {
				t.Fatalf("SetShapeRaw(%q) error: %v", tt.want.String(), err)
			}
			if m.Shape != tt.want {
				t.Errorf("raw shape = %+v, want %+v", m.Shape, tt.want)
			}
		})
	}
}

func TestSetShapeUnknownName(t *testing.T) {
	chart := NewFlowchart()
	n := chart.NewNode("n")

	_, err := n.SetShape("blob")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("SetShape error = %v, want NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "hexagon") {
		t.Errorf("error should list valid options, got %q", err.Error())
	}
	if n.Shape != ShapeRect {
		t.Errorf("failed SetShape must leave the shape unchanged, got %+v", n.Shape)
	}
}

func TestSetShapeRawRejectsUnknownDelimiters(t *testing.T) {
	chart := NewFlowchart()

	for _, raw := range []string{"", "[", "[x]", "<<>>", "[]", "{{}", "((("} {
		n := chart.NewNode("n")
		if _, err := n.SetShapeRaw(raw); !errors.Is(err, errors.ErrCodeInvalidShape) {
			t.Errorf("SetShapeRaw(%q) error = %v, want INVALID_SHAPE", raw, err)
		}
	}
}

func TestSetStyle(t *testing.T) {
	tests := []struct {
		name string
		opts StyleOptions
		want string
	}{
		{
			name: "AllFields",
			opts: StyleOptions{Fill: "#f9f", Stroke: "#333", StrokeWidth: 4, StrokeDasharray: []int{5, 5}},
			want: "style 100 fill:#f9f, stroke:#333, stroke-width:4px, stroke-dasharray: 5 5",
		},
		{
			name: "FillOnly",
			opts: StyleOptions{Fill: "#fff"},
			want: "style 100 fill:#fff",
		},
		{
			name: "StrokeWidthOnly",
			opts: StyleOptions{StrokeWidth: 2},
			want: "style 100 stroke-width:2px",
		},
		{
			name: "Empty",
			opts: StyleOptions{},
			want: "style 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := NewFlowchart(WithAllocator(NewIDAllocator(100)))
			n := chart.NewNode("n").SetStyle(tt.opts)
			if n.Style() != tt.want {
				t.Errorf("Style() = %q, want %q", n.Style(), tt.want)
			}
		})
	}
}

func TestMarkupOrdering(t *testing.T) {
	chart := NewFlowchart(WithAllocator(NewIDAllocator(100)))

	start := chart.NewNode("Start")
	if _, err := start.SetShape("rounded"); err != nil {
		t.Fatal(err)
	}
	start.SetStyle(StyleOptions{Fill: "#fff"})
	mid := chart.NewNode("Middle")
	end := chart.NewNode("End")
	if _, err := end.SetShape("stadium"); err != nil {
		t.Fatal(err)
	}

	chart.AddNodes(start, mid, end)
	chart.AddPath(start, mid, "", EdgeSolid)
	chart.AddPath(mid, end, "next", EdgeDashed)
	chart.AddFnClick(mid, "showDetails", " ")
	chart.AddHrefClick(end, "https://example.com/end", "_blank")

	want := strings.Join([]string{
		"graph TD",
		"100(Start)",
		"style 100 fill:#fff",
		"101[Middle]",
		"102([End])",
		"100 -->101",
		"101 -.->|next|102",
		`click 101 call showDetails " "`,
		`click 102 "https://example.com/end" _blank`,
	}, "\n")

	if got := chart.Markup(); got != want {
		t.Errorf("Markup() =\n%s\nwant:\n%s", got, want)
	}
}

func TestHrefTooltipQuoting(t *testing.T) {
	chart := NewFlowchart(WithAllocator(NewIDAllocator(100)))
	n := chart.NewNode("n")
	chart.AddNode(n)
	chart.AddHrefClick(n, "https://example.com", "open docs")

	want := `click 100 "https://example.com" "open docs" _blank`
	if got := chart.Markup(); !strings.Contains(got, want) {
		t.Errorf("Markup() = %q, want it to contain %q", got, want)
	}
}

func TestClickDirectivesFollowLastAddOrder(t *testing.T) {
	chart := NewFlowchart(WithAllocator(NewIDAllocator(100)))
	a := chart.NewNode("a")
	b := chart.NewNode("b")
	chart.AddNodes(a, b)

	chart.AddHrefClick(a, "https://example.com/first", "_blank")
	chart.AddHrefClick(b, "https://example.com/b", "_blank")
	// Re-adding a's href moves it behind b's and replaces the URL.
	chart.AddHrefClick(a, "https://example.com/second", "_blank")

	markup := chart.Markup()
	if strings.Contains(markup, "first") {
		t.Error("overwritten href directive still present")
	}
	bIdx := strings.Index(markup, `click 101`)
	aIdx := strings.Index(markup, `click 100`)
	if aIdx < bIdx {
		t.Errorf("re-added directive should be emitted last:\n%s", markup)
	}
}

func TestMarkupDeterministic(t *testing.T) {
	build := func() string {
		chart := NewFlowchart(WithAllocator(NewIDAllocator(42)))
		a := chart.NewNode("a")
		b := chart.NewNode("b")
		chart.AddNodes(a, b)
		chart.AddPath(a, b, "", EdgeSolid)
		return chart.Markup()
	}

	if build() != build() {
		t.Error("identical inputs with identical allocator starts must serialize identically")
	}
}

func TestOrientationHeader(t *testing.T) {
	chart := NewFlowchart(WithOrientation("LR"))
	if !strings.HasPrefix(chart.Markup(), "graph LR") {
		t.Errorf("Markup() = %q, want graph LR header", chart.Markup())
	}
}
