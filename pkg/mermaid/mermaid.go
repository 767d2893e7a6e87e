// Package mermaid provides a small model for building mermaid flowchart
// markup: nodes with shapes and styles, directed paths between them, and
// click directives, serialized to the textual mermaid grammar.
//
// A Flowchart owns its nodes and its identity allocator. Node identities are
// numeric, monotonically increasing, and never reused; the allocator is
// atomic, so a single allocator may be shared by charts built concurrently
// without identity collisions.
//
// # Example
//
//	chart := mermaid.NewFlowchart()
//	start := chart.NewNode("Start")
//	end := chart.NewNode("End")
//	start.SetShape("rounded")
//	chart.AddNodes(start, end)
//	chart.AddPath(start, end, "", mermaid.EdgeSolid)
//	fmt.Println(chart.Markup())
package mermaid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/matzehuels/sourceflow/pkg/errors"
)

// =============================================================================
// Shapes
// =============================================================================

// Shape is a pair of opening/closing mermaid delimiter strings. Keeping the
// two halves explicit means serialization never has to split a raw delimiter
// string at its midpoint, so unpaired shape strings cannot slip through.
type Shape struct {
	Open  string
	Close string
}

// String returns the concatenated delimiter pair, e.g. "[()]" for a cylinder.
func (s Shape) String() string { return s.Open + s.Close }

// Canonical shapes.
var (
	ShapeRect             = Shape{"[", "]"}
	ShapeRounded          = Shape{"(", ")"}
	ShapeStadium          = Shape{"([", "])"}
	ShapeSubroutine       = Shape{"[[", "]]"}
	ShapeCylinder         = Shape{"[(", ")]"}
	ShapeCircle           = Shape{"((", "))"}
	ShapeAsymmetric       = Shape{">", "]"}
	ShapeRhombus          = Shape{"{", "}"}
	ShapeHexagon          = Shape{"{{", "}}"}
	ShapeParallelogram    = Shape{"[/", "/]"}
	ShapeParallelogramAlt = Shape{"[\\", "\\]"}
	ShapeTrapezoid        = Shape{"[/", "\\]"}
	ShapeTrapezoidAlt     = Shape{"[\\", "/]"}
)

// shapesByName maps shape names to their delimiter pairs.
var shapesByName = map[string]Shape{
	"rounded":           ShapeRounded,
	"stadium":           ShapeStadium,
	"subroutine":        ShapeSubroutine,
	"cylinder":          ShapeCylinder,
	"circle":            ShapeCircle,
	"asymmetric":        ShapeAsymmetric,
	"rhombus":           ShapeRhombus,
	"hexagon":           ShapeHexagon,
	"parallelogram":     ShapeParallelogram,
	"parallelogram_alt": ShapeParallelogramAlt,
	"trapezoid":         ShapeTrapezoid,
	"trapezoid_alt":     ShapeTrapezoidAlt,
}

// ShapeByName looks up a shape by its mermaid name.
// Returns a NOT_FOUND error listing the valid options for unknown names.
func ShapeByName(name string) (Shape, error) {
	shape, ok := shapesByName[name]
	if !ok {
		return Shape{}, errors.New(errors.ErrCodeNotFound,
			"shape %q does not exist; available options are: %s", name, strings.Join(shapeNames(), ", "))
	}
	return shape, nil
}

// ShapeFromDelimiters parses a raw delimiter string (e.g. "[()]") into a
// Shape. Only the delimiter pairs produced by the named-shape table are
// accepted; anything else (including odd-length strings) is an
// INVALID_SHAPE error rather than a best-effort midpoint split.
func ShapeFromDelimiters(raw string) (Shape, error) {
	for _, shape := range shapesByName {
		if shape.String() == raw {
			return shape, nil
		}
	}
	return Shape{}, errors.New(errors.ErrCodeInvalidShape,
		"shape string %q is not valid; valid options are: %s", raw, strings.Join(shapeDelimiters(), ", "))
}

func shapeNames() []string {
	names := make([]string, 0, len(shapesByName))
	for name := range shapesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func shapeDelimiters() []string {
	delims := make([]string, 0, len(shapesByName))
	for _, shape := range shapesByName {
		delims = append(delims, shape.String())
	}
	sort.Strings(delims)
	return delims
}

// =============================================================================
// Identity Allocation
// =============================================================================

// DefaultStartID is the first node identity handed out by a fresh allocator.
const DefaultStartID = 100

// IDAllocator hands out monotonically increasing numeric node identities.
// Identities are never reused. The allocator is safe for concurrent use.
type IDAllocator struct {
	next atomic.Int64
}

// NewIDAllocator creates an allocator whose first identity is start.
func NewIDAllocator(start int64) *IDAllocator {
	a := &IDAllocator{}
	a.next.Store(start)
	return a
}

// Next returns a fresh identity.
func (a *IDAllocator) Next() string {
	return strconv.FormatInt(a.next.Add(1)-1, 10)
}

// =============================================================================
// Node
// =============================================================================

// Node is a single flowchart node: an allocator-assigned identity, a display
// label, a shape, and an optional style directive. Nodes are created through
// a Flowchart (which supplies the identity) and owned by the chart that adds
// them; edges and click directives reference nodes by identity only.
type Node struct {
	id    string
	Label string
	Shape Shape
	style string // rendered "style <id> ..." directive, empty if unset
}

// ID returns the node's identity.
func (n *Node) ID() string { return n.id }

// SetShape sets the node's shape by mermaid name. Options: rounded, stadium,
// subroutine, cylinder, circle, asymmetric, rhombus, hexagon, parallelogram,
// parallelogram_alt, trapezoid, trapezoid_alt.
// Returns the node for chaining and a NOT_FOUND error for unknown names.
func (n *Node) SetShape(name string) (*Node, error) {
	shape, err := ShapeByName(name)
	if err != nil {
		return n, err
	}
	n.Shape = shape
	return n, nil
}

// SetShapeRaw sets the node's shape from a raw mermaid delimiter string.
// Returns the node for chaining and an INVALID_SHAPE error if the string is
// not one of the known delimiter pairs.
func (n *Node) SetShapeRaw(raw string) (*Node, error) {
	shape, err := ShapeFromDelimiters(raw)
	if err != nil {
		return n, err
	}
	n.Shape = shape
	return n, nil
}

// StyleOptions are the optional fields of a mermaid style directive.
// Zero-valued fields are omitted from the directive entirely.
type StyleOptions struct {
	Fill            string // hex fill colour
	Stroke          string // hex stroke colour
	StrokeWidth     int    // border thickness in px
	StrokeDasharray []int  // border dash pattern
}

// SetStyle builds the node's style directive from the non-zero option
// fields. Returns the node for chaining.
func (n *Node) SetStyle(opts StyleOptions) *Node {
	var b strings.Builder
	fmt.Fprintf(&b, "style %s", n.id)
	if opts.Fill != "" {
		fmt.Fprintf(&b, " fill:%s,", opts.Fill)
	}
	if opts.Stroke != "" {
		fmt.Fprintf(&b, " stroke:%s,", opts.Stroke)
	}
	if opts.StrokeWidth != 0 {
		fmt.Fprintf(&b, " stroke-width:%dpx,", opts.StrokeWidth)
	}
	if len(opts.StrokeDasharray) != 0 {
		parts := make([]string, len(opts.StrokeDasharray))
		for i, v := range opts.StrokeDasharray {
			parts[i] = strconv.Itoa(v)
		}
		fmt.Fprintf(&b, " stroke-dasharray: %s,", strings.Join(parts, " "))
	}
	n.style = strings.TrimSuffix(b.String(), ",")
	return n
}

// Style returns the node's rendered style directive, empty if unset.
func (n *Node) Style() string { return n.style }

// markup returns the node-definition line: the label embedded between the
// shape's opening and closing delimiters.
func (n *Node) markup() string {
	return n.id + n.Shape.Open + n.Label + n.Shape.Close
}

// =============================================================================
// Edges
// =============================================================================

// EdgeStyle is the mermaid arrow token for a directed path.
type EdgeStyle string

// Supported edge styles.
const (
	EdgeSolid  EdgeStyle = "-->"
	EdgeDashed EdgeStyle = "-.->"
)

// Edge is a directed path between two nodes. Direction always points from a
// child source toward the composite it feeds into.
type Edge struct {
	From  *Node
	To    *Node
	Label string
	Style EdgeStyle
}

// markup returns the edge line, with a non-empty label wrapped as |label|.
func (e Edge) markup() string {
	label := e.Label
	if label != "" {
		label = "|" + label + "|"
	}
	return fmt.Sprintf("%s %s%s%s", e.From.id, e.Style, label, e.To.id)
}

// =============================================================================
// Click Directives
// =============================================================================

// directiveList is an insertion-ordered set of per-node directive lines,
// keyed by node identity. Re-adding a directive for a node replaces the line
// and moves it to the back, so emission order follows the last add call.
type directiveList struct {
	order []string
	lines map[string]string
}

func newDirectiveList() *directiveList {
	return &directiveList{lines: make(map[string]string)}
}

func (d *directiveList) set(id, line string) {
	if _, ok := d.lines[id]; ok {
		for i, existing := range d.order {
			if existing == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	d.order = append(d.order, id)
	d.lines[id] = line
}

func (d *directiveList) each(fn func(line string)) {
	for _, id := range d.order {
		fn(d.lines[id])
	}
}

// =============================================================================
// Flowchart
// =============================================================================

// DefaultOrientation is the mermaid layout orientation used by NewFlowchart.
const DefaultOrientation = "TD"

// Flowchart builds a mermaid flow diagram from nodes and directed paths.
// It owns its node list (insertion order = render order), its edge list, and
// the per-node click/href directive tables. A Flowchart is built once per
// diagram request, serialized, and discarded; it is not safe for concurrent
// mutation.
type Flowchart struct {
	Orientation string

	ids    *IDAllocator
	nodes  []*Node
	edges  []Edge
	clicks *directiveList // callback click directives
	hrefs  *directiveList // href click directives
}

// Option configures a Flowchart.
type Option func(*Flowchart)

// WithOrientation overrides the layout orientation (e.g. "LR").
func WithOrientation(orientation string) Option {
	return func(f *Flowchart) { f.Orientation = orientation }
}

// WithAllocator supplies the identity allocator. Use this to share one
// allocator across charts, or to pin the start identity in tests.
func WithAllocator(ids *IDAllocator) Option {
	return func(f *Flowchart) { f.ids = ids }
}

// NewFlowchart creates an empty flowchart with a fresh identity allocator
// starting at DefaultStartID.
func NewFlowchart(opts ...Option) *Flowchart {
	f := &Flowchart{
		Orientation: DefaultOrientation,
		ids:         NewIDAllocator(DefaultStartID),
		clicks:      newDirectiveList(),
		hrefs:       newDirectiveList(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewNode creates a node with a fresh identity and the default rectangle
// shape. The node is not part of the chart until added with AddNode.
func (f *Flowchart) NewNode(label string) *Node {
	return &Node{
		id:    f.ids.Next(),
		Label: label,
		Shape: ShapeRect,
	}
}

// AddNode appends a node to the chart's node list.
func (f *Flowchart) AddNode(n *Node) {
	f.nodes = append(f.nodes, n)
}

// AddNodes appends nodes to the chart's node list in order.
func (f *Flowchart) AddNodes(nodes ...*Node) {
	f.nodes = append(f.nodes, nodes...)
}

// Nodes returns the chart's nodes in insertion order.
func (f *Flowchart) Nodes() []*Node { return f.nodes }

// Edges returns the chart's edges in insertion order.
func (f *Flowchart) Edges() []Edge { return f.edges }

// AddPath appends a directed edge from one node to another. A non-empty
// label is rendered as an inline |label| annotation.
func (f *Flowchart) AddPath(from, to *Node, label string, style EdgeStyle) {
	f.edges = append(f.edges, Edge{From: from, To: to, Label: label, Style: style})
}

// AddHrefClick records a URL click directive for a node. At most one href
// directive is kept per node; later calls overwrite earlier ones. A tooltip
// of "_blank" (the default target) is emitted bare, anything else is quoted
// ahead of the _blank target.
func (f *Flowchart) AddHrefClick(n *Node, url, tooltip string) {
	if tooltip != "_blank" {
		tooltip = fmt.Sprintf("%q _blank", tooltip)
	}
	f.hrefs.set(n.id, fmt.Sprintf("click %s %q %s", n.id, url, tooltip))
}

// AddFnClick records a callback click directive for a node. At most one
// callback directive is kept per node; later calls overwrite earlier ones.
func (f *Flowchart) AddFnClick(n *Node, callback, tooltip string) {
	f.clicks.set(n.id, fmt.Sprintf("click %s call %s %q", n.id, callback, tooltip))
}

// Markup serializes the flowchart to mermaid markup: the orientation header,
// node definitions (each followed by its style line if set), edges, callback
// click directives, then href click directives.
func (f *Flowchart) Markup() string {
	var b strings.Builder
	b.WriteString("graph ")
	b.WriteString(f.Orientation)

	for _, n := range f.nodes {
		b.WriteString("\n")
		b.WriteString(n.markup())
		if n.style != "" {
			b.WriteString("\n")
			b.WriteString(n.style)
		}
	}

	for _, e := range f.edges {
		b.WriteString("\n")
		b.WriteString(e.markup())
	}

	f.clicks.each(func(line string) {
		b.WriteString("\n")
		b.WriteString(line)
	})
	f.hrefs.each(func(line string) {
		b.WriteString("\n")
		b.WriteString(line)
	})

	return b.String()
}

// String implements fmt.Stringer.
func (f *Flowchart) String() string { return f.Markup() }
