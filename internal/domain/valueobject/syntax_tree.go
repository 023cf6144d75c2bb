package valueobject

import (
	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/domain/errors/domain"
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Position is a location in source code. Lines are one-based and columns
// zero-based, matching the loc objects ESTree-style parsers emit.
type Position struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// Node is one node of a parsed syntax tree. Children are kept in source
// order and each carries the grammar field it was attached to (for example
// "test", "consequent", "alternate" on an IfStatement), so analyzers can
// reach non-statement-list bodies without a parser-specific API.
type Node struct {
	Kind     string            `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Pos      Position          `json:"pos"`
	End      Position          `json:"end"`
	Children []Child           `json:"children,omitempty"`
}

// Attr returns a grammar attribute such as "operator", "kind", "async", or
// "static". Missing attributes return the empty string.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttr reports whether a boolean grammar attribute is set to "true".
func (n *Node) HasAttr(name string) bool {
	return n.Attr(name) == "true"
}

// SetAttr records a grammar attribute, allocating the map on first use.
func (n *Node) SetAttr(name, value string) {
	if n == nil {
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

// Child is a field-labelled edge from a node to one of its children.
type Child struct {
	Field string `json:"field"`
	Node  *Node  `json:"node"`
}

// Field returns the first child attached to the named grammar field, or nil.
func (n *Node) Field(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == name && c.Node != nil {
			return c.Node
		}
	}
	return nil
}

// FieldAll returns every child attached to the named grammar field.
func (n *Node) FieldAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Field == name && c.Node != nil {
			out = append(out, c.Node)
		}
	}
	return out
}

// ChildNodes returns all non-nil children in source order, dropping the
// field labels.
func (n *Node) ChildNodes() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Node != nil {
			out = append(out, c.Node)
		}
	}
	return out
}

// AddChild appends a child under the given field, skipping nil nodes so
// that partially-built trees stay traversable.
func (n *Node) AddChild(field string, child *Node) {
	if n == nil || child == nil {
		return
	}
	n.Children = append(n.Children, Child{Field: field, Node: child})
}

// SyntaxTree is a parsed source file as a value object. It is produced by an
// upstream parser adapter and never mutated by the analysis engine.
type SyntaxTree struct {
	language  Language
	root      *Node
	source    []byte
	createdAt time.Time
	metrics   *syntaxTreeMetrics
}

// syntaxTreeMetrics holds OTEL instruments for SyntaxTree construction.
type syntaxTreeMetrics struct {
	treesCounter       metric.Int64Counter
	nodeCountHistogram metric.Int64Histogram
	treeDepthHistogram metric.Int64Histogram
}

// NewSyntaxTree validates and wraps a parsed tree. A nil root or a root that
// is not a Program node is a parser-boundary violation and fails fast with a
// distinguishable domain error.
func NewSyntaxTree(ctx context.Context, language Language, root *Node, source []byte) (*SyntaxTree, error) {
	if root == nil {
		return nil, domain.ErrNilTree
	}
	if root.Kind != KindProgram {
		return nil, fmt.Errorf("%w: root kind %q", domain.ErrNotProgramRoot, root.Kind)
	}

	m, err := initSyntaxTreeMetrics()
	if err != nil {
		slogger.Warn(ctx, "Failed to initialize syntax tree metrics, continuing without metrics", slogger.Fields{
			"error":    err.Error(),
			"language": language.String(),
		})
	}

	st := &SyntaxTree{
		language:  language,
		root:      root,
		source:    source,
		createdAt: time.Now(),
		metrics:   m,
	}

	if m != nil {
		attrs := metric.WithAttributes(attribute.String("language", language.String()))
		m.treesCounter.Add(ctx, 1, attrs)
		m.nodeCountHistogram.Record(ctx, int64(st.NodeCount()), attrs)
		m.treeDepthHistogram.Record(ctx, int64(st.Depth()), attrs)
	}

	return st, nil
}

// Language returns the source language of the tree.
func (st *SyntaxTree) Language() Language {
	return st.language
}

// Root returns the Program node.
func (st *SyntaxTree) Root() *Node {
	return st.root
}

// Source returns the raw source the tree was parsed from. May be empty when
// the tree was decoded from a sidecar file without the original text.
func (st *SyntaxTree) Source() []byte {
	return st.source
}

// CreatedAt returns when the tree value object was constructed.
func (st *SyntaxTree) CreatedAt() time.Time {
	return st.createdAt
}

// LineCount returns the number of lines in the source, falling back to the
// root node's end line when source text is unavailable.
func (st *SyntaxTree) LineCount() int {
	if len(st.source) > 0 {
		return strings.Count(string(st.source), "\n") + 1
	}
	if st.root != nil {
		return int(st.root.End.Line) + 1
	}
	return 0
}

// NodeCount returns the total number of nodes in the tree.
func (st *SyntaxTree) NodeCount() int {
	return countNodes(st.root)
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += countNodes(c.Node)
	}
	return count
}

// Depth returns the maximum depth of the tree.
func (st *SyntaxTree) Depth() int {
	return nodeDepth(st.root)
}

func nodeDepth(n *Node) int {
	if n == nil {
		return 0
	}
	maxChild := 0
	for _, c := range n.Children {
		if d := nodeDepth(c.Node); d > maxChild {
			maxChild = d
		}
	}
	return maxChild + 1
}

// NodesByKind collects every node of the given kind in pre-order.
func (st *SyntaxTree) NodesByKind(kind string) []*Node {
	var out []*Node
	collectByKind(st.root, kind, &out)
	return out
}

func collectByKind(n *Node, kind string, out *[]*Node) {
	if n == nil {
		return
	}
	if n.Kind == kind {
		*out = append(*out, n)
	}
	for _, c := range n.Children {
		collectByKind(c.Node, kind, out)
	}
}

func initSyntaxTreeMetrics() (*syntaxTreeMetrics, error) {
	meter := otel.Meter("codeatlas/syntax_tree")

	trees, err := meter.Int64Counter(
		"syntax_trees_created_total",
		metric.WithDescription("Total number of syntax trees constructed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree counter: %w", err)
	}

	nodes, err := meter.Int64Histogram(
		"syntax_tree_node_count",
		metric.WithDescription("Number of nodes per syntax tree"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create node count histogram: %w", err)
	}

	depth, err := meter.Int64Histogram(
		"syntax_tree_depth",
		metric.WithDescription("Maximum depth per syntax tree"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create depth histogram: %w", err)
	}

	return &syntaxTreeMetrics{
		treesCounter:       trees,
		nodeCountHistogram: nodes,
		treeDepthHistogram: depth,
	}, nil
}
