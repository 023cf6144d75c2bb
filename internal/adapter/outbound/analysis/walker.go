package analysis

import (
	"codeatlas/internal/domain/valueobject"
)

// VisitFunc is invoked for a node matched during traversal.
type VisitFunc func(n *valueobject.Node)

// Walker performs a pre-order traversal of a syntax tree, dispatching to a
// kind-keyed callback table. Nil children are skipped, so partially built
// trees traverse without panicking.
type Walker struct {
	visitors map[string]VisitFunc
}

// NewWalker builds a walker over the given kind->callback table.
func NewWalker(visitors map[string]VisitFunc) *Walker {
	return &Walker{visitors: visitors}
}

// Walk visits root and its descendants in pre-order. Control constructs are
// descended by their declared child fields first (an if's test, consequent
// and alternate, a loop's header and body), then any remaining children, so
// branch bodies are reached in a stable order.
func (w *Walker) Walk(root *valueobject.Node) {
	if root == nil {
		return
	}
	if fn, ok := w.visitors[root.Kind]; ok {
		fn(root)
	}
	w.walkChildren(root)
}

func (w *Walker) walkChildren(n *valueobject.Node) {
	fields, special := valueobject.ControlChildFields[n.Kind]
	if !special {
		for _, c := range n.Children {
			w.Walk(c.Node)
		}
		return
	}

	seen := make(map[*valueobject.Node]bool, len(n.Children))
	for _, field := range fields {
		for _, child := range n.FieldAll(field) {
			seen[child] = true
			w.Walk(child)
		}
	}
	for _, c := range n.Children {
		if c.Node != nil && !seen[c.Node] {
			w.Walk(c.Node)
		}
	}
}

// WalkAll visits every node under root in pre-order, regardless of kind.
func WalkAll(root *valueobject.Node, fn VisitFunc) {
	if root == nil {
		return
	}
	fn(root)
	for _, c := range root.Children {
		WalkAll(c.Node, fn)
	}
}

// WalkRestricted visits root and descends only through nodes whose kind is
// in the allowed set. Every visited node is passed to fn, including leaves
// hanging off an allowed node, but the traversal never continues below a
// disallowed node. The root itself is always descended.
func WalkRestricted(root *valueobject.Node, allowed map[string]bool, fn VisitFunc) {
	if root == nil {
		return
	}
	fn(root)
	for _, c := range root.Children {
		walkRestricted(c.Node, allowed, fn)
	}
}

func walkRestricted(n *valueobject.Node, allowed map[string]bool, fn VisitFunc) {
	if n == nil {
		return
	}
	fn(n)
	if !allowed[n.Kind] {
		return
	}
	for _, c := range n.Children {
		walkRestricted(c.Node, allowed, fn)
	}
}
