package analysis

import (
	"codeatlas/internal/domain/valueobject"
)

// ParentIndex maps every node of a tree to its parent. It is built once per
// file in a single pass and shared read-only by the scope resolver, the
// usage tracker, and the component detector, which all need to climb
// ancestor chains without per-query traversals.
type ParentIndex struct {
	parents map[*valueobject.Node]*valueobject.Node
}

// NewParentIndex indexes the tree rooted at root.
func NewParentIndex(root *valueobject.Node) *ParentIndex {
	idx := &ParentIndex{parents: make(map[*valueobject.Node]*valueobject.Node)}
	idx.index(root)
	return idx
}

func (idx *ParentIndex) index(n *valueobject.Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if c.Node == nil {
			continue
		}
		idx.parents[c.Node] = n
		idx.index(c.Node)
	}
}

// ParentOf returns the parent of n, or nil for the root and for nodes not in
// the indexed tree.
func (idx *ParentIndex) ParentOf(n *valueobject.Node) *valueobject.Node {
	return idx.parents[n]
}

// FieldOf returns the field name under which n hangs off its parent, or ""
// for the root.
func (idx *ParentIndex) FieldOf(n *valueobject.Node) string {
	p := idx.parents[n]
	if p == nil {
		return ""
	}
	for _, c := range p.Children {
		if c.Node == n {
			return c.Field
		}
	}
	return ""
}

// Ancestors returns the ancestor chain of n from nearest to root.
func (idx *ParentIndex) Ancestors(n *valueobject.Node) []*valueobject.Node {
	var chain []*valueobject.Node
	for p := idx.ParentOf(n); p != nil; p = idx.ParentOf(p) {
		chain = append(chain, p)
	}
	return chain
}

// EnclosingFunction returns the nearest function-like ancestor of n, or nil
// when n sits at module level.
func (idx *ParentIndex) EnclosingFunction(n *valueobject.Node) *valueobject.Node {
	for p := idx.ParentOf(n); p != nil; p = idx.ParentOf(p) {
		if valueobject.IsFunctionKind(p.Kind) {
			return p
		}
	}
	return nil
}
