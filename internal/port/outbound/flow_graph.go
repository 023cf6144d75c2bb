package outbound

import "fmt"

// FlowKind selects which graph a synthesis call produces.
type FlowKind string

const (
	FlowControl       FlowKind = "control"
	FlowData          FlowKind = "data"
	FlowComponentTree FlowKind = "component_tree"
)

// NodeShape hints how a diagram renderer should draw a node.
type NodeShape string

const (
	ShapeStart    NodeShape = "start"
	ShapeEnd      NodeShape = "end"
	ShapeProcess  NodeShape = "process"
	ShapeDecision NodeShape = "decision"
	ShapeLoop     NodeShape = "loop"
)

// FlowNode is one node of a flow graph. IDs are unique within a graph and
// assigned from a counter scoped to the synthesis call, so synthesizing the
// same tree twice yields identical graphs.
type FlowNode struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Shape NodeShape `json:"shape"`
	Line  uint32    `json:"line"`
}

// FlowEdge is one directed edge between two node IDs.
type FlowEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// FlowGraph is a node/edge structure destined for diagram rendering.
type FlowGraph struct {
	Kind  FlowKind   `json:"kind"`
	Title string     `json:"title"`
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// Validate checks the structural invariants: unique node IDs and edge
// endpoints that reference nodes present in the node set.
func (g *FlowGraph) Validate() error {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.From] {
			return fmt.Errorf("edge references unknown node %q", e.From)
		}
		if !ids[e.To] {
			return fmt.Errorf("edge references unknown node %q", e.To)
		}
	}
	return nil
}
