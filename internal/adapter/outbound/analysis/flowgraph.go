package analysis

import (
	"fmt"
	"strings"

	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// flowBuilder accumulates a flow graph. Node IDs come from a counter scoped
// to one synthesis call, so the same tree always produces the same graph.
type flowBuilder struct {
	graph   *outbound.FlowGraph
	counter int
	edges   map[string]bool
}

func newFlowBuilder(kind outbound.FlowKind, title string) *flowBuilder {
	return &flowBuilder{
		graph: &outbound.FlowGraph{Kind: kind, Title: title},
		edges: make(map[string]bool),
	}
}

func (b *flowBuilder) node(label string, shape outbound.NodeShape, line uint32) string {
	b.counter++
	id := fmt.Sprintf("n%d", b.counter)
	b.graph.Nodes = append(b.graph.Nodes, outbound.FlowNode{ID: id, Label: label, Shape: shape, Line: line})
	return id
}

func (b *flowBuilder) edge(from, to, label string) {
	key := from + ">" + to + ">" + label
	if from == "" || to == "" || b.edges[key] {
		return
	}
	b.edges[key] = true
	b.graph.Edges = append(b.graph.Edges, outbound.FlowEdge{From: from, To: to, Label: label})
}

// synthesizeControlFlow renders statement-level control flow: a start node,
// one node per statement, decision nodes with labeled branch edges, loop
// nodes with a back edge, and an end node.
func synthesizeControlFlow(root *valueobject.Node, title string) *outbound.FlowGraph {
	b := newFlowBuilder(outbound.FlowControl, title)
	start := b.node("start", outbound.ShapeStart, root.Pos.Line)
	last := b.emitSequence(statementsOf(root), start, "")
	end := b.node("end", outbound.ShapeEnd, root.End.Line)
	b.edge(last, end, "")
	return b.graph
}

// statementsOf returns the statement list of a program, block, or a node
// that wraps one.
func statementsOf(n *valueobject.Node) []*valueobject.Node {
	if n == nil {
		return nil
	}
	if stmts := n.FieldAll("body"); len(stmts) > 0 {
		if len(stmts) == 1 && stmts[0].Kind == valueobject.KindBlockStatement {
			return stmts[0].FieldAll("body")
		}
		return stmts
	}
	return n.ChildNodes()
}

func (b *flowBuilder) emitSequence(stmts []*valueobject.Node, prev, firstLabel string) string {
	label := firstLabel
	for _, s := range stmts {
		prev = b.emitStatement(s, prev, label)
		label = ""
	}
	return prev
}

// emitStatement appends the nodes for one statement, connecting its entry to
// prev, and returns the node the following statement should connect from.
func (b *flowBuilder) emitStatement(s *valueobject.Node, prev, edgeLabel string) string {
	if s == nil {
		return prev
	}
	switch {
	case s.Kind == valueobject.KindIfStatement:
		d := b.node("if "+describeExpr(s.Field("test")), outbound.ShapeDecision, s.Pos.Line)
		b.edge(prev, d, edgeLabel)
		b.emitBranch(s.Field("consequent"), d, "yes")
		if alt := s.Field("alternate"); alt != nil {
			b.emitBranch(alt, d, "no")
		}
		return d

	case valueobject.IsLoopKind(s.Kind):
		loop := b.node(loopLabel(s), outbound.ShapeLoop, s.Pos.Line)
		b.edge(prev, loop, edgeLabel)
		bodyLast := b.emitSequence(blockStatements(s.Field("body")), loop, "body")
		b.edge(bodyLast, loop, "repeat")
		return loop

	case s.Kind == valueobject.KindSwitchStatement:
		d := b.node("switch "+describeExpr(s.Field("discriminant")), outbound.ShapeDecision, s.Pos.Line)
		b.edge(prev, d, edgeLabel)
		for _, c := range s.FieldAll("cases") {
			label := "default"
			if test := c.Field("test"); test != nil {
				label = "case " + describeExpr(test)
			}
			b.emitSequence(c.FieldAll("consequent"), d, label)
		}
		return d

	case s.Kind == valueobject.KindTryStatement:
		entry := b.node("try", outbound.ShapeProcess, s.Pos.Line)
		b.edge(prev, entry, edgeLabel)
		last := b.emitSequence(blockStatements(s.Field("block")), entry, "")
		if handler := s.Field("handler"); handler != nil {
			b.emitSequence(blockStatements(handler.Field("body")), entry, "on error")
		}
		if fin := s.Field("finalizer"); fin != nil {
			last = b.emitSequence(blockStatements(fin), last, "")
		}
		return last

	case s.Kind == valueobject.KindReturnStatement:
		label := "return"
		if arg := s.Field("argument"); arg != nil {
			label = "return " + describeExpr(arg)
		}
		n := b.node(label, outbound.ShapeProcess, s.Pos.Line)
		b.edge(prev, n, edgeLabel)
		return n

	case s.Kind == valueobject.KindFunctionDeclaration:
		name := identifierText(s.Field("id"))
		if name == "" {
			name = anonymousName
		}
		n := b.node("function "+name, outbound.ShapeProcess, s.Pos.Line)
		b.edge(prev, n, edgeLabel)
		return n

	case s.Kind == valueobject.KindBlockStatement:
		return b.emitSequence(s.FieldAll("body"), prev, edgeLabel)

	default:
		n := b.node(describeStatement(s), outbound.ShapeProcess, s.Pos.Line)
		b.edge(prev, n, edgeLabel)
		return n
	}
}

func (b *flowBuilder) emitBranch(branch *valueobject.Node, from, label string) {
	if branch == nil {
		return
	}
	if branch.Kind == valueobject.KindBlockStatement {
		b.emitSequence(branch.FieldAll("body"), from, label)
		return
	}
	b.emitStatement(branch, from, label)
}

func blockStatements(body *valueobject.Node) []*valueobject.Node {
	if body == nil {
		return nil
	}
	if body.Kind == valueobject.KindBlockStatement {
		return body.FieldAll("body")
	}
	return []*valueobject.Node{body}
}

func loopLabel(s *valueobject.Node) string {
	switch s.Kind {
	case valueobject.KindForStatement:
		return "for"
	case valueobject.KindForInStatement:
		return "for in"
	case valueobject.KindForOfStatement:
		return "for of"
	case valueobject.KindDoWhileStatement:
		return "do while " + describeExpr(s.Field("test"))
	default:
		return "while " + describeExpr(s.Field("test"))
	}
}

// describeStatement renders a compact label for a non-branching statement.
func describeStatement(s *valueobject.Node) string {
	switch s.Kind {
	case valueobject.KindVariableDeclaration:
		keyword := s.Attr("kind")
		if keyword == "" {
			keyword = "var"
		}
		names := make([]string, 0, 1)
		for _, decl := range s.FieldAll("declarations") {
			if name := identifierText(decl.Field("id")); name != "" {
				names = append(names, name)
			}
		}
		return strings.TrimSpace(keyword + " " + strings.Join(names, ", "))
	case valueobject.KindExpressionStatement:
		return describeExpr(s.Field("expression"))
	case valueobject.KindThrowStatement:
		return "throw " + describeExpr(s.Field("argument"))
	case valueobject.KindBreakStatement:
		return "break"
	case valueobject.KindContinueStatement:
		return "continue"
	case valueobject.KindClassDeclaration:
		return "class " + identifierText(s.Field("id"))
	default:
		return strings.ToLower(strings.TrimSuffix(s.Kind, "Statement"))
	}
}

// describeExpr renders a compact label for an expression.
func describeExpr(e *valueobject.Node) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case valueobject.KindIdentifier, valueobject.KindLiteral:
		return e.Text
	case valueobject.KindCallExpression, valueobject.KindNewExpression:
		return describeExpr(e.Field("callee")) + "()"
	case valueobject.KindMemberExpression:
		return describeExpr(e.Field("object")) + "." + describeExpr(e.Field("property"))
	case valueobject.KindAssignmentExpression:
		return describeExpr(e.Field("left")) + " = " + describeExpr(e.Field("right"))
	case valueobject.KindBinaryExpression, valueobject.KindLogicalExpression:
		op := e.Attr("operator")
		return strings.TrimSpace(describeExpr(e.Field("left")) + " " + op + " " + describeExpr(e.Field("right")))
	case valueobject.KindUnaryExpression, valueobject.KindUpdateExpression:
		return strings.TrimSpace(e.Attr("operator") + describeExpr(e.Field("argument")))
	case valueobject.KindAwaitExpression:
		return "await " + describeExpr(e.Field("argument"))
	case valueobject.KindArrowFunction, valueobject.KindFunctionExpression:
		return "function"
	case valueobject.KindJSXElement:
		if tag := identifierText(e.Field("name")); tag != "" {
			return "<" + tag + ">"
		}
		return "<jsx>"
	case valueobject.KindJSXFragment:
		return "<>"
	default:
		return strings.ToLower(strings.TrimSuffix(e.Kind, "Expression"))
	}
}

// synthesizeDataFlow renders declaration-to-assignment flow: one node per
// declared variable, one per reassignment, and edges from the last known
// definition of a name to each place it flows.
func synthesizeDataFlow(root *valueobject.Node, title string) *outbound.FlowGraph {
	b := newFlowBuilder(outbound.FlowData, title)
	current := make(map[string]string)

	WalkAll(root, func(n *valueobject.Node) {
		switch n.Kind {
		case valueobject.KindVariableDeclarator:
			name := identifierText(n.Field("id"))
			if name == "" {
				return
			}
			id := b.node(name, outbound.ShapeProcess, n.Pos.Line)
			if init := n.Field("init"); init != nil {
				for _, src := range referencedNames(init) {
					b.edge(current[src], id, "")
				}
			}
			current[name] = id

		case valueobject.KindAssignmentExpression:
			name := identifierText(n.Field("left"))
			if name == "" {
				return
			}
			id := b.node(name+" = "+describeExpr(n.Field("right")), outbound.ShapeProcess, n.Pos.Line)
			if prev, ok := current[name]; ok {
				b.edge(prev, id, "reassign")
			}
			for _, src := range referencedNames(n.Field("right")) {
				b.edge(current[src], id, "")
			}
			current[name] = id
		}
	})
	return b.graph
}

// referencedNames collects identifier names read inside an expression, in
// source order.
func referencedNames(e *valueobject.Node) []string {
	var names []string
	WalkAll(e, func(n *valueobject.Node) {
		if n.Kind == valueobject.KindIdentifier && n.Text != "" {
			names = append(names, n.Text)
		}
	})
	return names
}

// synthesizeComponentTree renders the parent/child render relationships of
// the file's components: one node per detected component, plus a node for
// each capitalized element referenced but not declared in the file.
func (d *componentDetector) synthesizeComponentTree(root *valueobject.Node, fns []extractedFunction, title string) *outbound.FlowGraph {
	b := newFlowBuilder(outbound.FlowComponentTree, title)
	components := d.detect(root, fns)

	ids := make(map[string]string, len(components))
	for _, c := range components {
		if _, ok := ids[c.Name]; ok {
			continue
		}
		ids[c.Name] = b.node(c.Name, outbound.ShapeProcess, c.Position.Line)
	}

	bodies := make(map[string]*valueobject.Node, len(fns))
	for _, f := range fns {
		if _, ok := bodies[f.Desc.Name]; !ok {
			bodies[f.Desc.Name] = f.Node
		}
	}
	WalkAll(root, func(n *valueobject.Node) {
		if n.Kind != valueobject.KindClassDeclaration {
			return
		}
		if name := identifierText(n.Field("id")); name != "" {
			if _, ok := bodies[name]; !ok {
				bodies[name] = n
			}
		}
	})

	for _, c := range components {
		body, ok := bodies[c.Name]
		if !ok {
			continue
		}
		parent := ids[c.Name]
		WalkAll(body, func(n *valueobject.Node) {
			if n.Kind != valueobject.KindJSXElement {
				return
			}
			tag := identifierText(n.Field("name"))
			if tag == "" || !startsUpper(tag) || tag == c.Name {
				return
			}
			child, ok := ids[tag]
			if !ok {
				child = b.node(tag, outbound.ShapeProcess, n.Pos.Line)
				ids[tag] = child
			}
			b.edge(parent, child, "renders")
		})
	}
	return b.graph
}
