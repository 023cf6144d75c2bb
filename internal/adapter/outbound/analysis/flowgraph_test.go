package analysis

import (
	"context"
	"testing"

	"codeatlas/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeControlFlow_SequentialStatements(t *testing.T) {
	root := program(
		varDecl("const", "a", lit("1")),
		exprStmt(callExpr("log", ident("a"))),
	)

	g := synthesizeControlFlow(root, "main")
	require.NoError(t, g.Validate())

	require.Len(t, g.Nodes, 4) // start, two statements, end
	assert.Equal(t, outbound.ShapeStart, g.Nodes[0].Shape)
	assert.Equal(t, "const a", g.Nodes[1].Label)
	assert.Equal(t, "log()", g.Nodes[2].Label)
	assert.Equal(t, outbound.ShapeEnd, g.Nodes[3].Shape)
	require.Len(t, g.Edges, 3)
}

func TestSynthesizeControlFlow_Branching(t *testing.T) {
	root := program(
		ifStmt(ident("ready"),
			block(exprStmt(callExpr("start"))),
			block(exprStmt(callExpr("wait"))),
		),
	)

	g := synthesizeControlFlow(root, "branch")
	require.NoError(t, g.Validate())

	var decision outbound.FlowNode
	for _, n := range g.Nodes {
		if n.Shape == outbound.ShapeDecision {
			decision = n
		}
	}
	require.NotEmpty(t, decision.ID)
	assert.Equal(t, "if ready", decision.Label)

	labels := map[string]bool{}
	for _, e := range g.Edges {
		if e.From == decision.ID {
			labels[e.Label] = true
		}
	}
	assert.True(t, labels["yes"])
	assert.True(t, labels["no"])
}

func TestSynthesizeControlFlow_LoopBackEdge(t *testing.T) {
	root := program(forStmt(block(exprStmt(callExpr("step")))))

	g := synthesizeControlFlow(root, "loop")
	require.NoError(t, g.Validate())

	var loop outbound.FlowNode
	for _, n := range g.Nodes {
		if n.Shape == outbound.ShapeLoop {
			loop = n
		}
	}
	require.NotEmpty(t, loop.ID)

	backEdge := false
	for _, e := range g.Edges {
		if e.To == loop.ID && e.Label == "repeat" {
			backEdge = true
		}
	}
	assert.True(t, backEdge)
}

func TestSynthesizeControlFlow_Deterministic(t *testing.T) {
	root := program(
		ifStmt(ident("a"), block(exprStmt(callExpr("x"))), nil),
		forStmt(block()),
		returnStmt(ident("a")),
	)

	first := synthesizeControlFlow(root, "same")
	second := synthesizeControlFlow(root, "same")
	assert.Equal(t, first, second)
}

func TestSynthesizeDataFlow_DeclarationToAssignment(t *testing.T) {
	root := program(
		varDecl("let", "total", lit("0")),
		exprStmt(assignExpr("total", ident("next"))),
	)

	g := synthesizeDataFlow(root, "data")
	require.NoError(t, g.Validate())

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "total", g.Nodes[0].Label)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "reassign", g.Edges[0].Label)
	assert.Equal(t, g.Nodes[0].ID, g.Edges[0].From)
	assert.Equal(t, g.Nodes[1].ID, g.Edges[0].To)
}

func TestSynthesizeDataFlow_InitializerDependencies(t *testing.T) {
	root := program(
		varDecl("const", "base", lit("1")),
		varDecl("const", "derived", ident("base")),
	)

	g := synthesizeDataFlow(root, "deps")
	require.NoError(t, g.Validate())
	require.Len(t, g.Edges, 1)
	assert.Equal(t, g.Nodes[0].ID, g.Edges[0].From)
	assert.Equal(t, g.Nodes[1].ID, g.Edges[0].To)
}

func TestSynthesizeComponentTree(t *testing.T) {
	engine := newTestEngine(t)
	header := fnDecl("Header", block(returnStmt(jsxElement("header"))))
	appJSX := jsxElement("div")
	appJSX.AddChild("children", jsxElement("Header"))
	appJSX.AddChild("children", jsxElement("Footer"))
	appFn := fnDecl("App", block(returnStmt(appJSX)))
	root := program(header, appFn)

	tree := newTestTree(t, root)
	g, err := engine.SynthesizeFlow(context.Background(), tree, outbound.FlowComponentTree, "components")
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	byLabel := map[string]string{}
	for _, n := range g.Nodes {
		byLabel[n.Label] = n.ID
	}
	require.Contains(t, byLabel, "App")
	require.Contains(t, byLabel, "Header")
	// Footer is referenced but not declared in the file.
	require.Contains(t, byLabel, "Footer")

	renders := map[[2]string]bool{}
	for _, e := range g.Edges {
		renders[[2]string{e.From, e.To}] = true
	}
	assert.True(t, renders[[2]string{byLabel["App"], byLabel["Header"]}])
	assert.True(t, renders[[2]string{byLabel["App"], byLabel["Footer"]}])
}

func TestRenderMermaid(t *testing.T) {
	root := program(
		ifStmt(ident("ok"), block(exprStmt(callExpr("go"))), nil),
	)
	g := synthesizeControlFlow(root, "main")

	out := RenderMermaid(g)
	assert.Contains(t, out, "flowchart TD")
	assert.Contains(t, out, "%% main")
	assert.Contains(t, out, "n1([start])")
	assert.Contains(t, out, "{if ok}")
	assert.Contains(t, out, "-->|yes|")
}

func TestFlowGraph_ValidateRejectsBadEdges(t *testing.T) {
	g := &outbound.FlowGraph{
		Kind:  outbound.FlowControl,
		Nodes: []outbound.FlowNode{{ID: "n1"}},
		Edges: []outbound.FlowEdge{{From: "n1", To: "n9"}},
	}
	assert.Error(t, g.Validate())
}
