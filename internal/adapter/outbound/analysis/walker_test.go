package analysis

import (
	"testing"

	"codeatlas/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalker_VisitsMatchingKinds(t *testing.T) {
	root := program(
		varDecl("const", "a", lit("1")),
		fnDecl("f", block(varDecl("let", "b", nil))),
	)

	var declarations []string
	walker := NewWalker(map[string]VisitFunc{
		valueobject.KindVariableDeclaration: func(n *valueobject.Node) {
			declarations = append(declarations, n.Attr("kind"))
		},
	})
	walker.Walk(root)

	assert.Equal(t, []string{"const", "let"}, declarations)
}

func TestWalker_DescendsIfBranches(t *testing.T) {
	root := program(
		ifStmt(ident("ready"),
			block(varDecl("let", "inThen", nil)),
			block(varDecl("let", "inElse", nil)),
		),
	)

	var names []string
	walker := NewWalker(map[string]VisitFunc{
		valueobject.KindVariableDeclarator: func(n *valueobject.Node) {
			names = append(names, identifierText(n.Field("id")))
		},
	})
	walker.Walk(root)

	assert.Equal(t, []string{"inThen", "inElse"}, names)
}

func TestWalker_NilChildrenAreSkipped(t *testing.T) {
	root := program()
	root.AddChild("body", nil)
	root.AddChild("body", varDecl("var", "x", nil))

	count := 0
	walker := NewWalker(map[string]VisitFunc{
		valueobject.KindVariableDeclaration: func(*valueobject.Node) { count++ },
	})
	require.NotPanics(t, func() { walker.Walk(root) })
	assert.Equal(t, 1, count)
}

func TestWalker_NilRoot(t *testing.T) {
	walker := NewWalker(nil)
	require.NotPanics(t, func() { walker.Walk(nil) })
}

func TestWalkRestricted_StopsBelowDisallowedNodes(t *testing.T) {
	// JSX inside a return is reachable; JSX inside a nested arrow is not.
	nested := varDecl("const", "helper", arrowFn(jsxElement("Hidden")))
	body := block(
		nested,
		returnStmt(jsxElement("Visible")),
	)

	var tags []string
	WalkRestricted(body, uiSearchKinds, func(n *valueobject.Node) {
		if n.Kind == valueobject.KindJSXElement {
			tags = append(tags, identifierText(n.Field("name")))
		}
	})

	assert.Equal(t, []string{"Visible"}, tags)
}

func TestParentIndex_ParentAndField(t *testing.T) {
	decl := varDecl("const", "x", lit("1"))
	root := program(decl)
	idx := NewParentIndex(root)

	declarator := decl.Field("declarations")
	require.NotNil(t, declarator)
	assert.Equal(t, decl, idx.ParentOf(declarator))
	assert.Equal(t, root, idx.ParentOf(decl))
	assert.Nil(t, idx.ParentOf(root))
	assert.Equal(t, "declarations", idx.FieldOf(declarator))
	assert.Equal(t, "", idx.FieldOf(root))
}

func TestParentIndex_EnclosingFunction(t *testing.T) {
	inner := varDecl("let", "x", nil)
	fn := fnDecl("outer", block(inner))
	root := program(fn)
	idx := NewParentIndex(root)

	assert.Equal(t, fn, idx.EnclosingFunction(inner))
	assert.Nil(t, idx.EnclosingFunction(fn))
}
