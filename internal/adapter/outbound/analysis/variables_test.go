package analysis

import (
	"testing"

	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractTestVariables(root *valueobject.Node) []outbound.VariableDescriptor {
	return extractVariables(root, NewParentIndex(root))
}

func TestExtractVariables_Forms(t *testing.T) {
	root := program(
		varDecl("var", "legacy", lit("1")),
		varDecl("let", "mutable", lit(`"text"`)),
		varDecl("const", "fixed", lit("true")),
	)

	vars := extractTestVariables(root)
	require.Len(t, vars, 3)

	assert.Equal(t, outbound.DeclVar, vars[0].Form)
	assert.Equal(t, outbound.TypeNumber, vars[0].InferredType)
	assert.False(t, vars[0].ReadOnly)

	assert.Equal(t, outbound.DeclLet, vars[1].Form)
	assert.Equal(t, outbound.TypeString, vars[1].InferredType)
	assert.Equal(t, "text", vars[1].Value)

	assert.Equal(t, outbound.DeclConst, vars[2].Form)
	assert.Equal(t, outbound.TypeBoolean, vars[2].InferredType)
	assert.True(t, vars[2].ReadOnly)
}

func TestExtractVariables_ArrowForm(t *testing.T) {
	root := program(varDecl("const", "run", arrowFn(block())))

	vars := extractTestVariables(root)
	require.Len(t, vars, 1)
	assert.Equal(t, outbound.DeclArrow, vars[0].Form)
	assert.Equal(t, outbound.TypeFunction, vars[0].InferredType)
}

func TestExtractVariables_FunctionAndClassDeclarations(t *testing.T) {
	root := program(
		fnDecl("compute", block()),
		classDecl("Store", ""),
	)

	vars := extractTestVariables(root)
	require.Len(t, vars, 2)
	assert.Equal(t, "compute", vars[0].Name)
	assert.Equal(t, outbound.DeclFunction, vars[0].Form)
	assert.Equal(t, outbound.TypeFunction, vars[0].InferredType)
	assert.Equal(t, "Store", vars[1].Name)
	assert.Equal(t, outbound.DeclClass, vars[1].Form)
	assert.Equal(t, outbound.TypeClass, vars[1].InferredType)
}

func TestExtractVariables_DestructuringIsSkipped(t *testing.T) {
	pattern := &valueobject.Node{Kind: valueobject.KindObjectPattern}
	prop := &valueobject.Node{Kind: valueobject.KindProperty}
	prop.AddChild("key", ident("a"))
	prop.AddChild("value", ident("a"))
	pattern.AddChild("properties", prop)

	root := program(
		patternDecl("const", pattern, ident("source")),
		varDecl("let", "kept", nil),
	)

	vars := extractTestVariables(root)
	require.Len(t, vars, 1)
	assert.Equal(t, "kept", vars[0].Name)
}

func TestExtractVariables_ExportAndPrivacy(t *testing.T) {
	exported := &valueobject.Node{Kind: valueobject.KindExportNamedDeclaration}
	exported.AddChild("declaration", varDecl("const", "shared", lit("1")))
	defaulted := &valueobject.Node{Kind: valueobject.KindExportDefault}
	defaulted.AddChild("declaration", fnDecl("main", block()))

	root := program(
		exported,
		defaulted,
		varDecl("let", "_hidden", nil),
	)

	vars := extractTestVariables(root)
	require.Len(t, vars, 3)

	assert.True(t, vars[0].Exported)
	assert.False(t, vars[0].DefaultExport)

	assert.True(t, vars[1].Exported)
	assert.True(t, vars[1].DefaultExport)

	assert.False(t, vars[2].Exported)
	assert.True(t, vars[2].Private)
}

func TestExtractVariables_Scope(t *testing.T) {
	local := varDecl("let", "local", nil)
	root := program(
		varDecl("const", "top", nil),
		fnDecl("f", block(local)),
	)

	vars := extractTestVariables(root)
	require.Len(t, vars, 3)
	assert.Equal(t, valueobject.ScopeModule, vars[0].Scope)
	assert.Equal(t, valueobject.ScopeModule, vars[1].Scope)
	assert.Equal(t, valueobject.ScopeFunction, vars[2].Scope)
}

func TestExtractVariables_InitializerComplexity(t *testing.T) {
	init := arrowFn(block(ifStmt(ident("x"), block(), nil)))
	root := program(varDecl("const", "pick", init))

	vars := extractTestVariables(root)
	require.Len(t, vars, 1)
	assert.Equal(t, 2, vars[0].Complexity)
}
