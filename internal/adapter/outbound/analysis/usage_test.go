package analysis

import (
	"testing"

	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackTestUsages runs the full extraction plus usage pass and returns the
// variables with their recorded usages.
func trackTestUsages(root *valueobject.Node) []outbound.VariableDescriptor {
	idx := NewParentIndex(root)
	vars := extractVariables(root, idx)
	symbols := newUsageIndex()
	for i := range vars {
		symbols.add(&vars[i].Symbol)
	}
	trackUsages(root, idx, symbols)
	return vars
}

func findVar(t *testing.T, vars []outbound.VariableDescriptor, name string) outbound.VariableDescriptor {
	t.Helper()
	for _, v := range vars {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("variable %q not extracted", name)
	return outbound.VariableDescriptor{}
}

func TestTrackUsages_DeclarationIsNotAUsage(t *testing.T) {
	root := program(varDecl("const", "x", lit("1")))

	vars := trackTestUsages(root)
	assert.Equal(t, 0, findVar(t, vars, "x").UsageCount)
}

func TestTrackUsages_Classification(t *testing.T) {
	memberExpr := &valueobject.Node{Kind: valueobject.KindMemberExpression}
	memberExpr.AddChild("object", ident("obj"))
	memberExpr.AddChild("property", ident("field"))

	arrayExpr := &valueobject.Node{Kind: valueobject.KindArrayExpression}
	arrayExpr.AddChild("elements", ident("item"))

	root := program(
		varDecl("let", "target", nil),
		varDecl("const", "fn", arrowFn(block())),
		varDecl("const", "obj", nil),
		varDecl("const", "item", nil),
		varDecl("const", "flag", nil),
		varDecl("const", "plain", nil),
		exprStmt(assignExpr("target", lit("1"))),
		exprStmt(callExpr("fn")),
		exprStmt(memberExpr),
		exprStmt(arrayExpr),
		ifStmt(ident("flag"), block(), nil),
		returnStmt(ident("plain")),
	)

	vars := trackTestUsages(root)

	tests := []struct {
		name string
		want outbound.UsageKind
	}{
		{name: "target", want: outbound.UsageAssignment},
		{name: "fn", want: outbound.UsageFunctionCall},
		{name: "obj", want: outbound.UsagePropertyAccess},
		{name: "item", want: outbound.UsageArrayAccess},
		{name: "flag", want: outbound.UsageConditional},
		{name: "plain", want: outbound.UsageRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := findVar(t, vars, tt.name)
			require.Equal(t, 1, v.UsageCount)
			assert.Equal(t, tt.want, v.Usages[0].Kind)
		})
	}
}

func TestTrackUsages_Facets(t *testing.T) {
	root := program(
		varDecl("let", "count", lit("0")),
		exprStmt(assignExpr("count", lit("1"))),
	)

	v := findVar(t, trackTestUsages(root), "count")
	require.Equal(t, 1, v.UsageCount)
	u := v.Usages[0]
	assert.True(t, u.IsAssignment)
	assert.False(t, u.IsRead)
	assert.False(t, u.IsFunctionCall)
}

func TestTrackUsages_LoopClassification(t *testing.T) {
	root := program(
		varDecl("const", "items", nil),
		forOf("item", ident("items"), block()),
	)

	v := findVar(t, trackTestUsages(root), "items")
	require.Equal(t, 1, v.UsageCount)
	assert.Equal(t, outbound.UsageLoop, v.Usages[0].Kind)
	assert.True(t, v.Usages[0].IsLoopVariable)
}

func forOf(name string, right, body *valueobject.Node) *valueobject.Node {
	s := &valueobject.Node{Kind: valueobject.KindForOfStatement}
	s.AddChild("left", varDecl("const", name, nil))
	s.AddChild("right", right)
	s.AddChild("body", body)
	return s
}

func TestTrackUsages_ContextIsEnclosingFunction(t *testing.T) {
	root := program(
		varDecl("const", "shared", lit("1")),
		fnDecl("worker", block(exprStmt(callExpr("log", ident("shared"))))),
		exprStmt(callExpr("log", ident("shared"))),
	)

	v := findVar(t, trackTestUsages(root), "shared")
	require.Equal(t, 2, v.UsageCount)
	assert.Equal(t, "worker", v.Usages[0].Context)
	assert.Equal(t, "global", v.Usages[1].Context)
}

func TestTrackUsages_CountMatchesListAndLastUsed(t *testing.T) {
	root := program(
		varDecl("let", "n", lit("0")),
		exprStmt(assignExpr("n", lit("1"))),
		returnStmt(identAt("n", 9)),
	)

	v := findVar(t, trackTestUsages(root), "n")
	require.Equal(t, len(v.Usages), v.UsageCount)
	require.NotNil(t, v.LastUsedAt)
	assert.Equal(t, uint32(9), v.LastUsedAt.Line)
}

func TestTrackUsages_UntrackedNamesIgnored(t *testing.T) {
	root := program(
		varDecl("const", "known", nil),
		exprStmt(callExpr("unknownFn", ident("alsoUnknown"))),
	)

	vars := trackTestUsages(root)
	assert.Equal(t, 0, findVar(t, vars, "known").UsageCount)
}
