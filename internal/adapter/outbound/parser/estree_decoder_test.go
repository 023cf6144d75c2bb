package parser

import (
	"strings"
	"testing"

	"codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const constDeclJSON = `{
  "type": "Program",
  "sourceType": "module",
  "loc": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 18}},
  "body": [
    {
      "type": "VariableDeclaration",
      "kind": "const",
      "loc": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 18}},
      "declarations": [
        {
          "type": "VariableDeclarator",
          "id": {"type": "Identifier", "name": "answer", "loc": {"start": {"line": 1, "column": 6}, "end": {"line": 1, "column": 12}}},
          "init": {"type": "Literal", "value": 42, "raw": "42"}
        }
      ]
    }
  ]
}`

func TestDecodeTree_ConstDeclaration(t *testing.T) {
	root, err := DecodeTree(strings.NewReader(constDeclJSON))
	require.NoError(t, err)

	require.Equal(t, valueobject.KindProgram, root.Kind)
	assert.Equal(t, "module", root.Attr("sourceType"))

	stmts := root.FieldAll("body")
	require.Len(t, stmts, 1)
	decl := stmts[0]
	assert.Equal(t, valueobject.KindVariableDeclaration, decl.Kind)
	assert.Equal(t, "const", decl.Attr("kind"))

	declarator := decl.Field("declarations")
	require.NotNil(t, declarator)
	id := declarator.Field("id")
	require.NotNil(t, id)
	assert.Equal(t, "answer", id.Text)
	assert.Equal(t, uint32(1), id.Pos.Line)
	assert.Equal(t, uint32(6), id.Pos.Column)
	assert.Equal(t, "42", declarator.Field("init").Text)
}

func TestDecodeTree_IfStatementFieldOrder(t *testing.T) {
	doc := `{
  "type": "Program",
  "body": [{
    "type": "IfStatement",
    "alternate": {"type": "BlockStatement", "body": []},
    "consequent": {"type": "BlockStatement", "body": []},
    "test": {"type": "Identifier", "name": "ready"}
  }]
}`
	root, err := DecodeTree(strings.NewReader(doc))
	require.NoError(t, err)

	ifStmt := root.FieldAll("body")[0]
	require.Equal(t, valueobject.KindIfStatement, ifStmt.Kind)
	// Control fields come out in grammar order regardless of JSON key order.
	require.Len(t, ifStmt.Children, 3)
	assert.Equal(t, "test", ifStmt.Children[0].Field)
	assert.Equal(t, "consequent", ifStmt.Children[1].Field)
	assert.Equal(t, "alternate", ifStmt.Children[2].Field)
}

func TestDecodeTree_FunctionModifiers(t *testing.T) {
	doc := `{
  "type": "Program",
  "body": [{
    "type": "FunctionDeclaration",
    "async": true,
    "generator": false,
    "id": {"type": "Identifier", "name": "fetchAll"},
    "params": [],
    "body": {"type": "BlockStatement", "body": []}
  }]
}`
	root, err := DecodeTree(strings.NewReader(doc))
	require.NoError(t, err)

	fn := root.FieldAll("body")[0]
	assert.True(t, fn.HasAttr("async"))
	assert.False(t, fn.HasAttr("generator"))
	assert.Equal(t, "fetchAll", fn.Field("id").Text)
}

func TestDecodeTree_JSXFlattening(t *testing.T) {
	doc := `{
  "type": "Program",
  "body": [{
    "type": "ExpressionStatement",
    "expression": {
      "type": "JSXElement",
      "openingElement": {
        "type": "JSXOpeningElement",
        "name": {"type": "JSXIdentifier", "name": "Header"},
        "attributes": [{"type": "JSXAttribute", "name": {"type": "JSXIdentifier", "name": "title"}}]
      },
      "closingElement": {"type": "JSXClosingElement", "name": {"type": "JSXIdentifier", "name": "Header"}},
      "children": []
    }
  }]
}`
	root, err := DecodeTree(strings.NewReader(doc))
	require.NoError(t, err)

	jsx := root.FieldAll("body")[0].Field("expression")
	require.Equal(t, valueobject.KindJSXElement, jsx.Kind)
	name := jsx.Field("name")
	require.NotNil(t, name)
	assert.Equal(t, "Header", name.Text)
	assert.Len(t, jsx.FieldAll("attributes"), 1)
	assert.Nil(t, jsx.Field("openingElement"))
	assert.Nil(t, jsx.Field("closingElement"))
}

func TestDecodeTree_MalformedJSON(t *testing.T) {
	_, err := DecodeTree(strings.NewReader(`{"type": "Program", "body": [`))
	require.ErrorIs(t, err, domain.ErrTruncatedTree)
}

func TestDecodeTree_NonProgramRoot(t *testing.T) {
	_, err := DecodeTree(strings.NewReader(`{"type": "Identifier", "name": "x"}`))
	require.ErrorIs(t, err, domain.ErrNotProgramRoot)
}

func TestDecodeTree_KeepsOneBasedLines(t *testing.T) {
	const multiLineJSON = `{
  "type": "Program",
  "sourceType": "module",
  "loc": {"start": {"line": 1, "column": 0}, "end": {"line": 3, "column": 14}},
  "body": [
    {
      "type": "ExpressionStatement",
      "loc": {"start": {"line": 3, "column": 0}, "end": {"line": 3, "column": 14}},
      "expression": {
        "type": "Identifier",
        "name": "later",
        "loc": {"start": {"line": 3, "column": 0}, "end": {"line": 3, "column": 5}}
      }
    }
  ]
}`

	root, err := DecodeTree(strings.NewReader(multiLineJSON))
	require.NoError(t, err)

	// Line numbers are carried through exactly as the parser emitted
	// them: one-based, never shifted.
	assert.Equal(t, uint32(1), root.Pos.Line)
	stmt := root.Field("body")
	require.NotNil(t, stmt)
	assert.Equal(t, uint32(3), stmt.Pos.Line)
	assert.Equal(t, uint32(0), stmt.Pos.Column)
	assert.Equal(t, uint32(3), stmt.End.Line)
}
