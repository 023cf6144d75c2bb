package analysis

import (
	"context"
	"testing"

	"codeatlas/internal/domain/valueobject"
	"github.com/stretchr/testify/require"
)

// Tree builders for tests. Line numbers are assigned explicitly where a test
// asserts on them; everything else defaults to zero.

func ident(name string) *valueobject.Node {
	return &valueobject.Node{Kind: valueobject.KindIdentifier, Text: name}
}

func identAt(name string, line uint32) *valueobject.Node {
	return &valueobject.Node{Kind: valueobject.KindIdentifier, Text: name, Pos: valueobject.Position{Line: line}}
}

func lit(raw string) *valueobject.Node {
	return &valueobject.Node{Kind: valueobject.KindLiteral, Text: raw}
}

func program(stmts ...*valueobject.Node) *valueobject.Node {
	root := &valueobject.Node{Kind: valueobject.KindProgram}
	for _, s := range stmts {
		root.AddChild("body", s)
	}
	return root
}

func block(stmts ...*valueobject.Node) *valueobject.Node {
	b := &valueobject.Node{Kind: valueobject.KindBlockStatement}
	for _, s := range stmts {
		b.AddChild("body", s)
	}
	return b
}

// varDecl builds `<keyword> <name> = <init>` with a single declarator.
func varDecl(keyword, name string, init *valueobject.Node) *valueobject.Node {
	decl := &valueobject.Node{Kind: valueobject.KindVariableDeclaration}
	decl.SetAttr("kind", keyword)
	declarator := &valueobject.Node{Kind: valueobject.KindVariableDeclarator}
	declarator.AddChild("id", ident(name))
	if init != nil {
		declarator.AddChild("init", init)
	}
	decl.AddChild("declarations", declarator)
	return decl
}

// patternDecl builds a declaration whose binding target is a pattern node.
func patternDecl(keyword string, pattern, init *valueobject.Node) *valueobject.Node {
	decl := &valueobject.Node{Kind: valueobject.KindVariableDeclaration}
	decl.SetAttr("kind", keyword)
	declarator := &valueobject.Node{Kind: valueobject.KindVariableDeclarator}
	declarator.AddChild("id", pattern)
	if init != nil {
		declarator.AddChild("init", init)
	}
	decl.AddChild("declarations", declarator)
	return decl
}

func fnDecl(name string, body *valueobject.Node, params ...*valueobject.Node) *valueobject.Node {
	fn := &valueobject.Node{Kind: valueobject.KindFunctionDeclaration}
	fn.AddChild("id", ident(name))
	for _, p := range params {
		fn.AddChild("params", p)
	}
	fn.AddChild("body", body)
	return fn
}

func arrowFn(body *valueobject.Node, params ...*valueobject.Node) *valueobject.Node {
	fn := &valueobject.Node{Kind: valueobject.KindArrowFunction}
	for _, p := range params {
		fn.AddChild("params", p)
	}
	fn.AddChild("body", body)
	return fn
}

func ifStmt(test, consequent, alternate *valueobject.Node) *valueobject.Node {
	s := &valueobject.Node{Kind: valueobject.KindIfStatement}
	s.AddChild("test", test)
	s.AddChild("consequent", consequent)
	if alternate != nil {
		s.AddChild("alternate", alternate)
	}
	return s
}

func forStmt(body *valueobject.Node) *valueobject.Node {
	s := &valueobject.Node{Kind: valueobject.KindForStatement}
	s.AddChild("init", varDecl("let", "i", lit("0")))
	test := &valueobject.Node{Kind: valueobject.KindBinaryExpression}
	test.SetAttr("operator", "<")
	test.AddChild("left", ident("i"))
	test.AddChild("right", lit("10"))
	s.AddChild("test", test)
	update := &valueobject.Node{Kind: valueobject.KindUpdateExpression}
	update.SetAttr("operator", "++")
	update.AddChild("argument", ident("i"))
	s.AddChild("update", update)
	s.AddChild("body", body)
	return s
}

func returnStmt(arg *valueobject.Node) *valueobject.Node {
	s := &valueobject.Node{Kind: valueobject.KindReturnStatement}
	if arg != nil {
		s.AddChild("argument", arg)
	}
	return s
}

func exprStmt(expr *valueobject.Node) *valueobject.Node {
	s := &valueobject.Node{Kind: valueobject.KindExpressionStatement}
	s.AddChild("expression", expr)
	return s
}

func callExpr(callee string, args ...*valueobject.Node) *valueobject.Node {
	c := &valueobject.Node{Kind: valueobject.KindCallExpression}
	c.AddChild("callee", ident(callee))
	for _, a := range args {
		c.AddChild("arguments", a)
	}
	return c
}

func assignExpr(name string, right *valueobject.Node) *valueobject.Node {
	a := &valueobject.Node{Kind: valueobject.KindAssignmentExpression}
	a.SetAttr("operator", "=")
	a.AddChild("left", ident(name))
	a.AddChild("right", right)
	return a
}

func jsxElement(tag string) *valueobject.Node {
	e := &valueobject.Node{Kind: valueobject.KindJSXElement}
	e.AddChild("name", &valueobject.Node{Kind: valueobject.KindJSXIdentifier, Text: tag})
	return e
}

func importDecl(source string, defaultName string, named ...string) *valueobject.Node {
	imp := &valueobject.Node{Kind: valueobject.KindImportDeclaration}
	imp.AddChild("source", lit(`"`+source+`"`))
	if defaultName != "" {
		spec := &valueobject.Node{Kind: valueobject.KindImportDefaultSpecifier}
		spec.AddChild("local", ident(defaultName))
		imp.AddChild("specifiers", spec)
	}
	for _, name := range named {
		spec := &valueobject.Node{Kind: valueobject.KindImportSpecifier}
		spec.AddChild("local", ident(name))
		imp.AddChild("specifiers", spec)
	}
	return imp
}

func classDecl(name, superClass string, methods ...*valueobject.Node) *valueobject.Node {
	class := &valueobject.Node{Kind: valueobject.KindClassDeclaration}
	class.AddChild("id", ident(name))
	if superClass != "" {
		class.AddChild("superClass", ident(superClass))
	}
	body := &valueobject.Node{Kind: valueobject.KindClassBody}
	for _, m := range methods {
		body.AddChild("body", m)
	}
	class.AddChild("body", body)
	return class
}

func methodDef(name string, body *valueobject.Node, params ...*valueobject.Node) *valueobject.Node {
	m := &valueobject.Node{Kind: valueobject.KindMethodDefinition}
	m.AddChild("key", ident(name))
	value := &valueobject.Node{Kind: valueobject.KindFunctionExpression}
	for _, p := range params {
		value.AddChild("params", p)
	}
	value.AddChild("body", body)
	m.AddChild("value", value)
	return m
}

func newTestTree(t *testing.T, root *valueobject.Node) *valueobject.SyntaxTree {
	t.Helper()
	tree, err := valueobject.NewSyntaxTree(context.Background(), valueobject.LanguageJSX, root, nil)
	require.NoError(t, err)
	return tree
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine()
	require.NoError(t, err)
	return engine
}
