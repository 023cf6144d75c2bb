package valueobject

// Node kinds follow ESTree type names, which is what the upstream parser
// adapter emits. The analysis engine matches on these constants rather than
// raw strings.
const (
	KindProgram             = "Program"
	KindVariableDeclaration = "VariableDeclaration"
	KindVariableDeclarator  = "VariableDeclarator"
	KindIdentifier          = "Identifier"
	KindLiteral             = "Literal"
	KindTemplateLiteral     = "TemplateLiteral"

	KindFunctionDeclaration = "FunctionDeclaration"
	KindFunctionExpression  = "FunctionExpression"
	KindArrowFunction       = "ArrowFunctionExpression"
	KindMethodDefinition    = "MethodDefinition"
	KindClassDeclaration    = "ClassDeclaration"
	KindClassExpression     = "ClassExpression"
	KindClassBody           = "ClassBody"
	KindPropertyDefinition  = "PropertyDefinition"

	KindBlockStatement      = "BlockStatement"
	KindExpressionStatement = "ExpressionStatement"
	KindReturnStatement     = "ReturnStatement"
	KindIfStatement         = "IfStatement"
	KindForStatement        = "ForStatement"
	KindForInStatement      = "ForInStatement"
	KindForOfStatement      = "ForOfStatement"
	KindWhileStatement      = "WhileStatement"
	KindDoWhileStatement    = "DoWhileStatement"
	KindSwitchStatement     = "SwitchStatement"
	KindSwitchCase          = "SwitchCase"
	KindTryStatement        = "TryStatement"
	KindCatchClause         = "CatchClause"
	KindThrowStatement      = "ThrowStatement"
	KindBreakStatement      = "BreakStatement"
	KindContinueStatement   = "ContinueStatement"
	KindLabeledStatement    = "LabeledStatement"

	KindConditionalExpression = "ConditionalExpression"
	KindLogicalExpression     = "LogicalExpression"
	KindBinaryExpression      = "BinaryExpression"
	KindUnaryExpression       = "UnaryExpression"
	KindUpdateExpression      = "UpdateExpression"
	KindAssignmentExpression  = "AssignmentExpression"
	KindCallExpression        = "CallExpression"
	KindNewExpression         = "NewExpression"
	KindMemberExpression      = "MemberExpression"
	KindArrayExpression       = "ArrayExpression"
	KindObjectExpression      = "ObjectExpression"
	KindProperty              = "Property"
	KindSpreadElement         = "SpreadElement"
	KindSequenceExpression    = "SequenceExpression"
	KindAwaitExpression       = "AwaitExpression"
	KindYieldExpression       = "YieldExpression"
	KindThisExpression        = "ThisExpression"

	KindObjectPattern     = "ObjectPattern"
	KindArrayPattern      = "ArrayPattern"
	KindRestElement       = "RestElement"
	KindAssignmentPattern = "AssignmentPattern"

	KindImportDeclaration      = "ImportDeclaration"
	KindImportSpecifier        = "ImportSpecifier"
	KindImportDefaultSpecifier = "ImportDefaultSpecifier"
	KindImportNamespace        = "ImportNamespaceSpecifier"
	KindExportNamedDeclaration = "ExportNamedDeclaration"
	KindExportDefault          = "ExportDefaultDeclaration"
	KindExportAllDeclaration   = "ExportAllDeclaration"

	KindJSXElement    = "JSXElement"
	KindJSXFragment   = "JSXFragment"
	KindJSXIdentifier = "JSXIdentifier"
	KindJSXAttribute  = "JSXAttribute"
	KindJSXExpression = "JSXExpressionContainer"
)

// Child field names used by control constructs. The tree walker descends
// these explicitly so bodies that are not generic statement lists (an if's
// consequent/alternate, a loop's body) are always reached, even on trees
// assembled by hand.
var ControlChildFields = map[string][]string{
	KindIfStatement:           {"test", "consequent", "alternate"},
	KindForStatement:          {"init", "test", "update", "body"},
	KindForInStatement:        {"left", "right", "body"},
	KindForOfStatement:        {"left", "right", "body"},
	KindWhileStatement:        {"test", "body"},
	KindDoWhileStatement:      {"body", "test"},
	KindSwitchStatement:       {"discriminant", "cases"},
	KindSwitchCase:            {"test", "consequent"},
	KindConditionalExpression: {"test", "consequent", "alternate"},
	KindTryStatement:          {"block", "handler", "finalizer"},
	KindCatchClause:           {"param", "body"},
}

// IsFunctionKind reports whether the kind is any function-like construct.
func IsFunctionKind(kind string) bool {
	switch kind {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction, KindMethodDefinition:
		return true
	default:
		return false
	}
}

// IsLoopKind reports whether the kind is a loop construct.
func IsLoopKind(kind string) bool {
	switch kind {
	case KindForStatement, KindForInStatement, KindForOfStatement, KindWhileStatement, KindDoWhileStatement:
		return true
	default:
		return false
	}
}

// IsConditionalKind reports whether the kind is a branching construct.
func IsConditionalKind(kind string) bool {
	switch kind {
	case KindIfStatement, KindSwitchStatement, KindConditionalExpression:
		return true
	default:
		return false
	}
}

// IsStatementKind reports whether the kind is a statement-level construct.
func IsStatementKind(kind string) bool {
	switch kind {
	case KindVariableDeclaration, KindExpressionStatement, KindReturnStatement,
		KindIfStatement, KindForStatement, KindForInStatement, KindForOfStatement,
		KindWhileStatement, KindDoWhileStatement, KindSwitchStatement,
		KindTryStatement, KindThrowStatement, KindBreakStatement,
		KindContinueStatement, KindBlockStatement, KindLabeledStatement,
		KindFunctionDeclaration, KindClassDeclaration:
		return true
	default:
		return false
	}
}

// IsUIElementKind reports whether the kind renders a UI element.
func IsUIElementKind(kind string) bool {
	return kind == KindJSXElement || kind == KindJSXFragment
}
