package analysis

import (
	"strconv"
	"strings"

	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// anonymousName is the sentinel for constructs with no derivable name.
const anonymousName = "anonymous"

// identifierText returns the name carried by an Identifier or JSXIdentifier
// node, or "" for anything else.
func identifierText(n *valueobject.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == valueobject.KindIdentifier || n.Kind == valueobject.KindJSXIdentifier {
		return n.Text
	}
	return ""
}

// functionName derives the name of a function-like node. Declarations and
// methods carry their own id or key; expressions take the name of the
// variable or property they are assigned to. Everything else is anonymous.
func functionName(idx *ParentIndex, fn *valueobject.Node) string {
	if fn == nil {
		return anonymousName
	}
	if name := identifierText(fn.Field("id")); name != "" {
		return name
	}
	if name := identifierText(fn.Field("key")); name != "" {
		return name
	}

	switch p := idx.ParentOf(fn); {
	case p == nil:
	case p.Kind == valueobject.KindVariableDeclarator:
		if name := identifierText(p.Field("id")); name != "" {
			return name
		}
	case p.Kind == valueobject.KindProperty, p.Kind == valueobject.KindMethodDefinition,
		p.Kind == valueobject.KindPropertyDefinition:
		if name := identifierText(p.Field("key")); name != "" {
			return name
		}
	case p.Kind == valueobject.KindAssignmentExpression:
		if name := identifierText(p.Field("left")); name != "" {
			return name
		}
	}
	return anonymousName
}

// enclosingContext labels the nearest enclosing named function of n, used as
// the usage-record context. Nodes at module level are labeled "global".
func enclosingContext(idx *ParentIndex, n *valueobject.Node) string {
	for fn := idx.EnclosingFunction(n); fn != nil; fn = idx.EnclosingFunction(fn) {
		if name := functionName(idx, fn); name != anonymousName {
			return name
		}
	}
	return "global"
}

// literalValue returns the plain value of a Literal node: string literals
// are unquoted, everything else keeps its raw text.
func literalValue(n *valueobject.Node) string {
	if n == nil || n.Kind != valueobject.KindLiteral {
		return ""
	}
	raw := n.Text
	if len(raw) >= 2 {
		switch raw[0] {
		case '"', '\'', '`':
			if raw[len(raw)-1] == raw[0] {
				return raw[1 : len(raw)-1]
			}
		}
	}
	return raw
}

// inferType makes the shallow, literal-derived type guess for an expression
// node. Anything not decidable from the node's own shape is tagged any.
func inferType(n *valueobject.Node) outbound.TypeTag {
	if n == nil {
		return outbound.TypeAny
	}
	switch n.Kind {
	case valueobject.KindLiteral:
		return literalTypeTag(n.Text)
	case valueobject.KindTemplateLiteral:
		return outbound.TypeString
	case valueobject.KindArrayExpression:
		return outbound.TypeArray
	case valueobject.KindObjectExpression:
		return outbound.TypeObject
	case valueobject.KindArrowFunction, valueobject.KindFunctionExpression:
		return outbound.TypeFunction
	case valueobject.KindClassExpression:
		return outbound.TypeClass
	case valueobject.KindNewExpression:
		return outbound.TypeObject
	case valueobject.KindJSXElement, valueobject.KindJSXFragment:
		return outbound.TypeObject
	default:
		return outbound.TypeAny
	}
}

func literalTypeTag(raw string) outbound.TypeTag {
	switch {
	case raw == "":
		return outbound.TypeAny
	case raw[0] == '"' || raw[0] == '\'' || raw[0] == '`':
		return outbound.TypeString
	case raw == "true" || raw == "false":
		return outbound.TypeBoolean
	case raw == "null" || raw == "undefined":
		return outbound.TypeAny
	default:
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return outbound.TypeNumber
		}
		return outbound.TypeAny
	}
}

// isPrivateName applies the leading-underscore convention.
func isPrivateName(name string) bool {
	return strings.HasPrefix(name, "_")
}

// exportFlags reports whether a declaration statement sits directly inside
// an export wrapper. Only the immediate parent counts; nested declarations
// inside an exported function are not themselves exported.
func exportFlags(idx *ParentIndex, decl *valueobject.Node) (exported, defaultExport bool) {
	switch p := idx.ParentOf(decl); {
	case p == nil:
		return false, false
	case p.Kind == valueobject.KindExportNamedDeclaration:
		return true, false
	case p.Kind == valueobject.KindExportDefault:
		return true, true
	default:
		return false, false
	}
}
