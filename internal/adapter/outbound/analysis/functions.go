package analysis

import (
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// extractedFunction pairs a function descriptor with the node it was derived
// from, so later passes (component detection, flow synthesis) can revisit
// the body without re-searching the tree.
type extractedFunction struct {
	Desc outbound.FunctionDescriptor
	Node *valueobject.Node
}

// extractFunctions collects function declarations, function and arrow
// expressions assigned to a variable or property, and class method
// definitions. The function expression carried by a method definition is
// not reported separately.
func extractFunctions(root *valueobject.Node, idx *ParentIndex) []extractedFunction {
	var out []extractedFunction

	WalkAll(root, func(n *valueobject.Node) {
		switch n.Kind {
		case valueobject.KindFunctionDeclaration:
			out = append(out, newFunction(idx, n, n))
		case valueobject.KindMethodDefinition:
			out = append(out, newFunction(idx, n, n))
		case valueobject.KindFunctionExpression, valueobject.KindArrowFunction:
			p := idx.ParentOf(n)
			if p == nil {
				return
			}
			switch p.Kind {
			case valueobject.KindVariableDeclarator, valueobject.KindProperty,
				valueobject.KindAssignmentExpression, valueobject.KindPropertyDefinition:
				out = append(out, newFunction(idx, n, n))
			}
		}
	})
	return out
}

func newFunction(idx *ParentIndex, fn, named *valueobject.Node) extractedFunction {
	// A method definition wraps its function expression; params, body and
	// modifier attributes live on the value node.
	value := fn
	if fn.Kind == valueobject.KindMethodDefinition {
		if v := fn.Field("value"); v != nil {
			value = v
		}
	}

	name := functionName(idx, fn)

	// Export flags attach to the enclosing statement: the declaration
	// itself, or the variable declaration carrying the expression.
	exportAnchor := fn
	if fn.Kind != valueobject.KindFunctionDeclaration {
		for p := idx.ParentOf(exportAnchor); p != nil; p = idx.ParentOf(p) {
			exportAnchor = p
			if p.Kind == valueobject.KindVariableDeclaration || valueobject.IsStatementKind(p.Kind) {
				break
			}
		}
	}
	exported, defaultExport := exportFlags(idx, exportAnchor)

	desc := outbound.FunctionDescriptor{
		Symbol: outbound.Symbol{
			Name:          name,
			Kind:          outbound.SymbolKindFunction,
			Scope:         resolveScope(idx, fn),
			Position:      named.Pos,
			Exported:      exported,
			DefaultExport: defaultExport,
			Private:       isPrivateName(name),
		},
		Parameters:  extractParameters(value),
		ReturnType:  inferReturnType(value),
		IsAsync:     value.HasAttr("async"),
		IsGenerator: value.HasAttr("generator"),
		IsArrow:     value.Kind == valueobject.KindArrowFunction,
		IsMethod:    fn.Kind == valueobject.KindMethodDefinition,
		IsStatic:    fn.HasAttr("static"),
		Performance: metricsOf(value),
	}
	desc.Complexity = desc.Performance.CyclomaticComplexity
	return extractedFunction{Desc: desc, Node: value}
}

func extractParameters(fn *valueobject.Node) []outbound.Parameter {
	params := fn.FieldAll("params")
	if len(params) == 0 {
		return nil
	}
	out := make([]outbound.Parameter, 0, len(params))
	for _, p := range params {
		switch p.Kind {
		case valueobject.KindIdentifier:
			out = append(out, outbound.Parameter{Name: p.Text, Type: outbound.TypeAny})
		case valueobject.KindAssignmentPattern:
			param := outbound.Parameter{
				Name:     identifierText(p.Field("left")),
				Optional: true,
			}
			if def := p.Field("right"); def != nil {
				param.DefaultValue = literalValue(def)
				param.Type = inferType(def)
			} else {
				param.Type = outbound.TypeAny
			}
			out = append(out, param)
		case valueobject.KindRestElement:
			out = append(out, outbound.Parameter{
				Name:   identifierText(p.Field("argument")),
				Type:   outbound.TypeArray,
				IsRest: true,
			})
		case valueobject.KindObjectPattern, valueobject.KindArrayPattern:
			// Destructured parameters carry no single name.
			out = append(out, outbound.Parameter{Name: anonymousName, Type: outbound.TypeObject})
		}
	}
	return out
}

// inferReturnType guesses a function's return type from its first return
// statement, or from the expression body of a braceless arrow. Nested
// functions are not descended.
func inferReturnType(fn *valueobject.Node) outbound.TypeTag {
	body := fn.Field("body")
	if body == nil {
		return outbound.TypeAny
	}
	if body.Kind != valueobject.KindBlockStatement {
		return inferType(body)
	}
	if ret := firstOwnReturn(body); ret != nil {
		if arg := ret.Field("argument"); arg != nil {
			return inferType(arg)
		}
	}
	return outbound.TypeAny
}

func firstOwnReturn(n *valueobject.Node) *valueobject.Node {
	for _, c := range n.Children {
		child := c.Node
		if child == nil || valueobject.IsFunctionKind(child.Kind) {
			continue
		}
		if child.Kind == valueobject.KindReturnStatement {
			return child
		}
		if ret := firstOwnReturn(child); ret != nil {
			return ret
		}
	}
	return nil
}
