package analysis

import (
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// usageIndex maps symbol names to the symbols that will receive usage
// records. Matching is by name only; same-named symbols in different scopes
// all receive the record, since occurrences are not scope-resolved.
type usageIndex struct {
	byName map[string][]*outbound.Symbol
}

func newUsageIndex() *usageIndex {
	return &usageIndex{byName: make(map[string][]*outbound.Symbol)}
}

func (u *usageIndex) add(s *outbound.Symbol) {
	u.byName[s.Name] = append(u.byName[s.Name], s)
}

// trackUsages walks the tree once and appends a classified usage record to
// every tracked symbol whose name matches an identifier occurrence. The
// identifier at a symbol's own declaration position is not a usage.
func trackUsages(root *valueobject.Node, idx *ParentIndex, symbols *usageIndex) {
	WalkAll(root, func(n *valueobject.Node) {
		if n.Kind != valueobject.KindIdentifier || n.Text == "" {
			return
		}
		targets := symbols.byName[n.Text]
		if len(targets) == 0 {
			return
		}
		if isDeclarationSite(idx, n) {
			return
		}

		kind := classifyUsage(idx, n)
		record := outbound.UsageRecord{
			Kind:             kind,
			Position:         n.Pos,
			Context:          enclosingContext(idx, n),
			IsAssignment:     kind == outbound.UsageAssignment,
			IsRead:           kind != outbound.UsageAssignment,
			IsFunctionCall:   kind == outbound.UsageFunctionCall,
			IsPropertyAccess: kind == outbound.UsagePropertyAccess,
			IsLoopVariable:   inLoopHeader(idx, n),
		}
		for _, s := range targets {
			s.RecordUsage(record)
		}
	})
}

// isDeclarationSite reports whether the identifier is the binding name of a
// declaration rather than a reference: a declarator id, a function or class
// id, a method key, a parameter, or an import binding.
func isDeclarationSite(idx *ParentIndex, n *valueobject.Node) bool {
	p := idx.ParentOf(n)
	if p == nil {
		return false
	}
	field := idx.FieldOf(n)
	switch p.Kind {
	case valueobject.KindVariableDeclarator:
		return field == "id"
	case valueobject.KindFunctionDeclaration, valueobject.KindFunctionExpression,
		valueobject.KindArrowFunction, valueobject.KindClassDeclaration,
		valueobject.KindClassExpression:
		return field == "id" || field == "params"
	case valueobject.KindMethodDefinition, valueobject.KindProperty,
		valueobject.KindPropertyDefinition:
		return field == "key"
	case valueobject.KindAssignmentPattern, valueobject.KindRestElement:
		return true
	case valueobject.KindImportSpecifier, valueobject.KindImportDefaultSpecifier,
		valueobject.KindImportNamespace:
		return true
	default:
		return false
	}
}

// classifyUsage derives the usage kind from the identifier's immediate
// parent, falling back to an ancestor climb that looks for the test of a
// branching construct and then for any enclosing loop.
func classifyUsage(idx *ParentIndex, n *valueobject.Node) outbound.UsageKind {
	p := idx.ParentOf(n)
	if p == nil {
		return outbound.UsageRead
	}
	field := idx.FieldOf(n)
	switch p.Kind {
	case valueobject.KindAssignmentExpression:
		if field == "left" {
			return outbound.UsageAssignment
		}
	case valueobject.KindUpdateExpression:
		return outbound.UsageAssignment
	case valueobject.KindCallExpression, valueobject.KindNewExpression:
		if field == "callee" {
			return outbound.UsageFunctionCall
		}
	case valueobject.KindMemberExpression:
		if field == "object" {
			return outbound.UsagePropertyAccess
		}
	case valueobject.KindArrayExpression:
		return outbound.UsageArrayAccess
	}

	child := n
	for a := p; a != nil; a = idx.ParentOf(a) {
		if valueobject.IsConditionalKind(a.Kind) && idx.FieldOf(child) == "test" {
			return outbound.UsageConditional
		}
		if valueobject.IsLoopKind(a.Kind) {
			return outbound.UsageLoop
		}
		child = a
	}
	return outbound.UsageRead
}

// inLoopHeader reports whether the identifier sits in a loop's header fields
// rather than its body.
func inLoopHeader(idx *ParentIndex, n *valueobject.Node) bool {
	child := n
	for a := idx.ParentOf(n); a != nil; a = idx.ParentOf(a) {
		if valueobject.IsLoopKind(a.Kind) {
			switch idx.FieldOf(child) {
			case "init", "test", "update", "left", "right":
				return true
			}
			return false
		}
		child = a
	}
	return false
}
