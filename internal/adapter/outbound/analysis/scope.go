package analysis

import (
	"codeatlas/internal/domain/valueobject"
)

// resolveScope classifies the lexical scope enclosing n by climbing its
// ancestor chain. A method or field body resolves to class even though it is
// lexically also inside a function: the function expression carrying a
// method body is skipped in favor of its MethodDefinition parent. A block
// hanging off a control construct resolves to block; a function body block
// falls through to the enclosing function.
func resolveScope(idx *ParentIndex, n *valueobject.Node) valueobject.ScopeKind {
	for p := idx.ParentOf(n); p != nil; p = idx.ParentOf(p) {
		switch p.Kind {
		case valueobject.KindMethodDefinition, valueobject.KindClassBody, valueobject.KindPropertyDefinition:
			return valueobject.ScopeClass
		case valueobject.KindBlockStatement:
			gp := idx.ParentOf(p)
			if gp != nil && !valueobject.IsFunctionKind(gp.Kind) {
				return valueobject.ScopeBlock
			}
			continue
		}
		if valueobject.IsFunctionKind(p.Kind) {
			if gp := idx.ParentOf(p); gp != nil &&
				(gp.Kind == valueobject.KindMethodDefinition || gp.Kind == valueobject.KindPropertyDefinition) {
				continue
			}
			return valueobject.ScopeFunction
		}
	}
	return valueobject.ScopeModule
}
