package analysis

import (
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// extractVariables collects the variable descriptors of a tree. Declarations
// whose binding target is a destructuring pattern are skipped entirely: no
// descriptor is produced for any name the pattern introduces.
func extractVariables(root *valueobject.Node, idx *ParentIndex) []outbound.VariableDescriptor {
	var out []outbound.VariableDescriptor

	walker := NewWalker(map[string]VisitFunc{
		valueobject.KindVariableDeclaration: func(n *valueobject.Node) {
			form := declarationForm(n.Attr("kind"))
			for _, decl := range n.FieldAll("declarations") {
				if decl.Kind != valueobject.KindVariableDeclarator {
					continue
				}
				id := decl.Field("id")
				name := identifierText(id)
				if name == "" {
					// ObjectPattern / ArrayPattern targets.
					continue
				}
				out = append(out, newVariable(idx, n, id, name, form, decl.Field("init")))
			}
		},
		valueobject.KindFunctionDeclaration: func(n *valueobject.Node) {
			name := identifierText(n.Field("id"))
			if name == "" {
				name = anonymousName
			}
			v := newVariable(idx, n, n, name, outbound.DeclFunction, nil)
			v.InferredType = outbound.TypeFunction
			v.Complexity = complexityOf(n)
			out = append(out, v)
		},
		valueobject.KindClassDeclaration: func(n *valueobject.Node) {
			name := identifierText(n.Field("id"))
			if name == "" {
				name = anonymousName
			}
			v := newVariable(idx, n, n, name, outbound.DeclClass, nil)
			v.InferredType = outbound.TypeClass
			v.Complexity = complexityOf(n)
			out = append(out, v)
		},
	})
	walker.Walk(root)
	return out
}

func newVariable(idx *ParentIndex, decl, named *valueobject.Node, name string, form outbound.DeclarationForm, init *valueobject.Node) outbound.VariableDescriptor {
	if init != nil && init.Kind == valueobject.KindArrowFunction {
		form = outbound.DeclArrow
	}
	exported, defaultExport := exportFlags(idx, decl)
	v := outbound.VariableDescriptor{
		Symbol: outbound.Symbol{
			Name:          name,
			Kind:          outbound.SymbolKindVariable,
			Scope:         resolveScope(idx, decl),
			Position:      named.Pos,
			Exported:      exported,
			DefaultExport: defaultExport,
			Private:       isPrivateName(name),
			Complexity:    1,
		},
		Form:     form,
		ReadOnly: form == outbound.DeclConst,
	}
	if init != nil {
		v.InferredType = inferType(init)
		v.Value = literalValue(init)
		v.Complexity = complexityOf(init)
	} else if v.InferredType == "" {
		v.InferredType = outbound.TypeAny
	}
	return v
}

func declarationForm(keyword string) outbound.DeclarationForm {
	switch keyword {
	case "let":
		return outbound.DeclLet
	case "const":
		return outbound.DeclConst
	default:
		return outbound.DeclVar
	}
}
