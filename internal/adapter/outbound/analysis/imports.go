package analysis

import (
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// extractImports collects the file's import statements in source order.
func extractImports(root *valueobject.Node) []outbound.ImportRecord {
	var out []outbound.ImportRecord
	for _, stmt := range root.ChildNodes() {
		if stmt.Kind != valueobject.KindImportDeclaration {
			continue
		}
		record := outbound.ImportRecord{
			Source:   literalValue(stmt.Field("source")),
			Position: stmt.Pos,
		}
		for _, spec := range stmt.FieldAll("specifiers") {
			switch spec.Kind {
			case valueobject.KindImportDefaultSpecifier:
				record.Default = identifierText(spec.Field("local"))
			case valueobject.KindImportSpecifier, valueobject.KindImportNamespace:
				if name := identifierText(spec.Field("local")); name != "" {
					record.Symbols = append(record.Symbols, name)
				}
			}
		}
		out = append(out, record)
	}
	return out
}

// importSources lists the module paths a file imports, for framework
// detection.
func importSources(imports []outbound.ImportRecord) []string {
	if len(imports) == 0 {
		return nil
	}
	out := make([]string, 0, len(imports))
	for _, imp := range imports {
		out = append(out, imp.Source)
	}
	return out
}
