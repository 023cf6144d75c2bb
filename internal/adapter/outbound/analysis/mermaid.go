package analysis

import (
	"strings"

	"codeatlas/internal/port/outbound"
)

// RenderMermaid converts a flow graph to Mermaid flowchart syntax. Nodes and
// edges are emitted in graph order, so rendering is deterministic.
func RenderMermaid(g *outbound.FlowGraph) string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")
	if g.Title != "" {
		sb.WriteString("    %% " + g.Title + "\n")
	}
	for _, n := range g.Nodes {
		sb.WriteString("    " + n.ID + mermaidShape(n) + "\n")
	}
	for _, e := range g.Edges {
		if e.Label != "" {
			sb.WriteString("    " + e.From + " -->|" + escapeMermaid(e.Label) + "| " + e.To + "\n")
		} else {
			sb.WriteString("    " + e.From + " --> " + e.To + "\n")
		}
	}
	return sb.String()
}

func mermaidShape(n outbound.FlowNode) string {
	label := escapeMermaid(n.Label)
	switch n.Shape {
	case outbound.ShapeStart, outbound.ShapeEnd:
		return "([" + label + "])"
	case outbound.ShapeDecision:
		return "{" + label + "}"
	case outbound.ShapeLoop:
		return "[[" + label + "]]"
	default:
		return "[" + label + "]"
	}
}

func escapeMermaid(label string) string {
	r := strings.NewReplacer(
		`"`, "&quot;",
		"[", "&#91;",
		"]", "&#93;",
		"{", "&#123;",
		"}", "&#125;",
		"|", "&#124;",
		"<", "&lt;",
		">", "&gt;",
	)
	return r.Replace(label)
}
