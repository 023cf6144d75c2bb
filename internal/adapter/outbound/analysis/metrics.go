package analysis

import (
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// isDecisionPoint reports whether a node contributes to cyclomatic
// complexity: if statements, ternaries, switch statements, every loop form,
// catch clauses, and the && / || logical operators.
func isDecisionPoint(n *valueobject.Node) bool {
	switch n.Kind {
	case valueobject.KindIfStatement, valueobject.KindConditionalExpression,
		valueobject.KindSwitchStatement, valueobject.KindCatchClause:
		return true
	case valueobject.KindLogicalExpression:
		op := n.Attr("operator")
		return op == "&&" || op == "||"
	default:
		return valueobject.IsLoopKind(n.Kind)
	}
}

// complexityOf computes cyclomatic complexity for a subtree: 1 plus the
// number of decision points it contains. The result is a pure function of
// the subtree, so the same node always scores the same.
func complexityOf(subtree *valueobject.Node) int {
	score := 1
	WalkAll(subtree, func(n *valueobject.Node) {
		if isDecisionPoint(n) {
			score++
		}
	})
	return score
}

// cognitiveOf computes a nesting-weighted complexity score: each control
// construct costs 1 plus its control-nesting depth, and each short-circuit
// operator costs 1. Flat sequences stay cheap while deeply nested branching
// grows fast.
func cognitiveOf(subtree *valueobject.Node) int {
	return cognitiveWalk(subtree, 0)
}

func cognitiveWalk(n *valueobject.Node, depth int) int {
	if n == nil {
		return 0
	}
	score := 0
	childDepth := depth
	switch {
	case valueobject.IsConditionalKind(n.Kind) || valueobject.IsLoopKind(n.Kind) ||
		n.Kind == valueobject.KindCatchClause:
		score += 1 + depth
		childDepth++
	case isDecisionPoint(n):
		score++
	}
	for _, c := range n.Children {
		score += cognitiveWalk(c.Node, childDepth)
	}
	return score
}

// nestingDepthOf returns the deepest chain of nested control constructs in
// the subtree.
func nestingDepthOf(n *valueobject.Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := nestingDepthOf(c.Node); d > deepest {
			deepest = d
		}
	}
	if valueobject.IsConditionalKind(n.Kind) || valueobject.IsLoopKind(n.Kind) ||
		n.Kind == valueobject.KindTryStatement {
		deepest++
	}
	return deepest
}

// metricsOf computes the full structural metrics record for a subtree. When
// the subtree is function-like, parameters come from its params field.
func metricsOf(subtree *valueobject.Node) outbound.PerformanceMetrics {
	m := outbound.PerformanceMetrics{
		CyclomaticComplexity: complexityOf(subtree),
		CognitiveComplexity:  cognitiveOf(subtree),
		NestingDepth:         nestingDepthOf(subtree),
	}
	if subtree == nil {
		return m
	}
	if valueobject.IsFunctionKind(subtree.Kind) {
		m.ParameterCount = len(subtree.FieldAll("params"))
	}
	WalkAll(subtree, func(n *valueobject.Node) {
		switch {
		case n.Kind == valueobject.KindVariableDeclarator:
			m.LocalVariableCount++
		case valueobject.IsConditionalKind(n.Kind):
			m.ConditionCount++
		case valueobject.IsLoopKind(n.Kind):
			m.LoopCount++
		}
		if n != subtree && valueobject.IsStatementKind(n.Kind) {
			m.StatementCount++
		}
		if isExpressionKind(n.Kind) {
			m.ExpressionCount++
		}
	})
	return m
}

func isExpressionKind(kind string) bool {
	switch kind {
	case valueobject.KindCallExpression, valueobject.KindNewExpression,
		valueobject.KindBinaryExpression, valueobject.KindLogicalExpression,
		valueobject.KindUnaryExpression, valueobject.KindUpdateExpression,
		valueobject.KindAssignmentExpression, valueobject.KindMemberExpression,
		valueobject.KindConditionalExpression, valueobject.KindArrayExpression,
		valueobject.KindObjectExpression, valueobject.KindTemplateLiteral,
		valueobject.KindAwaitExpression, valueobject.KindYieldExpression,
		valueobject.KindSequenceExpression:
		return true
	default:
		return false
	}
}
