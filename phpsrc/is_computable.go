package phpsrc

import "github.com/oujesky/closure-templates/soytree"

// IsComputableAsExpr reports whether a node's output can be computed as a
// single PHP expression, as opposed to requiring full statement emission.
// Consecutive computable children collapse into one append to the output
// variable; anything else forces statement generation.
func IsComputableAsExpr(node soytree.SoyNode) bool {
	switch node := node.(type) {
	case *soytree.RawTextNode, *soytree.PrintNode, *soytree.MsgFallbackGroupNode, *soytree.CssNode:
		return true
	case *soytree.CallNode:
		// Content params that need statements are precomputed into
		// temporaries before the call expression, so the call itself is
		// always an expression.
		return true
	case *soytree.IfNode:
		if node.Else != nil && !AreAllComputableAsExprs(node.Else) {
			return false
		}
		for _, cond := range node.Conds {
			if !AreAllComputableAsExprs(cond.Body) {
				return false
			}
		}
		return true
	case *soytree.CallParamContentNode:
		return AreAllComputableAsExprs(node.Body)
	default:
		return false
	}
}

// AreAllComputableAsExprs reports whether every node in the list is
// expression-computable.
func AreAllComputableAsExprs(nodes []soytree.SoyNode) bool {
	for _, n := range nodes {
		if !IsComputableAsExpr(n) {
			return false
		}
	}
	return true
}
