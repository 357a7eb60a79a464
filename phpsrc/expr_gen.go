package phpsrc

import (
	"strings"

	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/phpexpr"
	"github.com/oujesky/closure-templates/soytree"
)

// genExprs renders one expression-computable node as a list of PHP
// expressions, in output order. The caller concatenates them into a single
// append to the output variable.
func (g *Generator) genExprs(node soytree.SoyNode) []phpexpr.Expr {
	if !IsComputableAsExpr(node) {
		panic("node is not computable as an expression")
	}

	switch node := node.(type) {

	case *soytree.RawTextNode:
		return []phpexpr.Expr{phpexpr.NewString(phpexpr.StringLiteral(node.Text))}

	case *soytree.PrintNode:
		return []phpexpr.Expr{g.genPrintExpr(node)}

	case *soytree.MsgFallbackGroupNode:
		return []phpexpr.Expr{g.genMsgFallbackGroupExpr(node)}

	case *soytree.CssNode:
		return []phpexpr.Expr{g.genCssExpr(node)}

	case *soytree.IfNode:
		return []phpexpr.Expr{g.genIfExpr(node)}

	case *soytree.CallNode:
		return []phpexpr.Expr{g.genCallExpr(node)}

	case *soytree.CallParamContentNode:
		return g.genExprsForChildren(node.Body)

	default:
		panic("unhandled expression-computable node")
	}
}

// genExprsForChildren renders each child in order and flattens the results.
func (g *Generator) genExprsForChildren(children []soytree.SoyNode) []phpexpr.Expr {
	var exprs []phpexpr.Expr
	for _, child := range children {
		exprs = append(exprs, g.genExprs(child)...)
	}
	return exprs
}

func (g *Generator) genPrintExpr(node *soytree.PrintNode) phpexpr.Expr {
	translator := g.newTranslator()
	expr := translator.Translate(node.Expr)

	for _, directiveNode := range node.Directives {
		directive, ok := g.directives[directiveNode.Name]
		if !ok {
			g.reporter.Report(directiveNode.Location, ErrUnknownDirective, "%s", directiveNode.Name)
			continue
		}

		if !containsInt(directive.ValidArgsSizes(), len(directiveNode.Args)) {
			g.reporter.Report(directiveNode.Location, ErrDirectiveArgs,
				"%s does not accept %d argument(s)", directiveNode.Name, len(directiveNode.Args))
			continue
		}

		args := make([]phpexpr.Expr, len(directiveNode.Args))
		for i, arg := range directiveNode.Args {
			args[i] = translator.Translate(arg)
		}
		expr = directive.Apply(expr, args)
	}
	return expr
}

func (g *Generator) genCssExpr(node *soytree.CssNode) phpexpr.Expr {
	var sb strings.Builder
	sb.WriteString("Runtime::getCssName(")
	if node.ComponentNameExpr != nil {
		base := g.newTranslator().Translate(node.ComponentNameExpr)
		sb.WriteString(base.Text)
		sb.WriteString(", ")
	}
	sb.WriteString(phpexpr.StringLiteral(node.SelectorText))
	sb.WriteString(")")
	return phpexpr.New(sb.String(), phpexpr.MaxPrecedence)
}

// genIfExpr writes an expression-computable if command as a chain of nested
// ternaries. PHP's ternary is left associative, so each condition opens a
// parenthesis that is closed after the final else value.
func (g *Generator) genIfExpr(node *soytree.IfNode) phpexpr.Expr {
	translator := g.newTranslator()
	conditionalPrecedence := phpexpr.PrecedenceForOperator(exprtree.OpConditional)

	var sb strings.Builder
	for _, cond := range node.Conds {
		condBlock := phpexpr.ConcatExprs(g.genExprsForChildren(cond.Body)).ToString()
		condBlock = phpexpr.MaybeProtect(condBlock, conditionalPrecedence)

		condExpr := phpexpr.MaybeProtect(translator.Translate(cond.Cond), conditionalPrecedence)

		sb.WriteString("(")
		sb.WriteString(condExpr.Text)
		sb.WriteString(" ? ")
		sb.WriteString(condBlock.Text)
		sb.WriteString(" : ")
	}

	if node.Else != nil {
		elseBlock := phpexpr.ConcatExprs(g.genExprsForChildren(node.Else)).ToString()
		sb.WriteString(elseBlock.Text)
	} else {
		sb.WriteString("''")
	}

	sb.WriteString(strings.Repeat(")", len(node.Conds)))

	// Inlined conditionals only ever produce output strings.
	return phpexpr.Expr{
		Text:       sb.String(),
		Precedence: conditionalPrecedence,
		Kind:       phpexpr.StringKind,
	}
}

func (g *Generator) genMsgFallbackGroupExpr(node *soytree.MsgFallbackGroupNode) phpexpr.Expr {
	msg := g.genMsgExpr(node.Msgs[0])

	if len(node.Msgs) > 1 {
		fallback := g.genMsgExpr(node.Msgs[1])

		// Whether any translation is considered at all is gated on either
		// message being available; the runtime renders the source text when
		// the chosen id has no translation.
		firstID := node.Msgs[0].ID()
		secondID := node.Msgs[1].ID()
		var sb strings.Builder
		sb.WriteString(phpexpr.TranslatorName + "::isMsgAvailable(" + formatMsgID(firstID) + ")")
		sb.WriteString(" || ")
		sb.WriteString(phpexpr.TranslatorName + "::isMsgAvailable(" + formatMsgID(secondID) + ")")
		sb.WriteString(" ? ")
		sb.WriteString(msg.Text)
		sb.WriteString(" : ")
		sb.WriteString(fallback.Text)

		msg = phpexpr.Expr{
			Text:       sb.String(),
			Precedence: phpexpr.PrecedenceForOperator(exprtree.OpConditional),
			Kind:       phpexpr.StringKind,
		}
	}

	// Escaping directives apply to messages, especially in attribute context.
	return g.applyEscapingDirectives(msg, node.EscapingDirectives)
}

// applyEscapingDirectives successively wraps expr in the named autoescaping
// directives. The names come from the contextual autoescaper, so a missing
// directive is an internal inconsistency rather than a user error.
func (g *Generator) applyEscapingDirectives(expr phpexpr.Expr, directiveNames []string) phpexpr.Expr {
	for _, name := range directiveNames {
		directive, ok := g.directives[name]
		if !ok {
			panic("autoescaping produced an unregistered directive: " + name)
		}
		expr = directive.Apply(expr, nil)
	}
	return expr
}

func containsInt(haystack []int, needle int) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}
