package phpsrc

import (
	"strconv"
	"strings"

	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/phpexpr"
)

// errorExpr is returned in place of a translation we failed to generate, so
// one bad expression doesn't abort the whole compile. It is a sentence the
// PHP runtime will reject loudly should the (already reported) error be
// ignored.
var errorExpr = phpexpr.New("throw new Exception('Soy compilation failed');", phpexpr.MaxPrecedence)

// ExprTranslator renders expression trees as PHP expressions, resolving
// variable references through the local-variable stack and plugin function
// calls through the function table.
type ExprTranslator struct {
	localVars *LocalVariableStack
	functions map[string]phpexpr.Function
	reporter  *ErrorReporter
}

// NewExprTranslator returns a translator resolving locals against localVars.
func NewExprTranslator(localVars *LocalVariableStack, functions map[string]phpexpr.Function, reporter *ErrorReporter) *ExprTranslator {
	return &ExprTranslator{localVars: localVars, functions: functions, reporter: reporter}
}

// Translate renders one expression tree.
func (t *ExprTranslator) Translate(node exprtree.ExprNode) phpexpr.Expr {
	switch node := node.(type) {

	case *exprtree.NullNode:
		return phpexpr.New("null", phpexpr.MaxPrecedence)

	case *exprtree.BooleanNode:
		if node.Value {
			return phpexpr.New("true", phpexpr.MaxPrecedence)
		}
		return phpexpr.New("false", phpexpr.MaxPrecedence)

	case *exprtree.IntegerNode:
		return phpexpr.New(strconv.FormatInt(node.Value, 10), phpexpr.MaxPrecedence)

	case *exprtree.FloatNode:
		return phpexpr.New(strconv.FormatFloat(node.Value, 'g', -1, 64), phpexpr.MaxPrecedence)

	case *exprtree.StringNode:
		return phpexpr.NewString(phpexpr.StringLiteral(node.Value))

	case *exprtree.ListLiteralNode:
		items := make([]phpexpr.Expr, len(node.Items))
		for i, item := range node.Items {
			items[i] = t.Translate(item)
		}
		return phpexpr.ConvertListToArrayExpr(items)

	case *exprtree.MapLiteralNode:
		entries := make([]phpexpr.ArrayEntry, len(node.Entries))
		for i, e := range node.Entries {
			entries[i] = phpexpr.ArrayEntry{Key: t.Translate(e.Key), Value: t.Translate(e.Value)}
		}
		return phpexpr.ConvertMapToArrayExpr(entries)

	case *exprtree.VarRefNode, *exprtree.FieldAccessNode, *exprtree.ItemAccessNode:
		return t.translateDataAccess(node)

	case *exprtree.GlobalNode:
		return phpexpr.New("$GLOBALS["+phpexpr.StringLiteral(node.Name)+"]", phpexpr.MaxPrecedence)

	case *exprtree.FunctionNode:
		return t.translateFunction(node)

	case *exprtree.OperatorNode:
		return t.translateOperator(node)

	default:
		panic("unhandled expression node")
	}
}

// translateDataAccess renders a variable reference or access chain. The
// chain is walked from the outermost access to the root, building the raw
// unguarded access text; each null-safe link contributes a guard on its base
// to an accumulated prefix. With no null-safe links the raw text stands
// alone as an atom; otherwise prefix+raw forms a conditional chain.
func (t *ExprTranslator) translateDataAccess(node exprtree.ExprNode) phpexpr.Expr {
	var prefix strings.Builder
	raw := t.dataAccessText(node, &prefix)
	if prefix.Len() == 0 {
		return phpexpr.New(raw, phpexpr.MaxPrecedence)
	}
	return phpexpr.New(prefix.String()+raw,
		phpexpr.PrecedenceForOperator(exprtree.OpConditional))
}

func (t *ExprTranslator) dataAccessText(node exprtree.ExprNode, prefix *strings.Builder) string {
	switch node := node.(type) {

	case *exprtree.VarRefNode:
		if node.Injected {
			if node.NullSafeInjected {
				prefix.WriteString("$opt_ijData === null ? null : ")
			}
			return "$opt_ijData[" + phpexpr.StringLiteral(node.Name) + "]"
		}
		// A local shadows a data field of the same name.
		if local, ok := t.localVars.Lookup(node.Name); ok {
			return local.Text
		}
		return "$opt_data[" + phpexpr.StringLiteral(node.Name) + "]"

	case *exprtree.FieldAccessNode:
		base := t.dataAccessText(node.BaseExpr, prefix)
		if node.NullSafe {
			prefix.WriteString(base + " === null ? null : ")
		}
		return base + "[" + phpexpr.StringLiteral(node.FieldName) + "]"

	case *exprtree.ItemAccessNode:
		base := t.dataAccessText(node.BaseExpr, prefix)
		if node.NullSafe {
			prefix.WriteString(base + " === null ? null : ")
		}
		// Plain bracket indexing for every base type; PHP indexes arrays
		// and ArrayAccess objects with the same syntax.
		key := t.Translate(node.KeyExpr)
		return base + "[" + key.Text + "]"

	default:
		return t.Translate(node).Text
	}
}

func (t *ExprTranslator) translateFunction(node *exprtree.FunctionNode) phpexpr.Expr {
	switch node.Name {
	case "isFirst":
		return t.loopFunction(node, "__isFirst")
	case "isLast":
		return t.loopFunction(node, "__isLast")
	case "index":
		return t.loopFunction(node, "__index")
	case "quoteKeysIfJs":
		// The PHP representation of a map is the same either way.
		return t.Translate(node.Args[0])
	case "checkNotNull":
		return phpexpr.NewFunctionBuilder("Runtime::checkNotNull").
			AddArg(t.Translate(node.Args[0])).
			AsExpr()
	}

	if fn, ok := t.functions[node.Name]; ok {
		args := make([]phpexpr.Expr, len(node.Args))
		for i, arg := range node.Args {
			args[i] = t.Translate(arg)
		}
		return fn.Apply(args)
	}

	t.reporter.Report(node.Location(), ErrUnknownFunction, "%s", node.Name)
	return errorExpr
}

// loopFunction resolves isFirst/isLast/index against the synthetic loop
// bindings registered by the enclosing foreach.
func (t *ExprTranslator) loopFunction(node *exprtree.FunctionNode, suffix string) phpexpr.Expr {
	varRef, ok := node.Args[0].(*exprtree.VarRefNode)
	if !ok {
		t.reporter.Report(node.Location(), nil, "%s requires a loop variable argument", node.Name)
		return errorExpr
	}
	expr, ok := t.localVars.Lookup(varRef.Name + suffix)
	if !ok {
		t.reporter.Report(node.Location(), nil, "%s called outside the loop over $%s", node.Name, varRef.Name)
		return errorExpr
	}
	return expr
}

func (t *ExprTranslator) translateOperator(node *exprtree.OperatorNode) phpexpr.Expr {
	operands := make([]phpexpr.Expr, len(node.Children))
	for i, child := range node.Children {
		operands[i] = t.Translate(child)
	}

	switch node.Op {
	case exprtree.OpNot:
		// Keeps the source-syntax spacing, so the generated code reads
		// `! $x` rather than `!$x`.
		return t.operatorExpr(node.Op, operands, "!")
	case exprtree.OpAnd:
		return t.operatorExpr(node.Op, operands, "&&")
	case exprtree.OpOr:
		return t.operatorExpr(node.Op, operands, "||")
	case exprtree.OpPlus:
		// PHP's + is numeric-only and . is string-only, so which operator
		// `+` means cannot be decided until runtime.
		return phpexpr.NewFunctionBuilder("Runtime::typeSafeAdd").
			AddArg(operands[0]).
			AddArg(operands[1]).
			AsExpr()
	case exprtree.OpNullCoalescing:
		return t.TernaryExpr(phpexpr.GenNotNullCheck(operands[0]), operands[0], operands[1])
	case exprtree.OpConditional:
		return t.TernaryExpr(operands[0], operands[1], operands[2])
	default:
		return t.operatorExpr(node.Op, operands, "")
	}
}

func (t *ExprTranslator) operatorExpr(op exprtree.Operator, operands []phpexpr.Expr, newToken string) phpexpr.Expr {
	text := phpexpr.GenExprWithNewToken(op, operands, newToken)
	return phpexpr.New(text, phpexpr.PrecedenceForOperator(op))
}

// TernaryExpr builds `cond ? trueExpr : falseExpr`, protecting each piece
// against the conditional's own precedence.
func (t *ExprTranslator) TernaryExpr(cond, trueExpr, falseExpr phpexpr.Expr) phpexpr.Expr {
	prec := phpexpr.PrecedenceForOperator(exprtree.OpConditional)
	cond = phpexpr.MaybeProtect(cond, prec)
	trueExpr = phpexpr.MaybeProtect(trueExpr, prec)
	falseExpr = phpexpr.MaybeProtect(falseExpr, prec)
	return phpexpr.New(cond.Text+" ? "+trueExpr.Text+" : "+falseExpr.Text, prec)
}
