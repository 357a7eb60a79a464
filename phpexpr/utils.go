package phpexpr

import (
	"strings"

	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/soytree"
)

// TranslatorName is the alias under which generated code addresses the
// configured translation class.
const TranslatorName = "Translator"

// phpPrecedences maps each source operator to the precedence of its PHP
// rendering. The source and PHP scales disagree on 'not' and on equality, so
// result expressions must be tagged with these values rather than the
// source-side ones.
//
// See http://php.net/manual/en/language.operators.precedence.php
var phpPrecedences = map[exprtree.Operator]int{
	exprtree.OpNegative:           8,
	exprtree.OpTimes:              7,
	exprtree.OpDivideBy:           7,
	exprtree.OpMod:                7,
	exprtree.OpPlus:               6,
	exprtree.OpMinus:              6,
	exprtree.OpLessThan:           5,
	exprtree.OpGreaterThan:        5,
	exprtree.OpLessThanOrEqual:    5,
	exprtree.OpGreaterThanOrEqual: 5,
	exprtree.OpEqual:              5,
	exprtree.OpNotEqual:           5,
	exprtree.OpNot:                4,
	exprtree.OpAnd:                3,
	exprtree.OpOr:                 2,
	exprtree.OpNullCoalescing:     1,
	exprtree.OpConditional:        1,
}

// PrecedenceForOperator returns the PHP precedence of the given operator.
func PrecedenceForOperator(op exprtree.Operator) int {
	return phpPrecedences[op]
}

// MaybeProtect wraps expr in parentheses unless its precedence is above
// minSafePrecedence. Idempotent: a wrapped expression is atomic.
func MaybeProtect(expr Expr, minSafePrecedence int) Expr {
	if expr.Precedence > minSafePrecedence {
		return expr
	}
	return New("("+expr.Text+")", MaxPrecedence)
}

// ConcatExprs builds one expression computing the concatenation of exprs.
func ConcatExprs(exprs []Expr) Expr {
	if len(exprs) == 0 {
		return NewString("''")
	}
	if len(exprs) == 1 {
		return exprs[0].ToString()
	}

	// The concat dot shares its precedence with arithmetic plus/minus, so
	// every element at or below that level needs parentheses.
	concatPrecedence := PrecedenceForOperator(exprtree.OpMinus)
	texts := make([]string, len(exprs))
	for i, e := range exprs {
		texts[i] = MaybeProtect(e.ToString(), concatPrecedence).Text
	}
	return NewString(strings.Join(texts, "."))
}

// GenNotNullCheck returns an expression testing that expr is not null,
// using strict comparison so falsy values pass.
func GenNotNullCheck(expr Expr) Expr {
	operands := []Expr{expr, New("null", MaxPrecedence)}
	text := GenExprWithNewToken(exprtree.OpNotEqual, operands, "!==")
	return New(text, PrecedenceForOperator(exprtree.OpNotEqual))
}

// GenExpr renders an operator expression from its already-rendered operands,
// protecting each operand against the operator's own binding strength.
func GenExpr(op exprtree.Operator, operands []Expr) string {
	return GenExprWithNewToken(op, operands, "")
}

// GenExprWithNewToken renders an operator expression, substituting newToken
// for the operator's source token when non-empty. Operand protection
// compares each operand's PHP precedence against the operator's
// source-language precedence; the associative side tolerates equal
// precedence, the other side does not.
func GenExprWithNewToken(op exprtree.Operator, operands []Expr, newToken string) string {
	opPrec := op.Precedence()
	isLeftAssociative := op.Associativity() == exprtree.LeftAssociative

	var sb strings.Builder
	for _, el := range op.Syntax() {
		switch el := el.(type) {
		case exprtree.Operand:
			operand := operands[el.Index]
			assocIndex := 0
			if !isLeftAssociative {
				assocIndex = len(operands) - 1
			}
			var needsProtection bool
			if el.Index == assocIndex {
				needsProtection = operand.Precedence < opPrec
			} else {
				needsProtection = operand.Precedence <= opPrec
			}
			if needsProtection {
				sb.WriteString("(" + operand.Text + ")")
			} else {
				sb.WriteString(operand.Text)
			}
		case exprtree.Token:
			if newToken != "" {
				sb.WriteString(newToken)
			} else {
				sb.WriteString(el.Text)
			}
		case exprtree.Spacer:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// sanitizedContentOrdainers maps a content kind to the runtime class whose
// construction marks a value as pre-approved content of that kind.
var sanitizedContentOrdainers = map[soytree.ContentKind]string{
	soytree.ContentKindHTML:       `\Goog\Soy\SanitizedHtml`,
	soytree.ContentKindAttributes: `\Goog\Soy\SanitizedHtmlAttribute`,
	soytree.ContentKindCSS:        `\Goog\Soy\SanitizedCss`,
	soytree.ContentKindURI:        `\Goog\Soy\SanitizedUri`,
	soytree.ContentKindJS:         `\Goog\Soy\SanitizedJs`,
	soytree.ContentKindText:       `\Goog\Soy\UnsanitizedText`,
}

// SanitizedContentOrdainer returns the runtime class name for a content
// kind, or the empty string for the untyped kind.
func SanitizedContentOrdainer(kind soytree.ContentKind) string {
	return sanitizedContentOrdainers[kind]
}

// WrapAsSanitizedContent wraps expr in the constructor of the
// sanitized-content class for kind.
func WrapAsSanitizedContent(kind soytree.ContentKind, expr Expr) Expr {
	ordainer := sanitizedContentOrdainers[kind]
	if ordainer == "" {
		return expr
	}
	return New("new "+ordainer+"("+expr.Text+")", MaxPrecedence)
}

var stringLiteralEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// StringLiteral renders s as a single-quoted PHP string literal.
func StringLiteral(s string) string {
	return "'" + stringLiteralEscaper.Replace(s) + "'"
}

// phpKeywords are reserved words that cannot be used as method names.
var phpKeywords = map[string]bool{
	"abstract": true, "and": true, "array": true, "as": true, "break": true,
	"callable": true, "case": true, "catch": true, "class": true,
	"clone": true, "const": true, "continue": true, "declare": true,
	"default": true, "die": true, "do": true, "echo": true, "else": true,
	"elseif": true, "empty": true, "enddeclare": true, "endfor": true,
	"endforeach": true, "endif": true, "endswitch": true, "endwhile": true,
	"eval": true, "exit": true, "extends": true, "final": true,
	"finally": true, "for": true, "foreach": true, "function": true,
	"global": true, "goto": true, "if": true, "implements": true,
	"include": true, "include_once": true, "instanceof": true,
	"insteadof": true, "interface": true, "isset": true, "list": true,
	"namespace": true, "new": true, "or": true, "print": true,
	"private": true, "protected": true, "public": true, "require": true,
	"require_once": true, "return": true, "static": true, "switch": true,
	"throw": true, "trait": true, "try": true, "unset": true, "use": true,
	"var": true, "while": true, "xor": true, "yield": true,
}

// EscapeMethodName makes name safe to use as a PHP method name by appending
// an underscore when it collides with a reserved word.
func EscapeMethodName(name string) string {
	if phpKeywords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}
