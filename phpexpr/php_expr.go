// Package phpexpr holds the PHP expression values the backend produces: a
// text/precedence pair plus helpers for parenthesization, concatenation and
// the precedence-aware assembly of operator expressions. Plugin functions
// and print directives build their results through this package.
package phpexpr

import "math"

// MaxPrecedence marks an atomic expression that never needs parentheses.
const MaxPrecedence = math.MaxInt32

// Kind distinguishes what an expression is known to evaluate to.
type Kind int

const (
	// ValueKind is an expression of unknown runtime type.
	ValueKind Kind = iota
	// StringKind marks an expression already known to evaluate to a string,
	// so concatenation needs no conversion.
	StringKind
	// ArrayKind marks an expression evaluating to an array; converting it
	// to a string requires an explicit join.
	ArrayKind
)

// Expr is a rendered PHP expression. Precedence is the PHP precedence of
// its top-most operator, or MaxPrecedence for atoms.
type Expr struct {
	Text       string
	Precedence int
	Kind       Kind
}

// New returns a value expression.
func New(text string, precedence int) Expr {
	return Expr{Text: text, Precedence: precedence}
}

// NewString returns an atomic string-typed expression.
func NewString(text string) Expr {
	return Expr{Text: text, Precedence: MaxPrecedence, Kind: StringKind}
}

// NewArray returns an array-typed expression.
func NewArray(text string, precedence int) Expr {
	return Expr{Text: text, Precedence: precedence, Kind: ArrayKind}
}

// ToString converts the expression to its string-typed form. Scalars
// auto-stringify so only the kind changes; arrays are joined element-wise.
func (e Expr) ToString() Expr {
	switch e.Kind {
	case ArrayKind:
		return NewString("implode('', " + e.Text + ")")
	case StringKind:
		return e
	default:
		return Expr{Text: e.Text, Precedence: e.Precedence, Kind: StringKind}
	}
}
