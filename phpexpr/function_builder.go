package phpexpr

import (
	"fmt"
	"strings"
)

// FunctionExprBuilder assembles a PHP function-call expression argument by
// argument.
type FunctionExprBuilder struct {
	name string
	args []string
}

// NewFunctionBuilder returns a builder for a call to name.
func NewFunctionBuilder(name string) *FunctionExprBuilder {
	return &FunctionExprBuilder{name: name}
}

// AddArg appends an expression argument.
func (b *FunctionExprBuilder) AddArg(expr Expr) *FunctionExprBuilder {
	b.args = append(b.args, expr.Text)
	return b
}

// AddStringArg appends a string literal argument.
func (b *FunctionExprBuilder) AddStringArg(s string) *FunctionExprBuilder {
	b.args = append(b.args, StringLiteral(s))
	return b
}

// AddBoolArg appends a boolean literal argument.
func (b *FunctionExprBuilder) AddBoolArg(v bool) *FunctionExprBuilder {
	if v {
		b.args = append(b.args, "true")
	} else {
		b.args = append(b.args, "false")
	}
	return b
}

// AddIntArg appends an integer literal argument.
func (b *FunctionExprBuilder) AddIntArg(n int64) *FunctionExprBuilder {
	b.args = append(b.args, fmt.Sprintf("%d", n))
	return b
}

// AddUintArg appends an unsigned integer literal argument.
func (b *FunctionExprBuilder) AddUintArg(n uint64) *FunctionExprBuilder {
	b.args = append(b.args, fmt.Sprintf("%d", n))
	return b
}

// Build renders the call text.
func (b *FunctionExprBuilder) Build() string {
	return b.name + "(" + strings.Join(b.args, ", ") + ")"
}

// AsExpr renders the call as an atomic expression.
func (b *FunctionExprBuilder) AsExpr() Expr {
	return New(b.Build(), MaxPrecedence)
}

// AsStringExpr renders the call as an atomic string-typed expression.
func (b *FunctionExprBuilder) AsStringExpr() Expr {
	return NewString(b.Build())
}
