package phpsrc

import (
	"strings"

	"github.com/oujesky/closure-templates/phpexpr"
)

const indentUnit = "  "

// CodeBuilder accumulates generated PHP statements: an indentation-tracked
// line buffer plus a stack of output variables, so nested blocks (let
// content, call params) can collect their output into their own temporary
// while the enclosing template keeps appending to its own.
//
// Each output variable starts uninitialized; the first append becomes an
// assignment and later appends become `.=` concatenations, so empty blocks
// cost nothing unless read.
type CodeBuilder struct {
	code       strings.Builder
	indent     string
	outputVars []outputVar
}

type outputVar struct {
	name   string
	inited bool
}

// NewCodeBuilder returns an empty builder at zero indentation.
func NewCodeBuilder() *CodeBuilder {
	return &CodeBuilder{}
}

// IncreaseIndent adds one indentation level.
func (b *CodeBuilder) IncreaseIndent() {
	b.indent += indentUnit
}

// DecreaseIndent removes one indentation level.
func (b *CodeBuilder) DecreaseIndent() {
	b.indent = b.indent[:len(b.indent)-len(indentUnit)]
}

// Append adds the fragments verbatim, without indentation or newline.
func (b *CodeBuilder) Append(fragments ...string) *CodeBuilder {
	for _, f := range fragments {
		b.code.WriteString(f)
	}
	return b
}

// AppendLine adds one full line: indentation, the fragments, a newline.
func (b *CodeBuilder) AppendLine(fragments ...string) *CodeBuilder {
	b.code.WriteString(b.indent)
	b.Append(fragments...)
	b.code.WriteString("\n")
	return b
}

// AppendLineStart begins a line: indentation plus the fragments, no newline.
func (b *CodeBuilder) AppendLineStart(fragments ...string) *CodeBuilder {
	b.code.WriteString(b.indent)
	return b.Append(fragments...)
}

// AppendLineEnd finishes a statement line: the fragments, a semicolon and a
// newline.
func (b *CodeBuilder) AppendLineEnd(fragments ...string) *CodeBuilder {
	b.Append(fragments...)
	b.code.WriteString(";\n")
	return b
}

// PushOutputVar makes name the current output variable, initially
// uninitialized.
func (b *CodeBuilder) PushOutputVar(name string) {
	b.outputVars = append(b.outputVars, outputVar{name: name})
}

// PopOutputVar restores the previous output variable.
func (b *CodeBuilder) PopOutputVar() {
	b.outputVars = b.outputVars[:len(b.outputVars)-1]
}

// OutputVarName returns the name of the current output variable.
func (b *CodeBuilder) OutputVarName() string {
	return b.outputVars[len(b.outputVars)-1].name
}

// SetOutputVarInited records that the current output variable has been
// assigned, so later appends concatenate.
func (b *CodeBuilder) SetOutputVarInited() {
	b.outputVars[len(b.outputVars)-1].inited = true
}

func (b *CodeBuilder) outputVarInited() bool {
	return b.outputVars[len(b.outputVars)-1].inited
}

// InitOutputVarIfNecessary emits `$var = '';` unless the variable was
// already assigned.
func (b *CodeBuilder) InitOutputVarIfNecessary() {
	if b.outputVarInited() {
		return
	}
	b.AppendLine(b.OutputVarName(), " = '';")
	b.SetOutputVarInited()
}

// AddToOutputVar appends the concatenation of exprs to the current output
// variable. The first append is a plain assignment.
func (b *CodeBuilder) AddToOutputVar(exprs []phpexpr.Expr) {
	b.AddExprToOutputVar(phpexpr.ConcatExprs(exprs))
}

// AddExprToOutputVar appends one expression to the current output variable.
func (b *CodeBuilder) AddExprToOutputVar(expr phpexpr.Expr) {
	if b.outputVarInited() {
		b.AppendLine(b.OutputVarName(), " .= ", expr.Text, ";")
	} else {
		b.AppendLine(b.OutputVarName(), " = ", expr.Text, ";")
		b.SetOutputVarInited()
	}
}

// OutputAsString returns the current output variable as a string-typed
// expression, initializing it first so an empty block reads as ''.
func (b *CodeBuilder) OutputAsString() phpexpr.Expr {
	b.InitOutputVarIfNecessary()
	return phpexpr.NewString(b.OutputVarName())
}

// Code returns everything built so far.
func (b *CodeBuilder) Code() string {
	return b.code.String()
}
