package exprtree

import "strconv"

// SourceLocation identifies where a node came from in the template source.
type SourceLocation struct {
	FilePath string
	Line     int
}

func (l SourceLocation) String() string {
	if l.Line > 0 {
		return l.FilePath + ":" + strconv.Itoa(l.Line)
	}
	if l.FilePath == "" {
		return "unknown"
	}
	return l.FilePath
}

// ExprNode is an expression-tree node. The set of implementations is closed;
// consumers dispatch with a type switch.
type ExprNode interface {
	Location() SourceLocation
	exprNode()
}

// Base carries the source location common to all expression nodes.
type Base struct {
	Loc SourceLocation
}

func (b Base) Location() SourceLocation { return b.Loc }

// NullNode is the null literal.
type NullNode struct {
	Base
}

// BooleanNode is a boolean literal.
type BooleanNode struct {
	Base
	Value bool
}

// IntegerNode is an integer literal.
type IntegerNode struct {
	Base
	Value int64
}

// FloatNode is a float literal.
type FloatNode struct {
	Base
	Value float64
}

// StringNode is a string literal. Value is the unescaped text.
type StringNode struct {
	Base
	Value string
}

// VarRefNode references a template variable: a local, a data-record field or
// an injected-data field.
type VarRefNode struct {
	Base
	Name string
	// Injected marks a reference to injected data ($ij.foo).
	Injected bool
	// NullSafeInjected marks a null-safe injected reference ($ij?.foo).
	NullSafeInjected bool
}

// FieldAccessNode is a dotted field access on a base expression.
type FieldAccessNode struct {
	Base
	BaseExpr  ExprNode
	FieldName string
	// NullSafe marks this single access link as null-safe (?.).
	NullSafe bool
}

// ItemAccessNode is a bracketed item access on a base expression.
type ItemAccessNode struct {
	Base
	BaseExpr ExprNode
	KeyExpr  ExprNode
	NullSafe bool
}

// GlobalNode references a compile-time global by its dotted name.
type GlobalNode struct {
	Base
	Name string
}

// ListLiteralNode is a list literal with ordered items.
type ListLiteralNode struct {
	Base
	Items []ExprNode
}

// MapEntry is one key/value pair of a map literal.
type MapEntry struct {
	Key   ExprNode
	Value ExprNode
}

// MapLiteralNode is a map literal preserving insertion order.
type MapLiteralNode struct {
	Base
	Entries []MapEntry
}

// FunctionNode is a function call, either a built-in or a plugin function.
type FunctionNode struct {
	Base
	Name string
	Args []ExprNode
}

// OperatorNode is a unary, binary or ternary operator application. The
// number of children matches Op.NumOperands().
type OperatorNode struct {
	Base
	Op       Operator
	Children []ExprNode
}

func (NullNode) exprNode()        {}
func (BooleanNode) exprNode()     {}
func (IntegerNode) exprNode()     {}
func (FloatNode) exprNode()       {}
func (StringNode) exprNode()      {}
func (VarRefNode) exprNode()      {}
func (FieldAccessNode) exprNode() {}
func (ItemAccessNode) exprNode()  {}
func (GlobalNode) exprNode()      {}
func (ListLiteralNode) exprNode() {}
func (MapLiteralNode) exprNode()  {}
func (FunctionNode) exprNode()    {}
func (OperatorNode) exprNode()    {}
