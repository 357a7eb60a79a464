package exprtree

// Associativity of an operator.
type Associativity int

const (
	LeftAssociative Associativity = iota
	RightAssociative
)

// SyntaxElement is one piece of an operator's surface syntax: an operand
// slot, a fixed token, or a space.
type SyntaxElement interface {
	syntaxElement()
}

// Operand is a placeholder for the operand with the given index.
type Operand struct {
	Index int
}

// Token is a fixed piece of operator text.
type Token struct {
	Text string
}

// Spacer is a single space between syntax elements.
type Spacer struct{}

func (Operand) syntaxElement() {}
func (Token) syntaxElement()   {}
func (Spacer) syntaxElement()  {}

// Operator is one of the expression operators of the template language.
type Operator int

const (
	OpNegative Operator = iota
	OpNot
	OpTimes
	OpDivideBy
	OpMod
	OpPlus
	OpMinus
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
	OpNullCoalescing
	OpConditional
)

type operatorInfo struct {
	token         string
	precedence    int
	associativity Associativity
	syntax        []SyntaxElement
}

func binaryOp(token string, precedence int) operatorInfo {
	return operatorInfo{
		token:         token,
		precedence:    precedence,
		associativity: LeftAssociative,
		syntax: []SyntaxElement{
			Operand{0}, Spacer{}, Token{token}, Spacer{}, Operand{1},
		},
	}
}

var operators = map[Operator]operatorInfo{
	OpNegative: {
		token:         "-",
		precedence:    8,
		associativity: RightAssociative,
		syntax:        []SyntaxElement{Token{"-"}, Operand{0}},
	},
	OpNot: {
		token:         "not",
		precedence:    8,
		associativity: RightAssociative,
		syntax:        []SyntaxElement{Token{"not"}, Spacer{}, Operand{0}},
	},
	OpTimes:              binaryOp("*", 7),
	OpDivideBy:           binaryOp("/", 7),
	OpMod:                binaryOp("%", 7),
	OpPlus:               binaryOp("+", 6),
	OpMinus:              binaryOp("-", 6),
	OpLessThan:           binaryOp("<", 5),
	OpGreaterThan:        binaryOp(">", 5),
	OpLessThanOrEqual:    binaryOp("<=", 5),
	OpGreaterThanOrEqual: binaryOp(">=", 5),
	OpEqual:              binaryOp("==", 4),
	OpNotEqual:           binaryOp("!=", 4),
	OpAnd:                binaryOp("and", 3),
	OpOr:                 binaryOp("or", 2),
	OpNullCoalescing: {
		token:         "?:",
		precedence:    1,
		associativity: RightAssociative,
		syntax: []SyntaxElement{
			Operand{0}, Spacer{}, Token{"?:"}, Spacer{}, Operand{1},
		},
	},
	OpConditional: {
		token:         "? :",
		precedence:    1,
		associativity: RightAssociative,
		syntax: []SyntaxElement{
			Operand{0}, Spacer{}, Token{"?"}, Spacer{}, Operand{1},
			Spacer{}, Token{":"}, Spacer{}, Operand{2},
		},
	},
}

// Token returns the operator's source-language token text.
func (op Operator) Token() string {
	return operators[op].token
}

// Precedence returns the operator's source-language precedence. Higher binds
// tighter.
func (op Operator) Precedence() int {
	return operators[op].precedence
}

// Associativity returns the operator's associativity.
func (op Operator) Associativity() Associativity {
	return operators[op].associativity
}

// Syntax returns the ordered surface-syntax elements of the operator.
func (op Operator) Syntax() []SyntaxElement {
	return operators[op].syntax
}

// NumOperands returns the number of operand slots in the operator's syntax.
func (op Operator) NumOperands() int {
	n := 0
	for _, el := range operators[op].syntax {
		if _, ok := el.(Operand); ok {
			n++
		}
	}
	return n
}

func (op Operator) String() string {
	return operators[op].token
}
