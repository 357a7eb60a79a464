package phpexpr

// Function is a plugin expression function: it renders a call with
// already-translated arguments.
type Function interface {
	// Name is the function name as written in templates.
	Name() string
	Apply(args []Expr) Expr
}

// PrintDirective is a plugin print directive applied to an interpolated
// value.
type PrintDirective interface {
	// Name includes the leading bar, e.g. "|escapeHtml".
	Name() string
	// ValidArgsSizes lists the accepted argument counts.
	ValidArgsSizes() []int
	Apply(value Expr, args []Expr) Expr
}
