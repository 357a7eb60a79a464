package phpsrc

import (
	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/phpexpr"
)

// phpCallFunction renders a template function as a single PHP call, mapping
// each argument positionally.
type phpCallFunction struct {
	name    string
	phpName string
}

func (f phpCallFunction) Name() string { return f.name }

func (f phpCallFunction) Apply(args []phpexpr.Expr) phpexpr.Expr {
	builder := phpexpr.NewFunctionBuilder(f.phpName)
	for _, arg := range args {
		builder.AddArg(arg)
	}
	return builder.AsExpr()
}

// strContainsFunction renders strContains as a strpos comparison.
type strContainsFunction struct{}

func (strContainsFunction) Name() string { return "strContains" }

func (strContainsFunction) Apply(args []phpexpr.Expr) phpexpr.Expr {
	text := phpexpr.NewFunctionBuilder("strpos").
		AddArg(args[0].ToString()).
		AddArg(args[1].ToString()).
		Build()
	return phpexpr.New(text+" !== false",
		phpexpr.PrecedenceForOperator(exprtree.OpNotEqual))
}

// isNonnullFunction renders isNonnull as a strict null comparison.
type isNonnullFunction struct{}

func (isNonnullFunction) Name() string { return "isNonnull" }

func (isNonnullFunction) Apply(args []phpexpr.Expr) phpexpr.Expr {
	return phpexpr.GenNotNullCheck(args[0])
}

// randomIntFunction renders randomInt(n) as a uniform draw from [0, n).
type randomIntFunction struct{}

func (randomIntFunction) Name() string { return "randomInt" }

func (randomIntFunction) Apply(args []phpexpr.Expr) phpexpr.Expr {
	upper := phpexpr.MaybeProtect(args[0], phpexpr.PrecedenceForOperator(exprtree.OpMinus))
	return phpexpr.NewFunctionBuilder("mt_rand").
		AddArg(phpexpr.New("0", phpexpr.MaxPrecedence)).
		AddArg(phpexpr.New(upper.Text+" - 1", phpexpr.PrecedenceForOperator(exprtree.OpMinus))).
		AsExpr()
}

// DefaultFunctions returns the standard template function table: PHP native
// equivalents where they exist, runtime helpers where the semantics differ.
func DefaultFunctions() map[string]phpexpr.Function {
	fns := []phpexpr.Function{
		phpCallFunction{name: "length", phpName: "count"},
		phpCallFunction{name: "keys", phpName: "array_keys"},
		phpCallFunction{name: "augmentMap", phpName: "array_replace"},
		phpCallFunction{name: "round", phpName: "Runtime::round"},
		phpCallFunction{name: "floor", phpName: "floor"},
		phpCallFunction{name: "ceiling", phpName: "ceil"},
		phpCallFunction{name: "min", phpName: "min"},
		phpCallFunction{name: "max", phpName: "max"},
		strContainsFunction{},
		isNonnullFunction{},
		randomIntFunction{},
	}

	table := make(map[string]phpexpr.Function, len(fns))
	for _, fn := range fns {
		table[fn.Name()] = fn
	}
	return table
}
