package phpexpr_test

import (
	"testing"

	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/phpexpr"
	"github.com/oujesky/closure-templates/soytree"
)

func TestToString(t *testing.T) {
	t.Run("should leave a string expression unchanged", func(t *testing.T) {
		expr := phpexpr.NewString("$output")
		got := expr.ToString()
		if got != expr {
			t.Errorf("Expected %v, got %v", expr, got)
		}
	})

	t.Run("should retag a value expression without conversion", func(t *testing.T) {
		expr := phpexpr.New("$a - $b", 6)
		got := expr.ToString()
		if got.Text != "$a - $b" || got.Precedence != 6 || got.Kind != phpexpr.StringKind {
			t.Errorf("Expected retagged expression, got %v", got)
		}
	})

	t.Run("should join an array expression", func(t *testing.T) {
		expr := phpexpr.NewArray("[1, 2]", phpexpr.MaxPrecedence)
		expected := "implode('', [1, 2])"
		if got := expr.ToString(); got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
	})
}

func TestMaybeProtect(t *testing.T) {
	t.Run("should wrap an expression at or below the bound", func(t *testing.T) {
		expr := phpexpr.New("$a || $b", 2)
		got := phpexpr.MaybeProtect(expr, 2)
		if got.Text != "($a || $b)" {
			t.Errorf("Expected parentheses, got %q", got.Text)
		}
		if got.Precedence != phpexpr.MaxPrecedence {
			t.Errorf("Expected a protected expression to be atomic, got precedence %d", got.Precedence)
		}
	})

	t.Run("should leave a stronger expression alone", func(t *testing.T) {
		expr := phpexpr.New("$a * $b", 7)
		got := phpexpr.MaybeProtect(expr, 6)
		if got.Text != "$a * $b" {
			t.Errorf("Expected no parentheses, got %q", got.Text)
		}
	})

	t.Run("should be idempotent", func(t *testing.T) {
		expr := phpexpr.New("$a ? $b : $c", 1)
		once := phpexpr.MaybeProtect(expr, 1)
		twice := phpexpr.MaybeProtect(once, 1)
		if once != twice {
			t.Errorf("Expected %q, got %q", once.Text, twice.Text)
		}
	})
}

func TestConcatExprs(t *testing.T) {
	t.Run("should render the empty concatenation as an empty string", func(t *testing.T) {
		got := phpexpr.ConcatExprs(nil)
		if got.Text != "''" {
			t.Errorf("Expected %q, got %q", "''", got.Text)
		}
	})

	t.Run("should pass a single expression through unprotected", func(t *testing.T) {
		got := phpexpr.ConcatExprs([]phpexpr.Expr{phpexpr.New("$a - $b", 6)})
		if got.Text != "$a - $b" {
			t.Errorf("Expected %q, got %q", "$a - $b", got.Text)
		}
	})

	t.Run("should protect elements the concat dot would capture", func(t *testing.T) {
		got := phpexpr.ConcatExprs([]phpexpr.Expr{
			phpexpr.New("$a - $b", 6),
			phpexpr.New("$c - $d", 6),
			phpexpr.NewString("$e"),
			phpexpr.New("$f * $g", 7),
		})
		expected := "($a - $b).($c - $d).$e.$f * $g"
		if got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
		if got.Kind != phpexpr.StringKind {
			t.Errorf("Expected a string-typed result, got kind %v", got.Kind)
		}
	})

	t.Run("should join array elements before concatenating", func(t *testing.T) {
		got := phpexpr.ConcatExprs([]phpexpr.Expr{
			phpexpr.NewString("$a"),
			phpexpr.NewArray("[1, 2]", phpexpr.MaxPrecedence),
		})
		expected := "$a.implode('', [1, 2])"
		if got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
	})
}

func TestGenExprWithNewToken(t *testing.T) {
	max := phpexpr.MaxPrecedence

	t.Run("should render a binary operator with spaces", func(t *testing.T) {
		got := phpexpr.GenExpr(exprtree.OpMinus, []phpexpr.Expr{
			phpexpr.New("$a", max), phpexpr.New("$b", max),
		})
		if got != "$a - $b" {
			t.Errorf("Expected %q, got %q", "$a - $b", got)
		}
	})

	t.Run("should substitute the target-language token", func(t *testing.T) {
		got := phpexpr.GenExprWithNewToken(exprtree.OpAnd, []phpexpr.Expr{
			phpexpr.New("$a", max), phpexpr.New("$b", max),
		}, "&&")
		if got != "$a && $b" {
			t.Errorf("Expected %q, got %q", "$a && $b", got)
		}
	})

	t.Run("should keep the space after a substituted unary token", func(t *testing.T) {
		got := phpexpr.GenExprWithNewToken(exprtree.OpNot, []phpexpr.Expr{
			phpexpr.New("$a", max),
		}, "!")
		if got != "! $a" {
			t.Errorf("Expected %q, got %q", "! $a", got)
		}
	})

	t.Run("should tolerate equal precedence on the associative side only", func(t *testing.T) {
		// $a - $b rendered at PHP precedence 6, fed back into another minus.
		sub := phpexpr.New("$a - $b", 6)
		left := phpexpr.GenExpr(exprtree.OpMinus, []phpexpr.Expr{sub, phpexpr.New("$c", max)})
		if left != "$a - $b - $c" {
			t.Errorf("Expected %q, got %q", "$a - $b - $c", left)
		}
		right := phpexpr.GenExpr(exprtree.OpMinus, []phpexpr.Expr{phpexpr.New("$c", max), sub})
		if right != "$c - ($a - $b)" {
			t.Errorf("Expected %q, got %q", "$c - ($a - $b)", right)
		}
	})

	t.Run("should protect operands weaker than the operator", func(t *testing.T) {
		or := phpexpr.New("$a || $b", 2)
		got := phpexpr.GenExprWithNewToken(exprtree.OpAnd, []phpexpr.Expr{
			or, phpexpr.New("$c", max),
		}, "&&")
		if got != "($a || $b) && $c" {
			t.Errorf("Expected %q, got %q", "($a || $b) && $c", got)
		}
	})
}

func TestGenNotNullCheck(t *testing.T) {
	t.Run("should compare strictly against null", func(t *testing.T) {
		got := phpexpr.GenNotNullCheck(phpexpr.New("$opt_data['boo']", phpexpr.MaxPrecedence))
		expected := "$opt_data['boo'] !== null"
		if got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
		if got.Precedence != phpexpr.PrecedenceForOperator(exprtree.OpNotEqual) {
			t.Errorf("Expected comparison precedence, got %d", got.Precedence)
		}
	})

	t.Run("should protect a weaker operand", func(t *testing.T) {
		got := phpexpr.GenNotNullCheck(phpexpr.New("$a ?: $b", 1))
		expected := "($a ?: $b) !== null"
		if got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
	})
}

func TestStringLiteral(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", "''"},
		{"Hello world", "'Hello world'"},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{`"double"`, `'"double"'`},
	}
	for _, c := range cases {
		if got := phpexpr.StringLiteral(c.input); got != c.expected {
			t.Errorf("Expected %s, got %s", c.expected, got)
		}
	}
}

func TestEscapeMethodName(t *testing.T) {
	t.Run("should append an underscore to reserved words", func(t *testing.T) {
		for input, expected := range map[string]string{
			"list":    "list_",
			"print":   "print_",
			"Switch":  "Switch_",
			"default": "default_",
		} {
			if got := phpexpr.EscapeMethodName(input); got != expected {
				t.Errorf("Expected %q, got %q", expected, got)
			}
		}
	})

	t.Run("should leave ordinary names alone", func(t *testing.T) {
		for _, name := range []string{"helloWorld", "render", "item"} {
			if got := phpexpr.EscapeMethodName(name); got != name {
				t.Errorf("Expected %q, got %q", name, got)
			}
		}
	})
}

func TestWrapAsSanitizedContent(t *testing.T) {
	t.Run("should construct the matching content class", func(t *testing.T) {
		cases := map[soytree.ContentKind]string{
			soytree.ContentKindHTML: `new \Goog\Soy\SanitizedHtml($output)`,
			soytree.ContentKindURI:  `new \Goog\Soy\SanitizedUri($output)`,
			soytree.ContentKindText: `new \Goog\Soy\UnsanitizedText($output)`,
		}
		for kind, expected := range cases {
			got := phpexpr.WrapAsSanitizedContent(kind, phpexpr.NewString("$output"))
			if got.Text != expected {
				t.Errorf("Expected %q, got %q", expected, got.Text)
			}
		}
	})

	t.Run("should pass untyped content through", func(t *testing.T) {
		expr := phpexpr.NewString("$output")
		got := phpexpr.WrapAsSanitizedContent(soytree.ContentKindNone, expr)
		if got != expr {
			t.Errorf("Expected %v, got %v", expr, got)
		}
	})
}
