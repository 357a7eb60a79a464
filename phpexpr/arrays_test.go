package phpexpr_test

import (
	"errors"
	"testing"

	"github.com/oujesky/closure-templates/phpexpr"
)

func TestConvertListToArrayExpr(t *testing.T) {
	t.Run("should render an empty list", func(t *testing.T) {
		got := phpexpr.ConvertListToArrayExpr(nil)
		if got.Text != "[]" {
			t.Errorf("Expected %q, got %q", "[]", got.Text)
		}
		if got.Kind != phpexpr.ArrayKind {
			t.Errorf("Expected an array-typed result, got kind %v", got.Kind)
		}
	})

	t.Run("should join items with commas", func(t *testing.T) {
		got := phpexpr.ConvertListToArrayExpr([]phpexpr.Expr{
			phpexpr.New("1", phpexpr.MaxPrecedence),
			phpexpr.NewString("'a'"),
			phpexpr.New("$opt_data['boo']", phpexpr.MaxPrecedence),
		})
		expected := "[1, 'a', $opt_data['boo']]"
		if got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
	})
}

func TestConvertValuesToArrayExpr(t *testing.T) {
	t.Run("should quote strings and pass numbers and expressions through", func(t *testing.T) {
		got, err := phpexpr.ConvertValuesToArrayExpr([]interface{}{
			"USERNAME", 3, int64(42), 1.5, phpexpr.New("$x", phpexpr.MaxPrecedence),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		expected := "['USERNAME', 3, 42, 1.5, $x]"
		if got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
	})

	t.Run("should reject unsupported element kinds", func(t *testing.T) {
		_, err := phpexpr.ConvertValuesToArrayExpr([]interface{}{true})
		if !errors.Is(err, phpexpr.ErrUnsupportedElement) {
			t.Errorf("Expected ErrUnsupportedElement, got %v", err)
		}
	})
}

func TestConvertMapToArrayExpr(t *testing.T) {
	t.Run("should preserve entry order", func(t *testing.T) {
		got := phpexpr.ConvertMapToArrayExpr([]phpexpr.ArrayEntry{
			{Key: phpexpr.NewString("'goo'"), Value: phpexpr.New("88", phpexpr.MaxPrecedence)},
			{Key: phpexpr.NewString("'moo'"), Value: phpexpr.NewString("$opt_data['moo']")},
		})
		expected := "['goo' => 88, 'moo' => $opt_data['moo']]"
		if got.Text != expected {
			t.Errorf("Expected %q, got %q", expected, got.Text)
		}
	})

	t.Run("should render the empty map", func(t *testing.T) {
		got := phpexpr.ConvertMapToArrayExpr(nil)
		if got.Text != "[]" {
			t.Errorf("Expected %q, got %q", "[]", got.Text)
		}
	})
}

func TestFunctionExprBuilder(t *testing.T) {
	t.Run("should assemble arguments in order", func(t *testing.T) {
		got := phpexpr.NewFunctionBuilder("Runtime::getDelegateFn").
			AddStringArg("myDelegate").
			AddArg(phpexpr.NewString("$variant")).
			AddBoolArg(true).
			Build()
		expected := "Runtime::getDelegateFn('myDelegate', $variant, true)"
		if got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should render numeric arguments unquoted", func(t *testing.T) {
		got := phpexpr.NewFunctionBuilder("f").
			AddIntArg(-1).
			AddUintArg(9223372036854775807).
			AddBoolArg(false).
			Build()
		expected := "f(-1, 9223372036854775807, false)"
		if got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should render a no-argument call", func(t *testing.T) {
		if got := phpexpr.NewFunctionBuilder("reset").Build(); got != "reset()" {
			t.Errorf("Expected %q, got %q", "reset()", got)
		}
	})

	t.Run("should tag the result kind", func(t *testing.T) {
		asExpr := phpexpr.NewFunctionBuilder("count").AddArg(phpexpr.NewString("$x")).AsExpr()
		if asExpr.Precedence != phpexpr.MaxPrecedence || asExpr.Kind != phpexpr.ValueKind {
			t.Errorf("Expected an atomic value expression, got %v", asExpr)
		}
		asString := phpexpr.NewFunctionBuilder("implode").AddArg(phpexpr.NewString("$x")).AsStringExpr()
		if asString.Kind != phpexpr.StringKind {
			t.Errorf("Expected a string-typed expression, got %v", asString)
		}
	})
}
