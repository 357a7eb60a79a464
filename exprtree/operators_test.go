package exprtree_test

import (
	"testing"

	"github.com/oujesky/closure-templates/exprtree"
)

func TestOperatorTable(t *testing.T) {
	t.Run("should order precedence from unary down to conditional", func(t *testing.T) {
		ordered := [][]exprtree.Operator{
			{exprtree.OpNegative, exprtree.OpNot},
			{exprtree.OpTimes, exprtree.OpDivideBy, exprtree.OpMod},
			{exprtree.OpPlus, exprtree.OpMinus},
			{exprtree.OpLessThan, exprtree.OpGreaterThan, exprtree.OpLessThanOrEqual, exprtree.OpGreaterThanOrEqual},
			{exprtree.OpEqual, exprtree.OpNotEqual},
			{exprtree.OpAnd},
			{exprtree.OpOr},
			{exprtree.OpNullCoalescing, exprtree.OpConditional},
		}
		last := ordered[0][0].Precedence() + 1
		for _, level := range ordered {
			prec := level[0].Precedence()
			if prec >= last {
				t.Errorf("Expected precedence below %d, got %d for %v", last, prec, level[0])
			}
			for _, op := range level[1:] {
				if op.Precedence() != prec {
					t.Errorf("Expected %v at precedence %d, got %d", op, prec, op.Precedence())
				}
			}
			last = prec
		}
	})

	t.Run("should report operand counts from the syntax", func(t *testing.T) {
		counts := map[exprtree.Operator]int{
			exprtree.OpNegative:       1,
			exprtree.OpNot:            1,
			exprtree.OpMinus:          2,
			exprtree.OpAnd:            2,
			exprtree.OpNullCoalescing: 2,
			exprtree.OpConditional:    3,
		}
		for op, expected := range counts {
			if got := op.NumOperands(); got != expected {
				t.Errorf("Expected %d operands for %v, got %d", expected, op, got)
			}
		}
	})

	t.Run("should keep binary operators left associative", func(t *testing.T) {
		for _, op := range []exprtree.Operator{
			exprtree.OpTimes, exprtree.OpMinus, exprtree.OpEqual, exprtree.OpAnd, exprtree.OpOr,
		} {
			if op.Associativity() != exprtree.LeftAssociative {
				t.Errorf("Expected %v to be left associative", op)
			}
		}
		for _, op := range []exprtree.Operator{
			exprtree.OpNegative, exprtree.OpNot, exprtree.OpNullCoalescing, exprtree.OpConditional,
		} {
			if op.Associativity() != exprtree.RightAssociative {
				t.Errorf("Expected %v to be right associative", op)
			}
		}
	})

	t.Run("should expose source tokens", func(t *testing.T) {
		tokens := map[exprtree.Operator]string{
			exprtree.OpNot:            "not",
			exprtree.OpNotEqual:       "!=",
			exprtree.OpAnd:            "and",
			exprtree.OpOr:             "or",
			exprtree.OpNullCoalescing: "?:",
		}
		for op, expected := range tokens {
			if got := op.Token(); got != expected {
				t.Errorf("Expected token %q for %v, got %q", expected, op, got)
			}
		}
	})

	t.Run("should put a spacer between the not token and its operand", func(t *testing.T) {
		syntax := exprtree.OpNot.Syntax()
		if len(syntax) != 3 {
			t.Fatalf("Expected 3 syntax elements, got %d", len(syntax))
		}
		if _, ok := syntax[0].(exprtree.Token); !ok {
			t.Errorf("Expected a token first, got %T", syntax[0])
		}
		if _, ok := syntax[1].(exprtree.Spacer); !ok {
			t.Errorf("Expected a spacer second, got %T", syntax[1])
		}
		if _, ok := syntax[2].(exprtree.Operand); !ok {
			t.Errorf("Expected an operand last, got %T", syntax[2])
		}
	})

	t.Run("should glue unary minus directly to its operand", func(t *testing.T) {
		syntax := exprtree.OpNegative.Syntax()
		if len(syntax) != 2 {
			t.Fatalf("Expected 2 syntax elements, got %d", len(syntax))
		}
	})
}
