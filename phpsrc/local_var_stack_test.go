package phpsrc

import (
	"testing"

	"github.com/oujesky/closure-templates/phpexpr"
)

func TestLocalVariableStack(t *testing.T) {
	t.Run("should resolve a bound name", func(t *testing.T) {
		s := NewLocalVariableStack()
		s.PushFrame()
		s.AddVariable("boo", phpexpr.New("$boo__soy1", phpexpr.MaxPrecedence))

		got, ok := s.Lookup("boo")
		if !ok || got.Text != "$boo__soy1" {
			t.Errorf("Expected $boo__soy1, got %q (ok=%v)", got.Text, ok)
		}
	})

	t.Run("should miss an unbound name", func(t *testing.T) {
		s := NewLocalVariableStack()
		s.PushFrame()
		if _, ok := s.Lookup("boo"); ok {
			t.Errorf("Expected no binding for boo")
		}
	})

	t.Run("should shadow outer bindings", func(t *testing.T) {
		s := NewLocalVariableStack()
		s.PushFrame()
		s.AddVariable("i", phpexpr.New("$i1", phpexpr.MaxPrecedence))
		s.PushFrame()
		s.AddVariable("i", phpexpr.New("$i2", phpexpr.MaxPrecedence))

		if got, _ := s.Lookup("i"); got.Text != "$i2" {
			t.Errorf("Expected the inner binding, got %q", got.Text)
		}

		s.PopFrame()
		if got, _ := s.Lookup("i"); got.Text != "$i1" {
			t.Errorf("Expected the outer binding after pop, got %q", got.Text)
		}
	})

	t.Run("should see outer frames from inner scopes", func(t *testing.T) {
		s := NewLocalVariableStack()
		s.PushFrame()
		s.AddVariable("alpha", phpexpr.New("$alpha__soy3", phpexpr.MaxPrecedence))
		s.PushFrame()

		if got, ok := s.Lookup("alpha"); !ok || got.Text != "$alpha__soy3" {
			t.Errorf("Expected the outer binding, got %q (ok=%v)", got.Text, ok)
		}
	})

	t.Run("should drop bindings with their frame", func(t *testing.T) {
		s := NewLocalVariableStack()
		s.PushFrame()
		s.PushFrame()
		s.AddVariable("eta", phpexpr.New("$etaData4", phpexpr.MaxPrecedence))
		s.PopFrame()

		if _, ok := s.Lookup("eta"); ok {
			t.Errorf("Expected the binding to be dropped with its frame")
		}
	})
}
