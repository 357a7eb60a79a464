package phpsrc

import "github.com/oujesky/closure-templates/phpexpr"

// LocalVariableStack tracks the local variables in scope during code
// generation, mapping each template-visible name to the PHP expression that
// reads it. Frames mirror the template's block structure; lookups walk from
// the innermost frame out, so an inner binding shadows an outer one of the
// same name.
type LocalVariableStack struct {
	frames []map[string]phpexpr.Expr
}

// NewLocalVariableStack returns an empty stack with no frames. Callers push
// a frame before adding variables.
func NewLocalVariableStack() *LocalVariableStack {
	return &LocalVariableStack{}
}

// PushFrame opens a new scope.
func (s *LocalVariableStack) PushFrame() {
	s.frames = append(s.frames, map[string]phpexpr.Expr{})
}

// PopFrame closes the innermost scope, dropping its bindings.
func (s *LocalVariableStack) PopFrame() {
	s.frames = s.frames[:len(s.frames)-1]
}

// AddVariable binds name in the innermost scope.
func (s *LocalVariableStack) AddVariable(name string, expr phpexpr.Expr) {
	s.frames[len(s.frames)-1][name] = expr
}

// Lookup returns the expression bound to name and whether any scope binds
// it.
func (s *LocalVariableStack) Lookup(name string) (phpexpr.Expr, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if expr, ok := s.frames[i][name]; ok {
			return expr, true
		}
	}
	return phpexpr.Expr{}, false
}
