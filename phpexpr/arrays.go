package phpexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedElement means a value of a kind the target language cannot
// express was passed to an array-literal conversion.
var ErrUnsupportedElement = errors.New("only numbers, strings and expressions are allowed")

// ArrayEntry is one key/value pair of an associative array literal.
type ArrayEntry struct {
	Key   Expr
	Value Expr
}

// ConvertListToArrayExpr renders items as a PHP array literal.
func ConvertListToArrayExpr(items []Expr) Expr {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return NewArray("["+strings.Join(texts, ", ")+"]", MaxPrecedence)
}

// ConvertValuesToArrayExpr renders a mixed list of Go numbers, Go strings
// and already-rendered expressions as a PHP array literal. Strings become
// single-quoted literals; anything else is a contract violation.
func ConvertValuesToArrayExpr(values []interface{}) (Expr, error) {
	texts := make([]string, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case int:
			texts[i] = strconv.Itoa(v)
		case int64:
			texts[i] = strconv.FormatInt(v, 10)
		case float64:
			texts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		case string:
			texts[i] = StringLiteral(v)
		case Expr:
			texts[i] = v.Text
		default:
			return Expr{}, fmt.Errorf("%w, got %T", ErrUnsupportedElement, v)
		}
	}
	return NewArray("["+strings.Join(texts, ", ")+"]", MaxPrecedence), nil
}

// ConvertMapToArrayExpr renders entries as a PHP associative array literal,
// preserving entry order.
func ConvertMapToArrayExpr(entries []ArrayEntry) Expr {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Key.Text + " => " + e.Value.Text
	}
	return New("["+strings.Join(texts, ", ")+"]", MaxPrecedence)
}
