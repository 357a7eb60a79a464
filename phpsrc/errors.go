package phpsrc

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/phpexpr"
)

// Sentinel errors for the contract violations the backend detects. Reported
// errors wrap one of these, so callers can test with errors.Is.
var (
	// ErrUnknownFunction means a template called a function that is neither
	// a built-in nor a registered plugin.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrUnknownDirective means a print command named a directive that is
	// not registered.
	ErrUnknownDirective = errors.New("unknown print directive")
	// ErrDirectiveArgs means a print directive was applied with an argument
	// count it does not accept.
	ErrDirectiveArgs = errors.New("invalid print directive arguments")
	// ErrUnsupportedLiteral means an array-literal conversion was handed an
	// element kind the target language cannot express.
	ErrUnsupportedLiteral = phpexpr.ErrUnsupportedElement
	// ErrMissingContentKind means a param content block or let content block
	// lacks the content kind strict autoescaping requires.
	ErrMissingContentKind = errors.New("missing content kind")
)

// ErrorReporter accumulates compilation errors so one pass can surface every
// problem instead of stopping at the first.
type ErrorReporter struct {
	errs *multierror.Error
}

// NewErrorReporter returns an empty reporter.
func NewErrorReporter() *ErrorReporter {
	return &ErrorReporter{}
}

// Report records an error at the given source location. The sentinel is one
// of the Err* values above, or nil for a free-form error.
func (r *ErrorReporter) Report(loc exprtree.SourceLocation, sentinel error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	var err error
	if sentinel != nil {
		err = fmt.Errorf("%s: %w: %s", loc, sentinel, msg)
	} else {
		err = fmt.Errorf("%s: %s", loc, msg)
	}
	r.errs = multierror.Append(r.errs, err)
}

// HasErrors reports whether anything has been recorded.
func (r *ErrorReporter) HasErrors() bool {
	return r.errs.ErrorOrNil() != nil
}

// Err drains the reporter into a single aggregate error, or nil when the
// compilation was clean.
func (r *ErrorReporter) Err() error {
	return r.errs.ErrorOrNil()
}
