package phpsrc

import (
	"github.com/oujesky/closure-templates/phpexpr"
)

// sanitizeDirective renders an escaping directive as a call to the runtime
// Sanitize class. These take no user arguments; they come from autoescaping.
type sanitizeDirective struct {
	name      string
	phpMethod string
}

func (d sanitizeDirective) Name() string          { return d.name }
func (d sanitizeDirective) ValidArgsSizes() []int { return []int{0} }

func (d sanitizeDirective) Apply(value phpexpr.Expr, args []phpexpr.Expr) phpexpr.Expr {
	return phpexpr.NewFunctionBuilder("Sanitize::" + d.phpMethod).
		AddArg(value).
		AsStringExpr()
}

// identityDirective passes the value through unchanged.
type identityDirective struct {
	name string
}

func (d identityDirective) Name() string          { return d.name }
func (d identityDirective) ValidArgsSizes() []int { return []int{0} }

func (d identityDirective) Apply(value phpexpr.Expr, args []phpexpr.Expr) phpexpr.Expr {
	return value
}

// directivesCallDirective renders a formatting directive as a call to the
// runtime Directives class, passing the user arguments through.
type directivesCallDirective struct {
	name      string
	phpMethod string
	argSizes  []int
}

func (d directivesCallDirective) Name() string          { return d.name }
func (d directivesCallDirective) ValidArgsSizes() []int { return d.argSizes }

func (d directivesCallDirective) Apply(value phpexpr.Expr, args []phpexpr.Expr) phpexpr.Expr {
	builder := phpexpr.NewFunctionBuilder("Directives::" + d.phpMethod).AddArg(value)
	for _, arg := range args {
		builder.AddArg(arg)
	}
	return builder.AsStringExpr()
}

// bidiDirective renders a bidi wrapping directive, passing the resolved
// global direction as the first argument.
type bidiDirective struct {
	name      string
	phpMethod string
	dir       BidiGlobalDir
}

func (d bidiDirective) Name() string          { return d.name }
func (d bidiDirective) ValidArgsSizes() []int { return []int{0} }

func (d bidiDirective) Apply(value phpexpr.Expr, args []phpexpr.Expr) phpexpr.Expr {
	builder := phpexpr.NewFunctionBuilder("Bidi::" + d.phpMethod)
	if d.dir.IsStatic() {
		builder.AddIntArg(int64(d.dir.StaticValue))
	} else {
		builder.AddArg(phpexpr.New(d.dir.CodeSnippet, phpexpr.MaxPrecedence))
	}
	return builder.AddArg(value).AsStringExpr()
}

// DefaultPrintDirectives returns the standard directive table: the
// autoescaping sanitizers plus the user-invocable formatting and bidi
// directives. The bidi directives close over the configured global
// direction.
func DefaultPrintDirectives(dir BidiGlobalDir) map[string]phpexpr.PrintDirective {
	directives := []phpexpr.PrintDirective{
		sanitizeDirective{name: "|escapeHtml", phpMethod: "escapeHtml"},
		sanitizeDirective{name: "|escapeHtmlRcdata", phpMethod: "escapeHtmlRcdata"},
		sanitizeDirective{name: "|escapeHtmlAttribute", phpMethod: "escapeHtmlAttribute"},
		sanitizeDirective{name: "|escapeHtmlAttributeNospace", phpMethod: "escapeHtmlAttributeNospace"},
		sanitizeDirective{name: "|filterHtmlAttributes", phpMethod: "filterHtmlAttributes"},
		sanitizeDirective{name: "|filterHtmlElementName", phpMethod: "filterHtmlElementName"},
		sanitizeDirective{name: "|escapeJsString", phpMethod: "escapeJsString"},
		sanitizeDirective{name: "|escapeJsValue", phpMethod: "escapeJsValue"},
		sanitizeDirective{name: "|escapeJsRegex", phpMethod: "escapeJsRegex"},
		sanitizeDirective{name: "|escapeCssString", phpMethod: "escapeCssString"},
		sanitizeDirective{name: "|filterCssValue", phpMethod: "filterCssValue"},
		sanitizeDirective{name: "|escapeUri", phpMethod: "escapeUri"},
		sanitizeDirective{name: "|normalizeUri", phpMethod: "normalizeUri"},
		sanitizeDirective{name: "|filterNormalizeUri", phpMethod: "filterNormalizeUri"},
		sanitizeDirective{name: "|filterImageDataUri", phpMethod: "filterImageDataUri"},
		identityDirective{name: "|noAutoescape"},
		identityDirective{name: "|id"},
		directivesCallDirective{name: "|changeNewlineToBr", phpMethod: "changeNewlineToBr", argSizes: []int{0}},
		directivesCallDirective{name: "|insertWordBreaks", phpMethod: "insertWordBreaks", argSizes: []int{1}},
		directivesCallDirective{name: "|truncate", phpMethod: "truncate", argSizes: []int{1, 2}},
		bidiDirective{name: "|bidiSpanWrap", phpMethod: "spanWrap", dir: dir},
		bidiDirective{name: "|bidiUnicodeWrap", phpMethod: "unicodeWrap", dir: dir},
	}

	table := make(map[string]phpexpr.PrintDirective, len(directives))
	for _, d := range directives {
		table[d.Name()] = d
	}
	return table
}
