// Package soytree defines the template-side AST the backend consumes: files,
// templates and command nodes, already parsed, validated and type-resolved by
// the front end. The node set is closed; consumers dispatch with type
// switches.
package soytree

import (
	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/msgs"
)

// SourceLocation identifies where a node came from in the template source.
type SourceLocation = exprtree.SourceLocation

// SoyNode is a template-side node.
type SoyNode interface {
	soyNode()
}

// SoyFileSetNode is the root of a compilation: all files compiled together.
type SoyFileSetNode struct {
	Files []*SoyFileNode
}

// SoyFileNode is one template source file.
type SoyFileNode struct {
	FilePath  string
	Namespace string
	Templates []*TemplateNode
}

// TemplateParam is a declared template parameter with its resolved type.
type TemplateParam struct {
	Name     string
	Type     SoyType
	Required bool
}

// DelegateInfo marks a template as a delegate implementation.
type DelegateInfo struct {
	// Name is the delegate template name callers use.
	Name string
	// Variant is the delegate variant, empty for the default.
	Variant string
	Priority int
}

// TemplateNode is one template definition. A nil Delegate means a basic
// template; otherwise the template registers itself under Delegate.Name.
type TemplateNode struct {
	// TemplateName is the fully qualified name, e.g. "ns.foo".
	TemplateName string
	// PartialTemplateName is the name local to the file, e.g. ".foo".
	PartialTemplateName string
	Visibility          Visibility
	// ContentKind is set for strict-autoescape templates; the generated
	// function wraps its output in the matching sanitized-content type.
	ContentKind ContentKind
	Params      []*TemplateParam
	// ShouldEnsureDataIsDefined is set when the template body reads the data
	// record without declaring params, so the generated code must default an
	// absent record to an empty array.
	ShouldEnsureDataIsDefined bool
	Delegate                  *DelegateInfo
	Body                      []SoyNode
	Location                  SourceLocation
}

// RawTextNode is literal template output text.
type RawTextNode struct {
	Text string
}

// PrintDirectiveNode is one |directive applied to a print command.
type PrintDirectiveNode struct {
	// Name includes the leading bar, e.g. "|escapeHtml".
	Name string
	Args []exprtree.ExprNode
	Location SourceLocation
}

// PrintNode interpolates an expression into the output.
type PrintNode struct {
	Expr       exprtree.ExprNode
	Directives []*PrintDirectiveNode
	Location   SourceLocation
}

// CssNode emits a renamable CSS class name, optionally scoped by a
// component expression.
type CssNode struct {
	// ComponentNameExpr is nil for an unscoped selector.
	ComponentNameExpr exprtree.ExprNode
	SelectorText      string
}

// IfCondNode is one if/elseif branch.
type IfCondNode struct {
	Cond exprtree.ExprNode
	Body []SoyNode
}

// IfNode is an if/elseif/else command. Else is nil when absent.
type IfNode struct {
	Conds []*IfCondNode
	Else  []SoyNode
}

// SwitchCaseNode is one case branch, possibly matching several expressions.
type SwitchCaseNode struct {
	Exprs []exprtree.ExprNode
	Body  []SoyNode
}

// SwitchNode is a switch command. Default is nil when absent.
type SwitchNode struct {
	Expr    exprtree.ExprNode
	Cases   []*SwitchCaseNode
	Default []SoyNode
}

// RangeArgs are the arguments of a for-over-range command. Init and
// Increment are nil when defaulted (0 and 1).
type RangeArgs struct {
	Init      exprtree.ExprNode
	Limit     exprtree.ExprNode
	Increment exprtree.ExprNode
}

// ForNode is a for-over-range loop.
type ForNode struct {
	// ID disambiguates the generated loop variables.
	ID      int
	VarName string
	Range   RangeArgs
	Body    []SoyNode
}

// ForeachNode iterates a list, with an optional body for the empty case.
type ForeachNode struct {
	ID       int
	VarName  string
	ListExpr exprtree.ExprNode
	Body     []SoyNode
	// IfEmptyBody runs instead of Body when the list is empty; nil if the
	// command has no ifempty section.
	IfEmptyBody []SoyNode
}

// LetValueNode binds a local name to an expression value.
type LetValueNode struct {
	ID      int
	VarName string
	Expr    exprtree.ExprNode
}

// LetContentNode binds a local name to rendered block content.
type LetContentNode struct {
	ID      int
	VarName string
	// ContentKind wraps the rendered content in a sanitized-content type;
	// ContentKindNone leaves it a plain string.
	ContentKind ContentKind
	Body        []SoyNode
}

// CallParamNode is a param of a call: a value or a content block.
type CallParamNode interface {
	SoyNode
	ParamKey() string
}

// CallParamValueNode passes an expression value for a param.
type CallParamValueNode struct {
	Key       string
	ValueExpr exprtree.ExprNode
}

// CallParamContentNode passes rendered block content for a param. The
// content kind is mandatory: callees consume typed, pre-escaped content.
type CallParamContentNode struct {
	ID          int
	Key         string
	ContentKind ContentKind
	Body        []SoyNode
	Location    SourceLocation
}

func (n *CallParamValueNode) ParamKey() string   { return n.Key }
func (n *CallParamContentNode) ParamKey() string { return n.Key }

// DelegateCallInfo makes a call resolve its callee through the delegate
// registry instead of a static template name.
type DelegateCallInfo struct {
	// Variant is the variant expression, nil for the default variant.
	Variant            exprtree.ExprNode
	AllowsEmptyDefault bool
}

// CallNode calls another template. A nil Delegate means a static call to
// CalleeName; otherwise CalleeName is the delegate name.
type CallNode struct {
	ID         int
	CalleeName string
	Delegate   *DelegateCallInfo
	// PassesData is set for data="all" and data="<expr>"; DataExpr is nil
	// for data="all".
	PassesData bool
	DataExpr   exprtree.ExprNode
	Params     []CallParamNode
	// EscapingDirectives are applied to the call result, innermost first.
	EscapingDirectives []string
	Location           SourceLocation
}

// MsgNode is one translatable message. Parts carries the structural content
// used for the identifier and the runtime representation; Placeholders and
// Vars map the names appearing in Parts back to the nodes and expressions
// that compute their values.
type MsgNode struct {
	// Meaning disambiguates equal texts; empty means undeclared.
	Meaning string
	Desc    string
	Parts   []msgs.Part
	// Placeholders maps a placeholder name to the content nodes computing
	// its value.
	Placeholders map[string][]SoyNode
	// Vars maps a plural/select variable name to its value expression.
	Vars map[string]exprtree.ExprNode
}

// ID returns the message's deterministic dual-format identifier, shared
// with the extraction and translation pipeline.
func (n *MsgNode) ID() uint64 {
	return msgs.MsgID(n.Parts)
}

// MsgFallbackGroupNode is a message with an optional fallback message used
// when the primary has no translation.
type MsgFallbackGroupNode struct {
	// Msgs holds the primary and at most one fallback.
	Msgs               []*MsgNode
	EscapingDirectives []string
}

func (*SoyFileSetNode) soyNode()       {}
func (*SoyFileNode) soyNode()          {}
func (*TemplateNode) soyNode()         {}
func (*RawTextNode) soyNode()          {}
func (*PrintNode) soyNode()            {}
func (*PrintDirectiveNode) soyNode()   {}
func (*CssNode) soyNode()              {}
func (*IfNode) soyNode()               {}
func (*IfCondNode) soyNode()           {}
func (*SwitchNode) soyNode()           {}
func (*SwitchCaseNode) soyNode()       {}
func (*ForNode) soyNode()              {}
func (*ForeachNode) soyNode()          {}
func (*LetValueNode) soyNode()         {}
func (*LetContentNode) soyNode()       {}
func (*CallNode) soyNode()             {}
func (*CallParamValueNode) soyNode()   {}
func (*CallParamContentNode) soyNode() {}
func (*MsgNode) soyNode()              {}
func (*MsgFallbackGroupNode) soyNode() {}
