package phpsrc

import (
	"strconv"
	"strings"

	"github.com/oujesky/closure-templates/phpexpr"
	"github.com/oujesky/closure-templates/soytree"
)

// genCallExpr builds the PHP expression for a template call. Content params
// that required statement emission are assumed to have been precomputed into
// their $param<id> temporaries by the statement visitor.
func (g *Generator) genCallExpr(node *soytree.CallNode) phpexpr.Expr {
	var callText string
	if node.Delegate != nil {
		callText = g.genDelegateCallText(node)
	} else {
		callText = g.genBasicCallText(node)
	}
	return g.applyEscapingDirectives(
		phpexpr.New(callText, phpexpr.MaxPrecedence), node.EscapingDirectives)
}

// genBasicCallText renders a static call. A callee defined in the file being
// generated is reached through self::, anything else through its fully
// qualified class.
func (g *Generator) genBasicCallText(node *soytree.CallNode) string {
	calleeName := node.CalleeName
	lastDot := strings.LastIndex(calleeName, ".")

	var calleeText string
	if g.currentFileTemplates[calleeName] {
		calleeText = "self::" + phpexpr.EscapeMethodName(calleeName[lastDot+1:])
	} else {
		calleeText = `\` + strings.ReplaceAll(calleeName[:lastDot], ".", `\`) +
			"::" + calleeName[lastDot+1:]
	}

	return calleeText + "(" + g.genDataToPass(node) + ", $opt_ijData)"
}

// genDelegateCallText renders a delegate call: the callable is resolved
// through the runtime registry by name and variant, then invoked.
func (g *Generator) genDelegateCallText(node *soytree.CallNode) string {
	variant := phpexpr.NewString("''")
	if node.Delegate.Variant != nil {
		variant = g.newTranslator().Translate(node.Delegate.Variant)
	}

	calleeText := phpexpr.NewFunctionBuilder("Runtime::getDelegateFn").
		AddStringArg(node.CalleeName).
		AddArg(variant).
		AddBoolArg(node.Delegate.AllowsEmptyDefault).
		Build()

	return "call_user_func(" + calleeText + ", " + g.genDataToPass(node) + ", $opt_ijData)"
}

// genDataToPass builds the first call argument: the passed data record, the
// named params, or both merged with params winning on key collision.
func (g *Generator) genDataToPass(node *soytree.CallNode) string {
	translator := g.newTranslator()

	dataToPass := "null"
	if node.PassesData {
		if node.DataExpr == nil {
			dataToPass = "$opt_data"
		} else {
			dataToPass = translator.Translate(node.DataExpr).Text
		}
	}

	if len(node.Params) == 0 {
		return dataToPass
	}

	entries := make([]phpexpr.ArrayEntry, 0, len(node.Params))
	for _, param := range node.Params {
		key := phpexpr.NewString(phpexpr.StringLiteral(param.ParamKey()))

		switch param := param.(type) {
		case *soytree.CallParamValueNode:
			entries = append(entries, phpexpr.ArrayEntry{
				Key:   key,
				Value: translator.Translate(param.ValueExpr),
			})

		case *soytree.CallParamContentNode:
			var value phpexpr.Expr
			if IsComputableAsExpr(param) {
				value = phpexpr.ConcatExprs(g.genExprs(param))
			} else {
				value = phpexpr.New("$param"+strconv.Itoa(param.ID), phpexpr.MaxPrecedence)
			}

			// Strict autoescaping gives every param block a content kind, so
			// the content travels pre-approved.
			value = phpexpr.WrapAsSanitizedContent(param.ContentKind, value.ToString())
			entries = append(entries, phpexpr.ArrayEntry{Key: key, Value: value})
		}
	}

	paramsExpr := phpexpr.ConvertMapToArrayExpr(entries)

	if node.PassesData {
		// array_replace keeps the later array's entries on collision, so the
		// params go last to take precedence over the passed record.
		return "array_replace(" + dataToPass + ", " + paramsExpr.Text + ")"
	}
	return paramsExpr.Text
}
