package phpsrc

import (
	"strconv"

	"github.com/oujesky/closure-templates/msgs"
	"github.com/oujesky/closure-templates/phpexpr"
	"github.com/oujesky/closure-templates/soytree"
)

// genMsgExpr compiles one message into a prepare/render call pair. The
// prepare call carries everything the translation service needs to look the
// message up (id, source text, placeholder names, description, meaning); the
// render call feeds the prepared message the runtime values. The runtime
// entry points differ by message shape:
//
//	plural-only   preparePlural / renderPlural  (case map + plural value)
//	with select   prepareIcu    / renderIcu     (embedded-ICU source text)
//	raw text      prepareLiteral/ renderLiteral (no placeholders)
//	otherwise     prepare       / render        ({NAME} placeholder text)
func (g *Generator) genMsgExpr(node *soytree.MsgNode) phpexpr.Expr {
	if len(node.Parts) == 0 {
		panic("message without parts")
	}

	if plural, ok := topLevelPlural(node.Parts); ok {
		return g.genPluralMsgExpr(node, plural)
	}
	if containsSelect(node.Parts) {
		return g.genIcuMsgExpr(node)
	}
	if msgs.IsPlainText(node.Parts) {
		return g.genRawTextMsgExpr(node)
	}
	return g.genGeneralMsgExpr(node)
}

func (g *Generator) genRawTextMsgExpr(node *soytree.MsgNode) phpexpr.Expr {
	prepare := phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::prepareLiteral").
		AddUintArg(node.ID()).
		AddStringArg(msgs.FlatText(node.Parts)).
		AddArg(g.msgDesc(node)).
		AddArg(g.msgMeaning(node))

	return phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::renderLiteral").
		AddArg(prepare.AsExpr()).
		AsStringExpr()
}

func (g *Generator) genGeneralMsgExpr(node *soytree.MsgNode) phpexpr.Expr {
	names, valueMap := g.collectPlaceholderValues(node)

	prepare := phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::prepare").
		AddUintArg(node.ID()).
		AddStringArg(msgs.FlatText(node.Parts)).
		AddArg(placeholderNamesExpr(names)).
		AddArg(g.msgDesc(node)).
		AddArg(g.msgMeaning(node))

	return phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::render").
		AddArg(prepare.AsExpr()).
		AddArg(placeholderValuesExpr(names, valueMap)).
		AsStringExpr()
}

func (g *Generator) genPluralMsgExpr(node *soytree.MsgNode, plural msgs.Plural) phpexpr.Expr {
	names, valueMap := g.collectPlaceholderValues(node)

	caseEntries := make([]phpexpr.ArrayEntry, len(plural.Cases))
	for i, pluralCase := range plural.Cases {
		caseEntries[i] = phpexpr.ArrayEntry{
			Key:   phpexpr.NewString(phpexpr.StringLiteral(pluralCase.Spec)),
			Value: phpexpr.NewString(phpexpr.StringLiteral(msgs.FlatText(pluralCase.Parts))),
		}
	}

	prepare := phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::preparePlural").
		AddUintArg(node.ID()).
		AddArg(phpexpr.ConvertMapToArrayExpr(caseEntries)).
		AddArg(placeholderNamesExpr(names)).
		AddArg(g.msgDesc(node)).
		AddArg(g.msgMeaning(node))

	pluralValue := g.newTranslator().Translate(node.Vars[plural.VarName])

	return phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::renderPlural").
		AddArg(prepare.AsExpr()).
		AddArg(pluralValue).
		AddArg(placeholderValuesExpr(names, valueMap)).
		AsStringExpr()
}

func (g *Generator) genIcuMsgExpr(node *soytree.MsgNode) phpexpr.Expr {
	names, valueMap := g.collectPlaceholderValues(node)

	prepare := phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::prepareIcu").
		AddUintArg(node.ID()).
		AddStringArg(msgs.IcuString(node.Parts)).
		AddArg(placeholderNamesExpr(names)).
		AddArg(g.msgDesc(node)).
		AddArg(g.msgMeaning(node))

	return phpexpr.NewFunctionBuilder(phpexpr.TranslatorName + "::renderIcu").
		AddArg(prepare.AsExpr()).
		AddArg(placeholderValuesExpr(names, valueMap)).
		AsStringExpr()
}

// collectPlaceholderValues resolves every placeholder and branching variable
// of the message to its PHP value expression, in first-appearance order.
// Placeholder content is rendered through the expression generator; plural
// and select variables translate their value expressions directly.
func (g *Generator) collectPlaceholderValues(node *soytree.MsgNode) ([]string, map[string]phpexpr.Expr) {
	translator := g.newTranslator()

	var names []string
	valueMap := make(map[string]phpexpr.Expr)
	for _, name := range msgs.PlaceholderNames(node.Parts) {
		var value phpexpr.Expr
		if expr, ok := node.Vars[name]; ok {
			value = translator.Translate(expr)
		} else if content, ok := node.Placeholders[name]; ok {
			value = phpexpr.ConcatExprs(g.genExprsForChildren(content)).ToString()
		} else {
			continue
		}
		names = append(names, name)
		valueMap[name] = value
	}
	return names, valueMap
}

func placeholderNamesExpr(names []string) phpexpr.Expr {
	values := make([]interface{}, len(names))
	for i, name := range names {
		values[i] = name
	}
	expr, err := phpexpr.ConvertValuesToArrayExpr(values)
	if err != nil {
		panic(err)
	}
	return expr
}

func placeholderValuesExpr(names []string, valueMap map[string]phpexpr.Expr) phpexpr.Expr {
	entries := make([]phpexpr.ArrayEntry, len(names))
	for i, name := range names {
		entries[i] = phpexpr.ArrayEntry{
			Key:   phpexpr.NewString(phpexpr.StringLiteral(name)),
			Value: valueMap[name],
		}
	}
	return phpexpr.ConvertMapToArrayExpr(entries)
}

func (g *Generator) msgDesc(node *soytree.MsgNode) phpexpr.Expr {
	return nullOrStringLiteral(node.Desc, false)
}

func (g *Generator) msgMeaning(node *soytree.MsgNode) phpexpr.Expr {
	return nullOrStringLiteral(node.Meaning, true)
}

// nullOrStringLiteral renders text as a PHP string literal, mapping an
// undeclared value to null. An empty description is still a declared empty
// string; an empty meaning means none was given.
func nullOrStringLiteral(text string, emptyIsNull bool) phpexpr.Expr {
	if text == "" && emptyIsNull {
		return phpexpr.New("null", phpexpr.MaxPrecedence)
	}
	return phpexpr.NewString(phpexpr.StringLiteral(text))
}

func topLevelPlural(parts []msgs.Part) (msgs.Plural, bool) {
	if len(parts) == 1 {
		if plural, ok := parts[0].(msgs.Plural); ok && !pluralContainsSelect(plural) {
			return plural, true
		}
	}
	return msgs.Plural{}, false
}

func pluralContainsSelect(plural msgs.Plural) bool {
	for _, pluralCase := range plural.Cases {
		if containsSelect(pluralCase.Parts) {
			return true
		}
	}
	return false
}

func containsSelect(parts []msgs.Part) bool {
	for _, part := range parts {
		switch part := part.(type) {
		case msgs.Select:
			return true
		case msgs.Plural:
			if pluralContainsSelect(part) {
				return true
			}
		}
	}
	return false
}

func formatMsgID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
