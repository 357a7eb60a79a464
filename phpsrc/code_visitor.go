package phpsrc

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/phpexpr"
	"github.com/oujesky/closure-templates/soytree"
)

var integerPattern = regexp.MustCompile(`^-?\d+$`)

// Generator holds the state of one compilation: the plugin tables, the
// accumulating error reporter, and the builder and scope stack of the file
// currently being generated.
type Generator struct {
	options    Options
	functions  map[string]phpexpr.Function
	directives map[string]phpexpr.PrintDirective
	reporter   *ErrorReporter

	builder   *CodeBuilder
	localVars *LocalVariableStack

	// currentFileTemplates holds the fully qualified names of the templates
	// defined in the file being generated, for self:: call resolution.
	currentFileTemplates map[string]bool

	delegateRegisterCalls []string
}

// NewGenerator returns a generator with the default plugin functions and
// print directives registered.
func NewGenerator(options Options) *Generator {
	return &Generator{
		options:    options,
		functions:  DefaultFunctions(),
		directives: DefaultPrintDirectives(options.BidiGlobalDir()),
		reporter:   NewErrorReporter(),
	}
}

// RegisterFunction makes fn callable from templates.
func (g *Generator) RegisterFunction(fn phpexpr.Function) {
	g.functions[fn.Name()] = fn
}

// RegisterPrintDirective makes d applicable in print commands.
func (g *Generator) RegisterPrintDirective(d phpexpr.PrintDirective) {
	g.directives[d.Name()] = d
}

func (g *Generator) newTranslator() *ExprTranslator {
	return NewExprTranslator(g.localVars, g.functions, g.reporter)
}

// GenPhpSrc generates one PHP source blob per file in the set. On failure
// every accumulated error is returned in one aggregate.
func (g *Generator) GenPhpSrc(fileSet *soytree.SoyFileSetNode) ([]string, error) {
	contents := make([]string, 0, len(fileSet.Files))
	for _, file := range fileSet.Files {
		contents = append(contents, g.genFile(file))
	}
	if g.reporter.HasErrors() {
		return nil, g.reporter.Err()
	}
	return contents, nil
}

// genFile emits the full output for one source file: the header comment, the
// namespace and runtime imports, a class with one method per template, and
// the delegate registrations.
func (g *Generator) genFile(file *soytree.SoyFileNode) string {
	g.builder = NewCodeBuilder()
	g.delegateRegisterCalls = nil

	g.currentFileTemplates = make(map[string]bool, len(file.Templates))
	for _, template := range file.Templates {
		g.currentFileTemplates[template.TemplateName] = true
	}

	b := g.builder
	b.AppendLine("<?php")
	b.AppendLine("/**")
	b.AppendLine(" * This file was automatically generated from ", fileName(file.FilePath), ".")
	b.AppendLine(" * Please don't edit this file by hand.")
	b.AppendLine(" * ")
	if file.Namespace != "" {
		b.AppendLine(" * Templates in namespace ", file.Namespace, ".")
	}
	b.AppendLine(" */")

	b.AppendLine()
	b.AppendLine("namespace ", phpNamespace(file.Namespace), ";")
	g.genGeneralDeps()

	b.AppendLine("class ", phpClassName(file.Namespace), " {")
	b.IncreaseIndent()

	for _, template := range file.Templates {
		b.AppendLine()
		b.AppendLine()
		g.genTemplate(template)
	}

	b.DecreaseIndent()
	b.AppendLine()
	b.AppendLine("}")

	b.AppendLine()
	for _, registerCall := range g.delegateRegisterCalls {
		b.AppendLineEnd(registerCall)
	}

	g.builder = nil
	g.currentFileTemplates = nil
	return b.Code()
}

// genGeneralDeps emits the use statements every generated file needs, plus
// the configured translation class aliased as Translator.
func (g *Generator) genGeneralDeps() {
	b := g.builder
	b.AppendLine()
	b.AppendLine(`use Goog\Soy\Bidi;`)
	b.AppendLine(`use Goog\Soy\Directives;`)
	b.AppendLine(`use Goog\Soy\Sanitize;`)
	b.AppendLine(`use Goog\Soy\Runtime;`)

	if g.options.TranslationClass != "" {
		b.AppendLine("use ", g.options.TranslationClass, " as ", phpexpr.TranslatorName, ";")
	}

	b.AppendLine()
}

// genTemplate emits one template as a static method. Delegate templates
// additionally queue a registry call emitted at the end of the file.
func (g *Generator) genTemplate(node *soytree.TemplateNode) {
	g.localVars = NewLocalVariableStack()

	visibility := "public"
	if node.Visibility == soytree.PrivateVisibility {
		visibility = "private"
	}

	b := g.builder
	b.AppendLine("/**")
	b.AppendLine(" * @param array|null $opt_data")
	b.AppendLine(" * @param array|null $opt_ijData")
	b.AppendLine(` * @return \Goog\Soy\SanitizedContent`)
	b.AppendLine(" */")
	b.AppendLine(visibility, " static function ",
		phpexpr.EscapeMethodName(strings.TrimPrefix(node.PartialTemplateName, ".")),
		"($opt_data = null, $opt_ijData = null) {")
	b.IncreaseIndent()

	g.genTemplateBody(node)

	b.DecreaseIndent()
	b.AppendLine("}")

	if node.Delegate != nil {
		g.queueDelegateRegistration(node)
	}
}

func (g *Generator) genTemplateBody(node *soytree.TemplateNode) {
	g.localVars.PushFrame()

	if node.ShouldEnsureDataIsDefined {
		g.builder.AppendLine("$opt_data = is_array($opt_data) ? $opt_data : [];")
	}

	g.genParamTypeChecks(node)

	g.builder.PushOutputVar("$output")
	g.visitChildren(node.Body)

	result := g.builder.OutputAsString()
	g.builder.PopOutputVar()

	// Strict templates return the sanitized wrapper for their kind, so call
	// sites can trust the content without re-escaping.
	result = phpexpr.WrapAsSanitizedContent(node.ContentKind, result)

	g.builder.AppendLine("return ", result.Text, ";")

	g.localVars.PopFrame()
}

func (g *Generator) queueDelegateRegistration(node *soytree.TemplateNode) {
	lastDot := strings.LastIndex(node.TemplateName, ".")
	callableText := strings.ReplaceAll(node.TemplateName[:lastDot], ".", `\`) +
		"::" + node.TemplateName[lastDot+1:]

	registerCall := "Runtime::registerDelegateFn(" +
		phpexpr.StringLiteral(node.Delegate.Name) + ", " +
		phpexpr.StringLiteral(node.Delegate.Variant) + ", " +
		strconv.Itoa(node.Delegate.Priority) + ", " +
		phpexpr.StringLiteral(callableText) + ")"
	g.delegateRegisterCalls = append(g.delegateRegisterCalls, registerCall)
}

// visitChildren emits code for a node list, batching runs of consecutive
// expression-computable children into single appends to the output variable.
func (g *Generator) visitChildren(children []soytree.SoyNode) {
	// If the first child needs statements, the output variable must be
	// initialized up front or a branch could reference it before assignment.
	if len(children) > 0 && !IsComputableAsExpr(children[0]) {
		g.builder.InitOutputVarIfNecessary()
	}

	var pending []phpexpr.Expr
	for _, child := range children {
		if IsComputableAsExpr(child) {
			pending = append(pending, g.genExprs(child)...)
			continue
		}
		if len(pending) > 0 {
			g.builder.AddToOutputVar(pending)
			pending = nil
		}
		g.visit(child)
	}
	if len(pending) > 0 {
		g.builder.AddToOutputVar(pending)
	}
}

// visit emits statements for one non-expression-computable node.
func (g *Generator) visit(node soytree.SoyNode) {
	switch node := node.(type) {
	case *soytree.IfNode:
		g.visitIf(node)
	case *soytree.SwitchNode:
		g.visitSwitch(node)
	case *soytree.ForNode:
		g.visitFor(node)
	case *soytree.ForeachNode:
		g.visitForeach(node)
	case *soytree.LetValueNode:
		g.visitLetValue(node)
	case *soytree.LetContentNode:
		g.visitLetContent(node)
	case *soytree.CallNode:
		g.visitCall(node)
	case *soytree.CallParamContentNode:
		g.visitCallParamContent(node)
	default:
		if IsComputableAsExpr(node) {
			g.builder.AddToOutputVar(g.genExprs(node))
			return
		}
		panic("unhandled statement node")
	}
}

func (g *Generator) visitIf(node *soytree.IfNode) {
	if IsComputableAsExpr(node) {
		g.builder.AddToOutputVar(g.genExprs(node))
		return
	}

	translator := g.newTranslator()
	b := g.builder
	for i, cond := range node.Conds {
		condExpr := translator.Translate(cond.Cond)
		if i == 0 {
			b.AppendLine("if (", condExpr.Text, ") {")
		} else {
			b.AppendLine("else if (", condExpr.Text, ") {")
		}

		b.IncreaseIndent()
		g.visitChildren(cond.Body)
		b.DecreaseIndent()
		b.AppendLine("}")
	}

	if node.Else != nil {
		b.AppendLine("else {")
		b.IncreaseIndent()
		g.visitChildren(node.Else)
		b.DecreaseIndent()
		b.AppendLine("}")
	}
}

func (g *Generator) visitSwitch(node *soytree.SwitchNode) {
	// Translate the switch value first so side effects always occur.
	translator := g.newTranslator()
	switchValue := translator.Translate(node.Expr)

	b := g.builder
	b.AppendLine("switch (", switchValue.Text, ") {")
	b.IncreaseIndent()

	for _, switchCase := range node.Cases {
		for _, caseExpr := range switchCase.Exprs {
			b.AppendLine("case ", translator.Translate(caseExpr).Text, ":")
		}
		b.IncreaseIndent()
		g.visitChildren(switchCase.Body)
		b.AppendLine("break;")
		b.DecreaseIndent()
	}

	if node.Default != nil {
		b.AppendLine("default:")
		b.IncreaseIndent()
		g.visitChildren(node.Default)
		b.DecreaseIndent()
	}

	b.DecreaseIndent()
	b.AppendLine("}")
}

// visitFor emits a counted loop over a numeric range. Range bounds that are
// not integer literals are hoisted into locals so they evaluate once.
func (g *Generator) visitFor(node *soytree.ForNode) {
	translator := g.newTranslator()
	b := g.builder

	varName := node.VarName
	nodeID := strconv.Itoa(node.ID)

	initText := "0"
	if node.Range.Init != nil {
		initText = translator.Translate(node.Range.Init).Text
	}
	limitText := translator.Translate(node.Range.Limit).Text
	incrementText := "1"
	if node.Range.Increment != nil {
		incrementText = translator.Translate(node.Range.Increment).Text
	}

	hoist := func(text, suffix string) string {
		if integerPattern.MatchString(text) {
			return text
		}
		code := "$" + varName + suffix + nodeID
		b.AppendLine(code, " = ", text, ";")
		return code
	}
	initCode := hoist(initText, "Init")
	limitCode := hoist(limitText, "Limit")
	incrementCode := hoist(incrementText, "Increment")

	loopVar := "$" + varName + nodeID
	incrementStmt := loopVar + " += " + incrementCode
	if incrementCode == "1" {
		incrementStmt = loopVar + "++"
	}
	b.AppendLine("for (",
		loopVar, " = ", initCode, "; ",
		loopVar, " < ", limitCode, "; ",
		incrementStmt,
		") {")

	g.localVars.PushFrame()
	g.localVars.AddVariable(varName, phpexpr.New(loopVar, phpexpr.MaxPrecedence))

	b.IncreaseIndent()
	g.visitChildren(node.Body)
	b.DecreaseIndent()
	b.AppendLine("}")

	g.localVars.PopFrame()
}

// visitForeach iterates a list with index access, binding the loop variable
// plus the synthetic __isFirst/__isLast/__index names the loop functions
// resolve against. An ifempty section wraps the loop in an emptiness test.
func (g *Generator) visitForeach(node *soytree.ForeachNode) {
	b := g.builder
	nodeID := strconv.Itoa(node.ID)
	listVar := "$" + node.VarName + "List" + nodeID

	listExpr := g.newTranslator().Translate(node.ListExpr)
	b.AppendLine(listVar, " = ", listExpr.Text, ";")

	hasIfempty := node.IfEmptyBody != nil
	if hasIfempty {
		b.AppendLine("if (!empty(", listVar, ")) {")
		b.IncreaseIndent()
	}

	g.genForeachLoop(node, listVar, nodeID)

	if hasIfempty {
		b.DecreaseIndent()
		b.AppendLine("} else {")
		b.IncreaseIndent()
		g.visitChildren(node.IfEmptyBody)
		b.DecreaseIndent()
		b.AppendLine("}")
	}
}

func (g *Generator) genForeachLoop(node *soytree.ForeachNode, listVar, nodeID string) {
	b := g.builder
	indexVar := "$" + node.VarName + "Index" + nodeID
	dataVar := "$" + node.VarName + "Data" + nodeID
	firstKeyVar := "$" + node.VarName + "FirstKey" + nodeID
	lastKeyVar := "$" + node.VarName + "LastKey" + nodeID

	eqPrecedence := phpexpr.PrecedenceForOperator(exprtree.OpEqual)

	// First and last keys are computed up front; comparing the iteration
	// key against them answers isFirst/isLast without a counter.
	b.AppendLine("reset(", listVar, ");")
	b.AppendLine(firstKeyVar, " = key(", listVar, ");")
	b.AppendLine("end(", listVar, ");")
	b.AppendLine(lastKeyVar, " = key(", listVar, ");")

	b.AppendLine("foreach (", listVar, " as ", indexVar, " => ", dataVar, ") {")
	b.IncreaseIndent()

	g.localVars.PushFrame()
	g.localVars.AddVariable(node.VarName, phpexpr.New(dataVar, phpexpr.MaxPrecedence))
	g.localVars.AddVariable(node.VarName+"__isFirst",
		phpexpr.New(indexVar+" === "+firstKeyVar, eqPrecedence))
	g.localVars.AddVariable(node.VarName+"__isLast",
		phpexpr.New(indexVar+" === "+lastKeyVar, eqPrecedence))
	g.localVars.AddVariable(node.VarName+"__index",
		phpexpr.New(indexVar, phpexpr.MaxPrecedence))

	g.visitChildren(node.Body)
	g.localVars.PopFrame()

	b.DecreaseIndent()
	b.AppendLine("}")
}

func (g *Generator) visitLetValue(node *soytree.LetValueNode) {
	generatedVar := "$" + node.VarName + "__soy" + strconv.Itoa(node.ID)

	value := g.newTranslator().Translate(node.Expr)
	g.builder.AppendLine(generatedVar, " = ", value.Text, ";")

	g.localVars.AddVariable(node.VarName, phpexpr.New(generatedVar, phpexpr.MaxPrecedence))
}

// visitLetContent renders a content block into its own output variable, then
// rebinds the variable to the sanitized wrapper for the block's kind. Strict
// autoescaping guarantees the kind is present.
func (g *Generator) visitLetContent(node *soytree.LetContentNode) {
	if node.ContentKind == soytree.ContentKindNone {
		g.reporter.Report(soytree.SourceLocation{}, ErrMissingContentKind,
			"let content block for $%s", node.VarName)
		return
	}

	generatedVar := "$" + node.VarName + "__soy" + strconv.Itoa(node.ID)

	g.localVars.PushFrame()
	g.builder.PushOutputVar(generatedVar)

	g.visitChildren(node.Body)

	content := g.builder.OutputAsString()
	g.builder.PopOutputVar()
	g.localVars.PopFrame()

	wrapped := phpexpr.WrapAsSanitizedContent(node.ContentKind, content)
	g.builder.AppendLine(generatedVar, " = ", wrapped.Text, ";")

	g.localVars.AddVariable(node.VarName, phpexpr.New(generatedVar, phpexpr.MaxPrecedence))
}

// visitCall precomputes any content params that need statement emission into
// their $param<id> temporaries, then appends the call expression itself.
func (g *Generator) visitCall(node *soytree.CallNode) {
	for _, param := range node.Params {
		if content, ok := param.(*soytree.CallParamContentNode); ok && !IsComputableAsExpr(content) {
			g.visitCallParamContent(content)
		}
	}
	g.builder.AddExprToOutputVar(g.genCallExpr(node).ToString())
}

func (g *Generator) visitCallParamContent(node *soytree.CallParamContentNode) {
	if IsComputableAsExpr(node) {
		panic("$param temporaries are only for params that need statements")
	}

	g.builder.PushOutputVar("$param" + strconv.Itoa(node.ID))
	g.builder.InitOutputVarIfNecessary()
	g.visitChildren(node.Body)
	g.builder.PopOutputVar()
}

// genParamTypeChecks emits the runtime type validation for each declared
// param and binds the param name to a typed local alias.
func (g *Generator) genParamTypeChecks(node *soytree.TemplateNode) {
	for _, param := range node.Params {
		paramAccess := "$opt_data[" + phpexpr.StringLiteral(param.Name) + "]"
		paramAlias := paramAliasName(param.Name)

		var predicate, defaultValue, paramValue string
		switch param.Type.Kind {
		case soytree.AnyType, soytree.UnknownType:
			continue

		case soytree.BoolType:
			predicate = "is_bool({0}) || {0} === 1 || {0} === 0"
			defaultValue = "false"
			paramValue = "!!" + paramAccess

		case soytree.UnionType:
			predicate, defaultValue = unionTypeTests(param.Type)
			paramValue = paramAccess

		default:
			predicate, defaultValue = scalarTypeTest(param.Type.Kind)
			paramValue = paramAccess
		}

		g.genParamTypeCheck(param, paramAccess, paramAlias, paramValue, predicate, defaultValue)
		g.localVars.AddVariable(param.Name, phpexpr.New(paramAlias, phpexpr.MaxPrecedence))
	}
}

func (g *Generator) genParamTypeCheck(param *soytree.TemplateParam,
	paramAccess, paramAlias, paramValue, predicate, defaultValue string) {

	formatted := strings.ReplaceAll(predicate, "{0}", paramAccess)

	g.builder.AppendLine("if (!(", formatted, ")) { ",
		`throw new \Goog\Soy\Exception('Invalid type "'.gettype(`,
		paramAccess, `).'" for parameter "`, param.Name, `"'); }`)

	if param.Required {
		g.builder.AppendLine(paramAlias, " = ", paramValue, ";")
	} else {
		g.builder.AppendLine(paramAlias, " = isset(", paramAccess, ") ? ",
			paramValue, " : ", defaultValue, ";")
	}
}

// paramAliasName names the local storing a validated param. $this is
// reserved in PHP, so that one param gets a trailing underscore.
func paramAliasName(paramName string) string {
	if paramName == "this" {
		return "$this_"
	}
	return "$" + paramName
}

// scalarTypeTest returns the predicate format (with {0} standing for the
// access expression) and the optional-param default for a non-union kind.
func scalarTypeTest(kind soytree.TypeKind) (predicate, defaultValue string) {
	switch kind {
	case soytree.StringType:
		return `is_string({0}) || ({0} instanceof \Goog\Soy\SanitizedContent)`, "''"
	case soytree.IntType, soytree.EnumType:
		return "is_int({0})", "0"
	case soytree.FloatType:
		return "is_float({0})", "0.0"
	case soytree.ListType, soytree.RecordType, soytree.MapType:
		return "is_array({0})", "[]"
	case soytree.ObjectType:
		return "is_object({0})", "null"
	case soytree.HTMLType, soytree.AttributesType, soytree.CSSType,
		soytree.URIType, soytree.JSType:
		// Plain strings and unsanitized text pass where a sanitized kind is
		// declared; they just get escaped.
		ordainer := phpexpr.SanitizedContentOrdainer(sanitizedKindContentKind(kind))
		return "({0} instanceof " + ordainer +
			`) || ({0} instanceof \Goog\Soy\UnsanitizedText) || is_string({0})`, "''"
	default:
		panic("unsupported parameter type kind")
	}
}

// unionTypeTests builds the OR-joined predicate set for a union, sorted for
// deterministic output, with the null test leading when the union admits
// null. The member default survives only when the union is simple enough
// for it to be unambiguous.
func unionTypeTests(union soytree.SoyType) (predicate, defaultValue string) {
	testSet := make(map[string]bool)
	defaultVal := "null"

	for _, member := range union.Members {
		switch member.Kind {
		case soytree.AnyType, soytree.UnknownType:
			// 'any' in a union degenerates to a null test.
			testSet["{0} !== null"] = true
		case soytree.NullType:
			// Handled by the leading isset test below.
		case soytree.BoolType:
			testSet["is_bool({0}) || {0} === 1 || {0} === 0"] = true
			defaultVal = "false"
		case soytree.StringType:
			testSet["is_string({0})"] = true
			testSet[`({0} instanceof \Goog\Soy\SanitizedContent)`] = true
			defaultVal = "''"
		case soytree.IntType, soytree.EnumType:
			testSet["is_int({0})"] = true
			defaultVal = "0"
		case soytree.FloatType:
			testSet["is_float({0})"] = true
			defaultVal = "0.0"
		case soytree.ListType, soytree.RecordType, soytree.MapType:
			testSet["is_array({0})"] = true
			defaultVal = "[]"
		case soytree.ObjectType:
			testSet["is_object({0})"] = true
			defaultVal = "null"
		case soytree.HTMLType, soytree.AttributesType, soytree.CSSType,
			soytree.URIType, soytree.JSType:
			ordainer := phpexpr.SanitizedContentOrdainer(sanitizedKindContentKind(member.Kind))
			testSet["({0} instanceof "+ordainer+")"] = true
			testSet[`({0} instanceof \Goog\Soy\UnsanitizedText)`] = true
			testSet["is_string({0})"] = true
			defaultVal = "''"
		default:
			panic("unsupported union member type kind")
		}
	}

	tests := make([]string, 0, len(testSet))
	for test := range testSet {
		tests = append(tests, test)
	}
	sort.Strings(tests)
	result := strings.Join(tests, " || ")

	maxSize := 1
	if union.IsNullable() {
		result = "!isset({0}) || " + result
		maxSize++
	}

	if len(tests) > maxSize {
		defaultVal = "null"
	}
	return result, defaultVal
}

func sanitizedKindContentKind(kind soytree.TypeKind) soytree.ContentKind {
	switch kind {
	case soytree.HTMLType:
		return soytree.ContentKindHTML
	case soytree.AttributesType:
		return soytree.ContentKindAttributes
	case soytree.CSSType:
		return soytree.ContentKindCSS
	case soytree.URIType:
		return soytree.ContentKindURI
	case soytree.JSType:
		return soytree.ContentKindJS
	default:
		panic("not a sanitized type kind")
	}
}

// phpNamespace converts a dotted template namespace to the PHP namespace of
// the generated class: everything before the last segment.
func phpNamespace(namespace string) string {
	if i := strings.LastIndex(namespace, "."); i != -1 {
		return strings.ReplaceAll(namespace[:i], ".", `\`)
	}
	return namespace
}

// phpClassName is the last segment of the dotted template namespace.
func phpClassName(namespace string) string {
	if i := strings.LastIndex(namespace, "."); i != -1 {
		return namespace[i+1:]
	}
	return namespace
}

func fileName(filePath string) string {
	if i := strings.LastIndexAny(filePath, `/\`); i != -1 {
		return filePath[i+1:]
	}
	return filePath
}
