package soytree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/oujesky/closure-templates/exprtree"
	"github.com/oujesky/closure-templates/msgs"
)

// DecodeFileSet reads a file-set tree dump produced by the front end. Nodes
// are JSON objects tagged with a "kind" field; expressions use the same
// convention. The decoder validates structure only — types and escaping are
// the front end's responsibility.
func DecodeFileSet(r io.Reader) (*SoyFileSetNode, error) {
	var raw struct {
		Files []json.RawMessage `json:"files"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding file set: %w", err)
	}

	fileSet := &SoyFileSetNode{}
	for i, rawFile := range raw.Files {
		file, err := decodeFile(rawFile)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", i, err)
		}
		fileSet.Files = append(fileSet.Files, file)
	}
	return fileSet, nil
}

func decodeFile(raw json.RawMessage) (*SoyFileNode, error) {
	var rf struct {
		FilePath  string            `json:"filePath"`
		Namespace string            `json:"namespace"`
		Templates []json.RawMessage `json:"templates"`
	}
	if err := json.Unmarshal(raw, &rf); err != nil {
		return nil, err
	}
	if rf.Namespace == "" {
		return nil, fmt.Errorf("%s: template file without a namespace", rf.FilePath)
	}

	file := &SoyFileNode{FilePath: rf.FilePath, Namespace: rf.Namespace}
	for _, rawTemplate := range rf.Templates {
		template, err := decodeTemplate(rawTemplate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rf.FilePath, err)
		}
		file.Templates = append(file.Templates, template)
	}
	return file, nil
}

func decodeTemplate(raw json.RawMessage) (*TemplateNode, error) {
	var rt struct {
		TemplateName              string            `json:"templateName"`
		PartialTemplateName       string            `json:"partialTemplateName"`
		Private                   bool              `json:"private"`
		ContentKind               string            `json:"contentKind"`
		Params                    []rawParam        `json:"params"`
		ShouldEnsureDataIsDefined bool              `json:"shouldEnsureDataIsDefined"`
		Delegate                  *rawDelegate      `json:"delegate"`
		Body                      []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, err
	}

	template := &TemplateNode{
		TemplateName:              rt.TemplateName,
		PartialTemplateName:       rt.PartialTemplateName,
		ContentKind:               contentKindFromName(rt.ContentKind),
		ShouldEnsureDataIsDefined: rt.ShouldEnsureDataIsDefined,
	}
	if rt.Private {
		template.Visibility = PrivateVisibility
	}
	if rt.Delegate != nil {
		template.Delegate = &DelegateInfo{
			Name:     rt.Delegate.Name,
			Variant:  rt.Delegate.Variant,
			Priority: rt.Delegate.Priority,
		}
	}
	for _, rp := range rt.Params {
		paramType, err := decodeType(rp.Type)
		if err != nil {
			return nil, fmt.Errorf("template %s, param %s: %w", rt.TemplateName, rp.Name, err)
		}
		template.Params = append(template.Params, &TemplateParam{
			Name:     rp.Name,
			Type:     paramType,
			Required: rp.Required,
		})
	}

	body, err := decodeNodes(rt.Body)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", rt.TemplateName, err)
	}
	template.Body = body
	return template, nil
}

type rawParam struct {
	Name     string          `json:"name"`
	Type     json.RawMessage `json:"type"`
	Required bool            `json:"required"`
}

type rawDelegate struct {
	Name     string `json:"name"`
	Variant  string `json:"variant"`
	Priority int    `json:"priority"`
}

var typeKindsByName = map[string]TypeKind{
	"any": AnyType, "?": UnknownType, "null": NullType, "bool": BoolType,
	"int": IntType, "float": FloatType, "string": StringType,
	"list": ListType, "record": RecordType, "map": MapType,
	"object": ObjectType, "enum": EnumType, "html": HTMLType,
	"attributes": AttributesType, "css": CSSType, "uri": URIType,
	"js": JSType,
}

func decodeType(raw json.RawMessage) (SoyType, error) {
	if len(raw) == 0 {
		return Type(AnyType), nil
	}

	// A bare string names a simple kind; an array is a union.
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		kind, ok := typeKindsByName[name]
		if !ok {
			return SoyType{}, fmt.Errorf("unknown type %q", name)
		}
		return Type(kind), nil
	}

	var memberNames []json.RawMessage
	if err := json.Unmarshal(raw, &memberNames); err != nil {
		return SoyType{}, fmt.Errorf("malformed type %s", raw)
	}
	members := make([]SoyType, len(memberNames))
	for i, rawMember := range memberNames {
		member, err := decodeType(rawMember)
		if err != nil {
			return SoyType{}, err
		}
		members[i] = member
	}
	return Union(members...), nil
}

var contentKindsByName = map[string]ContentKind{
	"": ContentKindNone, "html": ContentKindHTML,
	"attributes": ContentKindAttributes, "css": ContentKindCSS,
	"uri": ContentKindURI, "js": ContentKindJS, "text": ContentKindText,
}

func contentKindFromName(name string) ContentKind {
	return contentKindsByName[name]
}

func decodeNodes(raws []json.RawMessage) ([]SoyNode, error) {
	var nodes []SoyNode
	for _, raw := range raws {
		node, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeNode(raw json.RawMessage) (SoyNode, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch head.Kind {
	case "rawText":
		var rn struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		return &RawTextNode{Text: rn.Text}, nil

	case "print":
		var rn struct {
			Expr       json.RawMessage `json:"expr"`
			Directives []struct {
				Name string            `json:"name"`
				Args []json.RawMessage `json:"args"`
			} `json:"directives"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		expr, err := decodeExpr(rn.Expr)
		if err != nil {
			return nil, err
		}
		node := &PrintNode{Expr: expr}
		for _, rd := range rn.Directives {
			args, err := decodeExprs(rd.Args)
			if err != nil {
				return nil, err
			}
			node.Directives = append(node.Directives, &PrintDirectiveNode{Name: rd.Name, Args: args})
		}
		return node, nil

	case "css":
		var rn struct {
			ComponentNameExpr json.RawMessage `json:"componentNameExpr"`
			SelectorText      string          `json:"selectorText"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		node := &CssNode{SelectorText: rn.SelectorText}
		if len(rn.ComponentNameExpr) > 0 {
			expr, err := decodeExpr(rn.ComponentNameExpr)
			if err != nil {
				return nil, err
			}
			node.ComponentNameExpr = expr
		}
		return node, nil

	case "if":
		var rn struct {
			Conds []struct {
				Cond json.RawMessage   `json:"cond"`
				Body []json.RawMessage `json:"body"`
			} `json:"conds"`
			Else []json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		node := &IfNode{}
		for _, rc := range rn.Conds {
			cond, err := decodeExpr(rc.Cond)
			if err != nil {
				return nil, err
			}
			body, err := decodeNodes(rc.Body)
			if err != nil {
				return nil, err
			}
			node.Conds = append(node.Conds, &IfCondNode{Cond: cond, Body: body})
		}
		if rn.Else != nil {
			elseBody, err := decodeNodes(rn.Else)
			if err != nil {
				return nil, err
			}
			node.Else = elseBody
		}
		return node, nil

	case "switch":
		var rn struct {
			Expr  json.RawMessage `json:"expr"`
			Cases []struct {
				Exprs []json.RawMessage `json:"exprs"`
				Body  []json.RawMessage `json:"body"`
			} `json:"cases"`
			Default []json.RawMessage `json:"default"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		expr, err := decodeExpr(rn.Expr)
		if err != nil {
			return nil, err
		}
		node := &SwitchNode{Expr: expr}
		for _, rc := range rn.Cases {
			exprs, err := decodeExprs(rc.Exprs)
			if err != nil {
				return nil, err
			}
			body, err := decodeNodes(rc.Body)
			if err != nil {
				return nil, err
			}
			node.Cases = append(node.Cases, &SwitchCaseNode{Exprs: exprs, Body: body})
		}
		if rn.Default != nil {
			defaultBody, err := decodeNodes(rn.Default)
			if err != nil {
				return nil, err
			}
			node.Default = defaultBody
		}
		return node, nil

	case "for":
		var rn struct {
			ID        int               `json:"id"`
			VarName   string            `json:"varName"`
			Init      json.RawMessage   `json:"init"`
			Limit     json.RawMessage   `json:"limit"`
			Increment json.RawMessage   `json:"increment"`
			Body      []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		node := &ForNode{ID: rn.ID, VarName: rn.VarName}
		if len(rn.Init) > 0 {
			init, err := decodeExpr(rn.Init)
			if err != nil {
				return nil, err
			}
			node.Range.Init = init
		}
		limit, err := decodeExpr(rn.Limit)
		if err != nil {
			return nil, err
		}
		node.Range.Limit = limit
		if len(rn.Increment) > 0 {
			increment, err := decodeExpr(rn.Increment)
			if err != nil {
				return nil, err
			}
			node.Range.Increment = increment
		}
		body, err := decodeNodes(rn.Body)
		if err != nil {
			return nil, err
		}
		node.Body = body
		return node, nil

	case "foreach":
		var rn struct {
			ID          int               `json:"id"`
			VarName     string            `json:"varName"`
			ListExpr    json.RawMessage   `json:"listExpr"`
			Body        []json.RawMessage `json:"body"`
			IfEmptyBody []json.RawMessage `json:"ifEmptyBody"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		listExpr, err := decodeExpr(rn.ListExpr)
		if err != nil {
			return nil, err
		}
		body, err := decodeNodes(rn.Body)
		if err != nil {
			return nil, err
		}
		node := &ForeachNode{ID: rn.ID, VarName: rn.VarName, ListExpr: listExpr, Body: body}
		if rn.IfEmptyBody != nil {
			ifEmpty, err := decodeNodes(rn.IfEmptyBody)
			if err != nil {
				return nil, err
			}
			node.IfEmptyBody = ifEmpty
		}
		return node, nil

	case "letValue":
		var rn struct {
			ID      int             `json:"id"`
			VarName string          `json:"varName"`
			Expr    json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		expr, err := decodeExpr(rn.Expr)
		if err != nil {
			return nil, err
		}
		return &LetValueNode{ID: rn.ID, VarName: rn.VarName, Expr: expr}, nil

	case "letContent":
		var rn struct {
			ID          int               `json:"id"`
			VarName     string            `json:"varName"`
			ContentKind string            `json:"contentKind"`
			Body        []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, err
		}
		body, err := decodeNodes(rn.Body)
		if err != nil {
			return nil, err
		}
		return &LetContentNode{
			ID:          rn.ID,
			VarName:     rn.VarName,
			ContentKind: contentKindFromName(rn.ContentKind),
			Body:        body,
		}, nil

	case "call":
		return decodeCall(raw)

	case "msgFallbackGroup":
		return decodeMsgFallbackGroup(raw)

	default:
		return nil, fmt.Errorf("unknown node kind %q", head.Kind)
	}
}

func decodeCall(raw json.RawMessage) (SoyNode, error) {
	var rn struct {
		ID       int    `json:"id"`
		Callee   string `json:"callee"`
		Delegate *struct {
			Variant            json.RawMessage `json:"variant"`
			AllowsEmptyDefault *bool           `json:"allowsEmptyDefault"`
		} `json:"delegate"`
		DataAll  bool            `json:"dataAll"`
		DataExpr json.RawMessage `json:"dataExpr"`
		Params   []struct {
			Key         string            `json:"key"`
			Value       json.RawMessage   `json:"value"`
			ID          int               `json:"id"`
			ContentKind string            `json:"contentKind"`
			Body        []json.RawMessage `json:"body"`
		} `json:"params"`
		EscapingDirectives []string `json:"escapingDirectives"`
	}
	if err := json.Unmarshal(raw, &rn); err != nil {
		return nil, err
	}

	node := &CallNode{
		ID:                 rn.ID,
		CalleeName:         rn.Callee,
		EscapingDirectives: rn.EscapingDirectives,
	}
	if rn.Delegate != nil {
		info := &DelegateCallInfo{AllowsEmptyDefault: true}
		if rn.Delegate.AllowsEmptyDefault != nil {
			info.AllowsEmptyDefault = *rn.Delegate.AllowsEmptyDefault
		}
		if len(rn.Delegate.Variant) > 0 {
			variant, err := decodeExpr(rn.Delegate.Variant)
			if err != nil {
				return nil, err
			}
			info.Variant = variant
		}
		node.Delegate = info
	}
	if rn.DataAll {
		node.PassesData = true
	} else if len(rn.DataExpr) > 0 {
		dataExpr, err := decodeExpr(rn.DataExpr)
		if err != nil {
			return nil, err
		}
		node.PassesData = true
		node.DataExpr = dataExpr
	}

	for _, rp := range rn.Params {
		if rp.Body != nil {
			body, err := decodeNodes(rp.Body)
			if err != nil {
				return nil, err
			}
			node.Params = append(node.Params, &CallParamContentNode{
				ID:          rp.ID,
				Key:         rp.Key,
				ContentKind: contentKindFromName(rp.ContentKind),
				Body:        body,
			})
			continue
		}
		value, err := decodeExpr(rp.Value)
		if err != nil {
			return nil, err
		}
		node.Params = append(node.Params, &CallParamValueNode{Key: rp.Key, ValueExpr: value})
	}
	return node, nil
}

func decodeMsgFallbackGroup(raw json.RawMessage) (SoyNode, error) {
	var rn struct {
		Msgs []struct {
			Meaning      string                       `json:"meaning"`
			Desc         string                       `json:"desc"`
			Parts        []json.RawMessage            `json:"parts"`
			Placeholders map[string][]json.RawMessage `json:"placeholders"`
			Vars         map[string]json.RawMessage   `json:"vars"`
		} `json:"msgs"`
		EscapingDirectives []string `json:"escapingDirectives"`
	}
	if err := json.Unmarshal(raw, &rn); err != nil {
		return nil, err
	}
	if len(rn.Msgs) == 0 || len(rn.Msgs) > 2 {
		return nil, fmt.Errorf("message group needs one message and at most one fallback, got %d", len(rn.Msgs))
	}

	node := &MsgFallbackGroupNode{EscapingDirectives: rn.EscapingDirectives}
	for _, rm := range rn.Msgs {
		parts, err := decodeMsgParts(rm.Parts)
		if err != nil {
			return nil, err
		}
		msg := &MsgNode{
			Meaning: rm.Meaning,
			Desc:    rm.Desc,
			Parts:   parts,
		}
		if len(rm.Placeholders) > 0 {
			msg.Placeholders = make(map[string][]SoyNode, len(rm.Placeholders))
			for name, rawContent := range rm.Placeholders {
				content, err := decodeNodes(rawContent)
				if err != nil {
					return nil, err
				}
				msg.Placeholders[name] = content
			}
		}
		if len(rm.Vars) > 0 {
			msg.Vars = make(map[string]exprtree.ExprNode, len(rm.Vars))
			for name, rawExpr := range rm.Vars {
				expr, err := decodeExpr(rawExpr)
				if err != nil {
					return nil, err
				}
				msg.Vars[name] = expr
			}
		}
		node.Msgs = append(node.Msgs, msg)
	}
	return node, nil
}

func decodeMsgParts(raws []json.RawMessage) ([]msgs.Part, error) {
	var parts []msgs.Part
	for _, raw := range raws {
		part, err := decodeMsgPart(raw)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func decodeMsgPart(raw json.RawMessage) (msgs.Part, error) {
	// A bare string is raw text; an object is tagged by which field it has.
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return msgs.RawText{Text: text}, nil
	}

	var rp struct {
		Placeholder string `json:"placeholder"`
		Plural      *struct {
			VarName string `json:"varName"`
			Offset  int    `json:"offset"`
			Cases   []struct {
				Spec  string            `json:"spec"`
				Parts []json.RawMessage `json:"parts"`
			} `json:"cases"`
		} `json:"plural"`
		Select *struct {
			VarName string `json:"varName"`
			Cases   []struct {
				Spec  string            `json:"spec"`
				Parts []json.RawMessage `json:"parts"`
			} `json:"cases"`
		} `json:"select"`
	}
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, err
	}

	switch {
	case rp.Placeholder != "":
		return msgs.Placeholder{Name: rp.Placeholder}, nil

	case rp.Plural != nil:
		plural := msgs.Plural{VarName: rp.Plural.VarName, Offset: rp.Plural.Offset}
		for _, rc := range rp.Plural.Cases {
			caseParts, err := decodeMsgParts(rc.Parts)
			if err != nil {
				return nil, err
			}
			plural.Cases = append(plural.Cases, msgs.PluralCase{Spec: rc.Spec, Parts: caseParts})
		}
		return plural, nil

	case rp.Select != nil:
		sel := msgs.Select{VarName: rp.Select.VarName}
		for _, rc := range rp.Select.Cases {
			caseParts, err := decodeMsgParts(rc.Parts)
			if err != nil {
				return nil, err
			}
			sel.Cases = append(sel.Cases, msgs.SelectCase{Spec: rc.Spec, Parts: caseParts})
		}
		return sel, nil

	default:
		return nil, fmt.Errorf("unrecognized message part %s", raw)
	}
}

func decodeExprs(raws []json.RawMessage) ([]exprtree.ExprNode, error) {
	var exprs []exprtree.ExprNode
	for _, raw := range raws {
		expr, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

var operatorsByName = map[string]exprtree.Operator{
	"negative": exprtree.OpNegative, "not": exprtree.OpNot,
	"*": exprtree.OpTimes, "/": exprtree.OpDivideBy, "%": exprtree.OpMod,
	"+": exprtree.OpPlus, "-": exprtree.OpMinus,
	"<": exprtree.OpLessThan, ">": exprtree.OpGreaterThan,
	"<=": exprtree.OpLessThanOrEqual, ">=": exprtree.OpGreaterThanOrEqual,
	"==": exprtree.OpEqual, "!=": exprtree.OpNotEqual,
	"and": exprtree.OpAnd, "or": exprtree.OpOr,
	"?:": exprtree.OpNullCoalescing, "?": exprtree.OpConditional,
}

func decodeExpr(raw json.RawMessage) (exprtree.ExprNode, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing expression")
	}

	// Scalars decode directly to literal nodes.
	var scalar interface{}
	if err := json.Unmarshal(raw, &scalar); err != nil {
		return nil, err
	}
	switch scalar := scalar.(type) {
	case nil:
		return &exprtree.NullNode{}, nil
	case bool:
		return &exprtree.BooleanNode{Value: scalar}, nil
	case string:
		return &exprtree.StringNode{Value: scalar}, nil
	case float64:
		var asInt int64
		if err := json.Unmarshal(raw, &asInt); err == nil {
			return &exprtree.IntegerNode{Value: asInt}, nil
		}
		return &exprtree.FloatNode{Value: scalar}, nil
	}

	var re struct {
		Kind             string            `json:"kind"`
		Name             string            `json:"name"`
		Injected         bool              `json:"injected"`
		NullSafeInjected bool              `json:"nullSafeInjected"`
		NullSafe         bool              `json:"nullSafe"`
		Base             json.RawMessage   `json:"base"`
		Field            string            `json:"field"`
		Key              json.RawMessage   `json:"key"`
		Items            []json.RawMessage `json:"items"`
		Entries          []struct {
			Key   json.RawMessage `json:"key"`
			Value json.RawMessage `json:"value"`
		} `json:"entries"`
		Args     []json.RawMessage `json:"args"`
		Op       string            `json:"op"`
		Operands []json.RawMessage `json:"operands"`
	}
	if err := json.Unmarshal(raw, &re); err != nil {
		return nil, err
	}

	switch re.Kind {
	case "var":
		return &exprtree.VarRefNode{
			Name:             re.Name,
			Injected:         re.Injected || re.NullSafeInjected,
			NullSafeInjected: re.NullSafeInjected,
		}, nil

	case "field":
		base, err := decodeExpr(re.Base)
		if err != nil {
			return nil, err
		}
		return &exprtree.FieldAccessNode{BaseExpr: base, FieldName: re.Field, NullSafe: re.NullSafe}, nil

	case "item":
		base, err := decodeExpr(re.Base)
		if err != nil {
			return nil, err
		}
		key, err := decodeExpr(re.Key)
		if err != nil {
			return nil, err
		}
		return &exprtree.ItemAccessNode{BaseExpr: base, KeyExpr: key, NullSafe: re.NullSafe}, nil

	case "global":
		return &exprtree.GlobalNode{Name: re.Name}, nil

	case "list":
		items, err := decodeExprs(re.Items)
		if err != nil {
			return nil, err
		}
		return &exprtree.ListLiteralNode{Items: items}, nil

	case "map":
		node := &exprtree.MapLiteralNode{}
		for _, entry := range re.Entries {
			key, err := decodeExpr(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := decodeExpr(entry.Value)
			if err != nil {
				return nil, err
			}
			node.Entries = append(node.Entries, exprtree.MapEntry{Key: key, Value: value})
		}
		return node, nil

	case "function":
		args, err := decodeExprs(re.Args)
		if err != nil {
			return nil, err
		}
		return &exprtree.FunctionNode{Name: re.Name, Args: args}, nil

	case "operator":
		op, ok := operatorsByName[re.Op]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", re.Op)
		}
		operands, err := decodeExprs(re.Operands)
		if err != nil {
			return nil, err
		}
		if len(operands) != op.NumOperands() {
			return nil, fmt.Errorf("operator %q needs %d operands, got %d", re.Op, op.NumOperands(), len(operands))
		}
		return &exprtree.OperatorNode{Op: op, Children: operands}, nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q", re.Kind)
	}
}
