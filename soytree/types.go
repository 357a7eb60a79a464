package soytree

// TypeKind is the kind of a resolved template type.
type TypeKind int

const (
	AnyType TypeKind = iota
	UnknownType
	NullType
	BoolType
	IntType
	FloatType
	StringType
	ListType
	RecordType
	MapType
	ObjectType
	EnumType
	HTMLType
	AttributesType
	CSSType
	URIType
	JSType
	UnionType
)

var typeKindNames = map[TypeKind]string{
	AnyType:        "any",
	UnknownType:    "?",
	NullType:       "null",
	BoolType:       "bool",
	IntType:        "int",
	FloatType:      "float",
	StringType:     "string",
	ListType:       "list",
	RecordType:     "record",
	MapType:        "map",
	ObjectType:     "object",
	EnumType:       "enum",
	HTMLType:       "html",
	AttributesType: "attributes",
	CSSType:        "css",
	URIType:        "uri",
	JSType:         "js",
	UnionType:      "union",
}

func (k TypeKind) String() string { return typeKindNames[k] }

// SoyType is a resolved type annotation attached to a template parameter.
// Kind UnionType means Members holds the union's member types; all other
// kinds stand alone.
type SoyType struct {
	Kind    TypeKind
	Members []SoyType
}

// Union builds a union type from its member types.
func Union(members ...SoyType) SoyType {
	return SoyType{Kind: UnionType, Members: members}
}

// Type builds a non-union type of the given kind.
func Type(kind TypeKind) SoyType {
	return SoyType{Kind: kind}
}

// IsNullable reports whether the type admits null: the null type itself, a
// union containing null, or the any/unknown types.
func (t SoyType) IsNullable() bool {
	switch t.Kind {
	case NullType, AnyType, UnknownType:
		return true
	case UnionType:
		for _, m := range t.Members {
			if m.IsNullable() {
				return true
			}
		}
	}
	return false
}

// ContentKind is the sanitized-content kind of a strict template or block.
type ContentKind int

const (
	// ContentKindNone marks a non-strict template with untyped text output.
	ContentKindNone ContentKind = iota
	ContentKindHTML
	ContentKindAttributes
	ContentKindCSS
	ContentKindURI
	ContentKindJS
	ContentKindText
)

var contentKindNames = map[ContentKind]string{
	ContentKindNone:       "",
	ContentKindHTML:       "html",
	ContentKindAttributes: "attributes",
	ContentKindCSS:        "css",
	ContentKindURI:        "uri",
	ContentKindJS:         "js",
	ContentKindText:       "text",
}

func (k ContentKind) String() string { return contentKindNames[k] }

// Visibility of a template within its file.
type Visibility int

const (
	PublicVisibility Visibility = iota
	PrivateVisibility
)
