package syntax

// ItemKind classifies a top-level or module-level item.
type ItemKind int

const (
	ItemOther ItemKind = iota
	ItemModule
	ItemFunction
	ItemStruct
)

func (k ItemKind) String() string {
	switch k {
	case ItemModule:
		return "module"
	case ItemFunction:
		return "function"
	case ItemStruct:
		return "struct"
	default:
		return "other"
	}
}

// File is one parsed source file.
type File struct {
	Path  string
	Items []*Item
	Doc   string // inner doc comments (//!)
	Lines int
}

// Item is a module, function, struct, or any other item.
// Only the fields relevant to Kind are populated.
type Item struct {
	Kind       ItemKind
	Name       string
	Visibility string // "pub", "pub(crate)", ... or "" for private
	Attributes []Attribute
	Doc        string

	// Module: nested items. Nil for a bodiless declaration (mod foo;).
	Items []*Item

	// Struct: named fields. Tuple and unit structs have none.
	Fields []Field

	// Function: parameters in declaration order and the declared return type.
	Params     []Param
	ReturnType *Type

	Line    int // 1-based start line
	EndLine int
}

// Attribute is an outer attribute such as #[account(mut)].
type Attribute struct {
	Path string // path text, e.g. "account" or "anchor_lang::program"

	// Args is the raw source text between the argument delimiters,
	// verbatim. Empty when the attribute has no argument list.
	Args    string
	HasArgs bool
}

// Is reports whether the attribute path is exactly the single identifier name.
func (a Attribute) Is(name string) bool {
	return a.Path == name
}

// Field is a named struct field.
type Field struct {
	Name       string
	Visibility string
	Type       *Type
	Attributes []Attribute
	Doc        string
}

// Param is a function parameter.
type Param struct {
	Receiver bool   // self, &self, &mut self, ...
	Pattern  string // pattern source text
	Ident    string // identifier when the pattern is a plain (optionally mut) identifier
	Type     *Type
}

// TypeKind classifies a type node.
type TypeKind int

const (
	TypeOther TypeKind = iota
	TypePath
	TypeReference
)

// Type is a type as written in source.
type Type struct {
	Kind TypeKind

	// Tokens is the original token sequence; lifetimes are single tokens.
	Tokens []string

	// Reference: the referent and mutability.
	Elem    *Type
	Mutable bool

	// Path: the segments in order.
	Segments []Segment
}

// Segment is one path segment with its generic arguments.
type Segment struct {
	Name string
	Args []GenericArg
}

// GenericArgKind distinguishes the kinds of generic arguments.
type GenericArgKind int

const (
	ArgType GenericArgKind = iota
	ArgLifetime
	ArgOther // const expressions, associated type bindings
)

// GenericArg is one angle-bracketed argument of a path segment.
type GenericArg struct {
	Kind     GenericArgKind
	Type     *Type  // set for ArgType
	Lifetime string // set for ArgLifetime, e.g. "'info"
	Text     string // source text, set for ArgOther
}
