package schema

// NodeKind identifies the concrete type of a schema tree node.
// The node set is closed: consumers switch exhaustively over kinds so a new
// schema construct is a compile-time addition rather than silently unhandled.
type NodeKind int

const (
	// KindPrimitive is a primitive type (string, integer, number, boolean, null, object).
	KindPrimitive NodeKind = iota
	// KindConst is a const literal value.
	KindConst
	// KindEnum is an enumeration of literal values.
	KindEnum
	// KindRef is an unresolved $ref.
	KindRef
	// KindArray is an array or fixed-length tuple.
	KindArray
	// KindObject is an object with named properties.
	KindObject
	// KindUnion is a oneOf/anyOf union or a type-array union.
	KindUnion
	// KindAllOf is inheritance via allOf composition.
	KindAllOf
)

// String returns the kind name for diagnostics.
func (k NodeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindConst:
		return "const"
	case KindEnum:
		return "enum"
	case KindRef:
		return "ref"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUnion:
		return "union"
	case KindAllOf:
		return "allOf"
	default:
		return "unknown"
	}
}

// Node is a node in the parsed schema tree.
type Node interface {
	Kind() NodeKind
	// SourcePath returns the JSON pointer style location of the node in the
	// source document, for error messages.
	SourcePath() string
	// DefaultValue returns the schema "default" for this node and whether
	// one was present.
	DefaultValue() (any, bool)
}

// nodeBase carries source location and metadata common to all nodes.
type nodeBase struct {
	Path       string
	Default    any
	HasDefault bool
	// Extensions holds x-* extension keywords verbatim.
	Extensions map[string]any
}

func (b nodeBase) SourcePath() string        { return b.Path }
func (b nodeBase) DefaultValue() (any, bool) { return b.Default, b.HasDefault }
func (b nodeBase) Extension(key string) any  { return b.Extensions[key] }

func (b nodeBase) HasExtension(key string) bool {
	_, ok := b.Extensions[key]
	return ok
}

// Primitive represents a primitive type: string, integer, number, boolean,
// null, or a bare object with no declared properties.
type Primitive struct {
	nodeBase
	TypeName string

	// String constraints
	MinLength *int
	MaxLength *int
	Pattern   string

	// Numeric constraints
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	// EnumValues carries enum values attached to a typed schema
	// (type: "string" plus enum: [...] without x-enum-members).
	EnumValues []any
}

// Kind implements Node.
func (*Primitive) Kind() NodeKind { return KindPrimitive }

// Const represents a const literal.
type Const struct {
	nodeBase
	Value any
	// InferredType is the JSON type of Value: "string", "integer", etc.
	InferredType string
}

// Kind implements Node.
func (*Const) Kind() NodeKind { return KindConst }

// Enum represents an enumeration.
type Enum struct {
	nodeBase
	// Values in schema order. Order drives member emission order.
	Values []any
	// InferredType is the JSON type of the first value.
	InferredType string
	// MemberNames maps the string form of a value to a custom member name,
	// supplied via the x-enum-members extension.
	MemberNames map[string]string
}

// Kind implements Node.
func (*Enum) Kind() NodeKind { return KindEnum }

// Ref represents an unresolved $ref.
type Ref struct {
	nodeBase
	// RefPath is the raw reference, e.g. "#/$defs/Shape" or
	// "common.schema.json#/$defs/Vector".
	RefPath string
	// NameOverride is an optional class name override via x-ref-class-name.
	NameOverride string
}

// Kind implements Node.
func (*Ref) Kind() NodeKind { return KindRef }

// IsExternal reports whether the reference targets another document.
func (r *Ref) IsExternal() bool {
	return len(r.RefPath) > 0 && r.RefPath[0] != '#'
}

// Array represents an array type. Exactly one of Item or TupleItems is set
// when items were declared; both are nil for an untyped array.
type Array struct {
	nodeBase
	// Item is the single item schema for homogeneous arrays.
	Item Node
	// TupleItems is the positional item list for tuple-style arrays.
	TupleItems []Node
	MinItems   *int
	MaxItems   *int
}

// Kind implements Node.
func (*Array) Kind() NodeKind { return KindArray }

// IsTuple reports whether the array declared positional items.
func (a *Array) IsTuple() bool { return len(a.TupleItems) > 0 }

// Property represents one property of an object.
type Property struct {
	Path       string
	Name       string
	Type       Node
	Required   bool
	Default    any
	HasDefault bool
}

// Object represents an object type with ordered properties.
type Object struct {
	nodeBase
	Properties []*Property
	// Required lists the property names in the schema's required array.
	Required []string
	// AdditionalProperties is the value schema when the object declares a
	// typed additionalProperties, making it a string-keyed map type.
	AdditionalProperties Node
}

// Kind implements Node.
func (*Object) Kind() NodeKind { return KindObject }

// IsRequired reports whether the named property is in the required set.
func (o *Object) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property returns the named property, or nil.
func (o *Object) Property(name string) *Property {
	for _, p := range o.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// UnionKind distinguishes how a union was declared.
type UnionKind string

const (
	// UnionOneOf is an explicit oneOf union.
	UnionOneOf UnionKind = "oneOf"
	// UnionAnyOf is an explicit anyOf union.
	UnionAnyOf UnionKind = "anyOf"
	// UnionTypeArray is an implicit union from type: ["T", "null"].
	UnionTypeArray UnionKind = "typeArray"
)

// Union represents a oneOf/anyOf union or a type-array union.
type Union struct {
	nodeBase
	Variants  []Node
	UnionKind UnionKind
}

// Kind implements Node.
func (*Union) Kind() NodeKind { return KindUnion }

// AllOf represents inheritance via allOf composition: a base $ref plus an
// object extension. More than one base ref is captured so the analyzer can
// reject multi-base inheritance with a precise error.
type AllOf struct {
	nodeBase
	BaseRefs  []*Ref
	Extension *Object
}

// Kind implements Node.
func (*AllOf) Kind() NodeKind { return KindAllOf }

// BaseRef returns the single base reference, or nil when absent.
// Multi-base composition is the analyzer's error to report.
func (a *AllOf) BaseRef() *Ref {
	if len(a.BaseRefs) == 1 {
		return a.BaseRefs[0]
	}
	return nil
}

// Definition is a named entry from $defs / definitions.
type Definition struct {
	// Name is the original key in the schema document.
	Name string
	// Body is the parsed definition schema.
	Body Node
	// Path is the source location of the definition.
	Path string
}

// Tree is the root of a parsed schema document.
type Tree struct {
	// RootName names the class generated for top-level properties.
	RootName string
	// Root is the top-level object node when the document declares
	// properties directly, nil otherwise.
	Root Node
	// Definitions holds $defs / definitions entries in document order.
	Definitions []*Definition
}

// Definition returns the named definition, or nil.
func (t *Tree) Definition(name string) *Definition {
	for _, d := range t.Definitions {
		if d.Name == name {
			return d
		}
	}
	return nil
}
