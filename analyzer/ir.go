package analyzer

import (
	"fmt"
	"strings"
)

// RefKind identifies the kind of type a TypeRef points at. The set is
// closed: backends switch exhaustively over kinds.
type RefKind int

const (
	// RefPrimitive is a scalar type: string, integer, number, boolean, null.
	RefPrimitive RefKind = iota
	// RefClass is a reference to a ClassDef by name.
	RefClass
	// RefArray is a homogeneous array of the single Args element.
	RefArray
	// RefTuple is a fixed-arity positional tuple; Args holds the element
	// types in order.
	RefTuple
	// RefDict is a string-keyed map; Args holds the value type.
	RefDict
	// RefUnion is an inline union; Args holds the variants in order.
	RefUnion
	// RefOptional wraps the single Args element of a non-required field.
	RefOptional
	// RefEnum is a reference to an EnumDef by name.
	RefEnum
	// RefConst is a literal pinned to ConstValue.
	RefConst
	// RefAny is an untyped value.
	RefAny
	// RefAlias is a reference to a TypeAlias by name.
	RefAlias
)

// String returns the kind name for diagnostics.
func (k RefKind) String() string {
	switch k {
	case RefPrimitive:
		return "primitive"
	case RefClass:
		return "class"
	case RefArray:
		return "array"
	case RefTuple:
		return "tuple"
	case RefDict:
		return "dict"
	case RefUnion:
		return "union"
	case RefOptional:
		return "optional"
	case RefEnum:
		return "enum"
	case RefConst:
		return "const"
	case RefAny:
		return "any"
	case RefAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// TypeRef is a resolved, kind-tagged reference to a type.
type TypeRef struct {
	Kind RefKind
	// Name is the primitive type name or the referenced Class/Enum/Alias
	// name. Empty for kinds that carry no name.
	Name string
	// Args holds element types: the single element of Array/Dict/Optional,
	// the positional elements of Tuple, the variants of Union.
	Args []TypeRef
	// ConstValue is the pinned literal of a Const ref.
	ConstValue any
	// Nullable marks a type whose schema admitted null alongside it.
	Nullable bool
}

// String renders the ref compactly for diagnostics and tests, e.g.
// "Optional[Array[Circle]]".
func (t TypeRef) String() string {
	switch t.Kind {
	case RefPrimitive, RefClass, RefEnum, RefAlias:
		return t.Name
	case RefAny:
		return "any"
	case RefConst:
		return fmt.Sprintf("const(%v)", t.ConstValue)
	case RefOptional:
		return "Optional[" + t.Args[0].String() + "]"
	case RefArray:
		return "Array[" + t.Args[0].String() + "]"
	case RefDict:
		return "Dict[" + t.Args[0].String() + "]"
	case RefTuple, RefUnion:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		label := "Tuple"
		if t.Kind == RefUnion {
			label = "Union"
		}
		return label + "[" + strings.Join(parts, ", ") + "]"
	default:
		return "unknown"
	}
}

// FieldDef is one field of a class.
type FieldDef struct {
	// Name is the resolved target-language field name.
	Name string
	// OriginalName is the schema property name, used for wire tags.
	OriginalName string
	Type         TypeRef
	Required     bool
	Default      any
	HasDefault   bool
	// IsConst marks a field pinned to a literal value.
	IsConst bool
	// IsOverride marks a field re-declared though inherited from a base.
	IsOverride bool
	// SchemaPath locates the property in the source document.
	SchemaPath string
}

// SubclassRef links a base class to one direct subclass.
type SubclassRef struct {
	Name string
	// DiscriminatorValue is the subclass's literal for the base's
	// discriminator field, nil when the base has none.
	DiscriminatorValue any
}

// ClassDef is one object type in the IR.
type ClassDef struct {
	// Name is unique within the IR.
	Name string
	// OriginalName is the schema definition name, or the synthesized
	// {Parent}{Field} origin for promoted inline objects.
	OriginalName string
	Fields       []*FieldDef
	// BaseClass names the single base, empty for root classes.
	BaseClass string
	// Subclasses lists direct subclasses in encounter order.
	Subclasses []SubclassRef
	// Discriminator is the field name whose const value distinguishes
	// subclasses, empty when the class heads no polymorphic hierarchy.
	Discriminator string
	Abstract      bool
	// SchemaPath locates the defining schema node.
	SchemaPath string
}

// Field returns the field with the given original schema name, or nil.
func (c *ClassDef) Field(originalName string) *FieldDef {
	for _, f := range c.Fields {
		if f.OriginalName == originalName {
			return f
		}
	}
	return nil
}

// EnumMember is one member of an enum, in declaration order.
type EnumMember struct {
	Name  string
	Value any
}

// EnumDef is one enumeration in the IR.
type EnumDef struct {
	Name         string
	OriginalName string
	// BaseType is the JSON type of the values: "string" or "integer".
	BaseType string
	Members  []EnumMember
}

// TypeAlias names a union (or a single renamed type) in the IR.
type TypeAlias struct {
	Name         string
	OriginalName string
	// Members holds the alias target(s) in declaration order; more than
	// one member makes the alias a discriminated union.
	Members []TypeRef
}

// ImportDef records types pulled in from another generated module via
// external references.
type ImportDef struct {
	// Module is the import path of the other generated module.
	Module string
	// Names lists the imported type names in first-use order.
	Names []string
}

// IR is the fully resolved output of analysis. Slice order is insertion
// order and drives emission order downstream.
type IR struct {
	Classes []*ClassDef
	Enums   []*EnumDef
	Aliases []*TypeAlias
	Imports []*ImportDef
}

// Class returns the named class, or nil.
func (ir *IR) Class(name string) *ClassDef {
	for _, c := range ir.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Enum returns the named enum, or nil.
func (ir *IR) Enum(name string) *EnumDef {
	for _, e := range ir.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Alias returns the named type alias, or nil.
func (ir *IR) Alias(name string) *TypeAlias {
	for _, a := range ir.Aliases {
		if a.Name == name {
			return a
		}
	}
	return nil
}
