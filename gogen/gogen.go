package gogen

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/erraggy/jsctools/analyzer"
	"github.com/erraggy/jsctools/internal/naming"
)

// GoBackend renders IR as Go source.
type GoBackend struct {
	// PackageName is the package clause of the generated file.
	PackageName string

	// importQual maps imported type names to their package qualifiers,
	// rebuilt per Generate call.
	importQual map[string]string
}

var _ Backend = (*GoBackend)(nil)

// NewBackend creates a Go backend emitting the given package.
func NewBackend(packageName string) *GoBackend {
	return &GoBackend{PackageName: packageName}
}

// Generate renders the IR as a gofmt-clean Go source file. Emission order
// follows IR insertion order: enums, type aliases, then classes.
func (g *GoBackend) Generate(ir *analyzer.IR) ([]byte, error) {
	g.importQual = make(map[string]string)
	for _, imp := range ir.Imports {
		qual := path.Base(imp.Module)
		for _, name := range imp.Names {
			g.importQual[name] = qual
		}
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by jsctools; hand-written additions are preserved\n")
	buf.WriteString("// when regenerating in merge mode.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", g.PackageName)

	if len(ir.Imports) > 0 {
		buf.WriteString("import (\n")
		for _, imp := range ir.Imports {
			fmt.Fprintf(&buf, "\t%q\n", imp.Module)
		}
		buf.WriteString(")\n\n")
	}

	for _, e := range ir.Enums {
		g.writeEnum(&buf, e)
	}
	for _, a := range ir.Aliases {
		g.writeAlias(&buf, a)
	}
	for _, c := range ir.Classes {
		g.writeClass(&buf, c)
	}

	// imports.Process both formats and fixes the import block, so the
	// emitted text never needs a manual goimports pass.
	formatted, err := imports.Process(g.PackageName+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return formatted, nil
}

func (g *GoBackend) writeEnum(buf *bytes.Buffer, e *analyzer.EnumDef) {
	fmt.Fprintf(buf, "// %s enumerates the allowed values of the %s schema type.\n", e.Name, e.OriginalName)
	fmt.Fprintf(buf, "type %s %s\n\n", e.Name, goEnumBase(e.BaseType))

	if len(e.Members) == 0 {
		return
	}
	buf.WriteString("const (\n")
	for _, m := range e.Members {
		fmt.Fprintf(buf, "\t%s%s %s = %s\n", e.Name, enumMemberName(m), e.Name, goLiteral(m.Value))
	}
	buf.WriteString(")\n\n")
}

func (g *GoBackend) writeAlias(buf *bytes.Buffer, a *analyzer.TypeAlias) {
	if len(a.Members) == 1 {
		fmt.Fprintf(buf, "// %s is an alias for %s.\n", a.Name, a.Members[0])
		fmt.Fprintf(buf, "type %s = %s\n\n", a.Name, g.TranslateType(a.Members[0]))
		return
	}
	variants := make([]string, len(a.Members))
	for i, m := range a.Members {
		variants[i] = m.String()
	}
	fmt.Fprintf(buf, "// %s holds one of: %s.\n", a.Name, strings.Join(variants, ", "))
	fmt.Fprintf(buf, "type %s any\n\n", a.Name)
}

func (g *GoBackend) writeClass(buf *bytes.Buffer, c *analyzer.ClassDef) {
	switch {
	case c.Discriminator != "":
		fmt.Fprintf(buf, "// %s is the polymorphic base distinguished by the %q field.\n", c.Name, c.Discriminator)
	case c.BaseClass != "":
		fmt.Fprintf(buf, "// %s extends %s.\n", c.Name, c.BaseClass)
	default:
		fmt.Fprintf(buf, "// %s corresponds to the %s schema definition.\n", c.Name, c.OriginalName)
	}
	fmt.Fprintf(buf, "type %s struct {\n", c.Name)
	if c.BaseClass != "" {
		fmt.Fprintf(buf, "\t%s\n", g.qualified(c.BaseClass))
	}
	for _, f := range c.Fields {
		g.writeField(buf, f)
	}
	buf.WriteString("}\n\n")

	if c.Discriminator != "" {
		g.writeDiscriminator(buf, c)
	}
	g.writeConstructor(buf, c)
}

func (g *GoBackend) writeField(buf *bytes.Buffer, f *analyzer.FieldDef) {
	goType := g.TranslateType(f.Type)
	tag := f.OriginalName
	if f.Type.Kind == analyzer.RefOptional {
		tag += ",omitempty"
	}

	if f.IsConst {
		fmt.Fprintf(buf, "\t// %s is always %s.\n", f.Name, goLiteral(f.Type.ConstValue))
	}
	fmt.Fprintf(buf, "\t%s %s `json:%q`\n", f.Name, goType, tag)
}

// writeDiscriminator emits the per-subclass discriminator constants and the
// dispatch function decoding JSON into the concrete subclass.
func (g *GoBackend) writeDiscriminator(buf *bytes.Buffer, c *analyzer.ClassDef) {
	prefix := c.Name + naming.ToPascalCase(c.Discriminator)

	fmt.Fprintf(buf, "// %s discriminator values.\n", c.Name)
	buf.WriteString("const (\n")
	for _, s := range c.Subclasses {
		fmt.Fprintf(buf, "\t%s%s = %s\n", prefix, naming.ToEnumMember(fmt.Sprintf("%v", s.DiscriminatorValue)), goLiteral(s.DiscriminatorValue))
	}
	buf.WriteString(")\n\n")

	probeType := "string"
	if len(c.Subclasses) > 0 {
		if _, isInt := c.Subclasses[0].DiscriminatorValue.(int); isInt {
			probeType = "int"
		}
	}

	fmt.Fprintf(buf, "// Decode%s decodes JSON into the concrete %s subclass named by the %q field.\n", c.Name, c.Name, c.Discriminator)
	fmt.Fprintf(buf, "func Decode%s(data []byte) (any, error) {\n", c.Name)
	buf.WriteString("\tvar head struct {\n")
	fmt.Fprintf(buf, "\t\tValue %s `json:%q`\n", probeType, c.Discriminator)
	buf.WriteString("\t}\n")
	buf.WriteString("\tif err := json.Unmarshal(data, &head); err != nil {\n")
	buf.WriteString("\t\treturn nil, err\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\tswitch head.Value {\n")
	for _, s := range c.Subclasses {
		fmt.Fprintf(buf, "\tcase %s%s:\n", prefix, naming.ToEnumMember(fmt.Sprintf("%v", s.DiscriminatorValue)))
		fmt.Fprintf(buf, "\t\tvar v %s\n", s.Name)
		buf.WriteString("\t\tif err := json.Unmarshal(data, &v); err != nil {\n")
		buf.WriteString("\t\t\treturn nil, err\n")
		buf.WriteString("\t\t}\n")
		buf.WriteString("\t\treturn &v, nil\n")
	}
	buf.WriteString("\tdefault:\n")
	fmt.Fprintf(buf, "\t\treturn nil, fmt.Errorf(\"unknown %s value %%v for %s\", head.Value)\n", c.Discriminator, c.Name)
	buf.WriteString("\t}\n")
	buf.WriteString("}\n\n")
}

// writeConstructor emits a constructor pinning const fields and applying
// declared defaults, when the class has either.
func (g *GoBackend) writeConstructor(buf *bytes.Buffer, c *analyzer.ClassDef) {
	var pinned []*analyzer.FieldDef
	for _, f := range c.Fields {
		if f.IsConst || f.HasDefault {
			pinned = append(pinned, f)
		}
	}
	if len(pinned) == 0 {
		return
	}

	fmt.Fprintf(buf, "// New%s returns a %s with constant and defaulted fields set.\n", c.Name, c.Name)
	fmt.Fprintf(buf, "func New%s() *%s {\n", c.Name, c.Name)
	fmt.Fprintf(buf, "\treturn &%s{\n", c.Name)
	for _, f := range pinned {
		if f.IsConst {
			fmt.Fprintf(buf, "\t\t%s: %s,\n", f.Name, goLiteral(f.Type.ConstValue))
			continue
		}
		literal := g.FormatDefault(f.Default, f.Type)
		if literal == "" {
			continue
		}
		if f.Type.Kind == analyzer.RefOptional {
			// Optionals are pointers; defaults for them stay zero and are
			// documented on the field instead.
			continue
		}
		fmt.Fprintf(buf, "\t\t%s: %s,\n", f.Name, literal)
	}
	buf.WriteString("\t}\n")
	buf.WriteString("}\n\n")
}

// TranslateType renders a type reference as Go type text.
func (g *GoBackend) TranslateType(t analyzer.TypeRef) string {
	switch t.Kind {
	case analyzer.RefPrimitive:
		s := goPrimitive(t.Name)
		if t.Nullable && pointerable(s) {
			return "*" + s
		}
		return s
	case analyzer.RefClass:
		s := g.qualified(t.Name)
		if t.Nullable {
			return "*" + s
		}
		return s
	case analyzer.RefEnum, analyzer.RefAlias:
		if t.Nullable {
			return "*" + t.Name
		}
		return t.Name
	case analyzer.RefArray:
		return "[]" + g.TranslateType(t.Args[0])
	case analyzer.RefDict:
		return "map[string]" + g.TranslateType(t.Args[0])
	case analyzer.RefTuple:
		return g.tupleType(t)
	case analyzer.RefOptional:
		inner := g.TranslateType(t.Args[0])
		if pointerable(inner) {
			return "*" + inner
		}
		return inner
	case analyzer.RefUnion, analyzer.RefAny:
		return "any"
	case analyzer.RefConst:
		return goPrimitive(t.Name)
	default:
		return "any"
	}
}

// tupleType renders a fixed-arity tuple: a fixed-size Go array when the
// elements share one type, a bare slice of any otherwise.
func (g *GoBackend) tupleType(t analyzer.TypeRef) string {
	if len(t.Args) == 0 {
		return "[]any"
	}
	elem := g.TranslateType(t.Args[0])
	for _, a := range t.Args[1:] {
		if g.TranslateType(a) != elem {
			return "[]any"
		}
	}
	return fmt.Sprintf("[%d]%s", len(t.Args), elem)
}

// FormatDefault renders a default value as a Go literal. Unsupported shapes
// render as the empty string, meaning "no literal".
func (g *GoBackend) FormatDefault(value any, t analyzer.TypeRef) string {
	if t.Kind == analyzer.RefEnum {
		return fmt.Sprintf("%s(%s)", t.Name, goLiteral(value))
	}
	switch value.(type) {
	case string, bool, int, int64, uint64, float64, float32:
		return goLiteral(value)
	default:
		return ""
	}
}

func (g *GoBackend) qualified(name string) string {
	if qual, ok := g.importQual[name]; ok {
		return qual + "." + name
	}
	return name
}

// enumMemberName keeps upstream-supplied member names verbatim and derives
// an identifier from the literal otherwise.
func enumMemberName(m analyzer.EnumMember) string {
	if m.Name != fmt.Sprintf("%v", m.Value) {
		return m.Name
	}
	return naming.ToEnumMember(m.Name)
}

func goEnumBase(baseType string) string {
	if baseType == "integer" {
		return "int"
	}
	return "string"
}

func goPrimitive(name string) string {
	switch name {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	default:
		return "any"
	}
}

// pointerable reports whether an optional of this Go type needs pointer
// indirection; slices, maps, and any already have a nil absent state.
func pointerable(goType string) bool {
	if goType == "any" {
		return false
	}
	return !strings.HasPrefix(goType, "[]") && !strings.HasPrefix(goType, "map[") && !strings.HasPrefix(goType, "*")
}

// goLiteral renders a decoded schema value as a Go literal.
func goLiteral(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", t)
	}
}
