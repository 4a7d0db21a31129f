package merge

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/erraggy/jsctools/schemaerrors"
)

// Marker comments recognized by the merge engine.
const (
	// CustomBlockStart opens an opaque preserved region. Everything through
	// the matching end marker is carried across regenerations verbatim.
	CustomBlockStart = "// CUSTOM CODE START"
	// CustomBlockEnd closes a preserved region.
	CustomBlockEnd = "// CUSTOM CODE END"
	// KeepMarker on a struct field line excludes it from reconciliation:
	// the field survives every merge strategy.
	KeepMarker = "jsctools:keep"
)

// fileModel is the structural index of one Go source file used for
// alignment: declarations keyed by name, with their exact source text.
type fileModel struct {
	fset *token.FileSet
	file *ast.File
	src  []byte

	// imports maps import path to the full spec text (alias included).
	imports map[string]string

	types map[string]*typeDecl
	// funcs is keyed "Name" for functions and "Recv.Name" for methods.
	funcs map[string]*declText
	// valueNames holds every top-level const and var name.
	valueNames map[string]bool

	// regions are CUSTOM CODE blocks, in file order.
	regions []region
}

type typeDecl struct {
	name string
	decl *ast.GenDecl
	// structType is nil for non-struct types.
	structType *ast.StructType
	fields     map[string]*fieldDecl
	fieldOrder []string
	text       string
	doc        string
}

type fieldDecl struct {
	name string
	text string
	keep bool
}

type declText struct {
	text string
	pos  int
	end  int
}

// region is one CUSTOM CODE block: byte offsets spanning the start marker
// line through the end marker line.
type region struct {
	start int
	end   int
	text  string
	// owner is the enclosing struct type name, or "" at file scope.
	owner string
}

// parseModel parses src into a fileModel. A file that does not parse, or
// that declares the same type twice (ambiguous alignment), is rejected.
func parseModel(src []byte, label string) (*fileModel, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, label, src, parser.ParseComments)
	if err != nil {
		return nil, &schemaerrors.MergeConflictError{
			File:    label,
			Message: "file does not parse",
			Cause:   err,
		}
	}

	m := &fileModel{
		fset:       fset,
		file:       file,
		src:        src,
		imports:    make(map[string]string),
		types:      make(map[string]*typeDecl),
		funcs:      make(map[string]*declText),
		valueNames: make(map[string]bool),
	}
	m.regions = scanRegions(src)

	for _, decl := range file.Decls {
		if m.insideRegion(m.offset(decl.Pos())) {
			// Declarations inside a preserved region travel with the
			// region, never on their own.
			continue
		}
		switch d := decl.(type) {
		case *ast.GenDecl:
			if err := m.indexGenDecl(d, label); err != nil {
				return nil, err
			}
		case *ast.FuncDecl:
			m.funcs[funcKey(d)] = m.declText(d, d.Doc)
		}
	}

	m.assignRegionOwners()
	return m, nil
}

func (m *fileModel) indexGenDecl(d *ast.GenDecl, label string) error {
	switch d.Tok {
	case token.IMPORT:
		for _, spec := range d.Specs {
			imp := spec.(*ast.ImportSpec)
			m.imports[imp.Path.Value] = m.text(imp.Pos(), imp.End())
		}
	case token.TYPE:
		for _, spec := range d.Specs {
			ts := spec.(*ast.TypeSpec)
			if _, dup := m.types[ts.Name.Name]; dup {
				return &schemaerrors.MergeConflictError{
					File:     label,
					TypeName: ts.Name.Name,
					Message:  "type is declared more than once; alignment is ambiguous",
				}
			}
			m.types[ts.Name.Name] = m.newTypeDecl(d, ts)
		}
	case token.CONST, token.VAR:
		for _, spec := range d.Specs {
			if vs, ok := spec.(*ast.ValueSpec); ok {
				for _, name := range vs.Names {
					m.valueNames[name.Name] = true
				}
			}
		}
	}
	return nil
}

func (m *fileModel) newTypeDecl(d *ast.GenDecl, ts *ast.TypeSpec) *typeDecl {
	td := &typeDecl{
		name:   ts.Name.Name,
		decl:   d,
		fields: make(map[string]*fieldDecl),
		text:   m.declText(d, d.Doc).text,
	}
	if d.Doc != nil {
		td.doc = m.text(d.Doc.Pos(), d.Doc.End())
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return td
	}
	td.structType = st
	for _, f := range st.Fields.List {
		if m.insideRegion(m.offset(f.Pos())) {
			continue
		}
		fd := m.newFieldDecl(f)
		for _, name := range fieldNames(f) {
			if _, dup := td.fields[name]; !dup {
				td.fields[name] = fd
				td.fieldOrder = append(td.fieldOrder, name)
			}
		}
	}
	return td
}

func (m *fileModel) newFieldDecl(f *ast.Field) *fieldDecl {
	start := f.Pos()
	if f.Doc != nil {
		start = f.Doc.Pos()
	}
	end := f.End()
	if f.Comment != nil {
		end = f.Comment.End()
	}
	fd := &fieldDecl{text: m.text(start, end)}
	if f.Comment != nil && strings.Contains(f.Comment.Text(), KeepMarker) {
		fd.keep = true
	}
	if names := fieldNames(f); len(names) > 0 {
		fd.name = names[0]
	}
	return fd
}

// fieldNames returns the declared names of a struct field; an embedded
// field is named after its type.
func fieldNames(f *ast.Field) []string {
	if len(f.Names) > 0 {
		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}
		return names
	}
	if name := embeddedName(f.Type); name != "" {
		return []string{name}
	}
	return nil
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	default:
		return ""
	}
}

func funcKey(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return d.Name.Name
	}
	recv := embeddedName(d.Recv.List[0].Type)
	return recv + "." + d.Name.Name
}

func (m *fileModel) offset(pos token.Pos) int {
	return m.fset.Position(pos).Offset
}

func (m *fileModel) text(start, end token.Pos) string {
	return string(m.src[m.offset(start):m.offset(end)])
}

func (m *fileModel) declText(decl ast.Decl, doc *ast.CommentGroup) *declText {
	start := decl.Pos()
	if doc != nil {
		start = doc.Pos()
	}
	return &declText{
		text: m.text(start, decl.End()),
		pos:  m.offset(start),
		end:  m.offset(decl.End()),
	}
}

func (m *fileModel) insideRegion(offset int) bool {
	for _, r := range m.regions {
		if offset >= r.start && offset < r.end {
			return true
		}
	}
	return false
}

// assignRegionOwners tags each region with the struct type whose braces
// enclose it, when any.
func (m *fileModel) assignRegionOwners() {
	for i, r := range m.regions {
		for _, td := range m.types {
			if td.structType == nil {
				continue
			}
			open := m.offset(td.structType.Fields.Opening)
			closing := m.offset(td.structType.Fields.Closing)
			if r.start > open && r.end <= closing {
				m.regions[i].owner = td.name
				break
			}
		}
	}
}

// scanRegions finds CUSTOM CODE blocks line by line. An unterminated start
// marker opens a region running to end of file.
func scanRegions(src []byte) []region {
	var regions []region
	lines := strings.SplitAfter(string(src), "\n")
	offset := 0
	start := -1
	var buf strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case start < 0 && strings.HasPrefix(trimmed, CustomBlockStart):
			start = offset
			buf.Reset()
			buf.WriteString(line)
		case start >= 0:
			buf.WriteString(line)
			if strings.HasPrefix(trimmed, CustomBlockEnd) {
				regions = append(regions, region{start: start, end: offset + len(line), text: buf.String()})
				start = -1
			}
		}
		offset += len(line)
	}
	if start >= 0 {
		regions = append(regions, region{start: start, end: offset, text: buf.String()})
	}
	return regions
}

// ExtraField is a struct field present in the existing file but no longer
// generated.
type ExtraField struct {
	Name string
	// Text is the exact field source, doc and line comments included.
	Text string
	// Keep marks a field carrying the opt-out marker; it survives every
	// merge strategy.
	Keep bool
}

// ExistingFileModel is the reconciliation view of a previously generated
// output file: everything in it that generation did not produce. It is
// rebuilt from the file on every run and carries no state across runs.
type ExistingFileModel struct {
	// CustomImports holds import specs absent from the generated file.
	CustomImports []string
	// CustomDecls holds wholly custom top-level declarations (types,
	// functions, methods, consts, vars) in file order.
	CustomDecls []string
	// ExtraFields lists, per generated type, existing struct fields no
	// longer generated.
	ExtraFields map[string][]ExtraField
	// DocComments holds, per generated type, the existing doc comment.
	DocComments map[string]string
	// Regions holds file-scope CUSTOM CODE blocks in file order.
	Regions []string
	// TypeRegions holds CUSTOM CODE blocks found inside a generated
	// struct's body, keyed by type name.
	TypeRegions map[string][]string
}

// ExtractModel parses both files and computes the existing file's custom
// content relative to the generated one. It is exposed for inspection; Merge
// uses it internally.
func ExtractModel(generated, existing []byte) (*ExistingFileModel, error) {
	gen, err := parseModel(generated, "generated")
	if err != nil {
		return nil, err
	}
	old, err := parseModel(existing, "existing")
	if err != nil {
		return nil, err
	}
	return buildExistingModel(gen, old), nil
}

func buildExistingModel(gen, old *fileModel) *ExistingFileModel {
	model := &ExistingFileModel{
		ExtraFields: make(map[string][]ExtraField),
		DocComments: make(map[string]string),
		TypeRegions: make(map[string][]string),
	}

	for path, spec := range old.imports {
		if _, ok := gen.imports[path]; !ok {
			model.CustomImports = append(model.CustomImports, spec)
		}
	}
	// Map iteration order is not stable; keep imports deterministic.
	sortStrings(model.CustomImports)

	// Walk declarations in file order so custom content keeps its relative
	// order across regenerations.
	for _, decl := range old.file.Decls {
		if old.insideRegion(old.offset(decl.Pos())) {
			continue
		}
		switch d := decl.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					oldType := old.types[ts.Name.Name]
					genType, aligned := gen.types[ts.Name.Name]
					if !aligned {
						model.CustomDecls = append(model.CustomDecls, oldType.text)
						continue
					}
					if oldType.doc != "" && oldType.doc != genType.doc {
						model.DocComments[ts.Name.Name] = oldType.doc
					}
					collectExtraFields(model, genType, oldType)
				}
			case token.CONST, token.VAR:
				if !declaresKnownValue(gen, d) {
					model.CustomDecls = append(model.CustomDecls, old.declText(d, d.Doc).text)
				}
			}
		case *ast.FuncDecl:
			if _, ok := gen.funcs[funcKey(d)]; !ok {
				model.CustomDecls = append(model.CustomDecls, old.declText(d, d.Doc).text)
			}
		}
	}

	for _, r := range old.regions {
		if r.owner == "" {
			model.Regions = append(model.Regions, r.text)
			continue
		}
		if _, aligned := gen.types[r.owner]; aligned {
			model.TypeRegions[r.owner] = append(model.TypeRegions[r.owner], r.text)
		} else {
			// The owning type is itself custom; its text already carries
			// the region.
			continue
		}
	}

	return model
}

func collectExtraFields(model *ExistingFileModel, genType, oldType *typeDecl) {
	if genType.structType == nil || oldType.structType == nil {
		return
	}
	for _, name := range oldType.fieldOrder {
		if _, ok := genType.fields[name]; ok {
			continue
		}
		f := oldType.fields[name]
		model.ExtraFields[oldType.name] = append(model.ExtraFields[oldType.name], ExtraField{
			Name: name,
			Text: f.text,
			Keep: f.keep,
		})
	}
}

// declaresKnownValue reports whether any name declared by d is also
// declared by the generated file; such blocks are generated history and the
// regenerated values win.
func declaresKnownValue(gen *fileModel, d *ast.GenDecl) bool {
	for _, spec := range d.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for _, name := range vs.Names {
			if gen.valueNames[name.Name] {
				return true
			}
		}
	}
	return false
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
