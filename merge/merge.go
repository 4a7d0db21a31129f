package merge

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/erraggy/jsctools/schemaerrors"
)

// Strategy controls what happens to struct fields that exist in the output
// file but are no longer generated.
type Strategy string

const (
	// StrategyError aborts the merge when an orphaned field is found.
	StrategyError Strategy = "error"
	// StrategyMerge keeps orphaned fields, re-inserted at the end of
	// their struct.
	StrategyMerge Strategy = "merge"
	// StrategyDelete drops orphaned fields unless they carry the keep
	// marker.
	StrategyDelete Strategy = "delete"
)

// edit is a byte-range splice on the generated source. Edits are applied
// in descending offset order so earlier offsets stay valid.
type edit struct {
	start int
	end   int
	text  string
}

// Merge reconciles freshly generated source with the previous output file
// and returns the combined file, gofmt-formatted. Custom methods, functions,
// types, and file-scope declarations in existing are always preserved;
// strategy governs only struct fields that generation no longer produces.
// Merging a file against its own merge output yields byte-identical bytes,
// so repeated regeneration is stable.
func Merge(generated, existing []byte, strategy Strategy) ([]byte, error) {
	gen, err := parseModel(generated, "generated")
	if err != nil {
		return nil, err
	}
	old, err := parseModel(existing, "existing")
	if err != nil {
		return nil, err
	}
	model := buildExistingModel(gen, old)

	if strategy == StrategyError {
		if err := firstOrphan(model); err != nil {
			return nil, err
		}
	}

	var edits []edit
	edits = append(edits, docCommentEdits(gen, model)...)
	edits = append(edits, structBodyEdits(gen, model, strategy)...)
	if e, ok := importEdit(gen, model); ok {
		edits = append(edits, e)
	}

	out := applyEdits(generated, edits)
	out = appendCustomContent(out, model)

	formatted, err := imports.Process("merged.go", out, nil)
	if err != nil {
		return nil, &schemaerrors.MergeConflictError{
			File:    "merged output",
			Message: "spliced output does not parse",
			Cause:   err,
		}
	}
	return formatted, nil
}

// firstOrphan returns a conflict for the first orphaned field not covered
// by the keep marker, in deterministic type order.
func firstOrphan(model *ExistingFileModel) error {
	typeNames := make([]string, 0, len(model.ExtraFields))
	for name := range model.ExtraFields {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, typeName := range typeNames {
		for _, f := range model.ExtraFields[typeName] {
			if f.Keep {
				continue
			}
			return &schemaerrors.MergeConflictError{
				File:     "existing",
				TypeName: typeName,
				Member:   f.Name,
				Message:  "member is no longer generated; remove it, mark it with " + KeepMarker + ", or switch the merge strategy",
			}
		}
	}
	return nil
}

// docCommentEdits replaces each generated type's doc comment with the
// existing one when the existing file carries a different, non-empty doc.
// Hand-edited documentation outlives regeneration.
func docCommentEdits(gen *fileModel, model *ExistingFileModel) []edit {
	var edits []edit
	for typeName, doc := range model.DocComments {
		td := gen.types[typeName]
		declStart := gen.offset(td.decl.Pos())
		if td.decl.Doc != nil {
			edits = append(edits, edit{
				start: gen.offset(td.decl.Doc.Pos()),
				end:   gen.offset(td.decl.Doc.End()),
				text:  doc,
			})
		} else {
			edits = append(edits, edit{start: declStart, end: declStart, text: doc + "\n"})
		}
	}
	return edits
}

// structBodyEdits inserts preserved fields and in-struct CUSTOM CODE blocks
// just before each generated struct's closing brace.
func structBodyEdits(gen *fileModel, model *ExistingFileModel, strategy Strategy) []edit {
	var edits []edit
	for typeName, td := range gen.types {
		if td.structType == nil {
			continue
		}
		var body strings.Builder
		for _, f := range model.ExtraFields[typeName] {
			if strategy == StrategyDelete && !f.Keep {
				continue
			}
			body.WriteString("\n")
			body.WriteString(f.Text)
			body.WriteString("\n")
		}
		for _, text := range model.TypeRegions[typeName] {
			body.WriteString("\n")
			body.WriteString(text)
		}
		if body.Len() == 0 {
			continue
		}
		closing := gen.offset(td.structType.Fields.Closing)
		edits = append(edits, edit{start: closing, end: closing, text: body.String()})
	}
	return edits
}

// importEdit splices custom import specs into the generated import block,
// creating one after the package clause when the generated file has none.
// Keeping a single block is what makes repeated merges stable under gofmt.
func importEdit(gen *fileModel, model *ExistingFileModel) (edit, bool) {
	if len(model.CustomImports) == 0 {
		return edit{}, false
	}
	specs := "\n\t" + strings.Join(model.CustomImports, "\n\t") + "\n"

	for _, decl := range gen.file.Decls {
		d, ok := decl.(*ast.GenDecl)
		if !ok || d.Tok != token.IMPORT {
			continue
		}
		if d.Lparen.IsValid() {
			at := gen.offset(d.Rparen)
			return edit{start: at, end: at, text: specs}, true
		}
		// Single-import form: rewrite the whole decl as a block.
		start := gen.offset(d.Pos())
		end := gen.offset(d.End())
		single := gen.text(d.Specs[0].Pos(), d.Specs[0].End())
		return edit{
			start: start,
			end:   end,
			text:  fmt.Sprintf("import (\n\t%s%s)", single, specs),
		}, true
	}

	at := gen.offset(gen.file.Name.End())
	return edit{start: at, end: at, text: "\n\nimport (" + specs + ")"}, true
}

// applyEdits splices edits into src from the highest offset down.
func applyEdits(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	out := append([]byte(nil), src...)
	for _, e := range edits {
		var buf bytes.Buffer
		buf.Write(out[:e.start])
		buf.WriteString(e.text)
		buf.Write(out[e.end:])
		out = buf.Bytes()
	}
	return out
}

// appendCustomContent adds file-scope custom declarations and preserved
// regions after the generated content, keeping their original order.
func appendCustomContent(src []byte, model *ExistingFileModel) []byte {
	if len(model.CustomDecls) == 0 && len(model.Regions) == 0 {
		return src
	}
	var buf bytes.Buffer
	buf.Write(bytes.TrimRight(src, "\n"))
	buf.WriteString("\n")
	for _, decl := range model.CustomDecls {
		buf.WriteString("\n")
		buf.WriteString(decl)
		buf.WriteString("\n")
	}
	for _, region := range model.Regions {
		buf.WriteString("\n")
		buf.WriteString(region)
	}
	return buf.Bytes()
}
