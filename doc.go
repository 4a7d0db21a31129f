// Package jsctools provides tools for generating typed Go source code from
// JSON Schema documents.
//
// jsctools models object types, enumerations, const literals, arrays and
// tuples, unions, and inheritance via discriminated subtype hierarchies, and
// supports safe regeneration that preserves hand-written additions to
// previously generated files.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - schema: Parse JSON Schema documents (JSON or YAML) into a schema tree
//     and resolve $ref references, including cross-file references
//   - analyzer: Transform a schema tree into a fully resolved intermediate
//     representation (IR): class graphs, enums, unions, and type references
//   - gogen: Generate Go source code from the IR
//   - merge: Reconcile newly generated code with an existing file,
//     preserving custom methods, fields, types, and marked regions
//   - codegen: The end-to-end pipeline combining all of the above
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/jsctools
//
// # Quick Start
//
// Generate Go types from a schema file:
//
//	import (
//		"github.com/erraggy/jsctools/analyzer"
//		"github.com/erraggy/jsctools/codegen"
//	)
//
//	result, err := codegen.GenerateWithOptions(
//		codegen.WithSchemaPath("entities.schema.json"),
//		codegen.WithPackageName("entities"),
//		codegen.WithOutputPath("entities/entities.go"),
//		codegen.WithOutputMode(analyzer.ModeMerge),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("generated %d classes\n", result.ClassCount)
//
// Analyze a schema without generating code:
//
//	import (
//		"github.com/erraggy/jsctools/analyzer"
//		"github.com/erraggy/jsctools/schema"
//	)
//
//	tree, err := schema.ParseFile("entities.schema.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	ir, err := analyzer.Analyze(tree, analyzer.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, class := range ir.Classes {
//		fmt.Println(class.Name)
//	}
//
// # Regeneration Safety
//
// When the output mode is merge, jsctools parses the existing output file and
// re-inserts custom methods, extra fields, wholly custom types, and regions
// bounded by CUSTOM CODE markers into the newly generated code. Generated
// members always win; the merge strategy controls what happens to members
// that are no longer generated (error, merge, or delete).
package jsctools
