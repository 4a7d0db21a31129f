// Package analyzer turns a parsed schema tree into the fully resolved
// intermediate representation (IR) that code generation backends consume.
//
// Analysis resolves every reference by name lookup (never inlining, so
// mutually recursive definitions are legal), derives single-inheritance
// class hierarchies from allOf composition, detects polymorphic
// discriminator fields, promotes inline objects, enums, and unions to named
// definitions, and applies the structural configuration: class exclusion,
// global field stripping, and emission ordering.
//
// Basic usage:
//
//	tree, err := schema.ParseFile("api.schema.json")
//	if err != nil {
//		return err
//	}
//	ir, err := analyzer.Analyze(tree, analyzer.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	for _, class := range ir.Classes {
//		fmt.Println(class.Name)
//	}
//
// Analysis is all-or-nothing: any unresolved reference, multi-base allOf,
// duplicate discriminator value, or excluded-but-referenced class aborts the
// run with a structured error carrying the offending schema path, and no
// partial IR is returned. Given the same tree and configuration, analysis
// always produces a structurally identical IR, including names;
// regeneration-safe merging depends on this.
package analyzer
