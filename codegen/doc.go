// Package codegen is the one-shot pipeline that turns a JSON Schema
// document into a typed Go source file: parse, analyze, generate, and, when
// the destination already exists, merge with it before the atomic write.
//
// The pipeline is a pure function of its options; the same schema and
// configuration always produce byte-identical output, which keeps generated
// files stable under version control.
//
//	result, err := codegen.GenerateWithOptions(
//	    codegen.WithSchemaPath("task.schema.json"),
//	    codegen.WithPackageName("task"),
//	    codegen.WithOutputPath("task/types.go"),
//	)
package codegen
