// Package schema provides parsing for JSON Schema documents.
//
// The parser accepts YAML and JSON input and produces a schema tree: a
// closed set of node kinds (primitive, const, enum, $ref, array, object,
// union, allOf) whose consumers switch exhaustively, so new schema
// constructs are compile-time additions rather than silently unhandled.
// Definition and property order from the source document is preserved and
// drives emission order downstream.
//
// # Quick Start
//
// Parse a schema file:
//
//	tree, err := schema.ParseFile("entities.schema.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, def := range tree.Definitions {
//		fmt.Println(def.Name)
//	}
//
// Resolve references, including cross-file references rooted at a base
// directory:
//
//	r := schema.NewResolverWithBase(tree, "schemas/")
//	resolved, err := r.Resolve(refNode)
//
// The package deliberately performs no reference resolution during parsing;
// references resolve by name lookup so mutually recursive definitions
// remain legal.
package schema
