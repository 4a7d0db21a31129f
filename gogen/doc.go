// Package gogen renders the analyzer's IR as Go source code.
//
// It defines the Backend contract every rendering target implements and
// provides GoBackend, which emits struct types with json tags, typed enum
// constants, discriminator constants with a per-hierarchy decode function,
// and type aliases. Output is always gofmt-clean: the emitted text runs
// through goimports processing, which also resolves the import block.
//
// Basic usage:
//
//	backend := gogen.NewBackend("models")
//	src, err := backend.Generate(ir)
//	if err != nil {
//		return err
//	}
//	os.WriteFile("models.go", src, 0o644)
package gogen
