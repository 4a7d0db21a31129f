package gogen

import "github.com/erraggy/jsctools/analyzer"

// Backend renders an analyzed IR into target-language source text. The
// analyzer guarantees the IR is fully resolved and self-consistent: no
// dangling references, unique discriminator values, collision-free names.
type Backend interface {
	// TranslateType renders a type reference as target-language type text.
	TranslateType(t analyzer.TypeRef) string
	// FormatDefault renders a default value as a target-language literal.
	FormatDefault(value any, t analyzer.TypeRef) string
	// Generate renders the whole IR as formatted source text.
	Generate(ir *analyzer.IR) ([]byte, error)
}
