package analyzer

import (
	"strconv"

	"github.com/erraggy/jsctools/internal/naming"
)

// nameResolver converts schema names to target-language type names and
// disambiguates collisions deterministically: the first claimant keeps the
// base name, later claimants receive a numeric suffix starting at 2. Given
// the same claim sequence, the same names result, which merge correctness
// across regenerations depends on.
type nameResolver struct {
	used map[string]bool
}

func newNameResolver() *nameResolver {
	return &nameResolver{used: make(map[string]bool)}
}

// resolve claims a unique target name for the given schema name.
func (r *nameResolver) resolve(original string) string {
	base := naming.EscapeReserved(naming.ToPascalCase(original))
	if base == "" {
		base = "Anonymous"
	}
	name := base
	for i := 2; r.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	r.used[name] = true
	return name
}

// reserve marks a name as taken without claiming it for a definition,
// used for names fixed upstream such as x-ref-class-name overrides.
func (r *nameResolver) reserve(name string) {
	r.used[name] = true
}

// fieldName converts a schema property name to a target field name.
// Uniqueness within a class is the caller's concern; property names are
// already unique per object in a valid schema.
func fieldName(propertyName string) string {
	return naming.EscapeReserved(naming.ToPascalCase(propertyName))
}
