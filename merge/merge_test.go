package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/jsctools/schemaerrors"
)

const genShapes = `// Code generated by jsctools; hand-written additions are preserved
// when regenerating in merge mode.
package shapes

// Circle is a circle.
type Circle struct {
	Type   string  ` + "`json:\"type\"`" + `
	Radius float64 ` + "`json:\"radius\"`" + `
}
`

// mustMerge fails the test on error and returns the merged source as a
// string for substring assertions.
func mustMerge(t *testing.T, generated, existing string, s Strategy) string {
	t.Helper()
	out, err := Merge([]byte(generated), []byte(existing), s)
	require.NoError(t, err)
	return string(out)
}

func TestMergeIdempotent(t *testing.T) {
	existing := `package shapes

// Circle is a circle with extras.
type Circle struct {
	Type   string  ` + "`json:\"type\"`" + `
	Radius float64 ` + "`json:\"radius\"`" + `
	Legacy string  ` + "`json:\"legacy\"`" + `
}

// Area is hand-written.
func (c *Circle) Area() float64 {
	return 3.14159 * c.Radius * c.Radius
}
`
	first, err := Merge([]byte(genShapes), []byte(existing), StrategyMerge)
	require.NoError(t, err)
	second, err := Merge([]byte(genShapes), first, StrategyMerge)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMergeSelfIsStable(t *testing.T) {
	// Merging freshly generated output with itself changes nothing.
	out, err := Merge([]byte(genShapes), []byte(genShapes), StrategyError)
	require.NoError(t, err)
	assert.Equal(t, genShapes, string(out))
}

func TestMergeOrphanedFieldStrategies(t *testing.T) {
	existing := `package shapes

type Circle struct {
	Type   string
	Radius float64
	Legacy string
}
`
	t.Run("error aborts", func(t *testing.T) {
		_, err := Merge([]byte(genShapes), []byte(existing), StrategyError)
		require.ErrorIs(t, err, schemaerrors.ErrMergeConflict)
		var conflict *schemaerrors.MergeConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "Circle", conflict.TypeName)
		assert.Equal(t, "Legacy", conflict.Member)
	})

	t.Run("merge keeps the field", func(t *testing.T) {
		out := mustMerge(t, genShapes, existing, StrategyMerge)
		assert.Contains(t, out, "Legacy string")
	})

	t.Run("delete drops the field", func(t *testing.T) {
		out := mustMerge(t, genShapes, existing, StrategyDelete)
		assert.NotContains(t, out, "Legacy")
	})
}

func TestMergeKeepMarker(t *testing.T) {
	existing := `package shapes

type Circle struct {
	Type   string
	Radius float64
	Legacy string // jsctools:keep
}
`
	t.Run("survives delete", func(t *testing.T) {
		out := mustMerge(t, genShapes, existing, StrategyDelete)
		assert.Contains(t, out, "Legacy string")
		assert.Contains(t, out, KeepMarker)
	})

	t.Run("does not trip the error strategy", func(t *testing.T) {
		out := mustMerge(t, genShapes, existing, StrategyError)
		assert.Contains(t, out, "Legacy string")
	})
}

func TestMergeCustomDeclarationsAlwaysKept(t *testing.T) {
	existing := `package shapes

type Circle struct {
	Type   string
	Radius float64
}

// Area is hand-written.
func (c *Circle) Area() float64 {
	return 3.14159 * c.Radius * c.Radius
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

const defaultRadius = 1.0

type circleCache struct {
	byRadius map[float64]*Circle
}
`
	for _, strategy := range []Strategy{StrategyError, StrategyMerge, StrategyDelete} {
		t.Run(string(strategy), func(t *testing.T) {
			out := mustMerge(t, genShapes, existing, strategy)
			assert.Contains(t, out, "func (c *Circle) Area() float64")
			assert.Contains(t, out, "// Area is hand-written.")
			assert.Contains(t, out, "func clamp(v float64) float64")
			assert.Contains(t, out, "const defaultRadius = 1.0")
			assert.Contains(t, out, "type circleCache struct")
		})
	}
}

func TestMergeGeneratedWins(t *testing.T) {
	generated := `package shapes

const CircleTypeValue = "circle"

type Circle struct {
	Type   string
	Radius float64
}
`
	existing := `package shapes

const CircleTypeValue = "round"

type Circle struct {
	Type     string
	Radius   float64
	Diameter float64
}
`
	out := mustMerge(t, generated, existing, StrategyDelete)
	assert.Contains(t, out, `CircleTypeValue = "circle"`)
	assert.NotContains(t, out, `"round"`)
	assert.NotContains(t, out, "Diameter")
}

func TestMergeDocCommentPreserved(t *testing.T) {
	existing := `package shapes

// Circle is the round one. Radius is in meters; see issue #42 for why
// diameter was removed.
type Circle struct {
	Type   string
	Radius float64
}
`
	out := mustMerge(t, genShapes, existing, StrategyDelete)
	assert.Contains(t, out, "Circle is the round one")
	assert.NotContains(t, out, "// Circle is a circle.")
}

func TestMergeCustomImports(t *testing.T) {
	existing := `package shapes

import "strings"

type Circle struct {
	Type   string
	Radius float64
}

// Label is hand-written.
func (c *Circle) Label() string {
	return strings.ToUpper(c.Type)
}
`
	out := mustMerge(t, genShapes, existing, StrategyDelete)
	assert.Contains(t, out, `"strings"`)
	assert.Contains(t, out, "func (c *Circle) Label() string")
}

func TestMergeCustomRegions(t *testing.T) {
	existing := `package shapes

type Circle struct {
	Type   string
	Radius float64
	// CUSTOM CODE START
	Cached bool
	// CUSTOM CODE END
}

// CUSTOM CODE START
var registry = map[string]*Circle{}
// CUSTOM CODE END
`
	// Regions survive verbatim even under delete, and their contents are
	// not re-extracted as standalone declarations.
	out := mustMerge(t, genShapes, existing, StrategyDelete)
	assert.Contains(t, out, "Cached bool")
	assert.Contains(t, out, "var registry = map[string]*Circle{}")
	assert.Equal(t, 2, countOccurrences(out, CustomBlockStart))
	assert.Equal(t, 2, countOccurrences(out, CustomBlockEnd))
	assert.Equal(t, 1, countOccurrences(out, "var registry"))
}

func TestMergeUnparsableExisting(t *testing.T) {
	_, err := Merge([]byte(genShapes), []byte("package shapes\n\nfunc broken( {\n"), StrategyMerge)
	require.ErrorIs(t, err, schemaerrors.ErrMergeConflict)
	var conflict *schemaerrors.MergeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "existing", conflict.File)
}

func TestMergeDuplicateTypeIsAmbiguous(t *testing.T) {
	existing := `package shapes

type Circle struct{ Radius float64 }

type Circle struct{ R float64 }
`
	_, err := Merge([]byte(genShapes), []byte(existing), StrategyMerge)
	require.ErrorIs(t, err, schemaerrors.ErrMergeConflict)
	var conflict *schemaerrors.MergeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Circle", conflict.TypeName)
}

func TestExtractModel(t *testing.T) {
	existing := `package shapes

import "strings"

// Circle has a better doc.
type Circle struct {
	Type   string
	Radius float64
	Legacy string // jsctools:keep
}

func (c *Circle) Label() string { return strings.ToUpper(c.Type) }
`
	model, err := ExtractModel([]byte(genShapes), []byte(existing))
	require.NoError(t, err)

	assert.Equal(t, []string{`"strings"`}, model.CustomImports)
	require.Len(t, model.CustomDecls, 1)
	assert.Contains(t, model.CustomDecls[0], "func (c *Circle) Label()")

	require.Len(t, model.ExtraFields["Circle"], 1)
	assert.Equal(t, "Legacy", model.ExtraFields["Circle"][0].Name)
	assert.True(t, model.ExtraFields["Circle"][0].Keep)

	assert.Contains(t, model.DocComments["Circle"], "better doc")
}

func TestAtomicWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.go")
	var w AtomicWriter

	require.NoError(t, w.Write(path, []byte("package shapes\n")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package shapes\n", string(content))

	// Overwrites are allowed and atomic.
	require.NoError(t, w.Write(path, []byte("package shapes // v2\n")))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package shapes // v2\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestAtomicWriterWriteIfNotExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.go")
	var w AtomicWriter

	require.NoError(t, w.WriteIfNotExists(path, []byte("package shapes\n")))

	err := w.WriteIfNotExists(path, []byte("package shapes // v2\n"))
	require.ErrorIs(t, err, schemaerrors.ErrWrite)
	var werr *schemaerrors.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, path, werr.Path)

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "package shapes\n", string(content))
}

func TestAtomicWriterUnwritableDir(t *testing.T) {
	var w AtomicWriter
	err := w.Write(filepath.Join(t.TempDir(), "missing", "shapes.go"), []byte("package shapes\n"))
	require.ErrorIs(t, err, schemaerrors.ErrWrite)
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
