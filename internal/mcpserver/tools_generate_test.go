package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGenerateInline(t *testing.T) {
	treeCache.reset()

	result, output, err := handleGenerate(context.Background(), nil, generateInput{
		Schema:      schemaInput{Content: circleSchema},
		PackageName: "shapes",
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.True(t, output.Success)
	assert.False(t, output.Written)
	assert.Equal(t, 1, output.ClassCount)
	assert.Contains(t, output.Source, "package shapes")
	assert.Contains(t, output.Source, "type Circle struct")
}

func TestHandleGenerateToFile(t *testing.T) {
	treeCache.reset()
	out := filepath.Join(t.TempDir(), "shapes.go")

	result, output, err := handleGenerate(context.Background(), nil, generateInput{
		Schema:      schemaInput{Content: circleSchema},
		PackageName: "shapes",
		OutputPath:  out,
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.True(t, output.Written)
	assert.Empty(t, output.Source, "source stays out of the response when written to disk")

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "type Circle struct")
}

func TestHandleGenerateMergePreservesCustomCode(t *testing.T) {
	treeCache.reset()
	out := filepath.Join(t.TempDir(), "shapes.go")

	_, _, err := handleGenerate(context.Background(), nil, generateInput{
		Schema:      schemaInput{Content: circleSchema},
		PackageName: "shapes",
		OutputPath:  out,
		OutputMode:  "merge",
	})
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	edited := append(content, []byte("\nfunc (c *Circle) Area() float64 { return 0 }\n")...)
	require.NoError(t, os.WriteFile(out, edited, 0o644))

	_, output, err := handleGenerate(context.Background(), nil, generateInput{
		Schema:      schemaInput{Content: circleSchema},
		PackageName: "shapes",
		OutputPath:  out,
		OutputMode:  "merge",
	})
	require.NoError(t, err)
	assert.True(t, output.Merged)

	content, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "func (c *Circle) Area() float64")
}

func TestHandleGenerateModeRequiresOutputPath(t *testing.T) {
	result, _, err := handleGenerate(context.Background(), nil, generateInput{
		Schema:     schemaInput{Content: circleSchema},
		OutputMode: "merge",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestHandleGenerateBadSchema(t *testing.T) {
	result, _, err := handleGenerate(context.Background(), nil, generateInput{
		Schema: schemaInput{Content: `{"$defs": {"a": {"$ref": "#/$defs/missing"}}}`},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
