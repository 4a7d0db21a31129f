package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/jsctools/analyzer"
)

func TestHandleConfigValidateDefaults(t *testing.T) {
	result, output, err := handleConfigValidate(context.Background(), nil, configValidateInput{})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.True(t, output.Valid)
	require.NotNil(t, output.Effective)
	assert.Equal(t, analyzer.ModeOverwrite, output.Effective.Output.Mode)
}

func TestHandleConfigValidateContent(t *testing.T) {
	result, output, err := handleConfigValidate(context.Background(), nil, configValidateInput{
		Config: configInput{Content: "use_tuples: false\nignore_classes:\n  - internal\n"},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.True(t, output.Valid)
	assert.False(t, output.Effective.UseTuples)
	assert.Equal(t, []string{"internal"}, output.Effective.IgnoreClasses)
}

func TestHandleConfigValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsctools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  mode: merge\n"), 0o644))

	result, output, err := handleConfigValidate(context.Background(), nil, configValidateInput{
		Config: configInput{File: path},
	})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, analyzer.ModeMerge, output.Effective.Output.Mode)
}

func TestHandleConfigValidateRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input configInput
	}{
		{"bad output mode", configInput{Content: "output:\n  mode: append\n"}},
		{"bad merge strategy", configInput{Content: "output:\n  merge_strategy: ask\n"}},
		{"file and content", configInput{File: "a.yaml", Content: "use_tuples: true"}},
		{"missing file", configInput{File: filepath.Join(t.TempDir(), "absent.yaml")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, _, err := handleConfigValidate(context.Background(), nil, configValidateInput{Config: tc.input})
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}
