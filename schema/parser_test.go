package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/jsctools/schemaerrors"
)

// mustParse parses inline schema content and fails the test on error.
func mustParse(t *testing.T, content string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(content), "root")
	require.NoError(t, err)
	return tree
}

func TestParsePreservesDefinitionOrder(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "zebra": {"type": "string"},
	    "apple": {"type": "integer"},
	    "mango": {"type": "boolean"}
	  }
	}`)

	require.Len(t, tree.Definitions, 3)
	assert.Equal(t, "zebra", tree.Definitions[0].Name)
	assert.Equal(t, "apple", tree.Definitions[1].Name)
	assert.Equal(t, "mango", tree.Definitions[2].Name)
}

func TestParsePreservesPropertyOrder(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "point": {
	      "type": "object",
	      "properties": {
	        "z": {"type": "number"},
	        "y": {"type": "number"},
	        "x": {"type": "number"}
	      },
	      "required": ["x", "y", "z"]
	    }
	  }
	}`)

	obj, ok := tree.Definitions[0].Body.(*Object)
	require.True(t, ok)
	require.Len(t, obj.Properties, 3)
	assert.Equal(t, "z", obj.Properties[0].Name)
	assert.Equal(t, "y", obj.Properties[1].Name)
	assert.Equal(t, "x", obj.Properties[2].Name)
	assert.True(t, obj.IsRequired("x"))
}

func TestParseYAMLDocument(t *testing.T) {
	tree := mustParse(t, `
$defs:
  color:
    type: string
    enum: [red, green, blue]
`)
	require.Len(t, tree.Definitions, 1)
	prim, ok := tree.Definitions[0].Body.(*Primitive)
	require.True(t, ok)
	assert.Equal(t, "string", prim.TypeName)
	assert.Equal(t, []any{"red", "green", "blue"}, prim.EnumValues)
}

func TestParseDispatchPrecedence(t *testing.T) {
	// $ref wins over everything else declared alongside it.
	tree := mustParse(t, `{
	  "$defs": {
	    "a": {"$ref": "#/$defs/b", "type": "string"},
	    "b": {"type": "string"}
	  }
	}`)
	ref, ok := tree.Definitions[0].Body.(*Ref)
	require.True(t, ok)
	assert.Equal(t, "#/$defs/b", ref.RefPath)

	// const wins over type.
	tree = mustParse(t, `{"$defs": {"c": {"type": "string", "const": "fixed"}}}`)
	cn, ok := tree.Definitions[0].Body.(*Const)
	require.True(t, ok)
	assert.Equal(t, "fixed", cn.Value)
	assert.Equal(t, "string", cn.InferredType)
}

func TestParseAllOf(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "base": {"type": "object", "properties": {"id": {"type": "string"}}},
	    "child": {
	      "allOf": [
	        {"$ref": "#/$defs/base"},
	        {"type": "object", "properties": {"extra": {"type": "integer"}}, "required": ["extra"]}
	      ]
	    }
	  }
	}`)

	allOf, ok := tree.Definition("child").Body.(*AllOf)
	require.True(t, ok)
	require.NotNil(t, allOf.BaseRef())
	assert.Equal(t, "#/$defs/base", allOf.BaseRef().RefPath)
	require.NotNil(t, allOf.Extension)
	assert.Equal(t, "extra", allOf.Extension.Properties[0].Name)
}

func TestParseUnionKinds(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "u": {"oneOf": [{"type": "string"}, {"type": "integer"}]},
	    "v": {"anyOf": [{"type": "string"}, {"type": "null"}]},
	    "w": {"type": ["string", "null"]}
	  }
	}`)

	u := tree.Definition("u").Body.(*Union)
	assert.Equal(t, UnionOneOf, u.UnionKind)
	require.Len(t, u.Variants, 2)

	v := tree.Definition("v").Body.(*Union)
	assert.Equal(t, UnionAnyOf, v.UnionKind)

	w := tree.Definition("w").Body.(*Union)
	assert.Equal(t, UnionTypeArray, w.UnionKind)
}

func TestParseTupleArray(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "pair": {
	      "type": "array",
	      "items": [{"type": "number"}, {"type": "number"}],
	      "minItems": 2,
	      "maxItems": 2
	    }
	  }
	}`)

	arr := tree.Definitions[0].Body.(*Array)
	assert.True(t, arr.IsTuple())
	require.NotNil(t, arr.MinItems)
	assert.Equal(t, 2, *arr.MinItems)
}

func TestParseAdditionalProperties(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "scores": {
	      "type": "object",
	      "additionalProperties": {"type": "integer"}
	    }
	  }
	}`)

	obj, ok := tree.Definitions[0].Body.(*Object)
	require.True(t, ok)
	require.NotNil(t, obj.AdditionalProperties)
	prim := obj.AdditionalProperties.(*Primitive)
	assert.Equal(t, "integer", prim.TypeName)
}

func TestParseRootProperties(t *testing.T) {
	tree := mustParse(t, `{
	  "properties": {
	    "name": {"type": "string"}
	  },
	  "required": ["name"],
	  "$defs": {
	    "helper": {"type": "integer"}
	  }
	}`)

	require.NotNil(t, tree.Root)
	assert.Equal(t, "root", tree.RootName)
	assert.Len(t, tree.Definitions, 1)
}

func TestParseSkipsCommentAndExternalShimEntries(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "_comment": "internal note",
	    "imported": {"$ref": "other.schema.json#/$defs/thing"},
	    "real": {"type": "string"}
	  }
	}`)

	require.Len(t, tree.Definitions, 1)
	assert.Equal(t, "real", tree.Definitions[0].Name)
}

func TestParseExtensionsAndDefaults(t *testing.T) {
	tree := mustParse(t, `{
	  "$defs": {
	    "level": {
	      "type": "integer",
	      "default": 3,
	      "x-note": "tunable"
	    }
	  }
	}`)

	prim := tree.Definitions[0].Body.(*Primitive)
	def, ok := prim.DefaultValue()
	require.True(t, ok)
	assert.Equal(t, 3, def)
	assert.Equal(t, "tunable", prim.Extension("x-note"))
}

func TestParseInvalidDocument(t *testing.T) {
	_, err := Parse([]byte("{"), "root")
	require.ErrorIs(t, err, schemaerrors.ErrParse)

	_, err = Parse([]byte(`["not", "an", "object"]`), "root")
	require.ErrorIs(t, err, schemaerrors.ErrParse)
}

func TestParseFileRootName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robot_state.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"properties": {"id": {"type": "string"}}}`), 0o644))

	tree, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "robot_state", tree.RootName)

	_, err = ParseFile(filepath.Join(dir, "absent.json"))
	require.ErrorIs(t, err, schemaerrors.ErrParse)
}
