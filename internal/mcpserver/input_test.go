package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const circleSchema = `{
  "$defs": {
    "circle": {
      "type": "object",
      "properties": {
        "radius": {"type": "number"}
      },
      "required": ["radius"]
    }
  }
}`

func TestSchemaInputResolveContent(t *testing.T) {
	treeCache.reset()

	tree, err := schemaInput{Content: circleSchema}.resolve(context.Background())
	require.NoError(t, err)
	require.Len(t, tree.Definitions, 1)
	assert.Equal(t, "circle", tree.Definitions[0].Name)
}

func TestSchemaInputResolveFile(t *testing.T) {
	treeCache.reset()
	path := filepath.Join(t.TempDir(), "circle.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(circleSchema), 0o644))

	tree, err := schemaInput{File: path}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "circle", tree.RootName)
}

func TestSchemaInputResolveExactlyOne(t *testing.T) {
	_, err := schemaInput{}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	_, err = schemaInput{Content: circleSchema, File: "x.json"}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestSchemaInputResolveCaches(t *testing.T) {
	treeCache.reset()

	first, err := schemaInput{Content: circleSchema}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, treeCache.size())

	second, err := schemaInput{Content: circleSchema}.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second, "second resolve should hit the cache")
}

func TestTreeCacheExpiry(t *testing.T) {
	treeCache.reset()

	treeCache.putWithTTL("k", nil, -time.Second)
	assert.Nil(t, treeCache.get("k"))
	assert.Equal(t, 0, treeCache.size())
}

func TestTreeCacheEviction(t *testing.T) {
	c := &treeCacheStore{entries: make(map[string]*cacheEntry), maxSize: 2}
	c.putWithTTL("a", nil, time.Hour)
	time.Sleep(time.Millisecond)
	c.putWithTTL("b", nil, time.Hour)
	time.Sleep(time.Millisecond)
	c.putWithTTL("c", nil, time.Hour)

	assert.Equal(t, 2, c.size())
	c.mu.Lock()
	_, oldest := c.entries["a"]
	c.mu.Unlock()
	assert.False(t, oldest, "oldest entry should have been evicted")
}

func TestMakeCacheKeyContent(t *testing.T) {
	k1 := makeCacheKey(schemaInput{Content: circleSchema})
	k2 := makeCacheKey(schemaInput{Content: circleSchema})
	k3 := makeCacheKey(schemaInput{Content: circleSchema + " "})
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestMakeCacheKeyMissingFile(t *testing.T) {
	assert.Empty(t, makeCacheKey(schemaInput{File: filepath.Join(t.TempDir(), "absent.json")}))
}
