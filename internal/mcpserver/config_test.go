package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearJSCTOOLSEnv clears all JSCTOOLS_* env vars to isolate tests from the
// ambient environment.
func clearJSCTOOLSEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JSCTOOLS_CACHE_ENABLED", "JSCTOOLS_CACHE_MAX_SIZE",
		"JSCTOOLS_CACHE_FILE_TTL", "JSCTOOLS_CACHE_URL_TTL",
		"JSCTOOLS_CACHE_CONTENT_TTL", "JSCTOOLS_CACHE_SWEEP_INTERVAL",
		"JSCTOOLS_MAX_INLINE_SIZE", "JSCTOOLS_ALLOW_PRIVATE_IPS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearJSCTOOLSEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(4*1024*1024), c.MaxInlineSize)
	assert.False(t, c.AllowPrivateIPs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearJSCTOOLSEnv(t)
	t.Setenv("JSCTOOLS_CACHE_ENABLED", "false")
	t.Setenv("JSCTOOLS_CACHE_MAX_SIZE", "42")
	t.Setenv("JSCTOOLS_CACHE_FILE_TTL", "2h")
	t.Setenv("JSCTOOLS_ALLOW_PRIVATE_IPS", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 42, c.CacheMaxSize)
	assert.Equal(t, 2*time.Hour, c.CacheFileTTL)
	assert.True(t, c.AllowPrivateIPs)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearJSCTOOLSEnv(t)
	t.Setenv("JSCTOOLS_CACHE_ENABLED", "definitely")
	t.Setenv("JSCTOOLS_CACHE_MAX_SIZE", "-3")
	t.Setenv("JSCTOOLS_CACHE_FILE_TTL", "soon")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
}
