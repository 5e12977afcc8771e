package mcpserver

import (
	"testing"
	"time"

	"github.com/erraggy/oasref/joiner"
	"github.com/stretchr/testify/assert"
)

// clearOASREFEnv clears all OASREF_* env vars to isolate tests from the ambient environment.
func clearOASREFEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASREF_CONFLICT_STRATEGY", "OASREF_MAX_JOIN_SPECS",
		"OASREF_NO_MARKERS", "OASREF_MAX_INLINE_BYTES",
		"OASREF_ALLOW_PRIVATE_IPS", "OASREF_CACHE_ENABLED",
		"OASREF_CACHE_MAX_SIZE", "OASREF_CACHE_FILE_TTL", "OASREF_CACHE_URL_TTL",
	} {
		t.Setenv(key, "")
	}
}

// withConfig swaps the package configuration for the duration of a test.
func withConfig(t *testing.T, mutate func(c *serverConfig)) {
	t.Helper()
	saved := cfg
	c := *saved
	mutate(&c)
	cfg = &c
	t.Cleanup(func() { cfg = saved })
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearOASREFEnv(t)

	c := loadConfig()

	assert.Equal(t, joiner.StrategyRename, c.ConflictStrategy)
	assert.Equal(t, 20, c.MaxJoinSpecs)
	assert.False(t, c.NoMarkers)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineBytes)
	assert.False(t, c.AllowPrivateIPs)
	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5*time.Minute, c.CacheURLTTL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearOASREFEnv(t)
	t.Setenv("OASREF_CONFLICT_STRATEGY", "ignore")
	t.Setenv("OASREF_MAX_JOIN_SPECS", "50")
	t.Setenv("OASREF_NO_MARKERS", "true")
	t.Setenv("OASREF_MAX_INLINE_BYTES", "5242880")
	t.Setenv("OASREF_ALLOW_PRIVATE_IPS", "true")
	t.Setenv("OASREF_CACHE_ENABLED", "false")
	t.Setenv("OASREF_CACHE_MAX_SIZE", "3")
	t.Setenv("OASREF_CACHE_FILE_TTL", "30m")
	t.Setenv("OASREF_CACHE_URL_TTL", "2m")

	c := loadConfig()

	assert.Equal(t, joiner.StrategyIgnore, c.ConflictStrategy)
	assert.Equal(t, 50, c.MaxJoinSpecs)
	assert.True(t, c.NoMarkers)
	assert.Equal(t, int64(5242880), c.MaxInlineBytes)
	assert.True(t, c.AllowPrivateIPs)
	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 3, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 2*time.Minute, c.CacheURLTTL)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearOASREFEnv(t)
	t.Setenv("OASREF_CONFLICT_STRATEGY", "accept-left")
	t.Setenv("OASREF_MAX_JOIN_SPECS", "-1")
	t.Setenv("OASREF_NO_MARKERS", "maybe")
	t.Setenv("OASREF_MAX_INLINE_BYTES", "abc")
	t.Setenv("OASREF_CACHE_FILE_TTL", "not-a-duration")

	c := loadConfig()

	assert.Equal(t, joiner.StrategyRename, c.ConflictStrategy)
	assert.Equal(t, 20, c.MaxJoinSpecs)
	assert.False(t, c.NoMarkers)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineBytes)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
}
