package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oasref/joiner"
)

// serverConfig holds the MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Join defaults.
	ConflictStrategy joiner.ConflictStrategy
	MaxJoinSpecs     int

	// NoMarkers disables x-resolved-from/x-resolved-at by default.
	NoMarkers bool

	// Input limits.
	MaxInlineBytes  int64
	AllowPrivateIPs bool

	// Parse cache.
	CacheEnabled bool
	CacheMaxSize int
	CacheFileTTL time.Duration
	CacheURLTTL  time.Duration
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASREF_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		ConflictStrategy: envStrategy("OASREF_CONFLICT_STRATEGY", joiner.StrategyRename),
		MaxJoinSpecs:     envInt("OASREF_MAX_JOIN_SPECS", 20),
		NoMarkers:        envBool("OASREF_NO_MARKERS", false),
		MaxInlineBytes:   int64(envInt("OASREF_MAX_INLINE_BYTES", 10<<20)),
		AllowPrivateIPs:  envBool("OASREF_ALLOW_PRIVATE_IPS", false),
		CacheEnabled:     envBool("OASREF_CACHE_ENABLED", true),
		CacheMaxSize:     envInt("OASREF_CACHE_MAX_SIZE", 10),
		CacheFileTTL:     envDuration("OASREF_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:      envDuration("OASREF_CACHE_URL_TTL", 5*time.Minute),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envStrategy(key string, fallback joiner.ConflictStrategy) joiner.ConflictStrategy {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if !joiner.IsValidStrategy(v) {
		slog.Warn("invalid strategy env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return joiner.ConflictStrategy(v)
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
