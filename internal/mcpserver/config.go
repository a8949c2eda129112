package mcpserver

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-refgraph/refgraph/dereference"
)

// serverConfig holds all configurable MCP server defaults, loaded once at
// startup from REFGRAPH_* environment variables.
type serverConfig struct {
	HTTPTimeout     time.Duration
	MaxRedirects    int
	CircularPolicy  dereference.CircularPolicy
	ContinueOnError bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from REFGRAPH_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		HTTPTimeout:     envDuration("REFGRAPH_HTTP_TIMEOUT", 30*time.Second),
		MaxRedirects:    envInt("REFGRAPH_MAX_REDIRECTS", 10),
		CircularPolicy:  envCircularPolicy("REFGRAPH_CIRCULAR_POLICY", dereference.CircularReject),
		ContinueOnError: envBool("REFGRAPH_CONTINUE_ON_ERROR", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
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
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func envCircularPolicy(key string, fallback dereference.CircularPolicy) dereference.CircularPolicy {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	policy, err := parseCircularPolicy(v)
	if err != nil {
		slog.Warn("invalid circular policy env var, using default", "key", key, "value", v)
		return fallback
	}
	return policy
}

// parseCircularPolicy maps a REFGRAPH_CIRCULAR_POLICY / circular_policy
// tool-input value to its dereference.CircularPolicy constant.
func parseCircularPolicy(v string) (dereference.CircularPolicy, error) {
	switch v {
	case "reject":
		return dereference.CircularReject, nil
	case "share":
		return dereference.CircularShare, nil
	case "ignore":
		return dereference.CircularIgnore, nil
	default:
		return 0, fmt.Errorf("mcpserver: invalid circular policy %q (want reject, share, or ignore)", v)
	}
}
