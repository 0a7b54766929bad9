package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig sets the limit for a specific endpoint. A Path ending
// in "/" matches as a prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per window; <= 0 means unlimited
	Window time.Duration
	Burst  int           // burst capacity, defaults to Limit when 0
}

// LoadConfig reads rate limiting configuration from the environment.
func LoadConfig() *Config {
	enabled := envBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Interview
// turns drive model calls, so they get the tightest budget.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed endpoints.
		{Path: "/interview/start", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/interview/", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},

		// Payment initiation.
		{Path: "/checkout", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},

		// Write operations.
		{Path: "/schools", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/schools/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/schools/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/me/saved-schools/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/me/saved-schools/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/reports", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/interview-info/requests", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// Reads fall through to the default limit; /health is exempt
		// in the matcher.
	}
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
