package ratelimit

import "strings"

// MatchEndpoint resolves a request path and method to an endpoint
// configuration. Exact matches win; configs whose Path ends in "/" act
// as prefix patterns. Returns nil when no configuration matches.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// Health probes are never limited.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		c := &configs[i]
		if c.Path == path && c.Method == method {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
