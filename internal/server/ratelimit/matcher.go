package ratelimit

import "strings"

// MatchEndpoint finds the config governing a path and method. Exact path
// matches win over prefix matches; a config whose path ends in "/" matches
// everything under that prefix. The health check is always unlimited.
// Returns nil when no config applies, which means the default limit.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	for i := range configs {
		if configs[i].Method != method || !strings.HasSuffix(configs[i].Path, "/") {
			continue
		}
		if strings.HasPrefix(path, configs[i].Path) {
			return &configs[i]
		}
	}

	return nil
}
