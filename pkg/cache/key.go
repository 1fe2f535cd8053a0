package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies one logical tracker request.
type CacheKey struct {
	// Endpoint is the request URL or path (e.g., "https://api.tracker.gg/.../profile/steam/42")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"page": "1", "limit": "5"})
	QueryParams url.Values
}

// String generates the request identity: the endpoint followed by the query
// parameters sorted by name.
// Format: endpoint?param1=val1&param2=val2
//
// Example:
//
//	/matches/steam/42?limit=5&page=1
func (k CacheKey) String() string {
	if len(k.QueryParams) == 0 {
		return k.Endpoint
	}

	names := make([]string, 0, len(k.QueryParams))
	for name := range k.QueryParams {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		for _, value := range k.QueryParams[name] {
			parts = append(parts, fmt.Sprintf("%s=%s", name, value))
		}
	}

	return k.Endpoint + "?" + strings.Join(parts, "&")
}
