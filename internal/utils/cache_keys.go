package utils

import "strings"

const statsCacheKeyPrefix = "stats:summary:v1"

// BuildStatsCacheKey keys the cached dashboard summary by the requested trend source.
func BuildStatsCacheKey(trend string) string {
	return statsCacheKeyPrefix + ":trend=" + strings.ToLower(strings.TrimSpace(trend))
}
