// Package urlutil normalizes endpoint URLs and reads parameters from a location.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// RemoveTrailingSlash strips one trailing "/" if present.
func RemoveTrailingSlash(u string) string {
	return strings.TrimSuffix(u, "/")
}

// NormalizeURL trims surrounding whitespace and removes one trailing slash.
func NormalizeURL(u string) string {
	return RemoveTrailingSlash(strings.TrimSpace(u))
}

// ParamValue returns the value of the named query or fragment parameter found
// in location, decoding "+" as a space. It reports false when location or name
// is empty, the parameter is not present, it has no value, or the value is not
// valid percent-encoding.
func ParamValue(location, name string) (string, bool) {
	if location == "" || name == "" {
		return "", false
	}

	re, err := regexp.Compile(`[?&#]` + regexp.QuoteMeta(name) + `(=([^&#]*)|&|#|$)`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(location)
	if m == nil || m[2] == "" {
		return "", false
	}

	val, err := url.PathUnescape(strings.ReplaceAll(m[2], "+", " "))
	if err != nil {
		return "", false
	}
	return val, true
}
