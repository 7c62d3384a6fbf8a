package scan

import (
	"net/url"
	"strings"
)

// IsProbableURL is the fixed heuristic deciding auto-open. It is not URL
// validation: "www.x" passes with no scheme and "example.com" does not.
func IsProbableURL(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "www.") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, "/") && strings.ContainsAny(s, "./")
}

// LaunchTarget returns the address handed to the launcher for s.
func LaunchTarget(s string) string {
	if strings.HasPrefix(s, "www.") {
		return "https://" + s
	}
	return s
}
