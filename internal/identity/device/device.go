// Package device turns raw User-Agent strings into the short display names
// used when logging successful logins.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent produces a human-readable "Browser on Platform" name from a
// raw User-Agent header. Unknown agents still yield a non-empty name.
func ParseUserAgent(rawUA string) string {
	if rawUA == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	platform := ua.OS()
	if platform == "" {
		platform = ua.Platform()
	}
	if platform == "" {
		platform = "Unknown Platform"
	}

	return strings.Join([]string{browser, "on", platform}, " ")
}
