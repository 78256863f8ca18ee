package article

import (
	"net/url"
	"strings"
)

// IsValidExternalURL reports whether raw is storable as an article or image
// URL. Placeholders (empty, "#", "about:blank") and the reserved example
// domain are rejected; only absolute http/https URLs pass.
func IsValidExternalURL(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}

	lower := strings.ToLower(trimmed)
	if lower == "#" || lower == "about:blank" {
		return false
	}
	if strings.Contains(lower, "example.com") {
		return false
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}
