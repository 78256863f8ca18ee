package provider

import (
	"strconv"
	"strings"
	"time"
)

const baseBackoff = 1000 * time.Millisecond

// ComputeWait returns the wait before retry number attempt. The base policy
// is exponential (base * 2^(attempt-1)); a positive provider hint in seconds
// can only lengthen the wait, never shorten it.
func ComputeWait(attempt int, hintSeconds int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	wait := baseBackoff << uint(attempt-1)
	if hintSeconds > 0 {
		if hint := time.Duration(hintSeconds) * time.Second; hint > wait {
			wait = hint
		}
	}

	return wait
}

// ParseRetryAfter parses a Retry-After header value as whole seconds.
// Returns 0 when the header is absent or not a positive integer (the
// HTTP-date form is ignored and the exponential policy applies alone).
func ParseRetryAfter(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}

	return seconds
}
