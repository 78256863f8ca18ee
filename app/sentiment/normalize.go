package sentiment

import (
	"strconv"
	"strings"
)

// NormalizeLabel maps the label variants produced by different engines onto
// the canonical three class set. It accepts verbose forms ("Very positive"),
// abbreviations ("pos", "NEG") and bare numeric scores, where values at or
// above 0.66 count as positive and values at or below 0.33 as negative.
// Anything unrecognized is treated as neutral.
func NormalizeLabel(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return LabelNeutral
	}

	if strings.Contains(s, "pos") {
		return LabelPositive
	}
	if strings.Contains(s, "neg") {
		return LabelNegative
	}

	if isPlainNumber(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			if v >= 0.66 {
				return LabelPositive
			}
			if v <= 0.33 {
				return LabelNegative
			}
		}
	}

	return LabelNeutral
}

// isPlainNumber reports whether s consists of digits with at most one decimal
// point. Signed and exponent forms are deliberately not accepted.
func isPlainNumber(s string) bool {
	seenDot := false
	seenDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.':
			if seenDot {
				return false
			}
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}
