package provider

import (
	"testing"
	"time"
)

func TestComputeWait_Exponential(t *testing.T) {
	cases := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 1000 * time.Millisecond},
		{2, 2000 * time.Millisecond},
		{3, 4000 * time.Millisecond},
		{4, 8000 * time.Millisecond},
		{5, 16000 * time.Millisecond},
	}

	for _, c := range cases {
		if got := ComputeWait(c.attempt, 0); got != c.expected {
			t.Errorf("ComputeWait(%d, 0) = %v, expected %v", c.attempt, got, c.expected)
		}
	}
}

func TestComputeWait_HintNeverShortens(t *testing.T) {
	// Hint below the exponential value: exponential wins.
	if got := ComputeWait(3, 1); got != 4000*time.Millisecond {
		t.Errorf("ComputeWait(3, 1) = %v, expected 4s", got)
	}

	// Hint above the exponential value: hint wins.
	if got := ComputeWait(1, 5); got != 5*time.Second {
		t.Errorf("ComputeWait(1, 5) = %v, expected 5s", got)
	}

	// Max of both for every attempt.
	for attempt := 1; attempt <= 5; attempt++ {
		exponential := ComputeWait(attempt, 0)
		withHint := ComputeWait(attempt, 3)
		expected := exponential
		if 3*time.Second > expected {
			expected = 3 * time.Second
		}
		if withHint != expected {
			t.Errorf("ComputeWait(%d, 3) = %v, expected %v", attempt, withHint, expected)
		}
	}
}

func TestComputeWait_InvalidAttemptClamped(t *testing.T) {
	if got := ComputeWait(0, 0); got != 1000*time.Millisecond {
		t.Errorf("ComputeWait(0, 0) = %v, expected 1s", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	cases := []struct {
		value    string
		expected int
	}{
		{"5", 5},
		{" 10 ", 10},
		{"", 0},
		{"-3", 0},
		{"soon", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
	}

	for _, c := range cases {
		if got := ParseRetryAfter(c.value); got != c.expected {
			t.Errorf("ParseRetryAfter(%q) = %d, expected %d", c.value, got, c.expected)
		}
	}
}
