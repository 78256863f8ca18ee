package sentiment

import (
	"context"
	"testing"
)

// stubScorer returns preset ordinals in order, defaulting to neutral.
type stubScorer struct {
	ordinals []int
	calls    int
}

func (s *stubScorer) ScoreSentence(sentence string) int {
	if s.calls >= len(s.ordinals) {
		return 2
	}
	ordinal := s.ordinals[s.calls]
	s.calls++
	return ordinal
}

func TestAnalyze_BlankText(t *testing.T) {
	analyzer := NewEngineAnalyzer(&stubScorer{})

	for _, text := range []string{"", "   ", "\n\t"} {
		result, err := analyzer.Analyze(context.Background(), text)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if result.Label != LabelNeutral || result.Score != 0.5 {
			t.Errorf("Expected neutral 0.5 for blank text %q, got %s %v", text, result.Label, result.Score)
		}
	}
}

func TestAnalyze_Aggregation(t *testing.T) {
	cases := []struct {
		name          string
		text          string
		ordinals      []int
		expectedLabel string
		expectedScore float64
	}{
		{"single very positive", "Great news!", []int{4}, LabelPositive, 1.0},
		{"half rounds up to positive", "One. Two.", []int{3, 2}, LabelPositive, 0.75},
		{"half rounds up to neutral", "One. Two.", []int{1, 2}, LabelNeutral, 0.5},
		{"negative average", "One. Two.", []int{0, 1}, LabelNegative, 0.25},
		{"rounds down below half", "One. Two. Three.", []int{2, 2, 3}, LabelNeutral, 0.5},
		{"punctuation only", "...", nil, LabelNeutral, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := NewEngineAnalyzer(&stubScorer{ordinals: tc.ordinals})

			result, err := analyzer.Analyze(context.Background(), tc.text)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if result.Label != tc.expectedLabel {
				t.Errorf("Expected label %q, got %q", tc.expectedLabel, result.Label)
			}
			if result.Score != tc.expectedScore {
				t.Errorf("Expected score %v, got %v", tc.expectedScore, result.Score)
			}
		})
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	analyzer := NewEngineAnalyzer(&stubScorer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Analyze(ctx, "Some sentence.")
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestLexiconScorer(t *testing.T) {
	scorer := NewLexiconScorer()

	cases := []struct {
		sentence string
		expected int
	}{
		{"The rally was a great success", 4},
		{"Markets improve slightly", 3},
		{"The committee met on Tuesday", 2},
		{"Shares drop after the report", 1},
		{"Crash causes terrible loss", 0},
		{"A strong recovery after the crash", 2},
	}

	for _, tc := range cases {
		if got := scorer.ScoreSentence(tc.sentence); got != tc.expected {
			t.Errorf("ScoreSentence(%q) = %d, expected %d", tc.sentence, got, tc.expected)
		}
	}
}

func TestKeywordScorer(t *testing.T) {
	scorer := NewKeywordScorer()

	cases := []struct {
		sentence string
		expected int
	}{
		{"I love this", 4},
		{"This is AWESOME", 4},
		{"This is terrible", 0},
		{"Nothing to report", 2},
		{"Good product, awful support", 2},
	}

	for _, tc := range cases {
		if got := scorer.ScoreSentence(tc.sentence); got != tc.expected {
			t.Errorf("ScoreSentence(%q) = %d, expected %d", tc.sentence, got, tc.expected)
		}
	}
}
