package sentiment

import (
	"context"
	"log/slog"
	"math"
	"strings"
)

// EngineAnalyzer scores text sentence by sentence with a SentenceScorer and
// aggregates the per-sentence ordinals into a single three class result.
type EngineAnalyzer struct {
	scorer SentenceScorer
}

func NewEngineAnalyzer(scorer SentenceScorer) *EngineAnalyzer {
	return &EngineAnalyzer{scorer: scorer}
}

// Analyze averages the 0..4 sentence ordinals, rounding halves up, and maps
// the rounded average onto the coarse labels: 0 or 1 is negative, 2 is
// neutral, 3 or 4 is positive. Score is the rounded average divided by 4.
// Blank text yields a neutral result with score 0.5.
func (e *EngineAnalyzer) Analyze(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Label: LabelNeutral, Score: 0.5}, nil
	}

	total := 0
	count := 0
	for _, sentence := range splitSentences(text) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		total += clampOrdinal(e.scorer.ScoreSentence(sentence))
		count++
	}

	avg := 2
	if count > 0 {
		avg = int(math.Floor(float64(total)/float64(count) + 0.5))
	}

	result := Result{Label: ordinalLabel(avg), Score: float64(avg) / 4.0}
	slog.Debug("Analyzed text", "sentences", count, "label", result.Label, "score", result.Score)
	return result, nil
}

func ordinalLabel(avg int) string {
	switch {
	case avg <= 1:
		return LabelNegative
	case avg == 2:
		return LabelNeutral
	default:
		return LabelPositive
	}
}

func clampOrdinal(n int) int {
	if n < 0 {
		return 0
	}
	if n > 4 {
		return 4
	}
	return n
}

// splitSentences breaks text on terminal punctuation and drops blank
// fragments.
func splitSentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment != "" {
			sentences = append(sentences, fragment)
		}
	}
	return sentences
}
