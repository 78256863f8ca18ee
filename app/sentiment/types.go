package sentiment

import "context"

const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
)

// Result is the outcome of analyzing a piece of text. Label is one of the
// three canonical labels and Score is normalized to [0.0, 1.0].
type Result struct {
	Label string
	Score float64
}

// Analyzer produces a sentiment result for a piece of text. Implementations
// must return a neutral result for blank input instead of an error.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Result, error)
}

// SentenceScorer rates a single sentence on the five point scale, 0 (very
// negative) through 4 (very positive).
type SentenceScorer interface {
	ScoreSentence(sentence string) int
}
