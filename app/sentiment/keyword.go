package sentiment

import "strings"

var positivePhrases = []string{"good", "love", "great", "awesome"}

var negativePhrases = []string{"bad", "hate", "terrible", "awful"}

// KeywordScorer is a coarse rule-based scorer. Any positive phrase hit pushes
// a sentence to very positive, any negative phrase hit to very negative, and
// a sentence matching both sides or neither stays neutral.
type KeywordScorer struct{}

func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

func (s *KeywordScorer) ScoreSentence(sentence string) int {
	lower := strings.ToLower(sentence)

	positive := containsAny(lower, positivePhrases)
	negative := containsAny(lower, negativePhrases)

	switch {
	case positive && !negative:
		return 4
	case negative && !positive:
		return 0
	default:
		return 2
	}
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
