package sentiment

import (
	"strings"
	"unicode"
)

var positiveWords = map[string]bool{
	"amazing": true, "awesome": true, "beat": true, "best": true,
	"boost": true, "breakthrough": true, "celebrate": true, "excellent": true,
	"gain": true, "good": true, "great": true, "growth": true,
	"happy": true, "hope": true, "improve": true, "love": true,
	"optimistic": true, "profit": true, "progress": true, "rally": true,
	"record": true, "recover": true, "strong": true, "succeed": true,
	"success": true, "surge": true, "thrive": true, "win": true,
}

var negativeWords = map[string]bool{
	"attack": true, "awful": true, "bad": true, "collapse": true,
	"crash": true, "crisis": true, "damage": true, "death": true,
	"decline": true, "disaster": true, "drop": true, "fail": true,
	"failure": true, "fear": true, "fraud": true, "hate": true,
	"kill": true, "lose": true, "loss": true, "plunge": true,
	"recession": true, "scandal": true, "terrible": true, "threat": true,
	"war": true, "weak": true, "worst": true, "worry": true,
}

// LexiconScorer rates a sentence by counting hits against small positive and
// negative word lists. A sentence starts at the neutral ordinal 2 and moves
// one step per point of imbalance between the two counts.
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

func (s *LexiconScorer) ScoreSentence(sentence string) int {
	positive := 0
	negative := 0
	for _, token := range tokenize(sentence) {
		if positiveWords[token] {
			positive++
		}
		if negativeWords[token] {
			negative++
		}
	}
	return clampOrdinal(2 + positive - negative)
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
