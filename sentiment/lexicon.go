package sentiment

import (
	"strings"
	"unicode"
)

// lexicon maps headline words to their polarity in [-1, 1].
var lexicon = map[string]float64{
	"beat": 0.6, "beats": 0.6, "surge": 0.7, "surges": 0.7, "soar": 0.8, "soars": 0.8,
	"rally": 0.6, "rallies": 0.6, "gain": 0.5, "gains": 0.5, "jump": 0.6, "jumps": 0.6,
	"record": 0.4, "strong": 0.5, "growth": 0.5, "upgrade": 0.6, "upgraded": 0.6,
	"bullish": 0.7, "profit": 0.4, "profits": 0.4, "rise": 0.4, "rises": 0.4,
	"higher": 0.3, "outperform": 0.6, "buy": 0.3, "boost": 0.5, "boosts": 0.5,
	"optimistic": 0.6, "win": 0.5, "wins": 0.5, "positive": 0.5, "good": 0.7,
	"great": 0.8, "best": 1.0,

	"miss": -0.5, "misses": -0.5, "plunge": -0.8, "plunges": -0.8, "fall": -0.4,
	"falls": -0.4, "drop": -0.5, "drops": -0.5, "slump": -0.7, "slumps": -0.7,
	"decline": -0.5, "declines": -0.5, "weak": -0.5, "downgrade": -0.6,
	"downgraded": -0.6, "bearish": -0.7, "loss": -0.5, "losses": -0.5, "lower": -0.3,
	"lawsuit": -0.6, "probe": -0.4, "recall": -0.5, "cut": -0.4, "cuts": -0.4,
	"fear": -0.6, "fears": -0.6, "crash": -0.9, "sell": -0.3, "selloff": -0.7,
	"warning": -0.5, "warns": -0.5, "tumble": -0.7, "tumbles": -0.7, "negative": -0.5,
	"bad": -0.7, "worst": -1.0,
}

// negations flip the polarity of the word that follows them.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "without": {},
}

// negationFactor scales a negated word's polarity.
const negationFactor = -0.5

// tokenize splits the provided text into lowercase words.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// Polarity scores the provided text as the mean polarity of its sentiment bearing
// words, in [-1, 1]. Text without sentiment bearing words scores zero.
func Polarity(text string) float64 {
	var sum float64
	var matched int
	negated := false
	for _, word := range tokenize(text) {
		if _, ok := negations[word]; ok {
			negated = true
			continue
		}

		score, ok := lexicon[word]
		if !ok {
			continue
		}

		if negated {
			score *= negationFactor
			negated = false
		}

		sum += score
		matched++
	}

	if matched == 0 {
		return 0
	}

	return sum / float64(matched)
}
