package shared

// SentimentLabel represents the polarity label of news sentiment.
type SentimentLabel int

const (
	NeutralSentiment SentimentLabel = iota
	PositiveSentiment
	NegativeSentiment
)

// String stringifies the provided sentiment label.
func (l SentimentLabel) String() string {
	switch l {
	case NeutralSentiment:
		return "Neutral"
	case PositiveSentiment:
		return "Positive"
	case NegativeSentiment:
		return "Negative"
	default:
		return "unknown"
	}
}

const (
	// positiveSentimentThreshold is the score above which sentiment is positive.
	positiveSentimentThreshold = 0.2
	// negativeSentimentThreshold is the score below which sentiment is negative.
	negativeSentimentThreshold = -0.2
)

// Sentiment represents the news sentiment of a symbol.
type Sentiment struct {
	Label SentimentLabel
	Score float64
}

// NewSentiment labels the provided polarity score.
func NewSentiment(score float64) Sentiment {
	switch {
	case score > positiveSentimentThreshold:
		return Sentiment{Label: PositiveSentiment, Score: score}
	case score < negativeSentimentThreshold:
		return Sentiment{Label: NegativeSentiment, Score: score}
	default:
		return Sentiment{Label: NeutralSentiment, Score: score}
	}
}
