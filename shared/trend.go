package shared

// TrendCondition represents the classified trend condition of a symbol.
type TrendCondition int

const (
	NeutralTrend TrendCondition = iota
	Trending
	Ranging
)

// String stringifies the provided trend condition.
func (c TrendCondition) String() string {
	switch c {
	case NeutralTrend:
		return "Neutral"
	case Trending:
		return "Trending"
	case Ranging:
		return "Ranging"
	default:
		return "unknown"
	}
}

// TrendStrength represents the strength of a classified trend.
type TrendStrength int

const (
	UndeterminedStrength TrendStrength = iota
	Weak
	Moderate
	Strong
)

// String stringifies the provided trend strength.
func (s TrendStrength) String() string {
	switch s {
	case UndeterminedStrength:
		return "N/A"
	case Weak:
		return "Weak"
	case Moderate:
		return "Moderate"
	case Strong:
		return "Strong"
	default:
		return "unknown"
	}
}

// TrendAssessment represents a trend classification.
type TrendAssessment struct {
	Condition TrendCondition
	Strength  TrendStrength
}

// String stringifies the provided trend assessment.
func (a TrendAssessment) String() string {
	return a.Condition.String() + " (" + a.Strength.String() + ")"
}

// MarketCondition represents the broad market condition derived from the market
// benchmark.
type MarketCondition int

const (
	UnknownMarket MarketCondition = iota
	TrendingMarket
	RangingMarket
	NeutralMarket
)

// String stringifies the provided market condition.
func (m MarketCondition) String() string {
	switch m {
	case UnknownMarket:
		return "Unknown"
	case TrendingMarket:
		return "Trending"
	case RangingMarket:
		return "Ranging"
	case NeutralMarket:
		return "Neutral"
	default:
		return "unknown"
	}
}
