package engine

import "github.com/dnldd/setupwatch/shared"

const (
	// baseWinProbability is the score every evaluation starts from.
	baseWinProbability = 50
	// maxWinProbability is the score ceiling.
	maxWinProbability = 100
	// minWinProbability is the score floor.
	minWinProbability = 0
)

// ScoreWinProbability returns an additive heuristic score in [0, 100] for the provided
// readings. Absent readings score as zero so a single missing indicator degrades the
// score instead of aborting the evaluation. The score is not a calibrated probability.
func ScoreWinProbability(rsi, macd, macdSignal, adx shared.Reading, condition shared.TrendCondition) int {
	rsiValue := rsi.OrZero()
	macdValue := macd.OrZero()
	signalValue := macdSignal.OrZero()
	adxValue := adx.OrZero()

	score := baseWinProbability

	if adxValue > 25 {
		score += 10
	}
	if adxValue > 40 {
		score += 10
	}

	if macdValue > signalValue {
		score += 10
	}

	switch {
	case rsiValue >= 40 && rsiValue <= 60:
		score += 5
	case rsiValue > 70 || rsiValue < 30:
		score += 10
	}

	switch condition {
	case shared.Trending:
		score += 10
	case shared.NeutralTrend:
		score -= 5
	}

	return min(max(score, minWinProbability), maxWinProbability)
}
