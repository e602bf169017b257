package engine

import "github.com/dnldd/setupwatch/shared"

const (
	// trendingADXThreshold is the adx above which a symbol trading above its trend
	// reference is trending.
	trendingADXThreshold = 25
	// rangingADXThreshold is the adx below which a symbol is ranging.
	rangingADXThreshold = 20
)

// ClassifyTrend classifies the trend condition from the provided adx, trend reference
// moving average and close price. Any absent reading yields a neutral assessment of
// undetermined strength.
//
// Only trending up is distinguished: a high adx with price below the reference is
// classified as ranging or neutral.
func ClassifyTrend(adx shared.Reading, ema shared.Reading, close shared.Reading) shared.TrendAssessment {
	adxValue, adxOK := adx.Value()
	emaValue, emaOK := ema.Value()
	closeValue, closeOK := close.Value()
	if !adxOK || !emaOK || !closeOK {
		return shared.TrendAssessment{Condition: shared.NeutralTrend, Strength: shared.UndeterminedStrength}
	}

	switch {
	case adxValue > trendingADXThreshold && closeValue > emaValue:
		return shared.TrendAssessment{Condition: shared.Trending, Strength: shared.Strong}
	case adxValue < rangingADXThreshold:
		return shared.TrendAssessment{Condition: shared.Ranging, Strength: shared.Weak}
	default:
		return shared.TrendAssessment{Condition: shared.NeutralTrend, Strength: shared.Moderate}
	}
}
