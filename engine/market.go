package engine

import "github.com/dnldd/setupwatch/shared"

// ClassifyMarket classifies the broad market condition from the benchmark snapshot.
// The market condition is context for alerts and never gates a decision.
func ClassifyMarket(snapshot *shared.IndicatorSnapshot) shared.MarketCondition {
	if snapshot == nil {
		return shared.UnknownMarket
	}

	adx, adxOK := snapshot.ADX.Value()
	rsi, rsiOK := snapshot.RSI.Value()
	macd, macdOK := snapshot.MACD.Value()
	signal, signalOK := snapshot.MACDSignal.Value()
	if !adxOK || !rsiOK || !macdOK || !signalOK {
		return shared.UnknownMarket
	}

	spread := macd - signal
	switch {
	case adx > 25 && macd > signal:
		return shared.TrendingMarket
	case adx < 20 && rsi >= -60 && rsi <= 60:
		return shared.RangingMarket
	case spread > -2 && spread < 2:
		return shared.NeutralMarket
	default:
		return shared.UnknownMarket
	}
}
