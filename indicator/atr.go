package indicator

import (
	"math"

	"github.com/dnldd/setupwatch/shared"
)

const (
	// DefaultATRPeriod is the default average true range lookback in bars.
	DefaultATRPeriod = 14
)

// TrueRange returns the true range of the provided bar given the previous bar's close.
func TrueRange(candle *shared.Candlestick, prevClose float64) float64 {
	highLow := math.Abs(candle.High - candle.Low)
	highPrevClose := math.Abs(candle.High - prevClose)
	lowPrevClose := math.Abs(candle.Low - prevClose)

	return math.Max(highLow, math.Max(highPrevClose, lowPrevClose))
}

// ATR returns the simple moving average of the true range over the last period bars
// of the provided ascending series. The reading is absent when fewer than period
// bars exist. The earliest bar of the series has no previous close and uses its
// high-low range as its true range.
func ATR(candles []shared.Candlestick, period int) shared.Reading {
	if period <= 0 {
		period = DefaultATRPeriod
	}
	if len(candles) < period {
		return shared.Reading{}
	}

	var sum float64
	for idx := len(candles) - period; idx < len(candles); idx++ {
		candle := &candles[idx]
		if idx == 0 {
			sum += math.Abs(candle.High - candle.Low)
			continue
		}

		sum += TrueRange(candle, candles[idx-1].Close)
	}

	return shared.NewReading(sum / float64(period))
}
