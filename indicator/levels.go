package indicator

import (
	"github.com/dnldd/setupwatch/shared"
	talib "github.com/markcheno/go-talib"
)

const (
	// DefaultLevelWindow is the default support and resistance lookback in bars.
	DefaultLevelWindow = 10
)

// SupportResistance returns the lowest low (support) and the highest high (resistance)
// over the last window bars of the provided ascending series. Both readings are absent
// when fewer than window bars exist.
func SupportResistance(candles []shared.Candlestick, window int) (shared.Reading, shared.Reading) {
	if window <= 0 {
		window = DefaultLevelWindow
	}
	if len(candles) < window {
		return shared.Reading{}, shared.Reading{}
	}

	recent := candles[len(candles)-window:]
	if window == 1 {
		// talib's rolling extremes need a period of at least two.
		return shared.NewReading(recent[0].Low), shared.NewReading(recent[0].High)
	}

	lows := make([]float64, len(recent))
	highs := make([]float64, len(recent))
	for idx := range recent {
		lows[idx] = recent[idx].Low
		highs[idx] = recent[idx].High
	}

	support := talib.Min(lows, window)
	resistance := talib.Max(highs, window)

	return shared.NewReading(support[len(support)-1]), shared.NewReading(resistance[len(resistance)-1])
}
