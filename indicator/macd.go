package indicator

import (
	"github.com/dnldd/setupwatch/shared"
	talib "github.com/markcheno/go-talib"
)

const (
	// MACD periods.
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9

	// EMAReferencePeriod is the period of the trend reference moving average.
	EMAReferencePeriod = 50
)

// MACD returns the latest macd line and signal line readings of the provided closes.
// Both readings are absent when there are not enough closes to seed the signal line.
func MACD(closes []float64) (shared.Reading, shared.Reading) {
	if len(closes) < MACDSlowPeriod+MACDSignalPeriod-1 {
		return shared.Reading{}, shared.Reading{}
	}

	macd, signal, _ := talib.Macd(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	last := len(closes) - 1

	return shared.NewReading(macd[last]), shared.NewReading(signal[last])
}

// EMA returns the latest exponential moving average reading of the provided closes.
func EMA(closes []float64, period int) shared.Reading {
	if period <= 0 || len(closes) < period {
		return shared.Reading{}
	}

	ema := talib.Ema(closes, period)
	return shared.NewReading(ema[len(ema)-1])
}
