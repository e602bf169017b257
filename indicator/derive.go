package indicator

import (
	"github.com/dnldd/setupwatch/shared"
)

// DeriveConfig represents the lookbacks used when deriving missing readings.
type DeriveConfig struct {
	// ATRPeriod is the average true range lookback in bars.
	ATRPeriod int
	// LevelWindow is the support and resistance lookback in bars.
	LevelWindow int
}

// Fill returns a copy of the provided snapshot with absent average true range, support
// and resistance readings derived from the provided price history. Provider supplied
// readings always take priority over derived ones. Readings a setup decision depends on
// are never derived, an absent decision reading stays absent.
func Fill(snapshot *shared.IndicatorSnapshot, candles []shared.Candlestick, cfg DeriveConfig) *shared.IndicatorSnapshot {
	filled := snapshot.Clone()
	if len(candles) == 0 {
		return filled
	}

	if !filled.ATR.IsSet() {
		filled.ATR = ATR(candles, cfg.ATRPeriod)
	}

	if !filled.Support.IsSet() || !filled.Resistance.IsSet() {
		support, resistance := SupportResistance(candles, cfg.LevelWindow)
		if !filled.Support.IsSet() {
			filled.Support = support
		}
		if !filled.Resistance.IsSet() {
			filled.Resistance = resistance
		}
	}

	return filled
}
