package shared

import "time"

// IndicatorSnapshot represents the technical readings of a symbol on a single timeframe
// at a point in time. Snapshots are created fresh every evaluation cycle and are not
// mutated once created.
type IndicatorSnapshot struct {
	Symbol    string
	Timeframe Timeframe
	Date      time.Time

	Close      Reading
	RSI        Reading
	MACD       Reading
	MACDSignal Reading
	ADX        Reading
	Volume     Reading
	ATR        Reading
	EMA50      Reading
	Support    Reading
	Resistance Reading
}

// Clone returns a copy of the snapshot.
func (s *IndicatorSnapshot) Clone() *IndicatorSnapshot {
	c := *s
	return &c
}

// MissingDecisionFields returns the names of the readings required for a setup
// decision that are absent from the snapshot.
func (s *IndicatorSnapshot) MissingDecisionFields() []string {
	fields := []struct {
		name    string
		reading Reading
	}{
		{"close", s.Close},
		{"rsi", s.RSI},
		{"macd", s.MACD},
		{"macd signal", s.MACDSignal},
		{"adx", s.ADX},
	}

	var missing []string
	for _, f := range fields {
		if !f.reading.IsSet() {
			missing = append(missing, f.name)
		}
	}

	return missing
}

// Bundle maps timeframes to the snapshots of a single symbol at one point in time.
type Bundle map[Timeframe]*IndicatorSnapshot

// IsEmpty returns whether the bundle holds no snapshots.
func (b Bundle) IsEmpty() bool {
	return len(b) == 0
}

// Snapshot returns the snapshot for the provided timeframe.
func (b Bundle) Snapshot(timeframe Timeframe) (*IndicatorSnapshot, bool) {
	snapshot, ok := b[timeframe]
	if !ok || snapshot == nil {
		return nil, false
	}

	return snapshot, true
}
