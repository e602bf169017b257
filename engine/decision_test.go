package engine

import (
	"errors"
	"testing"

	"github.com/dnldd/setupwatch/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
)

func testProfile() *shared.StockProfile {
	return &shared.StockProfile{
		Symbol:          "AAPL",
		Exchange:        "NASDAQ",
		RSIOverbought:   70,
		RSIOversold:     30,
		ADXThreshold:    25,
		VolumeThreshold: 100000,
	}
}

func testSnapshot(rsi, macd, signal, adx float64) *shared.IndicatorSnapshot {
	return &shared.IndicatorSnapshot{
		Symbol:     "AAPL",
		Timeframe:  shared.FiveMinute,
		Close:      shared.NewReading(100),
		RSI:        shared.NewReading(rsi),
		MACD:       shared.NewReading(macd),
		MACDSignal: shared.NewReading(signal),
		ADX:        shared.NewReading(adx),
	}
}

func TestDecide(t *testing.T) {
	profile := testProfile()

	tests := []struct {
		name     string
		snapshot *shared.IndicatorSnapshot
		want     shared.SetupDecision
	}{
		{
			name:     "overbought with bullish macd",
			snapshot: testSnapshot(72, 1.5, 1.0, 28),
			want:     shared.NewTradeDecision(shared.Call),
		},
		{
			name:     "oversold with bearish macd",
			snapshot: testSnapshot(28, -1.2, -0.5, 26),
			want:     shared.NewTradeDecision(shared.Put),
		},
		{
			name:     "thresholds are inclusive",
			snapshot: testSnapshot(70, 1, 0.5, 25),
			want:     shared.NewTradeDecision(shared.Call),
		},
		{
			name:     "overbought with bearish macd",
			snapshot: testSnapshot(75, 0.5, 1.0, 30),
			want:     shared.NoDecision(),
		},
		{
			name:     "adx just below threshold flags near setup",
			snapshot: testSnapshot(69, 1.0, 0.8, 24),
			want:     shared.NewNearSetupDecision(shared.Call),
		},
		{
			name:     "rsi within tolerance of oversold flags near setup",
			snapshot: testSnapshot(32, -1, -0.5, 25),
			want:     shared.NewNearSetupDecision(shared.Put),
		},
		{
			name:     "adx at the tolerance edge flags near setup",
			snapshot: testSnapshot(68, 1, 0.5, 23),
			want:     shared.NewNearSetupDecision(shared.Call),
		},
		{
			name:     "adx beyond tolerance",
			snapshot: testSnapshot(72, 1, 0.5, 22.9),
			want:     shared.NoDecision(),
		},
		{
			name:     "rsi beyond tolerance",
			snapshot: testSnapshot(67.9, 1, 0.5, 30),
			want:     shared.NoDecision(),
		},
		{
			name:     "flat macd never qualifies",
			snapshot: testSnapshot(80, 1, 1, 40),
			want:     shared.NoDecision(),
		},
	}

	for _, test := range tests {
		got, err := Decide(test.snapshot, profile, shared.TrendAssessment{})
		assert.NoError(t, err)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: unexpected decision (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestDecideMissingReadings(t *testing.T) {
	profile := testProfile()

	// Ensure any absent required reading yields no setup with a diagnostic.
	modifiers := map[string]func(s *shared.IndicatorSnapshot){
		"close":       func(s *shared.IndicatorSnapshot) { s.Close = shared.Reading{} },
		"rsi":         func(s *shared.IndicatorSnapshot) { s.RSI = shared.Reading{} },
		"macd":        func(s *shared.IndicatorSnapshot) { s.MACD = shared.Reading{} },
		"macd signal": func(s *shared.IndicatorSnapshot) { s.MACDSignal = shared.Reading{} },
		"adx":         func(s *shared.IndicatorSnapshot) { s.ADX = shared.Reading{} },
	}

	for field, modify := range modifiers {
		snapshot := testSnapshot(72, 1.5, 1.0, 28)
		modify(snapshot)

		decision, err := Decide(snapshot, profile, shared.TrendAssessment{})
		assert.Equal(t, decision, shared.NoDecision())

		var missingErr *MissingReadingsError
		assert.True(t, errors.As(err, &missingErr))
		assert.Equal(t, missingErr.Fields, []string{field})
		assert.Equal(t, missingErr.Symbol, "AAPL")
	}

	// Ensure a missing snapshot is handled.
	decision, err := Decide(nil, profile, shared.TrendAssessment{})
	assert.Equal(t, decision, shared.NoDecision())
	assert.Error(t, err)
}

func TestDecideDirectionInvariant(t *testing.T) {
	profile := testProfile()

	// Ensure actionable decisions always carry a direction and no setup never does.
	for _, rsi := range []float64{10, 28, 30, 32, 33, 50, 67, 68, 70, 90} {
		for _, adx := range []float64{10, 22, 23, 25, 40} {
			for _, spread := range []float64{-1, 0, 1} {
				decision, err := Decide(testSnapshot(rsi, spread, 0, adx), profile, shared.TrendAssessment{})
				assert.NoError(t, err)

				switch decision.Kind {
				case shared.TradeSetup, shared.NearSetup:
					assert.True(t, decision.Direction != shared.NoDirection)
				case shared.NoSetup:
					assert.Equal(t, decision.Direction, shared.NoDirection)
				}
			}
		}
	}
}

func TestDecideTradeSuppressesNearSetup(t *testing.T) {
	// Ensure readings that satisfy both the strict and the relaxed conditions resolve to
	// a trade only.
	decision, err := Decide(testSnapshot(80, 2, 1, 40), testProfile(), shared.TrendAssessment{})
	assert.NoError(t, err)
	assert.Equal(t, decision.Kind, shared.TradeSetup)
}

func TestMissingReadingsErrorString(t *testing.T) {
	err := &MissingReadingsError{Symbol: "TSLA", Fields: []string{"rsi", "adx"}}
	assert.Equal(t, err.Error(), "TSLA: missing readings required to decide: rsi, adx")
}
