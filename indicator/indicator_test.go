package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/dnldd/setupwatch/shared"
	"github.com/peterldowns/testy/assert"
)

// generateCandles creates n ascending five minute candles, each with a high-low range of
// two around a close that rises by step per bar.
func generateCandles(n int, start float64, step float64) []shared.Candlestick {
	date := time.Date(2025, 2, 4, 9, 30, 0, 0, time.UTC)
	candles := make([]shared.Candlestick, n)
	for idx := 0; idx < n; idx++ {
		price := start + float64(idx)*step
		candles[idx] = shared.Candlestick{
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000,
			Date:      date.Add(time.Minute * 5 * time.Duration(idx)),
			Symbol:    "AAPL",
			Timeframe: shared.FiveMinute,
		}
	}

	return candles
}

func TestATR(t *testing.T) {
	// Ensure insufficient data yields an absent reading.
	atr := ATR(generateCandles(13, 100, 0), DefaultATRPeriod)
	assert.False(t, atr.IsSet())
	assert.False(t, ATR(nil, DefaultATRPeriod).IsSet())

	// Ensure flat candles have an average true range of their high-low range.
	atr = ATR(generateCandles(14, 100, 0), DefaultATRPeriod)
	value, ok := atr.Value()
	assert.True(t, ok)
	assert.Equal(t, value, float64(2))

	// Ensure gaps from the previous close widen the true range.
	candles := generateCandles(20, 100, 0)
	candles[19].High = 110
	candles[19].Low = 108
	candles[19].Close = 109
	value, ok = ATR(candles, DefaultATRPeriod).Value()
	assert.True(t, ok)
	// Thirteen bars with a range of 2 and one with a true range of 110-100=10.
	assert.Equal(t, value, (13*2+10)/float64(14))

	// Ensure a non-positive period falls back to the default.
	assert.True(t, ATR(generateCandles(14, 100, 0), 0).IsSet())
	assert.False(t, ATR(generateCandles(13, 100, 0), -1).IsSet())
}

func TestATRNeverNegative(t *testing.T) {
	// Ensure inverted high-low data cannot produce a negative reading.
	candles := generateCandles(30, 100, -1.5)
	for idx := range candles {
		candles[idx].High, candles[idx].Low = candles[idx].Low, candles[idx].High
	}

	for period := 1; period <= 30; period++ {
		value, ok := ATR(candles, period).Value()
		assert.True(t, ok)
		assert.GreaterThanOrEqual(t, value, float64(0))
	}
}

func TestTrueRange(t *testing.T) {
	candle := &shared.Candlestick{High: 12, Low: 10}
	tests := []struct {
		name      string
		prevClose float64
		want      float64
	}{
		{"previous close inside range", 11, 2},
		{"gap up from previous close", 5, 7},
		{"gap down from previous close", 15, 5},
	}

	for _, test := range tests {
		got := TrueRange(candle, test.prevClose)
		if got != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, got)
		}
	}
}

func TestSupportResistance(t *testing.T) {
	// Ensure insufficient data yields absent readings.
	support, resistance := SupportResistance(generateCandles(9, 100, 1), DefaultLevelWindow)
	assert.False(t, support.IsSet())
	assert.False(t, resistance.IsSet())

	// Ensure levels are evaluated over the most recent window only.
	candles := generateCandles(15, 100, 1)
	support, resistance = SupportResistance(candles, DefaultLevelWindow)
	supportValue, ok := support.Value()
	assert.True(t, ok)
	resistanceValue, ok := resistance.Value()
	assert.True(t, ok)

	// The window covers closes 105 through 114.
	assert.Equal(t, supportValue, float64(104))
	assert.Equal(t, resistanceValue, float64(115))

	tests := []struct {
		name           string
		window         int
		wantSupport    float64
		wantResistance float64
	}{
		{"single bar window", 1, 113, 115},
		{"two bar window", 2, 112, 115},
		{"window covering every bar", 15, 99, 115},
	}

	for _, test := range tests {
		support, resistance := SupportResistance(candles, test.window)
		supportValue, ok := support.Value()
		if !ok || supportValue != test.wantSupport {
			t.Errorf("%s: expected support %v, got %v", test.name, test.wantSupport, support)
		}
		resistanceValue, ok := resistance.Value()
		if !ok || resistanceValue != test.wantResistance {
			t.Errorf("%s: expected resistance %v, got %v", test.name, test.wantResistance, resistance)
		}
	}
}

func TestMACD(t *testing.T) {
	// Ensure insufficient data yields absent readings.
	macd, signal := MACD(shared.Closes(generateCandles(33, 100, 1)))
	assert.False(t, macd.IsSet())
	assert.False(t, signal.IsSet())

	// Ensure the shortest series seeding the signal line yields readings.
	macd, signal = MACD(shared.Closes(generateCandles(34, 100, 1)))
	assert.True(t, macd.IsSet())
	assert.True(t, signal.IsSet())

	// Ensure a steadily rising series has a positive macd.
	macd, signal = MACD(shared.Closes(generateCandles(60, 100, 1)))
	assert.True(t, signal.IsSet())
	value, ok := macd.Value()
	assert.True(t, ok)
	assert.GreaterThan(t, value, float64(0))

	// Ensure a steadily falling series has a negative macd.
	macd, _ = MACD(shared.Closes(generateCandles(60, 200, -1)))
	value, ok = macd.Value()
	assert.True(t, ok)
	assert.LessThan(t, value, float64(0))
}

func TestEMA(t *testing.T) {
	assert.False(t, EMA(shared.Closes(generateCandles(49, 100, 0)), EMAReferencePeriod).IsSet())
	assert.False(t, EMA(shared.Closes(generateCandles(60, 100, 0)), 0).IsSet())

	// Ensure a flat series averages to its price.
	value, ok := EMA(shared.Closes(generateCandles(60, 100, 0)), EMAReferencePeriod).Value()
	assert.True(t, ok)
	assert.LessThan(t, math.Abs(value-100), 1e-9)
}

func TestFill(t *testing.T) {
	candles := generateCandles(60, 100, 0)
	cfg := DeriveConfig{ATRPeriod: DefaultATRPeriod, LevelWindow: DefaultLevelWindow}

	// Ensure absent metrics are derived from price history.
	snapshot := &shared.IndicatorSnapshot{
		Symbol:    "AAPL",
		Timeframe: shared.FiveMinute,
		Close:     shared.NewReading(100),
	}
	filled := Fill(snapshot, candles, cfg)
	assert.True(t, filled.ATR.IsSet())
	assert.True(t, filled.Support.IsSet())
	assert.True(t, filled.Resistance.IsSet())

	// Ensure decision readings and the trend reference are never derived.
	assert.False(t, filled.MACD.IsSet())
	assert.False(t, filled.MACDSignal.IsSet())
	assert.False(t, filled.RSI.IsSet())
	assert.False(t, filled.ADX.IsSet())
	assert.False(t, filled.EMA50.IsSet())

	// Ensure the original snapshot is left untouched.
	assert.False(t, snapshot.ATR.IsSet())
	assert.False(t, snapshot.Support.IsSet())

	// Ensure provider supplied readings take priority.
	snapshot = &shared.IndicatorSnapshot{
		ATR:     shared.NewReading(3.5),
		Support: shared.NewReading(90),
		MACD:    shared.NewReading(1.5),
		EMA50:   shared.NewReading(95),
	}
	filled = Fill(snapshot, candles, cfg)
	assert.Equal(t, filled.ATR.String(), "3.5")
	assert.Equal(t, filled.Support.String(), "90")
	assert.Equal(t, filled.Resistance.String(), "101")
	assert.Equal(t, filled.MACD.String(), "1.5")
	assert.False(t, filled.MACDSignal.IsSet())
	assert.Equal(t, filled.EMA50.String(), "95")

	// Ensure missing price history leaves readings absent.
	filled = Fill(&shared.IndicatorSnapshot{}, nil, cfg)
	assert.False(t, filled.ATR.IsSet())
	assert.False(t, filled.Support.IsSet())
}
