package shared

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/tidwall/gjson"
)

func TestParseCandlesticks(t *testing.T) {
	loc, err := time.LoadLocation(NewYorkLocation)
	assert.NoError(t, err)

	// Ensure candlesticks are parsed and sorted oldest first.
	data := `[
		{"date":"2025-02-04 15:10:00","open":11,"high":14,"low":10,"close":13,"volume":7},
		{"date":"2025-02-04 15:05:00","open":10,"high":15,"low":8,"close":12,"volume":5}
	]`
	candles, err := ParseCandlesticks(gjson.Parse(data).Array(), "AAPL", FiveMinute, loc)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 2)
	assert.Equal(t, candles[0].Close, float64(12))
	assert.Equal(t, candles[1].Close, float64(13))
	assert.Equal(t, candles[0].Symbol, "AAPL")
	assert.Equal(t, candles[0].Timeframe, FiveMinute)
	assert.True(t, candles[0].Date.Before(candles[1].Date))
	assert.Equal(t, Closes(candles)[1], float64(13))

	// Ensure malformed dates are rejected.
	bad := `[{"date":"04/02/2025","open":10,"high":15,"low":8,"close":12,"volume":5}]`
	_, err = ParseCandlesticks(gjson.Parse(bad).Array(), "AAPL", FiveMinute, loc)
	assert.Error(t, err)

	// Ensure a location is required.
	_, err = ParseCandlesticks(gjson.Parse(data).Array(), "AAPL", FiveMinute, nil)
	assert.Error(t, err)

	// Ensure empty data yields no candlesticks.
	candles, err = ParseCandlesticks(nil, "AAPL", FiveMinute, loc)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 0)
}
