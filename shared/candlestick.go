package shared

import (
	"fmt"
	"slices"
	"time"

	"github.com/tidwall/gjson"
)

// Candlestick represents a unit OHLCV bar for a symbol.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata fields.
	Symbol    string
	Timeframe Timeframe
}

// ParseCandlesticks parses candlesticks from the provided json data. The returned
// candlesticks are sorted in ascending order by date.
func ParseCandlesticks(data []gjson.Result, symbol string, timeframe Timeframe, loc *time.Location) ([]Candlestick, error) {
	if loc == nil {
		return nil, fmt.Errorf("location cannot be nil")
	}

	candles := make([]Candlestick, 0, len(data))
	for idx := range data {
		var candle Candlestick

		candle.Open = data[idx].Get("open").Float()
		candle.Low = data[idx].Get("low").Float()
		candle.High = data[idx].Get("high").Float()
		candle.Close = data[idx].Get("close").Float()
		candle.Volume = data[idx].Get("volume").Float()

		candle.Symbol = symbol
		candle.Timeframe = timeframe

		dt, err := time.ParseInLocation(DateLayout, data[idx].Get("date").String(), loc)
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date: %w", err)
		}

		candle.Date = dt
		candles = append(candles, candle)
	}

	slices.SortFunc(candles, func(a, b Candlestick) int {
		return a.Date.Compare(b.Date)
	})

	return candles, nil
}

// Closes returns the close prices of the provided candlesticks.
func Closes(candles []Candlestick) []float64 {
	closes := make([]float64, len(candles))
	for idx := range candles {
		closes[idx] = candles[idx].Close
	}

	return closes
}
