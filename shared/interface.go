package shared

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
)

// IndicatorKind represents a provider computed technical indicator.
type IndicatorKind string

const (
	RSIIndicator IndicatorKind = "rsi"
	ADXIndicator IndicatorKind = "adx"
	EMAIndicator IndicatorKind = "ema"
)

// MarketFetcher defines the requirements for fetching raw market data.
type MarketFetcher interface {
	// FetchIntradayHistorical fetches intraday historical market data.
	FetchIntradayHistorical(ctx context.Context, symbol string, timeframe Timeframe, start time.Time, end time.Time) ([]gjson.Result, error)
	// FetchTechnicalIndicator fetches technical indicator data.
	FetchTechnicalIndicator(ctx context.Context, symbol string, kind IndicatorKind, period int, timeframe Timeframe) ([]gjson.Result, error)
}

// MarketDataProvider defines the requirements for providing normalized market data.
type MarketDataProvider interface {
	// Fetch fetches the snapshots of the provided profile's symbol for the provided
	// timeframes. An empty bundle signals no data is available for the symbol.
	Fetch(ctx context.Context, profile *StockProfile, timeframes []Timeframe) (Bundle, error)
	// FetchPriceHistory fetches the most recent n bars in ascending order.
	FetchPriceHistory(ctx context.Context, symbol string, timeframe Timeframe, n int) ([]Candlestick, error)
}

// Notifier defines the requirements for delivering alerts.
type Notifier interface {
	// Notify delivers the provided message.
	Notify(ctx context.Context, msg *Message) DeliveryResult
}

// SentimentProvider defines the requirements for fetching news sentiment.
type SentimentProvider interface {
	// Sentiment returns the current news sentiment for the provided symbol, defaulting
	// to a neutral sentiment when none is available.
	Sentiment(ctx context.Context, symbol string) Sentiment
}

// AlertStorer defines the requirements for journaling alerts.
type AlertStorer interface {
	// PersistAlert stores the provided alert and its delivery result.
	PersistAlert(ctx context.Context, msg *Message, result DeliveryResult) error
}
