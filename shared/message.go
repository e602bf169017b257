package shared

import "time"

// Message represents a composed setup alert handed to a notifier.
type Message struct {
	ID        string
	Symbol    string
	Exchange  string
	Timeframe Timeframe
	Decision  SetupDecision
	CreatedOn time.Time

	Close      Reading
	Support    Reading
	Resistance Reading

	RSI           Reading
	RSIOverbought float64
	RSIOversold   float64

	MACD       Reading
	MACDSignal Reading

	ADX          Reading
	ADXThreshold float64

	ATR Reading

	Volume          Reading
	VolumeThreshold float64

	Trend          TrendAssessment
	WinProbability int

	// Optional context, never used to decide.
	Sentiment *Sentiment
	Market    MarketCondition
}

// DeliveryResult represents the outcome of a notification delivery.
type DeliveryResult struct {
	OK     bool
	Detail string
}
