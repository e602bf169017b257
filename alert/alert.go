package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/dnldd/setupwatch/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// priceDecimals is the number of decimal places prices and indicators are rendered with.
	priceDecimals = 2
	// scoreDecimals is the number of decimal places sentiment scores are rendered with.
	scoreDecimals = 2
)

// Compose builds the alert message for the provided evaluation results, created at the
// provided time.
func Compose(profile *shared.StockProfile, decision shared.SetupDecision, snapshot *shared.IndicatorSnapshot, trend shared.TrendAssessment, winProbability int, now time.Time) *shared.Message {
	msg := &shared.Message{
		ID:              uuid.New().String(),
		Symbol:          profile.Symbol,
		Exchange:        profile.Exchange,
		Decision:        decision,
		CreatedOn:       now,
		RSIOverbought:   profile.RSIOverbought,
		RSIOversold:     profile.RSIOversold,
		ADXThreshold:    profile.ADXThreshold,
		VolumeThreshold: profile.VolumeThreshold,
		Trend:           trend,
		WinProbability:  winProbability,
	}

	if snapshot != nil {
		msg.Timeframe = snapshot.Timeframe
		msg.Close = snapshot.Close
		msg.Support = snapshot.Support
		msg.Resistance = snapshot.Resistance
		msg.RSI = snapshot.RSI
		msg.MACD = snapshot.MACD
		msg.MACDSignal = snapshot.MACDSignal
		msg.ADX = snapshot.ADX
		msg.ATR = snapshot.ATR
		msg.Volume = snapshot.Volume
	}

	return msg
}

// formatReading renders the provided reading rounded to the provided decimal places.
func formatReading(r shared.Reading, places int32) string {
	value, ok := r.Value()
	if !ok {
		return shared.Unavailable
	}

	return decimal.NewFromFloat(value).Round(places).String()
}

// formatThreshold renders the provided profile threshold.
func formatThreshold(value float64) string {
	return decimal.NewFromFloat(value).String()
}

// headline returns the alert headline for the provided decision.
func headline(msg *shared.Message) string {
	switch msg.Decision.Kind {
	case shared.TradeSetup:
		return fmt.Sprintf("🚀 Trade Alert for %s 🚀", msg.Symbol)
	case shared.NearSetup:
		return fmt.Sprintf("👀 Near Setup Alert for %s", msg.Symbol)
	default:
		return fmt.Sprintf("Evaluation for %s", msg.Symbol)
	}
}

// tradeType returns the displayed trade type. Underscores are avoided since
// they are markdown control characters.
func tradeType(decision shared.SetupDecision) string {
	switch decision.Kind {
	case shared.TradeSetup:
		return decision.Direction.String()
	case shared.NearSetup:
		return "NEAR SETUP " + decision.Direction.String()
	default:
		return decision.Kind.String()
	}
}

// Render renders the provided message as markdown text.
func Render(msg *shared.Message) string {
	var b strings.Builder

	b.WriteString(headline(msg))
	b.WriteString("\n")
	fmt.Fprintf(&b, "🔹 Trade Type: %s\n", tradeType(msg.Decision))
	fmt.Fprintf(&b, "📈 Close Price: $%s\n", formatReading(msg.Close, priceDecimals))
	fmt.Fprintf(&b, "🧱 Support: %s | Resistance: %s\n",
		formatReading(msg.Support, priceDecimals), formatReading(msg.Resistance, priceDecimals))
	b.WriteString("\n📊 Indicators:\n")
	fmt.Fprintf(&b, "    - RSI: %s (Overbought: %s / Oversold: %s)\n",
		formatReading(msg.RSI, priceDecimals), formatThreshold(msg.RSIOverbought),
		formatThreshold(msg.RSIOversold))
	fmt.Fprintf(&b, "    - MACD: %s | MACD Signal: %s\n",
		formatReading(msg.MACD, priceDecimals), formatReading(msg.MACDSignal, priceDecimals))
	fmt.Fprintf(&b, "    - ADX: %s (Threshold: %s)\n",
		formatReading(msg.ADX, priceDecimals), formatThreshold(msg.ADXThreshold))
	fmt.Fprintf(&b, "    - ATR: %s\n", formatReading(msg.ATR, priceDecimals))
	fmt.Fprintf(&b, "    - Volume: %s (Threshold: %s)\n",
		formatReading(msg.Volume, 0), formatThreshold(msg.VolumeThreshold))
	fmt.Fprintf(&b, "    - Trend Condition: %s\n", msg.Trend.String())
	fmt.Fprintf(&b, "    - Win Probability: %d%%\n", msg.WinProbability)

	if msg.Sentiment != nil {
		fmt.Fprintf(&b, "\n📰 News Sentiment: %s (%s)\n", msg.Sentiment.Label.String(),
			decimal.NewFromFloat(msg.Sentiment.Score).StringFixed(scoreDecimals))
	}

	if msg.Market != shared.UnknownMarket {
		fmt.Fprintf(&b, "🌐 Market Condition: %s\n", msg.Market.String())
	}

	return b.String()
}
