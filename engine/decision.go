package engine

import (
	"fmt"
	"strings"

	"github.com/dnldd/setupwatch/shared"
)

const (
	// nearSetupTolerance is the threshold margin within which a near setup is flagged.
	nearSetupTolerance = 2
)

// MissingReadingsError is returned alongside a no setup decision when readings required
// to decide are absent.
type MissingReadingsError struct {
	Symbol string
	Fields []string
}

// Error implements the error interface.
func (e *MissingReadingsError) Error() string {
	return fmt.Sprintf("%s: missing readings required to decide: %s", e.Symbol,
		strings.Join(e.Fields, ", "))
}

// Decide resolves the provided decision timeframe snapshot into a trade, near setup or no
// setup decision against the profile's thresholds. The trend assessment is context only
// and does not gate the decision.
//
// When required readings are absent the decision is no setup and the returned error
// describes the missing readings. The decision is always usable.
func Decide(snapshot *shared.IndicatorSnapshot, profile *shared.StockProfile, trend shared.TrendAssessment) (shared.SetupDecision, error) {
	if snapshot == nil {
		return shared.NoDecision(), &MissingReadingsError{Symbol: profile.Symbol,
			Fields: []string{"snapshot"}}
	}

	missing := snapshot.MissingDecisionFields()
	if len(missing) > 0 {
		return shared.NoDecision(), &MissingReadingsError{Symbol: profile.Symbol, Fields: missing}
	}

	rsi := snapshot.RSI.OrZero()
	macd := snapshot.MACD.OrZero()
	signal := snapshot.MACDSignal.OrZero()
	adx := snapshot.ADX.OrZero()

	direction, ok := setupDirection(rsi, macd, signal, adx, profile, 0)
	if ok {
		return shared.NewTradeDecision(direction), nil
	}

	direction, ok = setupDirection(rsi, macd, signal, adx, profile, nearSetupTolerance)
	if ok {
		return shared.NewNearSetupDecision(direction), nil
	}

	return shared.NoDecision(), nil
}

// setupDirection checks the setup conditions relaxed by the provided tolerance and
// returns the setup direction when they hold.
func setupDirection(rsi, macd, signal, adx float64, profile *shared.StockProfile, tolerance float64) (shared.Direction, bool) {
	if adx < profile.ADXThreshold-tolerance {
		return shared.NoDirection, false
	}

	switch {
	case rsi >= profile.RSIOverbought-tolerance && macd > signal:
		return shared.Call, true
	case rsi <= profile.RSIOversold+tolerance && macd < signal:
		return shared.Put, true
	default:
		return shared.NoDirection, false
	}
}
