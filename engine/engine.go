package engine

import (
	"errors"
	"fmt"

	"github.com/dnldd/setupwatch/indicator"
	"github.com/dnldd/setupwatch/shared"
	"github.com/rs/zerolog"
)

// EvaluatorConfig represents the configuration for the evaluator.
type EvaluatorConfig struct {
	// DecisionTimeframe is the timeframe setups are decided on.
	DecisionTimeframe shared.Timeframe
	// Derive represents the lookbacks used to derive missing readings.
	Derive indicator.DeriveConfig
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *EvaluatorConfig) Validate() error {
	var errs error

	if _, err := cfg.DecisionTimeframe.Duration(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("decision timeframe: %w", err))
	}
	if cfg.Derive.ATRPeriod < 0 {
		errs = errors.Join(errs, fmt.Errorf("atr period cannot be negative"))
	}
	if cfg.Derive.LevelWindow < 0 {
		errs = errors.Join(errs, fmt.Errorf("level window cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Evaluation represents the outcome of evaluating a single symbol.
type Evaluation struct {
	Profile        *shared.StockProfile
	Snapshot       *shared.IndicatorSnapshot
	Trend          shared.TrendAssessment
	WinProbability int
	Decision       shared.SetupDecision
	// Context holds the snapshots of the timeframes other than the decision timeframe.
	Context shared.Bundle
	// Diagnostics describes readings that degraded the evaluation.
	Diagnostics []string
}

// Evaluator turns indicator snapshots into setup decisions. It holds no state across
// evaluations and is safe for concurrent use.
type Evaluator struct {
	cfg *EvaluatorConfig
}

// NewEvaluator initializes a new evaluator.
func NewEvaluator(cfg *EvaluatorConfig) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating evaluator config: %w", err)
	}

	return &Evaluator{cfg: cfg}, nil
}

// Evaluate classifies the trend, scores the win probability and decides on a setup for
// the provided profile's bundle. Price history, when available, fills readings the
// provider omitted.
//
// An empty bundle or a bundle without the decision timeframe returns shared.ErrNoData.
// Absent decision readings never return an error, they degrade to a no setup decision
// with a diagnostic.
func (e *Evaluator) Evaluate(profile *shared.StockProfile, bundle shared.Bundle, history []shared.Candlestick) (*Evaluation, error) {
	if bundle.IsEmpty() {
		return nil, fmt.Errorf("%s: empty bundle: %w", profile.Symbol, shared.ErrNoData)
	}

	snapshot, ok := bundle.Snapshot(e.cfg.DecisionTimeframe)
	if !ok {
		return nil, fmt.Errorf("%s: no %s snapshot: %w", profile.Symbol,
			e.cfg.DecisionTimeframe.String(), shared.ErrNoData)
	}

	filled := indicator.Fill(snapshot, history, e.cfg.Derive)
	trend := ClassifyTrend(filled.ADX, filled.EMA50, filled.Close)
	winProbability := ScoreWinProbability(filled.RSI, filled.MACD, filled.MACDSignal, filled.ADX,
		trend.Condition)

	eval := &Evaluation{
		Profile:        profile,
		Snapshot:       filled,
		Trend:          trend,
		WinProbability: winProbability,
		Context:        make(shared.Bundle, len(bundle)),
	}

	for timeframe, snap := range bundle {
		if timeframe == e.cfg.DecisionTimeframe || snap == nil {
			continue
		}
		eval.Context[timeframe] = snap
	}

	decision, err := Decide(filled, profile, trend)
	if err != nil {
		eval.Diagnostics = append(eval.Diagnostics, err.Error())
		e.cfg.Logger.Warn().Str("symbol", profile.Symbol).Msgf("deciding setup: %v", err)
	}
	eval.Decision = decision

	e.logEvaluation(eval)

	return eval, nil
}

// logEvaluation logs the readings and outcome of the provided evaluation.
func (e *Evaluator) logEvaluation(eval *Evaluation) {
	s := eval.Snapshot
	p := eval.Profile
	e.cfg.Logger.Info().
		Str("symbol", p.Symbol).
		Str("timeframe", s.Timeframe.String()).
		Stringer("close", s.Close).
		Stringer("rsi", s.RSI).
		Float64("rsiOverbought", p.RSIOverbought).
		Float64("rsiOversold", p.RSIOversold).
		Stringer("macd", s.MACD).
		Stringer("macdSignal", s.MACDSignal).
		Stringer("adx", s.ADX).
		Float64("adxThreshold", p.ADXThreshold).
		Stringer("atr", s.ATR).
		Stringer("volume", s.Volume).
		Float64("volumeThreshold", p.VolumeThreshold).
		Stringer("support", s.Support).
		Stringer("resistance", s.Resistance).
		Stringer("trend", eval.Trend).
		Int("winProbability", eval.WinProbability).
		Stringer("decision", eval.Decision).
		Msg("evaluated symbol")

	for timeframe, snap := range eval.Context {
		e.cfg.Logger.Debug().
			Str("symbol", p.Symbol).
			Str("timeframe", timeframe.String()).
			Stringer("close", snap.Close).
			Stringer("rsi", snap.RSI).
			Stringer("macd", snap.MACD).
			Stringer("macdSignal", snap.MACDSignal).
			Stringer("adx", snap.ADX).
			Msg("context timeframe")
	}
}
