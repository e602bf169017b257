package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/setupwatch/alert"
	"github.com/dnldd/setupwatch/dedup"
	"github.com/dnldd/setupwatch/engine"
	"github.com/dnldd/setupwatch/fetch"
	"github.com/dnldd/setupwatch/indicator"
	"github.com/dnldd/setupwatch/metrics"
	"github.com/dnldd/setupwatch/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	// DefaultCadence is the default interval between watch cycles.
	DefaultCadence = time.Second * 180
	// DefaultMarketSymbol is the default benchmark the market condition is derived from.
	DefaultMarketSymbol = "SPY"
	// defaultSymbolTimeout is the default time budget of a single symbol evaluation.
	defaultSymbolTimeout = time.Second * 60
)

// Failure reasons.
const (
	reasonFetch    = "fetch"
	reasonNoData   = "nodata"
	reasonEvaluate = "evaluate"
	reasonPanic    = "panic"
)

// WatchConfig represents the configuration for the watch service.
type WatchConfig struct {
	// WatchList represents the watched stock profiles.
	WatchList []shared.StockProfile
	// Cadence is the interval between watch cycles.
	Cadence time.Duration
	// MarketSymbol is the benchmark the market condition is derived from.
	MarketSymbol string
	// SymbolTimeout is the time budget of a single symbol evaluation.
	SymbolTimeout time.Duration
	// Location is the timezone the cycles are scheduled in.
	Location *time.Location
	// MarketHoursOnly skips cycles outside the regular equities session.
	MarketHoursOnly bool
	// Provider represents the market data provider.
	Provider shared.MarketDataProvider
	// Notifier represents the alert notifier.
	Notifier shared.Notifier
	// Sentiment represents the optional news sentiment provider.
	Sentiment shared.SentimentProvider
	// Store represents the optional alert journal.
	Store shared.AlertStorer
	// Tracker suppresses repeated alerts.
	Tracker *dedup.Tracker
	// Metrics records watch cycle metrics.
	Metrics *metrics.Recorder
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *WatchConfig) Validate() error {
	var errs error

	if len(cfg.WatchList) == 0 {
		errs = errors.Join(errs, errors.New("no stock profiles provided for watch service"))
	}
	for idx := range cfg.WatchList {
		if err := cfg.WatchList[idx].Validate(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("profile #%d: %w", idx, err))
		}
	}
	if cfg.Cadence < 0 {
		errs = errors.Join(errs, errors.New("cadence cannot be negative"))
	}
	if cfg.SymbolTimeout < 0 {
		errs = errors.Join(errs, errors.New("symbol timeout cannot be negative"))
	}
	if cfg.Provider == nil {
		errs = errors.Join(errs, errors.New("market data provider cannot be nil"))
	}
	if cfg.Notifier == nil {
		errs = errors.Join(errs, errors.New("notifier cannot be nil"))
	}
	if cfg.Tracker == nil {
		errs = errors.Join(errs, errors.New("alert tracker cannot be nil"))
	}
	if cfg.Metrics == nil {
		errs = errors.Join(errs, errors.New("metrics recorder cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// Watch represents the setup watch service.
type Watch struct {
	cfg       *WatchConfig
	evaluator *engine.Evaluator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewWatch initializes a new watch service.
func NewWatch(cfg *WatchConfig) (*Watch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if cfg.Cadence == 0 {
		cfg.Cadence = DefaultCadence
	}
	if cfg.MarketSymbol == "" {
		cfg.MarketSymbol = DefaultMarketSymbol
	}
	if cfg.SymbolTimeout == 0 {
		cfg.SymbolTimeout = defaultSymbolTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	engineLogger := cfg.Logger.With().Str("component", "engine").Logger()
	evaluator, err := engine.NewEvaluator(&engine.EvaluatorConfig{
		DecisionTimeframe: shared.DecisionTimeframe,
		Derive: indicator.DeriveConfig{
			ATRPeriod:   indicator.DefaultATRPeriod,
			LevelWindow: indicator.DefaultLevelWindow,
		},
		Logger: &engineLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating evaluator: %w", err)
	}

	return &Watch{
		cfg:       cfg,
		evaluator: evaluator,
		logger:    cfg.Logger.With().Str("component", "scheduler").Logger(),
		now:       time.Now,
	}, nil
}

// marketCondition fetches the benchmark and classifies the broad market condition.
func (w *Watch) marketCondition(ctx context.Context) shared.MarketCondition {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.SymbolTimeout)
	defer cancel()

	benchmark := &shared.StockProfile{Symbol: w.cfg.MarketSymbol}
	bundle, err := w.cfg.Provider.Fetch(ctx, benchmark, []shared.Timeframe{shared.OneHour})
	if err != nil {
		w.logger.Error().Err(err).Str("symbol", w.cfg.MarketSymbol).Msg("fetching market benchmark")
		return shared.UnknownMarket
	}

	snapshot, _ := bundle.Snapshot(shared.OneHour)
	condition := engine.ClassifyMarket(snapshot)

	evt := w.logger.Info().Str("symbol", w.cfg.MarketSymbol).Stringer("condition", condition)
	if snapshot != nil {
		evt = evt.Stringer("adx", snapshot.ADX).Stringer("rsi", snapshot.RSI).
			Stringer("macd", snapshot.MACD).Stringer("macdSignal", snapshot.MACDSignal)
	}
	evt.Msg("market condition")

	return condition
}

// alertSetup composes, delivers and journals the alert of an actionable evaluation.
func (w *Watch) alertSetup(ctx context.Context, profile *shared.StockProfile, eval *engine.Evaluation, market shared.MarketCondition) {
	msg := alert.Compose(profile, eval.Decision, eval.Snapshot, eval.Trend, eval.WinProbability,
		w.now())
	msg.Market = market

	if w.cfg.Sentiment != nil {
		sentiment := w.cfg.Sentiment.Sentiment(ctx, profile.Symbol)
		msg.Sentiment = &sentiment
	}

	if eval.Decision.Kind == shared.NearSetup {
		w.logger.Warn().Str("symbol", profile.Symbol).Stringer("decision", eval.Decision).
			Msg("near setup, monitoring for confirmation")
	}

	result := w.cfg.Notifier.Notify(ctx, msg)
	w.cfg.Metrics.RecordDelivery(result)
	if !result.OK {
		w.logger.Error().Str("symbol", profile.Symbol).Str("id", msg.ID).
			Str("detail", result.Detail).Msg("alert delivery failed")
	}

	if w.cfg.Store != nil {
		err := w.cfg.Store.PersistAlert(ctx, msg, result)
		if err != nil {
			w.logger.Error().Err(err).Str("symbol", profile.Symbol).Msg("journaling alert")
		}
	}
}

// evaluateSymbol runs the full evaluation of a single symbol. Failures are contained
// to the symbol so the rest of the watch list is evaluated.
func (w *Watch) evaluateSymbol(ctx context.Context, profile *shared.StockProfile, market shared.MarketCondition) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Str("symbol", profile.Symbol).Msgf("recovered from panic: %v", r)
			w.cfg.Metrics.RecordFailure(profile.Symbol, reasonPanic)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, w.cfg.SymbolTimeout)
	defer cancel()

	bundle, err := w.cfg.Provider.Fetch(ctx, profile, shared.WatchTimeframes)
	if err != nil {
		w.logger.Error().Err(err).Str("symbol", profile.Symbol).Msg("fetching snapshots")
		w.cfg.Metrics.RecordFailure(profile.Symbol, reasonFetch)
		return
	}
	if bundle.IsEmpty() {
		w.logger.Warn().Str("symbol", profile.Symbol).Msg("skipping, missing data")
		w.cfg.Metrics.RecordFailure(profile.Symbol, reasonNoData)
		return
	}

	history, err := w.cfg.Provider.FetchPriceHistory(ctx, profile.Symbol, shared.DecisionTimeframe,
		fetch.DefaultHistoryBars)
	if err != nil {
		w.logger.Warn().Err(err).Str("symbol", profile.Symbol).
			Msg("price history unavailable, derived metrics will be absent")
		history = nil
	}

	eval, err := w.evaluator.Evaluate(profile, bundle, history)
	if err != nil {
		reason := reasonEvaluate
		if errors.Is(err, shared.ErrNoData) {
			reason = reasonNoData
		}
		w.logger.Warn().Err(err).Str("symbol", profile.Symbol).Msg("skipping evaluation")
		w.cfg.Metrics.RecordFailure(profile.Symbol, reason)
		return
	}

	w.cfg.Metrics.RecordEvaluation(profile.Symbol, eval.Decision, eval.WinProbability)

	if !w.cfg.Tracker.Allow(profile.Symbol, eval.Decision, w.now()) {
		if eval.Decision.IsActionable() {
			w.logger.Debug().Str("symbol", profile.Symbol).Stringer("decision", eval.Decision).
				Msg("repeat alert suppressed")
		}
		return
	}

	w.alertSetup(ctx, profile, eval, market)
}

// marketOpen returns whether the regular equities session is open.
func (w *Watch) marketOpen() (bool, error) {
	_, loc, err := shared.NewYorkTime()
	if err != nil {
		return false, err
	}

	open, session, err := shared.IsMarketOpen(w.now().In(loc))
	if err != nil {
		return false, err
	}
	if !open {
		w.logger.Info().Str("session", session).Msg("market closed, skipping cycle")
	}

	return open, nil
}

// RunCycle evaluates every watched symbol once, sequentially.
func (w *Watch) RunCycle(ctx context.Context) {
	if w.cfg.MarketHoursOnly {
		open, err := w.marketOpen()
		if err != nil {
			w.logger.Error().Err(err).Msg("checking market hours")
			return
		}
		if !open {
			return
		}
	}

	start := time.Now()

	market := w.marketCondition(ctx)
	for idx := range w.cfg.WatchList {
		if ctx.Err() != nil {
			w.logger.Info().Msg("cycle cancelled")
			return
		}

		w.evaluateSymbol(ctx, &w.cfg.WatchList[idx], market)
	}

	elapsed := time.Since(start)
	w.cfg.Metrics.RecordCycle(elapsed.Seconds())
	w.logger.Info().Dur("elapsed", elapsed).Int("symbols", len(w.cfg.WatchList)).
		Msg("waiting for the next cycle")
}

// Run handles the lifecycle processes of the watch service. A cycle runs immediately
// and then every cadence until the context is cancelled.
func (w *Watch) Run(ctx context.Context) error {
	scheduler := gocron.NewScheduler(w.cfg.Location)

	_, err := scheduler.Every(w.cfg.Cadence).SingletonMode().Do(func() {
		w.RunCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling watch cycle: %w", err)
	}

	w.logger.Info().Int("symbols", len(w.cfg.WatchList)).Dur("cadence", w.cfg.Cadence).
		Msg("watch started")

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()

	w.logger.Info().Msg("watch stopped")

	return nil
}
