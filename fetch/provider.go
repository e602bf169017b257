package fetch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dnldd/setupwatch/indicator"
	"github.com/dnldd/setupwatch/shared"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultHistoryBars is the default number of bars fetched per timeframe.
	DefaultHistoryBars = 120
	// DefaultIndicatorPeriod is the default period of provider computed oscillators.
	DefaultIndicatorPeriod = 14
	// DefaultBarCacheTTL is the default duration fetched bars are reused for.
	DefaultBarCacheTTL = time.Second * 30
	// tradingMinutesPerDay is the length of a regular trading session in minutes.
	tradingMinutesPerDay = 390
	// lookbackPaddingDays pads history lookbacks for weekends and holidays.
	lookbackPaddingDays = 4
)

// ProviderConfig represents the configuration for the market data provider.
type ProviderConfig struct {
	// Fetcher represents the raw market data fetcher.
	Fetcher shared.MarketFetcher
	// Location is the timezone market dates are reported in.
	Location *time.Location
	// HistoryBars is the number of bars fetched per timeframe.
	HistoryBars int
	// IndicatorPeriod is the period of the rsi and adx readings.
	IndicatorPeriod int
	// BarCacheTTL is the duration fetched bars are reused for before being refetched.
	BarCacheTTL time.Duration
	// Now returns the current time.
	Now func() time.Time
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ProviderConfig) Validate() error {
	var errs error

	if cfg.Fetcher == nil {
		errs = errors.Join(errs, errors.New("market fetcher cannot be nil"))
	}
	if cfg.Location == nil {
		errs = errors.Join(errs, errors.New("location cannot be nil"))
	}
	if cfg.HistoryBars < 0 {
		errs = errors.Join(errs, errors.New("history bars cannot be negative"))
	}
	if cfg.IndicatorPeriod < 0 {
		errs = errors.Join(errs, errors.New("indicator period cannot be negative"))
	}
	if cfg.BarCacheTTL < 0 {
		errs = errors.Join(errs, errors.New("bar cache ttl cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// barsKey identifies the bars of a symbol on a timeframe.
type barsKey struct {
	symbol    string
	timeframe shared.Timeframe
}

// cachedBars are recently fetched bars along with the bar count requested.
type cachedBars struct {
	candles   []shared.Candlestick
	requested int
	fetched   time.Time
}

// Provider builds indicator snapshots from raw market data. Bars fetched for a
// snapshot are reused by price history requests made within the cache ttl.
type Provider struct {
	cfg    *ProviderConfig
	logger zerolog.Logger
	bars   map[barsKey]cachedBars
	mtx    sync.Mutex
}

// Ensure the provider implements the MarketDataProvider interface.
var _ shared.MarketDataProvider = (*Provider)(nil)

// NewProvider initializes a new market data provider.
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.HistoryBars == 0 {
		cfg.HistoryBars = DefaultHistoryBars
	}
	if cfg.IndicatorPeriod == 0 {
		cfg.IndicatorPeriod = DefaultIndicatorPeriod
	}
	if cfg.BarCacheTTL == 0 {
		cfg.BarCacheTTL = DefaultBarCacheTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Provider{
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "fetch").Logger(),
		bars:   make(map[barsKey]cachedBars),
	}, nil
}

// lookbackStart returns the start date of a fetch covering n bars of the provided timeframe.
func lookbackStart(now time.Time, timeframe shared.Timeframe, n int) (time.Time, error) {
	duration, err := timeframe.Duration()
	if err != nil {
		return time.Time{}, err
	}

	minutes := int(duration.Minutes()) * n
	tradingDays := minutes/tradingMinutesPerDay + 1
	calendarDays := tradingDays*7/5 + lookbackPaddingDays

	return now.AddDate(0, 0, -calendarDays), nil
}

// cached returns the most recent n cached bars of the provided symbol and timeframe
// when a fetch of at least n bars happened within the cache ttl.
func (p *Provider) cached(key barsKey, n int, now time.Time) ([]shared.Candlestick, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	entry, ok := p.bars[key]
	if !ok || entry.requested < n || now.Sub(entry.fetched) >= p.cfg.BarCacheTTL {
		return nil, false
	}

	candles := entry.candles
	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}

	return slices.Clone(candles), true
}

// cache stores the provided bars and evicts expired entries.
func (p *Provider) cache(key barsKey, candles []shared.Candlestick, n int, now time.Time) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	for k, entry := range p.bars {
		if now.Sub(entry.fetched) >= p.cfg.BarCacheTTL {
			delete(p.bars, k)
		}
	}

	p.bars[key] = cachedBars{candles: slices.Clone(candles), requested: n, fetched: now}
}

// FetchPriceHistory fetches the most recent n bars in ascending order. Bars fetched
// within the cache ttl are served without another request.
func (p *Provider) FetchPriceHistory(ctx context.Context, symbol string, timeframe shared.Timeframe, n int) ([]shared.Candlestick, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bar count must be positive, got %d", n)
	}

	key := barsKey{symbol: symbol, timeframe: timeframe}
	now := p.cfg.Now().In(p.cfg.Location)
	if candles, ok := p.cached(key, n, now); ok {
		return candles, nil
	}

	start, err := lookbackStart(now, timeframe, n)
	if err != nil {
		return nil, err
	}

	data, err := p.cfg.Fetcher.FetchIntradayHistorical(ctx, symbol, timeframe, start, time.Time{})
	if err != nil {
		return nil, err
	}

	candles, err := shared.ParseCandlesticks(data, symbol, timeframe, p.cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("parsing candlesticks for %s: %w", symbol, err)
	}

	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}

	p.cache(key, candles, n, now)

	return candles, nil
}

// latestReading returns the provided field of the most recent indicator entry.
func (p *Provider) latestReading(data []gjson.Result, field string) shared.Reading {
	var latest time.Time
	var reading shared.Reading
	for idx := range data {
		dt, err := time.ParseInLocation(shared.DateLayout, data[idx].Get("date").String(), p.cfg.Location)
		if err != nil {
			continue
		}
		if !latest.IsZero() && !dt.After(latest) {
			continue
		}

		latest = dt
		reading = shared.ParseReading(data[idx].Get(field).String())
	}

	return reading
}

// fetchReading fetches the latest reading of the provided indicator. Failed requests
// yield an absent reading.
func (p *Provider) fetchReading(ctx context.Context, symbol string, kind shared.IndicatorKind, period int, timeframe shared.Timeframe) shared.Reading {
	data, err := p.cfg.Fetcher.FetchTechnicalIndicator(ctx, symbol, kind, period, timeframe)
	if err != nil {
		p.logger.Warn().Err(err).Str("symbol", symbol).Stringer("timeframe", timeframe).
			Str("indicator", string(kind)).Msg("indicator unavailable")
		return shared.Reading{}
	}

	return p.latestReading(data, string(kind))
}

// snapshot builds the indicator snapshot of the provided timeframe. A nil snapshot
// is returned when no bars are available.
func (p *Provider) snapshot(ctx context.Context, profile *shared.StockProfile, timeframe shared.Timeframe) (*shared.IndicatorSnapshot, error) {
	candles, err := p.FetchPriceHistory(ctx, profile.Symbol, timeframe, p.cfg.HistoryBars)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, nil
	}

	last := candles[len(candles)-1]
	snapshot := &shared.IndicatorSnapshot{
		Symbol:    profile.Symbol,
		Timeframe: timeframe,
		Date:      last.Date,
		Close:     shared.NewReading(last.Close),
		Volume:    shared.NewReading(last.Volume),
	}

	snapshot.RSI = p.fetchReading(ctx, profile.Symbol, shared.RSIIndicator, p.cfg.IndicatorPeriod, timeframe)
	snapshot.ADX = p.fetchReading(ctx, profile.Symbol, shared.ADXIndicator, p.cfg.IndicatorPeriod, timeframe)
	closes := shared.Closes(candles)
	snapshot.EMA50 = p.fetchReading(ctx, profile.Symbol, shared.EMAIndicator, indicator.EMAReferencePeriod, timeframe)
	if !snapshot.EMA50.IsSet() {
		snapshot.EMA50 = indicator.EMA(closes, indicator.EMAReferencePeriod)
	}
	snapshot.MACD, snapshot.MACDSignal = indicator.MACD(closes)

	return snapshot, nil
}

// Fetch fetches the snapshots of the provided profile's symbol for the provided
// timeframes. Timeframes without data are omitted from the bundle.
func (p *Provider) Fetch(ctx context.Context, profile *shared.StockProfile, timeframes []shared.Timeframe) (shared.Bundle, error) {
	if profile == nil || profile.Symbol == "" {
		return nil, fmt.Errorf("%w: no symbol provided", shared.ErrInvalidProfile)
	}

	bundle := make(shared.Bundle, len(timeframes))
	for _, timeframe := range timeframes {
		snapshot, err := p.snapshot(ctx, profile, timeframe)
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetching %s snapshots: %w", profile.Symbol, ctx.Err())
		}
		if err != nil {
			p.logger.Warn().Err(err).Str("symbol", profile.Symbol).
				Stringer("timeframe", timeframe).Msg("timeframe unavailable")
			continue
		}
		if snapshot == nil {
			continue
		}

		bundle[timeframe] = snapshot
	}

	return bundle, nil
}
