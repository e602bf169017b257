package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dnldd/setupwatch/database"
	"github.com/dnldd/setupwatch/dedup"
	"github.com/dnldd/setupwatch/fetch"
	"github.com/dnldd/setupwatch/metrics"
	"github.com/dnldd/setupwatch/notify"
	"github.com/dnldd/setupwatch/sentiment"
	"github.com/dnldd/setupwatch/service"
	"github.com/dnldd/setupwatch/shared"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

// serveMetrics serves the recorded metrics until the context is cancelled.
func serveMetrics(ctx context.Context, addr string, recorder *metrics.Recorder, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: time.Second * 5}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Str("addr", addr).Msg("serving metrics")
	}
}

// run wires the watch service from the provided config and runs it until the
// context is cancelled.
func run(ctx context.Context, cfg *Config, logger *zerolog.Logger) error {
	watchList, err := cfg.WatchList()
	if err != nil {
		return err
	}

	_, loc, err := shared.NewYorkTime()
	if err != nil {
		return err
	}

	fmp, err := fetch.NewFMPClient(&fetch.FMPConfig{APIKey: cfg.FMPAPIKey, BaseURL: fetch.BaseURL})
	if err != nil {
		return fmt.Errorf("creating fmp client: %w", err)
	}

	provider, err := fetch.NewProvider(&fetch.ProviderConfig{
		Fetcher:  fmp,
		Location: loc,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("creating market data provider: %w", err)
	}

	recipients, err := cfg.Recipients()
	if err != nil {
		return err
	}

	notifier, err := notify.NewTelegram(&notify.TelegramConfig{
		Recipients: recipients,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating telegram notifier: %w", err)
	}

	tracker, err := dedup.NewTracker(&dedup.TrackerConfig{Cooldown: cfg.Cooldown})
	if err != nil {
		return fmt.Errorf("creating alert tracker: %w", err)
	}

	recorder := metrics.New()

	watchCfg := &service.WatchConfig{
		WatchList:       watchList,
		Cadence:         cfg.Cadence,
		Location:        loc,
		MarketHoursOnly: cfg.MarketHoursOnly,
		Provider:        provider,
		Notifier:        notifier,
		Tracker:         tracker,
		Metrics:         recorder,
		Logger:          logger,
	}

	if cfg.NewsAPIKey != "" {
		news, err := sentiment.NewNewsClient(&sentiment.NewsConfig{
			APIKey:  cfg.NewsAPIKey,
			BaseURL: sentiment.NewsAPIBaseURL,
			HTTP:    shared.HTTPClientConfig{RequestsPerSec: 1, MaxRetryTimeout: time.Second * 5},
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("creating news client: %w", err)
		}
		watchCfg.Sentiment = news
	}

	if cfg.DBEndpoint != "" {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DBEndpoint,
			User:     cfg.DBUser,
			Pass:     cfg.DBPass,
			Logger:   &dbLogger,
		})
		if err != nil {
			return fmt.Errorf("creating database: %w", err)
		}
		watchCfg.Store = db
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, recorder, logger)
	}

	watch, err := service.NewWatch(watchCfg)
	if err != nil {
		return fmt.Errorf("creating watch service: %w", err)
	}

	return watch.Run(ctx)
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Error().Err(err).Msg("loading config")
		return
	}

	logger, closer, err := newLogger(cfg.LogLevel, cfg.LogFile, os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("creating logger")
		return
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleTermination(ctx, cancel)

	err = run(ctx, &cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("running setup watch")
	}
}
