package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/setupwatch/notify"
	"github.com/dnldd/setupwatch/shared"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the configuration struct for the service.
type Config struct {
	// WatchListFilepath is the filepath to the json watch-list. The built-in
	// watch-list is used when empty.
	WatchListFilepath string
	// FMPAPIkey is the FMP service API Key.
	FMPAPIKey string
	// Cadence is the interval between watch cycles.
	Cadence time.Duration
	// TelegramTokens are the telegram bot tokens. A single token serves every chat.
	TelegramTokens []string
	// TelegramChatIDs are the telegram chats alerts are delivered to.
	TelegramChatIDs []string
	// MarketHoursOnly skips watch cycles outside the regular equities session.
	MarketHoursOnly bool
	// NewsAPIKey is the news api key. News sentiment is disabled when empty.
	NewsAPIKey string
	// Cooldown is the minimum duration between repeated alerts of an unchanged setup.
	Cooldown time.Duration
	// DBEndpoint is the alert journal endpoint. Journaling is disabled when empty.
	DBEndpoint string
	// DBUser is the alert journal user.
	DBUser string
	// DBPass is the alert journal user pass.
	DBPass string
	// MetricsAddr is the address metrics are served on. Metrics are not served when empty.
	MetricsAddr string
	// LogLevel is the minimum log level.
	LogLevel string
	// LogFile is the optional filepath logs are also written to.
	LogFile string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.FMPAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("fmp api key cannot be an empty string"))
	}
	if cfg.Cadence < 0 {
		errs = errors.Join(errs, fmt.Errorf("cadence cannot be negative"))
	}
	if cfg.Cooldown < 0 {
		errs = errors.Join(errs, fmt.Errorf("cooldown cannot be negative"))
	}
	if len(cfg.TelegramTokens) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no telegram bot tokens provided"))
	}
	if len(cfg.TelegramChatIDs) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no telegram chat ids provided"))
	}
	if len(cfg.TelegramTokens) > 1 && len(cfg.TelegramTokens) != len(cfg.TelegramChatIDs) {
		errs = errors.Join(errs, fmt.Errorf("telegram tokens (%d) must be a single token or pair with chat ids (%d)",
			len(cfg.TelegramTokens), len(cfg.TelegramChatIDs)))
	}
	for _, id := range cfg.TelegramChatIDs {
		if _, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err != nil {
			errs = errors.Join(errs, fmt.Errorf("invalid telegram chat id %q", id))
		}
	}
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			errs = errors.Join(errs, fmt.Errorf("invalid log level %q", cfg.LogLevel))
		}
	}

	return errs
}

// Recipients pairs the configured telegram tokens with their chats.
func (cfg *Config) Recipients() ([]notify.Recipient, error) {
	recipients := make([]notify.Recipient, 0, len(cfg.TelegramChatIDs))
	for idx, id := range cfg.TelegramChatIDs {
		chatID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing telegram chat id %q: %w", id, err)
		}

		token := cfg.TelegramTokens[0]
		if len(cfg.TelegramTokens) > 1 {
			token = cfg.TelegramTokens[idx]
		}

		recipients = append(recipients, notify.Recipient{Token: strings.TrimSpace(token), ChatID: chatID})
	}

	return recipients, nil
}

// WatchList loads the configured watch-list, defaulting to the built-in watch-list.
func (cfg *Config) WatchList() ([]shared.StockProfile, error) {
	if cfg.WatchListFilepath == "" {
		return shared.DefaultWatchList(), nil
	}

	data, err := os.ReadFile(cfg.WatchListFilepath)
	if err != nil {
		return nil, fmt.Errorf("reading watch-list from file with path '%s': %w", cfg.WatchListFilepath, err)
	}

	profiles, err := shared.ParseWatchList(data)
	if err != nil {
		return nil, fmt.Errorf("parsing watch-list: %w", err)
	}

	return profiles, nil
}

// parseDuration parses durations, treating bare integers as seconds.
func parseDuration(text string) (time.Duration, error) {
	if secs, err := strconv.Atoi(text); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	return time.ParseDuration(text)
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	if duration, ok := value.(*time.Duration); ok {
		if defValue != "" {
			def, err := parseDuration(defValue)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*duration = def
		}
		flag.Func(name, usage, func(s string) error {
			parsed, err := parseDuration(s)
			if err != nil {
				return err
			}
			*duration = parsed
			return nil
		})
		return nil
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
		if defValue != "" {
			*value.(*[]string) = strings.Split(defValue, ",")
		}
		flag.Func(name, usage, func(s string) error {
			*value.(*[]string) = strings.Split(s, ",")
			return nil
		})
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	flags := []struct {
		name  string
		value interface{}
		usage string
	}{
		{"watchlistfilepath", &cfg.WatchListFilepath, "the json watch-list filepath"},
		{"fmpapikey", &cfg.FMPAPIKey, "the FMP api key"},
		{"cadence", &cfg.Cadence, "the interval between watch cycles (e.g. 180s)"},
		{"telegramtokens", &cfg.TelegramTokens, "the telegram bot tokens"},
		{"telegramchatids", &cfg.TelegramChatIDs, "the telegram chat ids"},
		{"markethoursonly", &cfg.MarketHoursOnly, "only watch during regular market hours"},
		{"newsapikey", &cfg.NewsAPIKey, "the news api key"},
		{"cooldown", &cfg.Cooldown, "the repeat alert cooldown, zero alerts every cycle"},
		{"dbendpoint", &cfg.DBEndpoint, "the alert journal endpoint"},
		{"dbuser", &cfg.DBUser, "the alert journal user"},
		{"dbpass", &cfg.DBPass, "the alert journal user pass"},
		{"metricsaddr", &cfg.MetricsAddr, "the metrics server address"},
		{"loglevel", &cfg.LogLevel, "the minimum log level"},
		{"logfile", &cfg.LogFile, "the log filepath"},
	}

	// Register command line arguments using loaded environment variables as defaults.
	for _, f := range flags {
		err = cfg.registerFlag(f.name, f.value, f.usage)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
