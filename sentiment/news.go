package sentiment

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/dnldd/setupwatch/shared"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// NewsAPIBaseURL is the base url of the news api.
	NewsAPIBaseURL = "https://newsapi.org/v2"
	// DefaultArticles is the default number of recent headlines scored.
	DefaultArticles = 5
)

// NewsConfig represents the configuration for the news sentiment client.
type NewsConfig struct {
	// APIKey is the news api key.
	APIKey string
	// BaseURL is the base url of the news api.
	BaseURL string
	// Articles is the number of recent headlines scored.
	Articles int
	// HTTP is the configuration of the underlying http client.
	HTTP shared.HTTPClientConfig
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *NewsConfig) Validate() error {
	var errs error

	if cfg.APIKey == "" {
		errs = errors.Join(errs, errors.New("news api key cannot be an empty string"))
	}
	if cfg.BaseURL == "" {
		errs = errors.Join(errs, errors.New("news base url cannot be an empty string"))
	}
	if cfg.Articles < 0 {
		errs = errors.Join(errs, errors.New("article count cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// NewsClient scores the sentiment of recent news headlines.
type NewsClient struct {
	cfg    *NewsConfig
	httpc  *shared.HTTPClient
	logger zerolog.Logger
}

// Ensure the news client implements the SentimentProvider interface.
var _ shared.SentimentProvider = (*NewsClient)(nil)

// NewNewsClient initializes a new news sentiment client.
func NewNewsClient(cfg *NewsConfig) (*NewsClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Articles == 0 {
		cfg.Articles = DefaultArticles
	}

	return &NewsClient{
		cfg:    cfg,
		httpc:  shared.NewHTTPClient(cfg.HTTP),
		logger: cfg.Logger.With().Str("component", "sentiment").Logger(),
	}, nil
}

// headlines fetches the most recent headlines about the provided symbol.
func (c *NewsClient) headlines(ctx context.Context, symbol string) ([]string, error) {
	params := url.Values{}
	params.Add("q", symbol+" stock")
	params.Add("language", "en")
	params.Add("sortBy", "publishedAt")
	params.Add("pageSize", strconv.Itoa(c.cfg.Articles))
	params.Add("apiKey", c.cfg.APIKey)

	body, err := c.httpc.Get(ctx, c.cfg.BaseURL+"/everything?"+params.Encode())
	if err != nil {
		return nil, err
	}

	if gjson.GetBytes(body, "status").String() == "error" {
		return nil, errors.New(gjson.GetBytes(body, "message").String())
	}

	titles := make([]string, 0, c.cfg.Articles)
	for _, title := range gjson.GetBytes(body, "articles.#.title").Array() {
		if title.String() == "" {
			continue
		}
		titles = append(titles, title.String())
	}

	return titles, nil
}

// Sentiment returns the current news sentiment for the provided symbol, defaulting
// to a neutral sentiment when no news is available.
func (c *NewsClient) Sentiment(ctx context.Context, symbol string) shared.Sentiment {
	titles, err := c.headlines(ctx, symbol)
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("news unavailable, defaulting to neutral")
		return shared.NewSentiment(0)
	}
	if len(titles) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("no recent news, defaulting to neutral")
		return shared.NewSentiment(0)
	}

	sentiment := shared.NewSentiment(Polarity(strings.Join(titles, " ")))

	c.logger.Info().Str("symbol", symbol).Stringer("label", sentiment.Label).
		Float64("score", sentiment.Score).Msg("news sentiment")

	return sentiment
}
