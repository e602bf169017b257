package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dnldd/setupwatch/shared"
	"github.com/tidwall/gjson"
)

const (
	// BaseURL is the base url of the FMP api.
	BaseURL = "https://financialmodelingprep.com/stable"
)

// FMPConfig represents the configuration for the FMP client.
type FMPConfig struct {
	// APIkey is the FMP API Key.
	APIKey string
	// BaseURL is the base url of the FMP api.
	BaseURL string
	// HTTP is the configuration of the underlying http client.
	HTTP shared.HTTPClientConfig
}

// Validate asserts the config sane inputs.
func (cfg *FMPConfig) Validate() error {
	var errs error

	if cfg.APIKey == "" {
		errs = errors.Join(errs, errors.New("fmp api key cannot be an empty string"))
	}
	if cfg.BaseURL == "" {
		errs = errors.Join(errs, errors.New("fmp base url cannot be an empty string"))
	}

	return errs
}

// FMPClient represents the Financial Modeling Preparation (FMP) API client.
type FMPClient struct {
	cfg   *FMPConfig
	httpc *shared.HTTPClient
	buf   *bytes.Buffer
	mtx   sync.Mutex
}

// Ensure the FMPClient implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*FMPClient)(nil)

// NewFMPClient instantiates a new FMP client.
func NewFMPClient(cfg *FMPConfig) (*FMPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &FMPClient{
		cfg:   cfg,
		httpc: shared.NewHTTPClient(cfg.HTTP),
		buf:   bytes.NewBuffer(make([]byte, 0, 512)),
	}, nil
}

// formURL creates full urls including paramters for the api.
func (c *FMPClient) formURL(path string, params string) string {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.buf.WriteString(c.cfg.BaseURL)
	c.buf.WriteString(path)
	c.buf.WriteString("?")
	c.buf.WriteString(params)
	url := c.buf.String()
	c.buf.Reset()

	return url
}

// interval returns the FMP interval label of the provided timeframe.
func interval(timeframe shared.Timeframe) (string, error) {
	switch timeframe {
	case shared.OneMinute:
		return "1min", nil
	case shared.FiveMinute:
		return "5min", nil
	case shared.FifteenMinute:
		return "15min", nil
	case shared.OneHour:
		return "1hour", nil
	default:
		return "", fmt.Errorf("unknown timeframe provided: %s", timeframe.String())
	}
}

// fetchArray fetches the json array at the provided url.
func (c *FMPClient) fetchArray(ctx context.Context, url string) ([]gjson.Result, error) {
	body, err := c.httpc.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid json payload")
	}

	if msg := gjson.GetBytes(body, "Error Message"); msg.Exists() {
		return nil, fmt.Errorf("fmp error: %s", msg.String())
	}

	payload := gjson.ParseBytes(body)
	if !payload.IsArray() {
		return nil, fmt.Errorf("unexpected payload type: %s", payload.Type.String())
	}

	return payload.Array(), nil
}

// FetchIntradayHistorical fetches intraday historical market data.
func (c *FMPClient) FetchIntradayHistorical(ctx context.Context, symbol string, timeframe shared.Timeframe, start time.Time, end time.Time) ([]gjson.Result, error) {
	label, err := interval(timeframe)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("apikey", c.cfg.APIKey)
	params.Add("from", start.Format(time.DateOnly))
	if !end.IsZero() {
		params.Add("to", end.Format(time.DateOnly))
	}

	data, err := c.fetchArray(ctx, c.formURL("/historical-chart/"+label, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetching intraday historical data (%s) for %s: %w",
			timeframe.String(), symbol, err)
	}

	return data, nil
}

// FetchTechnicalIndicator fetches technical indicator data.
func (c *FMPClient) FetchTechnicalIndicator(ctx context.Context, symbol string, kind shared.IndicatorKind, period int, timeframe shared.Timeframe) ([]gjson.Result, error) {
	label, err := interval(timeframe)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("apikey", c.cfg.APIKey)
	params.Add("periodLength", strconv.Itoa(period))
	params.Add("timeframe", label)

	data, err := c.fetchArray(ctx, c.formURL("/technical-indicators/"+string(kind), params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetching %s(%d) (%s) for %s: %w", kind, period,
			timeframe.String(), symbol, err)
	}

	return data, nil
}
