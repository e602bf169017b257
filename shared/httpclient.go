package shared

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	// defaultRequestTimeout is the default timeout for a single request.
	defaultRequestTimeout = time.Second * 10
	// defaultRequestsPerSec is the default request rate budget.
	defaultRequestsPerSec = 5
	// defaultMaxRetryTimeout is the default maximum time spent retrying a request.
	defaultMaxRetryTimeout = time.Second * 30
)

// HTTPClientConfig represents the configuration for a rate limited, retrying http client.
type HTTPClientConfig struct {
	// Timeout is the timeout for a single request.
	Timeout time.Duration
	// RequestsPerSec is the request rate budget.
	RequestsPerSec int
	// MaxRetryTimeout is the maximum time spent retrying a request.
	MaxRetryTimeout time.Duration
}

// HTTPClient is an http client with rate limiting and exponential backoff retries.
type HTTPClient struct {
	cfg     HTTPClientConfig
	httpc   *http.Client
	limiter *rate.Limiter
}

// HTTPStatusError represents an error due to a non-200 http status code.
type HTTPStatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("non-200 status code: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// NewHTTPClient initializes a new http client.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	if cfg.RequestsPerSec == 0 {
		cfg.RequestsPerSec = defaultRequestsPerSec
	}
	if cfg.MaxRetryTimeout == 0 {
		cfg.MaxRetryTimeout = defaultMaxRetryTimeout
	}

	return &HTTPClient{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsPerSec),
	}
}

// Get fetches the body of the provided url. Transport errors, rate limiting and server
// errors are retried, other non-200 statuses fail immediately.
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &HTTPStatusError{StatusCode: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}

		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.cfg.MaxRetryTimeout

	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return nil, err
	}

	return body, nil
}
