package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dnldd/setupwatch/shared"
	"github.com/peterldowns/testy/assert"
)

const (
	fiveMinuteBars = `[
		{"date":"2025-02-04 15:55:00","open":101,"low":100.5,"high":102,"close":101.5,"volume":1200},
		{"date":"2025-02-04 15:50:00","open":100,"low":99.5,"high":101.2,"close":101,"volume":900}
	]`
	rsiEntries = `[
		{"date":"2025-02-04 15:55:00","open":101,"high":102,"low":100.5,"close":101.5,"volume":1200,"rsi":71.25},
		{"date":"2025-02-04 15:50:00","open":100,"high":101.2,"low":99.5,"close":101,"volume":900,"rsi":69.5}
	]`
)

func setupFMPServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/historical-chart/5min", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "key" || r.URL.Query().Get("symbol") != "AAPL" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"Error Message":"Invalid API KEY."}`))
			return
		}
		_, _ = w.Write([]byte(fiveMinuteBars))
	})
	mux.HandleFunc("/historical-chart/1min", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error Message":"Limit Reach."}`))
	})
	mux.HandleFunc("/historical-chart/15min", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"AAPL"}`))
	})
	mux.HandleFunc("/technical-indicators/rsi", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("periodLength") != "14" || r.URL.Query().Get("timeframe") != "5min" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(rsiEntries))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func setupFMPClient(t *testing.T, baseURL string) *FMPClient {
	client, err := NewFMPClient(&FMPConfig{
		APIKey:  "key",
		BaseURL: baseURL,
		HTTP: shared.HTTPClientConfig{
			Timeout:         time.Second,
			RequestsPerSec:  50,
			MaxRetryTimeout: time.Second,
		},
	})
	assert.NoError(t, err)

	return client
}

func TestNewFMPClient(t *testing.T) {
	_, err := NewFMPClient(&FMPConfig{})
	assert.Error(t, err)

	client, err := NewFMPClient(&FMPConfig{APIKey: "key", BaseURL: "http://base"})
	assert.NoError(t, err)

	// Ensure urls can be formed accurately.
	params := url.Values{}
	params.Add("a", "bbb")
	params.Add("b", "ccc")

	formedURL := client.formURL("/path", params.Encode())
	assert.Equal(t, formedURL, "http://base/path?a=bbb&b=ccc")

	// Ensure the url buffer is reset between calls.
	formedURL = client.formURL("/other", params.Encode())
	assert.Equal(t, formedURL, "http://base/other?a=bbb&b=ccc")
}

func TestInterval(t *testing.T) {
	tests := []struct {
		timeframe shared.Timeframe
		want      string
		wantErr   bool
	}{
		{timeframe: shared.OneMinute, want: "1min"},
		{timeframe: shared.FiveMinute, want: "5min"},
		{timeframe: shared.FifteenMinute, want: "15min"},
		{timeframe: shared.OneHour, want: "1hour"},
		{timeframe: shared.Timeframe(99), wantErr: true},
	}

	for _, test := range tests {
		label, err := interval(test.timeframe)
		if test.wantErr {
			assert.Error(t, err)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, label, test.want)
	}
}

func TestFetchIntradayHistorical(t *testing.T) {
	server := setupFMPServer(t)
	client := setupFMPClient(t, server.URL)
	ctx := context.Background()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	// Ensure intraday bars can be fetched.
	data, err := client.FetchIntradayHistorical(ctx, "AAPL", shared.FiveMinute, start, time.Time{})
	assert.NoError(t, err)
	assert.Equal(t, len(data), 2)
	assert.Equal(t, data[0].Get("close").Float(), 101.5)

	// Ensure rejected requests are not retried and surface the status.
	_, err = client.FetchIntradayHistorical(ctx, "MSFT", shared.FiveMinute, start, time.Time{})
	assert.Error(t, err)
	var statusErr *shared.HTTPStatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, statusErr.StatusCode, http.StatusUnauthorized)

	// Ensure api error payloads are surfaced.
	_, err = client.FetchIntradayHistorical(ctx, "AAPL", shared.OneMinute, start, time.Time{})
	assert.Error(t, err)

	// Ensure non-array payloads are rejected.
	_, err = client.FetchIntradayHistorical(ctx, "AAPL", shared.FifteenMinute, start, time.Time{})
	assert.Error(t, err)

	// Ensure unknown timeframes are rejected.
	_, err = client.FetchIntradayHistorical(ctx, "AAPL", shared.Timeframe(99), start, time.Time{})
	assert.Error(t, err)
}

func TestFetchTechnicalIndicator(t *testing.T) {
	server := setupFMPServer(t)
	client := setupFMPClient(t, server.URL)
	ctx := context.Background()

	data, err := client.FetchTechnicalIndicator(ctx, "AAPL", shared.RSIIndicator, 14, shared.FiveMinute)
	assert.NoError(t, err)
	assert.Equal(t, len(data), 2)
	assert.Equal(t, data[0].Get("rsi").Float(), 71.25)

	// Ensure unserved indicators error.
	_, err = client.FetchTechnicalIndicator(ctx, "AAPL", shared.ADXIndicator, 14, shared.FiveMinute)
	assert.Error(t, err)

	// Ensure bad requests error.
	_, err = client.FetchTechnicalIndicator(ctx, "AAPL", shared.RSIIndicator, 7, shared.FiveMinute)
	assert.Error(t, err)
}
