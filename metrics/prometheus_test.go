package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dnldd/setupwatch/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	recorder := New()

	recorder.RecordEvaluation("AAPL", shared.NewTradeDecision(shared.Call), 90)
	recorder.RecordEvaluation("AAPL", shared.NoDecision(), 50)
	recorder.RecordEvaluation("MSFT", shared.NoDecision(), 65)
	recorder.RecordFailure("TSLA", "nodata")
	recorder.RecordDelivery(shared.DeliveryResult{OK: true})
	recorder.RecordDelivery(shared.DeliveryResult{OK: true})
	recorder.RecordDelivery(shared.DeliveryResult{OK: false})
	recorder.RecordCycle(1.5)

	assert.Equal(t, testutil.ToFloat64(recorder.evaluations.WithLabelValues("AAPL", "TRADE")), 1.0)
	assert.Equal(t, testutil.ToFloat64(recorder.evaluations.WithLabelValues("AAPL", "NONE")), 1.0)
	assert.Equal(t, testutil.ToFloat64(recorder.evaluations.WithLabelValues("MSFT", "NONE")), 1.0)
	assert.Equal(t, testutil.ToFloat64(recorder.failures.WithLabelValues("TSLA", "nodata")), 1.0)
	assert.Equal(t, testutil.ToFloat64(recorder.deliveries.WithLabelValues("delivered")), 2.0)
	assert.Equal(t, testutil.ToFloat64(recorder.deliveries.WithLabelValues("failed")), 1.0)

	// Ensure the last win probability of a symbol is kept.
	assert.Equal(t, testutil.ToFloat64(recorder.winProbability.WithLabelValues("AAPL")), 50.0)

	// Ensure recorders do not share registries.
	other := New()
	assert.Equal(t, testutil.ToFloat64(other.deliveries.WithLabelValues("delivered")), 0.0)
}

func TestRecorderHandler(t *testing.T) {
	recorder := New()
	recorder.RecordFailure("TSLA", "panic")
	recorder.RecordCycle(0.25)

	server := httptest.NewServer(recorder.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.True(t, strings.Contains(string(body), `setupwatch_symbol_failures_total{reason="panic",symbol="TSLA"} 1`))
	assert.True(t, strings.Contains(string(body), "setupwatch_cycle_duration_seconds_count 1"))
}
