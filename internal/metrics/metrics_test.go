package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveChat_CountsByOutcome(t *testing.T) {
	m := NewRelayMetrics()

	m.ObserveChat("ok", 120*time.Millisecond)
	m.ObserveChat("ok", 80*time.Millisecond)
	m.ObserveChat("invalid_input", time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("invalid_input")))
}

func TestHandler_ServesExposition(t *testing.T) {
	m := NewRelayMetrics()
	m.ObserveChat("ok", 50*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "chatbot_relay_requests_total")
	require.Contains(t, rec.Body.String(), "chatbot_relay_request_duration_seconds")
}
