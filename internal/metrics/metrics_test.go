package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", "/films/{id}", "200", 3*time.Millisecond)
	m.RecordHTTPRequest("GET", "/films/{id}", "200", 5*time.Millisecond)
	m.RecordHTTPRequest("GET", "/films/{id}", "404", time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/films/{id}", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/films/{id}", "404")))
}

func TestInFlightAndBackend(t *testing.T) {
	m := New()
	m.IncrementInFlight()
	m.IncrementInFlight()
	m.DecrementInFlight()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpInFlight))

	m.SetBackend("memory")
	m.SetBackend("redis")
	assert.Equal(t, 1, testutil.CollectAndCount(m.backendInfo))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordGRPCRequest("/filmorate.v1.Filmorate/GetFilm", "OK", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "filmorate_grpc_requests_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
