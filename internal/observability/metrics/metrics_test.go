package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(authAttempts.WithLabelValues("login", "invalid_credentials"))
	ObserveAuth("login", "invalid_credentials")
	ObserveAuth("login", "invalid_credentials")
	assert.Equal(t, before+2, testutil.ToFloat64(authAttempts.WithLabelValues("login", "invalid_credentials")))

	before = testutil.ToFloat64(statusChanges.WithLabelValues("property", "approved"))
	ObserveStatusChange("property", "approved")
	assert.Equal(t, before+1, testutil.ToFloat64(statusChanges.WithLabelValues("property", "approved")))

	IncrementRealtimeClients()
	IncrementRealtimeClients()
	DecrementRealtimeClients()
	assert.Equal(t, float64(1), testutil.ToFloat64(realtimeClients))
	DecrementRealtimeClients()
}

func TestHTTPMetricsMiddlewareUsesPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/properties/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := HTTPMetricsMiddleware(mux)

	counter := httpRequestsTotal.WithLabelValues("GET", "GET /api/properties/{id}", "404")
	before := testutil.ToFloat64(counter)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/properties/abc", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
