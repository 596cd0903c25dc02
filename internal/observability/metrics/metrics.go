package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "property_api_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "property_api_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "property_api_auth_attempts_total",
		Help: "Count of register and login attempts by result",
	}, []string{"action", "result"})

	statusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "property_api_status_changes_total",
		Help: "Count of lifecycle status writes by entity and target status",
	}, []string{"entity", "status"})

	remindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "property_api_reminders_total",
		Help: "Count of reminder notifications by kind and result",
	}, []string{"kind", "result"})

	realtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "property_api_realtime_clients",
		Help: "Number of connected notification websocket clients",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAuth counts an auth attempt. action is register or login.
func ObserveAuth(action, result string) {
	authAttempts.WithLabelValues(action, result).Inc()
}

func ObserveStatusChange(entity, status string) {
	statusChanges.WithLabelValues(entity, status).Inc()
}

func ObserveReminder(kind, result string) {
	remindersSent.WithLabelValues(kind, result).Inc()
}

func IncrementRealtimeClients() {
	realtimeClients.Inc()
}

func DecrementRealtimeClients() {
	realtimeClients.Dec()
}
