package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/metrics"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/tracing"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups every endpoint handler mounted by NewRouter
type Handlers struct {
	Auth          *AuthHandler
	Properties    *PropertyHandler
	Admin         *AdminHandler
	Units         *UnitHandler
	Leases        *LeaseHandler
	Payments      *PaymentHandler
	Maintenance   *MaintenanceHandler
	Bookings      *BookingHandler
	Notifications *NotificationHandler
	Health        *HealthHandler
}

// NewRouter mounts all routes and wraps them in the middleware chain:
// recover -> request id -> CORS -> content type -> session -> tracing -> metrics -> mux
func NewRouter(h Handlers, tokens *auth.TokenManager, allowedOrigins []string, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Auth.Me)
	mux.HandleFunc("POST /api/auth/change-password", h.Auth.ChangePassword)

	mux.HandleFunc("GET /api/properties", h.Properties.List)
	mux.HandleFunc("POST /api/properties", h.Properties.Create)
	mux.HandleFunc("GET /api/properties/{id}", h.Properties.Get)
	mux.HandleFunc("PATCH /api/properties/{id}", h.Properties.Update)
	mux.HandleFunc("DELETE /api/properties/{id}", h.Properties.Delete)
	mux.HandleFunc("PATCH /api/properties/{id}/payment-account", h.Properties.UpdatePaymentAccount)

	mux.HandleFunc("GET /api/admin/properties/pending", h.Admin.PendingProperties)
	mux.HandleFunc("PUT /api/admin/properties/{id}/approve", h.Admin.Approve)
	mux.HandleFunc("PUT /api/admin/properties/{id}/reject", h.Admin.Reject)
	mux.HandleFunc("PUT /api/admin/users/{id}/status", h.Admin.SetUserStatus)

	mux.HandleFunc("GET /api/units", h.Units.List)
	mux.HandleFunc("POST /api/units", h.Units.Create)
	mux.HandleFunc("GET /api/units/{id}", h.Units.Get)
	mux.HandleFunc("PATCH /api/units/{id}", h.Units.Update)
	mux.HandleFunc("DELETE /api/units/{id}", h.Units.Delete)

	mux.HandleFunc("GET /api/leases", h.Leases.List)
	mux.HandleFunc("POST /api/leases", h.Leases.Create)
	mux.HandleFunc("GET /api/leases/{id}", h.Leases.Get)
	mux.HandleFunc("PATCH /api/leases/{id}", h.Leases.Update)
	mux.HandleFunc("DELETE /api/leases/{id}", h.Leases.Delete)

	mux.HandleFunc("GET /api/payments", h.Payments.List)
	mux.HandleFunc("POST /api/payments", h.Payments.Create)
	mux.HandleFunc("GET /api/payments/{id}", h.Payments.Get)
	mux.HandleFunc("PATCH /api/payments/{id}", h.Payments.Update)
	mux.HandleFunc("DELETE /api/payments/{id}", h.Payments.Delete)

	mux.HandleFunc("GET /api/maintenance", h.Maintenance.List)
	mux.HandleFunc("POST /api/maintenance", h.Maintenance.Create)
	mux.HandleFunc("GET /api/maintenance/{id}", h.Maintenance.Get)
	mux.HandleFunc("PATCH /api/maintenance/{id}", h.Maintenance.Update)
	mux.HandleFunc("DELETE /api/maintenance/{id}", h.Maintenance.Delete)

	mux.HandleFunc("GET /api/bookings", h.Bookings.List)
	mux.HandleFunc("POST /api/bookings", h.Bookings.Create)
	mux.HandleFunc("GET /api/bookings/{id}", h.Bookings.Get)
	mux.HandleFunc("PATCH /api/bookings/{id}", h.Bookings.Update)
	mux.HandleFunc("PUT /api/bookings/{id}/respond", h.Bookings.Respond)
	mux.HandleFunc("DELETE /api/bookings/{id}", h.Bookings.Delete)

	mux.HandleFunc("GET /api/notifications", h.Notifications.List)
	mux.HandleFunc("PATCH /api/notifications/{id}/read", h.Notifications.MarkRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", h.Notifications.Delete)
	mux.HandleFunc("GET /ws/notifications", h.Notifications.Stream)

	mux.HandleFunc("GET /healthz", h.Health.Health)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	traced := otelhttp.NewHandler(tracing.RouteNamer(metrics.HTTPMetricsMiddleware(mux)), "http.server",
		otelhttp.WithSpanNameFormatter(tracing.SpanName),
	)

	return middleware.Chain(traced,
		middleware.Recover(log),
		middleware.RequestID(log),
		middleware.CORS(allowedOrigins),
		middleware.ValidateJSONContentType(log),
		middleware.Session(tokens),
	)
}
