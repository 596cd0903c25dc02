package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/metrics"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
	"github.com/thedon-dev/Final-Year-Project/pkg/cache"
)

const (
	paymentDueWindow  = 3 * 24 * time.Hour
	leaseEndingWindow = 30 * 24 * time.Hour
	reminderKeyTTL    = 24 * time.Hour
)

// Deduper claims a reminder key so it is sent at most once while the claim lives
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// purger is implemented by dedupers that hold claims in process memory
type purger interface {
	Purge() int
}

// Notifier delivers a reminder to its recipient
type Notifier interface {
	Notify(ctx context.Context, in service.NotifyInput) (*domain.Notification, error)
}

// ReminderWorker periodically notifies tenants of rent falling due and leases running out
type ReminderWorker struct {
	payments domain.PaymentRepository
	leases   domain.LeaseRepository
	notifier Notifier
	dedupe   Deduper
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	payments domain.PaymentRepository,
	leases domain.LeaseRepository,
	notifier Notifier,
	dedupe Deduper,
	logger *slog.Logger,
	interval time.Duration,
) *ReminderWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if dedupe == nil {
		dedupe = NewCacheDeduper(cache.New())
	}
	return &ReminderWorker{
		payments: payments,
		leases:   leases,
		notifier: notifier,
		dedupe:   dedupe,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs a pass immediately and then once per interval until ctx is cancelled
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started", slog.Duration("interval", w.interval))
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce sends every reminder that is due and returns how many were sent
func (w *ReminderWorker) RunOnce(ctx context.Context) int {
	now := w.now().UTC()
	if p, ok := w.dedupe.(purger); ok {
		if n := p.Purge(); n > 0 {
			w.logger.Debug("expired reminder claims dropped", slog.Int("count", n))
		}
	}
	return w.remindPayments(ctx, now) + w.remindLeases(ctx, now)
}

func (w *ReminderWorker) remindPayments(ctx context.Context, now time.Time) int {
	until := now.Add(paymentDueWindow)
	payments, err := w.payments.List(ctx, domain.PaymentFilter{
		Status:  domain.PaymentStatusPending,
		DueFrom: &now,
		DueTo:   &until,
		Limit:   domain.DefaultListLimit,
	})
	if err != nil {
		w.logger.Error("failed to list due payments", slog.String("error", err.Error()))
		metrics.ObserveReminder("payment_due", "error")
		return 0
	}

	sent := 0
	for _, p := range payments {
		in := service.NotifyInput{
			UserID:  p.TenantID,
			Type:    domain.NotificationPaymentDue,
			Title:   "Payment due soon",
			Message: fmt.Sprintf("A payment of %s %.2f is due on %s", p.Currency, p.Amount, p.DueDate.Format("2 Jan 2006")),
			Data:    map[string]any{"paymentId": p.ID.Hex()},
		}
		if w.send(ctx, "payment_due", p.ID.Hex(), now, in) {
			sent++
		}
	}
	return sent
}

func (w *ReminderWorker) remindLeases(ctx context.Context, now time.Time) int {
	until := now.Add(leaseEndingWindow)
	leases, err := w.leases.List(ctx, domain.LeaseFilter{
		Status:  domain.LeaseStatusActive,
		EndFrom: &now,
		EndTo:   &until,
		Limit:   domain.DefaultListLimit,
	})
	if err != nil {
		w.logger.Error("failed to list expiring leases", slog.String("error", err.Error()))
		metrics.ObserveReminder("lease_expiring", "error")
		return 0
	}

	sent := 0
	for _, l := range leases {
		in := service.NotifyInput{
			UserID:  l.TenantID,
			Type:    domain.NotificationLeaseExpiring,
			Title:   "Lease ending soon",
			Message: "Your lease ends on " + l.EndDate.Format("2 Jan 2006"),
			Data:    map[string]any{"leaseId": l.ID.Hex()},
		}
		if w.send(ctx, "lease_expiring", l.ID.Hex(), now, in) {
			sent++
		}
	}
	return sent
}

// send delivers one reminder unless it already went out today
func (w *ReminderWorker) send(ctx context.Context, kind, id string, now time.Time, in service.NotifyInput) bool {
	logger := w.logger.With(slog.String("kind", kind), slog.String("record_id", id))

	key := fmt.Sprintf("reminder:%s:%s:%s", kind, id, now.Format("2006-01-02"))
	claimed, err := w.dedupe.Claim(ctx, key, reminderKeyTTL)
	if err != nil {
		logger.Warn("reminder dedupe unavailable", slog.String("error", err.Error()))
		metrics.ObserveReminder(kind, "error")
		return false
	}
	if !claimed {
		metrics.ObserveReminder(kind, "skipped")
		return false
	}

	if _, err := w.notifier.Notify(ctx, in); err != nil {
		logger.Error("failed to send reminder", slog.String("error", err.Error()))
		metrics.ObserveReminder(kind, "error")
		return false
	}
	logger.Debug("reminder sent")
	metrics.ObserveReminder(kind, "sent")
	return true
}
