package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/redis"
	"github.com/thedon-dev/Final-Year-Project/internal/repository"
	"github.com/thedon-dev/Final-Year-Project/internal/repository/memory"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
	"github.com/thedon-dev/Final-Year-Project/pkg/cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var now = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, repos *repository.Repositories, tenant primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()
	payments := []*domain.Payment{
		{TenantID: tenant, Amount: 1200, Currency: "NGN", Status: domain.PaymentStatusPending, DueDate: now.Add(48 * time.Hour)},
		{TenantID: tenant, Amount: 1200, Status: domain.PaymentStatusPending, DueDate: now.Add(10 * 24 * time.Hour)},
		{TenantID: tenant, Amount: 1200, Status: domain.PaymentStatusPaid, DueDate: now.Add(24 * time.Hour)},
		{TenantID: tenant, Amount: 1200, Status: domain.PaymentStatusPending, DueDate: now.Add(-24 * time.Hour)},
	}
	for _, p := range payments {
		require.NoError(t, repos.Payments.Create(ctx, p))
	}
	leases := []*domain.Lease{
		{TenantID: tenant, Status: domain.LeaseStatusActive, EndDate: now.Add(20 * 24 * time.Hour)},
		{TenantID: tenant, Status: domain.LeaseStatusActive, EndDate: now.Add(90 * 24 * time.Hour)},
		{TenantID: tenant, Status: domain.LeaseStatusTerminated, EndDate: now.Add(5 * 24 * time.Hour)},
	}
	for _, l := range leases {
		require.NoError(t, repos.Leases.Create(ctx, l))
	}
}

func newWorker(repos *repository.Repositories, notifier Notifier, dedupe Deduper) *ReminderWorker {
	w := NewReminderWorker(repos.Payments, repos.Leases, notifier, dedupe, nil, time.Hour)
	w.now = func() time.Time { return now }
	return w
}

func TestReminderWorkerSendsOncePerDay(t *testing.T) {
	repos := memory.New()
	tenant := primitive.NewObjectID()
	seed(t, repos, tenant)
	notify := service.NewNotificationService(repos.Notifications, service.NewHub(), security.NewGuard(nil), nil)

	w := newWorker(repos, notify, nil)
	assert.Equal(t, 2, w.RunOnce(context.Background()))
	assert.Equal(t, 0, w.RunOnce(context.Background()))

	notes, err := repos.Notifications.List(context.Background(), domain.NotificationFilter{UserID: &tenant})
	require.NoError(t, err)
	require.Len(t, notes, 2)

	types := []domain.NotificationType{notes[0].Type, notes[1].Type}
	assert.ElementsMatch(t, []domain.NotificationType{domain.NotificationPaymentDue, domain.NotificationLeaseExpiring}, types)

	// a new day reopens the claim
	w.now = func() time.Time { return now.Add(24 * time.Hour) }
	assert.Equal(t, 2, w.RunOnce(context.Background()))
}

func TestReminderWorkerRedisDedupeAcrossReplicas(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	repos := memory.New()
	seed(t, repos, primitive.NewObjectID())
	notify := service.NewNotificationService(repos.Notifications, service.NewHub(), security.NewGuard(nil), nil)

	first := newWorker(repos, notify, NewRedisDeduper(client))
	second := newWorker(repos, notify, NewRedisDeduper(client))

	assert.Equal(t, 2, first.RunOnce(context.Background()))
	assert.Equal(t, 0, second.RunOnce(context.Background()))
	assert.True(t, mr.Exists("reminder:lease_expiring:"+firstLeaseID(t, repos)+":2024-05-10"))
}

func firstLeaseID(t *testing.T, repos *repository.Repositories) string {
	t.Helper()
	from, to := now, now.Add(leaseEndingWindow)
	leases, err := repos.Leases.List(context.Background(), domain.LeaseFilter{Status: domain.LeaseStatusActive, EndFrom: &from, EndTo: &to})
	require.NoError(t, err)
	require.Len(t, leases, 1)
	return leases[0].ID.Hex()
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(context.Context, service.NotifyInput) (*domain.Notification, error) {
	f.calls++
	return nil, errors.New("store offline")
}

func TestReminderWorkerCountsFailures(t *testing.T) {
	repos := memory.New()
	seed(t, repos, primitive.NewObjectID())
	notifier := &failingNotifier{}

	w := newWorker(repos, notifier, nil)
	assert.Equal(t, 0, w.RunOnce(context.Background()))
	assert.Equal(t, 2, notifier.calls)
}

func TestReminderWorkerStopsOnCancel(t *testing.T) {
	repos := memory.New()
	notify := service.NewNotificationService(repos.Notifications, service.NewHub(), security.NewGuard(nil), nil)
	w := newWorker(repos, notify, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestCacheDeduperForgetsPastDays(t *testing.T) {
	repos := memory.New()
	seed(t, repos, primitive.NewObjectID())
	notify := service.NewNotificationService(repos.Notifications, service.NewHub(), security.NewGuard(nil), nil)

	clock := now
	claims := cache.NewWithClock(func() time.Time { return clock })
	w := newWorker(repos, notify, NewCacheDeduper(claims))
	w.now = func() time.Time { return clock }

	for day := 0; day < 10; day++ {
		w.RunOnce(context.Background())
		assert.LessOrEqual(t, claims.Len(), 2, "day %d", day)
		clock = clock.Add(24 * time.Hour)
	}
}
