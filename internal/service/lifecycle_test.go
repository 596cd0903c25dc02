package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
)

func TestMaintenanceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	landlord, tenant, stranger := session(domain.RoleLandlord), session(domain.RoleTenant), session(domain.RoleTenant)
	p := env.createProperty(t, landlord, "Block C")

	_, err := env.maintenance.Create(ctx, tenant, CreateMaintenanceInput{PropertyID: p.ID.Hex(), Title: "Leak"})
	requireKind(t, domain.KindValidation, err)

	_, err = env.maintenance.Create(ctx, tenant, CreateMaintenanceInput{
		PropertyID: "65a1b2c3d4e5f6a7b8c9d0e1", Title: "Leak", Description: "Kitchen sink", Category: "plumbing",
	})
	requireKind(t, domain.KindNotFound, err)

	m, err := env.maintenance.Create(ctx, tenant, CreateMaintenanceInput{
		PropertyID: p.ID.Hex(), Title: "Leak", Description: "Kitchen sink", Category: "plumbing",
	})
	require.NoError(t, err)
	assert.Equal(t, p.LandlordID, m.LandlordID)
	assert.Equal(t, oid(t, tenant), m.TenantID)
	assert.Equal(t, "medium", m.Priority)
	assert.Equal(t, domain.MaintenanceStatusPending, m.Status)
	require.Len(t, env.notificationsFor(t, landlord), 1)

	_, err = env.maintenance.Get(ctx, stranger, m.ID.Hex())
	requireKind(t, domain.KindForbidden, err)

	status := domain.MaintenanceStatusCompleted
	_, err = env.maintenance.Update(ctx, stranger, m.ID.Hex(), domain.MaintenancePatch{Status: &status})
	requireKind(t, domain.KindForbidden, err)

	got, err := env.maintenance.Update(ctx, landlord, m.ID.Hex(), domain.MaintenancePatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	tenantNotes := env.notificationsFor(t, tenant)
	require.Len(t, tenantNotes, 1)
	assert.Equal(t, domain.NotificationMaintenance, tenantNotes[0].Type)

	// unguarded by default: a completed request can be reopened
	reopened := domain.MaintenanceStatusPending
	_, err = env.maintenance.Update(ctx, tenant, m.ID.Hex(), domain.MaintenancePatch{Status: &reopened})
	require.NoError(t, err)

	mine, err := env.maintenance.List(ctx, tenant, MaintenanceQuery{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := env.maintenance.List(ctx, stranger, MaintenanceQuery{})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	requireKind(t, domain.KindForbidden, env.maintenance.Delete(ctx, stranger, m.ID.Hex()))
	require.NoError(t, env.maintenance.Delete(ctx, tenant, m.ID.Hex()))
}

func TestPaymentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	landlord, tenant := session(domain.RoleLandlord), session(domain.RoleTenant)
	unit := env.createUnit(t, landlord, env.createProperty(t, landlord, "Flats"))
	lease := env.createLease(t, landlord, tenant, unit)

	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := env.payments.Create(ctx, tenant, CreatePaymentInput{LeaseID: lease.ID.Hex(), Amount: 1200, DueDate: due})
	requireKind(t, domain.KindForbidden, err)

	_, err = env.payments.Create(ctx, landlord, CreatePaymentInput{LeaseID: lease.ID.Hex(), Amount: -5, DueDate: due})
	requireKind(t, domain.KindValidation, err)

	var created []*domain.Payment
	for i := 0; i < 3; i++ {
		p, err := env.payments.Create(ctx, landlord, CreatePaymentInput{
			LeaseID: lease.ID.Hex(), Amount: 1200, DueDate: due.AddDate(0, i, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, oid(t, tenant), p.TenantID)
		assert.Equal(t, "rent", p.Type)
		created = append(created, p)
	}

	list, err := env.payments.List(ctx, tenant, PaymentQuery{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, created[2].ID, list[0].ID)

	other, err := env.payments.List(ctx, session(domain.RoleTenant), PaymentQuery{})
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = env.payments.Get(ctx, session(domain.RoleLandlord), created[0].ID.Hex())
	requireKind(t, domain.KindForbidden, err)
	_, err = env.payments.Get(ctx, tenant, created[0].ID.Hex())
	require.NoError(t, err)

	paid := domain.PaymentStatusPaid
	_, err = env.payments.Update(ctx, tenant, created[0].ID.Hex(), domain.PaymentPatch{Status: &paid})
	requireKind(t, domain.KindForbidden, err)

	got, err := env.payments.Update(ctx, landlord, created[0].ID.Hex(), domain.PaymentPatch{Status: &paid})
	require.NoError(t, err)
	assert.NotNil(t, got.PaidDate)

	notes := env.notificationsFor(t, tenant)
	assert.Equal(t, domain.NotificationPaymentReceived, notes[0].Type)

	t.Setenv("FLAG_STRICT_TRANSITIONS", "1")
	pending := domain.PaymentStatusPending
	_, err = env.payments.Update(ctx, landlord, created[0].ID.Hex(), domain.PaymentPatch{Status: &pending})
	requireKind(t, domain.KindValidation, err)
}

func TestBookingRespond(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	landlord, tenant := session(domain.RoleLandlord), session(domain.RoleTenant)
	unit := env.createUnit(t, landlord, env.createProperty(t, landlord, "Studios"))

	_, err := env.bookings.Create(ctx, landlord, CreateBookingInput{UnitID: unit.ID.Hex(), MoveInDate: time.Now()})
	requireKind(t, domain.KindForbidden, err)

	b, err := env.bookings.Create(ctx, tenant, CreateBookingInput{
		UnitID: unit.ID.Hex(), MoveInDate: time.Now().AddDate(0, 1, 0), Message: "Can I move in next month?",
	})
	require.NoError(t, err)
	assert.Equal(t, unit.LandlordID, b.LandlordID)
	assert.Equal(t, domain.BookingStatusPending, b.Status)
	require.Len(t, env.notificationsFor(t, landlord), 1)

	_, err = env.bookings.Respond(ctx, tenant, b.ID.Hex(), RespondInput{Status: domain.BookingStatusConfirmed})
	requireKind(t, domain.KindForbidden, err)
	_, err = env.bookings.Respond(ctx, landlord, b.ID.Hex(), RespondInput{Status: domain.BookingStatusConverted})
	requireKind(t, domain.KindValidation, err)

	got, err := env.bookings.Respond(ctx, landlord, b.ID.Hex(), RespondInput{Status: domain.BookingStatusConfirmed, Response: "See you then"})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
	assert.NotNil(t, got.RespondedAt)

	notes := env.notificationsFor(t, tenant)
	require.Len(t, notes, 1)
	assert.Equal(t, "See you then", notes[0].Message)
}

func TestTenantCannotConfirmOwnBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	landlord, tenant := session(domain.RoleLandlord), session(domain.RoleTenant)
	unit := env.createUnit(t, landlord, env.createProperty(t, landlord, "Lofts"))

	b, err := env.bookings.Create(ctx, tenant, CreateBookingInput{UnitID: unit.ID.Hex(), MoveInDate: time.Now().AddDate(0, 1, 0)})
	require.NoError(t, err)

	for _, status := range []domain.BookingStatus{domain.BookingStatusConfirmed, domain.BookingStatusConverted} {
		st := status
		_, err = env.bookings.Update(ctx, tenant, b.ID.Hex(), domain.BookingPatch{Status: &st})
		requireKind(t, domain.KindForbidden, err)
	}
	stored, err := env.bookings.Get(ctx, tenant, b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, stored.Status)

	message := "Plans changed"
	cancelled := domain.BookingStatusCancelled
	got, err := env.bookings.Update(ctx, tenant, b.ID.Hex(), domain.BookingPatch{Status: &cancelled, Message: &message})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)
}

func TestUnitAndLeaseOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	landlord, intruder, tenant := session(domain.RoleLandlord), session(domain.RoleLandlord), session(domain.RoleTenant)
	p := env.createProperty(t, landlord, "Towers")

	_, err := env.units.Create(ctx, intruder, CreateUnitInput{
		PropertyID: p.ID.Hex(), UnitNumber: "B2", Type: "studio", Rent: domain.Rent{Amount: 500}, Deposit: 500,
	})
	requireKind(t, domain.KindForbidden, err)

	unit := env.createUnit(t, landlord, p)
	assert.Equal(t, domain.UnitStatusAvailable, unit.Status)
	assert.Equal(t, "monthly", unit.Rent.Period)

	units, err := env.units.List(ctx, intruder, UnitQuery{})
	require.NoError(t, err)
	assert.Empty(t, units)
	units, err = env.units.List(ctx, nil, UnitQuery{PropertyID: p.ID.Hex()})
	require.NoError(t, err)
	assert.Len(t, units, 1)

	occupied := domain.UnitStatusOccupied
	_, err = env.units.Update(ctx, intruder, unit.ID.Hex(), domain.UnitPatch{Status: &occupied})
	requireKind(t, domain.KindForbidden, err)

	lease := env.createLease(t, landlord, tenant, unit)
	assert.Equal(t, domain.LeaseStatusPending, lease.Status)
	assert.Equal(t, p.ID, lease.PropertyID)
	assert.Equal(t, 1, lease.PaymentDay)

	_, err = env.leases.Get(ctx, tenant, lease.ID.Hex())
	require.NoError(t, err)
	active := domain.LeaseStatusActive
	_, err = env.leases.Update(ctx, tenant, lease.ID.Hex(), domain.LeasePatch{Status: &active})
	requireKind(t, domain.KindForbidden, err)

	end := lease.StartDate.AddDate(0, 0, -1)
	_, err = env.leases.Update(ctx, landlord, lease.ID.Hex(), domain.LeasePatch{EndDate: &end})
	requireKind(t, domain.KindValidation, err)
}

func TestUpdateMissingIDIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := session(domain.RoleAdmin)
	ghost := "65a1b2c3d4e5f6a7b8c9d0e1"

	_, err := env.units.Update(ctx, admin, ghost, domain.UnitPatch{})
	requireKind(t, domain.KindNotFound, err)
	_, err = env.leases.Update(ctx, admin, ghost, domain.LeasePatch{})
	requireKind(t, domain.KindNotFound, err)
	_, err = env.payments.Update(ctx, admin, ghost, domain.PaymentPatch{})
	requireKind(t, domain.KindNotFound, err)
	_, err = env.maintenance.Update(ctx, admin, ghost, domain.MaintenancePatch{})
	requireKind(t, domain.KindNotFound, err)
	assert.Equal(t, "Request not found", err.Error())
	_, err = env.bookings.Update(ctx, admin, "garbage", domain.BookingPatch{})
	requireKind(t, domain.KindNotFound, err)
	_, err = env.notify.MarkRead(ctx, admin, ghost)
	requireKind(t, domain.KindNotFound, err)
}

func TestNotificationsOwnedByRecipient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, other := session(domain.RoleTenant), session(domain.RoleTenant)

	ch, cancel := env.notify.Hub().Subscribe(user.UserID)
	defer cancel()

	n, err := env.notify.Notify(ctx, NotifyInput{UserID: oid(t, user), Title: "Hello", Message: "World"})
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSystem, n.Type)

	select {
	case pushed := <-ch:
		assert.Equal(t, n.ID, pushed.ID)
	case <-time.After(time.Second):
		t.Fatal("notification was not pushed")
	}

	_, err = env.notify.MarkRead(ctx, other, n.ID.Hex())
	requireKind(t, domain.KindForbidden, err)

	read, err := env.notify.MarkRead(ctx, user, n.ID.Hex())
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.NotNil(t, read.ReadAt)

	unread, err := env.notify.List(ctx, user, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	requireKind(t, domain.KindForbidden, env.notify.Delete(ctx, other, n.ID.Hex()))
	require.NoError(t, env.notify.Delete(ctx, user, n.ID.Hex()))

	_, err = env.notify.Notify(ctx, NotifyInput{Title: "no recipient", Message: "x"})
	requireKind(t, domain.KindValidation, err)
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("u1")
	assert.Equal(t, 1, hub.Subscribers("u1"))
	cancel()
	cancel()
	assert.Equal(t, 0, hub.Subscribers("u1"))
}
