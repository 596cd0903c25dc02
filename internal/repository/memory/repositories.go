package memory

import (
	"context"
	"strings"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/repository"
)

// New returns a full set of empty in-memory repositories
func New() *repository.Repositories {
	return &repository.Repositories{
		Users:         NewUserRepository(),
		Properties:    NewPropertyRepository(),
		Units:         NewUnitRepository(),
		Leases:        NewLeaseRepository(),
		Payments:      NewPaymentRepository(),
		Maintenance:   NewMaintenanceRepository(),
		Bookings:      NewBookingRepository(),
		Notifications: NewNotificationRepository(),
		Ping:          func(context.Context) error { return nil },
	}
}

type UserRepository struct {
	*store[domain.User, *domain.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{newStore[domain.User]()}
}

// Create rejects an email that is already registered, ignoring case
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = repository.NormalizeEmail(user.Email)
	return r.createUnless(user, func(existing *domain.User) bool {
		return existing.Email == user.Email
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = repository.NormalizeEmail(email)
	return r.findFirst(func(u *domain.User) bool { return u.Email == email })
}

type PropertyRepository struct {
	*store[domain.Property, *domain.Property]
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{newStore[domain.Property]()}
}

func (r *PropertyRepository) List(ctx context.Context, f domain.PropertyFilter) ([]*domain.Property, error) {
	city := strings.ToLower(f.City)
	match := func(p *domain.Property) bool {
		return statusMatches(f.Status, p.Status) &&
			idMatches(f.LandlordID, p.LandlordID) &&
			(city == "" || strings.Contains(strings.ToLower(p.Address.City), city))
	}
	return r.list(match, createdAt[domain.Property], domain.ClampLimit(f.Limit, domain.PropertyListLimit)), nil
}

type UnitRepository struct {
	*store[domain.Unit, *domain.Unit]
}

func NewUnitRepository() *UnitRepository {
	return &UnitRepository{newStore[domain.Unit]()}
}

func (r *UnitRepository) List(ctx context.Context, f domain.UnitFilter) ([]*domain.Unit, error) {
	match := func(u *domain.Unit) bool {
		return idMatches(f.PropertyID, u.PropertyID) &&
			idMatches(f.LandlordID, u.LandlordID) &&
			statusMatches(f.Status, u.Status)
	}
	return r.list(match, createdAt[domain.Unit], domain.ClampLimit(f.Limit, domain.DefaultListLimit)), nil
}

type LeaseRepository struct {
	*store[domain.Lease, *domain.Lease]
}

func NewLeaseRepository() *LeaseRepository {
	return &LeaseRepository{newStore[domain.Lease]()}
}

func (r *LeaseRepository) List(ctx context.Context, f domain.LeaseFilter) ([]*domain.Lease, error) {
	match := func(l *domain.Lease) bool {
		return idMatches(f.UnitID, l.UnitID) &&
			idMatches(f.TenantID, l.TenantID) &&
			idMatches(f.LandlordID, l.LandlordID) &&
			statusMatches(f.Status, l.Status) &&
			inRange(l.EndDate, f.EndFrom, f.EndTo)
	}
	return r.list(match, createdAt[domain.Lease], domain.ClampLimit(f.Limit, domain.DefaultListLimit)), nil
}

type PaymentRepository struct {
	*store[domain.Payment, *domain.Payment]
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{newStore[domain.Payment]()}
}

// List orders by due date, latest first
func (r *PaymentRepository) List(ctx context.Context, f domain.PaymentFilter) ([]*domain.Payment, error) {
	match := func(p *domain.Payment) bool {
		return idMatches(f.LeaseID, p.LeaseID) &&
			idMatches(f.TenantID, p.TenantID) &&
			idMatches(f.LandlordID, p.LandlordID) &&
			statusMatches(f.Status, p.Status) &&
			inRange(p.DueDate, f.DueFrom, f.DueTo)
	}
	dueDate := func(p *domain.Payment) time.Time { return p.DueDate }
	return r.list(match, dueDate, domain.ClampLimit(f.Limit, domain.DefaultListLimit)), nil
}

type MaintenanceRepository struct {
	*store[domain.MaintenanceRequest, *domain.MaintenanceRequest]
}

func NewMaintenanceRepository() *MaintenanceRepository {
	return &MaintenanceRepository{newStore[domain.MaintenanceRequest]()}
}

func (r *MaintenanceRepository) List(ctx context.Context, f domain.MaintenanceFilter) ([]*domain.MaintenanceRequest, error) {
	match := func(m *domain.MaintenanceRequest) bool {
		return idMatches(f.PropertyID, m.PropertyID) &&
			idMatches(f.TenantID, m.TenantID) &&
			idMatches(f.LandlordID, m.LandlordID) &&
			statusMatches(f.Status, m.Status)
	}
	return r.list(match, createdAt[domain.MaintenanceRequest], domain.ClampLimit(f.Limit, domain.DefaultListLimit)), nil
}

type BookingRepository struct {
	*store[domain.Booking, *domain.Booking]
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{newStore[domain.Booking]()}
}

func (r *BookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	match := func(b *domain.Booking) bool {
		return idMatches(f.UnitID, b.UnitID) &&
			idMatches(f.TenantID, b.TenantID) &&
			idMatches(f.LandlordID, b.LandlordID) &&
			statusMatches(f.Status, b.Status)
	}
	return r.list(match, createdAt[domain.Booking], domain.ClampLimit(f.Limit, domain.DefaultListLimit)), nil
}

type NotificationRepository struct {
	*store[domain.Notification, *domain.Notification]
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{newStore[domain.Notification]()}
}

func (r *NotificationRepository) List(ctx context.Context, f domain.NotificationFilter) ([]*domain.Notification, error) {
	match := func(n *domain.Notification) bool {
		return idMatches(f.UserID, n.UserID) && (!f.UnreadOnly || !n.Read)
	}
	return r.list(match, createdAt[domain.Notification], domain.ClampLimit(f.Limit, domain.DefaultListLimit)), nil
}
