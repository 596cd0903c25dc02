package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/repository"
	"github.com/thedon-dev/Final-Year-Project/internal/repository/memory"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/audit"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/pkg/cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	repos       *repository.Repositories
	tokens      *auth.TokenManager
	auth        *AuthService
	notify      *NotificationService
	properties  *PropertyService
	units       *UnitService
	leases      *LeaseService
	payments    *PaymentService
	maintenance *MaintenanceService
	bookings    *BookingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.New()
	auditLog := audit.NewLogger(nil, nil)
	guard := security.NewGuard(nil).WithAudit(auditLog)
	tokens, err := auth.NewTokenManager("test-secret", "test", time.Hour)
	require.NoError(t, err)

	authSvc := NewAuthService(repos.Users, tokens, nil, guard, nil)
	authSvc.cost = bcrypt.MinCost
	notify := NewNotificationService(repos.Notifications, NewHub(), guard, nil)

	return &testEnv{
		repos:       repos,
		tokens:      tokens,
		auth:        authSvc,
		notify:      notify,
		properties:  NewPropertyService(repos.Properties, guard, notify, auditLog, cache.New(), time.Minute, nil),
		units:       NewUnitService(repos.Units, repos.Properties, guard, auditLog, nil),
		leases:      NewLeaseService(repos.Leases, repos.Units, guard, notify, auditLog, nil),
		payments:    NewPaymentService(repos.Payments, repos.Leases, guard, notify, auditLog, nil),
		maintenance: NewMaintenanceService(repos.Maintenance, repos.Properties, guard, notify, auditLog, nil),
		bookings:    NewBookingService(repos.Bookings, repos.Units, guard, notify, auditLog, nil),
	}
}

func session(role domain.Role) *auth.Session {
	id := primitive.NewObjectID().Hex()
	return &auth.Session{UserID: id, Email: id + "@example.com", Role: role}
}

func oid(t *testing.T, s *auth.Session) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(s.UserID)
	require.NoError(t, err)
	return id
}

func requireKind(t *testing.T, want domain.ErrorKind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, domain.KindOf(err), "error: %v", err)
}

func validProperty(name string) CreatePropertyInput {
	return CreatePropertyInput{
		Name:        name,
		Type:        domain.PropertyTypeApartment,
		Description: "Two blocks of flats",
		Address: domain.Address{
			Street:  "1 Ring Road",
			City:    "Nairobi",
			State:   "Nairobi",
			Country: "Kenya",
		},
		TotalUnits: 4,
	}
}

func (e *testEnv) createProperty(t *testing.T, landlord *auth.Session, name string) *domain.Property {
	t.Helper()
	p, err := e.properties.Create(context.Background(), landlord, validProperty(name))
	require.NoError(t, err)
	return p
}

func (e *testEnv) createUnit(t *testing.T, landlord *auth.Session, property *domain.Property) *domain.Unit {
	t.Helper()
	u, err := e.units.Create(context.Background(), landlord, CreateUnitInput{
		PropertyID: property.ID.Hex(),
		UnitNumber: "A1",
		Type:       "2bed",
		Rent:       domain.Rent{Amount: 1200},
		Deposit:    2400,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) createLease(t *testing.T, landlord, tenant *auth.Session, unit *domain.Unit) *domain.Lease {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l, err := e.leases.Create(context.Background(), landlord, CreateLeaseInput{
		UnitID:        unit.ID.Hex(),
		TenantID:      tenant.UserID,
		StartDate:     start,
		EndDate:       start.AddDate(1, 0, 0),
		RentAmount:    1200,
		DepositAmount: 2400,
	})
	require.NoError(t, err)
	return l
}

func (e *testEnv) notificationsFor(t *testing.T, s *auth.Session) []*domain.Notification {
	t.Helper()
	got, err := e.notify.List(context.Background(), s, false)
	require.NoError(t, err)
	return got
}
