package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/audit"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
)

const msgLeaseNotFound = "Lease not found"

// LeaseService manages tenancy agreements between a landlord and a tenant
type LeaseService struct {
	leases   domain.LeaseRepository
	units    domain.UnitRepository
	guard    *security.Guard
	notifier *NotificationService
	audit    *audit.Logger
	logger   *slog.Logger
}

func NewLeaseService(
	leases domain.LeaseRepository,
	units domain.UnitRepository,
	guard *security.Guard,
	notifier *NotificationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *LeaseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaseService{leases: leases, units: units, guard: guard, notifier: notifier, audit: auditLog, logger: logger}
}

type LeaseQuery struct {
	UnitID string
	Status domain.LeaseStatus
}

type CreateLeaseInput struct {
	UnitID        string    `json:"unitId" validate:"required"`
	TenantID      string    `json:"tenantId" validate:"required"`
	StartDate     time.Time `json:"startDate" validate:"required"`
	EndDate       time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	RentAmount    float64   `json:"rentAmount" validate:"required,gt=0"`
	DepositAmount float64   `json:"depositAmount" validate:"min=0"`
	PaymentDay    int       `json:"paymentDay" validate:"omitempty,min=1,max=31"`
	Terms         string    `json:"terms"`
}

// List returns leases the caller is party to, newest first. Admins see all.
func (s *LeaseService) List(ctx context.Context, sess *auth.Session, q LeaseQuery) ([]*domain.Lease, error) {
	userID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	unitID, err := optionalRef(q.UnitID)
	if err != nil {
		return nil, err
	}
	tenantID, landlordID := scope(sess, userID)
	return s.leases.List(ctx, domain.LeaseFilter{
		UnitID:     unitID,
		TenantID:   tenantID,
		LandlordID: landlordID,
		Status:     q.Status,
		Limit:      domain.DefaultListLimit,
	})
}

// Create drafts a lease on one of the caller's units
func (s *LeaseService) Create(ctx context.Context, sess *auth.Session, in CreateLeaseInput) (*domain.Lease, error) {
	if _, err := s.guard.RequireRole(sess, domain.RoleLandlord); err != nil {
		return nil, err
	}
	if err := validateInput(in, msgMissingFields); err != nil {
		return nil, err
	}
	unitID, err := parseRef(in.UnitID, msgUnitNotFound)
	if err != nil {
		return nil, err
	}
	tenantID, err := parseRef(in.TenantID, msgUserNotFound)
	if err != nil {
		return nil, err
	}
	unit, err := getRecord[domain.Unit](ctx, s.units, unitID, msgUnitNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityUnit, unit.ID, unit.LandlordID); err != nil {
		return nil, err
	}

	paymentDay := in.PaymentDay
	if paymentDay == 0 {
		paymentDay = 1
	}
	l := &domain.Lease{
		UnitID:        unit.ID,
		PropertyID:    unit.PropertyID,
		LandlordID:    unit.LandlordID,
		TenantID:      tenantID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		RentAmount:    in.RentAmount,
		DepositAmount: in.DepositAmount,
		PaymentDay:    paymentDay,
		Status:        domain.LeaseStatusPending,
		Documents:     []domain.LeaseDocument{},
		Terms:         in.Terms,
	}
	if err := s.leases.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create lease: %w", err)
	}

	s.notifier.notify(ctx, NotifyInput{
		UserID:  tenantID,
		Type:    domain.NotificationSystem,
		Title:   "New lease",
		Message: fmt.Sprintf("A lease for unit %s is awaiting your review.", unit.UnitNumber),
		Data:    map[string]any{"leaseId": l.ID.Hex()},
	})
	return l, nil
}

// Get returns a lease to its tenant, its landlord or an admin
func (s *LeaseService) Get(ctx context.Context, sess *auth.Session, rawID string) (*domain.Lease, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	l, err := loadRecord[domain.Lease](ctx, s.leases, rawID, msgLeaseNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityLease, l.ID, l.TenantID, l.LandlordID); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LeaseService) Update(ctx context.Context, sess *auth.Session, rawID string, patch domain.LeasePatch) (*domain.Lease, error) {
	l, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(patch, msgMissingFields); err != nil {
		return nil, err
	}
	from := l.Status
	if patch.Status != nil {
		if err := checkStatusChange(domain.EntityLease, string(from), string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	patch.Apply(l)
	if !l.EndDate.After(l.StartDate) {
		return nil, domain.NewValidationError("Invalid value for endDate")
	}
	if err := s.leases.Update(ctx, l); err != nil {
		return nil, notFound(err, msgLeaseNotFound)
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityLease, l.ID, string(from), string(l.Status))
	return l, nil
}

func (s *LeaseService) Delete(ctx context.Context, sess *auth.Session, rawID string) error {
	l, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return err
	}
	if err := s.leases.Delete(ctx, l.ID); err != nil {
		return notFound(err, msgLeaseNotFound)
	}
	recordDeletion(ctx, s.audit, sess, domain.EntityLease, l.ID)
	return nil
}

// owned loads a lease the caller may change: its landlord or an admin
func (s *LeaseService) owned(ctx context.Context, sess *auth.Session, rawID string) (*domain.Lease, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	l, err := loadRecord[domain.Lease](ctx, s.leases, rawID, msgLeaseNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityLease, l.ID, l.LandlordID); err != nil {
		return nil, err
	}
	return l, nil
}
