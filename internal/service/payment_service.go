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

const msgPaymentNotFound = "Payment not found"

// PaymentService tracks rent and other charges raised against leases
type PaymentService struct {
	payments domain.PaymentRepository
	leases   domain.LeaseRepository
	guard    *security.Guard
	notifier *NotificationService
	audit    *audit.Logger
	logger   *slog.Logger
	now      func() time.Time
}

func NewPaymentService(
	payments domain.PaymentRepository,
	leases domain.LeaseRepository,
	guard *security.Guard,
	notifier *NotificationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{
		payments: payments,
		leases:   leases,
		guard:    guard,
		notifier: notifier,
		audit:    auditLog,
		logger:   logger,
		now:      time.Now,
	}
}

type PaymentQuery struct {
	LeaseID string
	Status  domain.PaymentStatus
}

type CreatePaymentInput struct {
	LeaseID  string    `json:"leaseId" validate:"required"`
	Amount   float64   `json:"amount" validate:"required,gt=0"`
	DueDate  time.Time `json:"dueDate" validate:"required"`
	Type     string    `json:"type" validate:"omitempty,oneof=rent deposit maintenance utility"`
	Currency string    `json:"currency"`
	Notes    string    `json:"notes"`
}

// List returns payments the caller is party to, latest due date first. Admins see all.
func (s *PaymentService) List(ctx context.Context, sess *auth.Session, q PaymentQuery) ([]*domain.Payment, error) {
	userID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	leaseID, err := optionalRef(q.LeaseID)
	if err != nil {
		return nil, err
	}
	tenantID, landlordID := scope(sess, userID)
	return s.payments.List(ctx, domain.PaymentFilter{
		LeaseID:    leaseID,
		TenantID:   tenantID,
		LandlordID: landlordID,
		Status:     q.Status,
		Limit:      domain.DefaultListLimit,
	})
}

// Create raises a charge against a lease the caller owns and tells the tenant it is due
func (s *PaymentService) Create(ctx context.Context, sess *auth.Session, in CreatePaymentInput) (*domain.Payment, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	if err := validateInput(in, msgMissingFields); err != nil {
		return nil, err
	}
	leaseID, err := parseRef(in.LeaseID, msgLeaseNotFound)
	if err != nil {
		return nil, err
	}
	lease, err := getRecord[domain.Lease](ctx, s.leases, leaseID, msgLeaseNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityLease, lease.ID, lease.LandlordID); err != nil {
		return nil, err
	}

	p := &domain.Payment{
		LeaseID:    lease.ID,
		TenantID:   lease.TenantID,
		LandlordID: lease.LandlordID,
		UnitID:     lease.UnitID,
		Amount:     in.Amount,
		Currency:   orDefault(in.Currency, "NGN"),
		Type:       orDefault(in.Type, "rent"),
		DueDate:    in.DueDate,
		Status:     domain.PaymentStatusPending,
		Notes:      in.Notes,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.notifier.notify(ctx, NotifyInput{
		UserID:  p.TenantID,
		Type:    domain.NotificationPaymentDue,
		Title:   "Payment due",
		Message: fmt.Sprintf("%.2f %s is due on %s.", p.Amount, p.Currency, p.DueDate.Format("2006-01-02")),
		Data:    map[string]any{"paymentId": p.ID.Hex()},
	})
	return p, nil
}

// Get returns a payment to its tenant, its landlord or an admin
func (s *PaymentService) Get(ctx context.Context, sess *auth.Session, rawID string) (*domain.Payment, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	p, err := loadRecord[domain.Payment](ctx, s.payments, rawID, msgPaymentNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityPayment, p.ID, p.TenantID, p.LandlordID); err != nil {
		return nil, err
	}
	return p, nil
}

// Update lets the landlord record settlement. Marking a payment paid stamps the paid date.
func (s *PaymentService) Update(ctx context.Context, sess *auth.Session, rawID string, patch domain.PaymentPatch) (*domain.Payment, error) {
	p, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(patch, msgMissingFields); err != nil {
		return nil, err
	}
	from := p.Status
	if patch.Status != nil {
		if err := checkStatusChange(domain.EntityPayment, string(from), string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	patch.Apply(p)
	if p.Status == domain.PaymentStatusPaid && p.PaidDate == nil {
		paid := s.now().UTC()
		p.PaidDate = &paid
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, notFound(err, msgPaymentNotFound)
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityPayment, p.ID, string(from), string(p.Status))

	if from != domain.PaymentStatusPaid && p.Status == domain.PaymentStatusPaid {
		s.notifier.notify(ctx, NotifyInput{
			UserID:  p.TenantID,
			Type:    domain.NotificationPaymentReceived,
			Title:   "Payment received",
			Message: fmt.Sprintf("Your payment of %.2f %s was received.", p.Amount, p.Currency),
			Data:    map[string]any{"paymentId": p.ID.Hex()},
		})
	}
	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, sess *auth.Session, rawID string) error {
	p, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return err
	}
	if err := s.payments.Delete(ctx, p.ID); err != nil {
		return notFound(err, msgPaymentNotFound)
	}
	recordDeletion(ctx, s.audit, sess, domain.EntityPayment, p.ID)
	return nil
}

func (s *PaymentService) owned(ctx context.Context, sess *auth.Session, rawID string) (*domain.Payment, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	p, err := loadRecord[domain.Payment](ctx, s.payments, rawID, msgPaymentNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityPayment, p.ID, p.LandlordID); err != nil {
		return nil, err
	}
	return p, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
