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

const msgBookingNotFound = "Booking not found"

// BookingService handles tenants' viewing and move-in requests for units
type BookingService struct {
	bookings domain.BookingRepository
	units    domain.UnitRepository
	guard    *security.Guard
	notifier *NotificationService
	audit    *audit.Logger
	logger   *slog.Logger
	now      func() time.Time
}

func NewBookingService(
	bookings domain.BookingRepository,
	units domain.UnitRepository,
	guard *security.Guard,
	notifier *NotificationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		bookings: bookings,
		units:    units,
		guard:    guard,
		notifier: notifier,
		audit:    auditLog,
		logger:   logger,
		now:      time.Now,
	}
}

type BookingQuery struct {
	UnitID string
	Status domain.BookingStatus
}

type CreateBookingInput struct {
	UnitID      string     `json:"unitId" validate:"required"`
	MoveInDate  time.Time  `json:"moveInDate" validate:"required"`
	ViewingDate *time.Time `json:"viewingDate"`
	Message     string     `json:"message"`
}

// RespondInput is the landlord's answer to a booking
type RespondInput struct {
	Status   domain.BookingStatus `json:"status" validate:"required,oneof=confirmed cancelled"`
	Response string               `json:"response"`
}

func (s *BookingService) List(ctx context.Context, sess *auth.Session, q BookingQuery) ([]*domain.Booking, error) {
	userID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	unitID, err := optionalRef(q.UnitID)
	if err != nil {
		return nil, err
	}
	tenantID, landlordID := scope(sess, userID)
	return s.bookings.List(ctx, domain.BookingFilter{
		UnitID:     unitID,
		TenantID:   tenantID,
		LandlordID: landlordID,
		Status:     q.Status,
		Limit:      domain.DefaultListLimit,
	})
}

// Create files a booking request for a unit and alerts its landlord
func (s *BookingService) Create(ctx context.Context, sess *auth.Session, in CreateBookingInput) (*domain.Booking, error) {
	if _, err := s.guard.RequireRole(sess, domain.RoleTenant); err != nil {
		return nil, err
	}
	tenantID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in, msgMissingFields); err != nil {
		return nil, err
	}
	unitID, err := parseRef(in.UnitID, msgUnitNotFound)
	if err != nil {
		return nil, err
	}
	unit, err := getRecord[domain.Unit](ctx, s.units, unitID, msgUnitNotFound)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		UnitID:      unit.ID,
		TenantID:    tenantID,
		LandlordID:  unit.LandlordID,
		ViewingDate: in.ViewingDate,
		MoveInDate:  in.MoveInDate,
		Status:      domain.BookingStatusPending,
		Message:     in.Message,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.notifier.notify(ctx, NotifyInput{
		UserID:  b.LandlordID,
		Type:    domain.NotificationBookingRequest,
		Title:   "New booking request",
		Message: fmt.Sprintf("Unit %s requested for %s.", unit.UnitNumber, b.MoveInDate.Format("2006-01-02")),
		Data:    map[string]any{"bookingId": b.ID.Hex()},
	})
	return b, nil
}

func (s *BookingService) Get(ctx context.Context, sess *auth.Session, rawID string) (*domain.Booking, error) {
	return s.owned(ctx, sess, rawID)
}

func (s *BookingService) Update(ctx context.Context, sess *auth.Session, rawID string, patch domain.BookingPatch) (*domain.Booking, error) {
	b, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(patch, msgMissingFields); err != nil {
		return nil, err
	}
	from := b.Status
	if patch.Status != nil {
		// tenants may withdraw their request; confirming is the landlord's call through Respond
		if sess.Role == domain.RoleTenant && *patch.Status != domain.BookingStatusCancelled {
			return nil, domain.NewForbiddenError("Tenants can only cancel a booking")
		}
		if err := checkStatusChange(domain.EntityBooking, string(from), string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	patch.Apply(b)
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, notFound(err, msgBookingNotFound)
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityBooking, b.ID, string(from), string(b.Status))
	return b, nil
}

// Respond confirms or declines a booking. Only the unit's landlord or an admin may respond.
func (s *BookingService) Respond(ctx context.Context, sess *auth.Session, rawID string, in RespondInput) (*domain.Booking, error) {
	if _, err := s.guard.RequireRole(sess, domain.RoleLandlord); err != nil {
		return nil, err
	}
	b, err := loadRecord[domain.Booking](ctx, s.bookings, rawID, msgBookingNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityBooking, b.ID, b.LandlordID); err != nil {
		return nil, err
	}
	if err := validateInput(in, msgMissingFields); err != nil {
		return nil, err
	}
	from := b.Status
	if err := checkStatusChange(domain.EntityBooking, string(from), string(in.Status)); err != nil {
		return nil, err
	}

	respondedAt := s.now().UTC()
	b.Status = in.Status
	b.Response = in.Response
	b.RespondedAt = &respondedAt
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, notFound(err, msgBookingNotFound)
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityBooking, b.ID, string(from), string(b.Status))

	s.notifier.notify(ctx, NotifyInput{
		UserID:  b.TenantID,
		Type:    domain.NotificationBookingRequest,
		Title:   "Booking " + string(b.Status),
		Message: orDefault(b.Response, fmt.Sprintf("Your booking was %s.", b.Status)),
		Data:    map[string]any{"bookingId": b.ID.Hex(), "status": string(b.Status)},
	})
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, sess *auth.Session, rawID string) error {
	b, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, b.ID); err != nil {
		return notFound(err, msgBookingNotFound)
	}
	recordDeletion(ctx, s.audit, sess, domain.EntityBooking, b.ID)
	return nil
}

func (s *BookingService) owned(ctx context.Context, sess *auth.Session, rawID string) (*domain.Booking, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	b, err := loadRecord[domain.Booking](ctx, s.bookings, rawID, msgBookingNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityBooking, b.ID, b.TenantID, b.LandlordID); err != nil {
		return nil, err
	}
	return b, nil
}
