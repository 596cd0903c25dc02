package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/logger"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/audit"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgRequestNotFound = "Request not found"

// MaintenanceService handles repair requests raised by tenants
type MaintenanceService struct {
	requests   domain.MaintenanceRepository
	properties domain.PropertyRepository
	guard      *security.Guard
	notifier   *NotificationService
	audit      *audit.Logger
	logger     *slog.Logger
	now        func() time.Time
}

func NewMaintenanceService(
	requests domain.MaintenanceRepository,
	properties domain.PropertyRepository,
	guard *security.Guard,
	notifier *NotificationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *MaintenanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MaintenanceService{
		requests:   requests,
		properties: properties,
		guard:      guard,
		notifier:   notifier,
		audit:      auditLog,
		logger:     logger,
		now:        time.Now,
	}
}

type MaintenanceQuery struct {
	PropertyID string
	Status     domain.MaintenanceStatus
}

type CreateMaintenanceInput struct {
	PropertyID  string   `json:"propertyId" validate:"required"`
	UnitID      string   `json:"unitId"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=plumbing electrical hvac appliance structural other"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Images      []string `json:"images"`
}

// List returns requests the caller is party to, newest first. Admins see all.
func (s *MaintenanceService) List(ctx context.Context, sess *auth.Session, q MaintenanceQuery) ([]*domain.MaintenanceRequest, error) {
	userID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	propertyID, err := optionalRef(q.PropertyID)
	if err != nil {
		return nil, err
	}
	tenantID, landlordID := scope(sess, userID)
	return s.requests.List(ctx, domain.MaintenanceFilter{
		PropertyID: propertyID,
		TenantID:   tenantID,
		LandlordID: landlordID,
		Status:     q.Status,
		Limit:      domain.DefaultListLimit,
	})
}

// Create records a request against a property. The landlord is copied from the property
// at this moment and is not refreshed if the property later changes hands or disappears.
func (s *MaintenanceService) Create(ctx context.Context, sess *auth.Session, in CreateMaintenanceInput) (*domain.MaintenanceRequest, error) {
	tenantID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in, msgMissingFields); err != nil {
		return nil, err
	}
	propertyID, err := parseRef(in.PropertyID, msgPropertyNotFound)
	if err != nil {
		return nil, err
	}
	property, err := getRecord[domain.Property](ctx, s.properties, propertyID, msgPropertyNotFound)
	if err != nil {
		return nil, err
	}

	m := &domain.MaintenanceRequest{
		PropertyID:  property.ID,
		TenantID:    tenantID,
		LandlordID:  property.LandlordID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    orDefault(in.Priority, domain.DefaultMaintenancePriority),
		Status:      domain.MaintenanceStatusPending,
		Images:      nonNil(in.Images),
	}
	if in.UnitID != "" {
		unitID, err := primitive.ObjectIDFromHex(in.UnitID)
		if err != nil {
			return nil, domain.NewValidationError("Invalid value for unitId")
		}
		m.UnitID = &unitID
	}
	if err := s.requests.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create maintenance request: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info("maintenance request created",
		slog.String("request_id", m.ID.Hex()),
		slog.String("property_id", property.ID.Hex()),
		slog.String("priority", m.Priority),
	)
	s.notifier.notify(ctx, NotifyInput{
		UserID:  m.LandlordID,
		Type:    domain.NotificationMaintenance,
		Title:   "New maintenance request",
		Message: fmt.Sprintf("%s at %s (%s priority)", m.Title, property.Name, m.Priority),
		Data:    map[string]any{"requestId": m.ID.Hex()},
	})
	return m, nil
}

// Get returns a request to its tenant, its landlord or an admin
func (s *MaintenanceService) Get(ctx context.Context, sess *auth.Session, rawID string) (*domain.MaintenanceRequest, error) {
	return s.owned(ctx, sess, rawID)
}

// Update merges patch into a request. Either party may update it; a status change is
// announced to the other party.
func (s *MaintenanceService) Update(ctx context.Context, sess *auth.Session, rawID string, patch domain.MaintenancePatch) (*domain.MaintenanceRequest, error) {
	m, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(patch, msgMissingFields); err != nil {
		return nil, err
	}
	from := m.Status
	if patch.Status != nil {
		if err := checkStatusChange(domain.EntityMaintenance, string(from), string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	patch.Apply(m)
	if m.Status == domain.MaintenanceStatusCompleted && m.CompletedAt == nil {
		done := s.now().UTC()
		m.CompletedAt = &done
	}
	if err := s.requests.Update(ctx, m); err != nil {
		return nil, notFound(err, msgRequestNotFound)
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityMaintenance, m.ID, string(from), string(m.Status))

	if from != m.Status {
		recipient := m.TenantID
		if sess.UserID == m.TenantID.Hex() {
			recipient = m.LandlordID
		}
		s.notifier.notify(ctx, NotifyInput{
			UserID:  recipient,
			Type:    domain.NotificationMaintenance,
			Title:   "Maintenance request updated",
			Message: fmt.Sprintf("%s is now %s.", m.Title, m.Status),
			Data:    map[string]any{"requestId": m.ID.Hex(), "status": string(m.Status)},
		})
	}
	return m, nil
}

func (s *MaintenanceService) Delete(ctx context.Context, sess *auth.Session, rawID string) error {
	m, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, m.ID); err != nil {
		return notFound(err, msgRequestNotFound)
	}
	recordDeletion(ctx, s.audit, sess, domain.EntityMaintenance, m.ID)
	return nil
}

func (s *MaintenanceService) owned(ctx context.Context, sess *auth.Session, rawID string) (*domain.MaintenanceRequest, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	m, err := loadRecord[domain.MaintenanceRequest](ctx, s.requests, rawID, msgRequestNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityMaintenance, m.ID, m.TenantID, m.LandlordID); err != nil {
		return nil, err
	}
	return m, nil
}
