package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/logger"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/tracing"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/audit"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/pkg/cache"
)

const (
	msgPropertyNotFound = "Property not found"
	propertyCachePrefix = "property:"
)

// PropertyService manages listings and their moderation
type PropertyService struct {
	properties domain.PropertyRepository
	guard      *security.Guard
	notifier   *NotificationService
	audit      *audit.Logger
	cache      *cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewPropertyService creates a property service. cache may be nil to disable detail caching.
func NewPropertyService(
	properties domain.PropertyRepository,
	guard *security.Guard,
	notifier *NotificationService,
	auditLog *audit.Logger,
	c *cache.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *PropertyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyService{
		properties: properties,
		guard:      guard,
		notifier:   notifier,
		audit:      auditLog,
		cache:      c,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// PropertyQuery carries list filters from the query string
type PropertyQuery struct {
	Status     domain.PropertyStatus
	City       string
	LandlordID string
}

type CreatePropertyInput struct {
	Name        string              `json:"name" validate:"required"`
	Type        domain.PropertyType `json:"type" validate:"required,oneof=apartment house compound commercial"`
	Description string              `json:"description" validate:"required"`
	Address     domain.Address      `json:"address" validate:"required"`
	Images      []string            `json:"images"`
	Amenities   []string            `json:"amenities"`
	TotalUnits  int                 `json:"totalUnits" validate:"min=0"`
}

// List returns properties visible to the caller, newest first. Anonymous callers and
// tenants only ever see approved listings; landlords only see their own.
func (s *PropertyService) List(ctx context.Context, sess *auth.Session, q PropertyQuery) ([]*domain.Property, error) {
	filter := domain.PropertyFilter{
		Status: q.Status,
		City:   q.City,
		Limit:  domain.PropertyListLimit,
	}

	switch {
	case sess == nil || sess.Role == domain.RoleTenant:
		if q.Status != "" && q.Status != domain.PropertyStatusApproved {
			return []*domain.Property{}, nil
		}
		filter.Status = domain.PropertyStatusApproved
	case sess.Role == domain.RoleLandlord:
		landlordID, err := security.UserObjectID(sess)
		if err != nil {
			return nil, err
		}
		filter.LandlordID = &landlordID
	default:
		landlordID, err := optionalRef(q.LandlordID)
		if err != nil {
			return nil, err
		}
		filter.LandlordID = landlordID
	}

	return s.properties.List(ctx, filter)
}

// ListPending returns listings awaiting moderation
func (s *PropertyService) ListPending(ctx context.Context, sess *auth.Session) ([]*domain.Property, error) {
	if _, err := s.guard.RequireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.properties.List(ctx, domain.PropertyFilter{
		Status: domain.PropertyStatusPending,
		Limit:  domain.PropertyListLimit,
	})
}

// Create submits a listing for moderation on behalf of the calling landlord
func (s *PropertyService) Create(ctx context.Context, sess *auth.Session, in CreatePropertyInput) (*domain.Property, error) {
	ctx, span := tracing.Start(ctx, "PropertyService.Create")
	defer span.End()

	if _, err := s.guard.RequireRole(sess, domain.RoleLandlord); err != nil {
		return nil, err
	}
	if err := validateInput(in, msgMissingFields); err != nil {
		return nil, err
	}
	landlordID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}

	p := &domain.Property{
		LandlordID:  landlordID,
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		Address:     in.Address,
		Images:      nonNil(in.Images),
		Amenities:   nonNil(in.Amenities),
		TotalUnits:  in.TotalUnits,
		Status:      domain.PropertyStatusPending,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info("property created",
		slog.String("property_id", p.ID.Hex()),
		slog.String("landlord_id", landlordID.Hex()),
	)
	return p, nil
}

// Get returns a property the caller may view: any approved listing, or one they own
func (s *PropertyService) Get(ctx context.Context, sess *auth.Session, rawID string) (*domain.Property, error) {
	p, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !security.CanView(sess, p.Status == domain.PropertyStatusApproved, p.LandlordID) {
		if sess == nil {
			return nil, domain.NewUnauthenticatedError("Unauthorized")
		}
		return nil, domain.NewForbiddenError("Forbidden")
	}
	return p, nil
}

// Update merges patch into a property owned by the caller. Landlords may move their
// listing back to draft or pending; only admins may approve or reject.
func (s *PropertyService) Update(ctx context.Context, sess *auth.Session, rawID string, patch domain.PropertyPatch) (*domain.Property, error) {
	p, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(patch, msgMissingFields); err != nil {
		return nil, err
	}

	from := p.Status
	if patch.Status != nil && *patch.Status != from {
		to := *patch.Status
		if !security.HasRole(sess, domain.RoleAdmin) && to != domain.PropertyStatusDraft && to != domain.PropertyStatusPending {
			return nil, domain.NewForbiddenError("Only admins can approve or reject properties")
		}
		if err := checkStatusChange(domain.EntityProperty, string(from), string(to)); err != nil {
			return nil, err
		}
	}

	patch.Apply(p)
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityProperty, p.ID, string(from), string(p.Status))
	return p, nil
}

// UpdatePaymentAccount sets where tenants pay rent for the property
func (s *PropertyService) UpdatePaymentAccount(ctx context.Context, sess *auth.Session, rawID string, account domain.PaymentAccount) (*domain.Property, error) {
	p, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(account, "All payment account fields are required"); err != nil {
		return nil, err
	}
	p.PaymentAccount = &account
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PropertyService) Delete(ctx context.Context, sess *auth.Session, rawID string) error {
	p, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return err
	}
	if err := s.properties.Delete(ctx, p.ID); err != nil {
		return notFound(err, msgPropertyNotFound)
	}
	s.invalidate(p)
	recordDeletion(ctx, s.audit, sess, domain.EntityProperty, p.ID)
	return nil
}

// Approve publishes a listing and stamps who approved it
func (s *PropertyService) Approve(ctx context.Context, sess *auth.Session, rawID string) (*domain.Property, error) {
	ctx, span := tracing.Start(ctx, "PropertyService.Approve")
	defer span.End()

	p, from, err := s.moderate(ctx, sess, rawID, domain.PropertyStatusApproved)
	if err != nil {
		return nil, err
	}
	adminID, _ := security.UserObjectID(sess)
	approvedAt := s.now().UTC()
	p.ApprovedBy = &adminID
	p.ApprovedAt = &approvedAt

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityProperty, p.ID, string(from), string(p.Status))
	s.notifier.notify(ctx, NotifyInput{
		UserID:  p.LandlordID,
		Type:    domain.NotificationSystem,
		Title:   "Property approved",
		Message: fmt.Sprintf("%s is now visible to tenants.", p.Name),
		Data:    map[string]any{"propertyId": p.ID.Hex()},
	})
	return p, nil
}

// Reject hides a listing from tenants. reason is passed on to the landlord.
func (s *PropertyService) Reject(ctx context.Context, sess *auth.Session, rawID, reason string) (*domain.Property, error) {
	ctx, span := tracing.Start(ctx, "PropertyService.Reject")
	defer span.End()

	p, from, err := s.moderate(ctx, sess, rawID, domain.PropertyStatusRejected)
	if err != nil {
		return nil, err
	}
	p.ApprovedBy = nil
	p.ApprovedAt = nil

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityProperty, p.ID, string(from), string(p.Status))

	message := fmt.Sprintf("%s was not approved.", p.Name)
	if reason != "" {
		message += " Reason: " + reason
	}
	s.notifier.notify(ctx, NotifyInput{
		UserID:  p.LandlordID,
		Type:    domain.NotificationSystem,
		Title:   "Property rejected",
		Message: message,
		Data:    map[string]any{"propertyId": p.ID.Hex()},
	})
	return p, nil
}

func (s *PropertyService) moderate(ctx context.Context, sess *auth.Session, rawID string, to domain.PropertyStatus) (*domain.Property, domain.PropertyStatus, error) {
	if _, err := s.guard.RequireRole(sess, domain.RoleAdmin); err != nil {
		return nil, "", err
	}
	p, err := s.load(ctx, rawID)
	if err != nil {
		return nil, "", err
	}
	from := p.Status
	if err := checkStatusChange(domain.EntityProperty, string(from), string(to)); err != nil {
		return nil, "", err
	}
	p.Status = to
	return p, from, nil
}

// owned loads a property and checks the caller may mutate it
func (s *PropertyService) owned(ctx context.Context, sess *auth.Session, rawID string) (*domain.Property, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityProperty, p.ID, p.LandlordID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PropertyService) load(ctx context.Context, rawID string) (*domain.Property, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return nil, domain.NewNotFoundError(msgPropertyNotFound)
	}
	key := propertyCachePrefix + id.Hex()
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			p := v.(domain.Property)
			return &p, nil
		}
	}

	p, err := getRecord[domain.Property](ctx, s.properties, id, msgPropertyNotFound)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, *p, s.cacheTTL)
	}
	return p, nil
}

func (s *PropertyService) save(ctx context.Context, p *domain.Property) error {
	err := s.properties.Update(ctx, p)
	s.invalidate(p)
	if err != nil {
		return notFound(err, msgPropertyNotFound)
	}
	return nil
}

func (s *PropertyService) invalidate(p *domain.Property) {
	if s.cache != nil {
		s.cache.Delete(propertyCachePrefix + p.ID.Hex())
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
