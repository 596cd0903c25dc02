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

const msgUnitNotFound = "Unit not found"

// UnitService manages the rentable units of a property
type UnitService struct {
	units      domain.UnitRepository
	properties domain.PropertyRepository
	guard      *security.Guard
	audit      *audit.Logger
	logger     *slog.Logger
}

func NewUnitService(units domain.UnitRepository, properties domain.PropertyRepository, guard *security.Guard, auditLog *audit.Logger, logger *slog.Logger) *UnitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitService{units: units, properties: properties, guard: guard, audit: auditLog, logger: logger}
}

type UnitQuery struct {
	PropertyID string
	Status     domain.UnitStatus
}

type CreateUnitInput struct {
	PropertyID    string      `json:"propertyId" validate:"required"`
	UnitNumber    string      `json:"unitNumber" validate:"required"`
	Type          string      `json:"type" validate:"required,oneof=studio 1bed 2bed 3bed 4bed+ commercial"`
	Floor         int         `json:"floor"`
	Size          float64     `json:"size"`
	Bedrooms      int         `json:"bedrooms"`
	Bathrooms     int         `json:"bathrooms"`
	Rent          domain.Rent `json:"rent" validate:"required"`
	Deposit       float64     `json:"deposit" validate:"required,min=0"`
	Features      []string    `json:"features"`
	Images        []string    `json:"images"`
	AvailableFrom *time.Time  `json:"availableFrom"`
}

// List returns units newest first. Landlords only see units of their own properties.
func (s *UnitService) List(ctx context.Context, sess *auth.Session, q UnitQuery) ([]*domain.Unit, error) {
	propertyID, err := optionalRef(q.PropertyID)
	if err != nil {
		return nil, err
	}
	filter := domain.UnitFilter{
		PropertyID: propertyID,
		Status:     q.Status,
		Limit:      domain.DefaultListLimit,
	}
	if sess != nil && sess.Role == domain.RoleLandlord {
		landlordID, err := security.UserObjectID(sess)
		if err != nil {
			return nil, err
		}
		filter.LandlordID = &landlordID
	}
	return s.units.List(ctx, filter)
}

// Create adds a unit to a property the caller owns. The unit inherits the property's landlord.
func (s *UnitService) Create(ctx context.Context, sess *auth.Session, in CreateUnitInput) (*domain.Unit, error) {
	if _, err := s.guard.RequireRole(sess, domain.RoleLandlord); err != nil {
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
	if err := s.guard.Authorize(ctx, sess, domain.EntityProperty, property.ID, property.LandlordID); err != nil {
		return nil, err
	}

	rent := in.Rent
	if rent.Currency == "" {
		rent.Currency = "NGN"
	}
	if rent.Period == "" {
		rent.Period = "monthly"
	}
	u := &domain.Unit{
		PropertyID:    property.ID,
		LandlordID:    property.LandlordID,
		UnitNumber:    in.UnitNumber,
		Type:          in.Type,
		Floor:         in.Floor,
		Size:          in.Size,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		Rent:          rent,
		Deposit:       in.Deposit,
		Features:      nonNil(in.Features),
		Images:        nonNil(in.Images),
		Status:        domain.UnitStatusAvailable,
		AvailableFrom: in.AvailableFrom,
	}
	if err := s.units.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create unit: %w", err)
	}
	return u, nil
}

func (s *UnitService) Get(ctx context.Context, rawID string) (*domain.Unit, error) {
	return loadRecord[domain.Unit](ctx, s.units, rawID, msgUnitNotFound)
}

func (s *UnitService) Update(ctx context.Context, sess *auth.Session, rawID string, patch domain.UnitPatch) (*domain.Unit, error) {
	u, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(patch, msgMissingFields); err != nil {
		return nil, err
	}
	from := u.Status
	if patch.Status != nil {
		if err := checkStatusChange(domain.EntityUnit, string(from), string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	patch.Apply(u)
	if err := s.units.Update(ctx, u); err != nil {
		return nil, notFound(err, msgUnitNotFound)
	}
	recordStatusChange(ctx, s.audit, sess, domain.EntityUnit, u.ID, string(from), string(u.Status))
	return u, nil
}

func (s *UnitService) Delete(ctx context.Context, sess *auth.Session, rawID string) error {
	u, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return err
	}
	if err := s.units.Delete(ctx, u.ID); err != nil {
		return notFound(err, msgUnitNotFound)
	}
	recordDeletion(ctx, s.audit, sess, domain.EntityUnit, u.ID)
	return nil
}

func (s *UnitService) owned(ctx context.Context, sess *auth.Session, rawID string) (*domain.Unit, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	u, err := loadRecord[domain.Unit](ctx, s.units, rawID, msgUnitNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityUnit, u.ID, u.LandlordID); err != nil {
		return nil, err
	}
	return u, nil
}
