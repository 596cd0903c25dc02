package security

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden"
)

// DenialRecorder receives every refused resource access
type DenialRecorder interface {
	LogDenied(ctx context.Context, userID, resource, resourceID, reason string)
}

// Guard turns session checks into domain errors and logs denied access
type Guard struct {
	logger  *slog.Logger
	denials DenialRecorder
}

// NewGuard creates a new authorization guard
func NewGuard(logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{logger: logger}
}

// WithAudit makes Authorize report denials to r as well as the log
func (g *Guard) WithAudit(r DenialRecorder) *Guard {
	g.denials = r
	return g
}

// RequireAuth fails with an authentication error when there is no valid session
func (g *Guard) RequireAuth(s *auth.Session) (*auth.Session, error) {
	if s == nil {
		return nil, domain.NewUnauthenticatedError(msgUnauthorized)
	}
	return s, nil
}

// RequireRole passes when the session holds one of roles. Admin always passes.
func (g *Guard) RequireRole(s *auth.Session, roles ...domain.Role) (*auth.Session, error) {
	if _, err := g.RequireAuth(s); err != nil {
		return nil, err
	}
	if HasRole(s, roles...) {
		return s, nil
	}
	g.logger.Warn("role check failed",
		slog.String("user_id", s.UserID),
		slog.String("role", string(s.Role)),
	)
	return nil, domain.NewForbiddenError(msgForbidden)
}

// Authorize permits a mutation of a resource owned by any of owners
func (g *Guard) Authorize(ctx context.Context, s *auth.Session, resource string, resourceID primitive.ObjectID, owners ...primitive.ObjectID) error {
	if _, err := g.RequireAuth(s); err != nil {
		return err
	}
	if CanMutate(s, owners...) {
		return nil
	}
	g.logger.Warn("resource access denied",
		slog.String("user_id", s.UserID),
		slog.String("resource_type", resource),
		slog.String("resource_id", resourceID.Hex()),
	)
	if g.denials != nil {
		g.denials.LogDenied(ctx, s.UserID, resource, resourceID.Hex(), "not owner")
	}
	return domain.NewForbiddenError(msgForbidden)
}

// HasRole reports whether s holds one of roles, with admin as a universal override
func HasRole(s *auth.Session, roles ...domain.Role) bool {
	if s == nil {
		return false
	}
	if s.Role == domain.RoleAdmin {
		return true
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// CanMutate is true iff the session is an admin or its user owns the resource
func CanMutate(s *auth.Session, owners ...primitive.ObjectID) bool {
	if s == nil {
		return false
	}
	if s.Role == domain.RoleAdmin {
		return true
	}
	for _, owner := range owners {
		if !owner.IsZero() && owner.Hex() == s.UserID {
			return true
		}
	}
	return false
}

// CanView allows anyone to see public records and otherwise falls back to CanMutate
func CanView(s *auth.Session, public bool, owners ...primitive.ObjectID) bool {
	return public || CanMutate(s, owners...)
}

// UserObjectID parses the session's user id
func UserObjectID(s *auth.Session) (primitive.ObjectID, error) {
	if s == nil {
		return primitive.NilObjectID, domain.NewUnauthenticatedError(msgUnauthorized)
	}
	id, err := primitive.ObjectIDFromHex(s.UserID)
	if err != nil {
		return primitive.NilObjectID, domain.NewUnauthenticatedError(msgUnauthorized)
	}
	return id, nil
}
