package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/featureflags"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/metrics"
	"github.com/thedon-dev/Final-Year-Project/internal/security/audit"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgMissingFields = "Missing required fields"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks struct tags. Any missing required field yields missingMsg;
// the first other violation is reported by field name.
func validateInput(in any, missingMsg string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError(err.Error())
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return domain.NewValidationError(missingMsg)
		}
	}
	return domain.NewValidationError(fmt.Sprintf("Invalid value for %s", verrs[0].Field()))
}

// notFound maps a repository miss to a client-facing not found error
func notFound(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError(message)
	}
	return err
}

// parseRef parses an id supplied in a request body. A malformed id means the referenced
// record does not exist.
func parseRef(raw, message string) (primitive.ObjectID, error) {
	id, err := domain.ParseID(raw)
	if err != nil {
		return primitive.NilObjectID, domain.NewNotFoundError(message)
	}
	return id, nil
}

// optionalRef parses an optional id used as a list filter
func optionalRef(raw string) (*primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, domain.NewValidationError("Invalid id filter")
	}
	return &id, nil
}

// checkStatusChange enforces transition tables when strict transitions are on
func checkStatusChange(entity, from, to string) error {
	if from == to || !featureflags.StrictTransitions() {
		return nil
	}
	return domain.CheckTransition(entity, from, to)
}

// recordStatusChange audits and counts a status overwrite
func recordStatusChange(ctx context.Context, al *audit.Logger, s *auth.Session, entity string, id primitive.ObjectID, from, to string) {
	if from == to {
		return
	}
	metrics.ObserveStatusChange(entity, to)
	if al != nil {
		al.LogStatusChange(ctx, sessionUser(s), entity, id.Hex(), from, to)
	}
}

func recordDeletion(ctx context.Context, al *audit.Logger, s *auth.Session, entity string, id primitive.ObjectID) {
	if al != nil {
		al.LogDeletion(ctx, sessionUser(s), entity, id.Hex())
	}
}

func sessionUser(s *auth.Session) string {
	if s == nil {
		return ""
	}
	return s.UserID
}

// scope returns the owner filters implied by the caller's role: tenants see their own
// records, landlords theirs, admins everything
func scope(s *auth.Session, userID primitive.ObjectID) (tenant, landlord *primitive.ObjectID) {
	switch s.Role {
	case domain.RoleTenant:
		return &userID, nil
	case domain.RoleLandlord:
		return nil, &userID
	}
	return nil, nil
}

func logError(log *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("error", err.Error()))
	for _, a := range attrs {
		args = append(args, a)
	}
	log.Error(msg, args...)
}

type getter[T any] interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
}

func getRecord[T any](ctx context.Context, repo getter[T], id primitive.ObjectID, message string) (*T, error) {
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, message)
	}
	return item, nil
}

// loadRecord resolves a path id to a stored record
func loadRecord[T any](ctx context.Context, repo getter[T], rawID, message string) (*T, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return nil, domain.NewNotFoundError(message)
	}
	return getRecord[T](ctx, repo, id, message)
}
