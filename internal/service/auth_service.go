package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/logger"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/metrics"
	"github.com/thedon-dev/Final-Year-Project/internal/repository"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/internal/security/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgEmailTaken         = "Email already registered"
	msgUserNotFound       = "User not found"
	msgTooManyAttempts    = "Too many login attempts, please try again later"
)

// AuthService handles registration, login and the caller's own account
type AuthService struct {
	users    domain.UserRepository
	tokens   *auth.TokenManager
	throttle ratelimit.Throttle
	guard    *security.Guard
	logger   *slog.Logger
	cost     int
}

// NewAuthService creates a new authentication service. throttle may be nil.
func NewAuthService(
	users domain.UserRepository,
	tokens *auth.TokenManager,
	throttle ratelimit.Throttle,
	guard *security.Guard,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		throttle: throttle,
		guard:    guard,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

// RegisterInput is a self-registration request. Admin accounts cannot self-register.
type RegisterInput struct {
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=6"`
	FirstName string      `json:"firstName" validate:"required"`
	LastName  string      `json:"lastName" validate:"required"`
	Phone     string      `json:"phone" validate:"required"`
	Role      domain.Role `json:"role" validate:"required,oneof=tenant landlord"`
}

// CreateUserInput creates an account with any role. Used by operators, not the API.
type CreateUserInput struct {
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=6"`
	FirstName string      `json:"firstName" validate:"required"`
	LastName  string      `json:"lastName" validate:"required"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role" validate:"required,oneof=tenant landlord admin"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new user account and signs them in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	if err := validateInput(in, "All fields are required"); err != nil {
		metrics.ObserveAuth("register", "invalid")
		return nil, err
	}

	user, err := s.createUser(ctx, CreateUserInput(in))
	if err != nil {
		metrics.ObserveAuth("register", resultLabel(err))
		return nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAuth("register", "success")
	logger.FromContext(ctx, s.logger).Info("user registered",
		slog.String("user_id", user.ID.Hex()),
		slog.String("email", logger.MaskEmail(user.Email)),
		slog.String("role", string(user.Role)),
	)
	return &AuthResult{User: user, Token: token}, nil
}

// CreateUser provisions an account without signing in
func (s *AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	if err := validateInput(in, "All fields are required"); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in)
}

func (s *AuthService) createUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	email := repository.NormalizeEmail(in.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.NewConflictError(msgEmailTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		logError(s.logger, "failed to hash password", err)
		return nil, errors.New("failed to register user")
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Profile: domain.Profile{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Phone:     in.Phone,
		},
		Status: domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflictError(msgEmailTaken)
		}
		logError(s.logger, "failed to create user", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user. Unknown email and wrong password are indistinguishable.
// Attempts are throttled per email and client address.
func (s *AuthService) Login(ctx context.Context, in LoginInput, clientIP string) (*AuthResult, error) {
	if err := validateInput(in, "Email and password are required"); err != nil {
		metrics.ObserveAuth("login", "invalid")
		return nil, err
	}
	email := repository.NormalizeEmail(in.Email)
	log := logger.FromContext(ctx, s.logger)

	key := email + "|" + clientIP
	if s.throttle != nil && !s.throttle.Allow(ctx, key) {
		metrics.ObserveAuth("login", "throttled")
		log.Warn("login throttled", slog.String("email", logger.MaskEmail(email)), slog.String("ip", clientIP))
		return nil, domain.NewRateLimitedError(msgTooManyAttempts)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		metrics.ObserveAuth("login", "invalid_credentials")
		log.Info("login attempt with unknown email", slog.String("email", logger.MaskEmail(email)))
		return nil, domain.NewUnauthenticatedError(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		metrics.ObserveAuth("login", "invalid_credentials")
		log.Info("login failed with wrong password", slog.String("user_id", user.ID.Hex()))
		return nil, domain.NewUnauthenticatedError(msgInvalidCredentials)
	}

	switch user.Status {
	case domain.UserStatusSuspended:
		metrics.ObserveAuth("login", "suspended")
		return nil, domain.NewForbiddenError("Account is suspended")
	case domain.UserStatusInactive:
		metrics.ObserveAuth("login", "inactive")
		return nil, domain.NewForbiddenError("Account is inactive")
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if s.throttle != nil {
		s.throttle.Reset(ctx, key)
	}

	metrics.ObserveAuth("login", "success")
	log.Info("user logged in",
		slog.String("user_id", user.ID.Hex()),
		slog.String("role", string(user.Role)),
	)
	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the account behind the session
func (s *AuthService) Me(ctx context.Context, sess *auth.Session) (*domain.User, error) {
	userID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return user, nil
}

// ChangePassword changes the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, sess *auth.Session, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return domain.NewValidationError("New password must be at least 6 characters")
	}
	user, err := s.Me(ctx, sess)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.NewValidationError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		logError(s.logger, "failed to hash new password", err)
		return errors.New("failed to change password")
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return notFound(err, msgUserNotFound)
	}

	s.logger.Info("user changed password", slog.String("user_id", sess.UserID))
	return nil
}

// SetStatus suspends or reactivates an account. Admin only.
func (s *AuthService) SetStatus(ctx context.Context, sess *auth.Session, rawID string, status domain.UserStatus) (*domain.User, error) {
	if _, err := s.guard.RequireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	switch status {
	case domain.UserStatusActive, domain.UserStatusSuspended, domain.UserStatusInactive:
	default:
		return nil, domain.NewValidationError("Invalid value for status")
	}
	id, err := domain.ParseID(rawID)
	if err != nil {
		return nil, domain.NewNotFoundError(msgUserNotFound)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (string, error) {
	token, err := s.tokens.Issue(auth.Session{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		logError(s.logger, "failed to sign token", err)
		return "", errors.New("failed to generate token")
	}
	return token, nil
}

func resultLabel(err error) string {
	switch domain.KindOf(err) {
	case domain.KindConflict:
		return "conflict"
	case domain.KindValidation:
		return "invalid"
	}
	return "error"
}
