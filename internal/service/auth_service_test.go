package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/ratelimit"
)

func registerInput(email string, role domain.Role) RegisterInput {
	return RegisterInput{
		Email:     email,
		Password:  "secret123",
		FirstName: "Ada",
		LastName:  "Obi",
		Phone:     "+2348000000000",
		Role:      role,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, registerInput("Ada@Example.com", domain.RoleTenant))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, domain.UserStatusActive, res.User.Status)
	assert.NotEqual(t, "secret123", res.User.PasswordHash)

	sess := env.tokens.Verify(res.Token)
	require.NotNil(t, sess)
	assert.Equal(t, res.User.ID.Hex(), sess.UserID)
	assert.Equal(t, domain.RoleTenant, sess.Role)

	login, err := env.auth.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret123"}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	me, err := env.auth.Me(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestRegisterDuplicateEmailIgnoringCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, registerInput("dup@example.com", domain.RoleTenant))
	require.NoError(t, err)

	for _, email := range []string{"dup@example.com", "DUP@example.com", " Dup@Example.COM "} {
		_, err = env.auth.Register(ctx, registerInput(email, domain.RoleLandlord))
		requireKind(t, domain.KindConflict, err)
		assert.Equal(t, "Email already registered", err.Error())
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := registerInput("x@example.com", domain.RoleTenant)
	in.Phone = ""
	_, err := env.auth.Register(ctx, in)
	requireKind(t, domain.KindValidation, err)
	assert.Equal(t, "All fields are required", err.Error())

	_, err = env.auth.Register(ctx, registerInput("x@example.com", domain.RoleAdmin))
	requireKind(t, domain.KindValidation, err)

	in = registerInput("x@example.com", domain.RoleTenant)
	in.Password = "123"
	_, err = env.auth.Register(ctx, in)
	requireKind(t, domain.KindValidation, err)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, registerInput("bob@example.com", domain.RoleLandlord))
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginInput{Email: "bob@example.com", Password: "wrong"}, "ip")
	requireKind(t, domain.KindUnauthenticated, err)
	wrongPassword := err.Error()

	_, err = env.auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"}, "ip")
	requireKind(t, domain.KindUnauthenticated, err)
	assert.Equal(t, wrongPassword, err.Error())

	_, err = env.auth.Login(ctx, LoginInput{Email: "bob@example.com"}, "ip")
	requireKind(t, domain.KindValidation, err)

	user, err := env.repos.Users.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	user.Status = domain.UserStatusSuspended
	require.NoError(t, env.repos.Users.Update(ctx, user))

	_, err = env.auth.Login(ctx, LoginInput{Email: "bob@example.com", Password: "secret123"}, "ip")
	requireKind(t, domain.KindForbidden, err)
	assert.Equal(t, "Account is suspended", err.Error())
}

func TestLoginThrottle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	limiter := ratelimit.NewLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	env.auth.throttle = limiter

	_, err := env.auth.Register(ctx, registerInput("eve@example.com", domain.RoleTenant))
	require.NoError(t, err)

	bad := LoginInput{Email: "eve@example.com", Password: "nope"}
	for i := 0; i < 2; i++ {
		_, err = env.auth.Login(ctx, bad, "1.2.3.4")
		requireKind(t, domain.KindUnauthenticated, err)
	}
	_, err = env.auth.Login(ctx, LoginInput{Email: "eve@example.com", Password: "secret123"}, "1.2.3.4")
	requireKind(t, domain.KindRateLimited, err)

	// another address is counted separately
	_, err = env.auth.Login(ctx, LoginInput{Email: "eve@example.com", Password: "secret123"}, "5.6.7.8")
	require.NoError(t, err)
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Me(context.Background(), nil)
	requireKind(t, domain.KindUnauthenticated, err)

	_, err = env.auth.Me(context.Background(), session(domain.RoleTenant))
	requireKind(t, domain.KindNotFound, err)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, registerInput("cp@example.com", domain.RoleTenant))
	require.NoError(t, err)
	sess := env.tokens.Verify(res.Token)

	requireKind(t, domain.KindValidation, env.auth.ChangePassword(ctx, sess, "wrong", "newpass1"))
	requireKind(t, domain.KindValidation, env.auth.ChangePassword(ctx, sess, "secret123", "123"))
	require.NoError(t, env.auth.ChangePassword(ctx, sess, "secret123", "newpass1"))

	_, err = env.auth.Login(ctx, LoginInput{Email: "cp@example.com", Password: "newpass1"}, "ip")
	require.NoError(t, err)
}

func TestCreateAdminAndSetStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.auth.CreateUser(ctx, CreateUserInput{
		Email: "root@example.com", Password: "secret123", FirstName: "Root", LastName: "Admin", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	adminSess, err := env.auth.Login(ctx, LoginInput{Email: "root@example.com", Password: "secret123"}, "ip")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, env.tokens.Verify(adminSess.Token).Role)

	res, err := env.auth.Register(ctx, registerInput("t@example.com", domain.RoleTenant))
	require.NoError(t, err)

	_, err = env.auth.SetStatus(ctx, env.tokens.Verify(res.Token), admin.ID.Hex(), domain.UserStatusSuspended)
	requireKind(t, domain.KindForbidden, err)

	u, err := env.auth.SetStatus(ctx, env.tokens.Verify(adminSess.Token), res.User.ID.Hex(), domain.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, u.Status)
}
