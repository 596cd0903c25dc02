package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-secret", "test", 0)
	require.NoError(t, err)
	return tm
}

var alice = Session{UserID: "65a1b2c3d4e5f6a7b8c9d0e1", Email: "alice@example.com", Role: domain.RoleTenant}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", "x", time.Hour)
	assert.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue(alice)
	require.NoError(t, err)

	got := tm.Verify(token)
	require.NotNil(t, got)
	assert.Equal(t, alice, *got)
}

func TestVerifyRejectsFlippedSignatureByte(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue(alice)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	// flip a byte in the middle so the change cannot land in base64 padding bits
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	forged := parts[0] + "." + parts[1] + "." + string(sig)

	assert.Nil(t, tm.Verify(forged))
}

func TestVerifyRejectsOtherSecretAndGarbage(t *testing.T) {
	tm := newTestManager(t)
	other, err := NewTokenManager("other-secret", "test", 0)
	require.NoError(t, err)

	token, err := other.Issue(alice)
	require.NoError(t, err)

	assert.Nil(t, tm.Verify(token))
	assert.Nil(t, tm.Verify(""))
	assert.Nil(t, tm.Verify("not.a.token"))
}

func TestVerifyRejectsExpired(t *testing.T) {
	tm := newTestManager(t)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	token, err := tm.Issue(alice)
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(DefaultTTL - time.Minute) }
	assert.NotNil(t, tm.Verify(token))

	tm.now = func() time.Time { return issued.Add(DefaultTTL + time.Second) }
	assert.Nil(t, tm.Verify(token))
}

func TestIssueRequiresIdentity(t *testing.T) {
	tm := newTestManager(t)
	_, err := tm.Issue(Session{Email: "x@example.com", Role: domain.RoleTenant})
	assert.Error(t, err)
	_, err = tm.Issue(Session{UserID: "1", Role: "owner"})
	assert.Error(t, err)
}

func TestSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", DefaultTTL, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*60*60, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, false)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestCurrentSession(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue(alice)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, tm.CurrentSession(req))

	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	require.NotNil(t, tm.CurrentSession(req))

	bearer := httptest.NewRequest(http.MethodGet, "/", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)
	got := tm.CurrentSession(bearer)
	require.NotNil(t, got)
	assert.Equal(t, alice.UserID, got.UserID)
}
