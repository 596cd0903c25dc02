package auth

import (
	"net/http"
	"time"
)

// CookieName holds the session token
const CookieName = "auth-token"

// SetSessionCookie writes the session cookie. It is httpOnly, lax, scoped to / and
// Secure when running in production.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the session cookie, falling back to a Bearer header for
// non-browser clients. It returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if token, err := ExtractToken(h); err == nil {
			return token
		}
	}
	return ""
}

// CurrentSession resolves the caller's session from r, or nil when absent or invalid
func (tm *TokenManager) CurrentSession(r *http.Request) *Session {
	return tm.Verify(TokenFromRequest(r))
}
