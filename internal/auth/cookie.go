package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "stride_session"

// cookieAttributes returns the environment-sensitive cookie attributes.
// Production serves the SPA from a different origin, so the cookie must be
// Secure with SameSite=None; development stays strict and plain-HTTP.
func cookieAttributes(env string) (secure bool, sameSite http.SameSite) {
	if env == "production" {
		return true, http.SameSiteNoneMode
	}
	return false, http.SameSiteStrictMode
}

// SetSessionCookie attaches the session token to the response as an
// HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, env string) {
	secure, sameSite := cookieAttributes(env)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// ClearSessionCookie instructs the client to discard the session cookie.
func ClearSessionCookie(w http.ResponseWriter, env string) {
	secure, sameSite := cookieAttributes(env)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// TokenFromRequest reads the session token from the inbound cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingToken
	}
	return cookie.Value, nil
}
