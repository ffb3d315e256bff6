package token

import (
	"net/http"
	"time"
)

// CookieKey is the fixed name of the refresh-token cookie.
const CookieKey = "refresh_token"

// NewRefreshCookie builds the Set-Cookie value carrying a refresh token.
// Cross-site frontends need SameSite=None in production, which in turn
// requires Secure; outside production the cookie stays Lax so plain-HTTP
// development works.
func NewRefreshCookie(tokenStr string, production bool, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieKey,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite(production),
	}
}

// ClearRefreshCookie builds the Set-Cookie value that removes the refresh
// cookie (Max-Age=0 on the wire).
func ClearRefreshCookie(production bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieKey,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite(production),
	}
}

func sameSite(production bool) http.SameSite {
	if production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
