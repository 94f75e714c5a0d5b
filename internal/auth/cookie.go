package auth

import (
	"net/http"
	"time"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/transport"
)

// CookiePolicy carries the attributes used for the session cookie. Clearing must use
// the same attributes or browsers keep the old cookie.
type CookiePolicy struct {
	SameSite http.SameSite
	Secure   bool
	Domain   string
}

func NewCookiePolicy(cfg internal.SecurityConfig) CookiePolicy {
	p := CookiePolicy{
		SameSite: cfg.SameSite(),
		Secure:   cfg.CookieSecure,
		Domain:   cfg.CookieDomain,
	}
	// Browsers drop SameSite=None cookies that are not Secure.
	if p.SameSite == http.SameSiteNoneMode {
		p.Secure = true
	}
	return p
}

func (p CookiePolicy) SessionCookie(token string, expiresAt time.Time) *http.Cookie {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     transport.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   p.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

func (p CookiePolicy) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     transport.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   p.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}
