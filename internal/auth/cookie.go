package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_id"

// CookieOptions are the attributes written with a cookie.
type CookieOptions struct {
	Path     string
	MaxAge   int
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
}

// Cookies is the cookie capability a request exposes to the auth service.
type Cookies interface {
	Get(name string) (string, bool)
	Set(name, value string, opts CookieOptions)
	Delete(name string, opts CookieOptions)
}

// SessionCookieOptions returns the attributes of the session cookie.
// secure should be true in production.
func SessionCookieOptions(secure bool) CookieOptions {
	return CookieOptions{
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type echoCookies struct {
	c echo.Context
}

// EchoCookies adapts an echo request/response pair to Cookies.
func EchoCookies(c echo.Context) Cookies {
	return echoCookies{c: c}
}

func (e echoCookies) Get(name string) (string, bool) {
	cookie, err := e.c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (e echoCookies) Set(name, value string, opts CookieOptions) {
	e.c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		MaxAge:   opts.MaxAge,
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

func (e echoCookies) Delete(name string, opts CookieOptions) {
	e.c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     opts.Path,
		MaxAge:   -1,
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
