package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieOptions controls how the session cookie is written.
type CookieOptions struct {
	Secure bool
}

// Middleware loads the session from the cookie, or from an
// "Authorization: Bearer <session>" header for API clients, and stores the
// user on the request context. A bad or expired session is treated as
// anonymous and its cookie is cleared.
func Middleware(codec *Codec, opts CookieOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, fromCookie := rawSession(c)
			if raw == "" {
				return next(c)
			}
			u, err := codec.Decode(raw)
			if err != nil {
				if fromCookie {
					ClearCookie(c, opts)
				}
				return next(c)
			}
			req := c.Request()
			c.SetRequest(req.WithContext(WithUser(req.Context(), u)))
			c.Set("user_id", u.ID)
			c.Set("user_role", u.Role)
			return next(c)
		}
	}
}

func rawSession(c echo.Context) (string, bool) {
	if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value, true
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}

// Current returns the user on the echo request, or nil.
func Current(c echo.Context) *User {
	return FromContext(c.Request().Context())
}

// SetCookie writes the signed session cookie.
func SetCookie(c echo.Context, value string, expires time.Time, opts CookieOptions) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(c echo.Context, opts CookieOptions) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
