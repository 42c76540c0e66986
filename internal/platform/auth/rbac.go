package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/platform/session"
)

// DeniedKey is set on the echo context when a guard turns a request away so
// the audit middleware can record the denial.
const DeniedKey = "access_denied"

// RequireRole guards JSON API routes: 401 without a session, 403 when the
// user's role is not in roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := session.Current(c)
			if u == nil {
				c.Set(DeniedKey, true)
				return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
			}
			if !u.HasRole(roles...) {
				c.Set(DeniedKey, true)
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
			}
			return next(c)
		}
	}
}

// RequirePageRole guards HTML pages. Anyone without an allowed role is sent
// back to "/" and the page handler never runs. Admin gets no implicit access:
// each page lists the roles it serves.
func RequirePageRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !session.Current(c).HasRole(roles...) {
				c.Set(DeniedKey, true)
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}

// PageRoles is the allow-list of every guarded page prefix.
var PageRoles = map[string][]string{
	"/doctor":        {session.RoleDoctor},
	"/nurse":         {session.RoleNurse},
	"/reception":     {session.RoleReception},
	"/manager":       {session.RoleManager},
	"/admin":         {session.RoleAdmin},
	"/patients":      {session.RoleDoctor, session.RoleNurse, session.RoleReception},
	"/appointments":  {session.RoleDoctor, session.RoleNurse, session.RoleReception},
	"/records":       {session.RoleDoctor, session.RoleNurse},
	"/test-results":  {session.RoleDoctor, session.RoleNurse},
	"/prescriptions": {session.RoleDoctor},
	"/medicines":     {session.RoleDoctor, session.RoleAdmin, session.RoleManager},
	"/payments":      {session.RoleReception, session.RoleManager},
	"/shifts":        {session.RoleManager},
	"/catalog":       {session.RoleAdmin, session.RoleManager},
	"/notifications": session.StaffRoles,
	"/assistant":     session.StaffRoles,
}

// RolesForPath returns the allow-list for the longest registered prefix of
// path, or nil for unguarded paths.
func RolesForPath(path string) []string {
	best := ""
	for prefix := range PageRoles {
		if (path == prefix || strings.HasPrefix(path, prefix+"/")) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return nil
	}
	return PageRoles[best]
}

// PageGuard applies RequirePageRole using the PageRoles table.
func PageGuard(path string) echo.MiddlewareFunc {
	roles := RolesForPath(path)
	if roles == nil {
		panic(fmt.Sprintf("auth: no page roles registered for %s", path))
	}
	return RequirePageRole(roles...)
}

var homes = map[string]string{
	session.RoleDoctor:    "/doctor",
	session.RoleNurse:     "/nurse",
	session.RoleReception: "/reception",
	session.RoleManager:   "/manager",
	session.RoleAdmin:     "/admin",
}

// HomeFor returns the dashboard path of a role, or "/" when the role has none.
func HomeFor(role string) string {
	if h, ok := homes[role]; ok {
		return h
	}
	return "/"
}
