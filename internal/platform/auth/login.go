package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (c Credentials) login() string {
	if s := strings.TrimSpace(c.Username); s != "" {
		return s
	}
	return strings.TrimSpace(c.Email)
}

// Authenticator exchanges credentials for a signed-in user.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*session.User, error)
}

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNoPortalRole   = errors.New("account has no portal role")
)

// BackendAuthenticator logs in against the backend's Auth endpoint.
type BackendAuthenticator struct {
	client *backend.Client
}

func NewBackendAuthenticator(client *backend.Client) *BackendAuthenticator {
	return &BackendAuthenticator{client: client}
}

type loginUser struct {
	ID       backend.ID `json:"id"`
	UserID   backend.ID `json:"userId"`
	FullName string     `json:"fullName"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	RoleName string     `json:"roleName"`
	Roles    []string   `json:"roles"`
	DoctorID backend.ID `json:"doctorId"`
}

type loginResponse struct {
	Token       string    `json:"token"`
	AccessToken string    `json:"accessToken"`
	AccessTok2  string    `json:"access_token"`
	User        loginUser `json:"user"`
}

func (r loginResponse) token() string {
	for _, t := range []string{r.Token, r.AccessToken, r.AccessTok2} {
		if t != "" {
			return t
		}
	}
	return ""
}

func (u loginUser) role() string {
	for _, r := range append([]string{u.Role, u.RoleName}, u.Roles...) {
		if n := session.NormalizeRole(r); n != "" {
			return n
		}
	}
	return ""
}

func (a *BackendAuthenticator) Login(ctx context.Context, creds Credentials) (*session.User, error) {
	if creds.login() == "" || creds.Password == "" {
		return nil, ErrBadCredentials
	}
	body := map[string]string{
		"username": creds.login(),
		"email":    creds.login(),
		"password": creds.Password,
	}
	var resp loginResponse
	if err := a.client.Post(ctx, "", "/Auth/login", body, &resp); err != nil {
		status := backend.StatusOf(err)
		if status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusForbidden {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	tok := resp.token()
	if tok == "" {
		return nil, ErrBadCredentials
	}
	role := resp.User.role()
	if role == "" || role == session.RolePatient {
		return nil, ErrNoPortalRole
	}

	id := resp.User.ID
	if id.IsZero() {
		id = resp.User.UserID
	}
	if id.IsZero() {
		return nil, ErrBadCredentials
	}
	name := resp.User.FullName
	if name == "" {
		name = resp.User.Name
	}
	return &session.User{
		ID:          id.String(),
		FullName:    name,
		Email:       resp.User.Email,
		Role:        role,
		DoctorID:    resp.User.DoctorID.String(),
		Token:       tok,
		TokenExpiry: session.TokenExpiry(tok),
	}, nil
}

// LoginHandler serves /auth/login, /auth/logout and /auth/me.
type LoginHandler struct {
	authn   Authenticator
	codec   *session.Codec
	cookies session.CookieOptions
	logger  zerolog.Logger
}

func NewLoginHandler(authn Authenticator, codec *session.Codec, cookies session.CookieOptions, logger zerolog.Logger) *LoginHandler {
	return &LoginHandler{authn: authn, codec: codec, cookies: cookies, logger: logger}
}

func (h *LoginHandler) RegisterRoutes(g *echo.Group, limiter echo.MiddlewareFunc) {
	if limiter != nil {
		g.POST("/login", h.Login, limiter)
	} else {
		g.POST("/login", h.Login)
	}
	g.POST("/logout", h.Logout)
	g.GET("/logout", h.Logout)
	g.GET("/me", h.Me, RequireRole(session.StaffRoles...))
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	return strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) ||
		strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func (h *LoginHandler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login request")
	}

	u, err := h.authn.Login(c.Request().Context(), creds)
	if err != nil {
		return h.loginFailed(c, err)
	}

	raw, exp, err := h.codec.Encode(*u)
	if err != nil {
		return h.loginFailed(c, err)
	}
	session.SetCookie(c, raw, exp, h.cookies)
	h.logger.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("user signed in")

	home := HomeFor(u.Role)
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user":    u.Public(),
			"home":    home,
			"session": raw,
		})
	}
	return c.Redirect(http.StatusSeeOther, home)
}

func (h *LoginHandler) loginFailed(c echo.Context, err error) error {
	code := "login_failed"
	status := http.StatusUnauthorized
	switch {
	case errors.Is(err, ErrBadCredentials):
	case errors.Is(err, ErrNoPortalRole):
		code = "no_role"
		status = http.StatusForbidden
	default:
		code = "backend_unavailable"
		status = http.StatusBadGateway
		h.logger.Error().Err(err).Msg("login failed")
	}
	if wantsJSON(c) {
		return echo.NewHTTPError(status, code)
	}
	return c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(code))
}

func (h *LoginHandler) Logout(c echo.Context) error {
	session.ClearCookie(c, h.cookies)
	if wantsJSON(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *LoginHandler) Me(c echo.Context) error {
	u := session.Current(c)
	return c.JSON(http.StatusOK, u.Public())
}
