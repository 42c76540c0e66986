// Package session keeps the signed-in user between requests. The user,
// including the backend bearer token, travels in a signed cookie so the
// portal itself stays stateless.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the single place the session is stored on the client.
const CookieName = "clinic_session"

const issuer = "clinic-portal"

// Roles understood by guards and navigation.
const (
	RoleDoctor    = "doctor"
	RoleNurse     = "nurse"
	RoleReception = "reception"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
	RolePatient   = "patient"
)

// StaffRoles lists every role that can use the portal's staff screens.
var StaffRoles = []string{RoleDoctor, RoleNurse, RoleReception, RoleManager, RoleAdmin}

var ErrInvalidSession = errors.New("invalid session")

// User is the signed-in user as returned by the backend login.
type User struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	DoctorID    string    `json:"doctor_id,omitempty"`
	Token       string    `json:"token,omitempty"`
	TokenExpiry time.Time `json:"token_expiry,omitempty"`
}

// Public returns a copy of the user without the backend token.
func (u User) Public() User {
	u.Token = ""
	return u
}

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

type claims struct {
	jwt.RegisteredClaims
	User User `json:"usr"`
}

// Codec signs and verifies session tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a codec. The secret must be at least 32 bytes.
func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes, got %d", len(secret))
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Codec{secret: secret, ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured maximum session lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Encode signs u. The session expires with the backend token when that is
// sooner than the codec TTL.
func (c *Codec) Encode(u User) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	if !u.TokenExpiry.IsZero() && u.TokenExpiry.Before(exp) {
		exp = u.TokenExpiry
	}
	if !exp.After(now) {
		return "", time.Time{}, fmt.Errorf("backend token already expired")
	}

	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		User: u,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Decode verifies raw and returns the user it carries.
func (c *Codec) Decode(raw string) (*User, error) {
	cl := &claims{}
	tok, err := jwt.ParseWithClaims(raw, cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidSession
	}
	u := cl.User
	u.Role = NormalizeRole(u.Role)
	if u.ID == "" || u.Role == "" {
		return nil, ErrInvalidSession
	}
	return &u, nil
}

// TokenExpiry reads the exp claim of a backend JWT without verifying it. The
// backend owns that key; the portal only needs the expiry to bound the
// session. Opaque tokens return the zero time.
func TokenExpiry(token string) time.Time {
	cl := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, cl); err != nil {
		return time.Time{}
	}
	exp, err := cl.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

var roleAliases = map[string]string{
	"doctor":        RoleDoctor,
	"bacsi":         RoleDoctor,
	"bác sĩ":        RoleDoctor,
	"physician":     RoleDoctor,
	"nurse":         RoleNurse,
	"yta":           RoleNurse,
	"y tá":          RoleNurse,
	"reception":     RoleReception,
	"receptionist":  RoleReception,
	"letan":         RoleReception,
	"lễ tân":        RoleReception,
	"manager":       RoleManager,
	"quanly":        RoleManager,
	"quản lý":       RoleManager,
	"admin":         RoleAdmin,
	"administrator": RoleAdmin,
	"patient":       RolePatient,
	"benhnhan":      RolePatient,
}

// NormalizeRole maps the backend's role spellings onto the portal roles.
// Unknown roles return "".
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	r = strings.TrimPrefix(r, "role_")
	if v, ok := roleAliases[r]; ok {
		return v
	}
	if v, ok := roleAliases[strings.ReplaceAll(r, " ", "")]; ok {
		return v
	}
	return ""
}

type ctxKey struct{}

// WithUser returns a context carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the signed-in user or nil.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

// TokenFromContext returns the backend token of the signed-in user.
func TokenFromContext(ctx context.Context) string {
	if u := FromContext(ctx); u != nil {
		return u.Token
	}
	return ""
}
