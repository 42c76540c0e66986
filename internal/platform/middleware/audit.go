package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuditEntry records who opened which screen or API resource and whether a
// guard turned them away.
type AuditEntry struct {
	UserID     string
	UserRole   string
	Resource   string
	PatientID  string
	Action     string // read, create, update, delete
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Denied     bool
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAccess(ctx context.Context, entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(ctx context.Context, entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(ctx context.Context, entry AuditEntry) error {
	return f(ctx, entry)
}

// Audit logs every page and API access. When a recorder is given the entry is
// also persisted; a recorder failure is logged and never fails the request.
func Audit(logger zerolog.Logger, recorder AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if !isAuditablePath(path) {
				return next(c)
			}

			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
				Action:     httpMethodToAction(req.Method),
				Resource:   extractResource(path),
				PatientID:  extractPatientID(c),
			}
			if httpErr, ok := err.(*echo.HTTPError); ok {
				entry.StatusCode = httpErr.Code
			}
			entry.UserID, _ = c.Get("user_id").(string)
			entry.UserRole, _ = c.Get("user_role").(string)
			entry.RequestID, _ = c.Get("request_id").(string)
			entry.Denied, _ = c.Get("access_denied").(bool)

			if recorder != nil {
				if recErr := recorder.RecordAccess(req.Context(), entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			evt := logger.Info()
			if entry.Denied {
				evt = logger.Warn()
			}
			evt.
				Str("type", "access_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("user_role", entry.UserRole).
				Str("resource", entry.Resource).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Bool("denied", entry.Denied).
				Msg("access")

			return err
		}
	}
}

var unaudited = []string{"/health", "/static/", "/favicon.ico"}

func isAuditablePath(path string) bool {
	for _, p := range unaudited {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return path != "/"
}

// httpMethodToAction maps HTTP methods to audit action codes.
func httpMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// extractResource returns the first meaningful path segment:
//   - /api/v1/patients/7 -> patients
//   - /api/ai/chat       -> ai
//   - /records/7         -> records
func extractResource(path string) string {
	p := strings.TrimPrefix(path, "/api/v1/")
	p = strings.TrimPrefix(p, "/api/")
	p = strings.TrimPrefix(p, "/")
	seg := strings.SplitN(p, "/", 2)[0]
	if seg == "" {
		return "unknown"
	}
	return seg
}

// extractPatientID finds a patient id in /patients/<id>, /records/<id> or a
// patient_id / patientId query parameter.
func extractPatientID(c echo.Context) string {
	path := strings.TrimPrefix(c.Request().URL.Path, "/api/v1")
	for _, prefix := range []string{"/patients/", "/records/"} {
		if strings.HasPrefix(path, prefix) {
			id := strings.SplitN(strings.TrimPrefix(path, prefix), "/", 2)[0]
			if id != "" {
				return id
			}
		}
	}
	if id := c.QueryParam("patient_id"); id != "" {
		return id
	}
	return c.QueryParam("patientId")
}
