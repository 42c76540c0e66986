// Package audit persists portal access entries to PostgreSQL.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinic/portal/internal/platform/middleware"
	"github.com/clinic/portal/pkg/vnformat"
)

// Execer is the part of a pgx pool the recorder uses.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertEntry = `INSERT INTO portal_audit_log (
    occurred_at, request_id, user_id, user_role, method, path, resource,
    action, patient_id, status_code, denied, ip_address, user_agent
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// PGRecorder writes one row per access into portal_audit_log.
type PGRecorder struct {
	db      Execer
	timeout time.Duration
}

var _ middleware.AuditRecorder = (*PGRecorder)(nil)

func NewPGRecorder(db Execer) *PGRecorder {
	return &PGRecorder{db: db, timeout: 2 * time.Second}
}

// RecordAccess inserts e. The insert outlives a cancelled request context so
// an aborted request is still recorded.
func (r *PGRecorder) RecordAccess(ctx context.Context, e middleware.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	at := e.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, insertEntry,
		at, nullable(e.RequestID), nullable(e.UserID), nullable(e.UserRole),
		e.Method, e.Path, nullable(e.Resource), nullable(e.Action),
		nullable(e.PatientID), e.StatusCode, e.Denied,
		nullable(e.IPAddress), nullable(vnformat.Clip(e.UserAgent, 512)),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
