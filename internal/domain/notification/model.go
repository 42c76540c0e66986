package notification

import "github.com/clinic/portal/internal/platform/backend"

// Notification types.
const (
	TypeInfo        = "info"
	TypeWarning     = "warning"
	TypeAppointment = "appointment"
	TypeSystem      = "system"
)

type Notification struct {
	ID         backend.ID    `json:"id"`
	Title      string        `json:"title"`
	Message    string        `json:"message"`
	Type       string        `json:"type,omitempty"`
	IsRead     bool          `json:"isRead"`
	CreatedAt  *backend.Time `json:"createdAt,omitempty"`
	UserID     backend.ID    `json:"userId,omitempty"`
	TargetRole string        `json:"targetRole,omitempty"`
}

// Unread counts notifications not yet read.
func Unread(items []*Notification) int {
	n := 0
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n
}
