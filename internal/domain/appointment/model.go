package appointment

import (
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
)

// Appointment statuses as the portal names them.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Statuses lists every status in workflow order.
var Statuses = []string{
	StatusPending, StatusConfirmed, StatusCheckedIn,
	StatusInProgress, StatusCompleted, StatusCancelled,
}

var statusLabels = map[string]string{
	StatusPending:    "Chờ xác nhận",
	StatusConfirmed:  "Đã xác nhận",
	StatusCheckedIn:  "Đã tiếp nhận",
	StatusInProgress: "Đang khám",
	StatusCompleted:  "Hoàn thành",
	StatusCancelled:  "Đã hủy",
}

var statusAliases = map[string]string{
	"pending":    StatusPending,
	"scheduled":  StatusPending,
	"booked":     StatusPending,
	"confirmed":  StatusConfirmed,
	"checkedin":  StatusCheckedIn,
	"arrived":    StatusCheckedIn,
	"inprogress": StatusInProgress,
	"examining":  StatusInProgress,
	"completed":  StatusCompleted,
	"done":       StatusCompleted,
	"finished":   StatusCompleted,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
}

// NormalizeStatus maps the backend's spellings ("CheckedIn", "checked-in",
// "Canceled") onto the portal's status names. Unknown values are returned
// lowercased.
func NormalizeStatus(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	compact := strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	if st, ok := statusAliases[compact]; ok {
		return st
	}
	return key
}

// ValidStatus reports whether s is one of Statuses.
func ValidStatus(s string) bool {
	_, ok := statusLabels[s]
	return ok
}

// StatusLabel returns the Vietnamese label of a status.
func StatusLabel(s string) string {
	if l, ok := statusLabels[NormalizeStatus(s)]; ok {
		return l
	}
	return s
}

// Appointment mirrors the backend appointment record.
type Appointment struct {
	ID              backend.ID    `json:"id"`
	PatientID       backend.ID    `json:"patientId"`
	PatientName     string        `json:"patientName,omitempty"`
	DoctorID        backend.ID    `json:"doctorId"`
	DoctorName      string        `json:"doctorName,omitempty"`
	ServiceID       backend.ID    `json:"serviceId,omitempty"`
	ServiceName     string        `json:"serviceName,omitempty"`
	AppointmentDate backend.Date  `json:"appointmentDate"`
	TimeSlot        string        `json:"timeSlot,omitempty"`
	Status          string        `json:"status"`
	Reason          string        `json:"reason,omitempty"`
	Note            string        `json:"note,omitempty"`
	CreatedAt       *backend.Time `json:"createdAt,omitempty"`
}

// StatusLabel is the Vietnamese label of the appointment's status.
func (a *Appointment) StatusLabel() string { return StatusLabel(a.Status) }

// Filter narrows an appointment list.
type Filter struct {
	Status    string
	Date      string
	PatientID string
	DoctorID  string
}

// StatusCount is the number of appointments in one status.
type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// CountByStatus tallies appointments per status in workflow order. Every
// known status is present, with zero counts where nothing matched;
// unrecognized statuses are appended after the known ones.
func CountByStatus(items []*Appointment) []StatusCount {
	counts := make(map[string]int, len(Statuses))
	var extra []string
	for _, a := range items {
		st := NormalizeStatus(a.Status)
		if _, seen := counts[st]; !seen && !ValidStatus(st) {
			extra = append(extra, st)
		}
		counts[st]++
	}
	out := make([]StatusCount, 0, len(Statuses)+len(extra))
	for _, st := range append(append([]string(nil), Statuses...), extra...) {
		out = append(out, StatusCount{Status: st, Label: StatusLabel(st), Count: counts[st]})
	}
	return out
}
