package labresult

import (
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// TestResult is an ordered lab test and, once entered, its result.
type TestResult struct {
	ID              backend.ID    `json:"id"`
	PatientID       backend.ID    `json:"patientId"`
	PatientName     string        `json:"patientName,omitempty"`
	TestTypeID      backend.ID    `json:"testTypeId"`
	TestTypeName    string        `json:"testTypeName,omitempty"`
	MedicalRecordID backend.ID    `json:"medicalRecordId,omitempty"`
	Status          string        `json:"status"`
	Value           string        `json:"resultValue,omitempty"`
	Conclusion      string        `json:"conclusion,omitempty"`
	RequestedAt     *backend.Time `json:"requestedAt,omitempty"`
	CompletedAt     *backend.Time `json:"completedAt,omitempty"`
}

// IsPending reports whether the result still needs to be entered.
func (r *TestResult) IsPending() bool {
	return NormalizeStatus(r.Status) == StatusPending
}

// StatusLabel is the Vietnamese label of the result's status.
func (r *TestResult) StatusLabel() string {
	if r.IsPending() {
		return "Chờ kết quả"
	}
	return "Đã có kết quả"
}

// NormalizeStatus maps backend spellings onto pending/completed. Anything
// that is not clearly finished counts as pending.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed", "complete", "done", "final", "resulted":
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Entry is the result a nurse or doctor enters for a pending test.
type Entry struct {
	Value      string `json:"resultValue" form:"resultValue"`
	Conclusion string `json:"conclusion" form:"conclusion"`
}

// TypeCount is the number of results of one test type.
type TypeCount struct {
	TestTypeID   backend.ID `json:"testTypeId"`
	TestTypeName string     `json:"testTypeName"`
	Count        int        `json:"count"`
}

// CountByType tallies results per test type in first-seen order.
func CountByType(results []*TestResult) []TypeCount {
	idx := make(map[backend.ID]int)
	var out []TypeCount
	for _, r := range results {
		i, ok := idx[r.TestTypeID]
		if !ok {
			i = len(out)
			idx[r.TestTypeID] = i
			name := r.TestTypeName
			if name == "" {
				name = r.TestTypeID.String()
			}
			out = append(out, TypeCount{TestTypeID: r.TestTypeID, TestTypeName: name})
		}
		out[i].Count++
	}
	return out
}
