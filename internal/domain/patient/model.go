package patient

import (
	"time"

	"github.com/clinic/portal/internal/platform/backend"
)

// Patient mirrors the backend's patient record.
type Patient struct {
	ID          backend.ID    `json:"id"`
	FullName    string        `json:"fullName"`
	DateOfBirth backend.Date  `json:"dateOfBirth"`
	Gender      string        `json:"gender,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Address     string        `json:"address,omitempty"`
	InsuranceNo string        `json:"insuranceNumber,omitempty"`
	Email       string        `json:"email,omitempty"`
	CreatedAt   *backend.Time `json:"createdAt,omitempty"`
}

// Age returns the patient's age in whole years at now.
func (p *Patient) Age(now time.Time) int {
	return Age(p.DateOfBirth.Time, now)
}

// GenderLabel returns the Vietnamese label shown in lists.
func (p *Patient) GenderLabel() string {
	switch p.Gender {
	case "male", "Male", "Nam":
		return "Nam"
	case "female", "Female", "Nữ":
		return "Nữ"
	case "":
		return ""
	default:
		return "Khác"
	}
}

// Age counts full years between birth and now. A birthday that has not yet
// been reached this year does not count. Zero and future birth dates give 0.
func Age(birth, now time.Time) int {
	if birth.IsZero() {
		return 0
	}
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()
	if by > ny || (by == ny && (bm > nm || (bm == nm && bd > nd))) {
		return 0
	}
	years := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		years--
	}
	return years
}

// Filter narrows a patient list.
type Filter struct {
	Search string
	Gender string
}
