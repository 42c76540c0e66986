package staffing

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/clinic/portal/internal/platform/backend"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Shifts lists shifts between from and to (YYYY-MM-DD, inclusive). Empty
// bounds default to the current week.
func (s *Service) Shifts(ctx context.Context, from, to string) ([]*Shift, error) {
	if from == "" && to == "" {
		start := WeekStart(s.now())
		from = start.Format(backend.DateLayout)
		to = start.AddDate(0, 0, 6).Format(backend.DateLayout)
	}
	for field, v := range map[string]string{"from": from, "to": to} {
		if v == "" {
			continue
		}
		if _, err := backend.ParseDate(v); err != nil {
			return nil, backend.Invalid(field, "ngày không hợp lệ")
		}
	}
	return s.repo.Shifts(ctx, from, to)
}

func (s *Service) CreateShift(ctx context.Context, sh *Shift) error {
	if err := validateShift(sh); err != nil {
		return err
	}
	return s.repo.CreateShift(ctx, sh)
}

func (s *Service) UpdateShift(ctx context.Context, sh *Shift) error {
	if sh.ID.IsZero() {
		return backend.Invalid("id", "mã ca không hợp lệ")
	}
	if err := validateShift(sh); err != nil {
		return err
	}
	return s.repo.UpdateShift(ctx, sh)
}

func (s *Service) DeleteShift(ctx context.Context, id string) error {
	return s.repo.DeleteShift(ctx, id)
}

func (s *Service) Doctors(ctx context.Context) ([]*Doctor, error) {
	return s.repo.Doctors(ctx)
}

// Schedule returns the week containing day (YYYY-MM-DD, empty for this
// week).
func (s *Service) Schedule(ctx context.Context, day string) ([]*ScheduleEntry, error) {
	t := s.now()
	if day != "" {
		d, err := backend.ParseDate(day)
		if err != nil {
			return nil, backend.Invalid("week", "ngày không hợp lệ")
		}
		t = d.Time
	}
	return s.repo.Schedule(ctx, WeekStart(t).Format(backend.DateLayout))
}

// AssignDoctors replaces the doctors on a shift.
func (s *Service) AssignDoctors(ctx context.Context, shiftID string, doctorIDs []string) error {
	if strings.TrimSpace(shiftID) == "" {
		return backend.Invalid("shiftId", "mã ca không hợp lệ")
	}
	seen := make(map[string]struct{}, len(doctorIDs))
	ids := make([]string, 0, len(doctorIDs))
	for _, d := range doctorIDs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		ids = append(ids, d)
	}
	return s.repo.AssignDoctors(ctx, shiftID, ids)
}

// SaveSelection sends the shifts whose selection changed. It stops at the
// first failure; shifts saved before it stay saved.
func (s *Service) SaveSelection(ctx context.Context, sel *Selection) (int, error) {
	changed := sel.Changed()
	for i, a := range changed {
		ids := make([]string, len(a.DoctorIDs))
		for j, d := range a.DoctorIDs {
			ids[j] = d.String()
		}
		if err := s.AssignDoctors(ctx, a.ShiftID.String(), ids); err != nil {
			return i, fmt.Errorf("shift %s: %w", a.ShiftID, err)
		}
	}
	return len(changed), nil
}

// Gaps returns this period's shifts without doctors.
func (s *Service) Gaps(ctx context.Context, from, to string) ([]*Shift, error) {
	shifts, err := s.Shifts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return Coverage(shifts), nil
}

func validateShift(sh *Shift) error {
	sh.Name = strings.TrimSpace(sh.Name)
	if sh.Name == "" {
		return backend.Invalid("name", "tên ca là bắt buộc")
	}
	if sh.Date.IsZero() {
		return backend.Invalid("date", "ngày là bắt buộc")
	}
	if !clockPattern.MatchString(sh.StartTime) {
		return backend.Invalid("startTime", "giờ bắt đầu không hợp lệ")
	}
	if !clockPattern.MatchString(sh.EndTime) {
		return backend.Invalid("endTime", "giờ kết thúc không hợp lệ")
	}
	if sh.StartTime[:5] == sh.EndTime[:5] {
		return backend.Invalid("endTime", "giờ kết thúc phải khác giờ bắt đầu")
	}
	return nil
}
