package appointment

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

var timeSlotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](\s*-\s*([01][0-9]|2[0-3]):[0-5][0-9])?$`)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Appointment, int, error) {
	if f.Status != "" {
		f.Status = NormalizeStatus(f.Status)
		if !ValidStatus(f.Status) {
			return nil, 0, backend.Invalid("status", "trạng thái không hợp lệ")
		}
	}
	if f.Date != "" {
		if _, err := backend.ParseDate(f.Date); err != nil {
			return nil, 0, backend.Invalid("date", "ngày không hợp lệ")
		}
	}
	return s.repo.List(ctx, f, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, backend.Invalid("id", "mã lịch hẹn không hợp lệ")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	if a.AppointmentDate.Before(backend.NewDate(s.now()).Time) {
		return backend.Invalid("appointmentDate", "không thể đặt lịch trong quá khứ")
	}
	a.Status = StatusPending
	return s.repo.Create(ctx, a)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if a.ID.IsZero() {
		return backend.Invalid("id", "mã lịch hẹn không hợp lệ")
	}
	if err := s.validate(a); err != nil {
		return err
	}
	if a.Status != "" {
		a.Status = NormalizeStatus(a.Status)
	}
	return s.repo.Update(ctx, a)
}

// UpdateStatus moves an appointment to status. Which transitions are allowed
// is decided by the backend.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	st := NormalizeStatus(status)
	if !ValidStatus(st) {
		return backend.Invalid("status", "trạng thái không hợp lệ")
	}
	if strings.TrimSpace(id) == "" {
		return backend.Invalid("id", "mã lịch hẹn không hợp lệ")
	}
	return s.repo.UpdateStatus(ctx, id, st)
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return backend.Invalid("id", "mã lịch hẹn không hợp lệ")
	}
	return s.repo.Delete(ctx, id)
}

// ListForDoctor returns a doctor's appointments on date (YYYY-MM-DD, empty
// for all dates).
func (s *Service) ListForDoctor(ctx context.Context, doctorID, date string) ([]*Appointment, error) {
	if strings.TrimSpace(doctorID) == "" {
		return nil, backend.Invalid("doctorId", "thiếu mã bác sĩ")
	}
	return s.repo.ListForDoctor(ctx, doctorID, date)
}

// Today returns today's appointments for the signed-in doctor.
func (s *Service) Today(ctx context.Context) ([]*Appointment, error) {
	u := session.FromContext(ctx)
	if u == nil {
		return nil, backend.ErrUnauthorized
	}
	doctorID := u.DoctorID
	if doctorID == "" {
		doctorID = u.ID
	}
	return s.ListForDoctor(ctx, doctorID, s.TodayDate())
}

// TodayDate is today's date in backend form.
func (s *Service) TodayDate() string {
	return s.now().Format(backend.DateLayout)
}

func (s *Service) validate(a *Appointment) error {
	a.TimeSlot = strings.TrimSpace(a.TimeSlot)
	if a.PatientID.IsZero() {
		return backend.Invalid("patientId", "chưa chọn bệnh nhân")
	}
	if a.DoctorID.IsZero() {
		return backend.Invalid("doctorId", "chưa chọn bác sĩ")
	}
	if a.AppointmentDate.IsZero() {
		return backend.Invalid("appointmentDate", "ngày hẹn là bắt buộc")
	}
	if a.TimeSlot != "" && !timeSlotPattern.MatchString(a.TimeSlot) {
		return backend.Invalid("timeSlot", "khung giờ không hợp lệ")
	}
	return nil
}
