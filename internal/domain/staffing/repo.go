package staffing

import "context"

// Repository is the manager's scheduling API.
type Repository interface {
	Shifts(ctx context.Context, from, to string) ([]*Shift, error)
	CreateShift(ctx context.Context, s *Shift) error
	UpdateShift(ctx context.Context, s *Shift) error
	DeleteShift(ctx context.Context, id string) error
	Doctors(ctx context.Context) ([]*Doctor, error)
	Schedule(ctx context.Context, weekStart string) ([]*ScheduleEntry, error)
	AssignDoctors(ctx context.Context, shiftID string, doctorIDs []string) error
}
