package staffing

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/clinic/portal/internal/platform/backend"
)

type mockRepo struct {
	shifts    []*Shift
	from, to  string
	weekStart string
	assigned  map[string][]string
	failOn    string
}

func newMockRepo() *mockRepo {
	return &mockRepo{assigned: make(map[string][]string)}
}

func (m *mockRepo) Shifts(_ context.Context, from, to string) ([]*Shift, error) {
	m.from, m.to = from, to
	return m.shifts, nil
}

func (m *mockRepo) CreateShift(_ context.Context, s *Shift) error {
	s.ID = "new"
	return nil
}

func (m *mockRepo) UpdateShift(_ context.Context, _ *Shift) error { return nil }

func (m *mockRepo) DeleteShift(_ context.Context, _ string) error { return nil }

func (m *mockRepo) Doctors(_ context.Context) ([]*Doctor, error) {
	return []*Doctor{{ID: "1", FullName: "BS. Lan"}}, nil
}

func (m *mockRepo) Schedule(_ context.Context, weekStart string) ([]*ScheduleEntry, error) {
	m.weekStart = weekStart
	return nil, nil
}

func (m *mockRepo) AssignDoctors(_ context.Context, shiftID string, doctorIDs []string) error {
	if shiftID == m.failOn {
		return &backend.APIError{Status: 409, Message: "Conflict"}
	}
	m.assigned[shiftID] = doctorIDs
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, time.June, 13, 9, 0, 0, 0, time.Local) }
	return svc, repo
}

func TestService_Shifts_DefaultsToCurrentWeek(t *testing.T) {
	svc, repo := newTestService()
	if _, err := svc.Shifts(context.Background(), "", ""); err != nil {
		t.Fatalf("Shifts: %v", err)
	}
	if repo.from != "2024-06-10" || repo.to != "2024-06-16" {
		t.Errorf("unexpected range %s..%s", repo.from, repo.to)
	}
	if _, err := svc.Shifts(context.Background(), "10/06/2024", ""); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestService_Schedule(t *testing.T) {
	svc, repo := newTestService()
	if _, err := svc.Schedule(context.Background(), "2024-06-20"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if repo.weekStart != "2024-06-17" {
		t.Errorf("expected Monday 2024-06-17, got %s", repo.weekStart)
	}
	if _, err := svc.Schedule(context.Background(), ""); err != nil || repo.weekStart != "2024-06-10" {
		t.Errorf("expected current week, got %s (%v)", repo.weekStart, err)
	}
}

func TestService_AssignDoctors_Dedupes(t *testing.T) {
	svc, repo := newTestService()
	if err := svc.AssignDoctors(context.Background(), "4", []string{"1", " 2 ", "1", ""}); err != nil {
		t.Fatalf("AssignDoctors: %v", err)
	}
	if !reflect.DeepEqual(repo.assigned["4"], []string{"1", "2"}) {
		t.Errorf("unexpected doctors %v", repo.assigned["4"])
	}
	if err := svc.AssignDoctors(context.Background(), "", nil); err == nil {
		t.Error("expected error for missing shift")
	}
}

func TestService_SaveSelection(t *testing.T) {
	svc, repo := newTestService()
	sel := NewSelection([]*Shift{{ID: "1", DoctorIDs: ids("1")}, {ID: "2"}, {ID: "3"}})
	sel.Toggle("2", "5")
	sel.Toggle("1", "1")

	n, err := svc.SaveSelection(context.Background(), sel)
	if err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	if n != 2 || len(repo.assigned) != 2 {
		t.Errorf("expected 2 saved shifts, got %d (%v)", n, repo.assigned)
	}
	if got := repo.assigned["1"]; len(got) != 0 {
		t.Errorf("shift 1 should be cleared, got %v", got)
	}

	repo.failOn = "3"
	sel.Toggle("3", "9")
	if _, err := svc.SaveSelection(context.Background(), sel); backend.StatusOf(err) != 409 {
		t.Errorf("expected conflict to surface, got %v", err)
	}
}

func TestService_CreateShift_Validation(t *testing.T) {
	svc, _ := newTestService()
	day, _ := backend.ParseDate("2024-06-14")
	tests := []struct {
		sh    Shift
		field string
	}{
		{Shift{Date: day, StartTime: "07:00", EndTime: "11:00"}, "name"},
		{Shift{Name: "Sáng", StartTime: "07:00", EndTime: "11:00"}, "date"},
		{Shift{Name: "Sáng", Date: day, StartTime: "7h", EndTime: "11:00"}, "startTime"},
		{Shift{Name: "Sáng", Date: day, StartTime: "07:00", EndTime: "25:00"}, "endTime"},
		{Shift{Name: "Sáng", Date: day, StartTime: "07:00", EndTime: "07:00:00"}, "endTime"},
	}
	for _, tt := range tests {
		sh := tt.sh
		var verr *backend.ValidationError
		if err := svc.CreateShift(context.Background(), &sh); !errors.As(err, &verr) || verr.Field != tt.field {
			t.Errorf("expected %s error, got %v", tt.field, err)
		}
	}
	night := &Shift{Name: "Đêm", Date: day, StartTime: "22:00", EndTime: "06:00"}
	if err := svc.CreateShift(context.Background(), night); err != nil || night.ID != "new" {
		t.Errorf("overnight shift should be accepted: %v", err)
	}
}
