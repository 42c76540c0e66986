package staffing

import (
	"sort"
	"strconv"
	"time"

	"github.com/clinic/portal/internal/platform/backend"
)

// Shift is a working period that doctors are assigned to.
type Shift struct {
	ID        backend.ID   `json:"id"`
	Name      string       `json:"name"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Date      backend.Date `json:"date"`
	DoctorIDs []backend.ID `json:"doctorIds"`
}

type Doctor struct {
	ID        backend.ID `json:"id"`
	FullName  string     `json:"fullName"`
	Specialty string     `json:"specialty,omitempty"`
}

// ScheduleEntry places one doctor on one shift on one day.
type ScheduleEntry struct {
	ShiftID    backend.ID   `json:"shiftId"`
	ShiftName  string       `json:"shiftName,omitempty"`
	DoctorID   backend.ID   `json:"doctorId"`
	DoctorName string       `json:"doctorName,omitempty"`
	Date       backend.Date `json:"date"`
}

// Assignment is the full doctor list of one shift.
type Assignment struct {
	ShiftID   backend.ID   `json:"shiftId"`
	DoctorIDs []backend.ID `json:"doctorIds"`
}

// Coverage returns the shifts nobody is assigned to, in input order.
func Coverage(shifts []*Shift) []*Shift {
	var gaps []*Shift
	for _, s := range shifts {
		if len(s.DoctorIDs) == 0 {
			gaps = append(gaps, s)
		}
	}
	return gaps
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	d := backend.NewDate(t).Time
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// lessID orders numeric ids numerically and everything else lexically.
func lessID(a, b backend.ID) bool {
	ai, aerr := strconv.ParseInt(string(a), 10, 64)
	bi, berr := strconv.ParseInt(string(b), 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}

func sortIDs(ids []backend.ID) {
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })
}

// Selection tracks which doctors are ticked for each shift on the manager's
// assignment screen. It starts from the shifts' current assignments and
// remembers them so only edited shifts need saving.
type Selection struct {
	picked  map[backend.ID]map[backend.ID]struct{}
	initial map[backend.ID]map[backend.ID]struct{}
}

// NewSelection seeds a selection from existing shifts.
func NewSelection(shifts []*Shift) *Selection {
	s := &Selection{
		picked:  make(map[backend.ID]map[backend.ID]struct{}, len(shifts)),
		initial: make(map[backend.ID]map[backend.ID]struct{}, len(shifts)),
	}
	for _, sh := range shifts {
		cur := make(map[backend.ID]struct{}, len(sh.DoctorIDs))
		orig := make(map[backend.ID]struct{}, len(sh.DoctorIDs))
		for _, d := range sh.DoctorIDs {
			cur[d] = struct{}{}
			orig[d] = struct{}{}
		}
		s.picked[sh.ID] = cur
		s.initial[sh.ID] = orig
	}
	return s
}

// Toggle flips doctor on shift and reports whether the doctor is now
// selected.
func (s *Selection) Toggle(shift, doctor backend.ID) bool {
	set, ok := s.picked[shift]
	if !ok {
		set = make(map[backend.ID]struct{})
		s.picked[shift] = set
	}
	if _, on := set[doctor]; on {
		delete(set, doctor)
		return false
	}
	set[doctor] = struct{}{}
	return true
}

// Set replaces the doctors selected on shift.
func (s *Selection) Set(shift backend.ID, doctors []backend.ID) {
	set := make(map[backend.ID]struct{}, len(doctors))
	for _, d := range doctors {
		if !d.IsZero() {
			set[d] = struct{}{}
		}
	}
	s.picked[shift] = set
}

func (s *Selection) IsSelected(shift, doctor backend.ID) bool {
	_, ok := s.picked[shift][doctor]
	return ok
}

// Selected returns the doctors ticked on shift, sorted.
func (s *Selection) Selected(shift backend.ID) []backend.ID {
	set := s.picked[shift]
	out := make([]backend.ID, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sortIDs(out)
	return out
}

// Assignments returns every shift's selection, sorted by shift id.
func (s *Selection) Assignments() []Assignment {
	return s.assignments(func(backend.ID) bool { return true })
}

// Changed returns the assignments of shifts whose selection differs from
// the seed.
func (s *Selection) Changed() []Assignment {
	return s.assignments(func(id backend.ID) bool { return !sameSet(s.picked[id], s.initial[id]) })
}

func (s *Selection) assignments(keep func(backend.ID) bool) []Assignment {
	ids := make([]backend.ID, 0, len(s.picked))
	for id := range s.picked {
		if keep(id) {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	out := make([]Assignment, 0, len(ids))
	for _, id := range ids {
		out = append(out, Assignment{ShiftID: id, DoctorIDs: s.Selected(id)})
	}
	return out
}

func sameSet(a, b map[backend.ID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
