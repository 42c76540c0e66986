package labresult

import (
	"context"
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/pkg/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Worklist returns one page of tests still waiting for a result. Rows the
// backend returns with a finished status are dropped from the page.
func (s *Service) Worklist(ctx context.Context, p pagination.Params) ([]*TestResult, int, error) {
	items, total, err := s.repo.List(ctx, StatusPending, p)
	if err != nil {
		return nil, 0, err
	}
	pending := items[:0]
	for _, it := range items {
		if it.IsPending() {
			it.Status = StatusPending
			pending = append(pending, it)
		}
	}
	return pending, total, nil
}

func (s *Service) List(ctx context.Context, status string, p pagination.Params) ([]*TestResult, int, error) {
	if status != "" {
		status = NormalizeStatus(status)
	}
	return s.repo.List(ctx, status, p)
}

func (s *Service) ByPatient(ctx context.Context, patientID string) ([]*TestResult, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, backend.Invalid("patientId", "thiếu mã bệnh nhân")
	}
	return s.repo.ByPatient(ctx, patientID)
}

func (s *Service) Get(ctx context.Context, id string) (*TestResult, error) {
	return s.repo.GetByID(ctx, id)
}

// Create orders a test for a patient.
func (s *Service) Create(ctx context.Context, r *TestResult) error {
	if r.PatientID.IsZero() {
		return backend.Invalid("patientId", "chưa chọn bệnh nhân")
	}
	if r.TestTypeID.IsZero() {
		return backend.Invalid("testTypeId", "chưa chọn loại xét nghiệm")
	}
	r.Status = StatusPending
	r.Value = ""
	r.Conclusion = ""
	return s.repo.Create(ctx, r)
}

// Enter records the result of a pending test, completing it.
func (s *Service) Enter(ctx context.Context, id string, e Entry) error {
	e.Value = strings.TrimSpace(e.Value)
	e.Conclusion = strings.TrimSpace(e.Conclusion)
	if strings.TrimSpace(id) == "" {
		return backend.Invalid("id", "mã xét nghiệm không hợp lệ")
	}
	if e.Value == "" {
		return backend.Invalid("resultValue", "kết quả là bắt buộc")
	}
	return s.repo.Enter(ctx, id, e)
}
