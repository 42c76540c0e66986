package payment

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

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Payment, int, error) {
	if f.Status != "" {
		f.Status = NormalizeStatus(f.Status)
	}
	if f.Method != "" {
		f.Method = NormalizeMethod(f.Method)
	}
	for field, v := range map[string]string{"from": f.From, "to": f.To} {
		if v == "" {
			continue
		}
		if _, err := backend.ParseDate(v); err != nil {
			return nil, 0, backend.Invalid(field, "ngày không hợp lệ")
		}
	}
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	normalize(items)
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalize([]*Payment{p})
	return p, nil
}

func (s *Service) ByPatient(ctx context.Context, patientID string) ([]*Payment, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, backend.Invalid("patientId", "thiếu mã bệnh nhân")
	}
	items, err := s.repo.ByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	normalize(items)
	return items, nil
}

func (s *Service) Create(ctx context.Context, p *Payment) error {
	if p.PatientID.IsZero() {
		return backend.Invalid("patientId", "chưa chọn bệnh nhân")
	}
	if p.Amount <= 0 {
		return backend.Invalid("amount", "số tiền phải lớn hơn 0")
	}
	if err := checkMethod(&p.Method); err != nil {
		return err
	}
	p.Status = StatusPending
	return s.repo.Create(ctx, p)
}

// Confirm marks a pending payment as paid through method.
func (s *Service) Confirm(ctx context.Context, id, method string) error {
	if strings.TrimSpace(id) == "" {
		return backend.Invalid("id", "mã thanh toán không hợp lệ")
	}
	if err := checkMethod(&method); err != nil {
		return err
	}
	return s.repo.Confirm(ctx, id, method)
}

// Summary loads every payment in f and summarizes them.
func (s *Service) Summary(ctx context.Context, f Filter) (Summary, error) {
	items, err := pagination.All(ctx, func(ctx context.Context, p pagination.Params) ([]*Payment, int, error) {
		return s.List(ctx, f, p)
	})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

func checkMethod(m *string) error {
	if *m == "" {
		*m = MethodCash
		return nil
	}
	*m = NormalizeMethod(*m)
	if _, ok := methodLabels[*m]; !ok {
		return backend.Invalid("paymentMethod", "phương thức thanh toán không hợp lệ")
	}
	return nil
}

func normalize(items []*Payment) {
	for _, p := range items {
		p.Status = NormalizeStatus(p.Status)
		p.Method = NormalizeMethod(p.Method)
	}
}
