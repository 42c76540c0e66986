package patient

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/pkg/pagination"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,11}$`)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.repo.List(ctx, f, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	if strings.TrimSpace(id) == "" {
		return nil, backend.Invalid("id", "mã bệnh nhân không hợp lệ")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID.IsZero() {
		return backend.Invalid("id", "mã bệnh nhân không hợp lệ")
	}
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return backend.Invalid("id", "mã bệnh nhân không hợp lệ")
	}
	return s.repo.Delete(ctx, id)
}

// Age is the patient's age today.
func (s *Service) Age(p *Patient) int {
	return p.Age(s.now())
}

func (s *Service) validate(p *Patient) error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.ReplaceAll(strings.TrimSpace(p.Phone), " ", "")
	if p.FullName == "" {
		return backend.Invalid("fullName", "họ tên là bắt buộc")
	}
	if p.DateOfBirth.IsZero() {
		return backend.Invalid("dateOfBirth", "ngày sinh là bắt buộc")
	}
	if p.DateOfBirth.After(s.now()) {
		return backend.Invalid("dateOfBirth", "ngày sinh không được ở tương lai")
	}
	if p.Phone != "" && !phonePattern.MatchString(p.Phone) {
		return backend.Invalid("phone", "số điện thoại không hợp lệ")
	}
	return nil
}
