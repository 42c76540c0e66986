package catalog

import (
	"context"
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/pkg/pagination"
)

type Service struct {
	services  ServiceRepository
	testTypes TestTypeRepository
}

func NewService(services ServiceRepository, testTypes TestTypeRepository) *Service {
	return &Service{services: services, testTypes: testTypes}
}

// -- Services --

func (s *Service) ListServices(ctx context.Context, p pagination.Params) ([]*ServiceDto, int, error) {
	return s.services.List(ctx, p)
}

func (s *Service) GetService(ctx context.Context, id string) (*ServiceDto, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Service) CreateService(ctx context.Context, svc *ServiceDto) error {
	if err := validateService(svc); err != nil {
		return err
	}
	return s.services.Create(ctx, svc)
}

func (s *Service) UpdateService(ctx context.Context, svc *ServiceDto) error {
	if svc.ID.IsZero() {
		return backend.Invalid("id", "mã dịch vụ không hợp lệ")
	}
	if err := validateService(svc); err != nil {
		return err
	}
	return s.services.Update(ctx, svc)
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	return s.services.Delete(ctx, id)
}

func validateService(svc *ServiceDto) error {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		return backend.Invalid("name", "tên dịch vụ là bắt buộc")
	}
	if svc.Price < 0 {
		return backend.Invalid("price", "giá không được âm")
	}
	return nil
}

// -- Test types --

func (s *Service) ListTestTypes(ctx context.Context, p pagination.Params) ([]*TestType, int, error) {
	return s.testTypes.List(ctx, p)
}

func (s *Service) GetTestType(ctx context.Context, id string) (*TestType, error) {
	return s.testTypes.GetByID(ctx, id)
}

func (s *Service) CreateTestType(ctx context.Context, t *TestType) error {
	if err := validateTestType(t); err != nil {
		return err
	}
	return s.testTypes.Create(ctx, t)
}

func (s *Service) UpdateTestType(ctx context.Context, t *TestType) error {
	if t.ID.IsZero() {
		return backend.Invalid("id", "mã xét nghiệm không hợp lệ")
	}
	if err := validateTestType(t); err != nil {
		return err
	}
	return s.testTypes.Update(ctx, t)
}

func (s *Service) DeleteTestType(ctx context.Context, id string) error {
	return s.testTypes.Delete(ctx, id)
}

func validateTestType(t *TestType) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return backend.Invalid("name", "tên xét nghiệm là bắt buộc")
	}
	if t.Price < 0 {
		return backend.Invalid("price", "giá không được âm")
	}
	return nil
}
