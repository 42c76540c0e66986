package catalog

import (
	"context"

	"github.com/clinic/portal/pkg/pagination"
)

type ServiceRepository interface {
	List(ctx context.Context, p pagination.Params) ([]*ServiceDto, int, error)
	GetByID(ctx context.Context, id string) (*ServiceDto, error)
	Create(ctx context.Context, s *ServiceDto) error
	Update(ctx context.Context, s *ServiceDto) error
	Delete(ctx context.Context, id string) error
}

type TestTypeRepository interface {
	List(ctx context.Context, p pagination.Params) ([]*TestType, int, error)
	GetByID(ctx context.Context, id string) (*TestType, error)
	Create(ctx context.Context, t *TestType) error
	Update(ctx context.Context, t *TestType) error
	Delete(ctx context.Context, id string) error
}
