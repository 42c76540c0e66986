package patient

import (
	"context"

	"github.com/clinic/portal/pkg/pagination"
)

// Repository is the patient store, implemented over the backend API.
type Repository interface {
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
}
