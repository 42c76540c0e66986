package payment

import (
	"context"

	"github.com/clinic/portal/pkg/pagination"
)

type Repository interface {
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Payment, int, error)
	GetByID(ctx context.Context, id string) (*Payment, error)
	ByPatient(ctx context.Context, patientID string) ([]*Payment, error)
	Create(ctx context.Context, p *Payment) error
	Confirm(ctx context.Context, id, method string) error
}
