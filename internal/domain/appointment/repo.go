package appointment

import (
	"context"

	"github.com/clinic/portal/pkg/pagination"
)

type Repository interface {
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Appointment, int, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	ListForDoctor(ctx context.Context, doctorID, date string) ([]*Appointment, error)
}
