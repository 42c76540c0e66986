package prescription

import (
	"context"

	"github.com/clinic/portal/pkg/pagination"
)

// MedicineRepository is the medicine catalog over /Medicine.
type MedicineRepository interface {
	List(ctx context.Context, search string, p pagination.Params) ([]*Medicine, int, error)
	GetByID(ctx context.Context, id string) (*Medicine, error)
	Create(ctx context.Context, m *Medicine) error
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id string) error
}

// PrescriptionRepository is the doctor's prescriptions over
// /PrescriptionsDoctor.
type PrescriptionRepository interface {
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Prescription, int, error)
	GetByID(ctx context.Context, id string) (*Prescription, error)
	Create(ctx context.Context, p *Prescription) error
}
