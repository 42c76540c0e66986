package labresult

import (
	"context"

	"github.com/clinic/portal/pkg/pagination"
)

type Repository interface {
	List(ctx context.Context, status string, p pagination.Params) ([]*TestResult, int, error)
	ByPatient(ctx context.Context, patientID string) ([]*TestResult, error)
	GetByID(ctx context.Context, id string) (*TestResult, error)
	Create(ctx context.Context, r *TestResult) error
	Enter(ctx context.Context, id string, e Entry) error
}
