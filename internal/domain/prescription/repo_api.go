package prescription

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

const (
	medicinePath      = "/Medicine"
	prescriptionsPath = "/PrescriptionsDoctor"
)

// -- Medicine --

type medicineRepoAPI struct {
	api *backend.Client
}

func NewMedicineRepo(api *backend.Client) MedicineRepository {
	return &medicineRepoAPI{api: api}
}

func (r *medicineRepoAPI) List(ctx context.Context, search string, p pagination.Params) ([]*Medicine, int, error) {
	q := p.Query()
	if search != "" {
		q.Set("search", search)
	}
	var page backend.Page[*Medicine]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), medicinePath, q, &page); err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (r *medicineRepoAPI) GetByID(ctx context.Context, id string) (*Medicine, error) {
	var one backend.One[*Medicine]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), medicinePath+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *medicineRepoAPI) Create(ctx context.Context, m *Medicine) error {
	var one backend.One[*Medicine]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), medicinePath, m, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*m = *one.Value
	}
	return nil
}

func (r *medicineRepoAPI) Update(ctx context.Context, m *Medicine) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), medicinePath+"/"+url.PathEscape(m.ID.String()), m, nil)
}

func (r *medicineRepoAPI) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, session.TokenFromContext(ctx), medicinePath+"/"+url.PathEscape(id))
}

// -- Prescriptions --

type prescriptionRepoAPI struct {
	api *backend.Client
}

func NewPrescriptionRepo(api *backend.Client) PrescriptionRepository {
	return &prescriptionRepoAPI{api: api}
}

func (r *prescriptionRepoAPI) List(ctx context.Context, f Filter, p pagination.Params) ([]*Prescription, int, error) {
	q := p.Query()
	if f.DoctorID != "" {
		q.Set("doctorId", f.DoctorID)
	}
	if f.PatientID != "" {
		q.Set("patientId", f.PatientID)
	}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	var page backend.Page[*Prescription]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), prescriptionsPath, q, &page); err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (r *prescriptionRepoAPI) GetByID(ctx context.Context, id string) (*Prescription, error) {
	var one backend.One[*Prescription]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), prescriptionsPath+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *prescriptionRepoAPI) Create(ctx context.Context, p *Prescription) error {
	var one backend.One[*Prescription]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), prescriptionsPath, p, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*p = *one.Value
	}
	return nil
}
