package appointment

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

const (
	appointmentsPath       = "/Appointments"
	doctorAppointmentsPath = "/DoctorAppointments"
)

type repoAPI struct {
	api *backend.Client
}

func NewRepo(api *backend.Client) Repository {
	return &repoAPI{api: api}
}

func (r *repoAPI) List(ctx context.Context, f Filter, p pagination.Params) ([]*Appointment, int, error) {
	q := p.Query()
	setIf(q, "status", f.Status)
	setIf(q, "date", f.Date)
	setIf(q, "patientId", f.PatientID)
	setIf(q, "doctorId", f.DoctorID)
	var page backend.Page[*Appointment]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), appointmentsPath, q, &page); err != nil {
		return nil, 0, err
	}
	normalize(page.Items)
	return page.Items, page.Total, nil
}

func (r *repoAPI) GetByID(ctx context.Context, id string) (*Appointment, error) {
	var one backend.One[*Appointment]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), appointmentsPath+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	a, err := one.Result()
	if err != nil {
		return nil, err
	}
	a.Status = NormalizeStatus(a.Status)
	return a, nil
}

func (r *repoAPI) Create(ctx context.Context, a *Appointment) error {
	var one backend.One[*Appointment]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), appointmentsPath, a, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*a = *one.Value
		a.Status = NormalizeStatus(a.Status)
	}
	return nil
}

func (r *repoAPI) Update(ctx context.Context, a *Appointment) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), appointmentsPath+"/"+url.PathEscape(a.ID.String()), a, nil)
}

func (r *repoAPI) UpdateStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return r.api.Put(ctx, session.TokenFromContext(ctx), appointmentsPath+"/"+url.PathEscape(id)+"/status", body, nil)
}

func (r *repoAPI) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, session.TokenFromContext(ctx), appointmentsPath+"/"+url.PathEscape(id))
}

func (r *repoAPI) ListForDoctor(ctx context.Context, doctorID, date string) ([]*Appointment, error) {
	q := url.Values{}
	setIf(q, "date", date)
	var page backend.Page[*Appointment]
	path := doctorAppointmentsPath + "/" + url.PathEscape(doctorID)
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), path, q, &page); err != nil {
		return nil, err
	}
	normalize(page.Items)
	return page.Items, nil
}

func setIf(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}

func normalize(items []*Appointment) {
	for _, a := range items {
		a.Status = NormalizeStatus(a.Status)
	}
}
