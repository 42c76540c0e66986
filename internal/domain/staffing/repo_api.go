package staffing

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

const basePath = "/Manager"

type repoAPI struct {
	api *backend.Client
}

func NewRepo(api *backend.Client) Repository {
	return &repoAPI{api: api}
}

func (r *repoAPI) Shifts(ctx context.Context, from, to string) ([]*Shift, error) {
	q := url.Values{}
	if from != "" {
		q.Set("fromDate", from)
	}
	if to != "" {
		q.Set("toDate", to)
	}
	var page backend.Page[*Shift]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath+"/shifts", q, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repoAPI) CreateShift(ctx context.Context, s *Shift) error {
	var one backend.One[*Shift]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), basePath+"/shifts", s, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*s = *one.Value
	}
	return nil
}

func (r *repoAPI) UpdateShift(ctx context.Context, s *Shift) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), basePath+"/shifts/"+url.PathEscape(s.ID.String()), s, nil)
}

func (r *repoAPI) DeleteShift(ctx context.Context, id string) error {
	return r.api.Delete(ctx, session.TokenFromContext(ctx), basePath+"/shifts/"+url.PathEscape(id))
}

func (r *repoAPI) Doctors(ctx context.Context) ([]*Doctor, error) {
	var page backend.Page[*Doctor]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath+"/doctors", nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repoAPI) Schedule(ctx context.Context, weekStart string) ([]*ScheduleEntry, error) {
	q := url.Values{}
	q.Set("weekStart", weekStart)
	var page backend.Page[*ScheduleEntry]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath+"/schedules", q, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repoAPI) AssignDoctors(ctx context.Context, shiftID string, doctorIDs []string) error {
	ids := make([]backend.ID, len(doctorIDs))
	for i, d := range doctorIDs {
		ids[i] = backend.ID(d)
	}
	body := map[string][]backend.ID{"doctorIds": ids}
	return r.api.Put(ctx, session.TokenFromContext(ctx), basePath+"/shifts/"+url.PathEscape(shiftID)+"/doctors", body, nil)
}
