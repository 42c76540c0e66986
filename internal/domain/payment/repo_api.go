package payment

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

const basePath = "/Payments"

type repoAPI struct {
	api *backend.Client
}

func NewRepo(api *backend.Client) Repository {
	return &repoAPI{api: api}
}

func (r *repoAPI) List(ctx context.Context, f Filter, p pagination.Params) ([]*Payment, int, error) {
	q := p.Query()
	for k, v := range map[string]string{
		"status":    f.Status,
		"method":    f.Method,
		"patientId": f.PatientID,
		"fromDate":  f.From,
		"toDate":    f.To,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	var page backend.Page[*Payment]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath, q, &page); err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (r *repoAPI) GetByID(ctx context.Context, id string) (*Payment, error) {
	var one backend.One[*Payment]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *repoAPI) ByPatient(ctx context.Context, patientID string) ([]*Payment, error) {
	var page backend.Page[*Payment]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath+"/patient/"+url.PathEscape(patientID), nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repoAPI) Create(ctx context.Context, p *Payment) error {
	var one backend.One[*Payment]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), basePath, p, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*p = *one.Value
	}
	return nil
}

func (r *repoAPI) Confirm(ctx context.Context, id, method string) error {
	body := map[string]string{"paymentMethod": method}
	return r.api.Put(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id)+"/confirm", body, nil)
}
