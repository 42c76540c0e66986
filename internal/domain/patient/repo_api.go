package patient

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

const basePath = "/Patients"

type repoAPI struct {
	api *backend.Client
}

func NewRepo(api *backend.Client) Repository {
	return &repoAPI{api: api}
}

func (r *repoAPI) List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error) {
	q := p.Query()
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Gender != "" {
		q.Set("gender", f.Gender)
	}
	var page backend.Page[*Patient]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath, q, &page); err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (r *repoAPI) GetByID(ctx context.Context, id string) (*Patient, error) {
	var one backend.One[*Patient]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *repoAPI) Create(ctx context.Context, p *Patient) error {
	var one backend.One[*Patient]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), basePath, p, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*p = *one.Value
	}
	return nil
}

func (r *repoAPI) Update(ctx context.Context, p *Patient) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(p.ID.String()), p, nil)
}

func (r *repoAPI) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id))
}
