package labresult

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

const basePath = "/TestResults"

type repoAPI struct {
	api *backend.Client
}

func NewRepo(api *backend.Client) Repository {
	return &repoAPI{api: api}
}

func (r *repoAPI) List(ctx context.Context, status string, p pagination.Params) ([]*TestResult, int, error) {
	q := p.Query()
	if status != "" {
		q.Set("status", status)
	}
	var page backend.Page[*TestResult]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath, q, &page); err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (r *repoAPI) ByPatient(ctx context.Context, patientID string) ([]*TestResult, error) {
	var page backend.Page[*TestResult]
	path := basePath + "/patient/" + url.PathEscape(patientID)
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), path, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repoAPI) GetByID(ctx context.Context, id string) (*TestResult, error) {
	var one backend.One[*TestResult]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *repoAPI) Create(ctx context.Context, res *TestResult) error {
	var one backend.One[*TestResult]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), basePath, res, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*res = *one.Value
	}
	return nil
}

func (r *repoAPI) Enter(ctx context.Context, id string, e Entry) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id)+"/result", e, nil)
}
