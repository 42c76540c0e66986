package catalog

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

const (
	servicesPath  = "/Services"
	testTypesPath = "/TestTypes"
)

// resourceAPI is the CRUD shape shared by both catalog endpoints.
type resourceAPI[T any] struct {
	api  *backend.Client
	path string
	id   func(*T) backend.ID
}

func (r *resourceAPI[T]) list(ctx context.Context, p pagination.Params) ([]*T, int, error) {
	var page backend.Page[*T]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), r.path, p.Query(), &page); err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (r *resourceAPI[T]) get(ctx context.Context, id string) (*T, error) {
	var one backend.One[*T]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), r.path+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *resourceAPI[T]) create(ctx context.Context, v *T) error {
	var one backend.One[*T]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), r.path, v, &one); err != nil {
		return err
	}
	if one.Value != nil && !r.id(one.Value).IsZero() {
		*v = *one.Value
	}
	return nil
}

func (r *resourceAPI[T]) update(ctx context.Context, v *T) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), r.path+"/"+url.PathEscape(r.id(v).String()), v, nil)
}

func (r *resourceAPI[T]) delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, session.TokenFromContext(ctx), r.path+"/"+url.PathEscape(id))
}

// -- Services --

type serviceRepoAPI struct {
	res resourceAPI[ServiceDto]
}

func NewServiceRepo(api *backend.Client) ServiceRepository {
	return &serviceRepoAPI{res: resourceAPI[ServiceDto]{api: api, path: servicesPath, id: func(s *ServiceDto) backend.ID { return s.ID }}}
}

func (r *serviceRepoAPI) List(ctx context.Context, p pagination.Params) ([]*ServiceDto, int, error) {
	return r.res.list(ctx, p)
}

func (r *serviceRepoAPI) GetByID(ctx context.Context, id string) (*ServiceDto, error) {
	return r.res.get(ctx, id)
}

func (r *serviceRepoAPI) Create(ctx context.Context, s *ServiceDto) error {
	return r.res.create(ctx, s)
}

func (r *serviceRepoAPI) Update(ctx context.Context, s *ServiceDto) error {
	return r.res.update(ctx, s)
}

func (r *serviceRepoAPI) Delete(ctx context.Context, id string) error {
	return r.res.delete(ctx, id)
}

// -- Test types --

type testTypeRepoAPI struct {
	res resourceAPI[TestType]
}

func NewTestTypeRepo(api *backend.Client) TestTypeRepository {
	return &testTypeRepoAPI{res: resourceAPI[TestType]{api: api, path: testTypesPath, id: func(t *TestType) backend.ID { return t.ID }}}
}

func (r *testTypeRepoAPI) List(ctx context.Context, p pagination.Params) ([]*TestType, int, error) {
	return r.res.list(ctx, p)
}

func (r *testTypeRepoAPI) GetByID(ctx context.Context, id string) (*TestType, error) {
	return r.res.get(ctx, id)
}

func (r *testTypeRepoAPI) Create(ctx context.Context, t *TestType) error {
	return r.res.create(ctx, t)
}

func (r *testTypeRepoAPI) Update(ctx context.Context, t *TestType) error {
	return r.res.update(ctx, t)
}

func (r *testTypeRepoAPI) Delete(ctx context.Context, id string) error {
	return r.res.delete(ctx, id)
}
