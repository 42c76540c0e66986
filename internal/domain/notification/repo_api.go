package notification

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

const basePath = "/Notification"

type repoAPI struct {
	api *backend.Client
}

func NewRepo(api *backend.Client) Repository {
	return &repoAPI{api: api}
}

func (r *repoAPI) ListForUser(ctx context.Context, userID string) ([]*Notification, error) {
	var page backend.Page[*Notification]
	path := basePath + "/user/" + url.PathEscape(userID)
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), path, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repoAPI) MarkRead(ctx context.Context, id string) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id)+"/read", nil, nil)
}

func (r *repoAPI) MarkAllRead(ctx context.Context, userID string) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), basePath+"/user/"+url.PathEscape(userID)+"/read-all", nil, nil)
}

func (r *repoAPI) Create(ctx context.Context, n *Notification) error {
	var one backend.One[*Notification]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), basePath, n, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*n = *one.Value
	}
	return nil
}

func (r *repoAPI) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, session.TokenFromContext(ctx), basePath+"/"+url.PathEscape(id))
}
