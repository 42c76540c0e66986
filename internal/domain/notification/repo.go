package notification

import "context"

type Repository interface {
	ListForUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Create(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id string) error
}
