package notification

import (
	"context"
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func currentUser(ctx context.Context) (*session.User, error) {
	u := session.FromContext(ctx)
	if u == nil {
		return nil, backend.ErrUnauthorized
	}
	return u, nil
}

// List returns the signed-in user's notifications.
func (s *Service) List(ctx context.Context) ([]*Notification, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForUser(ctx, u.ID)
}

// UnreadCount is the badge number in the header.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	items, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return Unread(items), nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return backend.Invalid("id", "mã thông báo không hợp lệ")
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	u, err := currentUser(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkAllRead(ctx, u.ID)
}

// Broadcast sends a notification to every user of a role. Only managers and
// admins reach this through the handler.
func (s *Service) Broadcast(ctx context.Context, n *Notification) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	if n.Title == "" {
		return backend.Invalid("title", "tiêu đề là bắt buộc")
	}
	if n.Message == "" {
		return backend.Invalid("message", "nội dung là bắt buộc")
	}
	if n.TargetRole != "" {
		role := session.NormalizeRole(n.TargetRole)
		if role == "" {
			return backend.Invalid("targetRole", "vai trò nhận không hợp lệ")
		}
		n.TargetRole = role
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	n.IsRead = false
	return s.repo.Create(ctx, n)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
