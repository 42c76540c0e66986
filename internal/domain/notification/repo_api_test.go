package notification

import (
	"net/http"
	"testing"

	"github.com/clinic/portal/internal/platform/backend/backendtest"
	"github.com/clinic/portal/internal/platform/session"
)

func TestRepoAPI(t *testing.T) {
	srv := backendtest.New(t)
	srv.Reply(http.MethodGet, "/Notification/user/u-1", http.StatusOK, []map[string]interface{}{
		{"id": 1, "title": "Lịch hẹn mới", "message": "Bệnh nhân A lúc 9h", "isRead": false, "createdAt": "2024-06-15T07:00:00"},
	})
	srv.Reply(http.MethodPut, "/Notification/1/read", http.StatusNoContent, nil)
	srv.Reply(http.MethodPut, "/Notification/user/u-1/read-all", http.StatusNoContent, nil)
	repo := NewRepo(srv.Client)
	ctx := backendtest.Context(session.RoleReception)

	items, err := repo.ListForUser(ctx, "u-1")
	if err != nil || len(items) != 1 || items[0].Title != "Lịch hẹn mới" {
		t.Fatalf("ListForUser = %+v, %v", items, err)
	}
	if err := repo.MarkRead(ctx, "1"); err != nil {
		t.Errorf("MarkRead: %v", err)
	}
	if err := repo.MarkAllRead(ctx, "u-1"); err != nil {
		t.Errorf("MarkAllRead: %v", err)
	}
	if got := len(srv.Calls()); got != 3 {
		t.Errorf("expected 3 backend calls, got %d", got)
	}
}
