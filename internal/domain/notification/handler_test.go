package notification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/platform/backend/backendtest"
	"github.com/clinic/portal/internal/platform/session"
)

func TestHandler_Routes(t *testing.T) {
	repo := &mockRepo{items: []*Notification{{ID: "1"}, {ID: "2", IsRead: true}}}
	e := echo.New()
	NewHandler(NewService(repo)).RegisterRoutes(e.Group("/api/v1"))

	do := func(method, path, role, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req = req.WithContext(session.WithUser(req.Context(), backendtest.User(role)))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/api/v1/notifications/unread-count", session.RoleReception, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"unread":1}` {
		t.Errorf("unread-count: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodPut, "/api/v1/notifications/read-all", session.RoleDoctor, ""); rec.Code != http.StatusNoContent {
		t.Errorf("read-all: expected 204, got %d", rec.Code)
	}
	if rec := do(http.MethodPut, "/api/v1/notifications/1/read", session.RoleDoctor, ""); rec.Code != http.StatusNoContent || len(repo.readIDs) != 1 {
		t.Errorf("read: expected 204, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/api/v1/notifications", session.RoleNurse, `{"title":"a","message":"b"}`); rec.Code != http.StatusForbidden {
		t.Errorf("nurse broadcast: expected 403, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/api/v1/notifications", session.RoleManager, `{"title":"a","message":"b","targetRole":"nurse"}`); rec.Code != http.StatusCreated {
		t.Errorf("manager broadcast: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodGet, "/api/v1/notifications", session.RolePatient, ""); rec.Code != http.StatusForbidden {
		t.Errorf("patient: expected 403, got %d", rec.Code)
	}
}
