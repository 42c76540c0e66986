package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/backend/backendtest"
	"github.com/clinic/portal/internal/platform/session"
)

func TestHandler_Routes(t *testing.T) {
	services := &mockServiceRepo{items: []*ServiceDto{{ID: "1", Name: "A", Active: true}, {ID: "2", Name: "B"}}}
	e := echo.New()
	NewHandler(NewService(services, &mockTestTypeRepo{})).RegisterRoutes(e.Group("/api/v1"))

	do := func(method, path, role, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if role != "" {
			req = req.WithContext(session.WithUser(req.Context(), backendtest.User(role)))
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/api/v1/services?active=true", session.RoleReception, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("active filter: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodPost, "/api/v1/services", session.RoleDoctor, `{"name":"C"}`); rec.Code != http.StatusForbidden {
		t.Errorf("doctor write: expected 403, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/api/v1/test-types", session.RoleAdmin, `{"name":"HbA1c","price":120000}`); rec.Code != http.StatusCreated {
		t.Errorf("admin create test type: expected 201, got %d", rec.Code)
	}
	if rec := do(http.MethodGet, "/api/v1/services", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", rec.Code)
	}
	for _, role := range []string{"", session.RoleDoctor} {
		if rec := do(http.MethodGet, "/api/v1/nowhere", role, ""); rec.Code != http.StatusNotFound {
			t.Errorf("unknown path as %q: expected 404, got %d", role, rec.Code)
		}
	}
}

func TestHandler_BackendErrorIsNotSuccess(t *testing.T) {
	services := &mockServiceRepo{err: &backend.APIError{Status: http.StatusServiceUnavailable, Message: "down"}}
	e := echo.New()
	NewHandler(NewService(services, &mockTestTypeRepo{})).RegisterRoutes(e.Group("/api/v1"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	req = req.WithContext(session.WithUser(req.Context(), backendtest.User(session.RoleAdmin)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"data"`) {
		t.Error("error response must not carry data")
	}
}
