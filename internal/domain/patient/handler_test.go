package patient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/platform/backend/backendtest"
	"github.com/clinic/portal/internal/platform/session"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	svc, repo := newTestService()
	return NewHandler(svc), repo, echo.New()
}

func TestHandler_CreateAndGet(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"fullName":"Phạm Văn D","dateOfBirth":"1994-06-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := backendtest.EchoContext(e, req, session.RoleReception)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created["age"] != float64(30) {
		t.Errorf("expected age 30, got %v", created["age"])
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec = backendtest.EchoContext(e, req, session.RoleDoctor)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Create_ValidationIs400(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"fullName":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := backendtest.EchoContext(e, req, session.RoleReception)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_RoutesGuarded(t *testing.T) {
	h, _, e := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))

	tests := []struct {
		role   string
		method string
		want   int
	}{
		{"", http.MethodGet, http.StatusUnauthorized},
		{session.RoleManager, http.MethodGet, http.StatusForbidden},
		{session.RoleAdmin, http.MethodGet, http.StatusForbidden},
		{session.RoleNurse, http.MethodGet, http.StatusOK},
		{session.RoleNurse, http.MethodDelete, http.StatusForbidden},
	}
	for _, tt := range tests {
		path := "/api/v1/patients"
		if tt.method == http.MethodDelete {
			path += "/1"
		}
		req := httptest.NewRequest(tt.method, path, nil)
		if tt.role != "" {
			req = req.WithContext(session.WithUser(req.Context(), backendtest.User(tt.role)))
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %s as %q: expected %d, got %d", tt.method, path, tt.role, tt.want, rec.Code)
		}
	}
}
