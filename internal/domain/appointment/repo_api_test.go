package appointment

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/backend/backendtest"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

func TestRepoAPI_ListNormalizesStatus(t *testing.T) {
	srv := backendtest.New(t)
	srv.Reply(http.MethodGet, "/Appointments", http.StatusOK, []map[string]interface{}{
		{"id": 1, "patientId": 3, "doctorId": 4, "appointmentDate": "2024-06-15T00:00:00", "status": "CheckedIn"},
	})
	repo := NewRepo(srv.Client)
	items, total, err := repo.List(backendtest.Context(session.RoleReception), Filter{Status: StatusCheckedIn, Date: "2024-06-15"}, pagination.Parse("", ""))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || items[0].Status != StatusCheckedIn {
		t.Errorf("unexpected result %d %+v", total, items)
	}
	q := srv.Last().Query
	if !strings.Contains(q, "status=checked_in") || !strings.Contains(q, "date=2024-06-15") {
		t.Errorf("filters not forwarded: %q", q)
	}
}

func TestRepoAPI_UpdateStatus(t *testing.T) {
	srv := backendtest.New(t)
	srv.Reply(http.MethodPut, "/Appointments/9/status", http.StatusNoContent, nil)
	repo := NewRepo(srv.Client)
	if err := repo.UpdateStatus(backendtest.Context(session.RoleNurse), "9", StatusInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	var body map[string]string
	json.Unmarshal(srv.Last().Body, &body)
	if body["status"] != StatusInProgress {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRepoAPI_ListForDoctor(t *testing.T) {
	srv := backendtest.New(t)
	srv.Reply(http.MethodGet, "/DoctorAppointments/d-1", http.StatusOK, map[string]interface{}{
		"items": []map[string]interface{}{{"id": "a1", "status": "Confirmed"}},
	})
	repo := NewRepo(srv.Client)
	items, err := repo.ListForDoctor(backendtest.Context(session.RoleDoctor), "d-1", "2024-06-15")
	if err != nil {
		t.Fatalf("ListForDoctor: %v", err)
	}
	if len(items) != 1 || items[0].Status != StatusConfirmed {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestRepoAPI_ServerErrorCarriesMessage(t *testing.T) {
	srv := backendtest.New(t)
	srv.Reply(http.MethodGet, "/Appointments", http.StatusInternalServerError, map[string]string{"message": "Lỗi máy chủ"})
	repo := NewRepo(srv.Client)
	_, _, err := repo.List(backendtest.Context(session.RoleReception), Filter{}, pagination.Parse("", ""))
	if backend.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Lỗi máy chủ") {
		t.Errorf("expected backend message in error, got %q", err.Error())
	}
}
