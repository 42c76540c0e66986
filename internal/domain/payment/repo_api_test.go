package payment

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/clinic/portal/internal/platform/backend/backendtest"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

func TestRepoAPI_List(t *testing.T) {
	srv := backendtest.New(t)
	srv.Reply(http.MethodGet, "/Payments", http.StatusOK, map[string]interface{}{
		"data": []map[string]interface{}{
			{"id": 1, "patientId": 2, "amount": 250000, "paymentMethod": "Cash", "status": "Paid", "paidAt": "2024-06-01T10:00:00"},
		},
		"total": 1,
	})
	repo := NewRepo(srv.Client)
	items, total, err := repo.List(backendtest.Context(session.RoleManager), Filter{Status: StatusPaid, From: "2024-06-01"}, pagination.Parse("", ""))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || items[0].Amount != 250000 || items[0].Day() != "2024-06-01" {
		t.Errorf("unexpected payments %+v", items)
	}
	q := srv.Last().Query
	if !strings.Contains(q, "status=paid") || !strings.Contains(q, "fromDate=2024-06-01") {
		t.Errorf("filters not forwarded: %q", q)
	}
}

func TestRepoAPI_Confirm(t *testing.T) {
	srv := backendtest.New(t)
	srv.Reply(http.MethodPut, "/Payments/3/confirm", http.StatusOK, nil)
	if err := NewRepo(srv.Client).Confirm(backendtest.Context(session.RoleReception), "3", MethodCard); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	var body map[string]string
	json.Unmarshal(srv.Last().Body, &body)
	if body["paymentMethod"] != MethodCard {
		t.Errorf("unexpected body %v", body)
	}
}

func TestSummary_ReadsEveryPage(t *testing.T) {
	srv := backendtest.New(t)
	var pages []string
	srv.Handle(http.MethodGet, "/Payments", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
		size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		pages = append(pages, r.URL.Query().Get("pageNumber"))
		var data []map[string]interface{}
		for i := (page - 1) * size; i < page*size && i < 250; i++ {
			data = append(data, map[string]interface{}{
				"id": i + 1, "patientId": 1, "amount": 10000, "paymentMethod": "Cash",
				"status": "Paid", "paidAt": "2024-06-01T10:00:00",
			})
		}
		backendtest.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": data, "totalCount": 250})
	})

	sum, err := NewService(NewRepo(srv.Client)).Summary(backendtest.Context(session.RoleManager), Filter{From: "2024-06-01", To: "2024-06-30"})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Count != 250 || sum.Paid != 2500000 {
		t.Errorf("expected 250 payments totalling 2500000, got %d and %v", sum.Count, sum.Paid)
	}
	if strings.Join(pages, ",") != "1,2,3" {
		t.Errorf("pages requested = %v", pages)
	}
}
