package labresult

import (
	"context"
	"errors"
	"testing"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/pkg/pagination"
)

type mockRepo struct {
	items      []*TestResult
	lastStatus string
	created    *TestResult
	entered    map[string]Entry
	err        error
}

func newMockRepo() *mockRepo {
	return &mockRepo{entered: make(map[string]Entry)}
}

func (m *mockRepo) List(_ context.Context, status string, _ pagination.Params) ([]*TestResult, int, error) {
	m.lastStatus = status
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.items, len(m.items), nil
}

func (m *mockRepo) ByPatient(_ context.Context, _ string) ([]*TestResult, error) {
	return m.items, m.err
}

func (m *mockRepo) GetByID(_ context.Context, _ string) (*TestResult, error) {
	return nil, &backend.APIError{Status: 404, Message: "Not Found"}
}

func (m *mockRepo) Create(_ context.Context, r *TestResult) error {
	r.ID = "new"
	m.created = r
	return nil
}

func (m *mockRepo) Enter(_ context.Context, id string, e Entry) error {
	m.entered[id] = e
	return nil
}

func TestService_Worklist_OnlyPending(t *testing.T) {
	repo := newMockRepo()
	repo.items = []*TestResult{
		{ID: "1", Status: "Pending"},
		{ID: "2", Status: "Completed"},
		{ID: "3", Status: ""},
	}
	svc := NewService(repo)
	items, _, err := svc.Worklist(context.Background(), pagination.Parse("1", "20"))
	if err != nil {
		t.Fatalf("Worklist: %v", err)
	}
	if repo.lastStatus != StatusPending {
		t.Errorf("expected pending filter sent, got %q", repo.lastStatus)
	}
	if len(items) != 2 || items[0].ID != "1" || items[1].ID != "3" {
		t.Errorf("unexpected worklist %+v", items)
	}
}

func TestService_Worklist_ErrorYieldsNoRows(t *testing.T) {
	repo := newMockRepo()
	repo.err = &backend.APIError{Status: 500, Message: "boom"}
	items, total, err := NewService(repo).Worklist(context.Background(), pagination.Parse("", ""))
	if err == nil {
		t.Fatal("expected error")
	}
	if items != nil || total != 0 {
		t.Errorf("expected no rows on error, got %v (%d)", items, total)
	}
}

func TestService_Create_ResetsResult(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	r := &TestResult{PatientID: "1", TestTypeID: "2", Status: "completed", Value: "5.5"}
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.created.Status != StatusPending || repo.created.Value != "" {
		t.Errorf("new orders must be pending and empty, got %+v", repo.created)
	}
	var verr *backend.ValidationError
	if err := svc.Create(context.Background(), &TestResult{PatientID: "1"}); !errors.As(err, &verr) || verr.Field != "testTypeId" {
		t.Errorf("expected testTypeId error, got %v", err)
	}
}

func TestService_Enter(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	if err := svc.Enter(context.Background(), "7", Entry{Value: " 5.6 mmol/L ", Conclusion: " Bình thường "}); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if got := repo.entered["7"]; got.Value != "5.6 mmol/L" || got.Conclusion != "Bình thường" {
		t.Errorf("unexpected entry %+v", got)
	}
	if err := svc.Enter(context.Background(), "7", Entry{Value: "  "}); err == nil {
		t.Error("expected error for blank value")
	}
}
