package aichat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type mockChatter struct {
	reply   string
	err     error
	message string
	history []Turn
	calls   int
}

func (m *mockChatter) Chat(ctx context.Context, message string, history []Turn) (string, error) {
	m.calls++
	m.message = message
	m.history = history
	return m.reply, m.err
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e.Group("/api/ai"))
	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHandler_Reply(t *testing.T) {
	m := &mockChatter{reply: "Xin chào"}
	rec := post(NewHandler(m), `{"message":" Chào ","history":[{"role":"assistant","content":"Tôi có thể giúp gì?"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode(t, rec)["reply"]; got != "Xin chào" {
		t.Errorf("unexpected reply %q", got)
	}
	if m.message != "Chào" || len(m.history) != 1 {
		t.Errorf("message or history not forwarded: %q %v", m.message, m.history)
	}
}

func TestHandler_EmptyMessage(t *testing.T) {
	m := &mockChatter{}
	rec := post(NewHandler(m), `{"message":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if m.calls != 0 {
		t.Error("empty message must not reach the model")
	}
}

func TestHandler_UpstreamStatusPropagates(t *testing.T) {
	m := &mockChatter{err: &UpstreamError{Status: http.StatusTooManyRequests, Message: "quota"}}
	rec := post(NewHandler(m), `{"message":"hi"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != "quota" {
		t.Errorf("unexpected error %q", got)
	}
}

func TestHandler_MissingKey(t *testing.T) {
	rec := post(NewHandler(&mockChatter{err: ErrNoAPIKey}), `{"message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if decode(t, rec)["error"] == "" {
		t.Error("error message missing")
	}
}

func TestHandler_OtherError(t *testing.T) {
	rec := post(NewHandler(&mockChatter{err: errors.New("boom")}), `{"message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
