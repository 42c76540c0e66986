package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api", Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := New(Config{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestClient_URL(t *testing.T) {
	c, err := New(Config{BaseURL: "https://clinic.example.com/api/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.URL("/Patients/7", url.Values{"search": {"An"}})
	want := "https://clinic.example.com/api/Patients/7?search=An"
	if got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestClient_Get_AttachesBearerAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Medicine" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Paracetamol"}]`))
	})

	var out []map[string]interface{}
	if err := c.Get(context.Background(), "tok-1", "/Medicine", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 1 || out[0]["name"] != "Paracetamol" {
		t.Errorf("unexpected body: %v", out)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("expected no Authorization header")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Get(context.Background(), "", "/Services", nil, &struct{}{}); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestClient_Post_SendsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		var in map[string]string
		json.Unmarshal(raw, &in)
		if in["name"] != "Siêu âm" {
			t.Errorf("body = %s", raw)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9}`))
	})
	var out struct {
		ID int `json:"id"`
	}
	if err := c.Post(context.Background(), "t", "/Services", map[string]string{"name": "Siêu âm"}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if out.ID != 9 {
		t.Errorf("id = %d", out.ID)
	}
}

func TestClient_Non2xx_MessageFromJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Ngày hẹn không hợp lệ"}`))
	})
	err := c.Get(context.Background(), "t", "/Appointments", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "Ngày hẹn không hợp lệ" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("400 must not match ErrUnauthorized")
	}
}

func TestClient_Non2xx_PlainBodyAndStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/plain" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("slot already taken\n"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.Get(context.Background(), "", "/plain", nil, nil)
	if apiErr, ok := err.(*APIError); !ok || apiErr.Message != "slot already taken" {
		t.Errorf("unexpected error: %v", err)
	}

	err = c.Get(context.Background(), "", "/empty", nil, nil)
	if apiErr, ok := err.(*APIError); !ok || apiErr.Message != "Internal Server Error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_Non2xx_RawBodyFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/object":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`  {"code":"SLOT_TAKEN"}  `))
		case "/api/html":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html><body>Bad Gateway</body></html>"))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(strings.Repeat("lỗi ", 500)))
		}
	})

	err := c.Get(context.Background(), "", "/object", nil, nil)
	if apiErr, ok := err.(*APIError); !ok || apiErr.Message != `{"code":"SLOT_TAKEN"}` {
		t.Errorf("object body: %v", err)
	}
	err = c.Get(context.Background(), "", "/html", nil, nil)
	if apiErr, ok := err.(*APIError); !ok || apiErr.Message != "Bad Gateway" {
		t.Errorf("html body: %v", err)
	}
	err = c.Get(context.Background(), "", "/long", nil, nil)
	apiErr, ok := err.(*APIError)
	if !ok || len(apiErr.Message) > maxMessage || !utf8.ValidString(apiErr.Message) {
		t.Errorf("long body not clipped: %v", err)
	}
}

func TestClient_UnauthorizedAndForbidden(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		err := c.Get(context.Background(), "t", "/Payments", nil, nil)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("status %d: expected ErrUnauthorized, got %v", status, err)
		}
		if StatusOf(err) != status {
			t.Errorf("StatusOf = %d, want %d", StatusOf(err), status)
		}
	}
}

func TestClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	err := c.Get(context.Background(), "t", "/Patients/404", nil, nil)
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: base, Logger: zerolog.Nop()})
	err := c.Get(context.Background(), "", "/Patients", nil, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if StatusOf(err) != 0 {
		t.Errorf("transport error should carry no status, got %d", StatusOf(err))
	}
}

func TestPage_BareArray(t *testing.T) {
	var p Page[map[string]int]
	if err := json.Unmarshal([]byte(`[{"id":1},{"id":2}]`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Items) != 2 || p.Total != 2 {
		t.Errorf("items=%d total=%d", len(p.Items), p.Total)
	}
}

func TestPage_Envelope(t *testing.T) {
	var p Page[map[string]int]
	body := `{"data":[{"id":1}],"totalCount":"41","pageNumber":3,"pageSize":20}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Items) != 1 || p.Total != 41 || p.Page != 3 || p.PageSize != 20 {
		t.Errorf("unexpected page %+v", p)
	}
}

func TestPage_NestedEnvelope(t *testing.T) {
	var p Page[map[string]int]
	body := `{"success":true,"data":{"items":[{"id":1},{"id":2},{"id":3}],"total":10}}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Items) != 3 || p.Total != 10 {
		t.Errorf("unexpected page %+v", p)
	}
}

func TestPage_Null(t *testing.T) {
	var p Page[int]
	if err := json.Unmarshal([]byte(`null`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Items != nil {
		t.Errorf("expected nil items")
	}
}

func TestOne_WrappedAndBare(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	var wrapped One[item]
	if err := json.Unmarshal([]byte(`{"data":{"name":"A"},"success":true}`), &wrapped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if wrapped.Value.Name != "A" {
		t.Errorf("wrapped name = %q", wrapped.Value.Name)
	}

	var bare One[item]
	if err := json.Unmarshal([]byte(`{"name":"B"}`), &bare); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if bare.Value.Name != "B" {
		t.Errorf("bare name = %q", bare.Value.Name)
	}
}

func TestOne_EmptyResultIsNotFound(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	for _, body := range []string{`null`, `{"data":null,"success":true}`} {
		var one One[*item]
		if err := json.Unmarshal([]byte(body), &one); err != nil {
			t.Fatalf("%s: unmarshal: %v", body, err)
		}
		if v, err := one.Result(); v != nil || !IsNotFound(err) {
			t.Errorf("%s: Result = %v, %v; want 404", body, v, err)
		}
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	var one One[*item]
	if err := c.Get(context.Background(), "", "/Patients/7", nil, &one); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := one.Result(); !IsNotFound(err) {
		t.Errorf("204 Result err = %v, want 404", err)
	}

	var found One[*item]
	if err := json.Unmarshal([]byte(`{"name":"C"}`), &found); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, err := found.Result(); err != nil || v.Name != "C" {
		t.Errorf("Result = %v, %v", v, err)
	}
}

func TestID_MarshalOnlyCanonicalNumbers(t *testing.T) {
	cases := map[ID]string{
		"5":                    `5`,
		"0":                    `0`,
		"-3":                   `-3`,
		"+5":                   `"+5"`,
		"007":                  `"007"`,
		"1e3":                  `"1e3"`,
		"-":                    `"-"`,
		"99999999999999999999": `"99999999999999999999"`,
	}
	for id, want := range cases {
		got, err := json.Marshal(id)
		if err != nil {
			t.Errorf("Marshal(%q): %v", id, err)
			continue
		}
		if string(got) != want {
			t.Errorf("Marshal(%q) = %s, want %s", id, got, want)
		}
	}
}

func TestID_DecodeNumberAndString(t *testing.T) {
	var in struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":42,"b":"3f2a-guid","c":null}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.A != "42" || in.B != "3f2a-guid" || !in.C.IsZero() {
		t.Errorf("unexpected ids %+v", in)
	}

	out, _ := json.Marshal(map[string]ID{"n": "42", "s": "abc"})
	if string(out) != `{"n":42,"s":"abc"}` {
		t.Errorf("marshal = %s", out)
	}
}

func TestToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &APIError{Status: 400, Message: "x"}, 400},
		{"unauthorized", &APIError{Status: 401}, 401},
		{"forbidden", &APIError{Status: 403}, 403},
		{"not found", &APIError{Status: 404}, 404},
		{"server error", &APIError{Status: 500}, 502},
		{"validation", Invalid("name", "required"), 400},
		{"transport", errors.New("dial tcp"), 502},
	}
	for _, tt := range tests {
		err := ToHTTP(tt.err)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok {
			t.Errorf("%s: expected echo.HTTPError, got %T", tt.name, err)
			continue
		}
		if httpErr.Code != tt.want {
			t.Errorf("%s: code = %d, want %d", tt.name, httpErr.Code, tt.want)
		}
	}
	if ToHTTP(nil) != nil {
		t.Error("nil must stay nil")
	}
	if !errors.Is(ToHTTP(context.DeadlineExceeded), context.DeadlineExceeded) {
		t.Error("deadline errors must pass through for the timeout middleware")
	}
}
