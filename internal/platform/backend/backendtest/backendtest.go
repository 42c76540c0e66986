// Package backendtest runs a fake clinic backend for repository and handler
// tests.
package backendtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

// Token is the bearer token carried by users from User.
const Token = "test-backend-token"

// Call is one request the fake backend received.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// Server is a fake backend. Routes are matched on "METHOD /path"; unmatched
// requests get 404.
type Server struct {
	Client *backend.Client

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]http.HandlerFunc)}
	srv := httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(srv.Close)
	c, err := backend.New(backend.Config{BaseURL: srv.URL + "/api", Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	s.Client = c
	return s
}

// Handle registers h for method and path (without the /api prefix).
func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = h
}

// Reply registers a fixed JSON response.
func (s *Server) Reply(method, path string, status int, body interface{}) {
	s.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Last returns the most recent request.
func (s *Server) Last() Call {
	calls := s.Calls()
	if len(calls) == 0 {
		return Call{}
	}
	return calls[len(calls)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path
	if len(path) >= 4 && path[:4] == "/api" {
		path = path[4:]
	}
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	h := s.routes[r.Method+" "+path]
	s.mu.Unlock()

	if h == nil {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	h(w, r)
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// User returns a signed-in user with the given role.
func User(role string) *session.User {
	return &session.User{ID: "u-1", FullName: "Nguyễn Văn A", Role: role, DoctorID: "d-1", Token: Token}
}

// Context returns a context carrying a user with role.
func Context(role string) context.Context {
	return session.WithUser(context.Background(), User(role))
}

// EchoContext builds an echo context for req with a signed-in user of role.
// An empty role leaves the request anonymous.
func EchoContext(e *echo.Echo, req *http.Request, role string) (echo.Context, *httptest.ResponseRecorder) {
	if role != "" {
		req = req.WithContext(session.WithUser(req.Context(), User(role)))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
