package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/clinic/portal/pkg/vnformat"
)

// ErrUnauthorized is wrapped by every 401 and 403 response from the backend.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is returned for any non-2xx backend response.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401/403 responses.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// StatusOf returns the HTTP status carried by err, or 0 for transport errors.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// maxMessage bounds APIError.Message in bytes.
const maxMessage = 300

// newAPIError builds an APIError from a raw response body. The message is
// taken from the first populated JSON field among message, error, title and
// detail, then from the trimmed body, then from the status text. HTML error
// pages are not used as a message.
func newAPIError(status int, body []byte) *APIError {
	raw := strings.TrimSpace(string(body))
	msg := messageFromJSON(body)
	if msg == "" && raw != "" && !strings.HasPrefix(raw, "<") {
		msg = raw
	}
	msg = vnformat.Clip(msg, maxMessage)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg, Body: raw}
}

func messageFromJSON(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "Message", "error", "title", "detail"} {
		switch v := payload[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]interface{}:
			if s, ok := v["message"].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
