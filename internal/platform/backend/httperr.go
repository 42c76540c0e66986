package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTP converts a backend error into the echo error the portal's JSON API
// returns. 4xx statuses pass through with the backend message, 401/403 keep
// their status, transport failures and backend 5xx become 502.
func ToHTTP(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return echo.NewHTTPError(apiErr.Status, apiErr.Message)
		}
		return echo.NewHTTPError(http.StatusBadGateway, apiErr.Message)
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, "backend unavailable")
}

// ValidationError is returned by services when input fails a local check
// before any backend call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
