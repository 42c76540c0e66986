package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/portal/internal/platform/navigation"
	"github.com/clinic/portal/internal/platform/session"
)

var statusMessages = map[int]string{
	http.StatusNotFound:              "Không tìm thấy trang bạn yêu cầu",
	http.StatusMethodNotAllowed:      "Thao tác không được hỗ trợ",
	http.StatusRequestEntityTooLarge: "Dữ liệu gửi lên quá lớn",
	http.StatusTooManyRequests:       "Bạn thao tác quá nhanh, vui lòng thử lại sau",
	http.StatusGatewayTimeout:        "Máy chủ phản hồi quá lâu, vui lòng thử lại sau",
	http.StatusInternalServerError:   "Đã xảy ra lỗi, vui lòng thử lại sau",
}

// jsonPrefixes keep echo's JSON error body.
var jsonPrefixes = []string{"/api/", "/auth/", "/health", "/static/"}

type statusView struct {
	Code    int
	Message string
}

// ErrorHandler renders page errors as an HTML page inside the layout.
func ErrorHandler(e *echo.Echo, logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		path := c.Request().URL.Path
		if c.Response().Committed || wantsJSONError(path) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		msg, ok := statusMessages[code]
		if !ok {
			msg = statusMessages[http.StatusInternalServerError]
		}

		u := session.Current(c)
		page := &Page{Title: "Lỗi", Path: path, User: u, Data: statusView{Code: code, Message: msg}}
		if u != nil {
			page.Nav = navigation.ForRole(u.Role)
		}
		if rerr := c.Render(code, "status", page); rerr != nil {
			logger.Error().Err(rerr).Str("path", path).Msg("failed to render error page")
			e.DefaultHTTPErrorHandler(err, c)
		}
	}
}

func wantsJSONError(path string) bool {
	for _, p := range jsonPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
