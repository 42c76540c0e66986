// Package web serves the portal's server-rendered pages.
package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/navigation"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

// NoData is shown instead of an empty table.
const NoData = "Không có dữ liệu"

// List states. A list is in exactly one of them.
const (
	StateError = "error"
	StateEmpty = "empty"
	StateData  = "data"
)

// List is what a list screen renders. When Error is set Items is always nil
// so stale or partial rows never show as a success.
type List[T any] struct {
	Items []T
	Total int
	Error string
	Page  pagination.Params
}

// NewList builds the list state from a service call.
func NewList[T any](items []T, total int, err error, p pagination.Params) List[T] {
	if err != nil {
		return List[T]{Error: Message(err), Page: p}
	}
	if total < len(items) {
		total = len(items)
	}
	return List[T]{Items: items, Total: total, Page: p}
}

func (l List[T]) State() string {
	switch {
	case l.Error != "":
		return StateError
	case len(l.Items) == 0:
		return StateEmpty
	}
	return StateData
}

// PrevPage is the previous page number, or 0 on the first page.
func (l List[T]) PrevPage() int {
	if l.Page.Page > 1 {
		return l.Page.Page - 1
	}
	return 0
}

// NextPage is the next page number, or 0 on the last page.
func (l List[T]) NextPage() int {
	if l.Page.PageSize > 0 && l.Page.Page*l.Page.PageSize < l.Total {
		return l.Page.Page + 1
	}
	return 0
}

// Message turns a service error into the Vietnamese text shown on screen.
func Message(err error) string {
	var validation *backend.ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		return "Bạn không có quyền thực hiện thao tác này hoặc phiên đăng nhập đã hết hạn"
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusNotFound:
			return "Không tìm thấy dữ liệu"
		case apiErr.Status >= 500:
			return "Máy chủ đang gặp sự cố, vui lòng thử lại sau"
		}
		return apiErr.Message
	}
	return "Không kết nối được máy chủ, vui lòng thử lại sau"
}

// Page is the data every template receives.
type Page struct {
	Title string
	Path  string
	Query url.Values
	User  *session.User
	Nav   []navigation.Item
	Flash *Flash
	Data  interface{}
}

// PageURL returns the current query with page replaced by n.
func (p *Page) PageURL(n int) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.Path + "?" + q.Encode()
}
