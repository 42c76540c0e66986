package pagination

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// maxCollectPages bounds All.
	maxCollectPages = 50
)

// ErrIncomplete is returned by All when the result set is larger than it
// will read.
var ErrIncomplete = errors.New("pagination: result set too large")

// Params holds 1-based page parameters extracted from a request.
type Params struct {
	Page     int
	PageSize int
}

// FromContext extracts pagination parameters from the echo context. Both the
// portal's page/page_size and the backend's pageNumber/pageSize spellings are
// accepted.
func FromContext(c echo.Context) Params {
	return Parse(c.QueryParam("page"), firstNonEmpty(c.QueryParam("page_size"), c.QueryParam("pageSize"), c.QueryParam("limit")))
}

// Parse normalizes raw page and size strings.
func Parse(page, size string) Params {
	p, _ := strconv.Atoi(page)
	if p < 1 {
		p = 1
	}
	s, _ := strconv.Atoi(size)
	if s <= 0 {
		s = DefaultPageSize
	}
	if s > MaxPageSize {
		s = MaxPageSize
	}
	return Params{Page: p, PageSize: s}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Query returns the backend query parameters for this page.
func (p Params) Query() url.Values {
	q := url.Values{}
	p.Apply(q)
	return q
}

// Apply sets the backend page parameters on q.
func (p Params) Apply(q url.Values) {
	q.Set("pageNumber", strconv.Itoa(p.Page))
	q.Set("pageSize", strconv.Itoa(p.PageSize))
}

// Offset returns the zero-based index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset()+p.PageSize < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Page > 1
}

// TotalPages returns the number of pages needed for total items.
func (p Params) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// Response wraps a paginated API response.
type Response struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	HasMore    bool        `json:"has_more"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	return &Response{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages(total),
		HasMore:    p.HasNext(total),
	}
}

// All reads every page of fetch at MaxPageSize until the reported total is
// covered or a page comes back empty. A backend that ignores paging and
// returns more than a page is read once.
func All[T any](ctx context.Context, fetch func(context.Context, Params) ([]T, int, error)) ([]T, error) {
	var out []T
	for page := 1; page <= maxCollectPages; page++ {
		p := Params{Page: page, PageSize: MaxPageSize}
		items, total, err := fetch(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) == 0 || len(items) > MaxPageSize || !p.HasNext(total) {
			return out, nil
		}
	}
	return out, ErrIncomplete
}
