package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

// Page decodes a list response. The backend answers either with a bare JSON
// array or with an envelope such as {"data": [...], "totalCount": 42}.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

var (
	listKeys     = []string{"data", "items", "results", "Data", "Items"}
	totalKeys    = []string{"total", "totalCount", "totalItems", "TotalCount", "count"}
	pageKeys     = []string{"page", "pageNumber", "currentPage", "PageNumber"}
	pageSizeKeys = []string{"pageSize", "page_size", "limit", "PageSize"}
)

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		p.Items = nil
		return nil
	}
	if b[0] == '[' {
		if err := json.Unmarshal(b, &p.Items); err != nil {
			return err
		}
		p.Total = len(p.Items)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	for _, k := range listKeys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		// Some endpoints nest the paged envelope one level deeper.
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return p.UnmarshalJSON(trimmed)
		}
		if err := json.Unmarshal(raw, &p.Items); err != nil {
			return err
		}
		break
	}
	p.Total = intField(obj, totalKeys, len(p.Items))
	p.Page = intField(obj, pageKeys, 0)
	p.PageSize = intField(obj, pageSizeKeys, 0)
	return nil
}

func intField(obj map[string]json.RawMessage, keys []string, fallback int) int {
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if n, err := strconv.Atoi(s); err == nil {
				return n
			}
		}
	}
	return fallback
}

// One decodes a single-object response that may be wrapped as {"data": {...}}.
type One[T any] struct {
	Value T
	found bool
}

func (o *One[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err == nil {
		if raw, ok := obj["data"]; ok && len(obj) <= 3 {
			trimmed := bytes.TrimSpace(raw)
			if bytes.Equal(trimmed, []byte("null")) {
				return nil
			}
			if len(trimmed) > 0 && trimmed[0] == '{' {
				b = trimmed
			}
		}
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.found = true
	return nil
}

// Result returns the decoded value. A 204, an empty body or a null object
// come back as a 404 APIError.
func (o *One[T]) Result() (T, error) {
	if !o.found {
		var zero T
		return zero, &APIError{Status: http.StatusNotFound, Message: http.StatusText(http.StatusNotFound)}
	}
	return o.Value, nil
}
