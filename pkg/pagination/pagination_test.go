package pagination

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(q string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+q, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(ctxWithQuery(""))
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Errorf("unexpected defaults %+v", p)
	}
}

func TestFromContext_Values(t *testing.T) {
	p := FromContext(ctxWithQuery("page=3&pageSize=50"))
	if p.Page != 3 || p.PageSize != 50 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestFromContext_ClampsSize(t *testing.T) {
	p := FromContext(ctxWithQuery("page=-2&page_size=1000"))
	if p.Page != 1 || p.PageSize != MaxPageSize {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestParams_Navigation(t *testing.T) {
	p := Params{Page: 2, PageSize: 10}
	if p.Offset() != 10 {
		t.Errorf("Offset = %d", p.Offset())
	}
	if !p.HasNext(25) || p.HasNext(20) {
		t.Error("HasNext mismatch")
	}
	if !p.HasPrevious() || (Params{Page: 1, PageSize: 10}).HasPrevious() {
		t.Error("HasPrevious mismatch")
	}
	if p.TotalPages(25) != 3 || p.TotalPages(0) != 0 {
		t.Errorf("TotalPages mismatch: %d", p.TotalPages(25))
	}
}

func TestParams_Query(t *testing.T) {
	q := Params{Page: 4, PageSize: 15}.Query()
	if q.Get("pageNumber") != "4" || q.Get("pageSize") != "15" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2}, 42, Params{Page: 1, PageSize: 20})
	if r.Total != 42 || r.TotalPages != 3 || !r.HasMore {
		t.Errorf("unexpected response %+v", r)
	}
}

func pagedSource(total int, calls *int) func(context.Context, Params) ([]int, int, error) {
	return func(_ context.Context, p Params) ([]int, int, error) {
		*calls++
		var items []int
		for i := p.Offset(); i < p.Offset()+p.PageSize && i < total; i++ {
			items = append(items, i)
		}
		return items, total, nil
	}
}

func TestAll_ReadsEveryPage(t *testing.T) {
	var calls int
	items, err := All(context.Background(), pagedSource(250, &calls))
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 250 || calls != 3 {
		t.Errorf("expected 250 items in 3 calls, got %d in %d", len(items), calls)
	}
	if items[249] != 249 {
		t.Errorf("last item = %d", items[249])
	}
}

func TestAll_StopsOnUnpagedOrEmpty(t *testing.T) {
	var calls int
	unpaged := func(_ context.Context, _ Params) ([]int, int, error) {
		calls++
		return make([]int, 150), 150, nil
	}
	if items, err := All(context.Background(), unpaged); err != nil || len(items) != 150 || calls != 1 {
		t.Errorf("unpaged: %d items, %d calls, %v", len(items), calls, err)
	}

	calls = 0
	lying := func(_ context.Context, p Params) ([]int, int, error) {
		calls++
		if p.Page > 1 {
			return nil, 500, nil
		}
		return make([]int, MaxPageSize), 500, nil
	}
	if items, err := All(context.Background(), lying); err != nil || len(items) != MaxPageSize || calls != 2 {
		t.Errorf("empty page: %d items, %d calls, %v", len(items), calls, err)
	}
}

func TestAll_Errors(t *testing.T) {
	boom := errors.New("boom")
	failing := func(_ context.Context, _ Params) ([]int, int, error) { return nil, 0, boom }
	if _, err := All(context.Background(), failing); !errors.Is(err, boom) {
		t.Errorf("expected fetch error, got %v", err)
	}

	var calls int
	if _, err := All(context.Background(), pagedSource(maxCollectPages*MaxPageSize+1, &calls)); !errors.Is(err, ErrIncomplete) {
		t.Errorf("expected ErrIncomplete, got %v", err)
	}
	if calls != maxCollectPages {
		t.Errorf("expected %d calls, got %d", maxCollectPages, calls)
	}
}
