package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(ctxWithQuery(""))
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, p.Limit)
	}
}

func TestFromContext_PageAndLimit(t *testing.T) {
	p := FromContext(ctxWithQuery("page=3&limit=10"))
	if p.Page != 3 || p.Limit != 10 {
		t.Errorf("expected page=3 limit=10, got page=%d limit=%d", p.Page, p.Limit)
	}
	if p.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", p.Offset())
	}
}

func TestFromContext_LimitCapped(t *testing.T) {
	p := FromContext(ctxWithQuery("limit=9999"))
	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_OffsetFallback(t *testing.T) {
	p := FromContext(ctxWithQuery("offset=40&limit=20"))
	if p.Page != 3 {
		t.Errorf("expected page 3 from offset 40, got %d", p.Page)
	}
}

func TestTotalPages(t *testing.T) {
	p := Params{Page: 1, Limit: 20}
	if got := p.TotalPages(0); got != 0 {
		t.Errorf("expected 0 pages, got %d", got)
	}
	if got := p.TotalPages(20); got != 1 {
		t.Errorf("expected 1 page, got %d", got)
	}
	if got := p.TotalPages(21); got != 2 {
		t.Errorf("expected 2 pages, got %d", got)
	}
}

func TestNewResponse(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	resp := NewResponse([]string{"a"}, 35, p)
	if resp.Total != 35 || resp.Page != 2 || resp.TotalPages != 4 {
		t.Errorf("unexpected response: %+v", resp)
	}
}
