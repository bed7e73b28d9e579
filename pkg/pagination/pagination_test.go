package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Limit: 0, Offset: 0}},
		{"limit and offset", "limit=25&offset=50", Params{Limit: 25, Offset: 50}},
		{"limit capped", "limit=9999", Params{Limit: MaxLimit, Offset: 0}},
		{"negative values ignored", "limit=-5&offset=-10", Params{Limit: 0, Offset: 0}},
		{"malformed ignored", "limit=abc&offset=xyz", Params{Limit: 0, Offset: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := paramsFor(t, tc.query); got != tc.want {
				t.Errorf("FromContext(%q) = %+v, want %+v", tc.query, got, tc.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	cases := []struct {
		name      string
		params    Params
		total     int
		wantStart int
		wantEnd   int
	}{
		{"unpaginated", Params{}, 10, 0, 10},
		{"first page", Params{Limit: 3}, 10, 0, 3},
		{"middle page", Params{Limit: 3, Offset: 3}, 10, 3, 6},
		{"last partial page", Params{Limit: 3, Offset: 9}, 10, 9, 10},
		{"offset past end", Params{Limit: 3, Offset: 50}, 10, 10, 10},
		{"offset only", Params{Offset: 4}, 10, 4, 10},
		{"empty list", Params{Limit: 3}, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := tc.params.Bounds(tc.total)
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("Bounds(%d) = %d, %d; want %d, %d", tc.total, start, end, tc.wantStart, tc.wantEnd)
			}
		})
	}
}
