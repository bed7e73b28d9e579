package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// MaxLimit caps a single page. Requests without a limit get the whole
// list; the review UI loads the full note set by default.
const MaxLimit = 500

// Params holds pagination parameters extracted from a request. A zero
// Limit means unpaginated.
type Params struct {
	Limit  int
	Offset int
}

// FromContext extracts limit/offset query parameters from the echo
// context. Absent or malformed values fall back to unpaginated.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Bounds clamps the page window to [0, total) and returns slice indexes.
// With a zero limit the window is offset to the end of the list.
func (p Params) Bounds(total int) (start, end int) {
	start = p.Offset
	if start > total {
		start = total
	}
	if p.Limit == 0 {
		return start, total
	}
	end = start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}
