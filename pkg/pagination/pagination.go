package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	// DefaultRecent is the row count for "recent" and "upcoming" listings.
	DefaultRecent = 10
	MaxLimit      = 1000
)

// Params holds optional paging parameters. A zero Limit means every row.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads ?limit= and ?offset= from the request. Missing or
// malformed values leave the listing unbounded.
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

// Limit reads ?limit= for bounded listings, falling back to def when the
// value is missing, malformed or not positive.
func Limit(c echo.Context, def int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
