// Package pagination implements the overfetch protocol shared by every list
// endpoint: fetch one item more than the page size and derive the "last
// page" flag from whether the window came back full, instead of keeping a
// cursor or issuing a count query.
package pagination

const (
	BlogsPerPage         = 10
	CommentsPerPage      = 10
	SubscriptionsPerPage = 9
)

// Window is the fetch range for one page. Limit is always PerPage+1; the
// extra item only signals that another page exists and is trimmed before the
// response is built.
type Window struct {
	Offset int
	Limit  int
}

// WindowFor computes the fetch window for a 0-based page. Negative pages are
// treated as page 0.
func WindowFor(page, perPage int) Window {
	if page < 0 {
		page = 0
	}
	return Window{Offset: page * perPage, Limit: perPage + 1}
}

// Trim drops the overfetched item, if present, and reports whether this is
// the last page.
func Trim[T any](items []T, perPage int) ([]T, bool) {
	if len(items) > perPage {
		return items[:perPage], false
	}
	return items, true
}
