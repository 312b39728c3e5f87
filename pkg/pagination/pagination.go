package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// DefaultPage is the first page.
	DefaultPage = 1
	// MaxLimit caps how many rows any listing can request.
	MaxLimit = 100
)

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Limit int
	Page  int
}

// Normalize replaces out-of-range inputs with defaults.
func (p Params) Normalize() Params {
	return Params{Limit: NormalizeLimit(p.Limit), Page: NormalizePage(p.Page)}
}

// Skip is the number of records before the requested page. It saturates at
// math.MaxInt instead of overflowing for very large page numbers.
func (p Params) Skip() int {
	n := p.Normalize()
	if n.Page-1 > math.MaxInt/n.Limit {
		return math.MaxInt
	}
	return (n.Page - 1) * n.Limit
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage treats anything below 1 as the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// Window is the navigation metadata derived from the params and the total count.
type Window struct {
	Page        int
	Limit       int
	TotalDocs   int64
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    *int
	NextPage    *int
}

// Compute derives the window for the given params and total record count.
func Compute(params Params, total int64) Window {
	n := params.Normalize()
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(n.Limit) - 1) / int64(n.Limit))
	}

	w := Window{
		Page:        n.Page,
		Limit:       n.Limit,
		TotalDocs:   total,
		TotalPages:  totalPages,
		HasPrevPage: n.Page > 1,
		HasNextPage: n.Page < totalPages,
	}
	if w.HasPrevPage {
		prev := n.Page - 1
		w.PrevPage = &prev
	}
	if w.HasNextPage {
		next := n.Page + 1
		w.NextPage = &next
	}
	return w
}

// LinkBuilder renders navigation links for a listing endpoint.
type LinkBuilder struct {
	Path  string
	Extra url.Values
}

// Link returns the URL for the given page, or nil when page is nil. Values are URL-encoded.
func (b LinkBuilder) Link(limit int, page *int) *string {
	if page == nil {
		return nil
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(*page))
	for key, values := range b.Extra {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	link := b.Path + "?" + q.Encode()
	return &link
}
