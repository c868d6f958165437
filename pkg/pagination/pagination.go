package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 6
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Page is one slice of a listing plus the numbers a client needs to navigate it.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_previous"`
}

// Parse reads ?page= from the request. Anything that is not a positive integer means page 1.
func Parse(r *http.Request, pageSize int) Params {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	return New(page, pageSize)
}

func New(page, pageSize int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Params{
		Page:   page,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
}

func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Clamp moves a page past the end back onto the last page.
func (p Params) Clamp(total int64) Params {
	last := TotalPages(total, p.Limit)
	if p.Page > last {
		return New(last, p.Limit)
	}
	return p
}

func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := TotalPages(total, p.Limit)
	return Page[T]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.Limit,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}
