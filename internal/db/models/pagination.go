package models

const (
	// DefaultPerPage is used when PerPage is not specified.
	DefaultPerPage = 20
	// MaxPerPage is the upper bound for PerPage.
	MaxPerPage = 100
)

// Pagination selects a zero-indexed page of results: Page 0 is the first
// page. Out-of-range values are clamped rather than rejected.
type Pagination struct {
	Page    int
	PerPage int
}

// OffsetLimit maps the page selection to a SQL offset and limit.
func (p Pagination) OffsetLimit() (offset, limit int) {
	p = p.normalized()
	return p.Page * p.PerPage, p.PerPage
}

func (p Pagination) normalized() Pagination {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// PageInfo describes the position of a returned page within the full
// result set.
type PageInfo struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
	HasMore bool  `json:"hasMore"`
}

// NewPageInfo computes the page info for a query that matched total rows.
// HasMore is true when offset+perPage is still short of the total.
func NewPageInfo(p Pagination, total int64) PageInfo {
	p = p.normalized()
	offset, limit := p.OffsetLimit()
	return PageInfo{
		Total:   total,
		Page:    p.Page,
		PerPage: limit,
		HasMore: int64(offset+limit) < total,
	}
}

// ListWrapper pairs a page of entities with its pagination info.
type ListWrapper[T any] struct {
	Items    []T      `json:"items"`
	PageInfo PageInfo `json:"pagination"`
}
