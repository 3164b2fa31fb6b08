package store

// Page size limits.
const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// PageParams selects a 1-based page of results.
type PageParams struct {
	Page  int
	Limit int
}

// Normalize clamps the parameters into range.
func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// Offset returns the number of rows to skip.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginatedResult contains one page of data and its position in the whole.
type PaginatedResult[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// NewPage assembles a result for items fetched with params out of total.
func NewPage[T any](items []T, total int, params PageParams) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:   items,
		Total:   total,
		Page:    params.Page,
		Limit:   params.Limit,
		HasMore: params.Offset()+len(items) < total,
	}
}

// EmptyPage returns a page with no items.
func EmptyPage[T any](params PageParams) *PaginatedResult[T] {
	params.Normalize()
	return NewPage[T](nil, 0, params)
}
