package pagination

const (
	// DefaultPageSize is used when the client omits pageSize.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
)

// Params holds offset pagination inputs after validation.
type Params struct {
	Page     int
	PageSize int
}

// Normalize fills defaults for zero values. Out-of-range values are left for
// the caller's validator to reject.
func Normalize(page, pageSize int) Params {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Valid reports whether the params are within the accepted bounds.
func (p Params) Valid() bool {
	return p.Page >= 1 && p.PageSize >= 1 && p.PageSize <= MaxPageSize
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages rounds total up to whole pages.
func (p Params) TotalPages(total int64) int {
	if p.PageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
