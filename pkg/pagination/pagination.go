package pagination

import "math"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// ClampLimit bounds limit to [1, MaxLimit], using fallback when limit is unset.
func ClampLimit(limit, fallback int) int {
	if limit == 0 {
		limit = fallback
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage floors page numbers to 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// MaxOffset bounds Offset so page*limit never overflows.
const MaxOffset = math.MaxInt32

// Offset returns the zero-based row offset for a 1-based page, capped at MaxOffset.
func (p Params) Offset() int {
	limit := ClampLimit(p.Limit, DefaultLimit)
	pages := NormalizePage(p.Page) - 1
	if pages > MaxOffset/limit {
		return MaxOffset
	}
	return pages * limit
}

// TotalPages returns ceil(total/limit), zero when there are no rows.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
