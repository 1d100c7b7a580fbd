package util

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page converts a 1-based page number into an offset and limit.
// A missing size means DefaultPageSize; larger sizes are capped at MaxPageSize.
func Page(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return (page - 1) * size, size
}
