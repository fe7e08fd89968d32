package user

// PageRequest describes one batch request against the remote source.
// It is transient and never persisted.
type PageRequest struct {
	Page    int // 1-based page index
	PerPage int // page size, > 0
}

// NextPageIndex computes the page index that follows the last loaded user.
// With no user loaded yet it is page 1; otherwise lastID/pageSize + 1.
//
// This is a heuristic, not a real cursor: it assumes ids are dense and
// monotonically increasing in listing order, which holds for GitHub's user
// listing but would be wrong for a sparse or reordered id space.
func NextPageIndex(lastID int64, pageSize int) int {
	if lastID <= 0 || pageSize <= 0 {
		return 1
	}
	return int(lastID/int64(pageSize)) + 1
}
