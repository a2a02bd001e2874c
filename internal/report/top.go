package report

// TopN returns the first n items. A non-positive n keeps everything.
func TopN[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
