package rank

import (
	"cmp"
	"slices"

	"github.com/farcloser/mailtop/internal/types"
)

// TopN returns at most n entries ordered by metric, highest first. Entries with equal metrics keep
// their input order. The input is not modified.
func TopN(entries []types.Entry, n int) []types.Entry {
	if n < 1 {
		return []types.Entry{}
	}

	sorted := make([]types.Entry, len(entries))
	copy(sorted, entries)

	slices.SortStableFunc(sorted, func(a, b types.Entry) int {
		return cmp.Compare(b.Metric, a.Metric)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}
