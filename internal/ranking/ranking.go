// Package ranking holds the query logic shared by storage backends that
// cannot push it down to their engine: popularity ordering and friend-set
// intersection.
package ranking

import (
	"cmp"
	"slices"

	"github.com/oggyb/filmorate/internal/model"
)

// ComparePopularity orders films by distinct liker count descending, then by
// id ascending. It is a total order over films with distinct ids.
func ComparePopularity(a, b model.Film) int {
	if c := cmp.Compare(len(b.Likes), len(a.Likes)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// MostPopular returns the first n films of the popularity order. The input
// slice is not modified. n <= 0 yields an empty result.
func MostPopular(films []model.Film, n int) []model.Film {
	if n <= 0 {
		return []model.Film{}
	}
	sorted := slices.Clone(films)
	slices.SortFunc(sorted, ComparePopularity)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []model.Film{}
	}
	return sorted
}

// Intersect returns the ids present in both sets, ascending and deduplicated.
func Intersect(a, b []int64) []int64 {
	in := make(map[int64]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}
	out := []int64{}
	for _, id := range a {
		if _, ok := in[id]; ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
