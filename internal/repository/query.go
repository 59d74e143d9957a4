package repository

import (
	"cmp"
	"math"
	"slices"
)

// Query is a single filter, sort and page request.
// A nil Predicate matches everything; a nil OrderDescending keeps the
// filtered records in their original order.
type Query[T any] struct {
	Predicate       Predicate[T]
	OrderDescending SortKey[T]
	Page            int
	PageSize        int
}

// Skip returns how many matches precede the requested page: Page*PageSize,
// clamped to [0, math.MaxInt].
func (q Query[T]) Skip() int {
	if q.Page <= 0 || q.PageSize <= 0 {
		return 0
	}
	if q.Page > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return q.Page * q.PageSize
}

// Apply runs the pipeline over items: filter, stable sort by descending key,
// skip Skip() matches, take up to PageSize. The result never aliases items.
// A PageSize of zero or less yields an empty result.
func (q Query[T]) Apply(items []T) []T {
	if q.PageSize <= 0 {
		return []T{}
	}

	matched := q.filter(items)
	if q.OrderDescending != nil {
		matched = sortDescending(matched, q.OrderDescending)
	}

	skip := q.Skip()
	if skip >= len(matched) {
		return []T{}
	}
	end := len(matched)
	if q.PageSize < end-skip {
		end = skip + q.PageSize
	}
	return slices.Clip(matched[skip:end])
}

// Count returns the number of items matching the predicate.
func (q Query[T]) Count(items []T) int {
	if q.Predicate == nil {
		return len(items)
	}
	n := 0
	for _, item := range items {
		if q.Predicate(item) {
			n++
		}
	}
	return n
}

func (q Query[T]) filter(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q.Predicate == nil || q.Predicate(item) {
			out = append(out, item)
		}
	}
	return out
}

type keyed[T any] struct {
	key  int
	item T
}

// sortDescending evaluates key once per record, then stable-sorts so equal
// keys keep their relative order.
func sortDescending[T any](items []T, key SortKey[T]) []T {
	ranked := make([]keyed[T], len(items))
	for i, item := range items {
		ranked[i] = keyed[T]{key: key(item), item: item}
	}
	slices.SortStableFunc(ranked, func(a, b keyed[T]) int {
		return cmp.Compare(b.key, a.key)
	})
	for i := range ranked {
		items[i] = ranked[i].item
	}
	return items
}
