package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matst80/slask-catalog/pkg/search"
	"github.com/matst80/slask-catalog/pkg/types"
)

type compareFunc func(a, b *types.ProductRecord) int

func byName(a, b *types.ProductRecord) int {
	return strings.Compare(a.Title, b.Title)
}

func thenByName(primary compareFunc) compareFunc {
	return func(a, b *types.ProductRecord) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return byName(a, b)
	}
}

func comparator(spec types.SortSpec, query string) compareFunc {
	switch spec.Effective(query) {
	case types.SortPriceAsc:
		return thenByName(func(a, b *types.ProductRecord) int {
			return cmp.Compare(a.EffectivePrice(), b.EffectivePrice())
		})
	case types.SortPriceDesc:
		return thenByName(func(a, b *types.ProductRecord) int {
			return cmp.Compare(b.EffectivePrice(), a.EffectivePrice())
		})
	case types.SortNewest:
		return thenByName(func(a, b *types.ProductRecord) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case types.SortRelevance:
		m := search.NewMatcher(query)
		return thenByName(func(a, b *types.ProductRecord) int {
			return cmp.Compare(m.Rank(a.Title), m.Rank(b.Title))
		})
	}
	return byName
}

// Sort returns a stably sorted copy of items. Equal keys keep their input
// order.
func Sort(items []types.ProductRecord, spec types.SortSpec, query string) []types.ProductRecord {
	sorted := slices.Clone(items)
	compare := comparator(spec, query)
	slices.SortStableFunc(sorted, func(a, b types.ProductRecord) int {
		return compare(&a, &b)
	})
	return sorted
}
