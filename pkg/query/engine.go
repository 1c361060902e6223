// Package query derives the visible product page from a product set and a
// FilterState. Everything here is pure: no I/O, no shared state and the
// input slice is never modified.
package query

import (
	"slices"

	"github.com/matst80/slask-catalog/pkg/types"
)

const DefaultPageSize = 12

// Filter returns the products matching every active constraint, in input
// order.
func Filter(products []types.ProductRecord, state *types.FilterState) []types.ProductRecord {
	pr := NewPredicate(state)
	ret := make([]types.ProductRecord, 0, len(products))
	for i := range products {
		if pr.Match(&products[i]) {
			ret = append(ret, products[i])
		}
	}
	return ret
}

// Count is the number of products matching every active constraint.
func Count(products []types.ProductRecord, state *types.FilterState) int {
	pr := NewPredicate(state)
	count := 0
	for i := range products {
		if pr.Match(&products[i]) {
			count++
		}
	}
	return count
}

// TotalPages is ceil(total/pageSize) with a floor of 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return max(1, (total+pageSize-1)/pageSize)
}

// Paginate slices one page out of sorted. Out of range pages clamp to the
// nearest valid page.
func Paginate(sorted []types.ProductRecord, page, pageSize int) types.PageResult {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(sorted)
	pages := TotalPages(total, pageSize)
	page = min(max(page, 1), pages)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	items := slices.Clone(sorted[start:end])
	if items == nil {
		items = []types.ProductRecord{}
	}
	return types.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: pages,
		Page:       page,
		PageSize:   pageSize,
	}
}

// Apply filters, sorts and paginates.
func Apply(products []types.ProductRecord, state types.FilterState, pageSize int) types.PageResult {
	filtered := Filter(products, &state)
	sorted := Sort(filtered, state.Sort, state.Query)
	return Paginate(sorted, state.Page, pageSize)
}
