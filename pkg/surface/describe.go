package surface

import (
	"fmt"

	"github.com/matst80/slask-catalog/pkg/announce"
	"github.com/matst80/slask-catalog/pkg/types"
)

func productsFound(total int) string {
	switch total {
	case 0:
		return "No products found."
	case 1:
		return "1 product found."
	}
	return fmt.Sprintf("%d products found.", total)
}

// filterParts lists a sentence per changed facet dimension.
func filterParts(prev, next *types.FilterState, ref *types.ReferenceData) []string {
	parts := []string{}
	for _, dim := range types.AllDimensions {
		switch {
		case dim.IsKey():
			before, after := *prev.Selection(dim), *next.Selection(dim)
			for _, v := range after.Sorted() {
				if !before.Has(v) {
					parts = append(parts, fmt.Sprintf("%s %s selected.", dim.Label(), ref.Label(dim, v)))
				}
			}
			for _, v := range before.Sorted() {
				if !after.Has(v) {
					parts = append(parts, fmt.Sprintf("%s %s removed.", dim.Label(), ref.Label(dim, v)))
				}
			}
		case dim.IsFlag():
			if prev.Flag(dim) != next.Flag(dim) {
				state := "off"
				if next.Flag(dim) {
					state = "on"
				}
				parts = append(parts, fmt.Sprintf("%s filter %s.", dim.Label(), state))
			}
		case dim == types.DimensionPrice:
			if prev.Price != next.Price {
				parts = append(parts, fmt.Sprintf("Price %s to %s.", types.FormatPrice(next.Price.Min), types.FormatPrice(next.Price.Max)))
			}
		}
	}
	if prev.Query != next.Query {
		if next.Query == "" {
			parts = append(parts, "Search cleared.")
		} else {
			parts = append(parts, fmt.Sprintf("Showing results for %q.", next.Query))
		}
	}
	return parts
}

// Describe turns a committed transition into the text read to screen reader
// users. Clearing every filter is assertive, everything else polite. An
// empty text means there is nothing worth saying.
func Describe(prev, next types.FilterState, ref *types.ReferenceData, result types.PageResult) (string, announce.Priority) {
	bounds := ref.PriceBounds()
	if prev.ActiveFilterCount(bounds) > 0 && next.ActiveFilterCount(bounds) == 0 {
		return "All filters cleared. " + productsFound(result.TotalCount), announce.Assertive
	}
	parts := filterParts(&prev, &next, ref)
	if prev.Sort != next.Sort {
		parts = append(parts, fmt.Sprintf("Sorted by %s.", next.Sort.Label()))
	}
	switch {
	case len(parts) == 1:
		return parts[0] + " " + productsFound(result.TotalCount), announce.Polite
	case len(parts) > 1:
		return "Filters updated. " + productsFound(result.TotalCount), announce.Polite
	case prev.Page != next.Page:
		return fmt.Sprintf("Page %d of %d.", result.Page, result.TotalPages), announce.Polite
	}
	return "", announce.Polite
}
