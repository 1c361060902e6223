package facet

import "github.com/matst80/slask-catalog/pkg/types"

// Facet is one dimension as presented to a filter surface. Key and flag
// dimensions carry options, the price dimension carries a range.
type Facet struct {
	Dimension types.Dimension     `json:"dimension"`
	Label     string              `json:"label"`
	Options   []types.FacetOption `json:"options,omitempty"`
	Range     *PriceFacet         `json:"range,omitempty"`
}

type PriceFacet struct {
	Bounds   types.PriceRange `json:"bounds"`
	Extents  types.PriceRange `json:"extents"`
	Selected types.PriceRange `json:"selected"`
}

// SelectedCount is the number of selected options.
func (f *Facet) SelectedCount() int {
	count := 0
	for _, o := range f.Options {
		if o.Selected {
			count++
		}
	}
	return count
}
