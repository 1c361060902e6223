package facet

import (
	"math"

	"github.com/matst80/slask-catalog/pkg/query"
	"github.com/matst80/slask-catalog/pkg/types"
)

// Index answers facet count questions for one product set. It is built once
// per catalog and is read only afterwards, so it can be shared between
// views.
type Index struct {
	products []types.ProductRecord
	ref      *types.ReferenceData
	keys     map[types.Dimension]*KeyField
	flags    map[types.Dimension]types.ItemList
	// brand id to the categories it has products in
	brandCategories map[string]types.ValueSet
}

func NewIndex(products []types.ProductRecord, ref *types.ReferenceData) *Index {
	if ref == nil {
		ref = types.NewReferenceData(products, nil, nil)
	}
	idx := &Index{
		products:        products,
		ref:             ref,
		keys:            make(map[types.Dimension]*KeyField, len(types.KeyDimensions)),
		flags:           make(map[types.Dimension]types.ItemList, len(types.FlagDimensions)),
		brandCategories: map[string]types.ValueSet{},
	}
	for _, dim := range types.KeyDimensions {
		idx.keys[dim] = EmptyKeyField(dim)
	}
	for _, dim := range types.FlagDimensions {
		idx.flags[dim] = types.ItemList{}
	}
	for i := range products {
		p := &products[i]
		for dim, field := range idx.keys {
			field.AddValueLink(p.Values(dim), i)
		}
		for dim, ids := range idx.flags {
			if p.Flag(dim) {
				ids.AddId(i)
			}
		}
		if p.BrandId != "" && p.CategoryId != "" {
			cats := idx.brandCategories[p.BrandId]
			cats.Add(p.CategoryId)
			idx.brandCategories[p.BrandId] = cats
		}
	}
	return idx
}

func (idx *Index) Reference() *types.ReferenceData {
	return idx.ref
}

func (idx *Index) Len() int {
	return len(idx.products)
}

// base returns the positions of the products matching state while ignoring
// the constraint of dim.
func (idx *Index) base(dim types.Dimension, state *types.FilterState) types.ItemList {
	pr := query.NewPredicate(state)
	ret := make(types.ItemList, len(idx.products))
	for i := range idx.products {
		if pr.MatchExcept(&idx.products[i], dim) {
			ret.AddId(i)
		}
	}
	return ret
}

// options lists the reference values of a key dimension in presentation
// order.
func (idx *Index) options(dim types.Dimension, state *types.FilterState) []string {
	switch dim {
	case types.DimensionSize:
		return idx.ref.Sizes
	case types.DimensionColor:
		return idx.ref.Colors
	case types.DimensionBrand:
		ret := make([]string, 0, len(idx.ref.Brands))
		for _, b := range idx.ref.Brands {
			ret = append(ret, b.Id)
		}
		return ret
	case types.DimensionCategory:
		var allowed types.ValueSet
		dependent := state.Brands.Len() == 1
		if dependent {
			brand := state.Brands.Sorted()[0]
			allowed = idx.brandCategories[brand]
		}
		ret := make([]string, 0, len(idx.ref.Categories))
		for _, c := range idx.ref.Categories {
			if dependent && !allowed.Has(c.Id) {
				continue
			}
			ret = append(ret, c.Id)
		}
		return ret
	}
	return nil
}

// CountsFor returns the options of dim with the number of products each
// would show given every other active dimension. Options with no products
// are included. The price dimension has no options.
func (idx *Index) CountsFor(dim types.Dimension, state types.FilterState) []types.FacetOption {
	switch {
	case dim.IsKey():
		field := idx.keys[dim]
		base := idx.base(dim, &state)
		selected := *state.Selection(dim)
		values := idx.options(dim, &state)
		ret := make([]types.FacetOption, 0, len(values))
		for _, v := range values {
			ret = append(ret, types.FacetOption{
				Id:             v,
				Label:          idx.ref.Label(dim, v),
				AvailableCount: field.Count(v, base),
				Selected:       selected.Has(v),
			})
		}
		return ret
	case dim.IsFlag():
		base := idx.base(dim, &state)
		return []types.FacetOption{{
			Id:             "true",
			Label:          dim.Label(),
			AvailableCount: idx.flags[dim].IntersectionLen(base),
			Selected:       state.Flag(dim),
		}}
	}
	return nil
}

// PriceExtents is the effective price span of the products matching every
// dimension except price. It falls back to the global bounds when nothing
// matches.
func (idx *Index) PriceExtents(state types.FilterState) types.PriceRange {
	pr := query.NewPredicate(&state)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range idx.products {
		p := &idx.products[i]
		if !pr.MatchExcept(p, types.DimensionPrice) {
			continue
		}
		price := p.EffectivePrice()
		lo = min(lo, price)
		hi = max(hi, price)
	}
	if math.IsInf(lo, 1) {
		return idx.ref.PriceBounds()
	}
	return types.PriceRange{Min: math.Floor(lo), Max: math.Ceil(hi)}
}

// Summary returns every facet in presentation order.
func (idx *Index) Summary(state types.FilterState) []Facet {
	ret := make([]Facet, 0, len(types.AllDimensions))
	for _, dim := range types.AllDimensions {
		f := Facet{
			Dimension: dim,
			Label:     dim.Label(),
		}
		if dim == types.DimensionPrice {
			f.Range = &PriceFacet{
				Bounds:   idx.ref.PriceBounds(),
				Extents:  idx.PriceExtents(state),
				Selected: state.Price,
			}
		} else {
			f.Options = idx.CountsFor(dim, state)
		}
		ret = append(ret, f)
	}
	return ret
}

// CountsFor is a one-off convenience that builds a throwaway index.
func CountsFor(dim types.Dimension, products []types.ProductRecord, ref *types.ReferenceData, state types.FilterState) []types.FacetOption {
	return NewIndex(products, ref).CountsFor(dim, state)
}
