package types

// FilterState is every active selection of a catalog view. It is only ever
// created through NewFilterState and kept valid by Sanitize.
type FilterState struct {
	Sizes        ValueSet   `json:"sizes"`
	Colors       ValueSet   `json:"colors"`
	Brands       ValueSet   `json:"brands"`
	Categories   ValueSet   `json:"categories"`
	Price        PriceRange `json:"price"`
	OnSale       bool       `json:"onSale"`
	FeaturedOnly bool       `json:"featuredOnly"`
	NewOnly      bool       `json:"newOnly"`
	InStockOnly  bool       `json:"inStockOnly"`
	Query        string     `json:"query,omitempty"`
	Sort         SortSpec   `json:"sort"`
	Page         int        `json:"page"`
}

// NewFilterState returns the default state for a catalog with the given
// global price bounds.
func NewFilterState(bounds PriceRange) FilterState {
	return FilterState{
		Sizes:      ValueSet{},
		Colors:     ValueSet{},
		Brands:     ValueSet{},
		Categories: ValueSet{},
		Price:      bounds,
		Sort:       DefaultSort,
		Page:       1,
	}
}

// Selection returns the value set of a key dimension, nil for other
// dimensions.
func (f *FilterState) Selection(dim Dimension) *ValueSet {
	switch dim {
	case DimensionSize:
		return &f.Sizes
	case DimensionColor:
		return &f.Colors
	case DimensionBrand:
		return &f.Brands
	case DimensionCategory:
		return &f.Categories
	}
	return nil
}

func (f *FilterState) Flag(dim Dimension) bool {
	switch dim {
	case DimensionSale:
		return f.OnSale
	case DimensionFeatured:
		return f.FeaturedOnly
	case DimensionNew:
		return f.NewOnly
	case DimensionInStock:
		return f.InStockOnly
	}
	return false
}

func (f *FilterState) SetFlag(dim Dimension, on bool) {
	switch dim {
	case DimensionSale:
		f.OnSale = on
	case DimensionFeatured:
		f.FeaturedOnly = on
	case DimensionNew:
		f.NewOnly = on
	case DimensionInStock:
		f.InStockOnly = on
	}
}

func (f FilterState) Clone() FilterState {
	ret := f
	ret.Sizes = f.Sizes.Clone()
	ret.Colors = f.Colors.Clone()
	ret.Brands = f.Brands.Clone()
	ret.Categories = f.Categories.Clone()
	return ret
}

func (f *FilterState) Equal(o *FilterState) bool {
	return f.Sizes.Equal(o.Sizes) &&
		f.Colors.Equal(o.Colors) &&
		f.Brands.Equal(o.Brands) &&
		f.Categories.Equal(o.Categories) &&
		f.Price == o.Price &&
		f.OnSale == o.OnSale &&
		f.FeaturedOnly == o.FeaturedOnly &&
		f.NewOnly == o.NewOnly &&
		f.InStockOnly == o.InStockOnly &&
		f.Query == o.Query &&
		f.Sort == o.Sort &&
		f.Page == o.Page
}

// Reset puts one dimension back to its default.
func (f *FilterState) Reset(dim Dimension, bounds PriceRange) {
	if sel := f.Selection(dim); sel != nil {
		*sel = ValueSet{}
		return
	}
	if dim == DimensionPrice {
		f.Price = bounds
		return
	}
	f.SetFlag(dim, false)
}

// WithOut returns a copy without the constraint of one dimension.
func (f FilterState) WithOut(dim Dimension, bounds PriceRange) FilterState {
	ret := f.Clone()
	ret.Reset(dim, bounds)
	return ret
}

// ClearFilters resets every facet dimension and the page. Sort and the
// search term are kept.
func (f *FilterState) ClearFilters(bounds PriceRange) {
	for _, dim := range AllDimensions {
		f.Reset(dim, bounds)
	}
	f.Page = 1
}

// ActiveFilterCount counts selected values, active flags and a narrowed
// price range.
func (f *FilterState) ActiveFilterCount(bounds PriceRange) int {
	count := f.Sizes.Len() + f.Colors.Len() + f.Brands.Len() + f.Categories.Len()
	for _, dim := range FlagDimensions {
		if f.Flag(dim) {
			count++
		}
	}
	if !f.Price.IsFull(bounds) {
		count++
	}
	return count
}

func (f *FilterState) IsDefault(bounds PriceRange) bool {
	return f.ActiveFilterCount(bounds) == 0 && f.Sort == DefaultSort && f.Page <= 1 && f.Query == ""
}

// Sanitize enforces the state invariants against the reference data: ids
// that do not resolve are dropped, the price range is clamped into the
// global bounds, the page is at least 1 and the sort is a known one. It
// returns the number of dropped ids.
func (f *FilterState) Sanitize(ref *ReferenceData) int {
	dropped := 0
	if ref != nil {
		for _, dim := range KeyDimensions {
			sel := f.Selection(dim)
			if *sel == nil {
				*sel = ValueSet{}
				continue
			}
			dropped += sel.Retain(func(v string) bool {
				return ref.Has(dim, v)
			})
		}
	}
	f.Price = f.Price.Clamp(ref.PriceBounds())
	if f.Page < 1 {
		f.Page = 1
	}
	if !f.Sort.IsValid() {
		f.Sort = DefaultSort
	}
	return dropped
}
