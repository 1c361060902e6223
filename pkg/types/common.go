package types

import (
	"math"
	"slices"
)

type Brand struct {
	Id   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

type Category struct {
	Id       string `json:"id" validate:"required"`
	Name     string `json:"name"`
	ParentId string `json:"parentId,omitempty"`
}

// ReferenceData is what selected ids are resolved against. Sizes and colors
// are the values observed in the product set, in first seen order.
type ReferenceData struct {
	Brands     []Brand    `json:"brands"`
	Categories []Category `json:"categories"`
	Sizes      []string   `json:"sizes"`
	Colors     []string   `json:"colors"`
	Bounds     PriceRange `json:"bounds"`

	brands     map[string]int
	categories map[string]int
	sizes      ValueSet
	colors     ValueSet
}

// NewReferenceData indexes brands and categories and derives sizes, colors
// and the global price bounds from products.
func NewReferenceData(products []ProductRecord, brands []Brand, categories []Category) *ReferenceData {
	ref := &ReferenceData{
		Brands:     slices.Clone(brands),
		Categories: slices.Clone(categories),
		Sizes:      []string{},
		Colors:     []string{},
		brands:     make(map[string]int, len(brands)),
		categories: make(map[string]int, len(categories)),
		sizes:      ValueSet{},
		colors:     ValueSet{},
	}
	for i, b := range ref.Brands {
		ref.brands[b.Id] = i
	}
	for i, c := range ref.Categories {
		ref.categories[c.Id] = i
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range products {
		p := &products[i]
		for _, s := range p.Sizes {
			if s != "" && !ref.sizes.Has(s) {
				ref.sizes.Add(s)
				ref.Sizes = append(ref.Sizes, s)
			}
		}
		for _, c := range p.Colors {
			if c != "" && !ref.colors.Has(c) {
				ref.colors.Add(c)
				ref.Colors = append(ref.Colors, c)
			}
		}
		price := p.EffectivePrice()
		lo = min(lo, price)
		hi = max(hi, price)
	}
	if len(products) > 0 {
		ref.Bounds = PriceRange{Min: math.Floor(lo), Max: math.Ceil(hi)}
	}
	return ref
}

func (r *ReferenceData) HasBrand(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.brands[id]
	return ok
}

func (r *ReferenceData) HasCategory(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.categories[id]
	return ok
}

func (r *ReferenceData) HasSize(size string) bool {
	return r != nil && r.sizes.Has(size)
}

func (r *ReferenceData) HasColor(color string) bool {
	return r != nil && r.colors.Has(color)
}

// Has resolves a value of a key dimension.
func (r *ReferenceData) Has(dim Dimension, value string) bool {
	switch dim {
	case DimensionSize:
		return r.HasSize(value)
	case DimensionColor:
		return r.HasColor(value)
	case DimensionBrand:
		return r.HasBrand(value)
	case DimensionCategory:
		return r.HasCategory(value)
	}
	return false
}

func (r *ReferenceData) BrandName(id string) string {
	if r != nil {
		if i, ok := r.brands[id]; ok && r.Brands[i].Name != "" {
			return r.Brands[i].Name
		}
	}
	return id
}

func (r *ReferenceData) CategoryName(id string) string {
	if r != nil {
		if i, ok := r.categories[id]; ok && r.Categories[i].Name != "" {
			return r.Categories[i].Name
		}
	}
	return id
}

// Label is the display label of a value of a key dimension.
func (r *ReferenceData) Label(dim Dimension, value string) string {
	switch dim {
	case DimensionBrand:
		return r.BrandName(value)
	case DimensionCategory:
		return r.CategoryName(value)
	}
	return value
}

// PriceBounds is safe to call before reference data exists.
func (r *ReferenceData) PriceBounds() PriceRange {
	if r == nil {
		return PriceRange{}
	}
	return r.Bounds
}
