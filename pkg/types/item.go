package types

import (
	"slices"
	"time"
)

// ProductRecord is a product as delivered by the fetch boundary. The engine
// only ever reads it.
type ProductRecord struct {
	Id            string    `json:"id" validate:"required"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price" validate:"gte=0"`
	DiscountPrice float64   `json:"discountPrice,omitempty" validate:"gte=0"`
	BrandId       string    `json:"brandId,omitempty"`
	CategoryId    string    `json:"categoryId,omitempty"`
	Sizes         []string  `json:"sizes,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	IsNew         bool      `json:"isNew,omitempty"`
	IsFeatured    bool      `json:"isFeatured,omitempty"`
	Stock         int       `json:"stock" validate:"gte=0"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsOnSale reports whether the discount price is a real discount.
func (p *ProductRecord) IsOnSale() bool {
	return p.DiscountPrice > 0 && p.DiscountPrice < p.Price
}

// EffectivePrice is the price the customer pays.
func (p *ProductRecord) EffectivePrice() float64 {
	if p.IsOnSale() {
		return p.DiscountPrice
	}
	return p.Price
}

func (p *ProductRecord) InStock() bool {
	return p.Stock > 0
}

func (p *ProductRecord) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

func (p *ProductRecord) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// Values returns the facet values the product carries for a key dimension.
func (p *ProductRecord) Values(dim Dimension) []string {
	switch dim {
	case DimensionSize:
		return p.Sizes
	case DimensionColor:
		return p.Colors
	case DimensionBrand:
		if p.BrandId == "" {
			return nil
		}
		return []string{p.BrandId}
	case DimensionCategory:
		if p.CategoryId == "" {
			return nil
		}
		return []string{p.CategoryId}
	}
	return nil
}

// Flag returns the product value for a boolean dimension.
func (p *ProductRecord) Flag(dim Dimension) bool {
	switch dim {
	case DimensionSale:
		return p.IsOnSale()
	case DimensionFeatured:
		return p.IsFeatured
	case DimensionNew:
		return p.IsNew
	case DimensionInStock:
		return p.InStock()
	}
	return false
}
