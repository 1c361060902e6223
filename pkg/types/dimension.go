package types

// Dimension is one independent filter dimension.
type Dimension string

const (
	DimensionSize     Dimension = "size"
	DimensionColor    Dimension = "color"
	DimensionBrand    Dimension = "brand"
	DimensionCategory Dimension = "category"
	DimensionPrice    Dimension = "price"
	DimensionSale     Dimension = "sale"
	DimensionFeatured Dimension = "featured"
	DimensionNew      Dimension = "new"
	DimensionInStock  Dimension = "in_stock"
)

// KeyDimensions hold a set of selected values.
var KeyDimensions = []Dimension{DimensionSize, DimensionColor, DimensionBrand, DimensionCategory}

// FlagDimensions are boolean toggles.
var FlagDimensions = []Dimension{DimensionSale, DimensionFeatured, DimensionNew, DimensionInStock}

// AllDimensions in the order facets are presented.
var AllDimensions = []Dimension{
	DimensionCategory,
	DimensionBrand,
	DimensionSize,
	DimensionColor,
	DimensionPrice,
	DimensionSale,
	DimensionFeatured,
	DimensionNew,
	DimensionInStock,
}

var dimensionLabels = map[Dimension]string{
	DimensionSize:     "Size",
	DimensionColor:    "Color",
	DimensionBrand:    "Brand",
	DimensionCategory: "Category",
	DimensionPrice:    "Price",
	DimensionSale:     "On sale",
	DimensionFeatured: "Featured",
	DimensionNew:      "New arrivals",
	DimensionInStock:  "In stock",
}

func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(s)
	_, ok := dimensionLabels[d]
	return d, ok
}

func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

func (d Dimension) IsKey() bool {
	return d == DimensionSize || d == DimensionColor || d == DimensionBrand || d == DimensionCategory
}

func (d Dimension) IsFlag() bool {
	return d == DimensionSale || d == DimensionFeatured || d == DimensionNew || d == DimensionInStock
}
