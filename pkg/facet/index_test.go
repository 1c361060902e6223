package facet

import (
	"fmt"
	"testing"

	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() ([]types.ProductRecord, *types.ReferenceData) {
	products := make([]types.ProductRecord, 24)
	for i := range products {
		p := types.ProductRecord{
			Id:         fmt.Sprintf("p%02d", i),
			Title:      fmt.Sprintf("Product %02d", i),
			Price:      float64(10 + i),
			Sizes:      []string{"Large"},
			Colors:     []string{"Red"},
			BrandId:    "acme",
			CategoryId: "shirts",
			Stock:      1,
		}
		if i < 8 {
			p.Sizes = []string{"Medium"}
		}
		if i < 5 {
			p.Colors = []string{"Blue"}
		}
		if i >= 20 {
			p.BrandId = "zeta"
			p.CategoryId = "pants"
		}
		if i%6 == 0 {
			p.DiscountPrice = p.Price - 2
		}
		products[i] = p
	}
	brands := []types.Brand{{Id: "acme", Name: "Acme"}, {Id: "zeta", Name: "Zeta"}, {Id: "empty", Name: "Empty"}}
	categories := []types.Category{{Id: "shirts", Name: "Shirts"}, {Id: "pants", Name: "Pants"}, {Id: "hats", Name: "Hats"}}
	return products, types.NewReferenceData(products, brands, categories)
}

func option(t *testing.T, options []types.FacetOption, id string) types.FacetOption {
	t.Helper()
	for _, o := range options {
		if o.Id == id {
			return o
		}
	}
	require.Failf(t, "missing option", "no option %q", id)
	return types.FacetOption{}
}

func TestCountsIgnoreOwnDimension(t *testing.T) {
	products, ref := testCatalog()
	idx := NewIndex(products, ref)
	state := types.NewFilterState(ref.Bounds)
	state.Sizes.Add("Medium")

	sizes := idx.CountsFor(types.DimensionSize, state)
	assert.Equal(t, 8, option(t, sizes, "Medium").AvailableCount)
	assert.Equal(t, 16, option(t, sizes, "Large").AvailableCount)
	assert.True(t, option(t, sizes, "Medium").Selected)
	assert.False(t, option(t, sizes, "Large").Selected)

	colors := idx.CountsFor(types.DimensionColor, state)
	assert.Equal(t, 5, option(t, colors, "Blue").AvailableCount)
	assert.Equal(t, 3, option(t, colors, "Red").AvailableCount)
}

func TestCountsNeverExceedUnfiltered(t *testing.T) {
	products, ref := testCatalog()
	idx := NewIndex(products, ref)
	state := types.NewFilterState(ref.Bounds)
	state.Colors.Add("Blue")
	state.OnSale = true
	for _, f := range idx.Summary(state) {
		for _, o := range f.Options {
			assert.GreaterOrEqual(t, o.AvailableCount, 0)
			assert.LessOrEqual(t, o.AvailableCount, len(products))
		}
	}
}

func TestZeroCountOptionsAreListed(t *testing.T) {
	products, ref := testCatalog()
	state := types.NewFilterState(ref.Bounds)

	brands := CountsFor(types.DimensionBrand, products, ref, state)
	require.Len(t, brands, 3)
	assert.Equal(t, "Empty", brands[2].Label)
	assert.Equal(t, 0, brands[2].AvailableCount)
	assert.Equal(t, 20, brands[0].AvailableCount)
}

func TestDependentCategories(t *testing.T) {
	products, ref := testCatalog()
	idx := NewIndex(products, ref)
	state := types.NewFilterState(ref.Bounds)

	all := idx.CountsFor(types.DimensionCategory, state)
	assert.Len(t, all, 3)

	state.Brands.Add("zeta")
	only := idx.CountsFor(types.DimensionCategory, state)
	require.Len(t, only, 1)
	assert.Equal(t, "pants", only[0].Id)
	assert.Equal(t, 4, only[0].AvailableCount)

	state.Brands = types.NewValueSet("empty")
	assert.Empty(t, idx.CountsFor(types.DimensionCategory, state))

	state.Brands = types.NewValueSet("acme", "zeta")
	assert.Len(t, idx.CountsFor(types.DimensionCategory, state), 3)
}

func TestFlagFacet(t *testing.T) {
	products, ref := testCatalog()
	idx := NewIndex(products, ref)
	state := types.NewFilterState(ref.Bounds)
	state.OnSale = true

	sale := idx.CountsFor(types.DimensionSale, state)
	require.Len(t, sale, 1)
	assert.Equal(t, "true", sale[0].Id)
	assert.Equal(t, 4, sale[0].AvailableCount)
	assert.True(t, sale[0].Selected)

	assert.Nil(t, idx.CountsFor(types.DimensionPrice, state))
}

func TestPriceExtents(t *testing.T) {
	products, ref := testCatalog()
	idx := NewIndex(products, ref)
	state := types.NewFilterState(ref.Bounds)
	state.Colors.Add("Blue")
	state.Price = types.PriceRange{Min: 12, Max: 13}

	// ignores its own range, p00 is discounted to 8
	assert.Equal(t, types.PriceRange{Min: 8, Max: 14}, idx.PriceExtents(state))

	state.Colors = types.NewValueSet("Green")
	assert.Equal(t, ref.Bounds, idx.PriceExtents(state))
}

func TestSummaryOrderAndPurity(t *testing.T) {
	products, ref := testCatalog()
	idx := NewIndex(products, ref)
	state := types.NewFilterState(ref.Bounds)
	state.Sizes.Add("Medium")
	before := state.Clone()

	summary := idx.Summary(state)
	require.Len(t, summary, len(types.AllDimensions))
	for i, f := range summary {
		assert.Equal(t, types.AllDimensions[i], f.Dimension)
	}
	price := summary[4]
	require.NotNil(t, price.Range)
	assert.Equal(t, ref.Bounds, price.Range.Bounds)
	assert.Equal(t, 1, summary[2].SelectedCount())
	assert.True(t, before.Equal(&state))
}

func TestKeyField(t *testing.T) {
	f := EmptyKeyField(types.DimensionSize)
	f.AddValueLink([]string{"M", "", "L"}, 1)
	f.AddValueLink([]string{"M"}, 2)
	assert.Len(t, f.Keys, 2)
	assert.Len(t, f.Keys["M"], 2)
	assert.Equal(t, 1, f.Count("M", types.ItemList{2: {}, 7: {}}))
	assert.Equal(t, 0, f.Count("XL", types.ItemList{2: {}}))
}
