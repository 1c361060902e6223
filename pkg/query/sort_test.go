package query

import (
	"testing"

	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestSortNameIsOrdinal(t *testing.T) {
	items := []types.ProductRecord{
		{Id: "1", Title: "banana"},
		{Id: "2", Title: "Cherry"},
		{Id: "3", Title: "Apple"},
	}
	sorted := Sort(items, types.SortNameAsc, "")
	assert.Equal(t, []string{"3", "2", "1"}, ids(sorted))
	assert.Equal(t, "1", items[0].Id, "input keeps its order")
}

func TestSortPriceUsesEffectivePrice(t *testing.T) {
	items := []types.ProductRecord{
		{Id: "a", Title: "A", Price: 30},
		{Id: "b", Title: "B", Price: 50, DiscountPrice: 20},
		{Id: "c", Title: "C", Price: 25},
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Sort(items, types.SortPriceAsc, "")))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Sort(items, types.SortPriceDesc, "")))
}

func TestSortTiesBreakByNameThenInputOrder(t *testing.T) {
	items := []types.ProductRecord{
		{Id: "1", Title: "Same", Price: 10},
		{Id: "2", Title: "Other", Price: 10},
		{Id: "3", Title: "Same", Price: 10},
		{Id: "4", Title: "Cheap", Price: 5},
	}
	sorted := Sort(items, types.SortPriceAsc, "")
	assert.Equal(t, []string{"4", "2", "1", "3"}, ids(sorted))

	again := Sort(sorted, types.SortPriceAsc, "")
	assert.Equal(t, ids(sorted), ids(again))
}

func TestSortNewest(t *testing.T) {
	items := makeProducts(4, nil)
	assert.Equal(t, []string{"p03", "p02", "p01", "p00"}, ids(Sort(items, types.SortNewest, "")))
}

func TestSortRelevance(t *testing.T) {
	items := []types.ProductRecord{
		{Id: "other", Title: "Summer top", Description: "a linen shirt cut"},
		{Id: "tokens", Title: "Shirt in linen"},
		{Id: "contains", Title: "Classic linen shirt"},
		{Id: "exact", Title: "Linen Shirt"},
		{Id: "prefix", Title: "Linen shirt, white"},
	}
	sorted := Sort(items, types.SortRelevance, "linen shirt")
	assert.Equal(t, []string{"exact", "prefix", "contains", "tokens", "other"}, ids(sorted))
}

func TestSortRelevanceWithoutQueryFallsBackToName(t *testing.T) {
	items := []types.ProductRecord{
		{Id: "z", Title: "Zebra"},
		{Id: "a", Title: "Alpaca"},
	}
	assert.Equal(t, []string{"a", "z"}, ids(Sort(items, types.SortRelevance, "")))
}

func TestSortUnknownSpecUsesDefault(t *testing.T) {
	items := []types.ProductRecord{
		{Id: "z", Title: "Zebra", Price: 1},
		{Id: "a", Title: "Alpaca", Price: 2},
	}
	assert.Equal(t, []string{"a", "z"}, ids(Sort(items, types.SortSpec("bogus"), "")))
}
