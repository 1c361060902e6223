package surface

import (
	"errors"
	"testing"
	"time"

	"github.com/matst80/slask-catalog/pkg/announce"
	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountShowsEverything(t *testing.T) {
	h := newHarness(t)
	res := h.c.Result()
	assert.Equal(t, 24, res.TotalCount)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, types.PriceRange{Min: 10, Max: 33}, h.c.State().Price)
	assert.Len(t, h.c.Facets(), len(types.AllDimensions))
	assert.Equal(t, "", h.c.Query())
	assert.Equal(t, 0, h.url.Writes())
}

func TestSidebarSizeColorClearScenario(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()

	require.NoError(t, sb.Toggle(types.DimensionSize, "Medium"))
	assert.Equal(t, 8, h.c.Result().TotalCount)
	assert.Equal(t, "sizes=Medium", h.url.Query())
	msg, ok := h.spoken()
	require.True(t, ok)
	assert.Equal(t, "Size Medium selected. 8 products found.", msg.Text)
	assert.Equal(t, announce.Polite, msg.Priority)

	require.NoError(t, sb.Toggle(types.DimensionColor, "Blue"))
	assert.Equal(t, 5, h.c.Result().TotalCount)
	assert.Equal(t, "sizes=Medium&colors=Blue", h.url.Query())

	require.NoError(t, sb.Clear())
	assert.Equal(t, 24, h.c.Result().TotalCount)
	assert.Equal(t, "", h.url.Query())
	msg, _ = h.spoken()
	assert.Equal(t, "All filters cleared. 24 products found.", msg.Text)
	assert.Equal(t, announce.Assertive, msg.Priority)

	assert.Len(t, h.filters, 3)
	assert.Equal(t, 1, h.clears)
}

func TestSidebarPriceIsDebounced(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()

	for _, hi := range []float64{30, 25, 20} {
		require.NoError(t, sb.SetPrice(types.PriceRange{Min: 10, Max: hi}))
		h.clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 33.0, h.c.State().Price.Max)
	assert.True(t, sb.Snapshot().PricePending)

	h.clock.Advance(debounce.DefaultWindow)
	assert.Equal(t, 20.0, h.c.State().Price.Max)
	assert.Equal(t, 11, h.c.Result().TotalCount)
	assert.Equal(t, "price_max=20", h.url.Query())
	assert.Len(t, h.filters, 1)
}

func TestSidebarPartialPriceEditsMerge(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()
	lo, hi := 15.0, 20.0

	require.NoError(t, HandleIntent(sb, Intent{Action: "price", Min: &lo}))
	h.clock.Advance(100 * time.Millisecond)
	require.NoError(t, HandleIntent(sb, Intent{Action: "price", Max: &hi}))
	assert.Equal(t, types.PriceRange{Min: 15, Max: 20}, sb.EditingPrice())
	h.clock.Advance(debounce.DefaultWindow)

	assert.Equal(t, types.PriceRange{Min: 15, Max: 20}, h.c.State().Price)
	assert.Equal(t, "price_min=15&price_max=20", h.c.Query())
	assert.Len(t, h.filters, 1)
}

func TestPendingPriceSurvivesUnrelatedClick(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()

	require.NoError(t, sb.SetPrice(types.PriceRange{Min: 12, Max: 33}))
	require.NoError(t, sb.Toggle(types.DimensionSize, "Medium"))
	h.clock.Advance(debounce.DefaultWindow)

	state := h.c.State()
	assert.True(t, state.Sizes.Has("Medium"))
	assert.Equal(t, 12.0, state.Price.Min)
	assert.Equal(t, 6, h.c.Result().TotalCount)
}

func TestStalePriceLosesToLaterClear(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()

	require.NoError(t, sb.SetPrice(types.PriceRange{Min: 12, Max: 20}))
	require.NoError(t, sb.Clear())
	h.clock.Advance(debounce.DefaultWindow)

	assert.Equal(t, types.PriceRange{Min: 10, Max: 33}, h.c.State().Price)
}

func TestPageChangeAndReset(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()

	require.NoError(t, sb.SetPage(2))
	assert.Equal(t, 2, h.c.Result().Page)
	assert.Equal(t, "page=2", h.c.Query())
	msg, _ := h.spoken()
	assert.Equal(t, "Page 2 of 2.", msg.Text)

	require.NoError(t, sb.SetSort(types.SortPriceDesc))
	assert.Equal(t, 1, h.c.State().Page)
	assert.Equal(t, "sort=price-desc", h.c.Query())
	assert.Equal(t, 33.0, h.c.Result().Items[0].Price)

	assert.Equal(t, []int{2, 1}, h.pages)
	assert.Equal(t, []types.SortSpec{types.SortPriceDesc}, h.sorts)
	assert.Empty(t, h.filters)
}

func TestPageBeyondLastClampsEverywhere(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()

	require.NoError(t, sb.SetPage(999))
	assert.Equal(t, 2, h.c.State().Page)
	assert.Equal(t, 2, h.c.Result().Page)
	assert.Equal(t, "page=2", h.url.Query())
	assert.Equal(t, []int{2}, h.pages)
	msg, _ := h.spoken()
	assert.Equal(t, "Page 2 of 2.", msg.Text)

	require.NoError(t, sb.SetPage(999))
	assert.Equal(t, []int{2}, h.pages, "already on the last page")

	products, _ := testCatalog()
	products = products[:10]
	h.c.SetCatalog(products, types.NewReferenceData(products, nil, nil))
	assert.Equal(t, 1, h.c.State().Page)
	assert.Equal(t, "", h.c.Query())
}

func TestHydrateClampsPage(t *testing.T) {
	h := newHarness(t)
	h.c.Hydrate("?page=50&sort=price-asc")
	assert.Equal(t, 2, h.c.State().Page)
	assert.Equal(t, "sort=price-asc&page=2", h.c.Query())
}

func TestHydrateFromURL(t *testing.T) {
	h := newHarness(t)
	h.c.Hydrate("?sizes=Medium,Unknown&sort=price-desc&utm=x")

	state := h.c.State()
	assert.Equal(t, []string{"Medium"}, state.Sizes.Sorted())
	assert.Equal(t, types.SortPriceDesc, state.Sort)
	assert.Equal(t, "sizes=Medium&sort=price-desc", h.c.Query())
	_, spoke := h.spoken()
	assert.False(t, spoke, "restored state is not announced")
}

func TestSetCatalogRebasesPrice(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.Sidebar().Toggle(types.DimensionBrand, "zeta"))

	products, _ := testCatalog()
	products = products[:10]
	for i := range products {
		products[i].Price += 100
	}
	ref := types.NewReferenceData(products, []types.Brand{{Id: "acme"}}, nil)
	h.c.SetCatalog(products, ref)

	state := h.c.State()
	assert.Equal(t, ref.Bounds, state.Price)
	assert.Equal(t, 0, state.Brands.Len())
	assert.Equal(t, 10, h.c.Result().TotalCount)
}

func TestHandleIntent(t *testing.T) {
	h := newHarness(t)
	sb := h.c.Sidebar()
	lo := 15.0

	require.NoError(t, HandleIntent(sb, Intent{Action: "toggle", Dimension: "color", Value: "Blue"}))
	require.NoError(t, HandleIntent(sb, Intent{Action: "flag", Dimension: "in_stock", On: true}))
	require.NoError(t, HandleIntent(sb, Intent{Action: "price", Min: &lo}))
	require.NoError(t, HandleIntent(sb, Intent{Action: "section", Dimension: "brand"}))
	h.c.Sidebar().FlushPrice()

	state := h.c.State()
	assert.True(t, state.Colors.Has("Blue"))
	assert.True(t, state.InStockOnly)
	assert.Equal(t, types.PriceRange{Min: 15, Max: 33}, state.Price)
	assert.False(t, sb.Snapshot().Sections[types.DimensionBrand])

	invalid := []Intent{
		{Action: "explode"},
		{Action: "toggle", Dimension: "price", Value: "1"},
		{Action: "toggle", Dimension: "size"},
		{Action: "flag", Dimension: "size"},
		{Action: "sort", Sort: "cheapest"},
		{Action: "page", Page: 0},
		{Action: "price"},
		{Action: "reset", Dimension: "weight"},
	}
	for _, in := range invalid {
		err := HandleIntent(sb, in)
		assert.True(t, errors.Is(err, ErrInvalidIntent), "%+v gave %v", in, err)
	}
}

func TestTeardownReleasesEverything(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.Sidebar().Toggle(types.DimensionSize, "Medium"))
	require.NoError(t, h.c.Sidebar().SetPrice(types.PriceRange{Min: 20, Max: 30}))
	h.openDrawer()
	require.NoError(t, h.c.Drawer().SetPrice(types.PriceRange{Min: 11, Max: 12}))
	require.True(t, h.lock.Locked())

	h.c.Teardown()
	h.clock.Advance(time.Minute)

	assert.False(t, h.lock.Locked())
	assert.Equal(t, types.PriceRange{Min: 10, Max: 33}, h.c.State().Price)
	assert.Empty(t, h.region.Messages())
	assert.ErrorIs(t, h.c.Sidebar().Toggle(types.DimensionSize, "Large"), ErrClosed)
	assert.ErrorIs(t, h.c.Drawer().Toggle(types.DimensionSize, "Large"), ErrClosed)
	assert.Equal(t, DrawerClosed, h.c.Drawer().State())
	assert.Equal(t, 0, h.clock.Waiting())
	assert.NotPanics(t, h.c.Teardown)
}

func TestSnapshotSorts(t *testing.T) {
	h := newHarness(t)
	snap := h.c.Snapshot()
	assert.Len(t, snap.Sorts, 4)
	assert.True(t, snap.Sorts[0].Selected)

	require.NoError(t, h.c.Sidebar().SetQuery("product"))
	snap = h.c.Snapshot()
	assert.Len(t, snap.Sorts, 5)
	assert.Equal(t, "q=product", snap.Query)
}
