package surface

import (
	"testing"

	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawerTransitions(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()

	assert.False(t, d.AnimationComplete())
	assert.False(t, d.Escape())
	assert.False(t, d.CloseButton())

	require.True(t, d.Open())
	assert.Equal(t, DrawerOpening, d.State())
	assert.False(t, d.Open())
	assert.False(t, d.Escape(), "escape is only valid when open")
	assert.False(t, d.Backdrop())
	assert.False(t, d.Swipe(-200))
	assert.False(t, h.lock.Locked())

	require.True(t, d.AnimationComplete())
	assert.Equal(t, DrawerOpen, d.State())
	assert.True(t, h.lock.Locked())

	assert.False(t, d.Swipe(-50))
	assert.False(t, d.Swipe(120))
	require.True(t, d.Swipe(-DefaultSwipeThreshold))
	assert.Equal(t, DrawerClosing, d.State())
	assert.True(t, h.lock.Locked(), "held until the closing animation ends")
	assert.False(t, d.CloseButton())

	require.True(t, d.AnimationComplete())
	assert.Equal(t, DrawerClosed, d.State())
	assert.False(t, h.lock.Locked())
}

func TestDrawerCloseWhileOpening(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()

	require.True(t, d.Open())
	require.True(t, d.CloseButton())
	require.True(t, d.AnimationComplete())
	assert.Equal(t, DrawerClosed, d.State())
	assert.Equal(t, 0, h.lock.Acquisitions())
}

func TestDrawerEscapeAndBackdrop(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()

	h.openDrawer()
	require.True(t, d.Escape())
	d.AnimationComplete()

	h.openDrawer()
	require.True(t, d.Backdrop())
	d.AnimationComplete()

	assert.Equal(t, 2, h.lock.Acquisitions())
	assert.False(t, h.lock.Locked())
}

func TestDrawerDraftIsIsolated(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()

	assert.ErrorIs(t, d.Toggle(types.DimensionSize, "Medium"), ErrNotEditable)

	h.openDrawer()
	require.NoError(t, d.Toggle(types.DimensionSize, "Medium"))
	require.NoError(t, d.SetFlag(types.DimensionSale, false))

	assert.Equal(t, 0, h.c.State().Sizes.Len())
	assert.Equal(t, 24, h.c.Result().TotalCount)
	snap := d.Snapshot()
	require.NotNil(t, snap.Draft)
	assert.Equal(t, 8, snap.DraftCount)
	assert.Equal(t, 1, snap.DraftFilters)
	assert.True(t, snap.ScrollLocked)

	require.True(t, d.Escape())
	_, ok := d.Draft()
	assert.False(t, ok)
	d.AnimationComplete()
	assert.Equal(t, 0, h.c.State().Sizes.Len())
	assert.Equal(t, 0, h.url.Writes())
}

func TestDrawerApplyCommitsOnce(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()
	require.NoError(t, h.c.Sidebar().SetPage(2))

	h.openDrawer()
	require.NoError(t, d.Toggle(types.DimensionSize, "Medium"))
	require.NoError(t, d.Toggle(types.DimensionColor, "Blue"))
	require.NoError(t, d.SetPrice(types.PriceRange{Min: 11, Max: 33}))
	assert.True(t, d.Snapshot().PricePending)
	filtersBefore := len(h.filters)

	require.True(t, d.Apply())
	assert.Equal(t, DrawerClosing, d.State())

	state := h.c.State()
	assert.Equal(t, []string{"Medium"}, state.Sizes.Sorted())
	assert.Equal(t, []string{"Blue"}, state.Colors.Sorted())
	assert.Equal(t, 11.0, state.Price.Min)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 4, h.c.Result().TotalCount)
	assert.Equal(t, filtersBefore+1, len(h.filters))
	assert.Equal(t, "sizes=Medium&colors=Blue&price_min=11", h.c.Query())

	msg, _ := h.spoken()
	assert.Equal(t, "Filters updated. 4 products found.", msg.Text)

	assert.False(t, d.Apply())
	d.AnimationComplete()
	assert.False(t, h.lock.Locked())
}

func TestDrawerApplyWithoutEditsKeepsPage(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.Sidebar().SetPage(2))
	h.openDrawer()
	require.True(t, h.c.Drawer().Apply())
	assert.Equal(t, 2, h.c.State().Page)
}

func TestDrawerApplyBeatsStaleSidebarPrice(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.Sidebar().SetPrice(types.PriceRange{Min: 30, Max: 33}))

	h.openDrawer()
	require.NoError(t, h.c.Drawer().SetPrice(types.PriceRange{Min: 20, Max: 25}))
	require.True(t, h.c.Drawer().Apply())
	h.clock.Advance(debounce.DefaultWindow)

	assert.Equal(t, types.PriceRange{Min: 20, Max: 25}, h.c.State().Price)
}

func TestDrawerPartialPriceEditsMerge(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()
	h.openDrawer()
	lo, hi := 12.0, 18.0

	require.NoError(t, HandleIntent(d, Intent{Action: "price", Min: &lo}))
	require.NoError(t, HandleIntent(d, Intent{Action: "price", Max: &hi}))
	h.clock.Advance(debounce.DefaultWindow)

	draft, ok := d.Draft()
	require.True(t, ok)
	assert.Equal(t, types.PriceRange{Min: 12, Max: 18}, draft.Price)
	assert.Equal(t, types.PriceRange{Min: 12, Max: 18}, d.EditingPrice())
	assert.Equal(t, types.PriceRange{Min: 10, Max: 33}, h.c.State().Price)
}

func TestDrawerClearCancelsPendingPrice(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()
	h.openDrawer()
	require.NoError(t, d.Toggle(types.DimensionBrand, "zeta"))
	require.NoError(t, d.SetPrice(types.PriceRange{Min: 30, Max: 33}))
	require.NoError(t, d.Clear())
	h.clock.Advance(debounce.DefaultWindow)

	draft, ok := d.Draft()
	require.True(t, ok)
	assert.Equal(t, 0, draft.ActiveFilterCount(h.c.Reference().PriceBounds()))
}

func TestDrawerClosingDiscardsPendingPrice(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()
	h.openDrawer()
	require.NoError(t, d.SetPrice(types.PriceRange{Min: 30, Max: 33}))
	require.True(t, d.CloseButton())
	h.clock.Advance(debounce.DefaultWindow)
	d.AnimationComplete()

	assert.Equal(t, types.PriceRange{Min: 10, Max: 33}, h.c.State().Price)
	assert.False(t, d.Snapshot().PricePending)
}

func TestDrawerEvents(t *testing.T) {
	h := newHarness(t)
	d := h.c.Drawer()

	ok, err := d.HandleEvent(DrawerEvent{Type: "open"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = d.HandleEvent(DrawerEvent{Type: "animation-complete"})
	assert.True(t, ok)

	ok, err = d.HandleEvent(DrawerEvent{Type: "section", Dimension: "size"})
	require.NoError(t, err)
	assert.True(t, ok, "drawer sections start collapsed")
	assert.True(t, d.Snapshot().Sections[types.DimensionSize])

	ok, _ = d.HandleEvent(DrawerEvent{Type: "swipe", Dx: -10})
	assert.False(t, ok)
	ok, _ = d.HandleEvent(DrawerEvent{Type: "swipe", Dx: -100})
	assert.True(t, ok)

	_, err = d.HandleEvent(DrawerEvent{Type: "fling"})
	assert.ErrorIs(t, err, ErrInvalidIntent)
	_, err = d.HandleEvent(DrawerEvent{Type: "section", Dimension: "weight"})
	assert.ErrorIs(t, err, ErrInvalidIntent)
}
