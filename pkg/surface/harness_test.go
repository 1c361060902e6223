package surface

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matst80/slask-catalog/pkg/announce"
	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/matst80/slask-catalog/pkg/urlsync"
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
		products[i] = p
	}
	ref := types.NewReferenceData(products,
		[]types.Brand{{Id: "acme", Name: "Acme"}, {Id: "zeta", Name: "Zeta"}},
		[]types.Category{{Id: "shirts", Name: "Shirts"}, {Id: "pants", Name: "Pants"}})
	return products, ref
}

type harness struct {
	c      *Controller
	clock  *debounce.ManualClock
	url    *urlsync.MemoryWriter
	region *announce.MemoryRegion
	lock   *MemoryScrollLock

	mu      sync.Mutex
	filters []types.FilterState
	sorts   []types.SortSpec
	pages   []int
	clears  int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:  debounce.NewManualClock(time.Unix(0, 0)),
		url:    &urlsync.MemoryWriter{},
		region: announce.NewMemoryRegion(50),
		lock:   &MemoryScrollLock{},
	}
	h.c = NewController(Options{
		Clock:      h.clock,
		URL:        h.url,
		ScrollLock: h.lock,
		Announcer: announce.NewHolder(func() *announce.Announcer {
			return announce.New(h.region, announce.WithClock(h.clock))
		}),
		Callbacks: Callbacks{
			OnFilterChange: func(s types.FilterState) {
				h.mu.Lock()
				defer h.mu.Unlock()
				h.filters = append(h.filters, s)
			},
			OnSortChange: func(s types.SortSpec) {
				h.mu.Lock()
				defer h.mu.Unlock()
				h.sorts = append(h.sorts, s)
			},
			OnPageChange: func(p int) {
				h.mu.Lock()
				defer h.mu.Unlock()
				h.pages = append(h.pages, p)
			},
			OnClearFilters: func() {
				h.mu.Lock()
				defer h.mu.Unlock()
				h.clears++
			},
		},
	})
	products, ref := testCatalog()
	h.c.SetCatalog(products, ref)
	t.Cleanup(h.c.Teardown)
	return h
}

// spoken waits out the announcer window and returns the last message.
func (h *harness) spoken() (announce.Message, bool) {
	h.clock.Advance(announce.DefaultWindow)
	return h.region.Last()
}

func (h *harness) openDrawer() {
	h.c.Drawer().Open()
	h.c.Drawer().AnimationComplete()
}
