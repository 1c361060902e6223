// Package surface hosts the two filter surfaces of a catalog view, the
// desktop sidebar and the mobile drawer, on top of one shared Store.
package surface

import (
	"errors"
	"sync"
	"time"

	"github.com/matst80/slask-catalog/pkg/announce"
	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/matst80/slask-catalog/pkg/facet"
	"github.com/matst80/slask-catalog/pkg/query"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/matst80/slask-catalog/pkg/urlsync"
	"github.com/rs/zerolog/log"
)

const DefaultSwipeThreshold = 80.0

var (
	ErrClosed        = errors.New("surface closed")
	ErrInvalidIntent = errors.New("invalid intent")
	ErrNotEditable   = errors.New("drawer is not open for editing")
)

// Callbacks run synchronously after a committed change and must not edit
// the view.
type Callbacks struct {
	OnFilterChange func(types.FilterState)
	OnSortChange   func(types.SortSpec)
	OnPageChange   func(int)
	OnClearFilters func()
}

type Options struct {
	PageSize       int
	DebounceWindow time.Duration
	SwipeThreshold float64
	Clock          debounce.Clock
	URL            urlsync.Writer
	// InitialQuery is the query string the host is showing at mount.
	InitialQuery string
	Announcer    *announce.Holder
	ScrollLock   ScrollLock
	Callbacks    Callbacks
}

func (o *Options) defaults() {
	if o.PageSize < 1 {
		o.PageSize = query.DefaultPageSize
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = debounce.DefaultWindow
	}
	if o.SwipeThreshold <= 0 {
		o.SwipeThreshold = DefaultSwipeThreshold
	}
	if o.Clock == nil {
		o.Clock = debounce.RealClock
	}
}

// Controller owns one view: its store, the derived page and facets, URL
// write-back, announcements and both surfaces.
type Controller struct {
	opts  Options
	store *Store
	url   *urlsync.Syncer

	mu       sync.RWMutex
	products []types.ProductRecord
	index    *facet.Index
	result   types.PageResult
	facets   []facet.Facet

	sidebar *Sidebar
	drawer  *Drawer
}

func NewController(opts Options) *Controller {
	opts.defaults()
	c := &Controller{
		opts:   opts,
		store:  NewStore(types.NewFilterState(types.PriceRange{}), nil, debounce.NewSequencer()),
		url:    urlsync.NewSyncer(opts.URL, opts.InitialQuery),
		result: types.EmptyPageResult(opts.PageSize),
		index:  facet.NewIndex(nil, nil),
	}
	c.sidebar = newSidebar(c)
	c.drawer = newDrawer(c)
	c.store.SetPageLimit(c.lastPage)
	c.store.Subscribe(c.onChange)
	return c
}

// lastPage is the last page state would show with the current products.
func (c *Controller) lastPage(state *types.FilterState) int {
	c.mu.RLock()
	products := c.products
	c.mu.RUnlock()
	return query.TotalPages(query.Count(products, state), c.opts.PageSize)
}

func (c *Controller) Sidebar() *Sidebar {
	return c.sidebar
}

func (c *Controller) Drawer() *Drawer {
	return c.drawer
}

func (c *Controller) Store() *Store {
	return c.store
}

func (c *Controller) State() types.FilterState {
	return c.store.State()
}

func (c *Controller) Reference() *types.ReferenceData {
	return c.store.Reference()
}

func (c *Controller) Result() types.PageResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

func (c *Controller) Facets() []facet.Facet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.facets
}

// Query is the canonical query string of the committed state.
func (c *Controller) Query() string {
	return c.url.Current()
}

// SetCatalog swaps the product set and reference data. The state is
// sanitized against the new reference data.
func (c *Controller) SetCatalog(products []types.ProductRecord, ref *types.ReferenceData) {
	if ref == nil {
		ref = types.NewReferenceData(products, nil, nil)
	}
	c.mu.Lock()
	c.products = products
	c.index = facet.NewIndex(products, ref)
	c.mu.Unlock()
	c.store.Rebase(ref)
}

// Hydrate applies a query string on top of the current state. Only the keys
// it names change.
func (c *Controller) Hydrate(rawQuery string) {
	next := urlsync.Hydrate(c.store.State(), rawQuery, c.store.Reference())
	c.store.Dispatch(Command{Kind: CmdReplace, State: &next, Source: SourceURL})
}

// Preview derives the page of a state that is not committed, such as the
// drawer draft.
func (c *Controller) Preview(state types.FilterState) types.PageResult {
	c.mu.RLock()
	products := c.products
	c.mu.RUnlock()
	return query.Apply(products, state, c.opts.PageSize)
}

func (c *Controller) onChange(change Change) {
	next := change.Next
	ref := c.store.Reference()

	c.mu.Lock()
	c.result = query.Apply(c.products, next, c.opts.PageSize)
	c.facets = c.index.Summary(next)
	result := c.result
	c.mu.Unlock()

	if _, err := c.url.Sync(next, ref.PriceBounds()); err != nil {
		log.Warn().Err(err).Msg("failed to write query string")
	}
	if change.Command.Kind == CmdRebase || !change.Changed() {
		return
	}
	// state restored from the address bar is not news to the user
	if change.Command.Source != SourceURL {
		if text, priority := Describe(change.Prev, next, ref, result); text != "" {
			c.opts.Announcer.Announce(text, priority)
		}
	}
	c.fireCallbacks(change, ref.PriceBounds())
}

func (c *Controller) fireCallbacks(change Change, bounds types.PriceRange) {
	prev, next := change.Prev, change.Next
	cb := c.opts.Callbacks
	prevFilters, nextFilters := prev.Clone(), next.Clone()
	prevFilters.Sort, nextFilters.Sort = "", ""
	prevFilters.Page, nextFilters.Page = 0, 0
	if cb.OnFilterChange != nil && !prevFilters.Equal(&nextFilters) {
		cb.OnFilterChange(next)
	}
	if cb.OnSortChange != nil && prev.Sort != next.Sort {
		cb.OnSortChange(next.Sort)
	}
	if cb.OnPageChange != nil && prev.Page != next.Page {
		cb.OnPageChange(next.Page)
	}
	if cb.OnClearFilters != nil && prev.ActiveFilterCount(bounds) > 0 && next.ActiveFilterCount(bounds) == 0 {
		cb.OnClearFilters()
	}
}

// Teardown releases every resource of the view. Pending debounced commits
// and queued announcements are dropped and the scroll lock is released.
func (c *Controller) Teardown() {
	c.sidebar.close()
	c.drawer.close()
	c.store.Close()
	c.opts.Announcer.Teardown()
}

// Snapshot is everything a host needs to render the view.
type Snapshot struct {
	State         types.FilterState `json:"state"`
	Result        types.PageResult  `json:"result"`
	Facets        []facet.Facet     `json:"facets"`
	Query         string            `json:"query"`
	ActiveFilters int               `json:"activeFilters"`
	Sorts         []SortOption      `json:"sorts"`
	Sidebar       SidebarSnapshot   `json:"sidebar"`
	Drawer        DrawerSnapshot    `json:"drawer"`
}

type SortOption struct {
	Id       types.SortSpec `json:"id"`
	Label    string         `json:"label"`
	Selected bool           `json:"selected,omitempty"`
}

var sortOrder = []types.SortSpec{
	types.SortNameAsc,
	types.SortPriceAsc,
	types.SortPriceDesc,
	types.SortNewest,
	types.SortRelevance,
}

func (c *Controller) Snapshot() Snapshot {
	state := c.store.State()
	ref := c.store.Reference()
	sorts := make([]SortOption, 0, len(sortOrder))
	for _, s := range sortOrder {
		if s == types.SortRelevance && state.Query == "" {
			continue
		}
		sorts = append(sorts, SortOption{Id: s, Label: s.Label(), Selected: s == state.Sort})
	}
	return Snapshot{
		State:         state,
		Result:        c.Result(),
		Facets:        c.Facets(),
		Query:         c.Query(),
		ActiveFilters: state.ActiveFilterCount(ref.PriceBounds()),
		Sorts:         sorts,
		Sidebar:       c.sidebar.Snapshot(),
		Drawer:        c.drawer.Snapshot(),
	}
}
