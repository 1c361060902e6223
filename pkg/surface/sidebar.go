package surface

import (
	"sync"
	"sync/atomic"

	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/matst80/slask-catalog/pkg/types"
)

// edits gives a surface its typed edit methods on top of one edit func.
type edits struct {
	apply func(Command) error
}

func (e edits) Toggle(dim types.Dimension, value string) error {
	return e.apply(Command{Kind: CmdToggle, Dimension: dim, Value: value})
}

func (e edits) SetFlag(dim types.Dimension, on bool) error {
	return e.apply(Command{Kind: CmdFlag, Dimension: dim, On: on})
}

func (e edits) SetPrice(r types.PriceRange) error {
	return e.apply(Command{Kind: CmdPrice, Price: r})
}

func (e edits) SetSort(spec types.SortSpec) error {
	return e.apply(Command{Kind: CmdSort, Sort: spec})
}

func (e edits) SetPage(page int) error {
	return e.apply(Command{Kind: CmdPage, Page: page})
}

func (e edits) SetQuery(q string) error {
	return e.apply(Command{Kind: CmdQuery, Query: q})
}

func (e edits) ResetDimension(dim types.Dimension) error {
	return e.apply(Command{Kind: CmdReset, Dimension: dim})
}

func (e edits) Clear() error {
	return e.apply(Command{Kind: CmdClear})
}

// sections is which facet groups a surface shows expanded.
type sections struct {
	mu          sync.Mutex
	defaultOpen bool
	open        map[types.Dimension]bool
}

func newSections(defaultOpen bool) *sections {
	return &sections{defaultOpen: defaultOpen, open: map[types.Dimension]bool{}}
}

func (s *sections) isOpen(dim types.Dimension) bool {
	if v, ok := s.open[dim]; ok {
		return v
	}
	return s.defaultOpen
}

func (s *sections) toggle(dim types.Dimension) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[dim] = !s.isOpen(dim)
	return s.open[dim]
}

func (s *sections) snapshot() map[types.Dimension]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make(map[types.Dimension]bool, len(types.AllDimensions))
	for _, dim := range types.AllDimensions {
		ret[dim] = s.isOpen(dim)
	}
	return ret
}

func (s *sections) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.open)
}

// Sidebar is the always visible desktop surface. Discrete controls commit
// at once, the price range commits once the slider has been quiet for the
// debounce window.
type Sidebar struct {
	edits
	c        *Controller
	price    *debounce.Dispatcher[types.PriceRange]
	sections *sections
	closed   atomic.Bool
}

type SidebarSnapshot struct {
	Sections     map[types.Dimension]bool `json:"sections"`
	PricePending bool                     `json:"pricePending"`
}

func newSidebar(c *Controller) *Sidebar {
	s := &Sidebar{
		c: c,
		price: debounce.New[types.PriceRange](c.opts.DebounceWindow,
			debounce.WithClock(c.opts.Clock),
			debounce.WithSequencer(c.store.Sequencer()),
			debounce.WithName("sidebar_price")),
		sections: newSections(true),
	}
	s.edits = edits{apply: s.edit}
	return s
}

func (s *Sidebar) edit(cmd Command) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := cmd.validate(); err != nil {
		return err
	}
	cmd.Source = SourceSidebar
	if cmd.Kind == CmdPrice {
		price := cmd.Price
		s.price.Schedule(price, func(c debounce.Command[types.PriceRange]) {
			s.c.store.Dispatch(Command{Kind: CmdPrice, Price: c.Value, Seq: c.Seq, Source: SourceSidebar})
		})
		return nil
	}
	cmd.Seq = s.c.store.Sequencer().Next()
	s.c.store.Dispatch(cmd)
	return nil
}

// Current is the committed state the sidebar shows.
func (s *Sidebar) Current() types.FilterState {
	return s.c.store.State()
}

// EditingPrice is the price waiting to commit, or the committed one.
// Partial price edits apply on top of it.
func (s *Sidebar) EditingPrice() types.PriceRange {
	if r, ok := s.price.PendingValue(); ok {
		return r
	}
	return s.Current().Price
}

func (s *Sidebar) ToggleSection(dim types.Dimension) bool {
	return s.sections.toggle(dim)
}

// FlushPrice commits a pending price change now.
func (s *Sidebar) FlushPrice() bool {
	return s.price.Flush()
}

func (s *Sidebar) Snapshot() SidebarSnapshot {
	return SidebarSnapshot{
		Sections:     s.sections.snapshot(),
		PricePending: s.price.Pending(),
	}
}

func (s *Sidebar) close() {
	s.closed.Store(true)
	s.price.Close()
}
