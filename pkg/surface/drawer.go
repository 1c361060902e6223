package surface

import (
	"fmt"
	"sync"

	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/matst80/slask-catalog/pkg/types"
)

type DrawerState int

const (
	DrawerClosed DrawerState = iota
	DrawerOpening
	DrawerOpen
	DrawerClosing
)

func (s DrawerState) String() string {
	switch s {
	case DrawerOpening:
		return "opening"
	case DrawerOpen:
		return "open"
	case DrawerClosing:
		return "closing"
	}
	return "closed"
}

func (s DrawerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Drawer is the modal mobile surface. Edits go to a draft that is committed
// as a whole on Apply and thrown away on any other way out.
type Drawer struct {
	edits
	c         *Controller
	price     *debounce.Dispatcher[types.PriceRange]
	lock      *scopedLock
	threshold float64
	sections  *sections

	mu     sync.Mutex
	state  DrawerState
	draft  *types.FilterState
	closed bool
}

type DrawerSnapshot struct {
	State        DrawerState              `json:"state"`
	Draft        *types.FilterState       `json:"draft,omitempty"`
	DraftCount   int                      `json:"draftCount"`
	DraftFilters int                      `json:"draftFilters"`
	Sections     map[types.Dimension]bool `json:"sections"`
	ScrollLocked bool                     `json:"scrollLocked"`
	PricePending bool                     `json:"pricePending"`
}

func newDrawer(c *Controller) *Drawer {
	d := &Drawer{
		c: c,
		price: debounce.New[types.PriceRange](c.opts.DebounceWindow,
			debounce.WithClock(c.opts.Clock),
			debounce.WithSequencer(c.store.Sequencer()),
			debounce.WithName("drawer_price")),
		lock:      &scopedLock{target: c.opts.ScrollLock},
		threshold: c.opts.SwipeThreshold,
		sections:  newSections(false),
	}
	d.edits = edits{apply: d.edit}
	return d
}

func (d *Drawer) State() DrawerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Draft returns a copy of the pending edits while the drawer is editable.
func (d *Drawer) Draft() (types.FilterState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft == nil {
		return types.FilterState{}, false
	}
	return d.draft.Clone(), true
}

// Current is the draft, or the committed state when there is none.
func (d *Drawer) Current() types.FilterState {
	if draft, ok := d.Draft(); ok {
		return draft
	}
	return d.c.store.State()
}

// EditingPrice is the draft price including an edit still in its debounce
// window.
func (d *Drawer) EditingPrice() types.PriceRange {
	if r, ok := d.price.PendingValue(); ok {
		return r
	}
	return d.Current().Price
}

func (d *Drawer) editableLocked() bool {
	return !d.closed && d.draft != nil && (d.state == DrawerOpening || d.state == DrawerOpen)
}

func (d *Drawer) edit(cmd Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if !d.editableLocked() {
		return ErrNotEditable
	}
	if cmd.Kind == CmdPrice {
		d.price.Schedule(cmd.Price, d.commitDraftPrice)
		return nil
	}
	if cmd.Kind == CmdClear || (cmd.Kind == CmdReset && cmd.Dimension == types.DimensionPrice) {
		d.price.Cancel()
	}
	ref := d.c.store.Reference()
	applyCommand(d.draft, cmd, ref.PriceBounds())
	d.draft.Sanitize(ref)
	return nil
}

func (d *Drawer) commitDraftPrice(cmd debounce.Command[types.PriceRange]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.editableLocked() {
		return
	}
	applyCommand(d.draft, Command{Kind: CmdPrice, Price: cmd.Value}, d.c.store.Reference().PriceBounds())
}

// Open starts the opening animation with a draft of the committed state.
func (d *Drawer) Open() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.state != DrawerClosed {
		return false
	}
	draft := d.c.store.State()
	d.draft = &draft
	d.state = DrawerOpening
	return true
}

// AnimationComplete finishes the running transition.
func (d *Drawer) AnimationComplete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case DrawerOpening:
		d.state = DrawerOpen
		d.lock.acquire()
		return true
	case DrawerClosing:
		d.state = DrawerClosed
		d.lock.release()
		d.sections.reset()
		return true
	}
	return false
}

func (d *Drawer) CloseButton() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DrawerOpening && d.state != DrawerOpen {
		return false
	}
	d.beginClosingLocked()
	return true
}

func (d *Drawer) Escape() bool {
	return d.dismiss()
}

func (d *Drawer) Backdrop() bool {
	return d.dismiss()
}

// Swipe dismisses the drawer on a leftward swipe of at least the
// threshold.
func (d *Drawer) Swipe(dx float64) bool {
	if dx > -d.threshold {
		return false
	}
	return d.dismiss()
}

func (d *Drawer) dismiss() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DrawerOpen {
		return false
	}
	d.beginClosingLocked()
	return true
}

func (d *Drawer) beginClosingLocked() {
	d.state = DrawerClosing
	d.draft = nil
	d.price.Cancel()
}

// Apply commits the draft as one command and starts closing. A pending
// price edit is folded into the draft first.
func (d *Drawer) Apply() bool {
	if d.State() != DrawerOpen {
		return false
	}
	d.price.Flush()

	d.mu.Lock()
	if d.closed || d.state != DrawerOpen || d.draft == nil {
		d.mu.Unlock()
		return false
	}
	draft := d.draft.Clone()
	d.beginClosingLocked()
	d.mu.Unlock()

	committed := d.c.store.State()
	draft.Page = committed.Page
	if !draft.Equal(&committed) {
		draft.Page = 1
	}
	d.c.store.Dispatch(Command{Kind: CmdReplace, State: &draft, Source: SourceDrawer})
	return true
}

func (d *Drawer) ToggleSection(dim types.Dimension) bool {
	return d.sections.toggle(dim)
}

// DrawerEvent is a user or host event aimed at the drawer.
type DrawerEvent struct {
	Type      string  `json:"type"`
	Dx        float64 `json:"dx,omitempty"`
	Dimension string  `json:"dimension,omitempty"`
}

// HandleEvent reports whether the event caused a transition. Events that
// are not valid in the current state are ignored.
func (d *Drawer) HandleEvent(ev DrawerEvent) (bool, error) {
	switch ev.Type {
	case "open":
		return d.Open(), nil
	case "animation-complete":
		return d.AnimationComplete(), nil
	case "close":
		return d.CloseButton(), nil
	case "escape":
		return d.Escape(), nil
	case "backdrop":
		return d.Backdrop(), nil
	case "swipe":
		return d.Swipe(ev.Dx), nil
	case "apply":
		return d.Apply(), nil
	case "section":
		dim, ok := types.ParseDimension(ev.Dimension)
		if !ok {
			return false, fmt.Errorf("%w: unknown dimension %q", ErrInvalidIntent, ev.Dimension)
		}
		return d.ToggleSection(dim), nil
	}
	return false, fmt.Errorf("%w: unknown drawer event %q", ErrInvalidIntent, ev.Type)
}

func (d *Drawer) Snapshot() DrawerSnapshot {
	d.mu.Lock()
	snap := DrawerSnapshot{State: d.state}
	var draft *types.FilterState
	if d.draft != nil {
		clone := d.draft.Clone()
		draft = &clone
	}
	d.mu.Unlock()

	snap.Sections = d.sections.snapshot()
	snap.ScrollLocked = d.lock.Held()
	snap.PricePending = d.price.Pending()
	if draft != nil {
		snap.Draft = draft
		snap.DraftCount = d.c.Preview(*draft).TotalCount
		snap.DraftFilters = draft.ActiveFilterCount(d.c.store.Reference().PriceBounds())
	}
	return snap
}

func (d *Drawer) close() {
	d.mu.Lock()
	d.closed = true
	d.state = DrawerClosed
	d.draft = nil
	d.mu.Unlock()
	d.price.Close()
	d.lock.release()
}
