package surface

import (
	"sync"

	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	commits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_commits_total",
		Help: "The total number of committed filter state changes",
	}, []string{"kind"})
	staleCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_stale_commits_total",
		Help: "The total number of commands discarded as older than the state",
	}, []string{"kind"})
)

// Change is delivered to listeners after every commit.
type Change struct {
	Prev    types.FilterState
	Next    types.FilterState
	Command Command
}

func (c Change) Changed() bool {
	return !c.Prev.Equal(&c.Next)
}

type Listener func(Change)

// Store is the only writer of a view's FilterState. Every surface funnels
// its edits through Dispatch.
//
// Listeners run synchronously, one change at a time, and must not call
// Dispatch.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	state    types.FilterState
	ref      *types.ReferenceData
	seq      *debounce.Sequencer
	// last applied sequence per staleness key
	applied   map[string]uint64
	listeners []Listener
	lastPage  func(*types.FilterState) int
	closed    bool
}

func NewStore(initial types.FilterState, ref *types.ReferenceData, seq *debounce.Sequencer) *Store {
	if seq == nil {
		seq = debounce.NewSequencer()
	}
	initial = initial.Clone()
	initial.Sanitize(ref)
	return &Store{
		state:   initial,
		ref:     ref,
		seq:     seq,
		applied: map[string]uint64{},
	}
}

func (s *Store) Sequencer() *debounce.Sequencer {
	return s.seq
}

func (s *Store) State() types.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Reference() *types.ReferenceData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref
}

// SetPageLimit installs the function returning the last page of a state.
// Committed pages are clamped to it so the state never names a page that
// does not exist.
func (s *Store) SetPageLimit(fn func(*types.FilterState) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPage = fn
}

func (s *Store) clampPageLocked(state *types.FilterState) {
	if s.lastPage == nil {
		return
	}
	if last := s.lastPage(state); state.Page > last {
		state.Page = max(last, 1)
	}
}

func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Dispatch applies cmd and reports whether the state changed. Unstamped
// commands get a fresh sequence number.
func (s *Store) Dispatch(cmd Command) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if cmd.Seq == 0 {
		cmd.Seq = s.seq.Next()
	}
	keys := cmd.keys()
	for _, k := range keys {
		if cmd.Seq < s.applied[k] {
			s.mu.Unlock()
			staleCommits.WithLabelValues(string(cmd.Kind)).Inc()
			log.Debug().Str("kind", string(cmd.Kind)).Uint64("seq", cmd.Seq).Str("key", k).Msg("stale command discarded")
			return false
		}
	}
	for _, k := range keys {
		s.applied[k] = cmd.Seq
	}
	prev := s.state
	next := prev.Clone()
	applyCommand(&next, cmd, s.ref.PriceBounds())
	next.Sanitize(s.ref)
	s.clampPageLocked(&next)
	if next.Equal(&prev) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()

	commits.WithLabelValues(string(cmd.Kind)).Inc()
	s.notify(listeners, Change{Prev: prev.Clone(), Next: next.Clone(), Command: cmd})
	return true
}

// Rebase switches to new reference data. A price range spanning the old
// bounds keeps spanning the new ones, everything else is sanitized. The
// listeners are always notified so derived data can be rebuilt.
func (s *Store) Rebase(ref *types.ReferenceData) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	prev := s.state
	next := prev.Clone()
	if next.Price.IsFull(s.ref.PriceBounds()) {
		next.Price = ref.PriceBounds()
	}
	next.Sanitize(ref)
	s.ref = ref
	s.clampPageLocked(&next)
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, Change{Prev: prev.Clone(), Next: next.Clone(), Command: Command{Kind: CmdRebase}})
}

func (s *Store) notify(listeners []Listener, change Change) {
	for _, fn := range listeners {
		fn(change)
	}
}

// Close drops the listeners. Later commands are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}
