// Package debounce coalesces bursts of input into one trailing-edge commit.
package debounce

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const DefaultWindow = 300 * time.Millisecond

var (
	scheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_debounce_scheduled_total",
		Help: "The total number of values scheduled for a debounced commit",
	}, []string{"name"})
	committed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_debounce_committed_total",
		Help: "The total number of debounced commits",
	}, []string{"name"})
	discarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_debounce_discarded_total",
		Help: "The total number of scheduled values replaced or cancelled before commit",
	}, []string{"name"})
)

// Command is a value stamped with the sequence number of the input that
// produced it.
type Command[V any] struct {
	Value V
	Seq   uint64
}

type options struct {
	clock Clock
	seq   *Sequencer
	name  string
}

type Option func(*options)

func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithSequencer shares a sequence between dispatchers and discrete input so
// all commands of one view are comparable.
func WithSequencer(s *Sequencer) Option {
	return func(o *options) {
		o.seq = s
	}
}

func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

type pendingCommit[V any] struct {
	cmd    Command[V]
	commit func(Command[V])
	gen    uint64
}

// Dispatcher holds at most one pending value. Every Schedule replaces the
// pending value and restarts the quiet window; when the window elapses the
// last value is committed.
//
// A commit function must not call Flush or Close on its own dispatcher.
type Dispatcher[V any] struct {
	mu      sync.Mutex
	run     sync.Mutex // held while a commit runs
	window  time.Duration
	clock   Clock
	seq     *Sequencer
	name    string
	timer   Timer
	pending *pendingCommit[V]
	gen     uint64
	closed  bool
}

func New[V any](window time.Duration, opts ...Option) *Dispatcher[V] {
	o := options{
		clock: RealClock,
		name:  "default",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.seq == nil {
		o.seq = NewSequencer()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Dispatcher[V]{
		window: window,
		clock:  o.clock,
		seq:    o.seq,
		name:   o.name,
	}
}

func (d *Dispatcher[V]) Window() time.Duration {
	return d.window
}

// Schedule stamps value and (re)starts the window. It returns the stamp, or
// 0 when the dispatcher is closed.
func (d *Dispatcher[V]) Schedule(value V, commit func(Command[V])) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0
	}
	d.stopLocked()
	d.gen++
	gen := d.gen
	seq := d.seq.Next()
	d.pending = &pendingCommit[V]{
		cmd:    Command[V]{Value: value, Seq: seq},
		commit: commit,
		gen:    gen,
	}
	d.timer = d.clock.AfterFunc(d.window, func() {
		d.fire(gen)
	})
	scheduled.WithLabelValues(d.name).Inc()
	return seq
}

func (d *Dispatcher[V]) fire(gen uint64) {
	d.run.Lock()
	defer d.run.Unlock()
	d.mu.Lock()
	p := d.pending
	if d.closed || p == nil || p.gen != gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	d.commit(p)
}

func (d *Dispatcher[V]) commit(p *pendingCommit[V]) {
	committed.WithLabelValues(d.name).Inc()
	p.commit(p.cmd)
}

// stopLocked drops the pending value, if any. Caller holds mu.
func (d *Dispatcher[V]) stopLocked() bool {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending == nil {
		return false
	}
	d.pending = nil
	discarded.WithLabelValues(d.name).Inc()
	return true
}

// Cancel discards the pending value and reports whether there was one.
func (d *Dispatcher[V]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Flush commits the pending value now instead of waiting for the window.
func (d *Dispatcher[V]) Flush() bool {
	d.run.Lock()
	defer d.run.Unlock()
	d.mu.Lock()
	p := d.pending
	if d.closed || p == nil {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()
	d.commit(p)
	return true
}

func (d *Dispatcher[V]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// PendingValue returns the value waiting for the window to elapse.
func (d *Dispatcher[V]) PendingValue() (V, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		var zero V
		return zero, false
	}
	return d.pending.cmd.Value, true
}

// Close discards the pending value and waits for a running commit. No commit
// runs after Close returns and later Schedule calls are ignored.
func (d *Dispatcher[V]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.stopLocked() {
		log.Debug().Str("dispatcher", d.name).Msg("pending commit discarded on close")
	}
	d.mu.Unlock()

	d.run.Lock()
	defer d.run.Unlock()
}
