// Package announce speaks filter changes to a live region. Rapid bursts are
// coalesced so only the final result is read out.
package announce

import (
	"sync"
	"time"

	"github.com/matst80/slask-catalog/pkg/debounce"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const DefaultWindow = 750 * time.Millisecond

var (
	requested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_announcements_requested_total",
		Help: "The total number of requested announcements",
	})
	spoken = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_announcements_spoken_total",
		Help: "The total number of announcements handed to a live region",
	}, []string{"priority"})
	failed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_announcements_failed_total",
		Help: "The total number of live region failures",
	})
)

type announcement struct {
	text     string
	priority Priority
}

type config struct {
	window time.Duration
	clock  debounce.Clock
}

type Option func(*config)

func WithWindow(d time.Duration) Option {
	return func(c *config) {
		c.window = d
	}
}

func WithClock(clock debounce.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// Announcer is safe for concurrent use and every method is a no-op on a nil
// Announcer. It never panics and never reports errors.
type Announcer struct {
	region LiveRegion
	queue  *debounce.Dispatcher[announcement]

	mu    sync.Mutex
	burst Priority
}

func New(region LiveRegion, opts ...Option) *Announcer {
	c := config{
		window: DefaultWindow,
		clock:  debounce.RealClock,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return &Announcer{
		region: region,
		queue:  debounce.New[announcement](c.window, debounce.WithClock(c.clock), debounce.WithName("announcer")),
	}
}

// Announce queues message. Within one window only the latest message is
// spoken, at the highest priority requested during the burst.
func (a *Announcer) Announce(message string, priority Priority) {
	if a == nil || message == "" {
		return
	}
	requested.Inc()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.burst = max(a.burst, priority)
	a.queue.Schedule(announcement{text: message, priority: a.burst}, a.speak)
}

func (a *Announcer) speak(cmd debounce.Command[announcement]) {
	a.mu.Lock()
	a.burst = Polite
	a.mu.Unlock()
	if a.region == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			failed.Inc()
			log.Warn().Interface("panic", r).Msg("live region failed to speak")
		}
	}()
	a.region.Speak(cmd.Value.text, cmd.Value.priority)
	spoken.WithLabelValues(cmd.Value.priority.String()).Inc()
}

// Flush speaks the queued message immediately.
func (a *Announcer) Flush() {
	if a == nil {
		return
	}
	a.queue.Flush()
}

// Close drops anything queued. Announcements after Close are ignored.
func (a *Announcer) Close() {
	if a == nil {
		return
	}
	a.queue.Close()
}

// Holder creates its Announcer on first use and owns its lifetime.
type Holder struct {
	mu      sync.Mutex
	factory func() *Announcer
	current *Announcer
	closed  bool
}

func NewHolder(factory func() *Announcer) *Holder {
	return &Holder{factory: factory}
}

// Get returns the announcer, creating it if needed, or nil after Teardown.
func (h *Holder) Get() *Announcer {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	if h.current == nil && h.factory != nil {
		h.current = h.factory()
	}
	return h.current
}

func (h *Holder) Announce(message string, priority Priority) {
	h.Get().Announce(message, priority)
}

func (h *Holder) Teardown() {
	if h == nil {
		return
	}
	h.mu.Lock()
	current := h.current
	h.current = nil
	h.closed = true
	h.mu.Unlock()
	current.Close()
}
