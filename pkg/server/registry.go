package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matst80/slask-catalog/pkg/announce"
	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/surface"
	"github.com/matst80/slask-catalog/pkg/urlsync"
	"github.com/rs/zerolog/log"
)

// hostedView is a mounted view plus the in-memory host it renders into.
type hostedView struct {
	view      atomic.Pointer[catalog.View]
	sessionId string
	url       *urlsync.MemoryWriter
	region    *announce.MemoryRegion
	lock      *surface.MemoryScrollLock
	announcer *announce.Holder
	lastSeen  atomic.Int64
}

func (h *hostedView) touch(now time.Time) {
	h.lastSeen.Store(now.UnixNano())
}

func (h *hostedView) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, h.lastSeen.Load()))
}

type Registry struct {
	mu    sync.Mutex
	now   func() time.Time
	views map[string]*hostedView
}

func NewRegistry() *Registry {
	return &Registry{now: time.Now, views: make(map[string]*hostedView)}
}

func (r *Registry) add(h *hostedView) {
	h.touch(r.now())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[h.view.Load().Id] = h
}

// get returns the view and marks it as used.
func (r *Registry) get(id string) (*hostedView, bool) {
	r.mu.Lock()
	h, ok := r.views[id]
	r.mu.Unlock()
	if ok {
		h.touch(r.now())
	}
	return h, ok
}

func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	h, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if ok {
		h.view.Load().Unmount()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Reap unmounts views idle for longer than idle and returns how many.
func (r *Registry) Reap(idle time.Duration) int {
	now := r.now()
	r.mu.Lock()
	var expired []*hostedView
	for id, h := range r.views {
		if h.idleSince(now) > idle {
			expired = append(expired, h)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()
	for _, h := range expired {
		h.view.Load().Unmount()
	}
	return len(expired)
}

// Run reaps idle views every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Reap(idle); n > 0 {
				log.Info().Int("views", n).Msg("unmounted idle views")
			}
		}
	}
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*hostedView)
	r.mu.Unlock()
	for _, h := range views {
		h.view.Load().Unmount()
	}
}
