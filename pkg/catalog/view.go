package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/slask-catalog/pkg/surface"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var ErrViewClosed = errors.New("view is unmounted")

var mountedViews = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "slaskcatalog_mounted_views",
	Help: "Catalog views currently mounted",
})

type ViewOptions struct {
	Surface surface.Options
	Hint    CacheHint
	// Query is the address bar query applied once the catalog is loaded.
	Query        string
	FetchTimeout time.Duration
}

// View is one mounted catalog page. The catalog is fetched in the
// background; the controller is usable at once and fills in when the fetch
// completes.
type View struct {
	Id string

	ctrl   *surface.Controller
	cancel context.CancelFunc
	ready  chan struct{}

	mu       sync.Mutex
	closed   bool
	snapshot *Snapshot
}

// Mount starts a view over src. ctx bounds the fetch only.
func Mount(ctx context.Context, src Source, opts ViewOptions) *View {
	if opts.Surface.InitialQuery == "" {
		opts.Surface.InitialQuery = opts.Query
	}
	var (
		fetchCtx context.Context
		cancel   context.CancelFunc
	)
	if opts.FetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, opts.FetchTimeout)
	} else {
		fetchCtx, cancel = context.WithCancel(ctx)
	}
	v := &View{
		Id:     uuid.NewString(),
		ctrl:   surface.NewController(opts.Surface),
		cancel: cancel,
		ready:  make(chan struct{}),
	}
	mountedViews.Inc()
	go v.load(fetchCtx, src, opts)
	return v
}

func (v *View) load(ctx context.Context, src Source, opts ViewOptions) {
	defer close(v.ready)
	snap := Load(ctx, src, opts.Hint)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.snapshot = snap
	v.ctrl.SetCatalog(snap.Products, snap.Reference)
	v.ctrl.Hydrate(opts.Query)
	log.Debug().Str("view", v.Id).Int("products", len(snap.Products)).Bool("fallback", snap.Fallback).Msg("view loaded")
}

// Ready is closed once the catalog load finished or was abandoned.
func (v *View) Ready() <-chan struct{} {
	return v.ready
}

// Wait blocks until the view is loaded.
func (v *View) Wait(ctx context.Context) error {
	select {
	case <-v.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	return nil
}

func (v *View) Controller() *surface.Controller {
	return v.ctrl
}

// Loaded reports whether the fetch has completed and whether the fallback
// dataset is in use.
func (v *View) Loaded() (loaded bool, fallback bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.snapshot == nil {
		return false, false
	}
	return true, v.snapshot.Fallback
}

// Unmount cancels the fetch and tears down the controller. Safe to call more
// than once.
func (v *View) Unmount() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.closed = true
	v.mu.Unlock()

	v.cancel()
	v.ctrl.Teardown()
	mountedViews.Dec()
	return nil
}
