// Package server hosts catalog views over HTTP. Hosts mount a view, forward
// user intents to its sidebar or drawer and render the returned snapshot.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/facet"
	"github.com/matst80/slask-catalog/pkg/search"
	"github.com/matst80/slask-catalog/pkg/tracking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	browseRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_browse_requests_total",
		Help: "Stateless browse requests",
	})
	intentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_intents_total",
		Help: "Intents dispatched to views",
	}, []string{"surface", "action"})
)

type Options struct {
	PageSize        int
	DebounceWindow  time.Duration
	AnnounceWindow  time.Duration
	SwipeThreshold  float64
	FetchTimeout    time.Duration
	ViewIdleTimeout time.Duration
	Hint            catalog.CacheHint
	// AnnouncementLimit bounds the live region history kept per view.
	AnnouncementLimit int
}

func (o *Options) defaults() {
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 5 * time.Second
	}
	if o.ViewIdleTimeout <= 0 {
		o.ViewIdleTimeout = 30 * time.Minute
	}
	if o.AnnouncementLimit <= 0 {
		o.AnnouncementLimit = 20
	}
}

type browseData struct {
	snapshot  *catalog.Snapshot
	index     *facet.Index
	suggester *search.Suggester
}

func newBrowseData(snap *catalog.Snapshot) *browseData {
	titles := make([]string, len(snap.Products))
	for i := range snap.Products {
		titles[i] = snap.Products[i].Title
	}
	return &browseData{
		snapshot:  snap,
		index:     facet.NewIndex(snap.Products, snap.Reference),
		suggester: search.NewSuggester(titles),
	}
}

type WebServer struct {
	Source   catalog.Source
	Tracking tracking.Tracker
	Views    *Registry
	opts     Options

	mu     sync.Mutex
	browse *browseData
}

func NewWebServer(source catalog.Source, tracker tracking.Tracker, opts Options) *WebServer {
	opts.defaults()
	if tracker == nil {
		tracker = tracking.LogTracker{}
	}
	return &WebServer{
		Source:   source,
		Tracking: tracker,
		Views:    NewRegistry(),
		opts:     opts,
	}
}

// catalogData returns the shared catalog used by browse requests. Fallback
// loads are not kept so the next request retries the source.
func (ws *WebServer) catalogData(ctx context.Context) *browseData {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.browse != nil {
		return ws.browse
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ws.opts.FetchTimeout)
	defer cancel()
	snap := catalog.Load(ctx, ws.Source, ws.opts.Hint)
	data := newBrowseData(snap)
	if !snap.Fallback {
		ws.browse = data
	}
	return data
}

// Invalidate drops the shared catalog. Mounted views keep what they loaded.
func (ws *WebServer) Invalidate() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.browse = nil
}

func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("/api/browse", ws.Browse)
	mux.HandleFunc("/api/suggest", ws.Suggest)
	mux.HandleFunc("/api/views", ws.MountView)
	mux.HandleFunc("/api/views/{id}", ws.View)
	mux.HandleFunc("/api/views/{id}/intents", ws.Intent)
	mux.HandleFunc("/api/views/{id}/drawer", ws.DrawerEvent)
	mux.HandleFunc("/api/views/{id}/announcements", ws.Announcements)
	return mux
}

// Close unmounts every view and flushes tracking.
func (ws *WebServer) Close(ctx context.Context) error {
	ws.Views.CloseAll()
	return ws.Tracking.Close()
}
