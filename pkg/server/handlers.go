package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/matst80/slask-catalog/pkg/announce"
	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/query"
	"github.com/matst80/slask-catalog/pkg/surface"
	"github.com/matst80/slask-catalog/pkg/tracking"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/matst80/slask-catalog/pkg/urlsync"
)

var (
	errNotFound         = common.NewHttpError(http.StatusNotFound, "view not found", nil)
	errMethodNotAllowed = common.NewHttpError(http.StatusMethodNotAllowed, "method not allowed", nil)
)

func requireMethod(r *http.Request, methods ...string) error {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return errMethodNotAllowed
}

// Browse answers a query string without mounting a view.
func (ws *WebServer) Browse(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		if err := requireMethod(r, http.MethodGet); err != nil {
			return nil, err
		}
		browseRequests.Inc()
		data := ws.catalogData(r.Context())
		ref := data.snapshot.Reference
		state := urlsync.Deserialize(r.URL.RawQuery, ref)
		w.Header().Set("Cache-Control", "public, stale-while-revalidate=120")
		return BrowseResponse{
			State:         state,
			Result:        query.Apply(data.snapshot.Products, state, ws.pageSize()),
			Facets:        data.index.Summary(state),
			Query:         urlsync.Serialize(state, ref.PriceBounds()),
			ActiveFilters: state.ActiveFilterCount(ref.PriceBounds()),
			Fallback:      data.snapshot.Fallback,
		}, nil
	})(w, r)
}

// Suggest completes the last word of the q parameter.
func (ws *WebServer) Suggest(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		if err := requireMethod(r, http.MethodGet); err != nil {
			return nil, err
		}
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit < 1 {
			limit = 10
		}
		w.Header().Set("Cache-Control", "public, stale-while-revalidate=120")
		return ws.catalogData(r.Context()).suggester.Suggest(r.URL.Query().Get("q"), limit), nil
	})(w, r)
}

func (ws *WebServer) pageSize() int {
	if ws.opts.PageSize > 0 {
		return ws.opts.PageSize
	}
	return query.DefaultPageSize
}

func (ws *WebServer) mount(sessionId, rawQuery string) *hostedView {
	h := &hostedView{
		sessionId: sessionId,
		url:       &urlsync.MemoryWriter{},
		region:    announce.NewMemoryRegion(ws.opts.AnnouncementLimit),
		lock:      &surface.MemoryScrollLock{},
	}
	window := ws.opts.AnnounceWindow
	h.announcer = announce.NewHolder(func() *announce.Announcer {
		if window > 0 {
			return announce.New(h.region, announce.WithWindow(window))
		}
		return announce.New(h.region)
	})
	opts := catalog.ViewOptions{
		Hint:         ws.opts.Hint,
		Query:        rawQuery,
		FetchTimeout: ws.opts.FetchTimeout,
		Surface: surface.Options{
			PageSize:       ws.opts.PageSize,
			DebounceWindow: ws.opts.DebounceWindow,
			SwipeThreshold: ws.opts.SwipeThreshold,
			URL:            h.url,
			ScrollLock:     h.lock,
			Announcer:      h.announcer,
			Callbacks: surface.Callbacks{
				OnFilterChange: func(state types.FilterState) {
					ws.trackFilterChange(h, state)
				},
			},
		},
	}
	h.view.Store(catalog.Mount(context.Background(), ws.Source, opts))
	ws.Views.add(h)
	return h
}

func (ws *WebServer) trackFilterChange(h *hostedView, state types.FilterState) {
	data := tracking.FilterChangeData{Filters: state}
	// changes applied while the view is still being mounted carry the
	// filters only
	if v := h.view.Load(); v != nil {
		c := v.Controller()
		data.ViewId = v.Id
		data.Query = c.Query()
		data.NumberOfResults = c.Result().TotalCount
		data.ActiveFilters = state.ActiveFilterCount(c.Reference().PriceBounds())
	}
	ws.Tracking.TrackFilterChange(h.sessionId, data)
}

func viewResponse(h *hostedView) ViewResponse {
	v := h.view.Load()
	loaded, fallback := v.Loaded()
	return ViewResponse{
		Id:       v.Id,
		Loaded:   loaded,
		Fallback: fallback,
		View:     v.Controller().Snapshot(),
	}
}

// MountView mounts a view and waits for its catalog unless the request is
// cancelled first.
func (ws *WebServer) MountView(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		if err := requireMethod(r, http.MethodPost); err != nil {
			return nil, err
		}
		req := MountRequest{}
		if r.ContentLength != 0 {
			if err := common.DecodeJson(r, &req); err != nil {
				return nil, err
			}
		}
		sessionId, created := common.HandleSessionCookie(w, r)
		if created {
			ws.Tracking.TrackSession(sessionId, r)
		}
		h := ws.mount(sessionId, strings.TrimPrefix(req.Query, "?"))
		if err := h.view.Load().Wait(r.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
		w.Header().Set("Location", "/api/views/"+h.view.Load().Id)
		w.Header().Set("Cache-Control", "no-store")
		return common.WithStatus{Status: http.StatusCreated, Data: viewResponse(h)}, nil
	})(w, r)
}

func (ws *WebServer) lookup(r *http.Request) (*hostedView, error) {
	h, ok := ws.Views.get(r.PathValue("id"))
	if !ok {
		return nil, errNotFound
	}
	if err := h.view.Load().Wait(r.Context()); err != nil {
		if errors.Is(err, catalog.ErrViewClosed) {
			return nil, errNotFound
		}
		return nil, err
	}
	return h, nil
}

// View returns the snapshot of a view on GET and unmounts it on DELETE.
func (ws *WebServer) View(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		if err := requireMethod(r, http.MethodGet, http.MethodDelete); err != nil {
			return nil, err
		}
		if r.Method == http.MethodDelete {
			if !ws.Views.remove(r.PathValue("id")) {
				return nil, errNotFound
			}
			return nil, nil
		}
		h, err := ws.lookup(r)
		if err != nil {
			return nil, err
		}
		w.Header().Set("Cache-Control", "no-store")
		return viewResponse(h), nil
	})(w, r)
}

func mapSurfaceError(err error) error {
	switch {
	case errors.Is(err, surface.ErrInvalidIntent):
		return common.NewHttpError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, surface.ErrNotEditable):
		return common.NewHttpError(http.StatusConflict, err.Error(), err)
	case errors.Is(err, surface.ErrClosed):
		return errNotFound
	}
	return err
}

// Intent dispatches one edit to the sidebar or the drawer.
func (ws *WebServer) Intent(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		if err := requireMethod(r, http.MethodPost); err != nil {
			return nil, err
		}
		req := IntentRequest{}
		if err := common.DecodeJson(r, &req); err != nil {
			return nil, err
		}
		h, err := ws.lookup(r)
		if err != nil {
			return nil, err
		}
		c := h.view.Load().Controller()
		var editor surface.Editor
		switch req.Surface {
		case "", "sidebar":
			editor = c.Sidebar()
		case "drawer":
			editor = c.Drawer()
		default:
			return nil, common.NewHttpError(http.StatusBadRequest, "unknown surface "+req.Surface, nil)
		}
		if err := surface.HandleIntent(editor, req.Intent); err != nil {
			return nil, mapSurfaceError(err)
		}
		intentRequests.WithLabelValues(surfaceName(req.Surface), req.Intent.Action).Inc()
		if req.Flush {
			c.Sidebar().FlushPrice()
		}
		w.Header().Set("Cache-Control", "no-store")
		return viewResponse(h), nil
	})(w, r)
}

func surfaceName(s string) string {
	if s == "" {
		return "sidebar"
	}
	return s
}

// DrawerEvent drives the drawer state machine.
func (ws *WebServer) DrawerEvent(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		if err := requireMethod(r, http.MethodPost); err != nil {
			return nil, err
		}
		ev := surface.DrawerEvent{}
		if err := common.DecodeJson(r, &ev); err != nil {
			return nil, err
		}
		h, err := ws.lookup(r)
		if err != nil {
			return nil, err
		}
		accepted, err := h.view.Load().Controller().Drawer().HandleEvent(ev)
		if err != nil {
			return nil, mapSurfaceError(err)
		}
		w.Header().Set("Cache-Control", "no-store")
		return DrawerResponse{Accepted: accepted, ViewResponse: viewResponse(h)}, nil
	})(w, r)
}

// Announcements returns what the view's live region has spoken.
func (ws *WebServer) Announcements(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		if err := requireMethod(r, http.MethodGet); err != nil {
			return nil, err
		}
		h, err := ws.lookup(r)
		if err != nil {
			return nil, err
		}
		if r.URL.Query().Get("flush") != "" {
			h.announcer.Get().Flush()
		}
		w.Header().Set("Cache-Control", "no-store")
		messages := h.region.Messages()
		if messages == nil {
			messages = []announce.Message{}
		}
		return AnnouncementsResponse{Messages: messages}, nil
	})(w, r)
}
