package tracking

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/rs/zerolog/log"
)

const (
	EventSession      uint16 = 0
	EventFilterChange uint16 = 1
)

type Tracker interface {
	TrackSession(sessionId string, r *http.Request)
	TrackFilterChange(sessionId string, data FilterChangeData)
	Close() error
}

type BaseEvent struct {
	EventId   string    `json:"event_id"`
	SessionId string    `json:"session_id"`
	Country   string    `json:"country,omitempty"`
	Context   string    `json:"context,omitempty"`
	Event     uint16    `json:"event"`
	Timestamp time.Time `json:"ts"`
}

func newBaseEvent(event uint16, sessionId, country string) *BaseEvent {
	return &BaseEvent{
		EventId:   uuid.NewString(),
		SessionId: sessionId,
		Country:   country,
		Context:   "b2c",
		Event:     event,
		Timestamp: time.Now().UTC(),
	}
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

func newSession(base *BaseEvent, r *http.Request) Session {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return Session{
		BaseEvent:    base,
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           ip,
		PragmaHeader: r.Header.Get("Pragma"),
	}
}

// FilterChangeData describes one committed filter change of a view.
type FilterChangeData struct {
	ViewId          string            `json:"view_id,omitempty"`
	Filters         types.FilterState `json:"filters"`
	Query           string            `json:"query"`
	NumberOfResults int               `json:"noi"`
	ActiveFilters   int               `json:"active_filters"`
}

type FilterChangeEvent struct {
	*BaseEvent
	FilterChangeData
}

// LogTracker writes events to the log. Used when no broker is configured.
type LogTracker struct {
	Country string
}

func (t LogTracker) TrackSession(sessionId string, r *http.Request) {
	s := newSession(newBaseEvent(EventSession, sessionId, t.Country), r)
	log.Debug().Str("session", sessionId).Str("ip", s.Ip).Msg("session")
}

func (t LogTracker) TrackFilterChange(sessionId string, data FilterChangeData) {
	log.Debug().
		Str("session", sessionId).
		Str("view", data.ViewId).
		Str("query", data.Query).
		Int("results", data.NumberOfResults).
		Msg("filter change")
}

func (LogTracker) Close() error {
	return nil
}

// MemoryTracker keeps events in memory.
type MemoryTracker struct {
	mu      sync.Mutex
	Country string
	events  []any
}

func (t *MemoryTracker) TrackSession(sessionId string, r *http.Request) {
	t.add(newSession(newBaseEvent(EventSession, sessionId, t.Country), r))
}

func (t *MemoryTracker) TrackFilterChange(sessionId string, data FilterChangeData) {
	t.add(FilterChangeEvent{BaseEvent: newBaseEvent(EventFilterChange, sessionId, t.Country), FilterChangeData: data})
}

func (t *MemoryTracker) add(e any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *MemoryTracker) Events() []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]any(nil), t.events...)
}

func (*MemoryTracker) Close() error {
	return nil
}
