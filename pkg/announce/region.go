package announce

import (
	"slices"
	"sync"
	"time"
)

type Priority int

const (
	Polite Priority = iota
	Assertive
)

func (p Priority) String() string {
	if p == Assertive {
		return "assertive"
	}
	return "polite"
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// LiveRegion is where assistive technology picks up spoken text.
type LiveRegion interface {
	Speak(message string, priority Priority)
}

type Message struct {
	Text     string    `json:"text"`
	Priority Priority  `json:"priority"`
	At       time.Time `json:"at"`
}

// MemoryRegion keeps the most recent spoken messages for hosts that render
// the live region themselves.
type MemoryRegion struct {
	mu       sync.Mutex
	limit    int
	messages []Message
}

func NewMemoryRegion(limit int) *MemoryRegion {
	if limit < 1 {
		limit = 20
	}
	return &MemoryRegion{limit: limit}
}

func (r *MemoryRegion) Speak(message string, priority Priority) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Text: message, Priority: priority, At: time.Now()})
	if over := len(r.messages) - r.limit; over > 0 {
		r.messages = slices.Delete(r.messages, 0, over)
	}
}

func (r *MemoryRegion) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

func (r *MemoryRegion) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
