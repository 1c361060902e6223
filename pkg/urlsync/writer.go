package urlsync

import (
	"sync"

	"github.com/matst80/slask-catalog/pkg/types"
)

// Writer replaces the current location's query string without adding a
// history entry.
type Writer interface {
	Replace(query string) error
}

// MemoryWriter keeps the last written query. Hosts that render the URL
// themselves read it back.
type MemoryWriter struct {
	mu     sync.Mutex
	query  string
	writes int
}

func (w *MemoryWriter) Replace(query string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.query = query
	w.writes++
	return nil
}

func (w *MemoryWriter) Query() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

func (w *MemoryWriter) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// Syncer writes the canonical query of committed states and skips writes
// that would not change it.
type Syncer struct {
	mu     sync.Mutex
	writer Writer
	last   string
}

func NewSyncer(w Writer, current string) *Syncer {
	return &Syncer{writer: w, last: current}
}

// Sync reports whether a write happened.
func (s *Syncer) Sync(state types.FilterState, bounds types.PriceRange) (bool, error) {
	query := Serialize(state, bounds)
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == s.last {
		return false, nil
	}
	if s.writer != nil {
		if err := s.writer.Replace(query); err != nil {
			return false, err
		}
	}
	s.last = query
	return true, nil
}

func (s *Syncer) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
