package surface

import "sync"

// ScrollLock freezes page scrolling behind a modal surface.
type ScrollLock interface {
	Lock()
	Unlock()
}

// scopedLock holds a ScrollLock at most once. Release is idempotent.
type scopedLock struct {
	mu     sync.Mutex
	target ScrollLock
	held   bool
}

func (l *scopedLock) acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held || l.target == nil {
		return
	}
	l.target.Lock()
	l.held = true
}

func (l *scopedLock) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return
	}
	l.held = false
	l.target.Unlock()
}

func (l *scopedLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// MemoryScrollLock records lock state for hosts that render it themselves.
type MemoryScrollLock struct {
	mu     sync.Mutex
	depth  int
	locked int
}

func (m *MemoryScrollLock) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth++
	m.locked++
}

func (m *MemoryScrollLock) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depth > 0 {
		m.depth--
	}
}

func (m *MemoryScrollLock) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth > 0
}

// Acquisitions counts every Lock call.
func (m *MemoryScrollLock) Acquisitions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}
