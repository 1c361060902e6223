package debounce

import "sync/atomic"

// Sequencer hands out strictly increasing numbers. Commands stamped from the
// same Sequencer can be ordered by the moment the input happened, no matter
// when they commit.
type Sequencer struct {
	n atomic.Uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

func (s *Sequencer) Next() uint64 {
	return s.n.Add(1)
}

func (s *Sequencer) Current() uint64 {
	return s.n.Load()
}
