package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder[V any] struct {
	mu   sync.Mutex
	seen []Command[V]
}

func (r *recorder[V]) commit(cmd Command[V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, cmd)
}

func (r *recorder[V]) values() []V {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]V, len(r.seen))
	for i, c := range r.seen {
		ret[i] = c.Value
	}
	return ret
}

func newTestDispatcher(window time.Duration) (*Dispatcher[int], *ManualClock) {
	clock := NewManualClock(time.Unix(0, 0))
	return New[int](window, WithClock(clock), WithName("test")), clock
}

func TestBurstCommitsOnlyLastValue(t *testing.T) {
	d, clock := newTestDispatcher(300 * time.Millisecond)
	rec := &recorder[int]{}

	d.Schedule(10, rec.commit)
	clock.Advance(100 * time.Millisecond)
	d.Schedule(20, rec.commit)
	clock.Advance(100 * time.Millisecond)
	d.Schedule(30, rec.commit)

	clock.Advance(299 * time.Millisecond)
	assert.Empty(t, rec.values())
	assert.True(t, d.Pending())
	v, ok := d.PendingValue()
	assert.True(t, ok)
	assert.Equal(t, 30, v)

	clock.Advance(time.Millisecond)
	assert.Equal(t, []int{30}, rec.values())
	assert.False(t, d.Pending())
	_, ok = d.PendingValue()
	assert.False(t, ok)

	clock.Advance(time.Second)
	assert.Equal(t, []int{30}, rec.values())
}

func TestSeparateWindowsCommitSeparately(t *testing.T) {
	d, clock := newTestDispatcher(50 * time.Millisecond)
	rec := &recorder[int]{}

	d.Schedule(1, rec.commit)
	clock.Advance(60 * time.Millisecond)
	d.Schedule(2, rec.commit)
	clock.Advance(60 * time.Millisecond)

	assert.Equal(t, []int{1, 2}, rec.values())
}

func TestSequenceStampedAtInputTime(t *testing.T) {
	seq := NewSequencer()
	clock := NewManualClock(time.Unix(0, 0))
	d := New[string](time.Second, WithClock(clock), WithSequencer(seq))
	rec := &recorder[string]{}

	first := d.Schedule("a", rec.commit)
	discrete := seq.Next()
	second := d.Schedule("b", rec.commit)
	require.Less(t, first, discrete)
	require.Less(t, discrete, second)

	clock.Advance(time.Second)
	require.Len(t, rec.seen, 1)
	assert.Equal(t, second, rec.seen[0].Seq)
	assert.Equal(t, second, seq.Current())
}

func TestCancelDiscards(t *testing.T) {
	d, clock := newTestDispatcher(100 * time.Millisecond)
	rec := &recorder[int]{}

	d.Schedule(1, rec.commit)
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
	clock.Advance(time.Second)
	assert.Empty(t, rec.values())
	assert.Equal(t, 0, clock.Waiting())
}

func TestFlushCommitsImmediately(t *testing.T) {
	d, clock := newTestDispatcher(100 * time.Millisecond)
	rec := &recorder[int]{}

	assert.False(t, d.Flush())
	d.Schedule(5, rec.commit)
	assert.True(t, d.Flush())
	assert.Equal(t, []int{5}, rec.values())

	clock.Advance(time.Second)
	assert.Equal(t, []int{5}, rec.values())
}

func TestCloseStopsEverything(t *testing.T) {
	d, clock := newTestDispatcher(100 * time.Millisecond)
	rec := &recorder[int]{}

	d.Schedule(1, rec.commit)
	d.Close()
	clock.Advance(time.Second)
	assert.Empty(t, rec.values())

	assert.Equal(t, uint64(0), d.Schedule(2, rec.commit))
	assert.False(t, d.Flush())
	clock.Advance(time.Second)
	assert.Empty(t, rec.values())
	d.Close()
}

func TestCloseWaitsForRunningCommit(t *testing.T) {
	d := New[int](time.Millisecond)
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	finished := false

	d.Schedule(1, func(Command[int]) {
		close(started)
		<-release
		mu.Lock()
		finished = true
		mu.Unlock()
	})
	<-started

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a commit was running")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-closed
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, finished)
}

func TestRealClockCommits(t *testing.T) {
	d := New[int](5 * time.Millisecond)
	done := make(chan int, 1)
	d.Schedule(42, func(c Command[int]) {
		done <- c.Value
	})
	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("debounced value never committed")
	}
}

func TestDefaultWindow(t *testing.T) {
	assert.Equal(t, DefaultWindow, New[int](0).Window())
}
