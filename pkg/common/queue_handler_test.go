package common

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueHandlerBatchesAndFlushesOnStop(t *testing.T) {
	var mu sync.Mutex
	var batches [][]int
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2, time.Hour)

	q.Add(1, 2, 3)
	q.Add(4, 5)
	assert.Equal(t, 5, q.Len())
	q.Stop()
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, batches)
	assert.Equal(t, 0, q.Len())
}

func TestQueueHandlerDrainsOnTick(t *testing.T) {
	done := make(chan []string, 1)
	q := NewQueueHandler(func(items []string) {
		done <- items
	}, 10, 5*time.Millisecond)
	defer q.Stop()

	q.Add("a")
	select {
	case items := <-done:
		assert.Equal(t, []string{"a"}, items)
	case <-time.After(time.Second):
		t.Fatal("queue was never drained")
	}
}
