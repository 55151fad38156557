package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_fifo(t *testing.T) {
	q := NewInMemoryQueue(4)
	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	assert.Equal(t, 2, q.Size())

	item, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, item)

	all, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{2}, all)
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_bounds(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Enqueue("a"))
	assert.ErrorIs(t, q.Enqueue("b"), ErrQueueFull)

	q.ClearQueue()
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	all, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInMemoryQueue_defaultSize(t *testing.T) {
	q := NewInMemoryQueue(0)
	assert.Equal(t, DefaultQueueSize, cap(q.ch))
}

func TestInMemoryQueue_concurrentEnqueue(t *testing.T) {
	q := NewInMemoryQueue(100)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, q.Enqueue(i*10+j))
			}
		}(i)
	}
	wg.Wait()

	all, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Len(t, all, 100)
}
