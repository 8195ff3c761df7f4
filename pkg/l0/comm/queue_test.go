package comm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	for i := 0; i < 10; i++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := q.TryPop()
	require.False(t, ok)
	require.True(t, q.Empty())
}

func TestQueueBlockingPop(t *testing.T) {
	q := NewQueue[string]()
	done := make(chan string, 1)
	go func() {
		v, ok := q.Pop()
		require.True(t, ok)
		done <- v
	}()
	q.Push("hello")
	require.Equal(t, "hello", <-done)
}

func TestQueuePerProducerOrder(t *testing.T) {
	q := NewQueue[[2]int]()
	const producers, items = 4, 100
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < items; i++ {
				q.Push([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	var next [producers]int
	for n := 0; n < producers*items; n++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		require.Equal(t, next[v[0]], v[1], "producer %d out of order", v[0])
		next[v[0]]++
	}
}

func TestQueueCloseDrains(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Close()

	// remaining items survive close
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)
	v, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	// then Pop no longer blocks
	_, ok = q.Pop()
	require.False(t, ok)

	// push after close is discarded
	q.Push(3)
	_, ok = q.TryPop()
	require.False(t, ok)
}

func TestQueueCloseWakesBlocked(t *testing.T) {
	q := NewQueue[int]()
	done := make(chan struct{})
	go func() {
		_, ok := q.Pop()
		require.False(t, ok)
		close(done)
	}()
	q.Close()
	<-done
}
