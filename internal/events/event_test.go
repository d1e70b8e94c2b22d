package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAndNotify(t *testing.T) {
	e := New[int]()

	var got []int
	e.Listen(func(v int) { got = append(got, v) })

	e.Notify(1)
	e.Notify(2)
	e.Notify(3)

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	e := New[string]()
	e.Notify("before")

	var got []string
	e.Listen(func(v string) { got = append(got, v) })

	e.Notify("after")
	assert.Equal(t, []string{"after"}, got)
}

func TestDeregister(t *testing.T) {
	e := New[int]()

	count := 0
	off := e.Listen(func(int) { count++ })
	e.Notify(1)
	off()
	e.Notify(2)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, e.ListenerCount())
}

func TestMultipleListeners(t *testing.T) {
	e := New[int]()

	a, b := 0, 0
	e.Listen(func(v int) { a += v })
	e.Listen(func(v int) { b += v })

	e.Notify(5)
	assert.Equal(t, 5, a)
	assert.Equal(t, 5, b)
	assert.Equal(t, 2, e.ListenerCount())
}

func TestNilCallbackPanics(t *testing.T) {
	e := New[int]()
	require.Panics(t, func() { e.Listen(nil) })
}

func TestListenerMayDeregisterItself(t *testing.T) {
	e := New[int]()

	count := 0
	var off func()
	off = e.Listen(func(int) {
		count++
		off()
	})

	e.Notify(1)
	e.Notify(2)
	assert.Equal(t, 1, count)
}

func TestConcurrentNotify(t *testing.T) {
	e := New[int]()

	var mu sync.Mutex
	total := 0
	e.Listen(func(v int) {
		mu.Lock()
		total += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Notify(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, total)
}
