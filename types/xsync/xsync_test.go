package xsync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatch(t *testing.T) {
	l := NewLatch()
	assert.False(t, l.Test())

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Wait()
		}()
	}
	l.Trigger()
	wg.Wait()
	assert.True(t, l.Test())

	// Re-triggering is a no-op.
	require.NotPanics(t, func() { l.Trigger() })

	select {
	case <-l.WaitChan():
	case <-time.After(time.Second):
		t.Fatal("WaitChan not closed after Trigger")
	}
}

func TestLatchWithValue(t *testing.T) {
	l := NewLatchWithValue[int]()
	assert.False(t, l.Test())

	results := make(chan int, 4)
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- l.Wait()
		}()
	}
	l.Trigger(42)
	l.Trigger(17) // Discarded: the first trigger wins.
	wg.Wait()
	close(results)
	for v := range results {
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 42, l.Wait())
}

func TestSyncMap(t *testing.T) {
	var m SyncMap[string, int]
	_, ok := m.Load("a")
	assert.False(t, ok)

	m.Store("a", 1)
	v, ok := m.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	actual, loaded := m.LoadOrStore("a", 2)
	assert.True(t, loaded)
	assert.Equal(t, 1, actual)
	actual, loaded = m.LoadOrStore("b", 2)
	assert.False(t, loaded)
	assert.Equal(t, 2, actual)

	count := 0
	m.Range(func(key string, value int) bool {
		count++
		return true
	})
	assert.Equal(t, 2, count)

	m.Delete("a")
	_, ok = m.Load("a")
	assert.False(t, ok)

	m.Clear()
	_, ok = m.Load("b")
	assert.False(t, ok)
}
