package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeenKeys_MarkAndSeen(t *testing.T) {
	c := NewSeenKeys(time.Hour)

	assert.False(t, c.Seen("construction|2024-001|00"))

	c.Mark("construction|2024-001|00")

	assert.True(t, c.Seen("construction|2024-001|00"))
	assert.False(t, c.Seen("construction|2024-001|01")) // order is part of the key
}

func TestSeenKeys_Expiry(t *testing.T) {
	c := NewSeenKeys(50 * time.Millisecond)

	c.Mark("key")
	assert.True(t, c.Seen("key"))

	time.Sleep(80 * time.Millisecond)

	assert.False(t, c.Seen("key"))
}

func TestSeenKeys_DefaultTTL(t *testing.T) {
	c := NewSeenKeys(0)

	assert.Equal(t, time.Hour, c.ttl)
}

func TestSeenKeys_SizeAndClear(t *testing.T) {
	c := NewSeenKeys(time.Hour)

	c.Mark("a")
	c.Mark("b")
	c.Mark("a") // re-mark does not grow the set

	assert.Equal(t, 2, c.Size())

	c.Clear()

	assert.Equal(t, 0, c.Size())
	assert.False(t, c.Seen("a"))
}

func TestSeenKeys_ConcurrentAccess(t *testing.T) {
	c := NewSeenKeys(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%5)
			c.Mark(key)
			c.Seen(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Size())
}
