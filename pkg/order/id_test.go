package order

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIDGeneratorFormat(t *testing.T) {
	id := NewDefaultIDGenerator().NewOrderID()
	assert.True(t, strings.HasPrefix(id, "ord_"), "id %q should carry the ord_ prefix", id)
	parts := strings.Split(id, "_")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[2], 12)
}

func TestDefaultIDGeneratorUniqueUnderConcurrency(t *testing.T) {
	const n = 1000
	gen := NewDefaultIDGenerator()

	ids := make(chan string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ids <- gen.NewOrderID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate order id %q", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
