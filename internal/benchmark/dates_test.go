package benchmark

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateSequence_Next(t *testing.T) {
	seq := NewDateSequence(BaseDate)

	assert.Equal(t, BaseDate, seq.Next())
	assert.Equal(t, time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), seq.Next())
	assert.Equal(t, time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC), seq.Next())
}

func TestDateSequence_Concurrent(t *testing.T) {
	seq := NewDateSequence(BaseDate)
	const goroutines, perGoroutine = 8, 50

	var (
		mu   sync.Mutex
		seen = make(map[time.Time]bool)
		wg   sync.WaitGroup
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				d := seq.Next()
				mu.Lock()
				seen[d] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine, "every date is handed out once")
}
