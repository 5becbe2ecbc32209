package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_StartsAtStart(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)
	assert.True(t, clock.Now().Equal(start))
}

func TestManualClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	got := clock.Advance(90 * time.Minute)
	assert.True(t, got.Equal(start.Add(90*time.Minute)))
	assert.True(t, clock.Now().Equal(got))

	// Moving backwards is allowed
	clock.Set(start.Add(-time.Hour))
	assert.True(t, clock.Now().Equal(start.Add(-time.Hour)))
}

func TestManualClock_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.True(t, clock.Now().Equal(start.Add(100*time.Second)))
}
