package debounce

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_BurstFiresOnce(t *testing.T) {
	d := New(30 * time.Millisecond)

	var calls atomic.Int32
	var mu sync.Mutex
	var lastValue string

	for i := 0; i < 5; i++ {
		value := fmt.Sprintf("query-%d", i)
		d.Schedule(func() {
			calls.Add(1)
			mu.Lock()
			lastValue = value
			mu.Unlock()
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load(), "a burst must coalesce into one invocation")
	mu.Lock()
	assert.Equal(t, "query-4", lastValue, "only the last scheduled function fires")
	mu.Unlock()
}

func TestDebouncer_SpacedCallsAllFire(t *testing.T) {
	d := New(10 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		d.Schedule(func() { calls.Add(1) })
		time.Sleep(50 * time.Millisecond)
	}

	assert.Equal(t, int32(3), calls.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	d := New(20 * time.Millisecond)

	var calls atomic.Int32
	d.Schedule(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncer_ScheduleAfterStop(t *testing.T) {
	d := New(10 * time.Millisecond)
	d.Stop()

	var calls atomic.Int32
	d.Schedule(func() { calls.Add(1) })

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}
