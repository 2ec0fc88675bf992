package tracker_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/engine/tracker"
)

func TestNewDebouncer(t *testing.T) {
	tests := []struct {
		name     string
		window   time.Duration
		callback func([]string)
	}{
		{
			name:     "with callback",
			window:   100 * time.Millisecond,
			callback: func([]string) {},
		},
		{
			name:     "with nil callback",
			window:   50 * time.Millisecond,
			callback: nil,
		},
		{
			name:     "with zero window",
			window:   0,
			callback: func([]string) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tracker.NewDebouncer(tt.window, tt.callback)
			require.NotNil(t, d)
		})
	}
}

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := tracker.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/workspace/src/main.go")

		// Advance time past the quiescence window
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/workspace/src/main.go", receivedPaths[0])
	})
}

func TestDebouncer_Add_MultiplePathsCoalesced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := tracker.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/workspace/src/file2.go")
		d.Add("/workspace/src/file1.go")
		d.Add("/workspace/src/file3.go")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		// One callback with all paths, in sorted order
		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{
			"/workspace/src/file1.go",
			"/workspace/src/file2.go",
			"/workspace/src/file3.go",
		}, receivedPaths)
	})
}

func TestDebouncer_Add_DuplicatePaths(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := tracker.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/workspace/src/main.go")
		d.Add("/workspace/src/main.go")
		d.Add("/workspace/src/main.go")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/workspace/src/main.go", receivedPaths[0])
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var mu sync.Mutex

		d := tracker.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		// First add starts the timer
		d.Add("/workspace/src/file1.go")
		time.Sleep(50 * time.Millisecond)

		// Second add resets the timer
		d.Add("/workspace/src/file2.go")
		time.Sleep(50 * time.Millisecond)

		// 100ms from the first add: if the timer had not been reset the
		// callback would have fired by now.
		synctest.Wait()
		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := tracker.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/workspace/src/file1.go")
		d.Add("/workspace/src/file2.go")

		// Flush before the timer fires: delivery is synchronous
		d.Flush()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{
			"/workspace/src/file1.go",
			"/workspace/src/file2.go",
		}, receivedPaths)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var callCount int

	d := tracker.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := tracker.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/workspace/src/file1.go")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)

		// Flush after the timer already fired must not deliver twice
		d.Flush()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Flush_AtWindowBoundary(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := tracker.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/workspace/src/file1.go")

		// Sleep exactly one window: the timer is expiring right now, racing
		// the flush. Whoever wins the race must have delivered by the time
		// Flush returns, never neither.
		time.Sleep(100 * time.Millisecond)
		d.Flush()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/workspace/src/file1.go"}, receivedPaths)

		// The losing side finds the pending set empty: no second delivery
		synctest.Wait()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := tracker.NewDebouncer(50*time.Millisecond, nil)

		// Must not panic
		d.Add("/workspace/src/file1.go")
		d.Add("/workspace/src/file2.go")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}

func TestDebouncer_Add_AfterFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := tracker.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/workspace/src/file1.go")
		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)

		d.Add("/workspace/src/file2.go")
		d.Add("/workspace/src/file3.go")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 2, callCount)
		assert.Equal(t, []string{
			"/workspace/src/file2.go",
			"/workspace/src/file3.go",
		}, receivedPaths)
	})
}

func TestDebouncer_Flush_ClearsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := tracker.NewDebouncer(100*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/workspace/src/file1.go")
		d.Flush()

		require.Equal(t, 1, callCount)

		// The original timer must not deliver a second batch
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 1, callCount)
	})
}
