package tracker_test

import (
	"context"
	"errors"
	"iter"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/core/ports/mocks"
	"go.trai.ch/ripple/internal/engine/tracker"
	"go.uber.org/mock/gomock"
)

// eventStream returns an iter.Seq backed by a channel, so tests can feed
// watcher events to the tracker and end the stream by closing the channel.
func eventStream(ch chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range ch {
			if !yield(event) {
				return
			}
		}
	}
}

func newTrackerFixture(t *testing.T) (*tracker.Tracker, chan ports.WatchEvent) {
	t.Helper()
	ctrl := gomock.NewController(t)

	events := make(chan ports.WatchEvent)

	w := mocks.NewMockWatcher(ctrl)
	w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
	w.EXPECT().Events().Return(eventStream(events))
	w.EXPECT().Stop().Return(nil).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	factory := func() (ports.Watcher, error) { return w, nil }
	tr := tracker.New(factory, log, tracker.WithQuiescenceWindow(100*time.Millisecond))
	return tr, events
}

func TestTracker_ChangesAfterQuiescence(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		tr, events := newTrackerFixture(t)

		err := tr.StartWatching(context.Background(), "s1", "/workspace", nil)
		require.NoError(t, err)
		require.True(t, tr.IsWatching("s1"))

		since := time.Now()
		events <- ports.WatchEvent{Path: "/workspace/src/main.go", Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: "/workspace/src/util.go", Operation: ports.OpWrite}

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		got := tr.Changes("s1", since)
		assert.Equal(t, []string{"/workspace/src/main.go", "/workspace/src/util.go"}, got)

		close(events)
		tr.StopWatching("s1")
	})
}

func TestTracker_ChangesFlushesPendingWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		tr, events := newTrackerFixture(t)

		require.NoError(t, tr.StartWatching(context.Background(), "s1", "/workspace", nil))

		since := time.Now()
		events <- ports.WatchEvent{Path: "/workspace/a.go", Operation: ports.OpWrite}
		synctest.Wait()

		// The quiescence window has not elapsed; Changes must still see
		// the pending path because it flushes the debouncer first.
		got := tr.Changes("s1", since)
		assert.Equal(t, []string{"/workspace/a.go"}, got)

		close(events)
		tr.StopWatching("s1")
	})
}

func TestTracker_DuplicateEventsCollapse(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		tr, events := newTrackerFixture(t)

		require.NoError(t, tr.StartWatching(context.Background(), "s1", "/workspace", nil))

		since := time.Now()
		for range 5 {
			events <- ports.WatchEvent{Path: "/workspace/a.go", Operation: ports.OpWrite}
		}

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		got := tr.Changes("s1", since)
		assert.Equal(t, []string{"/workspace/a.go"}, got)

		close(events)
		tr.StopWatching("s1")
	})
}

func TestTracker_SinceFiltersOldChanges(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		tr, events := newTrackerFixture(t)

		require.NoError(t, tr.StartWatching(context.Background(), "s1", "/workspace", nil))

		events <- ports.WatchEvent{Path: "/workspace/old.go", Operation: ports.OpWrite}
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		// A cutoff after the batch landed excludes it
		cutoff := time.Now()
		assert.Empty(t, tr.Changes("s1", cutoff))

		events <- ports.WatchEvent{Path: "/workspace/new.go", Operation: ports.OpWrite}
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{"/workspace/new.go"}, tr.Changes("s1", cutoff))

		close(events)
		tr.StopWatching("s1")
	})
}

func TestTracker_PatternFiltering(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		tr, events := newTrackerFixture(t)

		err := tr.StartWatching(context.Background(), "s1", "/workspace", []string{"*.go"})
		require.NoError(t, err)

		since := time.Now()
		events <- ports.WatchEvent{Path: "/workspace/src/main.go", Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: "/workspace/notes.txt", Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: "/workspace/build.log", Operation: ports.OpCreate}

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		got := tr.Changes("s1", since)
		assert.Equal(t, []string{"/workspace/src/main.go"}, got)

		close(events)
		tr.StopWatching("s1")
	})
}

func TestTracker_ChangesUnknownSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	tr := tracker.New(func() (ports.Watcher, error) {
		return mocks.NewMockWatcher(ctrl), nil
	}, log)

	assert.Nil(t, tr.Changes("missing", time.Time{}))
	assert.False(t, tr.IsWatching("missing"))
}

func TestTracker_StopWatchingIdempotent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		tr, events := newTrackerFixture(t)

		require.NoError(t, tr.StartWatching(context.Background(), "s1", "/workspace", nil))
		close(events)
		synctest.Wait()

		tr.StopWatching("s1")
		assert.False(t, tr.IsWatching("s1"))

		// Stopping again, or stopping a session never watched, is a no-op
		tr.StopWatching("s1")
		tr.StopWatching("never-watched")
	})
}

func TestTracker_StartWatching_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	tr := tracker.New(func() (ports.Watcher, error) {
		t.Fatal("factory must not be called for a cancelled context")
		return nil, nil
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.StartWatching(ctx, "s1", "/workspace", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrWatchSetup.Error())
	assert.False(t, tr.IsWatching("s1"))
}

func TestTracker_StartWatching_FactoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	tr := tracker.New(func() (ports.Watcher, error) {
		return nil, errors.New("inotify limit reached")
	}, log)

	err := tr.StartWatching(context.Background(), "s1", "/workspace", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrWatchSetup.Error())
	assert.Contains(t, err.Error(), "inotify limit reached")
}

func TestTracker_StartWatching_StartError(t *testing.T) {
	ctrl := gomock.NewController(t)

	w := mocks.NewMockWatcher(ctrl)
	w.EXPECT().Start(gomock.Any(), "/workspace").Return(errors.New("permission denied"))
	w.EXPECT().Stop().Return(nil)

	log := mocks.NewMockLogger(ctrl)

	tr := tracker.New(func() (ports.Watcher, error) { return w, nil }, log)

	err := tr.StartWatching(context.Background(), "s1", "/workspace", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrWatchSetup.Error())
	assert.False(t, tr.IsWatching("s1"))
}
