package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/adapters/cache"
	"go.trai.ch/ripple/internal/core/ports"
)

func key(session, unit string) ports.ArtifactKey {
	return ports.ArtifactKey{SessionID: session, UnitID: unit}
}

func TestStore_PutGet(t *testing.T) {
	s := cache.NewStore()
	s.Put(key("s1", "core"), []byte("compiled"))

	a, ok := s.Get(key("s1", "core"))
	require.True(t, ok)
	assert.Equal(t, []byte("compiled"), a.Data)
	assert.NotZero(t, a.Digest)
	assert.False(t, a.StoredAt.IsZero())

	_, ok = s.Get(key("s1", "other"))
	assert.False(t, ok)
}

func TestStore_DigestStableForSameContent(t *testing.T) {
	s := cache.NewStore()
	s.Put(key("s1", "a"), []byte("same bytes"))
	s.Put(key("s1", "b"), []byte("same bytes"))

	a, _ := s.Get(key("s1", "a"))
	b, _ := s.Get(key("s1", "b"))
	assert.Equal(t, a.Digest, b.Digest)
}

func TestStore_Remove_Idempotent(t *testing.T) {
	s := cache.NewStore()
	s.Put(key("s1", "core"), []byte("x"))

	assert.True(t, s.Remove(key("s1", "core")))
	// Second removal of a missing entry is a no-op success.
	assert.False(t, s.Remove(key("s1", "core")))

	_, ok := s.Get(key("s1", "core"))
	assert.False(t, ok)
	assert.Equal(t, 0, s.Stats().Entries)
}

func TestStore_RemoveSession_OnlyTargetSession(t *testing.T) {
	s := cache.NewStore()
	s.Put(key("s1", "a"), []byte("x"))
	s.Put(key("s1", "b"), []byte("y"))
	s.Put(key("s2", "a"), []byte("z"))

	removed := s.RemoveSession("s1")
	assert.Equal(t, 2, removed)

	_, ok := s.Get(key("s2", "a"))
	assert.True(t, ok)

	stats := s.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.Sessions)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := cache.NewStore()
	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(2)
		unit := string(rune('a' + i))
		go func() {
			defer wg.Done()
			for range 100 {
				s.Put(key("s1", unit), []byte(unit))
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				s.Get(key("s1", unit))
				s.Remove(key("s1", unit))
			}
		}()
	}
	wg.Wait()
}
