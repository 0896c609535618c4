package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaK3939/minesol-go/core"
)

func testTTLs() map[core.EntityType]time.Duration {
	return map[core.EntityType]time.Duration{
		core.EntityConfig: 5 * time.Minute,
		core.EntityMiner:  15 * time.Second,
	}
}

// newFrozen returns a store on a manual clock plus the function to advance it.
func newFrozen(t *testing.T, ttls map[core.EntityType]time.Duration) (*Store, func(time.Duration)) {
	t.Helper()
	s := New(ttls) // SweepInterval zero: no background goroutine
	t.Cleanup(s.Close)

	base := time.Unix(1_700_000_000, 0)
	cur := base
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return cur
	}
	advance := func(d time.Duration) {
		mu.Lock()
		cur = cur.Add(d)
		mu.Unlock()
	}
	return s, advance
}

func TestStoreTTLWindow(t *testing.T) {
	s, advance := newFrozen(t, testTTLs())
	key := core.OwnerKey(core.EntityMiner, []byte{0x01})
	s.Put(key, "v")

	// still valid just before expiry
	advance(15*time.Second - time.Millisecond)
	v, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "v", v)

	// absent just after
	advance(2 * time.Millisecond)
	_, ok = s.Get(key)
	assert.False(t, ok)

	// lazily evicted on that read
	assert.Equal(t, 0, s.Len())
}

func TestStoreTTLOverride(t *testing.T) {
	s, advance := newFrozen(t, testTTLs())
	key := core.OwnerKey(core.EntityMiner, []byte{0x02})
	s.PutTTL(key, "v", time.Minute)

	advance(30 * time.Second)
	_, ok := s.Get(key)
	assert.True(t, ok, "override must outlive the type TTL")
}

func TestStoreInvalidate(t *testing.T) {
	s, _ := newFrozen(t, testTTLs())
	key := core.OwnerKey(core.EntityMiner, []byte{0x03})
	s.Put(key, "v")

	s.Invalidate(key)
	_, ok := s.Get(key)
	assert.False(t, ok, "invalidate must win regardless of remaining TTL")

	// idempotent
	s.Invalidate(key)
}

func TestStoreInvalidateOwner(t *testing.T) {
	s, _ := newFrozen(t, map[core.EntityType]time.Duration{
		core.EntityConfig:  time.Minute,
		core.EntityMiner:   time.Minute,
		core.EntityHolding: time.Minute,
	})
	owner := []byte{0xAA}
	other := []byte{0xBB}

	s.Put(core.OwnerKey(core.EntityMiner, owner), "m")
	s.Put(core.OwnerKey(core.EntityHolding, owner), "h")
	s.Put(core.OwnerKey(core.EntityMiner, other), "m2")
	s.Put(core.GlobalKey(core.EntityConfig), "cfg")

	s.InvalidateOwner(core.OwnerKey(core.EntityMiner, owner).Scope)

	_, ok := s.Get(core.OwnerKey(core.EntityMiner, owner))
	assert.False(t, ok)
	_, ok = s.Get(core.OwnerKey(core.EntityHolding, owner))
	assert.False(t, ok)

	// unrelated scopes untouched
	_, ok = s.Get(core.OwnerKey(core.EntityMiner, other))
	assert.True(t, ok)
	_, ok = s.Get(core.GlobalKey(core.EntityConfig))
	assert.True(t, ok)
}

func TestStoreOverwrite(t *testing.T) {
	s, _ := newFrozen(t, testTTLs())
	key := core.GlobalKey(core.EntityConfig)

	s.Put(key, "old")
	s.Put(key, "new")

	v, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, s.Len())
}

func TestStoreUnknownTypeDropped(t *testing.T) {
	s, _ := newFrozen(t, testTTLs())
	key := core.GlobalKey(core.EntityGlobalState) // not in the TTL table

	s.Put(key, "v")
	_, ok := s.Get(key)
	assert.False(t, ok)
}

func TestStoreSweepRemovesExpired(t *testing.T) {
	s, advance := newFrozen(t, testTTLs())
	for i := 0; i < 10; i++ {
		s.Put(core.OwnerKey(core.EntityMiner, []byte{byte(i)}), i)
	}
	s.Put(core.GlobalKey(core.EntityConfig), "cfg")

	advance(20 * time.Second) // past miner TTL, within config TTL
	removed := s.sweep()

	assert.Equal(t, 10, removed)
	assert.Equal(t, 1, s.Len())
}

func TestStoreBackgroundSweep(t *testing.T) {
	s := New(map[core.EntityType]time.Duration{
		core.EntityMiner: 5 * time.Millisecond,
	}, func(o *Options) { o.SweepInterval = 10 * time.Millisecond })
	defer s.Close()

	s.Put(core.OwnerKey(core.EntityMiner, []byte{0x01}), "v")

	assert.Eventually(t, func() bool {
		return s.Stats().Expired >= 1
	}, time.Second, 10*time.Millisecond, "sweep should expire the entry without any read")
}

func TestStoreStats(t *testing.T) {
	s, advance := newFrozen(t, testTTLs())
	key := core.OwnerKey(core.EntityMiner, []byte{0x01})

	s.Get(key) // miss
	s.Put(key, "v")
	s.Get(key) // hit
	advance(16 * time.Second)
	s.Get(key) // expired: counts as expiry and miss

	st := s.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(2), st.Misses)
	assert.Equal(t, int64(1), st.Expired)
}

func TestStoreConcurrency(t *testing.T) {
	s := New(testTTLs())
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			owner := []byte(fmt.Sprintf("o%d", i%10))
			key := core.OwnerKey(core.EntityMiner, owner)
			s.Put(key, i)
			s.Get(key)
			if i%3 == 0 {
				s.Invalidate(key)
			}
			if i%7 == 0 {
				s.InvalidateOwner(key.Scope)
			}
		}()
	}
	wg.Wait()
}
