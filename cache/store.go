package cache

import (
	"sync"
	"time"

	"github.com/ZaK3939/minesol-go/core"
	"github.com/ZaK3939/minesol-go/logging"
)

// entry is one cached value. An entry is valid iff now-writtenAt < ttl; an
// expired entry is indistinguishable from an absent one to callers.
type entry struct {
	value     any
	writtenAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.writtenAt) >= e.ttl
}

// typeMap is the independent sub-store for one entity type.
type typeMap struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[core.EntityKey]entry
}

// Store is the TTL-scoped cache. Safe for concurrent use; each entity type's
// sub-map is guarded independently, so there is no global lock.
type Store struct {
	maps map[core.EntityType]*typeMap

	sweepInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once

	logger logging.Logger
	stats  stats
	now    func() time.Time
}

// Options configures a Store.
type Options struct {
	// SweepInterval is the period of the background expiry sweep. Zero
	// disables the sweep goroutine entirely.
	SweepInterval time.Duration
	// Logger defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// New builds a Store with one sub-map per entry of the TTL table. The table
// is copied; later mutation by the caller has no effect.
func New(ttls map[core.EntityType]time.Duration, optFns ...func(*Options)) *Store {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	maps := make(map[core.EntityType]*typeMap, len(ttls))
	for t, ttl := range ttls {
		maps[t] = &typeMap{ttl: ttl, entries: make(map[core.EntityKey]entry)}
	}

	s := &Store{
		maps:          maps,
		sweepInterval: opts.SweepInterval,
		done:          make(chan struct{}),
		logger:        opts.Logger,
		now:           time.Now,
	}
	if s.sweepInterval > 0 {
		go s.sweepLoop()
	}
	return s
}

// Get returns the cached value for key, or ok=false if it is missing or
// expired. An expired entry is deleted on the spot.
func (s *Store) Get(key core.EntityKey) (any, bool) {
	tm, ok := s.maps[key.Type]
	if !ok {
		return nil, false
	}

	tm.mu.RLock()
	e, ok := tm.entries[key]
	tm.mu.RUnlock()
	if !ok {
		s.stats.miss()
		return nil, false
	}

	if e.expired(s.now()) {
		tm.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the entry in the meantime.
		if cur, ok := tm.entries[key]; ok && cur.expired(s.now()) {
			delete(tm.entries, key)
		}
		tm.mu.Unlock()
		s.stats.expire()
		s.stats.miss()
		return nil, false
	}

	s.stats.hit()
	return e.value, true
}

// Put stores value under key with the entity type's configured TTL,
// overwriting any existing entry. Keys of unknown entity types are dropped.
func (s *Store) Put(key core.EntityKey, value any) {
	s.PutTTL(key, value, 0)
}

// PutTTL stores value with an explicit TTL override; ttl<=0 means the
// type's configured TTL.
func (s *Store) PutTTL(key core.EntityKey, value any, ttl time.Duration) {
	tm, ok := s.maps[key.Type]
	if !ok {
		return
	}
	if ttl <= 0 {
		ttl = tm.ttl
	}

	tm.mu.Lock()
	tm.entries[key] = entry{value: value, writtenAt: s.now(), ttl: ttl}
	tm.mu.Unlock()
}

// Invalidate removes the entry for key immediately, regardless of remaining
// TTL. Removing an absent key is a no-op.
func (s *Store) Invalidate(key core.EntityKey) {
	tm, ok := s.maps[key.Type]
	if !ok {
		return
	}
	tm.mu.Lock()
	delete(tm.entries, key)
	tm.mu.Unlock()
}

// InvalidateOwner removes, across all entity types, every entry scoped to
// the given owner scope string (see core.OwnerKey).
func (s *Store) InvalidateOwner(scope string) {
	if scope == "" {
		return
	}
	for _, tm := range s.maps {
		tm.mu.Lock()
		for k := range tm.entries {
			if k.Scope == scope {
				delete(tm.entries, k)
			}
		}
		tm.mu.Unlock()
	}
}

// Len reports the number of live (unexpired) entries across all types.
func (s *Store) Len() int {
	now := s.now()
	n := 0
	for _, tm := range s.maps {
		tm.mu.RLock()
		for _, e := range tm.entries {
			if !e.expired(now) {
				n++
			}
		}
		tm.mu.RUnlock()
	}
	return n
}

// Stats returns a snapshot of the hit/miss/expiry counters.
func (s *Store) Stats() StatsSnapshot {
	return s.stats.snapshot()
}

// Close stops the background sweep. The store remains usable afterwards;
// lazy eviction keeps reads correct without the sweep.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			removed := s.sweep()
			if removed > 0 {
				s.logger.Debug("cache sweep removed expired entries", "removed", removed)
			}
		}
	}
}

// sweep removes every expired entry across all sub-maps and returns how many
// it removed. Purely a memory bound; Get never returns expired values with
// or without it.
func (s *Store) sweep() int {
	now := s.now()
	removed := 0
	for _, tm := range s.maps {
		tm.mu.Lock()
		for k, e := range tm.entries {
			if e.expired(now) {
				delete(tm.entries, k)
				removed++
			}
		}
		tm.mu.Unlock()
	}
	if removed > 0 {
		s.stats.expireN(removed)
	}
	return removed
}
