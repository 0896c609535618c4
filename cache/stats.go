package cache

import "sync/atomic"

// stats holds the store's counters. All methods are safe for concurrent use.
type stats struct {
	hits    atomic.Int64
	misses  atomic.Int64
	expired atomic.Int64
}

func (s *stats) hit()          { s.hits.Add(1) }
func (s *stats) miss()         { s.misses.Add(1) }
func (s *stats) expire()       { s.expired.Add(1) }
func (s *stats) expireN(n int) { s.expired.Add(int64(n)) }

func (s *stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Expired: s.expired.Load(),
	}
}

// StatsSnapshot is a point-in-time copy of the store counters. Expired
// counts entries removed either lazily on read or by the background sweep;
// every expiry on read also counts as a miss.
type StatsSnapshot struct {
	Hits    int64
	Misses  int64
	Expired int64
}
