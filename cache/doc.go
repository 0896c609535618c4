// Package cache provides the TTL-scoped in-memory store between the state
// client and the ledger.
//
// Each entity type gets its own sub-map with its own mutex and its own TTL
// from the construction-time policy table, so access to one type never
// contends with another. Expired entries are treated identically to absent
// ones and are deleted lazily on read; a background sweep additionally bounds
// memory by removing expired entries periodically, but correctness never
// depends on it.
//
// The store owns every entry it holds. Values go in and come out as plain
// values (decoders return structs by value), so callers can never mutate
// cached state through a returned reference.
package cache
