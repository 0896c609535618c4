// Package client composes address derivation, the TTL cache and the batch
// fetch coordinator into the state synchronization façade.
//
// One Client answers "give me the full aggregate state for this owner" with
// as few remote round-trips as the cache allows, and invalidates cache
// entries when the external transaction layer reports a committed write. It
// owns no long-lived state beyond the cache store and coordinator it
// composes and can be recreated per connection or session.
//
// Failure philosophy: best-effort partials. A decode failure or an
// unreadable address leaves that field absent for this call and the rest of
// the aggregate proceeds; only total remote unreachability with an empty
// cache surfaces an error.
package client
