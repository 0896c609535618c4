// Package logging provides a minimal logging interface and adapters for
// minesol-go.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the cache, batch coordinator and state client use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - SyncLogger with contextual helpers for components, owners and fetches
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
