// Package testutil provides shared test fixtures: a scriptable in-memory
// RemoteReader that records every call it receives, and helpers for seeding
// it with encoded ledger records. Test-only; not part of the public API.
package testutil
