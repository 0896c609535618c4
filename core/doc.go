// Package core contains the shared domain contracts of minesol-go.
//
// The canonical types (Address, EntityType, EntityKey, Record, Request) and
// capability interfaces (RemoteReader, DecodeFunc) live here to avoid
// dependency cycles and keep domain contracts central. Implementation
// packages (derive, cache, batch, codec, client) depend on core and never on
// each other's concrete types, so storage, transport and decoding backends
// can be swapped without touching calling code.
package core
