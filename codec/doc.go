// Package codec defines the typed values of the mining program's ledger
// records and their binary layouts.
//
// Every account starts with an 8-byte discriminator derived from its type
// tag, followed by little-endian fixed-width fields. Decoders validate the
// discriminator and exact length before reading, and return values by value
// so cached copies can never be mutated through a caller's reference.
//
// DefaultRegistry wires one decoder per entity type; the state client
// installs it by default and callers may override individual entries for
// schema migrations or test doubles.
package codec
