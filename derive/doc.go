// Package derive computes ledger storage addresses and invite digests.
//
// Every record on the ledger lives under an address derived deterministically
// from a namespace tag, an optional owner identity key and optional extra
// seed bytes. Derivation is a pure function: no randomness, no network, no
// hidden state. Seed order is significant — the namespace is hashed first,
// then the owner key if present, then the extra seeds in call order — and any
// reordering silently produces a different address that will never match the
// ledger's, so the order here must never change.
//
// Invite digests give privacy-preserving indirect lookup: the address of an
// invite record is derived from a salted hash of (code, issuer) rather than
// from the plaintext code, so no index ever stores the code as a key. The
// salt is a fixed public constant for domain separation only; it is not a
// security boundary.
package derive
