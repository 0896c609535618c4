package core

import (
	"encoding/hex"
	"fmt"
)

// AddressLength is the fixed byte length of every ledger storage key.
const AddressLength = 32

// Address is the fixed-length ledger storage key under which a record lives.
// It is a pure function of its derivation seeds (see the derive package):
// identical seeds always produce the identical address, and an Address is
// never mutated once computed. Being an array it is comparable and can be
// used directly as a map key.
type Address [AddressLength]byte

// AddressFromBytes copies b into an Address, rejecting any other length.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("address must be %d bytes, got %d", AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// String returns the hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the all-zero value.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Digest is a fixed-length hash output used as a derivation seed, most
// notably the salted invite digest. Like Address it is comparable and
// immutable once computed.
type Digest [32]byte

// String returns the hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
