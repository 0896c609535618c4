package derive

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/ZaK3939/minesol-go/core"
)

// CodeLength is the fixed byte length of an invite code.
const CodeLength = 8

// DefaultInviteSalt is the public domain-separation constant mixed into
// every invite digest. It keeps invite hashing separate from every other
// hash use in the system; it is not a secret.
var DefaultInviteSalt = []byte("minesol:invite:v1")

// ErrBadCodeLength is returned when an invite code is not exactly
// CodeLength bytes.
var ErrBadCodeLength = fmt.Errorf("derive: invite code must be %d bytes", CodeLength)

// HashInvite computes the salted invite digest for (code, issuer). The hash
// input is salt, then code, then issuer. A nil salt uses DefaultInviteSalt.
// The digest is deterministic, so anyone who knows the code and issuer can
// recompute the lookup address without a cleartext-code index existing
// anywhere.
func HashInvite(code []byte, issuer []byte, salt []byte) (core.Digest, error) {
	if len(code) != CodeLength {
		return core.Digest{}, ErrBadCodeLength
	}
	if salt == nil {
		salt = DefaultInviteSalt
	}

	h := sha3.New256()
	h.Write(salt)
	h.Write(code)
	h.Write(issuer)

	var d core.Digest
	h.Sum(d[:0])
	return d, nil
}

// InviteAddress derives the lookup address of the invite record for
// (code, issuer). The digest is the only scoping seed: the record is not
// owner-scoped so that redemption by a third party can resolve it too.
func InviteAddress(code []byte, issuer []byte, salt []byte) (core.Address, core.Digest, error) {
	d, err := HashInvite(code, issuer, salt)
	if err != nil {
		return core.Address{}, core.Digest{}, err
	}
	addr, err := Derive(NamespaceInvite, nil, d[:])
	if err != nil {
		return core.Address{}, core.Digest{}, err
	}
	return addr, d, nil
}
