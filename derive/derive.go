package derive

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/ZaK3939/minesol-go/core"
)

// Derivation namespaces, one per entity type. These tags are part of the
// on-ledger address scheme and must match the program exactly.
const (
	NamespaceConfig      = "mine_config"
	NamespaceGlobalState = "global_state"
	NamespaceMiner       = "miner"
	NamespaceHolding     = "holding"
	NamespaceInvite      = "invite"
)

// MaxSeedLength is the hard limit on the combined byte length of all seeds
// (namespace, owner key and extra seeds) for one derivation.
const MaxSeedLength = 512

// ErrSeedTooLong is returned when the combined seed length exceeds
// MaxSeedLength. This is a programmer error and is never retried.
var ErrSeedTooLong = fmt.Errorf("derive: combined seed length exceeds %d bytes", MaxSeedLength)

// Derive computes the ledger address for the given seeds. The hash input is
// namespace, then ownerKey if non-empty, then extraSeeds in call order. An
// empty ownerKey derives a global-scoped address.
func Derive(namespace string, ownerKey []byte, extraSeeds ...[]byte) (core.Address, error) {
	total := len(namespace) + len(ownerKey)
	for _, s := range extraSeeds {
		total += len(s)
	}
	if total > MaxSeedLength {
		return core.Address{}, ErrSeedTooLong
	}

	h := sha3.New256()
	h.Write([]byte(namespace))
	if len(ownerKey) > 0 {
		h.Write(ownerKey)
	}
	for _, s := range extraSeeds {
		h.Write(s)
	}

	var addr core.Address
	h.Sum(addr[:0])
	return addr, nil
}

// NamespaceFor maps an entity type to its derivation namespace.
func NamespaceFor(t core.EntityType) string {
	switch t {
	case core.EntityConfig:
		return NamespaceConfig
	case core.EntityGlobalState:
		return NamespaceGlobalState
	case core.EntityMiner:
		return NamespaceMiner
	case core.EntityHolding:
		return NamespaceHolding
	case core.EntityInvite:
		return NamespaceInvite
	default:
		return ""
	}
}

// ForEntity derives the address of an entity-typed record. Global types
// ignore ownerKey; per-owner types require it.
func ForEntity(t core.EntityType, ownerKey []byte, extraSeeds ...[]byte) (core.Address, error) {
	ns := NamespaceFor(t)
	if ns == "" {
		return core.Address{}, fmt.Errorf("derive: unknown entity type %d", t)
	}
	if t.Global() {
		return Derive(ns, nil, extraSeeds...)
	}
	if len(ownerKey) == 0 {
		return core.Address{}, fmt.Errorf("derive: entity type %s requires an owner key", t)
	}
	return Derive(ns, ownerKey, extraSeeds...)
}
