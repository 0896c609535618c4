package core

import "encoding/hex"

// EntityType identifies a semantic category of ledger record. Each type has
// its own cache TTL, its own derivation namespace and its own decoder.
type EntityType int

const (
	// EntityConfig is the program configuration record (reward rate,
	// halving interval, fees). Global scope, slow-changing.
	EntityConfig EntityType = iota
	// EntityGlobalState is the global mining counter record (total mined,
	// current epoch). Global scope.
	EntityGlobalState
	// EntityMiner is a per-owner miner profile record.
	EntityMiner
	// EntityHolding is a per-owner token holding record.
	EntityHolding
	// EntityInvite is an invite lookup record, keyed by the salted invite
	// digest rather than an owner.
	EntityInvite
)

// EntityTypes lists every known entity type, in declaration order.
var EntityTypes = []EntityType{
	EntityConfig,
	EntityGlobalState,
	EntityMiner,
	EntityHolding,
	EntityInvite,
}

// String returns the canonical lower-case name of the entity type.
func (t EntityType) String() string {
	switch t {
	case EntityConfig:
		return "config"
	case EntityGlobalState:
		return "global_state"
	case EntityMiner:
		return "miner"
	case EntityHolding:
		return "holding"
	case EntityInvite:
		return "invite"
	default:
		return "unknown"
	}
}

// Global reports whether records of this type are global-scoped, i.e. not
// bound to an owner identity.
func (t EntityType) Global() bool {
	return t == EntityConfig || t == EntityGlobalState
}

// EntityKey is the composite cache key: an entity type plus the scope the
// record belongs to. Scope is the hex-encoded owner key for per-identity
// types, the hex-encoded invite digest for invite records, and empty for
// global types. EntityKey is comparable and used directly as a map key.
type EntityKey struct {
	Type  EntityType
	Scope string
}

// GlobalKey returns the cache key for a global-scoped entity type.
func GlobalKey(t EntityType) EntityKey {
	return EntityKey{Type: t}
}

// OwnerKey returns the cache key for a per-identity record.
func OwnerKey(t EntityType, owner []byte) EntityKey {
	return EntityKey{Type: t, Scope: hex.EncodeToString(owner)}
}

// DigestKey returns the cache key for a record scoped by a digest, such as
// an invite lookup record.
func DigestKey(t EntityType, d Digest) EntityKey {
	return EntityKey{Type: t, Scope: d.String()}
}

// String renders the key as "type" or "type:scope" for logging.
func (k EntityKey) String() string {
	if k.Scope == "" {
		return k.Type.String()
	}
	return k.Type.String() + ":" + k.Scope
}
