package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/ZaK3939/minesol-go/core"
)

// DiscriminatorLength is the byte length of the account type tag that
// prefixes every record.
const DiscriminatorLength = 8

var (
	// ErrBadDiscriminator is returned when a record's leading bytes do not
	// match the expected account type tag.
	ErrBadDiscriminator = errors.New("codec: account discriminator mismatch")
	// ErrBadLength is returned when a record is not exactly the size its
	// layout requires.
	ErrBadLength = errors.New("codec: unexpected account length")
)

// discriminator derives the 8-byte tag for an account type. Uses the same
// hash family as address derivation so the whole scheme stays in one place.
func discriminator(tag string) [DiscriminatorLength]byte {
	sum := sha3.Sum256([]byte("account:" + tag))
	var d [DiscriminatorLength]byte
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

var (
	configDisc      = discriminator("mine_config")
	globalStateDisc = discriminator("global_state")
	minerDisc       = discriminator("miner")
	holdingDisc     = discriminator("holding")
	inviteDisc      = discriminator("invite")
)

// Layout sizes: discriminator plus fixed-width little-endian fields.
const (
	configSize      = DiscriminatorLength + 32 + 8 + 8 + 2 + 1
	globalStateSize = DiscriminatorLength + 8 + 8 + 8 + 8
	minerSize       = DiscriminatorLength + 32 + 32 + 8 + 8 + 8
	holdingSize     = DiscriminatorLength + 32 + 8 + 1
	inviteSize      = DiscriminatorLength + 32 + 32 + 4 + 4
)

func checkHeader(tag string, raw []byte, disc [DiscriminatorLength]byte, size int) error {
	if len(raw) != size {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrBadLength, tag, size, len(raw))
	}
	var got [DiscriminatorLength]byte
	copy(got[:], raw[:DiscriminatorLength])
	if got != disc {
		return fmt.Errorf("%w: not a %s account", ErrBadDiscriminator, tag)
	}
	return nil
}

// DecodeConfig parses a Config record.
func DecodeConfig(raw []byte) (Config, error) {
	if err := checkHeader("mine_config", raw, configDisc, configSize); err != nil {
		return Config{}, err
	}
	var c Config
	b := raw[DiscriminatorLength:]
	copy(c.Authority[:], b[:32])
	c.RewardRatePerSlot = binary.LittleEndian.Uint64(b[32:])
	c.HalvingInterval = binary.LittleEndian.Uint64(b[40:])
	c.TransferFeeBps = binary.LittleEndian.Uint16(b[48:])
	c.Paused = b[50] != 0
	return c, nil
}

// DecodeGlobalState parses a GlobalState record.
func DecodeGlobalState(raw []byte) (GlobalState, error) {
	if err := checkHeader("global_state", raw, globalStateDisc, globalStateSize); err != nil {
		return GlobalState{}, err
	}
	var g GlobalState
	b := raw[DiscriminatorLength:]
	g.TotalMined = binary.LittleEndian.Uint64(b[:8])
	g.CurrentEpoch = binary.LittleEndian.Uint64(b[8:])
	g.MinerCount = binary.LittleEndian.Uint64(b[16:])
	g.LastHalvingSlot = binary.LittleEndian.Uint64(b[24:])
	return g, nil
}

// DecodeMiner parses a Miner record.
func DecodeMiner(raw []byte) (Miner, error) {
	if err := checkHeader("miner", raw, minerDisc, minerSize); err != nil {
		return Miner{}, err
	}
	var m Miner
	b := raw[DiscriminatorLength:]
	copy(m.Owner[:], b[:32])
	copy(m.InvitedBy[:], b[32:64])
	m.PendingRewards = binary.LittleEndian.Uint64(b[64:])
	m.TotalClaimed = binary.LittleEndian.Uint64(b[72:])
	m.LastClaimSlot = binary.LittleEndian.Uint64(b[80:])
	return m, nil
}

// DecodeHolding parses a Holding record.
func DecodeHolding(raw []byte) (Holding, error) {
	if err := checkHeader("holding", raw, holdingDisc, holdingSize); err != nil {
		return Holding{}, err
	}
	var h Holding
	b := raw[DiscriminatorLength:]
	copy(h.Owner[:], b[:32])
	h.Amount = binary.LittleEndian.Uint64(b[32:])
	h.Decimals = b[40]
	return h, nil
}

// DecodeInvite parses an InviteRecord.
func DecodeInvite(raw []byte) (InviteRecord, error) {
	if err := checkHeader("invite", raw, inviteDisc, inviteSize); err != nil {
		return InviteRecord{}, err
	}
	var r InviteRecord
	b := raw[DiscriminatorLength:]
	copy(r.Issuer[:], b[:32])
	copy(r.Digest[:], b[32:64])
	r.Uses = binary.LittleEndian.Uint32(b[64:])
	r.MaxUses = binary.LittleEndian.Uint32(b[68:])
	return r, nil
}

// DefaultRegistry returns one decoder per entity type. Each decoder returns
// its value by value, satisfying the core.DecodeFunc contract.
func DefaultRegistry() map[core.EntityType]core.DecodeFunc {
	return map[core.EntityType]core.DecodeFunc{
		core.EntityConfig: func(raw []byte) (any, error) {
			return DecodeConfig(raw)
		},
		core.EntityGlobalState: func(raw []byte) (any, error) {
			return DecodeGlobalState(raw)
		},
		core.EntityMiner: func(raw []byte) (any, error) {
			return DecodeMiner(raw)
		},
		core.EntityHolding: func(raw []byte) (any, error) {
			return DecodeHolding(raw)
		},
		core.EntityInvite: func(raw []byte) (any, error) {
			return DecodeInvite(raw)
		},
	}
}
