package codec

// Config is the program configuration record: governance-controlled
// parameters that change on the order of minutes to days.
type Config struct {
	Authority         [32]byte
	RewardRatePerSlot uint64
	HalvingInterval   uint64
	TransferFeeBps    uint16
	Paused            bool
}

// GlobalState is the global mining counter record.
type GlobalState struct {
	TotalMined      uint64
	CurrentEpoch    uint64
	MinerCount      uint64
	LastHalvingSlot uint64
}

// Miner is a per-owner mining profile.
type Miner struct {
	Owner          [32]byte
	InvitedBy      [32]byte
	PendingRewards uint64
	TotalClaimed   uint64
	LastClaimSlot  uint64
}

// Holding is a per-owner token holding record.
type Holding struct {
	Owner    [32]byte
	Amount   uint64
	Decimals uint8
}

// InviteRecord is the privacy-preserving invite lookup record. It stores the
// salted digest, never the plaintext code.
type InviteRecord struct {
	Issuer  [32]byte
	Digest  [32]byte
	Uses    uint32
	MaxUses uint32
}

// Remaining reports how many redemptions the invite has left.
func (r InviteRecord) Remaining() uint32 {
	if r.Uses >= r.MaxUses {
		return 0
	}
	return r.MaxUses - r.Uses
}
