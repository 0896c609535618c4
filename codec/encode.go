package codec

import "encoding/binary"

// Encoders mirror the decode layouts. The client never writes records (the
// transaction layer owns writes), but fixtures, examples and downstream
// tooling need to produce wire-exact bytes.

// EncodeConfig renders a Config record.
func EncodeConfig(c Config) []byte {
	b := make([]byte, 0, configSize)
	b = append(b, configDisc[:]...)
	b = append(b, c.Authority[:]...)
	b = binary.LittleEndian.AppendUint64(b, c.RewardRatePerSlot)
	b = binary.LittleEndian.AppendUint64(b, c.HalvingInterval)
	b = binary.LittleEndian.AppendUint16(b, c.TransferFeeBps)
	if c.Paused {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	return b
}

// EncodeGlobalState renders a GlobalState record.
func EncodeGlobalState(g GlobalState) []byte {
	b := make([]byte, 0, globalStateSize)
	b = append(b, globalStateDisc[:]...)
	b = binary.LittleEndian.AppendUint64(b, g.TotalMined)
	b = binary.LittleEndian.AppendUint64(b, g.CurrentEpoch)
	b = binary.LittleEndian.AppendUint64(b, g.MinerCount)
	b = binary.LittleEndian.AppendUint64(b, g.LastHalvingSlot)
	return b
}

// EncodeMiner renders a Miner record.
func EncodeMiner(m Miner) []byte {
	b := make([]byte, 0, minerSize)
	b = append(b, minerDisc[:]...)
	b = append(b, m.Owner[:]...)
	b = append(b, m.InvitedBy[:]...)
	b = binary.LittleEndian.AppendUint64(b, m.PendingRewards)
	b = binary.LittleEndian.AppendUint64(b, m.TotalClaimed)
	b = binary.LittleEndian.AppendUint64(b, m.LastClaimSlot)
	return b
}

// EncodeHolding renders a Holding record.
func EncodeHolding(h Holding) []byte {
	b := make([]byte, 0, holdingSize)
	b = append(b, holdingDisc[:]...)
	b = append(b, h.Owner[:]...)
	b = binary.LittleEndian.AppendUint64(b, h.Amount)
	b = append(b, h.Decimals)
	return b
}

// EncodeInvite renders an InviteRecord.
func EncodeInvite(r InviteRecord) []byte {
	b := make([]byte, 0, inviteSize)
	b = append(b, inviteDisc[:]...)
	b = append(b, r.Issuer[:]...)
	b = append(b, r.Digest[:]...)
	b = binary.LittleEndian.AppendUint32(b, r.Uses)
	b = binary.LittleEndian.AppendUint32(b, r.MaxUses)
	return b
}
