package client

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaK3939/minesol-go/codec"
	"github.com/ZaK3939/minesol-go/config"
	"github.com/ZaK3939/minesol-go/core"
	"github.com/ZaK3939/minesol-go/derive"
	"github.com/ZaK3939/minesol-go/internal/testutil"
)

func fastConfig() config.Config {
	c := config.Default()
	c.RetryCount = 0
	c.RetryBaseDelay = time.Millisecond
	c.SweepInterval = 0
	return c
}

func newTestClient(t *testing.T, reader *testutil.FakeReader) *Client {
	t.Helper()
	c, err := New(reader, func(o *Options) { o.Config = fastConfig() })
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func mustAddr(t *testing.T, typ core.EntityType, owner []byte) core.Address {
	t.Helper()
	addr, err := derive.ForEntity(typ, owner)
	require.NoError(t, err)
	return addr
}

// seedOwner populates the fake ledger with a full record set for one owner.
func seedOwner(t *testing.T, reader *testutil.FakeReader, owner []byte) {
	t.Helper()
	var o32 [32]byte
	copy(o32[:], owner)

	reader.WithRecord(mustAddr(t, core.EntityConfig, nil),
		codec.EncodeConfig(codec.Config{RewardRatePerSlot: 50, HalvingInterval: 210_000}))
	reader.WithRecord(mustAddr(t, core.EntityGlobalState, nil),
		codec.EncodeGlobalState(codec.GlobalState{TotalMined: 1_000_000, MinerCount: 10}))
	reader.WithRecord(mustAddr(t, core.EntityMiner, owner),
		codec.EncodeMiner(codec.Miner{Owner: o32, PendingRewards: 500}))
	reader.WithRecord(mustAddr(t, core.EntityHolding, owner),
		codec.EncodeHolding(codec.Holding{Owner: o32, Amount: 42, Decimals: 9}))
}

func testOwner() []byte { return bytes.Repeat([]byte{0x5A}, 32) }

func TestGetMinerStateFetchesAndMerges(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	seedOwner(t, reader, owner)
	c := newTestClient(t, reader)

	state, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)

	require.NotNil(t, state.Config)
	assert.Equal(t, uint64(50), state.Config.RewardRatePerSlot)
	require.NotNil(t, state.Global)
	assert.Equal(t, uint64(1_000_000), state.Global.TotalMined)
	require.NotNil(t, state.Miner)
	assert.Equal(t, uint64(500), state.Miner.PendingRewards)
	require.NotNil(t, state.Holding)
	assert.Equal(t, uint64(42), state.Holding.Amount)

	// all four addresses in a single batch call
	calls := reader.BatchCalls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0], 4)
}

func TestGetMinerStateIdempotentWithinTTL(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	seedOwner(t, reader, owner)
	c := newTestClient(t, reader)

	first, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)
	callsAfterFirst := reader.RemoteCalls()

	second, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, reader.RemoteCalls(), "second call within TTL must issue zero remote calls")
	assert.Equal(t, first.Miner.PendingRewards, second.Miner.PendingRewards)
}

func TestInvalidateAfterWriteRefetchesOnlyAffectedType(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	seedOwner(t, reader, owner)
	c := newTestClient(t, reader)

	_, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)

	// the transaction layer reports a claim: only the miner profile is stale
	c.InvalidateAfterWrite(owner, core.EntityMiner)

	reader.WithRecord(mustAddr(t, core.EntityMiner, owner),
		codec.EncodeMiner(codec.Miner{PendingRewards: 0, TotalClaimed: 500}))

	state, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), state.Miner.TotalClaimed, "must see the post-write value")

	// exactly one additional remote read, for the one invalidated type
	calls := reader.BatchCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, []core.Address{mustAddr(t, core.EntityMiner, owner)}, calls[1])
}

func TestInvalidateAfterWriteDefaultScope(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	seedOwner(t, reader, owner)
	c := newTestClient(t, reader)

	_, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)

	// no explicit types: all per-owner entries plus the global counter go
	c.OnWriteCommitted(owner)

	_, err = c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)

	calls := reader.BatchCalls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[1], 3, "miner, holding and global state refetched; config still cached")
}

func TestDecodeFailureIsAbsentNotFatal(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	seedOwner(t, reader, owner)
	// corrupt the holding record
	reader.WithRecord(mustAddr(t, core.EntityHolding, owner), []byte("garbage"))
	c := newTestClient(t, reader)

	state, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err, "decode failure must not fail the aggregate")
	assert.Nil(t, state.Holding)
	assert.NotNil(t, state.Miner)

	// not cached as a failure: the next call retries the fetch
	callsAfterFirst := reader.RemoteCalls()
	reader.WithRecord(mustAddr(t, core.EntityHolding, owner),
		codec.EncodeHolding(codec.Holding{Amount: 7}))
	state, err = c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, state.Holding)
	assert.Equal(t, uint64(7), state.Holding.Amount)
	assert.Greater(t, reader.RemoteCalls(), callsAfterFirst)
}

func TestAbsentRecordsYieldPartialState(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	// only global records exist; the owner never registered
	reader.WithRecord(mustAddr(t, core.EntityConfig, nil),
		codec.EncodeConfig(codec.Config{RewardRatePerSlot: 50}))
	reader.WithRecord(mustAddr(t, core.EntityGlobalState, nil),
		codec.EncodeGlobalState(codec.GlobalState{TotalMined: 9}))
	c := newTestClient(t, reader)

	state, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err, "absent records are a valid outcome, not an error")
	assert.NotNil(t, state.Config)
	assert.Nil(t, state.Miner)
	assert.Nil(t, state.Holding)
}

func TestTotalRemoteFailure(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	reader.FailAll()
	c := newTestClient(t, reader)

	// cold cache + unreachable remote: hard failure
	_, err := c.GetMinerState(context.Background(), owner)
	assert.Error(t, err)
}

func TestRemoteFailureServesCachedPartial(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := testOwner()
	seedOwner(t, reader, owner)
	c := newTestClient(t, reader)

	_, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err)

	// remote goes down and one type is invalidated; the rest still serves
	reader.SetFailAll(true)
	c.InvalidateAfterWrite(owner, core.EntityMiner)

	state, err := c.GetMinerState(context.Background(), owner)
	require.NoError(t, err, "cached fields must still be served best-effort")
	assert.Nil(t, state.Miner)
	assert.NotNil(t, state.Config)
	assert.NotNil(t, state.Holding)
}

func TestLookupInvite(t *testing.T) {
	reader := testutil.NewFakeReader()
	code := []byte("WELCOME1")
	issuer := bytes.Repeat([]byte{0x33}, 32)
	var i32 [32]byte
	copy(i32[:], issuer)

	addr, digest, err := derive.InviteAddress(code, issuer, nil)
	require.NoError(t, err)
	var d32 [32]byte
	copy(d32[:], digest[:])
	reader.WithRecord(addr, codec.EncodeInvite(codec.InviteRecord{
		Issuer: i32, Digest: d32, Uses: 1, MaxUses: 5,
	}))

	c := newTestClient(t, reader)

	rec, err := c.LookupInvite(context.Background(), code, issuer)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), rec.Remaining())

	// cached on the second lookup
	calls := reader.RemoteCalls()
	_, err = c.LookupInvite(context.Background(), code, issuer)
	require.NoError(t, err)
	assert.Equal(t, calls, reader.RemoteCalls())

	// a redemption invalidates it
	require.NoError(t, c.InvalidateInvite(code, issuer))
	_, err = c.LookupInvite(context.Background(), code, issuer)
	require.NoError(t, err)
	assert.Greater(t, reader.RemoteCalls(), calls)
}

func TestLookupInviteNotFound(t *testing.T) {
	reader := testutil.NewFakeReader()
	c := newTestClient(t, reader)

	_, err := c.LookupInvite(context.Background(), []byte("NOSUCH00"), bytes.Repeat([]byte{0x44}, 32))
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestGetMinerStateRequiresOwner(t *testing.T) {
	c := newTestClient(t, testutil.NewFakeReader())
	_, err := c.GetMinerState(context.Background(), nil)
	assert.Error(t, err)
}
