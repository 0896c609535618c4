package minesol

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

func TestFacadeRoundTrip(t *testing.T) {
	reader := testutil.NewFakeReader()
	owner := bytes.Repeat([]byte{0x66}, 32)

	minerAddr, err := derive.ForEntity(core.EntityMiner, owner)
	require.NoError(t, err)
	reader.WithRecord(minerAddr, codec.EncodeMiner(codec.Miner{PendingRewards: 123}))

	cfg := config.Default()
	cfg.RetryCount = 0
	cfg.RetryBaseDelay = time.Millisecond

	m, err := New(reader, func(o *Options) { o.Config = cfg })
	require.NoError(t, err)
	defer m.Close()

	state, err := m.MinerState(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, state.Miner)
	assert.Equal(t, uint64(123), state.Miner.PendingRewards)
	assert.Nil(t, state.Config, "absent records stay nil in the aggregate")

	// write notification forces a refetch on the next read
	before := reader.RemoteCalls()
	m.OnWriteCommitted(owner, core.EntityMiner)
	_, err = m.MinerState(context.Background(), owner)
	require.NoError(t, err)
	assert.Greater(t, reader.RemoteCalls(), before)

	stats := m.CacheStats()
	assert.Positive(t, stats.Hits+stats.Misses)
}

func TestFacadeRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxBatchSize = 0

	_, err := New(testutil.NewFakeReader(), func(o *Options) { o.Config = cfg })
	assert.Error(t, err)
}
