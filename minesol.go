// Package minesol provides a high-level façade over the state
// synchronization layer (address derivation, TTL caching & batched ledger
// reads) for the minesol mining program. Most applications interact with
// this package by:
//  1. Creating a Minesol via New() with their ledger RPC reader
//  2. Reading aggregate state (MinerState) or resolving invites (LookupInvite)
//  3. Reporting committed writes (OnWriteCommitted) so stale cache entries
//     are dropped
//
// The façade delegates the work to client.Client while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply env-tuned configuration
// and a structured logger.
package minesol

import (
	"context"

	"github.com/ZaK3939/minesol-go/cache"
	"github.com/ZaK3939/minesol-go/client"
	"github.com/ZaK3939/minesol-go/codec"
	"github.com/ZaK3939/minesol-go/config"
	"github.com/ZaK3939/minesol-go/core"
	"github.com/ZaK3939/minesol-go/logging"
)

// Options configures the Minesol instance.
type Options struct {
	// Config holds the TTL table, batch sizing and retry policy
	// (defaults to config.Default()).
	Config config.Config

	// Decoders overrides individual entity-type decoders
	// (defaults to codec.DefaultRegistry()).
	Decoders map[core.EntityType]core.DecodeFunc

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Minesol is the high-level façade aggregating the underlying state client.
type Minesol struct {
	opts   Options
	client *client.Client
}

// New creates a new Minesol instance over the given ledger reader with
// optional overrides. Any unset option is initialized with library defaults.
func New(reader core.RemoteReader, optFns ...func(o *Options)) (*Minesol, error) {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c, err := client.New(reader, func(o *client.Options) {
		o.Config = opts.Config
		o.Decoders = opts.Decoders
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}
	return &Minesol{opts: opts, client: c}, nil
}

// MinerState returns the aggregate state for an owner with minimal remote
// round-trips.
func (m *Minesol) MinerState(ctx context.Context, ownerKey []byte) (*client.MinerState, error) {
	return m.client.GetMinerState(ctx, ownerKey)
}

// LookupInvite resolves an invite record through its salted digest.
func (m *Minesol) LookupInvite(ctx context.Context, code []byte, issuer []byte) (*codec.InviteRecord, error) {
	return m.client.LookupInvite(ctx, code, issuer)
}

// OnWriteCommitted reports a committed mutating transaction so affected
// cache entries are invalidated before the next read.
func (m *Minesol) OnWriteCommitted(ownerKey []byte, affected ...core.EntityType) {
	m.client.OnWriteCommitted(ownerKey, affected...)
}

// CacheStats exposes the underlying cache counters.
func (m *Minesol) CacheStats() cache.StatsSnapshot {
	return m.client.CacheStats()
}

// Close releases background resources.
func (m *Minesol) Close() {
	m.client.Close()
}
