package client

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ZaK3939/minesol-go/batch"
	"github.com/ZaK3939/minesol-go/cache"
	"github.com/ZaK3939/minesol-go/codec"
	"github.com/ZaK3939/minesol-go/config"
	"github.com/ZaK3939/minesol-go/core"
	"github.com/ZaK3939/minesol-go/derive"
	"github.com/ZaK3939/minesol-go/logging"
)

// ErrInviteNotFound is returned by LookupInvite when no record exists for
// the code/issuer pair.
var ErrInviteNotFound = errors.New("client: invite record not found")

// MinerState is the aggregate read model for one owner. Fields the ledger
// has no record for (or that could not be read this call) are nil; the
// aggregate's fields may reflect slightly different remote read times.
type MinerState struct {
	Owner   []byte
	Config  *codec.Config
	Global  *codec.GlobalState
	Miner   *codec.Miner
	Holding *codec.Holding
}

// Client is the state synchronization façade. Safe for concurrent use.
type Client struct {
	cfg      config.Config
	cache    *cache.Store
	coord    *batch.Coordinator
	decoders map[core.EntityType]core.DecodeFunc
	logger   logging.Logger
	sf       singleflight.Group
}

// Options configures a Client.
type Options struct {
	// Config defaults to config.Default().
	Config config.Config
	// Decoders defaults to codec.DefaultRegistry(); individual entries may
	// be overridden.
	Decoders map[core.EntityType]core.DecodeFunc
	// Logger defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// New builds a Client over the given remote reader. Any unset option falls
// back to library defaults.
func New(reader core.RemoteReader, optFns ...func(*Options)) (*Client, error) {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	decoders := codec.DefaultRegistry()
	for t, fn := range opts.Decoders {
		decoders[t] = fn
	}

	store := cache.New(opts.Config.TTLTable(), func(o *cache.Options) {
		o.SweepInterval = opts.Config.SweepInterval
		o.Logger = opts.Logger
	})
	coord := batch.New(reader, func(o *batch.Options) {
		o.MaxBatchSize = opts.Config.MaxBatchSize
		o.RetryCount = opts.Config.RetryCount
		o.BaseDelay = opts.Config.RetryBaseDelay
		o.Logger = opts.Logger
	})

	return &Client{
		cfg:      opts.Config,
		cache:    store,
		coord:    coord,
		decoders: decoders,
		logger:   opts.Logger,
	}, nil
}

// planEntry pairs one sub-entity of an aggregate with its derived address
// and cache key.
type planEntry struct {
	typ  core.EntityType
	key  core.EntityKey
	addr core.Address
}

// GetMinerState returns the aggregate state for ownerKey: program config,
// global mining state, the owner's miner profile and token holding. Cached
// values within TTL are served without remote calls; misses are batched into
// as few reads as possible. Concurrent calls for the same owner share one
// fetch.
func (c *Client) GetMinerState(ctx context.Context, ownerKey []byte) (*MinerState, error) {
	if len(ownerKey) == 0 {
		return nil, errors.New("client: owner key required")
	}

	scope := hex.EncodeToString(ownerKey)
	v, err, _ := c.sf.Do("miner_state:"+scope, func() (any, error) {
		return c.assembleMinerState(ctx, ownerKey)
	})
	if err != nil {
		return nil, err
	}
	return v.(*MinerState), nil
}

func (c *Client) assembleMinerState(ctx context.Context, ownerKey []byte) (*MinerState, error) {
	plan, err := c.minerStatePlan(ownerKey)
	if err != nil {
		return nil, err
	}

	values, fetchErr := c.resolve(ctx, plan)

	state := &MinerState{Owner: append([]byte(nil), ownerKey...)}
	for _, p := range plan {
		v, ok := values[p.key]
		if !ok {
			continue
		}
		switch tv := v.(type) {
		case codec.Config:
			state.Config = &tv
		case codec.GlobalState:
			state.Global = &tv
		case codec.Miner:
			state.Miner = &tv
		case codec.Holding:
			state.Holding = &tv
		}
	}

	// Best-effort partials: surface the remote failure only when nothing
	// at all could be served.
	if fetchErr != nil && len(values) == 0 {
		return nil, fmt.Errorf("client: aggregate state for owner %s: %w", hex.EncodeToString(ownerKey), fetchErr)
	}
	return state, nil
}

// minerStatePlan derives the addresses making up one owner's aggregate.
func (c *Client) minerStatePlan(ownerKey []byte) ([]planEntry, error) {
	types := []core.EntityType{
		core.EntityConfig,
		core.EntityGlobalState,
		core.EntityMiner,
		core.EntityHolding,
	}
	plan := make([]planEntry, 0, len(types))
	for _, t := range types {
		addr, err := derive.ForEntity(t, ownerKey)
		if err != nil {
			return nil, err
		}
		key := core.GlobalKey(t)
		if !t.Global() {
			key = core.OwnerKey(t, ownerKey)
		}
		plan = append(plan, planEntry{typ: t, key: key, addr: addr})
	}
	return plan, nil
}

// resolve partitions the plan into cache hits and misses, batch-fetches the
// misses, decodes them and writes fresh values back to the cache. It returns
// whatever could be resolved plus the fetch error, if any.
func (c *Client) resolve(ctx context.Context, plan []planEntry) (map[core.EntityKey]any, error) {
	values := make(map[core.EntityKey]any, len(plan))
	var misses []planEntry
	for _, p := range plan {
		if v, ok := c.cache.Get(p.key); ok {
			values[p.key] = v
			continue
		}
		misses = append(misses, p)
	}
	if len(misses) == 0 {
		return values, nil
	}

	reqs := make([]core.Request, len(misses))
	for i, p := range misses {
		reqs[i] = core.Request{Address: p.addr, Label: p.key.String()}
	}

	recs, err := c.coord.FetchMany(ctx, reqs)
	if err != nil {
		return values, err
	}

	for i, rec := range recs {
		p := misses[i]
		if !rec.Exists {
			continue
		}
		dec, ok := c.decoders[p.typ]
		if !ok {
			c.logger.Warn("no decoder for entity type, treating as absent", "type", p.typ.String())
			continue
		}
		v, err := dec(rec.Data)
		if err != nil {
			// Treat as a miss for this call only: not cached, so the
			// next call retries the fetch.
			c.logger.Warn("decode failed, treating record as absent",
				"key", p.key.String(), "error", err)
			continue
		}
		c.cache.Put(p.key, v)
		values[p.key] = v
	}
	return values, nil
}

// LookupInvite resolves the invite record for (code, issuer) through the
// salted digest, never touching the plaintext code as a lookup key.
// Returns ErrInviteNotFound when the ledger has no such record.
func (c *Client) LookupInvite(ctx context.Context, code []byte, issuer []byte) (*codec.InviteRecord, error) {
	addr, digest, err := derive.InviteAddress(code, issuer, c.cfg.Salt())
	if err != nil {
		return nil, err
	}
	key := core.DigestKey(core.EntityInvite, digest)

	v, err, _ := c.sf.Do("invite:"+digest.String(), func() (any, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		recs, err := c.coord.FetchMany(ctx, []core.Request{{Address: addr, Label: key.String()}})
		if err != nil {
			return nil, err
		}
		if len(recs) != 1 || !recs[0].Exists {
			return nil, ErrInviteNotFound
		}
		rec, err := codec.DecodeInvite(recs[0].Data)
		if err != nil {
			return nil, fmt.Errorf("client: invite record: %w", err)
		}
		c.cache.Put(key, rec)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec := v.(codec.InviteRecord)
	return &rec, nil
}

// InvalidateInvite drops the cached invite record for (code, issuer), used
// after a redemption transaction commits.
func (c *Client) InvalidateInvite(code []byte, issuer []byte) error {
	digest, err := derive.HashInvite(code, issuer, c.cfg.Salt())
	if err != nil {
		return err
	}
	c.cache.Invalidate(core.DigestKey(core.EntityInvite, digest))
	return nil
}

// InvalidateAfterWrite removes the cache entries a committed write made
// stale so the next read is forced to the ledger. With no explicit types it
// invalidates every per-owner entry plus the global state counter (every
// mutating program instruction touches it).
func (c *Client) InvalidateAfterWrite(ownerKey []byte, types ...core.EntityType) {
	scope := hex.EncodeToString(ownerKey)
	if len(types) == 0 {
		c.cache.InvalidateOwner(scope)
		c.cache.Invalidate(core.GlobalKey(core.EntityGlobalState))
		return
	}
	for _, t := range types {
		if t.Global() {
			c.cache.Invalidate(core.GlobalKey(t))
			continue
		}
		c.cache.Invalidate(core.EntityKey{Type: t, Scope: scope})
	}
}

// OnWriteCommitted is the write-notification hook for the external
// transaction layer; it is InvalidateAfterWrite under the name the
// transaction layer calls it by.
func (c *Client) OnWriteCommitted(ownerKey []byte, affected ...core.EntityType) {
	c.InvalidateAfterWrite(ownerKey, affected...)
}

// CacheStats exposes the cache counters for observability.
func (c *Client) CacheStats() cache.StatsSnapshot {
	return c.cache.Stats()
}

// Close stops background cache maintenance.
func (c *Client) Close() {
	c.cache.Close()
}
