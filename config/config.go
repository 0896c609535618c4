package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ZaK3939/minesol-go/core"
	"github.com/ZaK3939/minesol-go/derive"
)

// Config is the construction-time configuration of the sync layer.
//
// TTLs follow the record's rate of change: program configuration moves on
// governance timescales (minutes), the global counter and per-miner state
// move every few slots (tens of seconds). Invite records change only on
// issue/redeem, so they sit in between.
type Config struct {
	ConfigTTL      time.Duration `env:"MINESOL_CONFIG_TTL" envDefault:"5m"`
	GlobalStateTTL time.Duration `env:"MINESOL_GLOBAL_STATE_TTL" envDefault:"30s"`
	MinerTTL       time.Duration `env:"MINESOL_MINER_TTL" envDefault:"15s"`
	HoldingTTL     time.Duration `env:"MINESOL_HOLDING_TTL" envDefault:"15s"`
	InviteTTL      time.Duration `env:"MINESOL_INVITE_TTL" envDefault:"2m"`

	// MaxBatchSize bounds one BatchGet call; it must not exceed the ledger
	// RPC's own batch limit.
	MaxBatchSize int `env:"MINESOL_MAX_BATCH_SIZE" envDefault:"100"`

	// RetryCount and RetryBaseDelay shape the exponential-backoff retry
	// wrapper around a whole fetch. Retries are top-level only, never
	// per-chunk.
	RetryCount     int           `env:"MINESOL_RETRY_COUNT" envDefault:"3"`
	RetryBaseDelay time.Duration `env:"MINESOL_RETRY_BASE_DELAY" envDefault:"200ms"`

	// SweepInterval is the period of the cache's background expiry sweep.
	// Zero disables the sweep; lazy eviction on read still guarantees no
	// stale value is ever returned.
	SweepInterval time.Duration `env:"MINESOL_SWEEP_INTERVAL" envDefault:"60s"`

	// InviteSalt is the public domain-separation constant for invite
	// digests. Empty means derive.DefaultInviteSalt.
	InviteSalt string `env:"MINESOL_INVITE_SALT"`
}

// Default returns the library default configuration.
func Default() Config {
	return Config{
		ConfigTTL:      5 * time.Minute,
		GlobalStateTTL: 30 * time.Second,
		MinerTTL:       15 * time.Second,
		HoldingTTL:     15 * time.Second,
		InviteTTL:      2 * time.Minute,
		MaxBatchSize:   100,
		RetryCount:     3,
		RetryBaseDelay: 200 * time.Millisecond,
		SweepInterval:  60 * time.Second,
	}
}

// FromEnv builds a Config from MINESOL_* environment variables, falling back
// to the defaults above for anything unset.
func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return c, nil
}

// Validate rejects configurations that cannot work.
func (c Config) Validate() error {
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("config: MaxBatchSize must be >= 1, got %d", c.MaxBatchSize)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("config: RetryCount must be >= 0, got %d", c.RetryCount)
	}
	for _, t := range core.EntityTypes {
		if c.TTLFor(t) <= 0 {
			return fmt.Errorf("config: TTL for %s must be positive", t)
		}
	}
	return nil
}

// TTLFor returns the configured TTL for an entity type.
func (c Config) TTLFor(t core.EntityType) time.Duration {
	switch t {
	case core.EntityConfig:
		return c.ConfigTTL
	case core.EntityGlobalState:
		return c.GlobalStateTTL
	case core.EntityMiner:
		return c.MinerTTL
	case core.EntityHolding:
		return c.HoldingTTL
	case core.EntityInvite:
		return c.InviteTTL
	default:
		return 0
	}
}

// TTLTable materializes the per-type TTL map handed to the cache store.
func (c Config) TTLTable() map[core.EntityType]time.Duration {
	table := make(map[core.EntityType]time.Duration, len(core.EntityTypes))
	for _, t := range core.EntityTypes {
		table[t] = c.TTLFor(t)
	}
	return table
}

// Salt returns the effective invite salt bytes.
func (c Config) Salt() []byte {
	if c.InviteSalt == "" {
		return derive.DefaultInviteSalt
	}
	return []byte(c.InviteSalt)
}
