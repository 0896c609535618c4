// Package config holds the construction-time configuration of the state
// synchronization layer: the per-entity-type TTL table, batch sizing, retry
// policy, cache sweep interval and the invite salt. A Config is fixed once a
// client is built from it; nothing here is runtime-mutable by callers.
//
// Default() returns library defaults suitable for most deployments.
// FromEnv() overlays defaults with MINESOL_* environment variables for
// operational tuning without code changes.
package config
