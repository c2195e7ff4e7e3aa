// Package cache provides byte-level caching for generated gaskets and their
// exported artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// All backends implement [Cache] and are safe for concurrent use.
//
// # Keys
//
// A [Keyer] derives cache keys from generation and export options. Keys
// are a short prefix followed by a SHA-256 hash of the options, so equal
// options always map to the same entry. [ScopedKeyer] prefixes every key to
// isolate namespaces sharing one backend.
package cache

import (
	"context"
	"time"
)

// Default TTLs. Generation is deterministic, so entries only expire to bound
// storage.
const (
	TTLGasket   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer generates cache keys.
type Keyer interface {
	// GasketKey identifies a generated gasket.
	GasketKey(opts GasketKeyOpts) string

	// ArtifactKey identifies an exported artifact of the gasket whose
	// serialized document hashes to gasketHash.
	ArtifactKey(gasketHash string, opts ArtifactKeyOpts) string
}

// GasketKeyOpts holds everything that determines a generated gasket.
// Random generations leave Seed zero and key on the RNG inputs instead.
type GasketKeyOpts struct {
	Seed     [3][2]float64 `json:"seed"`
	MaxDepth int           `json:"max_depth"`
	Policy   string        `json:"policy"`

	RNGSeed  uint64  `json:"rng_seed,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Attempts int     `json:"attempts,omitempty"`
}

// ArtifactKeyOpts holds everything that determines an export.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GasketKey returns "gasket:<sha256>".
func (DefaultKeyer) GasketKey(opts GasketKeyOpts) string {
	return hashKey("gasket", opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(gasketHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", gasketHash, opts)
}
