package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// ResultCache is the key-value boundary used to memoize query results.
// Values are opaque byte snapshots; callers serialize before Set and
// deserialize after Get, so a cached entry can never be mutated in place
// by one caller and observed corrupted by another.
//
// There is no invalidation on write: creates and updates do not evict
// matching entries, so readers may observe results up to one TTL stale.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Entry time-to-live per query type
const (
	SearchTTL    = 5 * time.Minute
	TopSpendTTL  = 10 * time.Minute
	AnalyticsTTL = time.Hour
)

// Fingerprint derives a deterministic cache key from a namespace and all
// parameters that affect the result. Equal parameter sets always produce
// the same key; any differing parameter produces a different one.
func Fingerprint(namespace string, parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return namespace + ":" + hex.EncodeToString(h[:])
}
