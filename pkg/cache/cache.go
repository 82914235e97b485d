// Package cache provides pluggable byte caches and the key scheme used to
// cache computed layouts.
//
// Three backends are provided: a file cache for CLI usage, a Redis cache for
// server deployments, and a null cache that disables caching entirely. All
// backends store opaque byte slices; serialization is the caller's concern.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact kind.
const (
	// LayoutTTL bounds how long a computed layout stays valid. Layouts are
	// pure functions of graph and config, so the TTL exists only to bound
	// disk usage.
	LayoutTTL = 7 * 24 * time.Hour

	// DocumentTTL bounds cached document conversions.
	DocumentTTL = 24 * time.Hour
)

// Cache is a byte store with expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and fresh; expired or missing entries are a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the artifact kinds mindgrid caches.
// Implementations must be deterministic: identical inputs produce identical
// keys across processes.
type Keyer interface {
	// LayoutKey identifies a computed layout: the graph content hash plus
	// everything that changes the output (algorithm and config).
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// DocumentKey identifies a converted document by source content hash and
	// target format.
	DocumentKey(contentHash, format string) string
}

// LayoutKeyOpts captures the inputs that change a layout result.
type LayoutKeyOpts struct {
	Algorithm string `json:"algorithm"`
	// Config is the full layout configuration; any field change produces a
	// different key.
	Config any `json:"config"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// DocumentKey generates a key for document conversion caching.
func (k *DefaultKeyer) DocumentKey(contentHash, format string) string {
	return hashKey("document", contentHash, format)
}
