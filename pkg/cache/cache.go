// Package cache provides the caching layer for the arraymodel pipeline.
//
// The only expensive operation in the pipeline is the catalog fetch, so the
// cache stores catalog responses keyed by telescope configuration. Keys are
// generated through a Keyer so that key construction stays in one place.
package cache

import (
	"context"
	"time"
)

// Cache TTLs per data class.
const (
	// TTLCatalog is how long fetched station catalogs stay fresh. Array
	// configurations change rarely (new stations are commissioned over
	// months), so a day is conservative.
	TTLCatalog = 24 * time.Hour

	// TTLHTTP is the default TTL for raw HTTP response caching.
	TTLHTTP = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTLs.
// Implementations: FileCache (on-disk, CLI default), NullCache (disabled).
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// CatalogKeyOpts are the options that affect a cached catalog entry.
type CatalogKeyOpts struct {
	BaseURL string
}

// Keyer generates cache keys for the different cached data classes.
type Keyer interface {
	// HTTPKey generates a key for raw HTTP response caching.
	HTTPKey(namespace, key string) string

	// CatalogKey generates a key for a fetched station catalog.
	CatalogKey(telescope string, opts CatalogKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// CatalogKey generates a key for a fetched station catalog. The base URL is
// part of the key so that switching catalog endpoints never serves stale
// entries from another service.
func (k *DefaultKeyer) CatalogKey(telescope string, opts CatalogKeyOpts) string {
	return hashKey("catalog", telescope, opts.BaseURL)
}
