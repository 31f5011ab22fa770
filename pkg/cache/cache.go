// Package cache stores small CyREST lookups between CLI invocations.
//
// Some CyREST answers never change for a running Cytoscape instance, such
// as the list of supported node shapes. Caching them avoids a round trip
// for every "style shape" call.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under ~/.cache/gocyto (the default)
//   - [RedisCache]: a shared Redis instance, for pipelines run on several hosts
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys are derived from the CyREST base URL so two Cytoscape instances
// never share entries:
//
//	key := cache.ShapesKey("http://127.0.0.1:1234/v1")
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long CyREST lookups stay cached.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ShapesKey returns the key for the NODE_SHAPE values of a CyREST instance.
func ShapesKey(baseURL string) string {
	return hashKey("shapes", baseURL)
}
