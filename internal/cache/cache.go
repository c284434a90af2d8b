// Package cache provides the time-bounded result cache used by the rate
// lookup service: an explicit mapping from a string key to a value with an
// insertion time, expired on read after the configured TTL.
package cache

// Cache defines a generic TTL cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache; the second return is false
	// for missing or expired entries
	Get(key string) (T, bool)

	// Set stores a value in the cache with the configured TTL
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// Cleaner is implemented by caches that support explicit removal of
// expired entries
type Cleaner interface {
	CleanExpired() int
}
