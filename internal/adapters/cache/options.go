package cache

import (
	"time"

	"github.com/okian/portal/pkg/logger"
)

// MemoryOption applies a configuration option to the Memory cache.
type MemoryOption func(*Memory)

// WithMaxSize sets the maximum number of reports kept in memory.
// If maxSize > 0: bounded mode with LRU eviction.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) MemoryOption {
	return func(m *Memory) {
		m.maxSize = maxSize
	}
}

// RedisOption applies a configuration option to the Redis cache.
type RedisOption func(*Redis)

// WithTTL sets how long reports live in Redis. Zero means no expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl >= 0 {
			r.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces every key written to Redis. Empty keeps the
// default prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithDB selects the Redis logical database.
func WithDB(db int) RedisOption {
	return func(r *Redis) {
		r.db = db
	}
}

// WithPassword sets the Redis password.
func WithPassword(password string) RedisOption {
	return func(r *Redis) {
		r.password = password
	}
}

// WithLogger sets a custom logger for the Redis cache.
func WithLogger(l logger.Logger) RedisOption {
	return func(r *Redis) {
		if l != nil {
			r.logger = l
		}
	}
}
