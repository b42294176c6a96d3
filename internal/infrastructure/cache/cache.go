// Package cache stores computed report read models in Redis, or in process
// memory when Redis is not configured.
package cache

import (
	"context"
	"time"
)

// Store is a byte cache with expiry and prefix invalidation
type Store interface {
	// Get returns the value for key. A miss returns ok == false and no error.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
	// Close releases the store's resources
	Close() error
}
