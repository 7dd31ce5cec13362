// Package store is the expiring key-value layer session state lives in. Two
// interchangeable variants exist: a Redis-backed one for shared deployments
// and a process-local in-memory one for single-process/dev use.
package store

import (
	"context"
	"time"
)

// Store is the capability set the session layer needs from a backend.
// Get reports a missing key as (nil, nil), never as an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX writes only when key does not exist and reports whether it won.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	AppendToList(ctx context.Context, key string, item []byte, ttl time.Duration) error
	GetList(ctx context.Context, key string) ([][]byte, error)
	// RefreshTTL resets the expiry of every given key without altering values.
	RefreshTTL(ctx context.Context, ttl time.Duration, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
