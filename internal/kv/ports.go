// Package kv defines the key-value persistence surface the domain store
// saves its collections to. Each collection is one serialized blob under a
// stable key.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or was removed.
var ErrNotFound = errors.New("key not found")

type (
	Reader interface {
		Get(ctx context.Context, key string) ([]byte, error)
	}

	Writer interface {
		Set(ctx context.Context, key string, value []byte) error
		Remove(ctx context.Context, key string) error
	}

	// Store is a key-value backend. Implementations must be safe for
	// concurrent use; the domain store reads and writes from different goroutines.
	Store interface {
		Reader
		Writer
		Close() error
	}
)
