// Package kv persists the scanner's small amount of state (preferences and
// history) as JSON-encoded values under string keys.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("kv: store closed")

// Store is a last-write-wins key-value store. Every Set overwrites the
// previous value for the key in full.
type Store interface {
	// Bool returns the stored value and whether the key was present.
	Bool(ctx context.Context, key string) (bool, bool, error)
	SetBool(ctx context.Context, key string, v bool) error

	// Strings returns nil when the key is absent.
	Strings(ctx context.Context, key string) ([]string, error)
	SetStrings(ctx context.Context, key string, v []string) error

	Delete(ctx context.Context, key string) error
	Close() error
}
