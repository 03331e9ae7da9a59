// Package settings describes the key/value store the engine keeps its own
// configuration in.
package settings

import (
	"context"
	"encoding/json"
)

// Well-known keys.
const (
	KeyFX         = "fx"
	KeyLastSyncAt = "lastSyncAt"
)

// Repository stores opaque JSON values by key. It never inspects a value.
type Repository interface {
	// Get returns nil and no error when the key was never set.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	// Delete is a no-op for unknown keys.
	Delete(ctx context.Context, key string) error
}
