package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

type SettingsRepository struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{values: map[string]json.RawMessage{}}
}

func (r *SettingsRepository) Get(_ context.Context, key string) (json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(value), nil
}

func (r *SettingsRepository) Set(_ context.Context, key string, value json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = slices.Clone(value)
	return nil
}

func (r *SettingsRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, key)
	return nil
}
