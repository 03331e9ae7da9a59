// Package memory keeps entries and settings in process memory. It backs the
// memory storage driver and the service tests.
package memory

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/travel-ledger/internal/domain/entry"
)

// EntryRepository stores entries by id and keeps them ordered by creation
// time, oldest first, so recent listings scan from the end and stop early.
type EntryRepository struct {
	mu      sync.RWMutex
	byID    map[string][]byte
	ordered []*orderedKey
}

type orderedKey struct {
	id      string
	created int64
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{byID: map[string][]byte{}}
}

// Entries are stored encoded so callers never share memory with the store.
func (r *EntryRepository) Put(_ context.Context, e *entry.Entry) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[e.EntryID]; ok {
		r.removeKey(e.EntryID)
	}
	r.byID[e.EntryID] = doc

	key := &orderedKey{id: e.EntryID, created: e.TimestampCreated.UnixNano()}
	i, _ := slices.BinarySearchFunc(r.ordered, key, compareKeys)
	r.ordered = slices.Insert(r.ordered, i, key)
	return nil
}

func (r *EntryRepository) Get(_ context.Context, entryID string) (*entry.Entry, error) {
	r.mu.RLock()
	doc, ok := r.byID[entryID]
	r.mu.RUnlock()
	if !ok {
		return nil, entry.ErrEntryNotFound{EntryID: entryID}
	}
	return decode(doc)
}

func (r *EntryRepository) Delete(_ context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[entryID]; !ok {
		return nil
	}
	delete(r.byID, entryID)
	r.removeKey(entryID)
	return nil
}

func (r *EntryRepository) ListAll(_ context.Context) ([]*entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*entry.Entry, 0, len(r.byID))
	for _, doc := range r.byID {
		e, err := decode(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *EntryRepository) ListRecent(_ context.Context, limit int, opts entry.ListOptions) ([]*entry.Entry, error) {
	entries := []*entry.Entry{}
	if limit <= 0 {
		return entries, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.ordered) - 1; i >= 0; i-- {
		e, err := decode(r.byID[r.ordered[i].id])
		if err != nil {
			return nil, err
		}
		if !opts.IncludeWithdrawals && e.IsCashWithdrawal() {
			continue
		}
		entries = append(entries, e)
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (r *EntryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = map[string][]byte{}
	r.ordered = nil
	return nil
}

func (r *EntryRepository) removeKey(entryID string) {
	r.ordered = slices.DeleteFunc(r.ordered, func(k *orderedKey) bool { return k.id == entryID })
}

// compareKeys orders by creation time, then id, matching the SQL backends.
func compareKeys(a, b *orderedKey) int {
	if a.created != b.created {
		if a.created < b.created {
			return -1
		}
		return 1
	}
	return strings.Compare(a.id, b.id)
}

func decode(doc []byte) (*entry.Entry, error) {
	var e entry.Entry
	if err := json.Unmarshal(doc, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
