package entry

import "context"

// ListOptions filters ListRecent.
type ListOptions struct {
	IncludeWithdrawals bool
}

// Repository is the durable record store for entries. Every call is atomic
// on its own; no atomicity spans several calls.
type Repository interface {
	// Put inserts or replaces the entry with the same EntryID.
	Put(ctx context.Context, e *Entry) error

	// Get returns ErrEntryNotFound when no entry has this id.
	Get(ctx context.Context, entryID string) (*Entry, error)

	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, entryID string) error

	// ListAll returns every entry in no particular order.
	ListAll(ctx context.Context) ([]*Entry, error)

	// ListRecent returns at most limit entries, newest TimestampCreated
	// first, and stops reading once limit matches are found.
	ListRecent(ctx context.Context, limit int, opts ListOptions) ([]*Entry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// ErrEntryNotFound indicates missing entry
type ErrEntryNotFound struct {
	EntryID string
}

func (e ErrEntryNotFound) Error() string {
	return "entry not found: " + e.EntryID
}

// Is matches any ErrEntryNotFound when the target carries no id.
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.EntryID == "" {
		return true
	}
	return e.EntryID == t.EntryID
}
