package repositories

import (
	"context"
)

// Well-known document keys.
const (
	JournalEntriesKey      = "journal_entries"
	JournalEntryCounterKey = "journal_entry_counter"
)

// DocumentReader defines read operations on a key/value document store
type DocumentReader interface {
	// Get returns the raw JSON stored under key, or apperrors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

// DocumentWriter defines write operations on a key/value document store
type DocumentWriter interface {
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// DocumentTx is the view of the store inside an Update call.
// Reads observe writes made earlier in the same transaction.
type DocumentTx interface {
	DocumentReader
	DocumentWriter
}

// DocumentStore is the persistence boundary for the ledger.
type DocumentStore interface {
	DocumentReader
	DocumentWriter

	// Update runs fn in a single transaction. All writes made through tx commit together
	// when fn returns nil and are discarded otherwise. Concurrent Update calls are serialized.
	Update(ctx context.Context, fn func(tx DocumentTx) error) error

	// Close releases the underlying resources.
	Close() error
}
